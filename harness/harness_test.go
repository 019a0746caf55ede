package harness

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ezrec/handoff/channel"
	"github.com/ezrec/handoff/source"
)

func TestRun_Reference(t *testing.T) {
	assert := assert.New(t)

	report, err := Run(context.Background(), Config{
		Count:  DEFAULT_COUNT,
		Seed:   1,
		Logger: zaptest.NewLogger(t),
	})
	assert.NoError(err)
	assert.NoError(report.Verify())

	assert.Len(report.Produced, DEFAULT_COUNT)
	assert.Equal(report.Produced, report.Consumed)
	assert.Equal(channel.Empty, report.Final)
	assert.Equal(uint64(DEFAULT_COUNT), report.Stats.Puts)
	assert.Equal(uint64(DEFAULT_COUNT), report.Stats.Takes)

	// The default source replays its seed.
	want := source.NewRandom(1)
	for n, got := range report.Produced {
		v, _ := want.Next(n)
		assert.Equal(v, got)
	}
}

func TestRun_Sequence(t *testing.T) {
	assert := assert.New(t)

	values := source.Sequence{5, 4, 3, 2, 1, 0, -1}

	var seen []int32
	var index []int
	report, err := Run(context.Background(), Config{
		Count:  len(values),
		Source: values,
		OnTake: func(n int, v int32) {
			index = append(index, n)
			seen = append(seen, v)
		},
	})
	assert.NoError(err)
	assert.NoError(report.Verify())
	assert.Equal([]int32(values), report.Consumed)
	assert.Equal([]int32(values), seen)
	assert.Equal([]int{0, 1, 2, 3, 4, 5, 6}, index)
}

func TestRun_Zero(t *testing.T) {
	assert := assert.New(t)

	report, err := Run(context.Background(), Config{Count: 0})
	assert.NoError(err)
	assert.NoError(report.Verify())
	assert.Empty(report.Consumed)
	assert.Equal(channel.Stats{}, report.Stats)
}

func TestRun_CountInvalid(t *testing.T) {
	assert := assert.New(t)

	report, err := Run(context.Background(), Config{Count: -1})
	assert.Nil(report)
	assert.Equal(ErrCountInvalid, err)
}

func TestRun_SourceExhausted(t *testing.T) {
	assert := assert.New(t)

	report, err := Run(context.Background(), Config{
		Count:  4,
		Source: source.Sequence{1, 2},
	})

	var rerr *ErrRole
	assert.True(errors.As(err, &rerr))
	assert.Equal("producer", rerr.Role)
	assert.Equal(2, rerr.Index)
	assert.ErrorIs(err, source.ErrSourceExhausted)

	// The consumer was released instead of waiting forever.
	assert.Equal([]int32{1, 2}, report.Produced)
	assert.Equal([]int32{1, 2}, report.Consumed)
	assert.NoError(report.Verify())
}

func TestRun_Canceled(t *testing.T) {
	assert := assert.New(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := Run(ctx, Config{Count: 3, Source: source.Sequence{1, 2, 3}})
	assert.ErrorIs(err, context.Canceled)
	assert.Empty(report.Produced)
	assert.Empty(report.Consumed)
	assert.Equal(channel.Empty, report.Final)
}

func TestRun_Timeout(t *testing.T) {
	assert := assert.New(t)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	report, err := Run(ctx, Config{
		Count:  1000,
		Jitter: 5 * time.Millisecond,
	})
	assert.ErrorIs(err, channel.ErrTimeout)
	assert.NoError(report.Verify())
}

// lateSource cancels the run while producing index 1, then returns only
// after the consumer has had time to give up.
type lateSource struct {
	cancel context.CancelFunc
}

func (src *lateSource) Next(index int) (value int32, err error) {
	if index == 1 {
		src.cancel()
		time.Sleep(50 * time.Millisecond)
	}
	value = int32(index + 1)
	return
}

func TestRun_AbortedDrainsSlot(t *testing.T) {
	assert := assert.New(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	report, err := Run(ctx, Config{Count: 3, Source: &lateSource{cancel: cancel}})
	assert.ErrorIs(err, context.Canceled)

	assert.Equal([]int32{1}, report.Produced)
	assert.Equal([]int32{1}, report.Consumed)
	assert.Equal([]int32{2}, report.Undelivered)
	assert.Equal(channel.Empty, report.Final)
	assert.Equal(report.Stats.Puts, report.Stats.Takes)
	assert.NoError(report.Verify())
}

func TestRun_AbortedReportsVerify(t *testing.T) {
	assert := assert.New(t)

	for run := range 50 {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Millisecond)
		report, err := Run(ctx, Config{
			Count:  1000,
			Seed:   int64(run + 1),
			Jitter: 2 * time.Millisecond,
		})
		cancel()

		assert.Error(err, "run %d", run)
		assert.NoError(report.Verify(), "run %d", run)
		assert.LessOrEqual(len(report.Undelivered), 1, "run %d", run)
	}
}

func TestRun_Watch(t *testing.T) {
	assert := assert.New(t)

	var watched *channel.Handoff[int32]
	report, err := Run(context.Background(), Config{
		Count: 3,
		Watch: func(h *channel.Handoff[int32]) {
			watched = h
		},
	})
	assert.NoError(err)
	assert.NotNil(watched)
	assert.Equal(report.Stats, watched.Stats())
}

func TestRun_Logging(t *testing.T) {
	assert := assert.New(t)

	core, logs := observer.New(zapcore.DebugLevel)
	_, err := Run(context.Background(), Config{
		Count:  6,
		Seed:   3,
		Logger: zap.New(core),
	})
	assert.NoError(err)

	assert.Equal(6, logs.FilterMessage("put").Len())
	assert.Equal(6, logs.FilterMessage("take").Len())

	done := logs.FilterMessage("handoff complete").All()
	assert.Len(done, 1)
	assert.Equal(int64(6), done[0].ContextMap()["count"])
	assert.Equal("EMPTY", done[0].ContextMap()["final"])
}

func TestRun_LoggingAborted(t *testing.T) {
	assert := assert.New(t)

	core, logs := observer.New(zapcore.InfoLevel)
	_, err := Run(context.Background(), Config{
		Count:  2,
		Source: source.Sequence{},
		Logger: zap.New(core),
	})
	assert.Error(err)
	assert.Equal(1, logs.FilterMessage("handoff aborted").Len())
	assert.Equal(0, logs.FilterMessage("handoff complete").Len())
}

func TestReport_Verify(t *testing.T) {
	assert := assert.New(t)

	report := &Report{
		Produced: []int32{1, 2, 3},
		Consumed: []int32{1, 2},
	}
	var lerr *ErrLength
	assert.True(errors.As(report.Verify(), &lerr))
	assert.Equal(3, lerr.Produced)
	assert.Equal(2, lerr.Consumed)

	report.Consumed = []int32{1, 3, 2}
	var verr *ErrValueMismatch
	assert.True(errors.As(report.Verify(), &verr))
	assert.Equal(&ErrValueMismatch{Index: 1, Want: 2, Got: 3}, verr)

	report.Consumed = []int32{1, 2, 3}
	report.Final = channel.Full
	assert.Equal(ErrNotEmpty, report.Verify())

	report.Final = channel.Empty
	assert.NoError(report.Verify())
}

func TestStress(t *testing.T) {
	runs := 1000
	if testing.Short() {
		runs = 100
	}

	err := Stress(context.Background(), runs, Config{
		Count: DEFAULT_COUNT,
		Seed:  100,
		Yield: true,
	})
	assert.NoError(t, err)
}

func TestStress_Jitter(t *testing.T) {
	err := Stress(context.Background(), 20, Config{
		Count:  5,
		Seed:   7,
		Jitter: 200 * time.Microsecond,
		Yield:  true,
	})
	assert.NoError(t, err)
}

func TestStress_Failure(t *testing.T) {
	assert := assert.New(t)

	script, err := source.NewScript("10 // (5 - i)", 0)
	assert.NoError(err)

	err = Stress(context.Background(), 3, Config{Count: 8, Source: script})

	var rerr *ErrRun
	assert.True(errors.As(err, &rerr))
	assert.Equal(0, rerr.Run)
	assert.NotZero(rerr.Seed)
	assert.Contains(err.Error(), "(seed "+strconv.FormatInt(rerr.Seed, 10)+")")

	var serr *source.ErrScript
	assert.True(errors.As(err, &serr))
}

func TestRunSeed(t *testing.T) {
	assert := assert.New(t)

	table := []struct {
		base  int64
		seeds []int64
	}{
		{base: 1, seeds: []int64{1, 2, 3, 4}},
		{base: 100, seeds: []int64{100, 101, 102, 103}},
		{base: -2, seeds: []int64{-2, -1, 1, 2}},
		{base: -1, seeds: []int64{-1, 1, 2, 3}},
	}

	for _, entry := range table {
		var seeds []int64
		for run := range len(entry.seeds) {
			seeds = append(seeds, runSeed(entry.base, run))
		}
		assert.Equal(entry.seeds, seeds, "base %d", entry.base)
	}
}
