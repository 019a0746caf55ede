// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package harness drives a handoff with one producer goroutine and one
// consumer goroutine for a fixed number of handoffs, then reports what each
// side saw.
package harness

import (
	"context"
	"math/rand"
	"runtime"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ezrec/handoff/channel"
	"github.com/ezrec/handoff/source"
)

const (
	DEFAULT_COUNT = 10 // Handoffs in the reference exercise.
)

// Config of a harness run.
type Config struct {
	Count  int           // Number of handoffs.
	Source source.Source // Payload generator; nil draws from NewRandom(Seed).
	Seed   int64         // Seeds the default source and the jitter.
	Jitter time.Duration // Upper bound of a random sleep before each operation.
	Yield  bool          // Yield the processor 0-3 times before each operation.
	Logger *zap.Logger   // nil disables logging.

	// Watch, if set, receives the run's handoff before either role starts.
	Watch func(h *channel.Handoff[int32])

	// OnTake is called by the consumer after each value is withdrawn.
	OnTake func(index int, value int32)
}

// Report of a completed or failed run.
type Report struct {
	Produced []int32       // Values deposited and withdrawn, in order.
	Consumed []int32       // Values withdrawn, in order.
	Final    channel.State // Slot state after both roles returned.
	Stats    channel.Stats // Handoff counters after both roles returned.

	// Undelivered holds a value deposited after the consumer gave up. It
	// is drained from the slot and is not part of Produced.
	Undelivered []int32
}

// Verify checks that the consumer saw exactly the produced sequence and the
// handoff ended empty.
func (report *Report) Verify() (err error) {
	if len(report.Produced) != len(report.Consumed) {
		err = &ErrLength{Produced: len(report.Produced), Consumed: len(report.Consumed)}
		return
	}

	for n, want := range report.Produced {
		got := report.Consumed[n]
		if got != want {
			err = &ErrValueMismatch{Index: n, Want: want, Got: got}
			return
		}
	}

	if report.Final != channel.Empty {
		err = ErrNotEmpty
		return
	}

	return
}

// jitter perturbs the schedule of one role.
type jitter struct {
	max   time.Duration
	yield bool
	rands *rand.Rand
}

func newJitter(cfg *Config, role int64) *jitter {
	return &jitter{
		max:   cfg.Jitter,
		yield: cfg.Yield,
		rands: rand.New(rand.NewSource(cfg.Seed*2 + role)),
	}
}

func (j *jitter) pause() {
	if j.max > 0 {
		time.Sleep(time.Duration(j.rands.Int63n(int64(j.max))))
	}
	if j.yield {
		for range j.rands.Intn(4) {
			runtime.Gosched()
		}
	}
}

// Run performs cfg.Count handoffs between a producer and a consumer
// goroutine. Both roles stop at the first error of either, or when ctx is
// done; the report then holds the values exchanged so far.
func Run(ctx context.Context, cfg Config) (report *Report, err error) {
	if cfg.Count < 0 {
		err = ErrCountInvalid
		return
	}

	src := cfg.Source
	if src == nil {
		src = source.NewRandom(cfg.Seed)
	}

	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	h := channel.New[int32]()
	if cfg.Watch != nil {
		cfg.Watch(h)
	}

	report = &Report{
		Produced: make([]int32, 0, cfg.Count),
		Consumed: make([]int32, 0, cfg.Count),
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		j := newJitter(&cfg, 0)
		for index := range cfg.Count {
			// Stop producing once the run is over; the consumer still
			// drains whatever was already deposited.
			if gctx.Err() != nil {
				err := &channel.ErrWait{Op: "put", Err: gctx.Err()}
				return &ErrRole{Role: "producer", Index: index, Err: err}
			}
			value, err := src.Next(index)
			if err != nil {
				return &ErrRole{Role: "producer", Index: index, Err: err}
			}
			j.pause()
			err = h.PutContext(gctx, value)
			if err != nil {
				return &ErrRole{Role: "producer", Index: index, Err: err}
			}
			report.Produced = append(report.Produced, value)
			log.Debug("put", zap.Int("index", index), zap.Int32("value", value))
		}
		return nil
	})

	g.Go(func() error {
		j := newJitter(&cfg, 1)
		for index := range cfg.Count {
			j.pause()
			value, err := h.TakeContext(gctx)
			if err != nil {
				return &ErrRole{Role: "consumer", Index: index, Err: err}
			}
			report.Consumed = append(report.Consumed, value)
			log.Debug("take", zap.Int("index", index), zap.Int32("value", value))
			if cfg.OnTake != nil {
				cfg.OnTake(index, value)
			}
		}
		return nil
	})

	err = g.Wait()

	if err != nil {
		// A put that found the slot empty succeeds even once the run is
		// over, so the last produced value may never have been taken.
		if value, ok := h.TryTake(); ok {
			report.Produced = report.Produced[:len(report.Produced)-1]
			report.Undelivered = append(report.Undelivered, value)
		}
	}

	report.Stats, report.Final = h.Snapshot()

	if err != nil {
		log.Warn("handoff aborted",
			zap.Int("produced", len(report.Produced)),
			zap.Int("consumed", len(report.Consumed)),
			zap.Int("undelivered", len(report.Undelivered)),
			zap.Error(err))
		return
	}

	log.Info("handoff complete",
		zap.Int("count", cfg.Count),
		zap.Stringer("final", report.Final),
		zap.Uint64("put_waits", report.Stats.PutWaits),
		zap.Uint64("take_waits", report.Stats.TakeWaits))

	return
}

// runSeed returns the seed of run r of a series starting at base. Zero is
// skipped, as a zero seed draws from the clock and could not be replayed.
func runSeed(base int64, run int) (seed int64) {
	seed = base + int64(run)
	if base < 0 && seed >= 0 {
		seed++
	}
	return
}

// Stress repeats Run runs times, verifying every report. A zero cfg.Seed is
// replaced once by the clock; every run then has its own non-zero seed,
// reported in *ErrRun, so a failure can be replayed alone.
func Stress(ctx context.Context, runs int, cfg Config) (err error) {
	base := cfg.Seed
	if base == 0 {
		base = time.Now().UnixNano()
	}

	for run := range runs {
		rc := cfg
		rc.Seed = runSeed(base, run)

		var report *Report
		report, err = Run(ctx, rc)
		if err == nil {
			err = report.Verify()
		}
		if err != nil {
			err = &ErrRun{Run: run, Seed: rc.Seed, Err: err}
			return
		}
	}

	return
}
