package harness

import (
	"errors"
	"strconv"

	"github.com/ezrec/handoff/translate"
)

var f = translate.From

var (
	ErrCountInvalid = errors.New(f("handoff count must not be negative"))
	ErrNotEmpty     = errors.New(f("handoff not empty after run"))
)

// ErrRole reports the failure of the producer or consumer at a handoff index.
type ErrRole struct {
	Role  string // "producer" or "consumer"
	Index int
	Err   error
}

func (err *ErrRole) Error() string {
	return f("%v at index %d: %v", err.Role, err.Index, err.Err)
}

func (err *ErrRole) Unwrap() error {
	return err.Err
}

// ErrLength reports a consumer that saw a different number of values than
// were produced.
type ErrLength struct {
	Produced int
	Consumed int
}

func (err *ErrLength) Error() string {
	return f("produced %d values, consumed %d", err.Produced, err.Consumed)
}

// ErrValueMismatch reports the first index where the consumed value differs
// from the produced one.
type ErrValueMismatch struct {
	Index int
	Want  int32
	Got   int32
}

func (err *ErrValueMismatch) Error() string {
	return f("index %d: produced %v, consumed %v", err.Index, err.Want, err.Got)
}

// ErrRun locates a failure within a Stress series.
type ErrRun struct {
	Run  int
	Seed int64 // Config.Seed that replays the run.
	Err  error
}

func (err *ErrRun) Error() string {
	// The seed is preformatted so it can be copied back into -seed.
	return f("run %d (seed %v): %v", err.Run, strconv.FormatInt(err.Seed, 10), err.Err)
}

func (err *ErrRun) Unwrap() error {
	return err.Err
}
