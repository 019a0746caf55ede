package channel

import (
	"context"
	"errors"

	"github.com/ezrec/handoff/translate"
)

var f = translate.From

var (
	// ErrTimeout matches a wait abandoned because its deadline passed.
	ErrTimeout = errors.New(f("handoff timeout"))
)

// ErrWait reports a PutContext or TakeContext abandoned before the slot
// changed state. The slot is left as it was.
type ErrWait struct {
	Op  string // "put" or "take"
	Err error  // The context error.
}

func (err *ErrWait) Error() string {
	return f("%v aborted: %v", err.Op, err.Err)
}

func (err *ErrWait) Unwrap() error {
	return err.Err
}

func (err *ErrWait) Is(target error) bool {
	return target == ErrTimeout && errors.Is(err.Err, context.DeadlineExceeded)
}
