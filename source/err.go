package source

import (
	"errors"

	"github.com/ezrec/handoff/translate"
)

var f = translate.From

var (
	ErrSourceExhausted = errors.New(f("source exhausted"))
)

// ErrScript reports a Starlark expression that failed to compile or run.
type ErrScript struct {
	Expr string
	Err  error
}

func (err *ErrScript) Error() string {
	return f("script $(%v): %v", err.Expr, err.Err)
}

func (err *ErrScript) Unwrap() error {
	return err.Err
}

// ErrScriptResult is the representation of a script result that is not an
// int32 value.
type ErrScriptResult string

func (err ErrScriptResult) Error() string {
	return f("script result %v is not a 32-bit integer", string(err))
}
