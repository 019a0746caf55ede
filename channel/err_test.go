package channel

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/handoff/translate"
)

func TestErrWait(t *testing.T) {
	assert := assert.New(t)

	translate.SetLocales("en-US")

	err := error(&ErrWait{Op: "put", Err: context.DeadlineExceeded})
	assert.Equal("put aborted: context deadline exceeded", err.Error())
	assert.True(errors.Is(err, ErrTimeout))
	assert.True(errors.Is(err, context.DeadlineExceeded))
	assert.False(errors.Is(err, context.Canceled))

	err = &ErrWait{Op: "take", Err: context.Canceled}
	assert.False(errors.Is(err, ErrTimeout))
	assert.True(errors.Is(err, context.Canceled))
}
