// Package channel implements a single-slot synchronized handoff between a
// producer and a consumer.
//
// A Handoff holds at most one value. Put blocks while the slot is full and
// Take blocks while it is empty, so values pass from producer to consumer in
// strict alternation: the Nth Take returns the value of the Nth Put. Blocked
// callers park on a condition variable and never poll.
package channel

import (
	"context"
)

// Channel is the blocking surface shared by producer and consumer roles.
type Channel[T any] interface {
	Put(value T) // Deposit a value, waiting for the slot to empty.
	Take() T     // Withdraw a value, waiting for the slot to fill.
}

// ContextChannel is a Channel whose waits can be abandoned.
type ContextChannel[T any] interface {
	Channel[T]
	// PutContext deposits value unless ctx is done while waiting.
	PutContext(ctx context.Context, value T) error
	// TakeContext withdraws a value unless ctx is done while waiting.
	TakeContext(ctx context.Context) (T, error)
}
