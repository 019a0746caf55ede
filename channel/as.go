package channel

import (
	"context"
	"iter"
	"slices"

	"github.com/ezrec/handoff/internal"
)

// Receive returns an iterator of successive Take results from ch. Each step
// blocks until a value is deposited.
func Receive[T any](ch Channel[T]) iter.Seq[T] {
	return func(yield func(value T) bool) {
		for {
			if !yield(ch.Take()) {
				return
			}
		}
	}
}

// SendAll puts every value of seq in order, returning the number sent.
func SendAll[T any](ch Channel[T], seq iter.Seq[T]) (count int) {
	for value := range seq {
		ch.Put(value)
		count++
	}
	return
}

// SendAllContext is SendAll over PutContext. It stops at the first
// abandoned put; count excludes the value that was not delivered.
func SendAllContext[T any](ctx context.Context, ch ContextChannel[T], seq iter.Seq[T]) (count int, err error) {
	for value := range seq {
		err = ch.PutContext(ctx, value)
		if err != nil {
			return
		}
		count++
	}
	return
}

// ReceiveN takes exactly n values, in delivery order.
func ReceiveN[T any](ch Channel[T], n int) (values []T) {
	if n <= 0 {
		return
	}

	values = slices.AppendSeq(make([]T, 0, n), internal.IterSeqLimit(Receive(ch), n))
	return
}

// ReceiveNContext is ReceiveN over TakeContext. On error, values holds what
// was received before the wait was abandoned.
func ReceiveNContext[T any](ctx context.Context, ch ContextChannel[T], n int) (values []T, err error) {
	for range n {
		var value T
		value, err = ch.TakeContext(ctx)
		if err != nil {
			return
		}
		values = append(values, value)
	}
	return
}
