// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package channel

import (
	"context"
	"iter"
	"sync"
)

// Handoff is a capacity-one synchronized slot. The zero value is an empty
// handoff ready for use. A Handoff must not be copied after first use.
//
// All slot state is guarded by one mutex. Producers wait on notFull and
// consumers on notEmpty; both conditions share the mutex, so every flag
// transition signals exactly the side that can now make progress.
type Handoff[T any] struct {
	mu       sync.Mutex
	notFull  sync.Cond
	notEmpty sync.Cond

	value T
	full  bool
	stats Stats
}

var _ ContextChannel[int] = (*Handoff[int])(nil)

// New creates an empty handoff.
func New[T any]() (h *Handoff[T]) {
	h = &Handoff[T]{}
	h.notFull.L = &h.mu
	h.notEmpty.L = &h.mu
	return
}

// lock acquires the slot mutex, binding the conditions on first use of a
// zero value.
func (h *Handoff[T]) lock() {
	h.mu.Lock()
	if h.notFull.L == nil {
		h.notFull.L = &h.mu
		h.notEmpty.L = &h.mu
	}
}

// store fills the slot and wakes one consumer. Caller holds the lock.
func (h *Handoff[T]) store(value T) {
	h.value = value
	h.full = true
	h.stats.Puts++
	h.notEmpty.Signal()
}

// load empties the slot and wakes one producer. Caller holds the lock.
func (h *Handoff[T]) load() (value T) {
	var zero T

	value = h.value
	h.value = zero
	h.full = false
	h.stats.Takes++
	h.notFull.Signal()

	return
}

// Put deposits value, blocking while a previous value is undelivered.
func (h *Handoff[T]) Put(value T) {
	h.lock()
	defer h.mu.Unlock()

	if h.full {
		h.stats.PutWaits++
	}
	for h.full {
		h.notFull.Wait()
	}

	h.store(value)
}

// Take withdraws the deposited value, blocking until one is available.
func (h *Handoff[T]) Take() (value T) {
	h.lock()
	defer h.mu.Unlock()

	if !h.full {
		h.stats.TakeWaits++
	}
	for !h.full {
		h.notEmpty.Wait()
	}

	return h.load()
}

// wake broadcasts cond under the lock once ctx is done, so a context-aware
// waiter re-checks ctx.Err(). The returned stop function unregisters it.
func (h *Handoff[T]) wake(ctx context.Context, cond *sync.Cond) (stop func() bool) {
	return context.AfterFunc(ctx, func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		cond.Broadcast()
	})
}

// PutContext is Put, except that it gives up with an *ErrWait if ctx is
// done while the slot is full. A call that finds the slot empty always
// succeeds.
func (h *Handoff[T]) PutContext(ctx context.Context, value T) (err error) {
	h.lock()
	defer h.mu.Unlock()

	if h.full {
		h.stats.PutWaits++

		stop := h.wake(ctx, &h.notFull)
		defer stop()

		// The slot is re-checked before ctx so a wake-up meant for this
		// waiter is never dropped.
		for h.full {
			if ctx.Err() != nil {
				err = &ErrWait{Op: "put", Err: ctx.Err()}
				return
			}
			h.notFull.Wait()
		}
	}

	h.store(value)

	return
}

// TakeContext is Take, except that it gives up with an *ErrWait if ctx is
// done while the slot is empty.
func (h *Handoff[T]) TakeContext(ctx context.Context) (value T, err error) {
	h.lock()
	defer h.mu.Unlock()

	if !h.full {
		h.stats.TakeWaits++

		stop := h.wake(ctx, &h.notEmpty)
		defer stop()

		for !h.full {
			if ctx.Err() != nil {
				err = &ErrWait{Op: "take", Err: ctx.Err()}
				return
			}
			h.notEmpty.Wait()
		}
	}

	value = h.load()

	return
}

// TryPut deposits value only if the slot is empty.
func (h *Handoff[T]) TryPut(value T) (ok bool) {
	h.lock()
	defer h.mu.Unlock()

	if h.full {
		return
	}

	h.store(value)

	return true
}

// TryTake withdraws a value only if one is deposited.
func (h *Handoff[T]) TryTake() (value T, ok bool) {
	h.lock()
	defer h.mu.Unlock()

	if !h.full {
		return
	}

	return h.load(), true
}

// State returns a snapshot of the slot state.
func (h *Handoff[T]) State() State {
	h.lock()
	defer h.mu.Unlock()

	if h.full {
		return Full
	}
	return Empty
}

// Stats returns a snapshot of the operation counters.
func (h *Handoff[T]) Stats() Stats {
	h.lock()
	defer h.mu.Unlock()

	return h.stats
}

// Snapshot returns the operation counters and the slot state as of one
// instant; Puts-Takes is 1 exactly when state is Full.
func (h *Handoff[T]) Snapshot() (stats Stats, state State) {
	h.lock()
	defer h.mu.Unlock()

	stats = h.stats
	if h.full {
		state = Full
	}
	return
}

// Receive returns an iterator of successive Take results. Iteration ends
// only when the consumer stops.
func (h *Handoff[T]) Receive() iter.Seq[T] {
	return Receive[T](h)
}
