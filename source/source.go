// Package source generates the payload values a producer hands off.
//
// Three generators are provided: Random draws non-negative pseudo-random
// values, Sequence replays fixed values, and Script evaluates a Starlark
// expression of the handoff index.
package source

import (
	"math/rand"
	"sync"
	"time"
)

// Source yields the payload for the handoff at a zero-based index.
type Source interface {
	Next(index int) (value int32, err error)
}

// Random draws values in [0, 2^31) from a seeded generator. The index is
// ignored; values depend only on the seed and call order.
type Random struct {
	Seed int64 // Seed actually used.

	mu    sync.Mutex
	rands *rand.Rand
}

var _ Source = (*Random)(nil)

// NewRandom creates a random source. A zero seed is replaced by the
// current time.
func NewRandom(seed int64) (r *Random) {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	r = &Random{
		Seed:  seed,
		rands: rand.New(rand.NewSource(seed)),
	}

	return
}

// Next returns the next pseudo-random value.
func (r *Random) Next(index int) (value int32, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	value = r.rands.Int31()
	return
}

// Sequence replays a fixed list of values by index.
type Sequence []int32

var _ Source = Sequence(nil)

// Next returns the value at index, or ErrSourceExhausted.
func (seq Sequence) Next(index int) (value int32, err error) {
	if index < 0 || index >= len(seq) {
		err = ErrSourceExhausted
		return
	}

	value = seq[index]
	return
}
