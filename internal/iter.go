package internal

import (
	"iter"
)

// IterSeqLimit yields at most n values from seq, then stops pulling from it.
func IterSeqLimit[T any](seq iter.Seq[T], n int) iter.Seq[T] {
	return func(yield func(T) bool) {
		if n <= 0 {
			return
		}
		count := 0
		for val := range seq {
			if !yield(val) {
				return // Stop if the consumer stops
			}
			count++
			if count == n {
				return
			}
		}
	}
}
