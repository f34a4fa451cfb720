// Package random provides the uniform random source the game draws from.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
)

// Source yields uniform floats in [0, 1).
type Source interface {
	Float64() float64
}

// NewSeeded returns a deterministic source for the given seed.
func NewSeeded(seed int64) Source {
	return rand.New(rand.NewSource(seed))
}

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}

	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

// Intn returns floor(u*n) for one draw u, so the result is in [0, n).
func Intn(src Source, n int) int {
	if n <= 0 {
		return 0
	}
	v := int(src.Float64() * float64(n))
	if v >= n {
		v = n - 1
	}
	return v
}

// Between returns an integer in [lo, hi] inclusive.
func Between(src Source, lo, hi int) int {
	return lo + Intn(src, hi-lo+1)
}

// Chance reports whether a draw falls under p.
func Chance(src Source, p float64) bool {
	return src.Float64() < p
}

// Pick returns a uniformly chosen element of items.
func Pick[T any](src Source, items []T) T {
	return items[Intn(src, len(items))]
}

// Fixed replays a fixed sequence of draws, cycling when exhausted.
type Fixed struct {
	values []float64
	next   int
}

// NewFixed returns a source that replays values in order.
func NewFixed(values ...float64) *Fixed {
	if len(values) == 0 {
		values = []float64{0}
	}
	return &Fixed{values: values}
}

// Float64 returns the next value of the sequence.
func (f *Fixed) Float64() float64 {
	v := f.values[f.next%len(f.values)]
	f.next++
	return v
}

// Draws reports how many values have been consumed.
func (f *Fixed) Draws() int {
	return f.next
}
