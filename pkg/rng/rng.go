// Package rng provides the random draws used by the survival engine.
// Every draw goes through a Source so games can be replayed from a seed
// and tests can script exact outcomes.
package rng

import (
	"math/rand/v2"
	"time"
)

// Source is the minimal random source the engine consumes.
type Source interface {
	IntN(n int) int
	Float64() float64
}

// Rand wraps a Source with the range helpers the game tables need.
type Rand struct {
	src Source
	pos int64
}

// New wraps an existing source.
func New(src Source) *Rand {
	if src == nil {
		src = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))
	}
	return &Rand{src: src}
}

// NewSeeded creates a deterministic PCG-backed generator.
func NewSeeded(seed uint64) *Rand {
	return &Rand{src: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Int returns an integer in [min, max], inclusive on both ends.
func (r *Rand) Int(min, max int) int {
	if max <= min {
		return min
	}
	r.pos++
	return min + r.src.IntN(max-min+1)
}

// Chance reports whether an event with probability p fires.
func (r *Rand) Chance(p float64) bool {
	r.pos++
	return r.src.Float64() < p
}

// Pick returns an index in [0, n). It returns 0 when n <= 0.
func (r *Rand) Pick(n int) int {
	if n <= 0 {
		return 0
	}
	r.pos++
	return r.src.IntN(n)
}

// Position returns the number of draws made since creation.
func (r *Rand) Position() int64 {
	return r.pos
}

// Choice returns a uniformly chosen element, or the zero value for an empty slice.
func Choice[T any](r *Rand, items []T) T {
	var zero T
	if len(items) == 0 {
		return zero
	}
	return items[r.Pick(len(items))]
}
