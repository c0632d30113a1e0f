// Package random provides the deterministic random source used by random
// conditions and the selection of random actions.
package random

import "math/rand"

// RNG wraps math/rand.Rand with deterministic position tracking.
// Every draw consumes exactly one Int63 from the source, so a position
// fully describes the stream and RestoreRNG can replay it.
type RNG struct {
	seed int64
	src  *rand.Rand
	pos  int64
}

// NewRNG creates a new deterministic RNG from a seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		seed: seed,
		src:  rand.New(rand.NewSource(seed)),
	}
}

// Float64 returns a uniform number in [0, 1).
func (r *RNG) Float64() float64 {
	r.pos++
	return float64(r.src.Int63()>>10) / (1 << 53)
}

// Roll returns a random integer in [1, sides].
func (r *RNG) Roll(sides int) int {
	return r.intn(sides) + 1
}

// WeightedSelect returns an index chosen by weighted random selection.
// Non-positive weights count as zero; if every weight is zero the choice
// is uniform.
func (r *RNG) WeightedSelect(weights []int) int {
	total := 0
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total == 0 {
		return r.intn(len(weights))
	}
	roll := r.intn(total)
	cumulative := 0
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		cumulative += w
		if roll < cumulative {
			return i
		}
	}
	return len(weights) - 1
}

// ProportionalSelect returns an index chosen with probability proportional
// to p[i]. The values need not sum to 1.
func (r *RNG) ProportionalSelect(p []float64) int {
	total := 0.0
	for _, v := range p {
		if v > 0 {
			total += v
		}
	}
	if total == 0 {
		return r.intn(len(p))
	}
	roll := r.Float64() * total
	cumulative := 0.0
	last := 0
	for i, v := range p {
		if v <= 0 {
			continue
		}
		cumulative += v
		last = i
		if roll < cumulative {
			return i
		}
	}
	return last
}

// Seed returns the seed the RNG was created with.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Position returns the number of draws made since creation.
func (r *RNG) Position() int64 {
	return r.pos
}

// RestoreRNG creates an RNG and advances it to the given position.
// This reproduces the exact RNG state for save/load.
func RestoreRNG(seed int64, position int64) *RNG {
	rng := NewRNG(seed)
	for i := int64(0); i < position; i++ {
		rng.src.Int63()
	}
	rng.pos = position
	return rng
}

func (r *RNG) intn(n int) int {
	if n <= 1 {
		r.Float64()
		return 0
	}
	return int(r.Float64() * float64(n))
}
