// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Loom Contributors

// Package entropy provides the injectable randomness source required by
// the `either` and `random` expression functions (spec.md §4.2, §5, §9).
// Render output is deterministic except for these two functions, so hosts
// must be able to supply a seeded source for reproducible tests.
package entropy

import "math/rand/v2"

// Source produces uniform randomness for the either() and random()
// expression functions. It is injected rather than reached for as
// process-wide state, so tests can make runs deterministic.
type Source interface {
	// Float64 returns a uniform float in [0, 1).
	Float64() float64
	// IntRange returns a uniform integer in the inclusive range [min, max].
	// Behavior is unspecified if max < min.
	IntRange(minimum, maximum int64) int64
}

// randSource is the default Source, backed by math/rand/v2.
type randSource struct {
	rng *rand.Rand
}

// NewDefault returns the default entropy source, seeded from the runtime's
// own unpredictable seed (not reproducible — for interactive use only).
func NewDefault() Source {
	return &randSource{rng: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}
}

// NewSeeded returns a Source seeded deterministically from seed, for
// reproducible test runs (spec.md §5).
func NewSeeded(seed uint64) Source {
	return &randSource{rng: rand.New(rand.NewPCG(seed, seed^0x9E3779B97F4A7C15))}
}

func (s *randSource) Float64() float64 {
	return s.rng.Float64()
}

func (s *randSource) IntRange(minimum, maximum int64) int64 {
	if maximum < minimum {
		minimum, maximum = maximum, minimum
	}
	span := maximum - minimum + 1
	return minimum + s.rng.Int64N(span)
}
