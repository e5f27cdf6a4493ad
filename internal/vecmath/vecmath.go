// Synergy - Trust-Aware Team Matching and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/synergy

// Package vecmath provides the small dense linear algebra used by the scoring,
// matching and cold-start packages.
//
// Vectors are plain []float64. Operations on vectors of unequal length treat the
// shorter one as zero-padded, so a missing dimension contributes nothing rather
// than panicking.
package vecmath

import "math"

// Dot returns the dot product of a and b.
func Dot(a, b []float64) float64 {
	n := min(len(a), len(b))
	var sum float64
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}

// Magnitude returns the Euclidean norm of v.
func Magnitude(v []float64) float64 {
	return math.Sqrt(Dot(v, v))
}

// Scale returns a new vector equal to s*v.
func Scale(v []float64, s float64) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = x * s
	}
	return out
}

// Sub returns a new vector equal to a-b. The result has the length of the
// longer input.
func Sub(a, b []float64) []float64 {
	out := make([]float64, max(len(a), len(b)))
	copy(out, a)
	for i, x := range b {
		out[i] -= x
	}
	return out
}

// Cosine computes the cosine similarity between a and b.
// Returns 0 if either vector is empty or has zero magnitude.
func Cosine(a, b []float64) float64 {
	magA, magB := Magnitude(a), Magnitude(b)
	if magA == 0 || magB == 0 {
		return 0
	}
	return Dot(a, b) / (magA * magB)
}

// Clamp01 clamps x to [0, 1]. NaN maps to 0.
func Clamp01(x float64) float64 {
	switch {
	case math.IsNaN(x), x < 0:
		return 0
	case x > 1:
		return 1
	default:
		return x
	}
}
