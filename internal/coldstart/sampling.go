// Synergy - Trust-Aware Team Matching and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/synergy

package coldstart

import (
	"math"
	"math/rand"
)

// SampleBeta draws from Beta(a, b). Beta(1, 1) is a single uniform draw;
// otherwise the sample is Ga/(Ga+Gb) with Ga ~ Gamma(a), Gb ~ Gamma(b).
// Both parameters must be positive.
func SampleBeta(rng *rand.Rand, a, b float64) float64 {
	if a == 1 && b == 1 {
		return rng.Float64()
	}
	ga := SampleGamma(rng, a)
	gb := SampleGamma(rng, b)
	if ga+gb == 0 {
		return 0.5
	}
	return ga / (ga + gb)
}

// SampleGamma draws from Gamma(shape, 1) with the Marsaglia-Tsang squeeze
// method. Shapes below 1 use Gamma(a) = Gamma(a+1) * U^(1/a). A
// non-positive shape returns 0.
func SampleGamma(rng *rand.Rand, shape float64) float64 {
	if shape <= 0 {
		return 0
	}
	if shape < 1 {
		u := rng.Float64()
		return SampleGamma(rng, shape+1) * math.Pow(u, 1/shape)
	}

	d := shape - 1.0/3.0
	c := 1 / math.Sqrt(9*d)
	for {
		var x, v float64
		for {
			x = sampleNormal(rng)
			v = 1 + c*x
			if v > 0 {
				break
			}
		}
		v = v * v * v
		u := rng.Float64()
		x2 := x * x
		if u < 1-0.0331*x2*x2 {
			return d * v
		}
		if math.Log(u) < 0.5*x2+d*(1-v+math.Log(v)) {
			return d * v
		}
	}
}

// sampleNormal draws a standard normal with the Box-Muller transform.
func sampleNormal(rng *rand.Rand) float64 {
	u1 := 1 - rng.Float64() // (0, 1]
	u2 := rng.Float64()
	return math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
}
