// Synergy - Trust-Aware Team Matching and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/synergy

package scoring

import (
	"math"

	"github.com/tomtom215/synergy/internal/vecmath"
)

// DefaultConfidenceK is the default rate of the confidence factor.
// confidence(60) is roughly 0.95.
const DefaultConfidenceK = 0.05

// VisionAlignment returns the cosine similarity of two identity vectors
// clamped to [0, 1]. Zero-magnitude vectors have no direction and score 0.
func VisionAlignment(a, b []float64) float64 {
	return vecmath.Clamp01(vecmath.Cosine(a, b))
}

// GapVector returns the component of required orthogonal to team:
//
//	gap = required - (required·team / team·team) * team
//
// When team is the zero vector the gap is required itself.
func GapVector(required, team []float64) []float64 {
	tt := vecmath.Dot(team, team)
	if tt == 0 {
		gap := make([]float64, len(required))
		copy(gap, required)
		return gap
	}
	proj := vecmath.Dot(required, team) / tt
	return vecmath.Sub(required, vecmath.Scale(team, proj))
}

// SkillComplementarity returns the cosine similarity of a candidate's skills
// and the gap vector, clamped to [0, 1].
func SkillComplementarity(candidate, gap []float64) float64 {
	return vecmath.Clamp01(vecmath.Cosine(candidate, gap))
}

// ConfidenceFactor returns 1 - e^(-k*n). It is 0 for n <= 0. A non-positive k
// selects DefaultConfidenceK.
func ConfidenceFactor(n int, k float64) float64 {
	if n <= 0 {
		return 0
	}
	if k <= 0 {
		k = DefaultConfidenceK
	}
	return 1 - math.Exp(-k*float64(n))
}

// LifecycleWeights returns the sub-score weights for stage. Each row sums to
// 1. Unknown stages use the ideation weights.
func LifecycleWeights(stage Stage) Weights {
	switch stage {
	case StageBuilding:
		return Weights{Vision: 0.2, Skill: 0.5, Trust: 0.2, Psych: 0.1}
	case StageScaling:
		return Weights{Vision: 0.1, Skill: 0.3, Trust: 0.5, Psych: 0.1}
	default:
		return Weights{Vision: 0.5, Skill: 0.1, Trust: 0.1, Psych: 0.3}
	}
}

// MatchScore combines the four sub-scores into a weighted geometric mean
// discounted by confidence:
//
//	score = confidence(n) * (V^wv * C^wc * T^wt * P^wp)^(1 / (wv+wc+wt+wp))
//
// If any sub-score is 0 the score is 0.
//
//nolint:gocritic // hugeParam: in is read-only
func MatchScore(in MatchInput) MatchResult {
	trust := in.CompositeTrust
	if in.AggregateTrust != nil {
		trust = *in.AggregateTrust
	}

	res := MatchResult{
		Vision: VisionAlignment(in.IdentityA, in.IdentityB),
		Skill:  SkillComplementarity(in.CandidateSkills, GapVector(in.RequiredSkills, in.TeamSkills)),
		Trust:  vecmath.Clamp01(trust),
		Psych:  vecmath.Clamp01(in.PsychFit),
	}

	if res.Vision == 0 || res.Skill == 0 || res.Trust == 0 || res.Psych == 0 {
		return res
	}

	w := LifecycleWeights(in.Stage)
	product := math.Pow(res.Vision, w.Vision) *
		math.Pow(res.Skill, w.Skill) *
		math.Pow(res.Trust, w.Trust) *
		math.Pow(res.Psych, w.Psych)

	res.Score = vecmath.Clamp01(ConfidenceFactor(in.DataPoints, in.ConfidenceK) * math.Pow(product, 1/w.Sum()))
	return res
}
