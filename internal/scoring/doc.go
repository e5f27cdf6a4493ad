// Synergy - Trust-Aware Team Matching and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/synergy

// Package scoring computes the trust-aware match score between a project and a
// candidate.
//
// # Sub-scores
//
// Four factors, each in [0, 1]:
//
//   - Vision: cosine similarity of the two identity embeddings.
//   - Skill: cosine similarity of the candidate's skills with the skill gap,
//     the Gram-Schmidt residual of the required skills against the team's
//     current skills. A candidate who only brings what the team already has
//     scores 0.
//   - Trust: the cross-service trust aggregate when a TrustProvider is
//     configured, otherwise the profile's composite trust, optionally raised
//     by accumulated engagement signals.
//   - Psych: the candidate's psychological fit for the project (0.5 when
//     unknown).
//
// # Aggregation
//
// The factors are combined as a weighted geometric mean using per-stage
// weights (see LifecycleWeights) and discounted by the confidence factor
// 1 - e^(-k*n). Any factor equal to 0 forces the score to 0.
//
// # Thread Safety
//
// The package-level functions are pure. Engine is safe for concurrent use
// provided its TrustProvider and TrustAccumulator are.
package scoring
