// Synergy - Trust-Aware Team Matching and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/synergy

package scoring

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/synergy/internal/logging"
	"github.com/tomtom215/synergy/internal/metrics"
	"github.com/tomtom215/synergy/internal/vecmath"
)

// TrustProvider returns the cross-service trust aggregate of a user.
// It is typically an RPC client wrapped in a BreakerTrustProvider.
type TrustProvider interface {
	AggregateTrust(ctx context.Context, userID string) (float64, error)
}

// TrustAccumulator returns the accumulated engagement signal weight of a
// user. signals.Processor implements it.
type TrustAccumulator interface {
	TrustAccumulator(ctx context.Context, userID string) (float64, error)
}

// Config contains scoring parameters.
type Config struct {
	// ConfidenceK is the rate of the confidence factor 1 - e^(-k*n).
	// Default: 0.05.
	ConfidenceK float64 `json:"confidence_k"`

	// TrustBoostGain converts accumulated signal weight into trust.
	// A physical signal (weight 3) adds 3*gain. Zero disables the boost.
	// Default: 0.01.
	TrustBoostGain float64 `json:"trust_boost_gain"`
}

// DefaultConfig returns the default scoring configuration.
func DefaultConfig() *Config {
	return &Config{
		ConfidenceK:    DefaultConfidenceK,
		TrustBoostGain: 0.01,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.ConfidenceK <= 0 {
		return fmt.Errorf("scoring.confidence_k must be positive, got %f", c.ConfidenceK)
	}
	if c.TrustBoostGain < 0 || c.TrustBoostGain > 1 {
		return fmt.Errorf("scoring.trust_boost_gain must be in [0, 1], got %f", c.TrustBoostGain)
	}
	return nil
}

// Engine scores (project, candidate) pairs from either side.
type Engine struct {
	config      *Config
	logger      zerolog.Logger
	trust       TrustProvider
	accumulator TrustAccumulator
}

// Option configures an Engine.
type Option func(*Engine)

// WithTrustProvider sets the source of cross-service trust aggregates.
func WithTrustProvider(p TrustProvider) Option {
	return func(e *Engine) { e.trust = p }
}

// WithTrustAccumulator enables the engagement trust boost.
func WithTrustAccumulator(a TrustAccumulator) Option {
	return func(e *Engine) { e.accumulator = a }
}

// NewEngine creates a scoring engine. A nil cfg uses DefaultConfig.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, logger zerolog.Logger, opts ...Option) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	e := &Engine{
		config: cfg,
		logger: logger.With().Str("component", "scoring").Logger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// ProjectView scores candidate from the project's perspective: owner vision
// against candidate vision, candidate skills against the project's gap, and
// the candidate's trust.
//
//nolint:gocritic // hugeParam: project and candidate are read-only
func (e *Engine) ProjectView(ctx context.Context, project Project, candidate Candidate) MatchResult {
	return MatchScore(MatchInput{
		IdentityA:       project.Owner.Identity,
		IdentityB:       candidate.Identity,
		RequiredSkills:  project.RequiredSkills,
		TeamSkills:      project.TeamSkills,
		CandidateSkills: candidate.Skills,
		CompositeTrust:  e.ResolveTrust(ctx, candidate.Profile),
		PsychFit:        candidate.PsychFitFor(project.ID),
		Stage:           project.Stage,
		DataPoints:      project.DataPoints,
		ConfidenceK:     e.config.ConfidenceK,
	})
}

// CandidateView scores project from the candidate's perspective. The
// candidate's own skills are the baseline, so an owner who covers what the
// candidate lacks for the project scores high. Trust is the owner's.
//
//nolint:gocritic // hugeParam: project and candidate are read-only
func (e *Engine) CandidateView(ctx context.Context, project Project, candidate Candidate) MatchResult {
	return MatchScore(MatchInput{
		IdentityA:       candidate.Identity,
		IdentityB:       project.Owner.Identity,
		RequiredSkills:  project.RequiredSkills,
		TeamSkills:      candidate.Skills,
		CandidateSkills: project.Owner.Skills,
		CompositeTrust:  e.ResolveTrust(ctx, project.Owner),
		PsychFit:        candidate.PsychFitFor(project.ID),
		Stage:           project.Stage,
		DataPoints:      project.DataPoints,
		ConfidenceK:     e.config.ConfidenceK,
	})
}

// ResolveTrust returns the trust value used for p. It prefers the provider's
// aggregate and falls back to p.Trust.Composite on any provider error. The
// accumulated engagement weight then adds gain*weight. The result is clamped
// to [0, 1]; with nothing accumulated the base value is returned as is.
//
//nolint:gocritic // hugeParam: p is read-only
func (e *Engine) ResolveTrust(ctx context.Context, p Profile) float64 {
	trust := p.Trust.Composite

	if e.trust != nil {
		agg, err := e.trust.AggregateTrust(ctx, p.ID)
		if err != nil {
			metrics.RecordTrustProviderFailure()
			logging.Enrich(ctx, e.logger).Warn().Err(err).
				Str("user_id", p.ID).
				Msg("trust aggregate unavailable, using composite")
		} else {
			trust = agg
		}
	}

	if e.accumulator != nil && e.config.TrustBoostGain > 0 {
		acc, err := e.accumulator.TrustAccumulator(ctx, p.ID)
		if err != nil {
			logging.Enrich(ctx, e.logger).Warn().Err(err).
				Str("user_id", p.ID).
				Msg("trust accumulator unavailable, skipping boost")
		} else if acc > 0 {
			trust += e.config.TrustBoostGain * acc
		}
	}

	return vecmath.Clamp01(trust)
}
