// Synergy - Trust-Aware Team Matching and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/synergy

// Package coldstart bootstraps users who do not yet have enough history for
// regular matching.
//
// The stage is chosen by interaction count:
//
//	0-5    content-init           weighted mean of category embeddings
//	6-20   cross-domain-transfer  learned linear map from another service
//	21-50  bandit-explore         Thompson Sampling over Beta posteriors
//	51+    collaborative-filtering (not available, ErrFeatureUnavailable)
//
// All randomness comes from an injected *rand.Rand so runs are reproducible.
package coldstart

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"

	"github.com/rs/zerolog"

	"github.com/tomtom215/synergy/internal/logging"
	"github.com/tomtom215/synergy/internal/metrics"
	"github.com/tomtom215/synergy/internal/store"
)

var (
	// ErrFeatureUnavailable is returned for the collaborative-filtering stage.
	ErrFeatureUnavailable = errors.New("coldstart: collaborative filtering is not implemented")

	// ErrNoTransferMapping is returned when no mapping is registered for the
	// requested service pair.
	ErrNoTransferMapping = errors.New("coldstart: no transfer mapping registered")
)

// Config contains cold-start parameters.
type Config struct {
	Boundaries Boundaries   `json:"boundaries"`
	Ridge      RidgeOptions `json:"ridge"`

	// Seed for the bandit's random source when none is injected.
	// Default: 42.
	Seed int64 `json:"seed"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Boundaries: DefaultBoundaries(),
		Ridge:      DefaultRidgeOptions(),
		Seed:       42,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if err := c.Boundaries.Validate(); err != nil {
		return err
	}
	return c.Ridge.Validate()
}

// Request describes a user to bootstrap. Only the fields of the selected
// stage are read.
type Request struct {
	UserID           string `json:"user_id"`
	InteractionCount int    `json:"interaction_count"`

	// content-init
	Records  []ContentRecord            `json:"records,omitempty"`
	Profiles map[string]CategoryProfile `json:"profiles,omitempty"`

	// cross-domain-transfer
	SourceService   string    `json:"source_service,omitempty"`
	TargetService   string    `json:"target_service,omitempty"`
	SourceEmbedding []float64 `json:"source_embedding,omitempty"`

	// bandit-explore
	CandidateIDs []string `json:"candidate_ids,omitempty"`
}

// Bootstrap is the result of Orchestrator.Bootstrap. Vector is set for the
// content and transfer stages, Recommendation for the bandit stage.
type Bootstrap struct {
	Strategy       Strategy        `json:"strategy"`
	Vector         []float64       `json:"vector,omitempty"`
	Recommendation *Recommendation `json:"recommendation,omitempty"`
}

// Orchestrator dispatches a user to the cold-start stage matching their
// history.
type Orchestrator struct {
	config *Config
	bandit *Bandit
	logger zerolog.Logger

	mu       sync.RWMutex
	mappings map[string]*TransferMapping
}

// NewOrchestrator creates an orchestrator. A nil cfg uses DefaultConfig, a
// nil store an in-memory store and a nil rng one seeded with cfg.Seed.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewOrchestrator(cfg *Config, posteriors store.Store[BetaPosterior], rng *rand.Rand, logger zerolog.Logger) (*Orchestrator, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if rng == nil {
		seed := cfg.Seed
		if seed == 0 {
			seed = 42
		}
		rng = rand.New(rand.NewSource(seed)) //nolint:gosec // math/rand is fine for exploration sampling
	}

	return &Orchestrator{
		config:   cfg,
		bandit:   NewBandit(posteriors, rng, logger),
		logger:   logger.With().Str("component", "coldstart").Logger(),
		mappings: make(map[string]*TransferMapping),
	}, nil
}

// Bandit returns the orchestrator's bandit, e.g. to record feedback.
func (o *Orchestrator) Bandit() *Bandit {
	return o.bandit
}

// StrategyFor selects the stage for n interactions with the configured
// boundaries.
func (o *Orchestrator) StrategyFor(n int) Strategy {
	return o.config.Boundaries.StrategyFor(n)
}

func mappingKey(source, target string) string {
	return store.JoinKey(source, target)
}

// SetTransferMapping registers m for its service pair, replacing any
// previous mapping.
func (o *Orchestrator) SetTransferMapping(m *TransferMapping) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.mappings[mappingKey(m.SourceService, m.TargetService)] = m
}

// TransferMapping returns the mapping registered for a service pair.
func (o *Orchestrator) TransferMapping(source, target string) (*TransferMapping, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	m, ok := o.mappings[mappingKey(source, target)]
	return m, ok
}

// LearnTransfer fits a mapping with the configured ridge options and
// registers it.
func (o *Orchestrator) LearnTransfer(pairs []TransferPair, source, target string) (*TransferMapping, error) {
	opts := o.config.Ridge
	opts.SourceService, opts.TargetService = source, target

	m, err := LearnTransferMapping(pairs, opts)
	if err != nil {
		return nil, err
	}
	o.SetTransferMapping(m)

	o.logger.Info().
		Str("source_service", source).
		Str("target_service", target).
		Int("pairs", len(pairs)).
		Float64("lambda", m.Lambda).
		Msg("transfer mapping learned")
	return m, nil
}

// Bootstrap runs the stage selected by req.InteractionCount.
//
//nolint:gocritic // hugeParam: req is read-only
func (o *Orchestrator) Bootstrap(ctx context.Context, req Request) (*Bootstrap, error) {
	strategy := o.StrategyFor(req.InteractionCount)
	metrics.RecordColdStartStrategy(string(strategy))
	logging.Enrich(ctx, o.logger).Debug().
		Str("user_id", req.UserID).
		Int("interactions", req.InteractionCount).
		Str("strategy", string(strategy)).
		Msg("cold start")

	switch strategy {
	case StrategyContentInit:
		return &Bootstrap{Strategy: strategy, Vector: ContentInit(req.Records, req.Profiles)}, nil

	case StrategyTransfer:
		m, ok := o.TransferMapping(req.SourceService, req.TargetService)
		if !ok {
			return nil, fmt.Errorf("%w: %s -> %s", ErrNoTransferMapping, req.SourceService, req.TargetService)
		}
		return &Bootstrap{Strategy: strategy, Vector: Transfer(m, req.SourceEmbedding)}, nil

	case StrategyBandit:
		rec, err := o.bandit.Explore(ctx, req.UserID, req.CandidateIDs)
		if err != nil {
			return nil, err
		}
		return &Bootstrap{Strategy: strategy, Recommendation: rec}, nil

	default:
		return nil, fmt.Errorf("%w (interactions=%d)", ErrFeatureUnavailable, req.InteractionCount)
	}
}
