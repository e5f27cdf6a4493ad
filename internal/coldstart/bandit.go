// Synergy - Trust-Aware Team Matching and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/synergy

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
	// ErrNoCandidates is returned by Explore for an empty candidate list.
	ErrNoCandidates = errors.New("coldstart: no candidates to explore")

	// ErrInvalidReward is returned for a reward other than 0 or 1.
	ErrInvalidReward = errors.New("coldstart: reward must be 0 or 1")
)

// BetaPosterior is the belief that a user engages with a candidate.
// Both parameters start at 1 and only grow.
type BetaPosterior struct {
	Alpha float64 `json:"alpha"`
	Beta  float64 `json:"beta"`
}

// UniformPrior is Beta(1, 1).
var UniformPrior = BetaPosterior{Alpha: 1, Beta: 1}

// Mean returns α/(α+β).
func (p BetaPosterior) Mean() float64 {
	return p.Alpha / (p.Alpha + p.Beta)
}

// Recommendation is the outcome of one exploration round.
type Recommendation struct {
	UserID     string             `json:"user_id"`
	SelectedID string             `json:"selected_id"`
	Samples    map[string]float64 `json:"samples"`
	Strategy   Strategy           `json:"strategy"`
}

// Bandit selects candidates by Thompson Sampling over per-(user, candidate)
// Beta posteriors.
type Bandit struct {
	posteriors store.Store[BetaPosterior]
	logger     zerolog.Logger

	// rng is not safe for concurrent use.
	mu  sync.Mutex
	rng *rand.Rand
}

// NewBandit creates a bandit. A nil store defaults to an in-memory store and
// a nil rng to one seeded with 42.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewBandit(posteriors store.Store[BetaPosterior], rng *rand.Rand, logger zerolog.Logger) *Bandit {
	if posteriors == nil {
		posteriors = store.NewMemory[BetaPosterior]()
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(42)) //nolint:gosec // math/rand is fine for exploration sampling
	}
	return &Bandit{
		posteriors: posteriors,
		rng:        rng,
		logger:     logger.With().Str("component", "bandit").Logger(),
	}
}

func posteriorKey(userID, candidateID string) string {
	return store.JoinKey(userID, candidateID)
}

// Posterior returns the current posterior for a pair, UniformPrior if none.
func (b *Bandit) Posterior(ctx context.Context, userID, candidateID string) (BetaPosterior, error) {
	p, found, err := b.posteriors.Get(ctx, posteriorKey(userID, candidateID))
	if err != nil {
		return BetaPosterior{}, err
	}
	if !found {
		return UniformPrior, nil
	}
	return p, nil
}

// Explore draws one sample per candidate and selects the highest. Equal
// samples keep the earliest candidate.
func (b *Bandit) Explore(ctx context.Context, userID string, candidateIDs []string) (*Recommendation, error) {
	if len(candidateIDs) == 0 {
		return nil, ErrNoCandidates
	}

	posteriors := make([]BetaPosterior, len(candidateIDs))
	for i, id := range candidateIDs {
		p, err := b.Posterior(ctx, userID, id)
		if err != nil {
			return nil, fmt.Errorf("load posterior %s: %w", id, err)
		}
		posteriors[i] = p
	}

	rec := &Recommendation{
		UserID:   userID,
		Samples:  make(map[string]float64, len(candidateIDs)),
		Strategy: StrategyBandit,
	}
	best := -1.0

	b.mu.Lock()
	for i, id := range candidateIDs {
		theta := SampleBeta(b.rng, posteriors[i].Alpha, posteriors[i].Beta)
		rec.Samples[id] = theta
		if theta > best {
			best = theta
			rec.SelectedID = id
		}
	}
	b.mu.Unlock()

	metrics.RecordBanditSelection()
	logging.Enrich(ctx, b.logger).Debug().
		Str("user_id", userID).
		Str("selected_id", rec.SelectedID).
		Float64("sample", best).
		Int("candidates", len(candidateIDs)).
		Msg("bandit selection")

	return rec, nil
}

// RecordFeedback applies a conjugate update: α += reward, β += 1 - reward.
func (b *Bandit) RecordFeedback(ctx context.Context, userID, candidateID string, reward int) (BetaPosterior, error) {
	if reward != 0 && reward != 1 {
		return BetaPosterior{}, fmt.Errorf("%w, got %d", ErrInvalidReward, reward)
	}

	p, err := b.posteriors.Update(ctx, posteriorKey(userID, candidateID),
		func(cur BetaPosterior, found bool) (BetaPosterior, error) {
			if !found {
				cur = UniformPrior
			}
			cur.Alpha += float64(reward)
			cur.Beta += float64(1 - reward)
			return cur, nil
		})
	if err != nil {
		return BetaPosterior{}, fmt.Errorf("update posterior: %w", err)
	}

	metrics.RecordBanditFeedback(reward)
	logging.Enrich(ctx, b.logger).Debug().
		Str("user_id", userID).
		Str("candidate_id", candidateID).
		Int("reward", reward).
		Float64("alpha", p.Alpha).
		Float64("beta", p.Beta).
		Msg("bandit feedback")

	return p, nil
}

// Reset clears every posterior.
func (b *Bandit) Reset(ctx context.Context) error {
	return b.posteriors.Reset(ctx)
}
