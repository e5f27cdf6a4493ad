// Synergy - Trust-Aware Team Matching and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/synergy

package scoring

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTrust struct {
	values map[string]float64
	err    error
	calls  atomic.Int32
}

func (s *stubTrust) AggregateTrust(_ context.Context, userID string) (float64, error) {
	s.calls.Add(1)
	if s.err != nil {
		return 0, s.err
	}
	return s.values[userID], nil
}

type stubAccumulator map[string]float64

func (s stubAccumulator) TrustAccumulator(_ context.Context, userID string) (float64, error) {
	return s[userID], nil
}

func newTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	e, err := NewEngine(nil, zerolog.Nop(), opts...)
	require.NoError(t, err)
	return e
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "zero k", mutate: func(c *Config) { c.ConfidenceK = 0 }, wantErr: true},
		{name: "negative gain", mutate: func(c *Config) { c.TrustBoostGain = -0.1 }, wantErr: true},
		{name: "gain disabled", mutate: func(c *Config) { c.TrustBoostGain = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}

	_, err := NewEngine(&Config{}, zerolog.Nop())
	assert.Error(t, err)
}

func TestEngine_ResolveTrust(t *testing.T) {
	ctx := context.Background()
	profile := Profile{ID: "u1", Trust: TrustVector{Composite: 0.7}}

	t.Run("composite without collaborators", func(t *testing.T) {
		e := newTestEngine(t)
		assert.Equal(t, 0.7, e.ResolveTrust(ctx, profile))
	})

	t.Run("aggregate from provider", func(t *testing.T) {
		e := newTestEngine(t, WithTrustProvider(&stubTrust{values: map[string]float64{"u1": 0.9}}))
		assert.Equal(t, 0.9, e.ResolveTrust(ctx, profile))
	})

	t.Run("provider failure falls back to composite", func(t *testing.T) {
		e := newTestEngine(t, WithTrustProvider(&stubTrust{err: errors.New("unavailable")}))
		assert.Equal(t, 0.7, e.ResolveTrust(ctx, profile))
	})

	t.Run("physical signal adds gain times weight", func(t *testing.T) {
		e := newTestEngine(t, WithTrustAccumulator(stubAccumulator{"u1": 3}))
		assert.InDelta(t, 0.73, e.ResolveTrust(ctx, profile), 1e-12)
	})

	t.Run("nothing accumulated leaves trust unchanged", func(t *testing.T) {
		e := newTestEngine(t, WithTrustAccumulator(stubAccumulator{"other": 30}))
		assert.Equal(t, 0.7, e.ResolveTrust(ctx, profile))
	})

	t.Run("boost is clamped", func(t *testing.T) {
		e := newTestEngine(t, WithTrustAccumulator(stubAccumulator{"u1": 1000}))
		assert.Equal(t, 1.0, e.ResolveTrust(ctx, profile))
	})
}

func TestEngine_Views(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t)

	owner := Profile{
		ID:       "owner",
		Identity: []float64{1, 0.2},
		Skills:   []float64{1, 0, 0},
		Trust:    TrustVector{Composite: 0.9},
	}
	project := Project{
		ID:             "p1",
		Owner:          owner,
		RequiredSkills: []float64{1, 1, 0},
		TeamSkills:     owner.Skills,
		Stage:          StageBuilding,
		DataPoints:     40,
	}
	candidate := Candidate{
		Profile: Profile{
			ID:       "c1",
			Identity: []float64{0.8, 0.3},
			Skills:   []float64{0, 1, 0},
			Trust:    TrustVector{Composite: 0.6},
		},
		PsychFit: map[string]float64{"p1": 0.8},
	}

	pv := e.ProjectView(ctx, project, candidate)
	cv := e.CandidateView(ctx, project, candidate)

	assert.InDelta(t, 1, pv.Skill, 1e-12, "candidate fills the gap exactly")
	assert.InDelta(t, 0.6, pv.Trust, 1e-12, "project view uses candidate trust")
	assert.InDelta(t, 0.9, cv.Trust, 1e-12, "candidate view uses owner trust")
	assert.InDelta(t, 1, cv.Skill, 1e-12, "owner covers what the candidate lacks")
	assert.InDelta(t, pv.Vision, cv.Vision, 1e-12, "cosine is symmetric")
	assert.Equal(t, 0.8, pv.Psych)
	assert.Equal(t, 0.8, cv.Psych)
	assert.Greater(t, pv.Score, 0.0)
	assert.Greater(t, cv.Score, 0.0)
}

func TestBreakerTrustProvider(t *testing.T) {
	ctx := context.Background()

	t.Run("passes values through while closed", func(t *testing.T) {
		next := &stubTrust{values: map[string]float64{"u1": 0.4}}
		b := NewBreakerTrustProvider(next, DefaultBreakerConfig())

		v, err := b.AggregateTrust(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, 0.4, v)
		assert.Equal(t, gobreaker.StateClosed, b.State())
	})

	t.Run("opens after failure threshold", func(t *testing.T) {
		next := &stubTrust{err: errors.New("connection refused")}
		b := NewBreakerTrustProvider(next, BreakerConfig{
			Name:         "test-trust-open",
			MaxRequests:  1,
			Timeout:      time.Hour,
			MinRequests:  3,
			FailureRatio: 0.5,
		})

		for i := 0; i < 3; i++ {
			_, err := b.AggregateTrust(ctx, "u1")
			require.Error(t, err)
		}
		assert.Equal(t, gobreaker.StateOpen, b.State())

		_, err := b.AggregateTrust(ctx, "u1")
		assert.ErrorIs(t, err, gobreaker.ErrOpenState)
		assert.Equal(t, int32(3), next.calls.Load(), "open circuit must not call through")
	})

	t.Run("engine falls back while open", func(t *testing.T) {
		b := NewBreakerTrustProvider(&stubTrust{err: errors.New("down")}, BreakerConfig{
			Name:         "test-trust-engine",
			Timeout:      time.Hour,
			MinRequests:  1,
			FailureRatio: 0.1,
		})
		e := newTestEngine(t, WithTrustProvider(b))

		p := Profile{ID: "u1", Trust: TrustVector{Composite: 0.55}}
		for i := 0; i < 3; i++ {
			assert.Equal(t, 0.55, e.ResolveTrust(ctx, p))
		}
		assert.Equal(t, gobreaker.StateOpen, b.State())
	})
}
