// Synergy - Trust-Aware Team Matching and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/synergy

// Package signals turns engagement events into per-user category preferences
// and a trust accumulator.
//
// Each signal nudges the targeted category toward 1 and decays every other
// known category toward 0 with an exponentially weighted moving average whose
// rate grows with the signal's weight. Costlier signals (a physical visit)
// move preferences faster and add more trust than cheap ones (a click).
//
// EWMA updates do not commute: the same two signals applied in a different
// order leave different vectors. Each Process call is atomic per user, but
// callers must deliver a user's signals in order.
package signals

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/tomtom215/synergy/internal/logging"
	"github.com/tomtom215/synergy/internal/metrics"
	"github.com/tomtom215/synergy/internal/store"
	"github.com/tomtom215/synergy/internal/validation"
	"github.com/tomtom215/synergy/internal/vecmath"
)

// ErrUnknownSignalType is returned for a signal type without a weight.
var ErrUnknownSignalType = errors.New("signals: unknown signal type")

// SignalType is the channel an engagement came through.
type SignalType string

const (
	Online   SignalType = "online"
	App      SignalType = "app"
	Physical SignalType = "physical"
)

// ParseSignalType parses a signal type name.
func ParseSignalType(s string) (SignalType, error) {
	switch t := SignalType(strings.ToLower(strings.TrimSpace(s))); t {
	case Online, App, Physical:
		return t, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownSignalType, s)
	}
}

// Signal is one engagement event, e.g. a doorbell press at a venue.
type Signal struct {
	UserID   string     `json:"user_id" validate:"required"`
	Category string     `json:"category" validate:"required"`
	Type     SignalType `json:"type" validate:"required"`
}

// Validate checks the signal fields.
func (s Signal) Validate() error {
	if err := validation.ValidateStruct(s); err != nil {
		return err
	}
	if _, err := ParseSignalType(string(s.Type)); err != nil {
		return err
	}
	return nil
}

// PreferenceVector maps category to affinity in [0, 1].
type PreferenceVector map[string]float64

// Clone returns a copy of v.
func (v PreferenceVector) Clone() PreferenceVector {
	out := make(PreferenceVector, len(v))
	for k, x := range v {
		out[k] = x
	}
	return out
}

// UserState is the per-user record: the preference vector and the trust
// accumulator are stored together so a signal updates both or neither.
type UserState struct {
	Preferences      PreferenceVector `json:"preferences,omitempty"`
	TrustAccumulator float64          `json:"trust_accumulator"`
}

// Snapshot is the user state after a processed signal.
type Snapshot struct {
	UserID           string           `json:"user_id"`
	Preferences      PreferenceVector `json:"preferences"`
	TrustAccumulator float64          `json:"trust_accumulator"`
	Alpha            float64          `json:"alpha"`
}

// Weights assigns a weight to each signal type.
type Weights struct {
	Online   float64 `json:"online"`
	App      float64 `json:"app"`
	Physical float64 `json:"physical"`
}

// For returns the weight of t.
func (w Weights) For(t SignalType) (float64, error) {
	switch t {
	case Online:
		return w.Online, nil
	case App:
		return w.App, nil
	case Physical:
		return w.Physical, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownSignalType, t)
	}
}

// Max returns the largest weight.
func (w Weights) Max() float64 {
	return max(w.Online, w.App, w.Physical)
}

// Config contains signal processing parameters.
type Config struct {
	// BaseAlpha is the learning rate of the heaviest signal type.
	// Default: 0.3.
	BaseAlpha float64 `json:"base_alpha"`

	// Weights per signal type. Default: online 1.0, app 1.5, physical 3.0.
	Weights Weights `json:"weights"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		BaseAlpha: 0.3,
		Weights:   Weights{Online: 1.0, App: 1.5, Physical: 3.0},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.BaseAlpha <= 0 || c.BaseAlpha > 1 {
		return fmt.Errorf("signals.base_alpha must be in (0, 1], got %f", c.BaseAlpha)
	}
	if c.Weights.Online <= 0 || c.Weights.App <= 0 || c.Weights.Physical <= 0 {
		return fmt.Errorf("signals.weights must be positive, got %+v", c.Weights)
	}
	return nil
}

// Processor applies signals to per-user state held in stores.
type Processor struct {
	config *Config
	states store.Store[UserState]
	logger zerolog.Logger
}

// NewProcessor creates a processor. A nil store defaults to an in-memory store.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewProcessor(cfg *Config, states store.Store[UserState], logger zerolog.Logger) (*Processor, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if states == nil {
		states = store.NewMemory[UserState]()
	}
	return &Processor{
		config: cfg,
		states: states,
		logger: logger.With().Str("component", "signals").Logger(),
	}, nil
}

// Alpha returns the learning rate for t: BaseAlpha * weight / maxWeight.
func (p *Processor) Alpha(t SignalType) (float64, error) {
	w, err := p.config.Weights.For(t)
	if err != nil {
		return 0, err
	}
	return p.config.BaseAlpha * w / p.config.Weights.Max(), nil
}

// Process applies sig to the user's preference vector and trust accumulator.
//
//nolint:gocritic // hugeParam: sig is small and read-only
func (p *Processor) Process(ctx context.Context, sig Signal) (Snapshot, error) {
	if err := sig.Validate(); err != nil {
		return Snapshot{}, err
	}
	alpha, err := p.Alpha(sig.Type)
	if err != nil {
		return Snapshot{}, err
	}
	weight, _ := p.config.Weights.For(sig.Type)

	state, err := p.states.Update(ctx, sig.UserID, func(cur UserState, _ bool) (UserState, error) {
		return UserState{
			Preferences:      Blend(cur.Preferences, sig.Category, alpha),
			TrustAccumulator: cur.TrustAccumulator + weight,
		}, nil
	})
	if err != nil {
		return Snapshot{}, fmt.Errorf("update user state: %w", err)
	}

	metrics.RecordSignal(string(sig.Type))
	logging.Enrich(ctx, p.logger).Debug().
		Str("user_id", sig.UserID).
		Str("category", sig.Category).
		Str("signal_type", string(sig.Type)).
		Float64("alpha", alpha).
		Float64("trust_accumulator", state.TrustAccumulator).
		Msg("signal applied")

	return Snapshot{
		UserID:           sig.UserID,
		Preferences:      state.Preferences.Clone(),
		TrustAccumulator: state.TrustAccumulator,
		Alpha:            alpha,
	}, nil
}

// Blend returns a new vector after one EWMA step toward target:
//
//	new[d] = alpha*signal[d] + (1-alpha)*old[d]
//
// where signal[d] is 1 for target and 0 for every other category already in
// old. A target not yet in old starts from 0.
func Blend(old PreferenceVector, target string, alpha float64) PreferenceVector {
	out := make(PreferenceVector, len(old)+1)
	for d, v := range old {
		out[d] = vecmath.Clamp01((1 - alpha) * v)
	}
	out[target] = vecmath.Clamp01(alpha + (1-alpha)*old[target])
	return out
}

// Preferences returns a copy of the user's preference vector, empty if none.
func (p *Processor) Preferences(ctx context.Context, userID string) (PreferenceVector, error) {
	st, _, err := p.states.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return st.Preferences.Clone(), nil
}

// TrustAccumulator returns the sum of signal weights seen for the user.
func (p *Processor) TrustAccumulator(ctx context.Context, userID string) (float64, error) {
	st, _, err := p.states.Get(ctx, userID)
	return st.TrustAccumulator, err
}

// Reset clears all preference vectors and trust accumulators.
func (p *Processor) Reset(ctx context.Context) error {
	return p.states.Reset(ctx)
}
