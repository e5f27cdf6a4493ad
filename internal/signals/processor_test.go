// Synergy - Trust-Aware Team Matching and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/synergy

package signals

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomtom215/synergy/internal/store"
	"github.com/tomtom215/synergy/internal/validation"
)

func newTestProcessor(t *testing.T) *Processor {
	t.Helper()
	p, err := NewProcessor(nil, nil, zerolog.Nop())
	require.NoError(t, err)
	return p
}

func TestProcessor_Alpha(t *testing.T) {
	p := newTestProcessor(t)

	tests := []struct {
		typ  SignalType
		want float64
	}{
		{Online, 0.1},
		{App, 0.15},
		{Physical, 0.3},
	}
	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			got, err := p.Alpha(tt.typ)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}

	_, err := p.Alpha("carrier-pigeon")
	assert.ErrorIs(t, err, ErrUnknownSignalType)
}

func TestProcessor_Process(t *testing.T) {
	ctx := context.Background()
	p := newTestProcessor(t)

	snap, err := p.Process(ctx, Signal{UserID: "u1", Category: "music", Type: Physical})
	require.NoError(t, err)
	assert.InDelta(t, 0.3, snap.Preferences["music"], 1e-12)
	assert.Equal(t, 3.0, snap.TrustAccumulator)

	snap, err = p.Process(ctx, Signal{UserID: "u1", Category: "food", Type: Online})
	require.NoError(t, err)
	assert.InDelta(t, 0.1, snap.Preferences["food"], 1e-12)
	assert.InDelta(t, 0.27, snap.Preferences["music"], 1e-12, "untouched category decays")
	assert.Equal(t, 4.0, snap.TrustAccumulator)

	acc, err := p.TrustAccumulator(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 4.0, acc)

	acc, err = p.TrustAccumulator(ctx, "nobody")
	require.NoError(t, err)
	assert.Equal(t, 0.0, acc)
}

func TestProcessor_InvalidSignal(t *testing.T) {
	ctx := context.Background()
	p := newTestProcessor(t)

	tests := []struct {
		name    string
		sig     Signal
		wantErr error
	}{
		{name: "unknown type", sig: Signal{UserID: "u1", Category: "music", Type: "fax"}, wantErr: ErrUnknownSignalType},
		{name: "missing user", sig: Signal{Category: "music", Type: App}},
		{name: "missing category", sig: Signal{UserID: "u1", Type: App}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.Process(ctx, tt.sig)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				var ve *validation.RequestValidationError
				assert.ErrorAs(t, err, &ve)
			}
		})
	}

	prefs, err := p.Preferences(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, prefs, "rejected signals must not change state")
}

func TestProcessor_Convergence(t *testing.T) {
	ctx := context.Background()
	p := newTestProcessor(t)

	require.NoError(t, func() error {
		_, err := p.Process(ctx, Signal{UserID: "u1", Category: "art", Type: Physical})
		return err
	}())
	for i := 0; i < 50; i++ {
		_, err := p.Process(ctx, Signal{UserID: "u1", Category: "music", Type: Physical})
		require.NoError(t, err)
	}

	prefs, err := p.Preferences(ctx, "u1")
	require.NoError(t, err)
	assert.Greater(t, prefs["music"], 0.99)
	assert.Less(t, prefs["art"], 0.01)
}

func TestProcessor_Bounds(t *testing.T) {
	ctx := context.Background()
	p := newTestProcessor(t)
	rng := rand.New(rand.NewSource(3))

	categories := []string{"music", "food", "sport", "art", "tech"}
	types := []SignalType{Online, App, Physical}

	for i := 0; i < 2000; i++ {
		snap, err := p.Process(ctx, Signal{
			UserID:   "u1",
			Category: categories[rng.Intn(len(categories))],
			Type:     types[rng.Intn(len(types))],
		})
		require.NoError(t, err)
		for cat, v := range snap.Preferences {
			require.GreaterOrEqual(t, v, 0.0, cat)
			require.LessOrEqual(t, v, 1.0, cat)
		}
	}
}

func TestProcessor_OrderMatters(t *testing.T) {
	ctx := context.Background()
	a := newTestProcessor(t)
	b := newTestProcessor(t)

	first := Signal{UserID: "u1", Category: "music", Type: Physical}
	second := Signal{UserID: "u1", Category: "food", Type: Online}

	_, err := a.Process(ctx, first)
	require.NoError(t, err)
	snapA, err := a.Process(ctx, second)
	require.NoError(t, err)

	_, err = b.Process(ctx, second)
	require.NoError(t, err)
	snapB, err := b.Process(ctx, first)
	require.NoError(t, err)

	assert.NotEqual(t, snapA.Preferences, snapB.Preferences)
	assert.Equal(t, snapA.TrustAccumulator, snapB.TrustAccumulator, "trust accumulation commutes")
}

func TestProcessor_ResetAndBadgerStores(t *testing.T) {
	ctx := context.Background()

	db, err := store.OpenBadger(store.BadgerOptions{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	p, err := NewProcessor(nil, store.NewBadger[UserState](db, "signals"), zerolog.Nop())
	require.NoError(t, err)

	_, err = p.Process(ctx, Signal{UserID: "u1", Category: "music", Type: App})
	require.NoError(t, err)

	prefs, err := p.Preferences(ctx, "u1")
	require.NoError(t, err)
	assert.InDelta(t, 0.15, prefs["music"], 1e-12)

	require.NoError(t, p.Reset(ctx))
	prefs, err = p.Preferences(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, prefs)
	acc, err := p.TrustAccumulator(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 0.0, acc)
}

// flakyStore computes each update but fails to commit the first one.
type flakyStore struct {
	store.Store[UserState]
	failed bool
}

func (f *flakyStore) Update(ctx context.Context, key string, fn store.UpdateFunc[UserState]) (UserState, error) {
	if !f.failed {
		f.failed = true
		cur, found, err := f.Store.Get(ctx, key)
		if err != nil {
			return UserState{}, err
		}
		if _, err := fn(cur, found); err != nil {
			return UserState{}, err
		}
		return UserState{}, errors.New("transient")
	}
	return f.Store.Update(ctx, key, fn)
}

func TestProcessor_FailedUpdateLeavesNoPartialState(t *testing.T) {
	ctx := context.Background()
	states := &flakyStore{Store: store.NewMemory[UserState]()}
	p, err := NewProcessor(nil, states, zerolog.Nop())
	require.NoError(t, err)

	sig := Signal{UserID: "u1", Category: "cafe", Type: Physical}
	_, err = p.Process(ctx, sig)
	require.Error(t, err)

	prefs, err := p.Preferences(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, prefs)
	acc, err := p.TrustAccumulator(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 0.0, acc)

	// Redelivery applies the signal exactly once.
	snap, err := p.Process(ctx, sig)
	require.NoError(t, err)
	assert.InDelta(t, 0.3, snap.Preferences["cafe"], 1e-12)
	assert.Equal(t, 3.0, snap.TrustAccumulator)
}

func TestBlend_DoesNotMutateInput(t *testing.T) {
	old := PreferenceVector{"music": 0.5}
	out := Blend(old, "food", 0.3)

	assert.Equal(t, PreferenceVector{"music": 0.5}, old)
	assert.InDelta(t, 0.35, out["music"], 1e-12)
	assert.InDelta(t, 0.3, out["food"], 1e-12)
}

func TestParseSignalType(t *testing.T) {
	got, err := ParseSignalType(" Physical ")
	require.NoError(t, err)
	assert.Equal(t, Physical, got)

	_, err = ParseSignalType("smoke")
	assert.ErrorIs(t, err, ErrUnknownSignalType)
}

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
	assert.Error(t, (&Config{BaseAlpha: 0, Weights: DefaultConfig().Weights}).Validate())
	assert.Error(t, (&Config{BaseAlpha: 0.3, Weights: Weights{Online: 1}}).Validate())
}
