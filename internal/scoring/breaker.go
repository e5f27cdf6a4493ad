// Synergy - Trust-Aware Team Matching and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/synergy

package scoring

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/synergy/internal/logging"
	"github.com/tomtom215/synergy/internal/metrics"
)

// BreakerConfig configures the circuit breaker around a TrustProvider.
type BreakerConfig struct {
	// Name labels the breaker in logs and metrics.
	Name string

	// MaxRequests is the number of probes allowed while half-open.
	MaxRequests uint32

	// Interval resets the failure counts while closed.
	Interval time.Duration

	// Timeout is how long the breaker stays open before probing.
	Timeout time.Duration

	// MinRequests is the number of requests in an interval before the
	// failure ratio is considered.
	MinRequests uint32

	// FailureRatio opens the breaker once reached.
	FailureRatio float64

	// CallTimeout bounds each provider call. Zero means no extra bound.
	CallTimeout time.Duration
}

// DefaultBreakerConfig returns the production breaker settings.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		Name:         "trust-aggregate",
		MaxRequests:  3,
		Interval:     time.Minute,
		Timeout:      30 * time.Second,
		MinRequests:  10,
		FailureRatio: 0.6,
		CallTimeout:  250 * time.Millisecond,
	}
}

// BreakerTrustProvider guards a TrustProvider with a circuit breaker so a
// failing trust service degrades scoring to profile composites instead of
// slowing every match run.
type BreakerTrustProvider struct {
	next        TrustProvider
	cb          *gobreaker.CircuitBreaker[float64]
	name        string
	callTimeout time.Duration
}

var _ TrustProvider = (*BreakerTrustProvider)(nil)

// NewBreakerTrustProvider wraps next.
func NewBreakerTrustProvider(next TrustProvider, cfg BreakerConfig) *BreakerTrustProvider {
	if cfg.Name == "" {
		cfg.Name = DefaultBreakerConfig().Name
	}
	if cfg.MinRequests == 0 {
		cfg.MinRequests = 1
	}
	name := cfg.Name

	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	cb := gobreaker.NewCircuitBreaker[float64](gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			if ratio >= cfg.FailureRatio {
				logging.Warn().Str("breaker", name).
					Uint32("failures", counts.TotalFailures).
					Float64("failure_ratio", ratio).
					Msg("opening circuit")
				return true
			}
			return false
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit state transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateValue(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
		},
	})

	return &BreakerTrustProvider{
		next:        next,
		cb:          cb,
		name:        name,
		callTimeout: cfg.CallTimeout,
	}
}

// AggregateTrust calls the wrapped provider unless the circuit is open.
func (b *BreakerTrustProvider) AggregateTrust(ctx context.Context, userID string) (float64, error) {
	v, err := b.cb.Execute(func() (float64, error) {
		callCtx := ctx
		if b.callTimeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, b.callTimeout)
			defer cancel()
		}
		return b.next.AggregateTrust(callCtx, userID)
	})

	switch {
	case err == nil:
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "success").Inc()
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "rejected").Inc()
	default:
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "failure").Inc()
	}
	return v, err
}

// State returns the breaker state.
func (b *BreakerTrustProvider) State() gobreaker.State {
	return b.cb.State()
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
