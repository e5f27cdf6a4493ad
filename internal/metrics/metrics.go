// Synergy - Trust-Aware Team Matching and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/synergy

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Matching Metrics
	MatchRunsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "synergy_match_runs_total",
			Help: "Total number of stable matching runs",
		},
	)

	MatchRunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "synergy_match_run_duration_seconds",
			Help:    "Duration of stable matching runs in seconds",
			Buckets: []float64{.0005, .001, .005, .01, .05, .1, .5, 1, 5},
		},
	)

	MatchPairsScored = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "synergy_match_pairs_scored_total",
			Help: "Total number of (project, candidate) pairs scored, counting both perspectives once",
		},
	)

	MatchAssignments = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "synergy_match_assignments",
			Help: "Number of assignments produced by the last matching run",
		},
	)

	// Cold Start Metrics
	BanditSelections = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "synergy_bandit_selections_total",
			Help: "Total number of Thompson Sampling selections",
		},
	)

	BanditFeedback = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "synergy_bandit_feedback_total",
			Help: "Total number of bandit feedback updates",
		},
		[]string{"reward"}, // "0", "1"
	)

	ColdStartStrategy = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "synergy_coldstart_strategy_total",
			Help: "Total number of cold start bootstraps by selected strategy",
		},
		[]string{"strategy"},
	)

	TransferRegularizationEscalations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "synergy_transfer_regularization_escalations_total",
			Help: "Total number of times the transfer learner raised lambda on a singular system",
		},
	)

	// Feedback Loop Metrics
	SignalsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "synergy_signals_processed_total",
			Help: "Total number of engagement signals applied to preference vectors",
		},
		[]string{"signal_type"},
	)

	SuccessPatternsRecorded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "synergy_success_patterns_recorded_total",
			Help: "Total number of success patterns recorded",
		},
	)

	BoostMultiplier = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "synergy_boost_multiplier",
			Help:    "Distribution of success pattern boost multipliers",
			Buckets: []float64{1, 1.1, 1.2, 1.3, 1.5, 2, 3},
		},
	)

	TrustProviderFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "synergy_trust_provider_failures_total",
			Help: "Total number of trust aggregate lookups that fell back to the profile composite",
		},
	)

	// Event Intake Metrics
	EventsConsumed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "synergy_events_consumed_total",
			Help: "Total number of consumed events by outcome",
		},
		[]string{"topic", "outcome"}, // outcome: "applied", "duplicate", "invalid", "failed"
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "synergy_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "synergy_circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "synergy_circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)
)

// Event outcomes used as the "outcome" label of EventsConsumed.
const (
	OutcomeApplied   = "applied"
	OutcomeDuplicate = "duplicate"
	OutcomeInvalid   = "invalid"
	OutcomeFailed    = "failed"
)

// RecordMatchRun records one stable matching run.
func RecordMatchRun(duration time.Duration, pairs, assignments int) {
	MatchRunsTotal.Inc()
	MatchRunDuration.Observe(duration.Seconds())
	MatchPairsScored.Add(float64(pairs))
	MatchAssignments.Set(float64(assignments))
}

// RecordBanditSelection records one Thompson Sampling selection.
func RecordBanditSelection() {
	BanditSelections.Inc()
}

// RecordBanditFeedback records a conjugate posterior update.
func RecordBanditFeedback(reward int) {
	BanditFeedback.WithLabelValues(strconv.Itoa(reward)).Inc()
}

// RecordColdStartStrategy records the strategy chosen for a bootstrap.
func RecordColdStartStrategy(strategy string) {
	ColdStartStrategy.WithLabelValues(strategy).Inc()
}

// RecordRegularizationEscalations records lambda escalations of one learner run.
func RecordRegularizationEscalations(n int) {
	if n > 0 {
		TransferRegularizationEscalations.Add(float64(n))
	}
}

// RecordSignal records an applied engagement signal.
func RecordSignal(signalType string) {
	SignalsProcessed.WithLabelValues(signalType).Inc()
}

// RecordSuccessPattern records a newly stored success pattern.
func RecordSuccessPattern() {
	SuccessPatternsRecorded.Inc()
}

// RecordBoost records a computed boost multiplier.
func RecordBoost(multiplier float64) {
	BoostMultiplier.Observe(multiplier)
}

// RecordTrustProviderFailure records a fallback to the profile composite trust.
func RecordTrustProviderFailure() {
	TrustProviderFailures.Inc()
}

// RecordEventConsumed records the outcome of one consumed message.
func RecordEventConsumed(topic, outcome string) {
	EventsConsumed.WithLabelValues(topic, outcome).Inc()
}
