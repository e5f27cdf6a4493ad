// Synergy - Trust-Aware Team Matching and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/synergy

/*
Package metrics provides Prometheus instrumentation for the matching engine.

All collectors are registered with the default registry through promauto and
are updated through the Record* helpers, so callers never touch label values
directly.

# Available Metrics

Matching:
  - synergy_match_runs_total: stable matching runs (counter)
  - synergy_match_run_duration_seconds: run latency (histogram)
  - synergy_match_pairs_scored_total: scored pairs (counter)
  - synergy_match_assignments: size of the last assignment (gauge)

Cold start:
  - synergy_bandit_selections_total (counter)
  - synergy_bandit_feedback_total{reward} (counter)
  - synergy_coldstart_strategy_total{strategy} (counter)
  - synergy_transfer_regularization_escalations_total (counter)

Feedback loops:
  - synergy_signals_processed_total{signal_type} (counter)
  - synergy_success_patterns_recorded_total (counter)
  - synergy_boost_multiplier (histogram)
  - synergy_trust_provider_failures_total (counter)

Event intake:
  - synergy_events_consumed_total{topic,outcome} (counter)

Circuit breakers:
  - synergy_circuit_breaker_state{name} (gauge, 0=closed 1=half-open 2=open)
  - synergy_circuit_breaker_requests_total{name,result} (counter)
  - synergy_circuit_breaker_state_transitions_total{name,from_state,to_state} (counter)

# Example Alert

	- alert: TrustServiceCircuitOpen
	  expr: synergy_circuit_breaker_state{name="trust-aggregate"} == 2
	  for: 5m
	  annotations:
	    summary: "Trust aggregation unavailable, scoring uses profile composites"
*/
package metrics
