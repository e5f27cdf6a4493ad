// Synergy - Trust-Aware Team Matching and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/synergy

/*
Package config provides centralized configuration management for Synergy.

# Configuration Sources

Values are layered with koanf, later layers winning:
  - Built-in defaults, taken from each package's DefaultConfig
  - YAML file: SYNERGY_CONFIG_PATH, synergy.yaml or /etc/synergy/config.yaml
  - Environment variables prefixed with SYNERGY_

# Environment Variables

Every key can be overridden by upper-casing its path and joining with
underscores:

	scoring.confidence_k      SYNERGY_SCORING_CONFIDENCE_K
	coldstart.bandit_max      SYNERGY_COLDSTART_BANDIT_MAX
	store.backend             SYNERGY_STORE_BACKEND (memory, badger)
	events.transport          SYNERGY_EVENTS_TRANSPORT (gochannel, nats)
	events.embedded_server    SYNERGY_EVENTS_EMBEDDED_SERVER
	trust.enabled             SYNERGY_TRUST_ENABLED
	metrics.addr              SYNERGY_METRICS_ADDR

Durations accept Go syntax (30s, 5m).

# Example YAML

	logging:
	  level: debug
	  format: console
	coldstart:
	  content_max: 5
	  transfer_max: 20
	  bandit_max: 50
	store:
	  backend: badger
	  path: /var/lib/synergy
	events:
	  transport: nats
	  embedded_server: true

# Validation

Load validates field ranges with validator tags and then runs each package's
Validate on the converted config, so the same invariants hold whether a
component is built from a file or from code.
*/
package config
