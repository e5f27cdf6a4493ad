// Synergy - Trust-Aware Team Matching and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/synergy

// Command synergy runs the event intake of the matching engine: engagement
// signals update preference vectors and trust accumulators, bandit feedback
// updates Beta posteriors, and Prometheus metrics are served on
// metrics.addr.
package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/tomtom215/synergy/internal/config"
	"github.com/tomtom215/synergy/internal/logging"
	"github.com/tomtom215/synergy/internal/supervisor"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(cfg.LoggingConfig())
	logger := logging.Logger()

	logger.Info().
		Str("store", cfg.Store.Backend).
		Str("transport", cfg.Events.Transport).
		Bool("embedded_nats", cfg.Events.EmbeddedServer).
		Bool("trust_service", cfg.Trust.Enabled).
		Msg("Starting synergy")

	a, err := newApp(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize components")
	}
	defer func() {
		if err := a.close(); err != nil {
			logger.Error().Err(err).Msg("Error closing components")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tree := supervisor.NewTree(logging.NewSlogLogger(), cfg.TreeConfig())
	a.register(tree, cfg)

	logger.Info().Msg("Starting supervisor tree")
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error().Err(err).Msg("Supervisor tree error")
	}

	unstopped, _ := tree.UnstoppedServiceReport() //nolint:errcheck // best-effort shutdown report
	for _, svc := range unstopped {
		logger.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logger.Info().Msg("Synergy stopped")
}
