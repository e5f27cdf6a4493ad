// Synergy - Trust-Aware Team Matching and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/synergy

/*
Package supervisor runs the long-lived parts of synergy under suture v4.

Scoring, matching and learning are plain function calls; only event intake
and the metrics listener run as services. Both are restarted with backoff
when they fail and stopped in order on shutdown.

Supervisor events are logged through sutureslog onto the zerolog logger:

	tree := supervisor.NewTree(logging.NewSlogLogger(), cfg.TreeConfig())
	tree.AddIntakeService(services.NewConsumerService("signals", handler))
	tree.AddAPIService(services.NewHTTPServerService(srv, 5*time.Second))
	err := tree.Serve(ctx)

See package services for the adapters.
*/
package supervisor
