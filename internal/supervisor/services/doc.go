// Synergy - Trust-Aware Team Matching and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/synergy

// Package services adapts synergy components to suture.Service.
//
//	ConsumerService     Run(ctx) loops such as eventprocessor.TopicHandler
//	HTTPServerService   *http.Server, including NewMetricsServer
//	NATSServerService   shutdown of the embedded NATS server
//
// Every adapter returns ctx.Err() once its context is canceled so suture
// treats the stop as intentional.
package services
