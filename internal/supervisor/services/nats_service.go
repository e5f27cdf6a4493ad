// Synergy - Trust-Aware Team Matching and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/synergy

package services

import (
	"context"
	"time"
)

// NATSServer matches the *eventprocessor.EmbeddedServer lifecycle.
type NATSServer interface {
	Shutdown(ctx context.Context) error
}

// NATSServerService owns an already started embedded NATS server and shuts
// it down when the tree stops. The server is started before the tree so
// consumers can connect on their first attempt.
type NATSServerService struct {
	server          NATSServer
	shutdownTimeout time.Duration
	name            string
}

// NewNATSServerService wraps server. A non-positive timeout means 10s.
func NewNATSServerService(server NATSServer, shutdownTimeout time.Duration) *NATSServerService {
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	return &NATSServerService{
		server:          server,
		shutdownTimeout: shutdownTimeout,
		name:            "nats-server",
	}
}

// Serve implements suture.Service.
func (s *NATSServerService) Serve(ctx context.Context) error {
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return ctx.Err()
}

// String implements fmt.Stringer for suture's logs.
func (s *NATSServerService) String() string {
	return s.name
}
