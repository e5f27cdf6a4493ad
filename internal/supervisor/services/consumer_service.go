// Synergy - Trust-Aware Team Matching and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/synergy

package services

import (
	"context"
	"fmt"
)

// Runner blocks processing until ctx ends. *eventprocessor.TopicHandler
// satisfies it.
type Runner interface {
	Run(ctx context.Context) error
}

// ConsumerService supervises one event consumer. A consumer that returns
// while the context is still live is restarted by suture.
type ConsumerService struct {
	runner Runner
	name   string
}

// NewConsumerService wraps runner under name, e.g. "signals-consumer".
func NewConsumerService(name string, runner Runner) *ConsumerService {
	return &ConsumerService{runner: runner, name: name}
}

// Serve implements suture.Service.
func (s *ConsumerService) Serve(ctx context.Context) error {
	err := s.runner.Run(ctx)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		return fmt.Errorf("%s: %w", s.name, err)
	}
	return fmt.Errorf("%s: subscription closed", s.name)
}

// String implements fmt.Stringer for suture's logs.
func (s *ConsumerService) String() string {
	return s.name
}
