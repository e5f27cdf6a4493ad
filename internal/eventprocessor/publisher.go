// Synergy - Trust-Aware Team Matching and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/synergy

package eventprocessor

import (
	"context"
	"fmt"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/tomtom215/synergy/internal/logging"
)

// Publisher sends engagement and feedback events.
type Publisher struct {
	publisher     message.Publisher
	signalsTopic  string
	feedbackTopic string

	mu     sync.RWMutex
	closed bool
}

// NewPublisher wraps a Watermill publisher. Topics come from cfg.
//
//nolint:gocritic // hugeParam: config is read once at startup
func NewPublisher(pub message.Publisher, cfg Config) *Publisher {
	return &Publisher{
		publisher:     pub,
		signalsTopic:  cfg.SignalsTopic,
		feedbackTopic: cfg.FeedbackTopic,
	}
}

// PublishEngagement publishes an engagement event.
func (p *Publisher) PublishEngagement(ctx context.Context, ev *EngagementEvent) error {
	if err := ev.Validate(); err != nil {
		return err
	}
	return p.publish(ctx, p.signalsTopic, ev.EventID, ev)
}

// PublishFeedback publishes a feedback event.
func (p *Publisher) PublishFeedback(ctx context.Context, ev *FeedbackEvent) error {
	if err := ev.Validate(); err != nil {
		return err
	}
	return p.publish(ctx, p.feedbackTopic, ev.EventID, ev)
}

func (p *Publisher) publish(ctx context.Context, topic, eventID string, payload any) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPublisherClosed
	}

	data, err := Marshal(payload)
	if err != nil {
		return err
	}

	msg := message.NewMessage(eventID, data)
	msg.SetContext(ctx)
	if id := logging.CorrelationIDFromContext(ctx); id != "" {
		msg.Metadata.Set("correlation_id", id)
	}

	if err := p.publisher.Publish(topic, msg); err != nil {
		return fmt.Errorf("publish to %s: %w", topic, err)
	}
	return nil
}

// Close closes the underlying publisher. Further publishes fail.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	return p.publisher.Close()
}
