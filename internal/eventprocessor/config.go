// Synergy - Trust-Aware Team Matching and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/synergy

package eventprocessor

import (
	"fmt"
	"time"
)

// Transports.
const (
	TransportGoChannel = "gochannel"
	TransportNATS      = "nats"
)

// Default topic names.
const (
	DefaultSignalsTopic  = "synergy.signals"
	DefaultFeedbackTopic = "synergy.feedback"
)

// Config holds event intake configuration.
type Config struct {
	// Transport is gochannel or nats.
	Transport string

	// URL of the NATS server when Transport is nats.
	URL string

	// QueueGroup load-balances messages across instances. Empty disables
	// queue subscriptions.
	QueueGroup string

	// SubscribersCount is the number of NATS subscriptions per topic.
	// Values above 1 give up per-user ordering.
	SubscribersCount int

	// AckWaitTimeout bounds how long a message waits for ack.
	AckWaitTimeout time.Duration

	// CloseTimeout bounds subscriber shutdown.
	CloseTimeout time.Duration

	// MaxReconnects and ReconnectWait control NATS reconnection.
	MaxReconnects int
	ReconnectWait time.Duration

	SignalsTopic  string
	FeedbackTopic string

	// DedupCapacity and DedupTTL size the event ID cache.
	DedupCapacity int
	DedupTTL      time.Duration
}

// DefaultConfig returns an in-process configuration.
func DefaultConfig() Config {
	return Config{
		Transport:        TransportGoChannel,
		URL:              "nats://127.0.0.1:4222",
		QueueGroup:       "synergy",
		SubscribersCount: 1,
		AckWaitTimeout:   30 * time.Second,
		CloseTimeout:     10 * time.Second,
		MaxReconnects:    -1,
		ReconnectWait:    2 * time.Second,
		SignalsTopic:     DefaultSignalsTopic,
		FeedbackTopic:    DefaultFeedbackTopic,
		DedupCapacity:    100000,
		DedupTTL:         30 * time.Minute,
	}
}

// Validate checks the configuration for errors.
//
//nolint:gocritic // hugeParam: config is read once at startup
func (c Config) Validate() error {
	switch c.Transport {
	case TransportGoChannel:
	case TransportNATS:
		if c.URL == "" {
			return fmt.Errorf("%w: events.url is required for nats transport", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: events.transport must be %s or %s, got %q",
			ErrInvalidConfig, TransportGoChannel, TransportNATS, c.Transport)
	}
	if c.SignalsTopic == "" || c.FeedbackTopic == "" {
		return fmt.Errorf("%w: events topics must be set", ErrInvalidConfig)
	}
	if c.SignalsTopic == c.FeedbackTopic {
		return fmt.Errorf("%w: events topics must differ, got %q", ErrInvalidConfig, c.SignalsTopic)
	}
	if c.SubscribersCount < 1 {
		return fmt.Errorf("%w: events.subscribers_count must be at least 1, got %d", ErrInvalidConfig, c.SubscribersCount)
	}
	return nil
}
