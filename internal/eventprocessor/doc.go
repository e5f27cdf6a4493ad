// Synergy - Trust-Aware Team Matching and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/synergy

// Package eventprocessor feeds external events into the learning loops.
//
// Two topics are consumed through Watermill:
//
//	synergy.signals   EngagementEvent  -> signals.Processor.Process
//	synergy.feedback  FeedbackEvent    -> coldstart.Bandit.RecordFeedback
//
// # Delivery
//
// Each topic is handled by one TopicHandler that processes messages one at a
// time, so a user's signals are applied in the order the transport delivers
// them. Preference updates do not commute; bandit feedback does.
//
// Outcomes per message:
//
//	malformed payload or failed validation  ack, dropped
//	event ID applied within the dedup TTL   ack, dropped
//	apply error                             nack, redelivery left to the transport
//	applied                                 ack, event ID remembered
//
// Event IDs are only remembered after a successful apply, so a redelivered
// event that failed before is still applied exactly once.
//
// # Transports
//
// NewGoChannelPubSub gives an in-process Pub/Sub for a single binary and for
// tests. NewNATSSubscriber and NewNATSPublisher use core NATS through
// watermill-nats; EmbeddedServer runs a NATS server inside the process for
// development.
//
// NATSTrustProvider asks the trust-aggregation service for a user's
// aggregate over NATS request-reply and is meant to be wrapped in a
// scoring.BreakerTrustProvider.
package eventprocessor
