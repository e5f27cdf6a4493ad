// Synergy - Trust-Aware Team Matching and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/synergy

package eventprocessor

import (
	"context"
	"errors"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog"

	"github.com/tomtom215/synergy/internal/cache"
	"github.com/tomtom215/synergy/internal/coldstart"
	"github.com/tomtom215/synergy/internal/logging"
	"github.com/tomtom215/synergy/internal/metrics"
	"github.com/tomtom215/synergy/internal/signals"
	"github.com/tomtom215/synergy/internal/validation"
)

// SignalApplier applies engagement signals. signals.Processor implements it.
type SignalApplier interface {
	Process(ctx context.Context, sig signals.Signal) (signals.Snapshot, error)
}

// FeedbackApplier applies bandit feedback. coldstart.Bandit implements it.
type FeedbackApplier interface {
	RecordFeedback(ctx context.Context, userID, candidateID string, reward int) (coldstart.BetaPosterior, error)
}

// decoded is a validated event waiting to be applied.
type decoded struct {
	id    string
	user  string
	apply func(ctx context.Context) error
}

type decodeFunc func(payload []byte) (decoded, error)

// TopicHandler consumes one topic and applies each event exactly once per
// dedup window.
type TopicHandler struct {
	subscriber message.Subscriber
	topic      string
	decode     decodeFunc
	dedup      *cache.Dedup
	logger     zerolog.Logger
}

// NewSignalHandler consumes EngagementEvents from topic.
func NewSignalHandler(sub message.Subscriber, topic string, applier SignalApplier, dedup *cache.Dedup, logger zerolog.Logger) *TopicHandler {
	decode := func(payload []byte) (decoded, error) {
		ev, err := Unmarshal[EngagementEvent](payload)
		if err != nil {
			return decoded{}, err
		}
		if err := ev.Validate(); err != nil {
			return decoded{}, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
		}
		return decoded{
			id:   ev.EventID,
			user: ev.UserID,
			apply: func(ctx context.Context) error {
				_, err := applier.Process(ctx, ev.Signal())
				return err
			},
		}, nil
	}
	return newTopicHandler(sub, topic, decode, dedup, logger)
}

// NewFeedbackHandler consumes FeedbackEvents from topic.
func NewFeedbackHandler(sub message.Subscriber, topic string, applier FeedbackApplier, dedup *cache.Dedup, logger zerolog.Logger) *TopicHandler {
	decode := func(payload []byte) (decoded, error) {
		ev, err := Unmarshal[FeedbackEvent](payload)
		if err != nil {
			return decoded{}, err
		}
		if err := ev.Validate(); err != nil {
			return decoded{}, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
		}
		return decoded{
			id:   ev.EventID,
			user: ev.UserID,
			apply: func(ctx context.Context) error {
				_, err := applier.RecordFeedback(ctx, ev.UserID, ev.CandidateID, ev.RewardValue())
				return err
			},
		}, nil
	}
	return newTopicHandler(sub, topic, decode, dedup, logger)
}

func newTopicHandler(sub message.Subscriber, topic string, decode decodeFunc, dedup *cache.Dedup, logger zerolog.Logger) *TopicHandler {
	if dedup == nil {
		dedup = cache.NewDedup(cache.DefaultCapacity, cache.DefaultTTL)
	}
	return &TopicHandler{
		subscriber: sub,
		topic:      topic,
		decode:     decode,
		dedup:      dedup,
		logger:     logger.With().Str("component", "consumer").Str("topic", topic).Logger(),
	}
}

// Topic returns the consumed topic.
func (h *TopicHandler) Topic() string {
	return h.topic
}

// Run processes messages until ctx is canceled or the subscription closes.
func (h *TopicHandler) Run(ctx context.Context) error {
	messages, err := h.subscriber.Subscribe(ctx, h.topic)
	if err != nil {
		return fmt.Errorf("subscribe to %s: %w", h.topic, err)
	}

	h.logger.Info().Msg("consumer started")
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				return ctx.Err()
			}
			h.handle(ctx, msg)
		}
	}
}

// handle acks or nacks msg and returns the outcome.
func (h *TopicHandler) handle(ctx context.Context, msg *message.Message) string {
	ctx = logging.ContextWithCorrelationID(ctx, msg.UUID)

	ev, err := h.decode(msg.Payload)
	if err != nil {
		h.logger.Warn().Err(err).Str("message_uuid", msg.UUID).Msg("dropping malformed event")
		return h.finish(msg, metrics.OutcomeInvalid, true)
	}

	if h.dedup.Seen(ev.id) {
		h.logger.Debug().Str("event_id", ev.id).Msg("dropping duplicate event")
		return h.finish(msg, metrics.OutcomeDuplicate, true)
	}

	if err := ev.apply(ctx); err != nil {
		if isPermanent(err) {
			h.logger.Warn().Err(err).Str("event_id", ev.id).Msg("dropping unapplicable event")
			return h.finish(msg, metrics.OutcomeInvalid, true)
		}
		h.logger.Error().Err(err).
			Str("event_id", ev.id).
			Str("user_id", ev.user).
			Msg("event apply failed, requesting redelivery")
		return h.finish(msg, metrics.OutcomeFailed, false)
	}

	h.dedup.Mark(ev.id)
	return h.finish(msg, metrics.OutcomeApplied, true)
}

func (h *TopicHandler) finish(msg *message.Message, outcome string, ack bool) string {
	if ack {
		msg.Ack()
	} else {
		msg.Nack()
	}
	metrics.RecordEventConsumed(h.topic, outcome)
	return outcome
}

// isPermanent reports errors that redelivery cannot fix.
func isPermanent(err error) bool {
	var verr *validation.RequestValidationError
	return errors.As(err, &verr) ||
		errors.Is(err, signals.ErrUnknownSignalType) ||
		errors.Is(err, coldstart.ErrInvalidReward)
}
