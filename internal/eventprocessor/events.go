// Synergy - Trust-Aware Team Matching and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/synergy

package eventprocessor

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/synergy/internal/signals"
	"github.com/tomtom215/synergy/internal/validation"
)

// EngagementEvent is a doorbell press, app open or click on a category.
type EngagementEvent struct {
	EventID    string    `json:"event_id" validate:"required"`
	UserID     string    `json:"user_id" validate:"required"`
	Category   string    `json:"category" validate:"required"`
	SignalType string    `json:"signal_type" validate:"required,oneof=online app physical"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewEngagementEvent creates an event with a fresh ID.
func NewEngagementEvent(userID, category string, t signals.SignalType) *EngagementEvent {
	return &EngagementEvent{
		EventID:    uuid.NewString(),
		UserID:     userID,
		Category:   category,
		SignalType: string(t),
		OccurredAt: time.Now().UTC(),
	}
}

// Validate checks required fields and the signal type.
func (e *EngagementEvent) Validate() error {
	return validation.ValidateStruct(e)
}

// Signal converts the event for the signal processor.
func (e *EngagementEvent) Signal() signals.Signal {
	return signals.Signal{
		UserID:   e.UserID,
		Category: e.Category,
		Type:     signals.SignalType(e.SignalType),
	}
}

// FeedbackEvent reports whether a bandit recommendation was accepted.
type FeedbackEvent struct {
	EventID     string    `json:"event_id" validate:"required"`
	UserID      string    `json:"user_id" validate:"required"`
	CandidateID string    `json:"candidate_id" validate:"required"`
	Reward      *int      `json:"reward" validate:"required,oneof=0 1"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// NewFeedbackEvent creates an event with a fresh ID. reward must be 0 or 1.
func NewFeedbackEvent(userID, candidateID string, reward int) *FeedbackEvent {
	return &FeedbackEvent{
		EventID:     uuid.NewString(),
		UserID:      userID,
		CandidateID: candidateID,
		Reward:      &reward,
		OccurredAt:  time.Now().UTC(),
	}
}

// Validate checks required fields and the reward.
func (e *FeedbackEvent) Validate() error {
	return validation.ValidateStruct(e)
}

// RewardValue returns the reward, or -1 when it is missing.
func (e *FeedbackEvent) RewardValue() int {
	if e.Reward == nil {
		return -1
	}
	return *e.Reward
}

// String identifies the event in logs.
func (e *FeedbackEvent) String() string {
	return fmt.Sprintf("feedback %s (%s -> %s = %d)", e.EventID, e.UserID, e.CandidateID, e.RewardValue())
}
