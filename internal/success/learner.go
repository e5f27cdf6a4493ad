// Synergy - Trust-Aware Team Matching and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/synergy

// Package success records team compositions of successful projects and boosts
// future scores of teams that resemble them.
//
// Patterns are append-only per category; they are never merged or
// deduplicated. The boost multiplier is 1 + 0.1 per similar pattern and is
// applied without clamping, so a boosted score can exceed 1.
package success

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/synergy/internal/logging"
	"github.com/tomtom215/synergy/internal/metrics"
	"github.com/tomtom215/synergy/internal/store"
	"github.com/tomtom215/synergy/internal/validation"
)

// MemberTrait is a team member's role and tags.
type MemberTrait struct {
	Role string   `json:"role" validate:"required"`
	Tags []string `json:"tags,omitempty"`
}

// Pattern is a team composition that met the success criteria.
type Pattern struct {
	ID         string        `json:"id"`
	Category   string        `json:"category"`
	Traits     []MemberTrait `json:"traits"`
	RecordedAt time.Time     `json:"recorded_at"`
}

// ProjectMetrics are the outcome figures of a finished project.
type ProjectMetrics struct {
	GoalAchievementRate float64 `json:"goal_achievement_rate" validate:"unit"`
	ResponseRate        float64 `json:"response_rate" validate:"unit"`
	AverageRating       float64 `json:"average_rating" validate:"gte=0,lte=5"`
}

// BoostedScore explains a boost.
type BoostedScore struct {
	BaseScore    float64 `json:"base_score"`
	BoostedScore float64 `json:"boosted_score"`
	PatternCount int     `json:"pattern_count"`
	Multiplier   float64 `json:"multiplier"`
}

// Config contains the success criteria and boost parameters.
type Config struct {
	// GoalThreshold alone qualifies a project. Default: 0.80.
	GoalThreshold float64 `json:"goal_threshold"`

	// ResponseThreshold and RatingThreshold together qualify a project.
	// Defaults: 0.95 and 4.8.
	ResponseThreshold float64 `json:"response_threshold"`
	RatingThreshold   float64 `json:"rating_threshold"`

	// SimilarityThreshold is the Jaccard similarity a pattern must exceed
	// to count. Default: 0.3.
	SimilarityThreshold float64 `json:"similarity_threshold"`

	// BoostPerPattern is added to the multiplier per similar pattern.
	// Default: 0.1.
	BoostPerPattern float64 `json:"boost_per_pattern"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		GoalThreshold:       0.80,
		ResponseThreshold:   0.95,
		RatingThreshold:     4.8,
		SimilarityThreshold: 0.3,
		BoostPerPattern:     0.1,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.GoalThreshold < 0 || c.GoalThreshold > 1 {
		return fmt.Errorf("success.goal_threshold must be in [0, 1], got %f", c.GoalThreshold)
	}
	if c.ResponseThreshold < 0 || c.ResponseThreshold > 1 {
		return fmt.Errorf("success.response_threshold must be in [0, 1], got %f", c.ResponseThreshold)
	}
	if c.RatingThreshold < 0 || c.RatingThreshold > 5 {
		return fmt.Errorf("success.rating_threshold must be in [0, 5], got %f", c.RatingThreshold)
	}
	if c.SimilarityThreshold < 0 || c.SimilarityThreshold >= 1 {
		return fmt.Errorf("success.similarity_threshold must be in [0, 1), got %f", c.SimilarityThreshold)
	}
	if c.BoostPerPattern < 0 {
		return fmt.Errorf("success.boost_per_pattern must be non-negative, got %f", c.BoostPerPattern)
	}
	return nil
}

// MeetsCriteria reports whether m qualifies as a success under the default
// thresholds.
func MeetsCriteria(m ProjectMetrics) bool {
	return DefaultConfig().MeetsCriteria(m)
}

// MeetsCriteria reports whether m qualifies: goal >= GoalThreshold, or
// response >= ResponseThreshold and rating >= RatingThreshold.
func (c *Config) MeetsCriteria(m ProjectMetrics) bool {
	if m.GoalAchievementRate >= c.GoalThreshold {
		return true
	}
	return m.ResponseRate >= c.ResponseThreshold && m.AverageRating >= c.RatingThreshold
}

// Learner stores success patterns and computes boosts.
type Learner struct {
	config   *Config
	patterns store.Store[[]Pattern]
	now      func() time.Time
	logger   zerolog.Logger
}

// Option configures a Learner.
type Option func(*Learner)

// WithClock sets the timestamp source of recorded patterns.
func WithClock(now func() time.Time) Option {
	return func(l *Learner) { l.now = now }
}

// NewLearner creates a learner. A nil cfg uses DefaultConfig and a nil store
// an in-memory store.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewLearner(cfg *Config, patterns store.Store[[]Pattern], logger zerolog.Logger, opts ...Option) (*Learner, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if patterns == nil {
		patterns = store.NewMemory[[]Pattern]()
	}

	l := &Learner{
		config:   cfg,
		patterns: patterns,
		now:      time.Now,
		logger:   logger.With().Str("component", "success").Logger(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Record stores team under category if m meets the success criteria and
// returns the new pattern. It returns nil when the criteria are not met.
func (l *Learner) Record(ctx context.Context, category string, team []MemberTrait, m ProjectMetrics) (*Pattern, error) {
	if category == "" {
		return nil, store.ErrEmptyKey
	}
	if err := validation.ValidateStruct(m); err != nil {
		return nil, err
	}
	for i := range team {
		if err := validation.ValidateStruct(team[i]); err != nil {
			return nil, fmt.Errorf("member %d: %w", i, err)
		}
	}
	if !l.config.MeetsCriteria(m) {
		return nil, nil
	}

	p := Pattern{
		ID:         uuid.NewString(),
		Category:   category,
		Traits:     cloneTraits(team),
		RecordedAt: l.now().UTC(),
	}
	if _, err := l.patterns.Update(ctx, category, func(cur []Pattern, _ bool) ([]Pattern, error) {
		next := make([]Pattern, len(cur), len(cur)+1)
		copy(next, cur)
		return append(next, p), nil
	}); err != nil {
		return nil, fmt.Errorf("append pattern: %w", err)
	}

	metrics.RecordSuccessPattern()
	logging.Enrich(ctx, l.logger).Debug().
		Str("pattern_id", p.ID).
		Str("category", category).
		Int("members", len(team)).
		Msg("success pattern recorded")

	return &p, nil
}

// Patterns returns the patterns of category in recording order.
func (l *Learner) Patterns(ctx context.Context, category string) ([]Pattern, error) {
	ps, _, err := l.patterns.Get(ctx, category)
	if err != nil {
		return nil, err
	}
	out := make([]Pattern, len(ps))
	copy(out, ps)
	return out, nil
}

// Boost multiplies base by 1 + BoostPerPattern for every pattern in
// category whose similarity to team exceeds SimilarityThreshold. The result
// is not clamped.
func (l *Learner) Boost(ctx context.Context, category string, team []MemberTrait, base float64) (BoostedScore, error) {
	ps, _, err := l.patterns.Get(ctx, category)
	if err != nil {
		return BoostedScore{}, err
	}

	count := 0
	for i := range ps {
		if Similarity(team, ps[i].Traits) > l.config.SimilarityThreshold {
			count++
		}
	}

	multiplier := 1 + l.config.BoostPerPattern*float64(count)
	metrics.RecordBoost(multiplier)

	return BoostedScore{
		BaseScore:    base,
		BoostedScore: base * multiplier,
		PatternCount: count,
		Multiplier:   multiplier,
	}, nil
}

// Reset removes every pattern.
func (l *Learner) Reset(ctx context.Context) error {
	return l.patterns.Reset(ctx)
}

func cloneTraits(in []MemberTrait) []MemberTrait {
	out := make([]MemberTrait, len(in))
	for i, t := range in {
		out[i] = MemberTrait{Role: t.Role, Tags: append([]string(nil), t.Tags...)}
	}
	return out
}
