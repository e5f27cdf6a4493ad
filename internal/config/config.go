// Synergy - Trust-Aware Team Matching and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/synergy

package config

import (
	"fmt"
	"time"

	"github.com/tomtom215/synergy/internal/coldstart"
	"github.com/tomtom215/synergy/internal/eventprocessor"
	"github.com/tomtom215/synergy/internal/logging"
	"github.com/tomtom215/synergy/internal/scoring"
	"github.com/tomtom215/synergy/internal/signals"
	"github.com/tomtom215/synergy/internal/store"
	"github.com/tomtom215/synergy/internal/success"
	"github.com/tomtom215/synergy/internal/supervisor"
	"github.com/tomtom215/synergy/internal/validation"
)

// Config holds all application configuration.
//
// Configuration Loading Order:
//  1. Defaults: defaultConfig()
//  2. Config File: optional YAML (synergy.yaml or SYNERGY_CONFIG_PATH)
//  3. Environment Variables: SYNERGY_<SECTION>_<KEY>, e.g.
//     SYNERGY_SCORING_CONFIDENCE_K=0.08
//
// Each section converts to the Config of the package it configures, so
// package-level invariants are checked once by Validate.
type Config struct {
	Logging    LoggingConfig    `koanf:"logging"`
	Scoring    ScoringConfig    `koanf:"scoring"`
	Trust      TrustConfig      `koanf:"trust"`
	ColdStart  ColdStartConfig  `koanf:"coldstart"`
	Signals    SignalsConfig    `koanf:"signals"`
	Success    SuccessConfig    `koanf:"success"`
	Store      StoreConfig      `koanf:"store"`
	Events     EventsConfig     `koanf:"events"`
	Metrics    MetricsConfig    `koanf:"metrics"`
	Supervisor SupervisorConfig `koanf:"supervisor"`
}

// LoggingConfig configures zerolog.
type LoggingConfig struct {
	// Level: trace, debug, info, warn, error. Default: info
	Level string `koanf:"level" validate:"oneof=trace debug info warn warning error fatal panic disabled"`

	// Format: json or console. Default: json
	Format string `koanf:"format" validate:"oneof=json console"`

	Caller    bool `koanf:"caller"`
	Timestamp bool `koanf:"timestamp"`
}

// ScoringConfig configures the scoring engine.
type ScoringConfig struct {
	ConfidenceK    float64 `koanf:"confidence_k" validate:"gt=0"`
	TrustBoostGain float64 `koanf:"trust_boost_gain" validate:"gte=0,lte=1"`
}

// TrustConfig configures the external trust-aggregation client.
type TrustConfig struct {
	// Enabled queries the trust service over NATS. When false, scoring
	// uses the profile trust composite.
	Enabled bool `koanf:"enabled"`

	// URL of the NATS server; empty uses events.url.
	URL     string `koanf:"url"`
	Subject string `koanf:"subject" validate:"required"`

	// Circuit breaker
	MaxRequests  uint32        `koanf:"max_requests" validate:"gte=1"`
	Interval     time.Duration `koanf:"interval"`
	Timeout      time.Duration `koanf:"timeout" validate:"gt=0"`
	MinRequests  uint32        `koanf:"min_requests"`
	FailureRatio float64       `koanf:"failure_ratio" validate:"gt=0,lte=1"`
	CallTimeout  time.Duration `koanf:"call_timeout"`
}

// ColdStartConfig configures stage selection and cross-domain transfer.
type ColdStartConfig struct {
	ContentMax     int     `koanf:"content_max" validate:"gte=0"`
	TransferMax    int     `koanf:"transfer_max" validate:"gte=0"`
	BanditMax      int     `koanf:"bandit_max" validate:"gte=0"`
	RidgeLambda    float64 `koanf:"ridge_lambda" validate:"gte=0"`
	MaxEscalations int     `koanf:"max_escalations" validate:"gte=0"`
	Seed           int64   `koanf:"seed"`
}

// SignalsConfig configures the EWMA preference update.
type SignalsConfig struct {
	BaseAlpha      float64 `koanf:"base_alpha" validate:"gt=0,lte=1"`
	WeightOnline   float64 `koanf:"weight_online" validate:"gt=0"`
	WeightApp      float64 `koanf:"weight_app" validate:"gt=0"`
	WeightPhysical float64 `koanf:"weight_physical" validate:"gt=0"`
}

// SuccessConfig configures success pattern learning.
type SuccessConfig struct {
	GoalThreshold       float64 `koanf:"goal_threshold" validate:"unit"`
	ResponseThreshold   float64 `koanf:"response_threshold" validate:"unit"`
	RatingThreshold     float64 `koanf:"rating_threshold" validate:"gte=0,lte=5"`
	SimilarityThreshold float64 `koanf:"similarity_threshold" validate:"unit"`
	BoostPerPattern     float64 `koanf:"boost_per_pattern" validate:"gte=0"`
}

// Store backends.
const (
	StoreMemory = "memory"
	StoreBadger = "badger"
)

// StoreConfig selects the keyed store backend.
type StoreConfig struct {
	// Backend: memory or badger. Default: memory
	Backend string `koanf:"backend" validate:"oneof=memory badger"`

	// Path of the Badger directory.
	Path string `koanf:"path"`

	SyncWrites bool `koanf:"sync_writes"`
}

// EventsConfig configures event intake.
type EventsConfig struct {
	Enabled bool `koanf:"enabled"`

	// Transport: gochannel or nats. Default: gochannel
	Transport string `koanf:"transport" validate:"oneof=gochannel nats"`
	URL       string `koanf:"url"`

	// EmbeddedServer starts a NATS server in-process and points URL at it.
	EmbeddedServer bool   `koanf:"embedded_server"`
	EmbeddedHost   string `koanf:"embedded_host"`
	EmbeddedPort   int    `koanf:"embedded_port"`

	QueueGroup       string        `koanf:"queue_group"`
	SubscribersCount int           `koanf:"subscribers_count" validate:"gte=1"`
	AckWaitTimeout   time.Duration `koanf:"ack_wait_timeout"`
	CloseTimeout     time.Duration `koanf:"close_timeout"`
	MaxReconnects    int           `koanf:"max_reconnects"`
	ReconnectWait    time.Duration `koanf:"reconnect_wait"`
	SignalsTopic     string        `koanf:"signals_topic" validate:"required"`
	FeedbackTopic    string        `koanf:"feedback_topic" validate:"required"`
	DedupCapacity    int           `koanf:"dedup_capacity" validate:"gte=1"`
	DedupTTL         time.Duration `koanf:"dedup_ttl" validate:"gt=0"`
}

// MetricsConfig configures the /metrics and /healthz listener.
type MetricsConfig struct {
	Enabled         bool          `koanf:"enabled"`
	Addr            string        `koanf:"addr" validate:"required"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
}

// SupervisorConfig configures the suture tree.
type SupervisorConfig struct {
	FailureThreshold float64       `koanf:"failure_threshold" validate:"gt=0"`
	FailureDecay     float64       `koanf:"failure_decay" validate:"gt=0"`
	FailureBackoff   time.Duration `koanf:"failure_backoff" validate:"gt=0"`
	ShutdownTimeout  time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
}

// defaultConfig mirrors the DefaultConfig of every configured package.
func defaultConfig() *Config {
	sc := scoring.DefaultConfig()
	br := scoring.DefaultBreakerConfig()
	cs := coldstart.DefaultConfig()
	sig := signals.DefaultConfig()
	suc := success.DefaultConfig()
	ev := eventprocessor.DefaultConfig()
	tree := supervisor.DefaultTreeConfig()

	return &Config{
		Logging: LoggingConfig{
			Level:     "info",
			Format:    "json",
			Timestamp: true,
		},
		Scoring: ScoringConfig{
			ConfidenceK:    sc.ConfidenceK,
			TrustBoostGain: sc.TrustBoostGain,
		},
		Trust: TrustConfig{
			Enabled:      false,
			Subject:      eventprocessor.DefaultTrustSubject,
			MaxRequests:  br.MaxRequests,
			Interval:     br.Interval,
			Timeout:      br.Timeout,
			MinRequests:  br.MinRequests,
			FailureRatio: br.FailureRatio,
			CallTimeout:  br.CallTimeout,
		},
		ColdStart: ColdStartConfig{
			ContentMax:     cs.Boundaries.ContentMax,
			TransferMax:    cs.Boundaries.TransferMax,
			BanditMax:      cs.Boundaries.BanditMax,
			RidgeLambda:    cs.Ridge.Lambda,
			MaxEscalations: cs.Ridge.MaxEscalations,
			Seed:           cs.Seed,
		},
		Signals: SignalsConfig{
			BaseAlpha:      sig.BaseAlpha,
			WeightOnline:   sig.Weights.Online,
			WeightApp:      sig.Weights.App,
			WeightPhysical: sig.Weights.Physical,
		},
		Success: SuccessConfig{
			GoalThreshold:       suc.GoalThreshold,
			ResponseThreshold:   suc.ResponseThreshold,
			RatingThreshold:     suc.RatingThreshold,
			SimilarityThreshold: suc.SimilarityThreshold,
			BoostPerPattern:     suc.BoostPerPattern,
		},
		Store: StoreConfig{
			Backend: StoreMemory,
			Path:    "/data/synergy",
		},
		Events: EventsConfig{
			Enabled:          true,
			Transport:        ev.Transport,
			URL:              ev.URL,
			EmbeddedHost:     "127.0.0.1",
			EmbeddedPort:     4222,
			QueueGroup:       ev.QueueGroup,
			SubscribersCount: ev.SubscribersCount,
			AckWaitTimeout:   ev.AckWaitTimeout,
			CloseTimeout:     ev.CloseTimeout,
			MaxReconnects:    ev.MaxReconnects,
			ReconnectWait:    ev.ReconnectWait,
			SignalsTopic:     ev.SignalsTopic,
			FeedbackTopic:    ev.FeedbackTopic,
			DedupCapacity:    ev.DedupCapacity,
			DedupTTL:         ev.DedupTTL,
		},
		Metrics: MetricsConfig{
			Enabled:         true,
			Addr:            ":9090",
			ShutdownTimeout: 5 * time.Second,
		},
		Supervisor: SupervisorConfig{
			FailureThreshold: tree.FailureThreshold,
			FailureDecay:     tree.FailureDecay,
			FailureBackoff:   tree.FailureBackoff,
			ShutdownTimeout:  tree.ShutdownTimeout,
		},
	}
}

// Validate checks field ranges, then each package's own invariants.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c); err != nil {
		return err
	}
	if err := c.ScoringConfig().Validate(); err != nil {
		return err
	}
	if err := c.ColdStartConfig().Validate(); err != nil {
		return fmt.Errorf("coldstart: %w", err)
	}
	if err := c.SignalsConfig().Validate(); err != nil {
		return err
	}
	if err := c.SuccessConfig().Validate(); err != nil {
		return err
	}
	if err := c.EventsConfig().Validate(); err != nil {
		return err
	}
	if c.Store.Backend == StoreBadger && c.Store.Path == "" {
		return fmt.Errorf("store.path is required for the badger backend")
	}
	if c.Trust.Enabled && c.TrustURL() == "" {
		return fmt.Errorf("trust.url or events.url is required when trust is enabled")
	}
	return nil
}

// LoggingConfig converts to logging.Config.
func (c *Config) LoggingConfig() logging.Config {
	lc := logging.DefaultConfig()
	lc.Level = c.Logging.Level
	lc.Format = c.Logging.Format
	lc.Caller = c.Logging.Caller
	lc.Timestamp = c.Logging.Timestamp
	return lc
}

// ScoringConfig converts to scoring.Config.
func (c *Config) ScoringConfig() *scoring.Config {
	return &scoring.Config{
		ConfidenceK:    c.Scoring.ConfidenceK,
		TrustBoostGain: c.Scoring.TrustBoostGain,
	}
}

// BreakerConfig converts to scoring.BreakerConfig.
func (c *Config) BreakerConfig() scoring.BreakerConfig {
	bc := scoring.DefaultBreakerConfig()
	bc.MaxRequests = c.Trust.MaxRequests
	bc.Interval = c.Trust.Interval
	bc.Timeout = c.Trust.Timeout
	bc.MinRequests = c.Trust.MinRequests
	bc.FailureRatio = c.Trust.FailureRatio
	bc.CallTimeout = c.Trust.CallTimeout
	return bc
}

// TrustURL returns the NATS URL of the trust service.
func (c *Config) TrustURL() string {
	if c.Trust.URL != "" {
		return c.Trust.URL
	}
	return c.Events.URL
}

// ColdStartConfig converts to coldstart.Config.
func (c *Config) ColdStartConfig() *coldstart.Config {
	cs := coldstart.DefaultConfig()
	cs.Boundaries = coldstart.Boundaries{
		ContentMax:  c.ColdStart.ContentMax,
		TransferMax: c.ColdStart.TransferMax,
		BanditMax:   c.ColdStart.BanditMax,
	}
	cs.Ridge.Lambda = c.ColdStart.RidgeLambda
	cs.Ridge.MaxEscalations = c.ColdStart.MaxEscalations
	cs.Seed = c.ColdStart.Seed
	return cs
}

// SignalsConfig converts to signals.Config.
func (c *Config) SignalsConfig() *signals.Config {
	return &signals.Config{
		BaseAlpha: c.Signals.BaseAlpha,
		Weights: signals.Weights{
			Online:   c.Signals.WeightOnline,
			App:      c.Signals.WeightApp,
			Physical: c.Signals.WeightPhysical,
		},
	}
}

// SuccessConfig converts to success.Config.
func (c *Config) SuccessConfig() *success.Config {
	return &success.Config{
		GoalThreshold:       c.Success.GoalThreshold,
		ResponseThreshold:   c.Success.ResponseThreshold,
		RatingThreshold:     c.Success.RatingThreshold,
		SimilarityThreshold: c.Success.SimilarityThreshold,
		BoostPerPattern:     c.Success.BoostPerPattern,
	}
}

// BadgerOptions converts to store.BadgerOptions.
func (c *Config) BadgerOptions() store.BadgerOptions {
	return store.BadgerOptions{
		Path:       c.Store.Path,
		SyncWrites: c.Store.SyncWrites,
	}
}

// EventsConfig converts to eventprocessor.Config.
func (c *Config) EventsConfig() eventprocessor.Config {
	return eventprocessor.Config{
		Transport:        c.Events.Transport,
		URL:              c.Events.URL,
		QueueGroup:       c.Events.QueueGroup,
		SubscribersCount: c.Events.SubscribersCount,
		AckWaitTimeout:   c.Events.AckWaitTimeout,
		CloseTimeout:     c.Events.CloseTimeout,
		MaxReconnects:    c.Events.MaxReconnects,
		ReconnectWait:    c.Events.ReconnectWait,
		SignalsTopic:     c.Events.SignalsTopic,
		FeedbackTopic:    c.Events.FeedbackTopic,
		DedupCapacity:    c.Events.DedupCapacity,
		DedupTTL:         c.Events.DedupTTL,
	}
}

// EmbeddedServerConfig converts to eventprocessor.ServerConfig.
func (c *Config) EmbeddedServerConfig() eventprocessor.ServerConfig {
	sc := eventprocessor.DefaultServerConfig()
	sc.Host = c.Events.EmbeddedHost
	sc.Port = c.Events.EmbeddedPort
	return sc
}

// TreeConfig converts to supervisor.TreeConfig.
func (c *Config) TreeConfig() supervisor.TreeConfig {
	return supervisor.TreeConfig{
		FailureThreshold: c.Supervisor.FailureThreshold,
		FailureDecay:     c.Supervisor.FailureDecay,
		FailureBackoff:   c.Supervisor.FailureBackoff,
		ShutdownTimeout:  c.Supervisor.ShutdownTimeout,
	}
}
