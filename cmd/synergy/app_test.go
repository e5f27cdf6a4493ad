// Synergy - Trust-Aware Team Matching and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/synergy

package main

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomtom215/synergy/internal/coldstart"
	"github.com/tomtom215/synergy/internal/config"
	"github.com/tomtom215/synergy/internal/eventprocessor"
	"github.com/tomtom215/synergy/internal/logging"
	"github.com/tomtom215/synergy/internal/scoring"
	"github.com/tomtom215/synergy/internal/signals"
	"github.com/tomtom215/synergy/internal/success"
	"github.com/tomtom215/synergy/internal/supervisor"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	t.Chdir(t.TempDir())
	cfg, err := config.Load()
	require.NoError(t, err)
	cfg.Metrics.Enabled = false
	return cfg
}

func TestNewApp_MemoryGoChannel(t *testing.T) {
	cfg := testConfig(t)

	a, err := newApp(cfg, zerolog.Nop())
	require.NoError(t, err)
	defer func() { assert.NoError(t, a.close()) }()

	require.NotNil(t, a.signalsHandler)
	assert.Equal(t, cfg.Events.SignalsTopic, a.signalsHandler.Topic())
	assert.Equal(t, cfg.Events.FeedbackTopic, a.feedbackHandler.Topic())
	assert.Nil(t, a.db)

	ctx := context.Background()

	// A physical signal raises trust seen by the engine.
	project := scoring.Project{
		ID:             "p1",
		Owner:          scoring.Profile{ID: "o1", Identity: []float64{1, 0}, Skills: []float64{1, 0}, Trust: scoring.TrustVector{Composite: 0.8}},
		RequiredSkills: []float64{1, 1},
		TeamSkills:     []float64{1, 0},
		Stage:          scoring.StageIdeation,
		DataPoints:     100,
	}
	candidate := scoring.Candidate{Profile: scoring.Profile{
		ID:       "c1",
		Identity: []float64{1, 0},
		Skills:   []float64{0, 1},
		Trust:    scoring.TrustVector{Composite: 0.5},
	}}
	before := a.engine.ResolveTrust(ctx, candidate.Profile)
	_, err = a.processor.Process(ctx, signals.Signal{UserID: "c1", Category: "cafe", Type: signals.Physical})
	require.NoError(t, err)
	assert.Greater(t, a.engine.ResolveTrust(ctx, candidate.Profile), before)

	res, err := a.matcher.Run(ctx, []scoring.Project{project}, []scoring.Candidate{candidate})
	require.NoError(t, err)
	require.Len(t, res.Entries, 1)
	assert.Equal(t, "c1", res.Entries[0].CandidateID)
	assert.Empty(t, a.matcher.Verify(res))

	rec, err := a.orchestrator.Bootstrap(ctx, coldstart.Request{
		UserID:           "u1",
		InteractionCount: 30,
		CandidateIDs:     []string{"c1", "c2"},
	})
	require.NoError(t, err)
	assert.Equal(t, coldstart.StrategyBandit, rec.Strategy)
	assert.NotNil(t, rec.Recommendation)

	p, err := a.learner.Record(ctx, "music", []success.MemberTrait{{Role: "producer"}},
		success.ProjectMetrics{GoalAchievementRate: 0.9})
	require.NoError(t, err)
	assert.NotNil(t, p)
}

func TestNewApp_Badger(t *testing.T) {
	cfg := testConfig(t)
	cfg.Store.Backend = config.StoreBadger
	cfg.Store.Path = filepath.Join(t.TempDir(), "db")
	cfg.Events.Enabled = false

	a, err := newApp(cfg, zerolog.Nop())
	require.NoError(t, err)
	require.NotNil(t, a.db)
	assert.Nil(t, a.signalsHandler)

	ctx := context.Background()
	_, err = a.orchestrator.Bandit().RecordFeedback(ctx, "u1", "c1", 1)
	require.NoError(t, err)
	require.NoError(t, a.close())

	// State survives a restart.
	a, err = newApp(cfg, zerolog.Nop())
	require.NoError(t, err)
	defer a.close() //nolint:errcheck
	post, err := a.orchestrator.Bandit().Posterior(ctx, "u1", "c1")
	require.NoError(t, err)
	assert.Equal(t, 2.0, post.Alpha)
}

func TestApp_ServesEmbeddedNATS(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping embedded NATS server in short mode")
	}
	cfg := testConfig(t)
	cfg.Events.Transport = eventprocessor.TransportNATS
	cfg.Events.EmbeddedServer = true
	cfg.Events.EmbeddedPort = -1
	cfg.Events.CloseTimeout = time.Second

	a, err := newApp(cfg, zerolog.Nop())
	require.NoError(t, err)
	defer a.close()

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.TreeConfig{ShutdownTimeout: 2 * time.Second})
	a.register(tree, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := tree.ServeBackground(ctx)

	events := cfg.EventsConfig()
	events.URL = a.natsServer.ClientURL()
	rawPub, err := eventprocessor.NewNATSPublisher(events, nil)
	require.NoError(t, err)
	pub := eventprocessor.NewPublisher(rawPub, events)
	defer pub.Close()

	ev := eventprocessor.NewEngagementEvent("u1", "bakery", signals.App)
	require.Eventually(t, func() bool {
		if err := pub.PublishEngagement(ctx, ev); err != nil {
			return false
		}
		prefs, err := a.processor.Preferences(ctx, "u1")
		return err == nil && prefs["bakery"] > 0
	}, 10*time.Second, 50*time.Millisecond)

	prefs, err := a.processor.Preferences(ctx, "u1")
	require.NoError(t, err)
	assert.InDelta(t, 0.15, prefs["bakery"], 1e-12)

	cancel()
	<-errCh
}
