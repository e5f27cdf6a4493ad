// Synergy - Trust-Aware Team Matching and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/synergy

package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	badger "github.com/dgraph-io/badger/v4"
	natsgo "github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/tomtom215/synergy/internal/cache"
	"github.com/tomtom215/synergy/internal/coldstart"
	"github.com/tomtom215/synergy/internal/config"
	"github.com/tomtom215/synergy/internal/eventprocessor"
	"github.com/tomtom215/synergy/internal/scoring"
	"github.com/tomtom215/synergy/internal/signals"
	"github.com/tomtom215/synergy/internal/stablematch"
	"github.com/tomtom215/synergy/internal/store"
	"github.com/tomtom215/synergy/internal/success"
	"github.com/tomtom215/synergy/internal/supervisor"
	"github.com/tomtom215/synergy/internal/supervisor/services"
)

// Store namespaces inside a shared Badger database.
const (
	nsSignals    = "signals"
	nsPosteriors = "posteriors"
	nsPatterns   = "patterns"
)

// app holds every component of one synergy process.
type app struct {
	processor    *signals.Processor
	engine       *scoring.Engine
	matcher      *stablematch.Matcher
	orchestrator *coldstart.Orchestrator
	learner      *success.Learner

	signalsHandler  *eventprocessor.TopicHandler
	feedbackHandler *eventprocessor.TopicHandler

	db         *badger.DB
	natsServer *eventprocessor.EmbeddedServer
	trustConn  *natsgo.Conn
	subscriber message.Subscriber

	logger zerolog.Logger
}

// stores bundles the keyed stores of one backend.
type stores struct {
	userStates store.Store[signals.UserState]
	posteriors store.Store[coldstart.BetaPosterior]
	patterns   store.Store[[]success.Pattern]
}

func openStores(cfg *config.Config) (stores, *badger.DB, error) {
	if cfg.Store.Backend != config.StoreBadger {
		return stores{
			userStates: store.NewMemory[signals.UserState](),
			posteriors: store.NewMemory[coldstart.BetaPosterior](),
			patterns:   store.NewMemory[[]success.Pattern](),
		}, nil, nil
	}

	db, err := store.OpenBadger(cfg.BadgerOptions())
	if err != nil {
		return stores{}, nil, err
	}
	return stores{
		userStates: store.NewBadger[signals.UserState](db, nsSignals),
		posteriors: store.NewBadger[coldstart.BetaPosterior](db, nsPosteriors),
		patterns:   store.NewBadger[[]success.Pattern](db, nsPatterns),
	}, db, nil
}

// newApp builds all components. On error everything opened so far is closed.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func newApp(cfg *config.Config, logger zerolog.Logger) (a *app, err error) {
	a = &app{logger: logger}
	defer func() {
		if err != nil {
			_ = a.close() //nolint:errcheck // the construction error is reported
			a = nil
		}
	}()

	st, db, err := openStores(cfg)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	a.db = db

	events := cfg.EventsConfig()
	if cfg.Events.EmbeddedServer {
		a.natsServer, err = eventprocessor.NewEmbeddedServer(cfg.EmbeddedServerConfig())
		if err != nil {
			return nil, err
		}
		events.URL = a.natsServer.ClientURL()
		logger.Info().Str("url", events.URL).Msg("embedded NATS server started")
	}

	a.processor, err = signals.NewProcessor(cfg.SignalsConfig(), st.userStates, logger)
	if err != nil {
		return nil, err
	}

	opts := []scoring.Option{scoring.WithTrustAccumulator(a.processor)}
	if cfg.Trust.Enabled {
		url := cfg.Trust.URL
		if url == "" {
			url = events.URL
		}
		a.trustConn, err = natsgo.Connect(url, natsgo.Name("synergy-trust"), natsgo.RetryOnFailedConnect(true))
		if err != nil {
			return nil, fmt.Errorf("connect trust service: %w", err)
		}
		provider := eventprocessor.NewNATSTrustProvider(a.trustConn, cfg.Trust.Subject)
		opts = append(opts, scoring.WithTrustProvider(scoring.NewBreakerTrustProvider(provider, cfg.BreakerConfig())))
	}

	a.engine, err = scoring.NewEngine(cfg.ScoringConfig(), logger, opts...)
	if err != nil {
		return nil, err
	}
	a.matcher = stablematch.NewMatcher(a.engine, logger)

	cs := cfg.ColdStartConfig()
	a.orchestrator, err = coldstart.NewOrchestrator(cs, st.posteriors,
		rand.New(rand.NewSource(cs.Seed)), //nolint:gosec // exploration, not security
		logger)
	if err != nil {
		return nil, err
	}

	a.learner, err = success.NewLearner(cfg.SuccessConfig(), st.patterns, logger)
	if err != nil {
		return nil, err
	}

	if cfg.Events.Enabled {
		if err := a.buildConsumers(events); err != nil {
			return nil, err
		}
	}
	return a, nil
}

//nolint:gocritic // hugeParam: config is read once at startup
func (a *app) buildConsumers(events eventprocessor.Config) error {
	wmLogger := eventprocessor.NewWatermillLogger()

	switch events.Transport {
	case eventprocessor.TransportNATS:
		sub, err := eventprocessor.NewNATSSubscriber(events, wmLogger)
		if err != nil {
			return err
		}
		a.subscriber = sub
	default:
		a.subscriber = eventprocessor.NewGoChannelPubSub(wmLogger)
	}

	dedup := cache.NewDedup(events.DedupCapacity, events.DedupTTL)
	a.signalsHandler = eventprocessor.NewSignalHandler(a.subscriber, events.SignalsTopic, a.processor, dedup, a.logger)
	a.feedbackHandler = eventprocessor.NewFeedbackHandler(a.subscriber, events.FeedbackTopic, a.orchestrator.Bandit(), dedup, a.logger)
	return nil
}

// register adds the app's services to tree.
func (a *app) register(tree *supervisor.Tree, cfg *config.Config) {
	if a.natsServer != nil {
		tree.AddIntakeService(services.NewNATSServerService(a.natsServer, cfg.Supervisor.ShutdownTimeout))
	}
	if a.signalsHandler != nil {
		tree.AddIntakeService(services.NewConsumerService("signals-consumer", a.signalsHandler))
		tree.AddIntakeService(services.NewConsumerService("feedback-consumer", a.feedbackHandler))
	}
	if cfg.Metrics.Enabled {
		tree.AddAPIService(services.NewHTTPServerService(
			services.NewMetricsServer(cfg.Metrics.Addr), cfg.Metrics.ShutdownTimeout))
	}
}

// close releases connections, the embedded server and stores. Stopping an
// already stopped server is a no-op.
func (a *app) close() error {
	var errs []error
	if a.subscriber != nil {
		errs = append(errs, a.subscriber.Close())
	}
	if a.trustConn != nil {
		a.trustConn.Close()
	}
	if a.natsServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		errs = append(errs, a.natsServer.Shutdown(ctx))
		cancel()
	}
	if a.db != nil {
		errs = append(errs, a.db.Close())
	}
	return errors.Join(errs...)
}
