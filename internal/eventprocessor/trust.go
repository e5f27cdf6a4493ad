// Synergy - Trust-Aware Team Matching and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/synergy

package eventprocessor

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	natsgo "github.com/nats-io/nats.go"

	"github.com/tomtom215/synergy/internal/scoring"
)

// DefaultTrustSubject is the request subject of the trust service.
const DefaultTrustSubject = "synergy.trust.aggregate"

const defaultTrustTimeout = 2 * time.Second

// TrustRequest asks for a user's trust aggregate.
type TrustRequest struct {
	UserID string `json:"user_id"`
}

// TrustReply carries the aggregate, or an error message when the service
// has none.
type TrustReply struct {
	UserID    string   `json:"user_id"`
	Aggregate *float64 `json:"aggregate,omitempty"`
	Error     string   `json:"error,omitempty"`
}

// NATSTrustProvider fetches trust aggregates over NATS request-reply.
type NATSTrustProvider struct {
	conn    *natsgo.Conn
	subject string
}

var _ scoring.TrustProvider = (*NATSTrustProvider)(nil)

// NewNATSTrustProvider uses conn to query subject.
func NewNATSTrustProvider(conn *natsgo.Conn, subject string) *NATSTrustProvider {
	if subject == "" {
		subject = DefaultTrustSubject
	}
	return &NATSTrustProvider{conn: conn, subject: subject}
}

// AggregateTrust implements scoring.TrustProvider. A context without a
// deadline gets a two second timeout.
func (p *NATSTrustProvider) AggregateTrust(ctx context.Context, userID string) (float64, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, defaultTrustTimeout)
		defer cancel()
	}

	req, err := json.Marshal(TrustRequest{UserID: userID})
	if err != nil {
		return 0, fmt.Errorf("marshal trust request: %w", err)
	}

	msg, err := p.conn.RequestWithContext(ctx, p.subject, req)
	if err != nil {
		return 0, fmt.Errorf("trust request for %s: %w", userID, err)
	}

	var reply TrustReply
	if err := json.Unmarshal(msg.Data, &reply); err != nil {
		return 0, fmt.Errorf("decode trust reply: %w", err)
	}
	if reply.Error != "" || reply.Aggregate == nil {
		return 0, fmt.Errorf("%w for %s: %s", ErrTrustUnavailable, userID, reply.Error)
	}
	return *reply.Aggregate, nil
}

// TrustLookup resolves a user's aggregate for ServeTrust.
type TrustLookup func(ctx context.Context, userID string) (float64, error)

// ServeTrust answers trust requests on subject with lookup. It is the
// responder side of NATSTrustProvider, used by the development stack and
// tests.
func ServeTrust(conn *natsgo.Conn, subject string, lookup TrustLookup) (*natsgo.Subscription, error) {
	if subject == "" {
		subject = DefaultTrustSubject
	}
	sub, err := conn.Subscribe(subject, func(m *natsgo.Msg) {
		var req TrustRequest
		reply := TrustReply{}
		if err := json.Unmarshal(m.Data, &req); err != nil {
			reply.Error = err.Error()
		} else {
			reply.UserID = req.UserID
			v, err := lookup(context.Background(), req.UserID)
			if err != nil {
				reply.Error = err.Error()
			} else {
				reply.Aggregate = &v
			}
		}
		data, err := json.Marshal(reply)
		if err != nil {
			return
		}
		_ = m.Respond(data) //nolint:errcheck // requester times out on failure
	})
	if err != nil {
		return nil, fmt.Errorf("subscribe to %s: %w", subject, err)
	}
	return sub, nil
}
