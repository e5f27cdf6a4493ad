// Synergy - Trust-Aware Team Matching and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/synergy

// Package store provides the keyed state stores used by the feedback loops.
//
// Bandit posteriors, preference vectors, trust accumulators and success
// patterns are all small values addressed by a string key. Instead of package
// level maps, every component receives an explicit Store so that state is
// scoped to whoever constructed it.
//
// # Lifecycle
//
// Construct one store per process (production, usually Badger-backed) or one
// per test (Memory). Reset clears everything the store owns; nothing else
// removes state implicitly.
//
// # Thread Safety
//
// Implementations are safe for concurrent use. Update is an atomic
// read-modify-write for a single key. Ordering across keys, and across
// processes sharing one database, is the caller's responsibility.
package store

import (
	"context"
	"errors"
)

// ErrEmptyKey is returned when an operation is given an empty key.
var ErrEmptyKey = errors.New("store: empty key")

// ErrClosed is returned when the underlying database has been closed.
var ErrClosed = errors.New("store: closed")

// UpdateFunc computes the next value for a key. found reports whether current
// was present; when it is false current is the zero value. Returning an error
// aborts the update and leaves the stored value untouched.
type UpdateFunc[V any] func(current V, found bool) (V, error)

// Store is a keyed store of values of type V.
type Store[V any] interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) (V, bool, error)

	// Set replaces the value for key.
	Set(ctx context.Context, key string, value V) error

	// Update atomically applies fn to the current value of key and stores
	// the result, which is also returned.
	Update(ctx context.Context, key string, fn UpdateFunc[V]) (V, error)

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Reset removes every key owned by the store.
	Reset(ctx context.Context) error
}

// JoinKey builds a composite key from parts using '|' as separator.
// Separators and backslashes inside a part are escaped with a backslash, so
// distinct part lists always yield distinct keys. It is used for pair-scoped
// state such as (user, candidate) posteriors.
func JoinKey(parts ...string) string {
	n := 0
	for _, p := range parts {
		n += len(p) + 1
	}
	buf := make([]byte, 0, n)
	for i, p := range parts {
		if i > 0 {
			buf = append(buf, '|')
		}
		for j := 0; j < len(p); j++ {
			if p[j] == '|' || p[j] == '\\' {
				buf = append(buf, '\\')
			}
			buf = append(buf, p[j])
		}
	}
	return string(buf)
}
