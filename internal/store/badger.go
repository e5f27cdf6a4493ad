// Synergy - Trust-Aware Team Matching and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/synergy

package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
)

// maxConflictRetries bounds how often Update retries after a transaction
// conflict with a concurrent writer on the same key.
const maxConflictRetries = 8

// BadgerOptions configures the shared BadgerDB instance.
type BadgerOptions struct {
	// Path is the on-disk directory. Ignored when InMemory is set.
	Path string

	// InMemory keeps all data in memory (tests, ephemeral deployments).
	InMemory bool

	// SyncWrites fsyncs every commit.
	SyncWrites bool
}

// OpenBadger opens (or creates) the BadgerDB used by every Badger store in
// the process. The caller owns the returned DB and must Close it.
func OpenBadger(opts BadgerOptions) (*badger.DB, error) {
	var bo badger.Options
	if opts.InMemory {
		bo = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if opts.Path == "" {
			return nil, fmt.Errorf("open badger: path is required for on-disk storage")
		}
		bo = badger.DefaultOptions(opts.Path)
	}
	bo.SyncWrites = opts.SyncWrites

	// Badger's own logger is noisy at info level
	bo.Logger = nil

	db, err := badger.Open(bo)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return db, nil
}

// Badger is a Store persisted in BadgerDB. Values are JSON encoded and every
// key is prefixed with the store namespace, so several stores can share one
// database.
type Badger[V any] struct {
	db     *badger.DB
	prefix []byte
}

// NewBadger creates a namespaced store on db.
func NewBadger[V any](db *badger.DB, namespace string) *Badger[V] {
	return &Badger[V]{
		db:     db,
		prefix: []byte(namespace + ":"),
	}
}

func (b *Badger[V]) key(k string) []byte {
	out := make([]byte, 0, len(b.prefix)+len(k))
	out = append(out, b.prefix...)
	return append(out, k...)
}

// Get returns the value for key.
func (b *Badger[V]) Get(_ context.Context, key string) (V, bool, error) {
	var value V
	if key == "" {
		return value, false, ErrEmptyKey
	}

	found := false
	err := b.db.View(func(txn *badger.Txn) error {
		v, ok, err := b.read(txn, key)
		value, found = v, ok
		return err
	})
	if err != nil {
		return value, false, b.wrap("get", err)
	}
	return value, found, nil
}

// Set replaces the value for key.
func (b *Badger[V]) Set(_ context.Context, key string, value V) error {
	if key == "" {
		return ErrEmptyKey
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("store: marshal %s: %w", key, err)
	}

	err = b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(b.key(key), data)
	})
	return b.wrap("set", err)
}

// Update applies fn inside a read-write transaction, retrying on conflict.
func (b *Badger[V]) Update(ctx context.Context, key string, fn UpdateFunc[V]) (V, error) {
	var zero V
	if key == "" {
		return zero, ErrEmptyKey
	}

	for attempt := 0; ; attempt++ {
		var next V
		err := b.db.Update(func(txn *badger.Txn) error {
			cur, ok, err := b.read(txn, key)
			if err != nil {
				return err
			}
			next, err = fn(cur, ok)
			if err != nil {
				return err
			}
			data, err := json.Marshal(next)
			if err != nil {
				return fmt.Errorf("store: marshal %s: %w", key, err)
			}
			return txn.Set(b.key(key), data)
		})
		if errors.Is(err, badger.ErrConflict) && attempt < maxConflictRetries {
			if ctx.Err() != nil {
				return zero, ctx.Err()
			}
			continue
		}
		if err != nil {
			return zero, b.wrap("update", err)
		}
		return next, nil
	}
}

// Delete removes key.
func (b *Badger[V]) Delete(_ context.Context, key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(b.key(key))
	})
	return b.wrap("delete", err)
}

// Reset drops every key in this store's namespace.
func (b *Badger[V]) Reset(_ context.Context) error {
	return b.wrap("reset", b.db.DropPrefix(b.prefix))
}

// read loads and decodes key inside txn.
func (b *Badger[V]) read(txn *badger.Txn, key string) (V, bool, error) {
	var value V
	item, err := txn.Get(b.key(key))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return value, false, nil
	}
	if err != nil {
		return value, false, err
	}
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, &value)
	})
	if err != nil {
		return value, false, fmt.Errorf("store: unmarshal %s: %w", key, err)
	}
	return value, true, nil
}

func (b *Badger[V]) wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, badger.ErrDBClosed) {
		return ErrClosed
	}
	return fmt.Errorf("store: %s: %w", op, err)
}

var _ Store[int] = (*Badger[int])(nil)
