// Synergy - Trust-Aware Team Matching and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/synergy

package store

import (
	"context"
	"sync"
)

// Memory is an in-process Store backed by a map.
// Values are stored as given; callers must not mutate a slice or map after
// handing it to Set, or mutate a value returned by Get.
type Memory[V any] struct {
	mu   sync.RWMutex
	data map[string]V
}

// NewMemory creates an empty in-memory store.
func NewMemory[V any]() *Memory[V] {
	return &Memory[V]{data: make(map[string]V)}
}

// Get returns the value for key.
func (m *Memory[V]) Get(_ context.Context, key string) (V, bool, error) {
	var zero V
	if key == "" {
		return zero, false, ErrEmptyKey
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.data[key]
	return v, ok, nil
}

// Set replaces the value for key.
func (m *Memory[V]) Set(_ context.Context, key string, value V) error {
	if key == "" {
		return ErrEmptyKey
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.data[key] = value
	return nil
}

// Update applies fn under the write lock.
func (m *Memory[V]) Update(_ context.Context, key string, fn UpdateFunc[V]) (V, error) {
	var zero V
	if key == "" {
		return zero, ErrEmptyKey
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	cur, ok := m.data[key]
	next, err := fn(cur, ok)
	if err != nil {
		return zero, err
	}
	m.data[key] = next
	return next, nil
}

// Delete removes key.
func (m *Memory[V]) Delete(_ context.Context, key string) error {
	if key == "" {
		return ErrEmptyKey
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.data, key)
	return nil
}

// Reset removes all keys.
func (m *Memory[V]) Reset(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.data = make(map[string]V)
	return nil
}

// Len returns the number of stored keys.
func (m *Memory[V]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

var _ Store[int] = (*Memory[int])(nil)
