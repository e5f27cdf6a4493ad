// Synergy - Trust-Aware Team Matching and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/synergy

package store

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testValue struct {
	Name  string             `json:"name"`
	Count int                `json:"count"`
	Prefs map[string]float64 `json:"prefs,omitempty"`
}

// newStores returns one instance of every Store implementation so the same
// contract runs against each.
func newStores(t *testing.T) map[string]Store[testValue] {
	t.Helper()

	db, err := OpenBadger(BadgerOptions{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return map[string]Store[testValue]{
		"memory": NewMemory[testValue](),
		"badger": NewBadger[testValue](db, "test"),
	}
}

func TestStore_GetSet(t *testing.T) {
	ctx := context.Background()

	for name, s := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			_, found, err := s.Get(ctx, "missing")
			require.NoError(t, err)
			assert.False(t, found)

			want := testValue{Name: "alice", Count: 3, Prefs: map[string]float64{"music": 0.5}}
			require.NoError(t, s.Set(ctx, "alice", want))

			got, found, err := s.Get(ctx, "alice")
			require.NoError(t, err)
			assert.True(t, found)
			assert.Equal(t, want, got)
		})
	}
}

func TestStore_EmptyKey(t *testing.T) {
	ctx := context.Background()

	for name, s := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			_, _, err := s.Get(ctx, "")
			assert.ErrorIs(t, err, ErrEmptyKey)
			assert.ErrorIs(t, s.Set(ctx, "", testValue{}), ErrEmptyKey)
			assert.ErrorIs(t, s.Delete(ctx, ""), ErrEmptyKey)
			_, err = s.Update(ctx, "", func(v testValue, _ bool) (testValue, error) { return v, nil })
			assert.ErrorIs(t, err, ErrEmptyKey)
		})
	}
}

func TestStore_Update(t *testing.T) {
	ctx := context.Background()
	increment := func(v testValue, found bool) (testValue, error) {
		if !found {
			v.Name = "new"
		}
		v.Count++
		return v, nil
	}

	for name, s := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			got, err := s.Update(ctx, "k", increment)
			require.NoError(t, err)
			assert.Equal(t, testValue{Name: "new", Count: 1}, got)

			got, err = s.Update(ctx, "k", increment)
			require.NoError(t, err)
			assert.Equal(t, 2, got.Count)

			sentinel := errors.New("abort")
			_, err = s.Update(ctx, "k", func(v testValue, _ bool) (testValue, error) {
				v.Count = 100
				return v, sentinel
			})
			assert.ErrorIs(t, err, sentinel)

			stored, _, err := s.Get(ctx, "k")
			require.NoError(t, err)
			assert.Equal(t, 2, stored.Count, "aborted update must not be persisted")
		})
	}
}

func TestStore_ConcurrentUpdate(t *testing.T) {
	ctx := context.Background()

	for name, s := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			const workers = 8
			const perWorker = 25

			var wg sync.WaitGroup
			for i := 0; i < workers; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for j := 0; j < perWorker; j++ {
						_, err := s.Update(ctx, "counter", func(v testValue, _ bool) (testValue, error) {
							v.Count++
							return v, nil
						})
						assert.NoError(t, err)
					}
				}()
			}
			wg.Wait()

			got, _, err := s.Get(ctx, "counter")
			require.NoError(t, err)
			assert.Equal(t, workers*perWorker, got.Count)
		})
	}
}

func TestStore_DeleteAndReset(t *testing.T) {
	ctx := context.Background()

	for name, s := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Set(ctx, "a", testValue{Count: 1}))
			require.NoError(t, s.Set(ctx, "b", testValue{Count: 2}))

			require.NoError(t, s.Delete(ctx, "a"))
			require.NoError(t, s.Delete(ctx, "a"), "deleting a missing key is not an error")
			_, found, err := s.Get(ctx, "a")
			require.NoError(t, err)
			assert.False(t, found)

			require.NoError(t, s.Reset(ctx))
			_, found, err = s.Get(ctx, "b")
			require.NoError(t, err)
			assert.False(t, found)
		})
	}
}

func TestBadger_NamespaceIsolation(t *testing.T) {
	ctx := context.Background()

	db, err := OpenBadger(BadgerOptions{InMemory: true})
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	posteriors := NewBadger[testValue](db, "posteriors")
	prefs := NewBadger[testValue](db, "prefs")

	require.NoError(t, posteriors.Set(ctx, "u1", testValue{Count: 1}))
	require.NoError(t, prefs.Set(ctx, "u1", testValue{Count: 2}))

	require.NoError(t, posteriors.Reset(ctx))

	_, found, err := posteriors.Get(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, found)

	got, found, err := prefs.Get(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, found, "reset must only drop its own namespace")
	assert.Equal(t, 2, got.Count)
}

func TestBadger_Closed(t *testing.T) {
	db, err := OpenBadger(BadgerOptions{InMemory: true})
	require.NoError(t, err)
	s := NewBadger[testValue](db, "closed")
	require.NoError(t, db.Close())

	err = s.Set(context.Background(), "k", testValue{})
	assert.ErrorIs(t, err, ErrClosed)
}

func TestOpenBadger_RequiresPath(t *testing.T) {
	_, err := OpenBadger(BadgerOptions{})
	assert.Error(t, err)
}

func TestOpenBadger_OnDisk(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	db, err := OpenBadger(BadgerOptions{Path: dir})
	require.NoError(t, err)
	require.NoError(t, NewBadger[testValue](db, "ns").Set(ctx, "k", testValue{Count: 7}))
	require.NoError(t, db.Close())

	db, err = OpenBadger(BadgerOptions{Path: dir})
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	got, found, err := NewBadger[testValue](db, "ns").Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 7, got.Count)
}

func TestJoinKey(t *testing.T) {
	assert.Equal(t, "u1|c2", JoinKey("u1", "c2"))
	assert.Equal(t, "solo", JoinKey("solo"))
	assert.Equal(t, "", JoinKey())

	// Separators inside parts are escaped.
	assert.Equal(t, `team\|a|b`, JoinKey("team|a", "b"))
	assert.Equal(t, `team|a\|b`, JoinKey("team", "a|b"))
	assert.Equal(t, `a\\|b`, JoinKey(`a\`, "b"))
	assert.Equal(t, `a|\\b`, JoinKey("a", `\b`))

	collisions := [][2][]string{
		{{"team|a", "b"}, {"team", "a|b"}},
		{{`a\`, "b"}, {"a", `\b`}},
		{{`a\|`, "b"}, {"a", `|b`}},
		{{"a|"}, {"a", ""}},
	}
	for _, c := range collisions {
		assert.NotEqual(t, JoinKey(c[0]...), JoinKey(c[1]...), "%q vs %q", c[0], c[1])
	}
}
