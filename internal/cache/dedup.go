// Synergy - Trust-Aware Team Matching and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/synergy

package cache

import "time"

// Dedup remembers recently applied event IDs.
//
// Seen and Mark are separate so a consumer can check before applying an
// event and record it only once the apply succeeded; a failed event is then
// still accepted when redelivered.
type Dedup struct {
	seen *LRU[string, struct{}]
}

// NewDedup remembers up to capacity IDs for ttl each.
func NewDedup(capacity int, ttl time.Duration) *Dedup {
	return &Dedup{seen: NewLRU[string, struct{}](capacity, ttl)}
}

// Seen reports whether id was marked within the TTL.
func (d *Dedup) Seen(id string) bool {
	return d.seen.Contains(id)
}

// Mark records id as applied.
func (d *Dedup) Mark(id string) {
	d.seen.Put(id, struct{}{})
}

// Len returns the number of remembered IDs.
func (d *Dedup) Len() int {
	return d.seen.Len()
}
