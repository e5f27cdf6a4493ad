// Synergy - Trust-Aware Team Matching and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/synergy

package coldstart

import "fmt"

// Strategy names a cold-start stage.
type Strategy string

const (
	StrategyContentInit   Strategy = "content-init"
	StrategyTransfer      Strategy = "cross-domain-transfer"
	StrategyBandit        Strategy = "bandit-explore"
	StrategyCollaborative Strategy = "collaborative-filtering"
)

// Boundaries are the inclusive upper interaction counts of the first three
// stages. Counts above BanditMax select collaborative filtering.
type Boundaries struct {
	ContentMax  int `json:"content_max"`
	TransferMax int `json:"transfer_max"`
	BanditMax   int `json:"bandit_max"`
}

// DefaultBoundaries returns 5/20/50.
func DefaultBoundaries() Boundaries {
	return Boundaries{ContentMax: 5, TransferMax: 20, BanditMax: 50}
}

// Validate checks that the boundaries are non-negative and strictly increasing.
func (b Boundaries) Validate() error {
	if b.ContentMax < 0 {
		return fmt.Errorf("coldstart.boundaries.content_max must be non-negative, got %d", b.ContentMax)
	}
	if b.TransferMax <= b.ContentMax || b.BanditMax <= b.TransferMax {
		return fmt.Errorf("coldstart.boundaries must be strictly increasing, got %d/%d/%d",
			b.ContentMax, b.TransferMax, b.BanditMax)
	}
	return nil
}

// StrategyFor selects the stage for a user with n interactions.
// Negative counts are treated as zero.
func (b Boundaries) StrategyFor(n int) Strategy {
	switch {
	case n <= b.ContentMax:
		return StrategyContentInit
	case n <= b.TransferMax:
		return StrategyTransfer
	case n <= b.BanditMax:
		return StrategyBandit
	default:
		return StrategyCollaborative
	}
}

// StrategyFor selects the stage for n interactions using DefaultBoundaries.
func StrategyFor(n int) Strategy {
	return DefaultBoundaries().StrategyFor(n)
}
