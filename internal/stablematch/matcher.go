// Synergy - Trust-Aware Team Matching and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/synergy

// Package stablematch assigns candidates to projects with project-proposing
// deferred acceptance over the two-sided preferences produced by the scoring
// engine, and verifies the result has no blocking pair.
package stablematch

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/synergy/internal/logging"
	"github.com/tomtom215/synergy/internal/metrics"
	"github.com/tomtom215/synergy/internal/scoring"
)

// unmatched is the preference value of an unassigned party. Every real score
// is >= 0, so any partner beats it.
const unmatched = -1.0

// Entry is one assignment of a matching run. Score and Breakdown are the
// project's view; CandidateScore is the candidate's view of the same pair.
type Entry struct {
	ProjectID      string              `json:"project_id"`
	CandidateID    string              `json:"candidate_id"`
	Score          float64             `json:"score"`
	CandidateScore float64             `json:"candidate_score"`
	Breakdown      scoring.MatchResult `json:"breakdown"`
}

// BlockingPair is a project and candidate that both strictly prefer each
// other over their assignments.
type BlockingPair struct {
	ProjectID   string `json:"project_id"`
	CandidateID string `json:"candidate_id"`
}

// Result is the output of Matcher.Run.
type Result struct {
	// Entries are sorted by descending score, ties in project order.
	Entries []Entry

	// Preferences are the scores the run was computed from.
	Preferences *PreferenceMatrix
}

// DeferredAcceptance runs project-proposing deferred acceptance on prefs.
//
// Each free project proposes to the best candidate it has not tried. A free
// candidate accepts; a held candidate switches only to a strictly preferred
// project, freeing the incumbent. Proposal indices only advance, so the loop
// ends after at most P*C proposals; a pass without any proposal ends it.
func DeferredAcceptance(prefs *PreferenceMatrix) []Entry {
	nP, nC := len(prefs.ProjectIDs), len(prefs.CandidateIDs)
	ranking := prefs.ranking()

	next := make([]int, nP)
	projectMatch := make([]int, nP)
	candidateMatch := make([]int, nC)
	for i := range projectMatch {
		projectMatch[i] = -1
	}
	for i := range candidateMatch {
		candidateMatch[i] = -1
	}

	for progress := true; progress; {
		progress = false
		for p := 0; p < nP; p++ {
			if projectMatch[p] != -1 || next[p] >= nC {
				continue
			}
			c := ranking[p][next[p]]
			next[p]++
			progress = true

			incumbent := candidateMatch[c]
			if incumbent == -1 {
				candidateMatch[c], projectMatch[p] = p, c
				continue
			}
			if prefs.CandidateView[p][c].Score > prefs.CandidateView[incumbent][c].Score {
				projectMatch[incumbent] = -1
				candidateMatch[c], projectMatch[p] = p, c
			}
		}
	}

	entries := make([]Entry, 0, min(nP, nC))
	for p, c := range projectMatch {
		if c == -1 {
			continue
		}
		view := prefs.ProjectView[p][c]
		entries = append(entries, Entry{
			ProjectID:      prefs.ProjectIDs[p],
			CandidateID:    prefs.CandidateIDs[c],
			Score:          view.Score,
			CandidateScore: prefs.CandidateView[p][c].Score,
			Breakdown:      view,
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})
	return entries
}

// FindBlockingPairs returns every pair outside matching where the project
// strictly prefers the candidate over its assignment and the candidate
// strictly prefers the project over its own. Unassigned parties prefer any
// partner. A stable matching yields none.
func FindBlockingPairs(prefs *PreferenceMatrix, matching []Entry) []BlockingPair {
	pIndex := indexOf(prefs.ProjectIDs)
	cIndex := indexOf(prefs.CandidateIDs)

	projectHas := make([]float64, len(prefs.ProjectIDs))
	candidateHas := make([]float64, len(prefs.CandidateIDs))
	for i := range projectHas {
		projectHas[i] = unmatched
	}
	for i := range candidateHas {
		candidateHas[i] = unmatched
	}

	matched := make(map[[2]int]bool, len(matching))
	for _, e := range matching {
		p, okP := pIndex[e.ProjectID]
		c, okC := cIndex[e.CandidateID]
		if !okP || !okC {
			continue
		}
		matched[[2]int{p, c}] = true
		projectHas[p] = prefs.ProjectView[p][c].Score
		candidateHas[c] = prefs.CandidateView[p][c].Score
	}

	var blocking []BlockingPair
	for p := range prefs.ProjectIDs {
		for c := range prefs.CandidateIDs {
			if matched[[2]int{p, c}] {
				continue
			}
			if prefs.ProjectView[p][c].Score > projectHas[p] &&
				prefs.CandidateView[p][c].Score > candidateHas[c] {
				blocking = append(blocking, BlockingPair{
					ProjectID:   prefs.ProjectIDs[p],
					CandidateID: prefs.CandidateIDs[c],
				})
			}
		}
	}
	return blocking
}

func indexOf(ids []string) map[string]int {
	out := make(map[string]int, len(ids))
	for i, id := range ids {
		out[id] = i
	}
	return out
}

// Matcher runs stable matching over a scoring engine.
type Matcher struct {
	scorer Scorer
	logger zerolog.Logger
}

// NewMatcher creates a matcher.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewMatcher(scorer Scorer, logger zerolog.Logger) *Matcher {
	return &Matcher{
		scorer: scorer,
		logger: logger.With().Str("component", "stablematch").Logger(),
	}
}

// Run scores every pair twice and returns a stable assignment with at most
// min(len(projects), len(candidates)) entries. Identical input yields
// identical output.
//
//nolint:gocritic // hugeParam: projects and candidates are read-only
func (m *Matcher) Run(ctx context.Context, projects []scoring.Project, candidates []scoring.Candidate) (*Result, error) {
	start := time.Now()
	if logging.CorrelationIDFromContext(ctx) == "" {
		ctx = logging.ContextWithNewCorrelationID(ctx)
	}

	prefs, err := BuildPreferences(ctx, m.scorer, projects, candidates)
	if err != nil {
		return nil, err
	}
	entries := DeferredAcceptance(prefs)

	elapsed := time.Since(start)
	metrics.RecordMatchRun(elapsed, prefs.Pairs(), len(entries))
	logging.Enrich(ctx, m.logger).Debug().
		Int("projects", len(projects)).
		Int("candidates", len(candidates)).
		Int("assignments", len(entries)).
		Dur("elapsed", elapsed).
		Msg("matching run complete")

	return &Result{Entries: entries, Preferences: prefs}, nil
}

// Verify returns the blocking pairs of res.
func (m *Matcher) Verify(res *Result) []BlockingPair {
	return FindBlockingPairs(res.Preferences, res.Entries)
}
