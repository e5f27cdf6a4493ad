// Synergy - Trust-Aware Team Matching and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/synergy

package stablematch

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/synergy/internal/scoring"
)

// ErrDuplicateID is returned when two projects or two candidates share an ID.
var ErrDuplicateID = errors.New("stablematch: duplicate id")

// Scorer produces both perspectives of a pair. *scoring.Engine implements it.
type Scorer interface {
	ProjectView(ctx context.Context, project scoring.Project, candidate scoring.Candidate) scoring.MatchResult
	CandidateView(ctx context.Context, project scoring.Project, candidate scoring.Candidate) scoring.MatchResult
}

// PreferenceMatrix holds both perspectives of every (project, candidate)
// pair, indexed [project][candidate] in input order.
type PreferenceMatrix struct {
	ProjectIDs   []string
	CandidateIDs []string

	// ProjectView[p][c] is how much project p wants candidate c.
	ProjectView [][]scoring.MatchResult

	// CandidateView[p][c] is how much candidate c wants project p.
	CandidateView [][]scoring.MatchResult
}

// BuildPreferences scores every pair from both sides. Rows are scored
// concurrently; the result does not depend on scheduling.
//
//nolint:gocritic // hugeParam: projects and candidates are read-only
func BuildPreferences(ctx context.Context, scorer Scorer, projects []scoring.Project, candidates []scoring.Candidate) (*PreferenceMatrix, error) {
	m := &PreferenceMatrix{
		ProjectIDs:    make([]string, len(projects)),
		CandidateIDs:  make([]string, len(candidates)),
		ProjectView:   make([][]scoring.MatchResult, len(projects)),
		CandidateView: make([][]scoring.MatchResult, len(projects)),
	}

	seen := make(map[string]struct{}, len(projects))
	for i := range projects {
		id := projects[i].ID
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("%w: project %q", ErrDuplicateID, id)
		}
		seen[id] = struct{}{}
		m.ProjectIDs[i] = id
	}
	seen = make(map[string]struct{}, len(candidates))
	for i := range candidates {
		id := candidates[i].ID
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("%w: candidate %q", ErrDuplicateID, id)
		}
		seen[id] = struct{}{}
		m.CandidateIDs[i] = id
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for p := range projects {
		g.Go(func() error {
			pv := make([]scoring.MatchResult, len(candidates))
			cv := make([]scoring.MatchResult, len(candidates))
			for c := range candidates {
				if err := gctx.Err(); err != nil {
					return err
				}
				pv[c] = scorer.ProjectView(gctx, projects[p], candidates[c])
				cv[c] = scorer.CandidateView(gctx, projects[p], candidates[c])
			}
			m.ProjectView[p] = pv
			m.CandidateView[p] = cv
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return m, nil
}

// Pairs returns the number of scored pairs.
func (m *PreferenceMatrix) Pairs() int {
	return len(m.ProjectIDs) * len(m.CandidateIDs)
}

// ranking returns, per project, candidate indices ordered by descending
// project-view score. Equal scores keep input order.
func (m *PreferenceMatrix) ranking() [][]int {
	out := make([][]int, len(m.ProjectIDs))
	for p := range out {
		order := make([]int, len(m.CandidateIDs))
		for c := range order {
			order[c] = c
		}
		row := m.ProjectView[p]
		sort.SliceStable(order, func(i, j int) bool {
			return row[order[i]].Score > row[order[j]].Score
		})
		out[p] = order
	}
	return out
}
