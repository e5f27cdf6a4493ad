// Synergy - Trust-Aware Team Matching and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/synergy

package coldstart

import "sort"

// ContentRecord is one early piece of user content tagged with a category.
type ContentRecord struct {
	ID       string `json:"id,omitempty"`
	Category string `json:"category"`
}

// CategoryProfile is the mean embedding of a content category and its weight.
type CategoryProfile struct {
	Mean   []float64 `json:"mean"`
	Weight float64   `json:"weight"`
}

// ContentInit builds an initial embedding from a user's early content:
//
//	v = Σ(count_c * weight_c * mean_c) / Σ(count_c * weight_c)
//
// over categories present in both records and profiles. Categories without a
// profile are ignored. The result is empty when nothing overlaps or the total
// weight is zero. Means of unequal length are zero-padded.
func ContentInit(records []ContentRecord, profiles map[string]CategoryProfile) []float64 {
	if len(records) == 0 || len(profiles) == 0 {
		return []float64{}
	}

	counts := make(map[string]int)
	for _, r := range records {
		if _, ok := profiles[r.Category]; ok {
			counts[r.Category]++
		}
	}

	// Fixed summation order keeps the result bit-for-bit reproducible.
	categories := make([]string, 0, len(counts))
	dim := 0
	for c := range counts {
		categories = append(categories, c)
		dim = max(dim, len(profiles[c].Mean))
	}
	sort.Strings(categories)

	sum := make([]float64, dim)
	var total float64
	for _, c := range categories {
		p := profiles[c]
		w := float64(counts[c]) * p.Weight
		if w == 0 {
			continue
		}
		for i, x := range p.Mean {
			sum[i] += w * x
		}
		total += w
	}
	if total == 0 {
		return []float64{}
	}

	for i := range sum {
		sum[i] /= total
	}
	return sum
}
