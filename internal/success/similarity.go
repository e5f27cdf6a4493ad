// Synergy - Trust-Aware Team Matching and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/synergy

package success

// traitSet flattens a team into {role} ∪ {role:tag}.
func traitSet(team []MemberTrait) map[string]struct{} {
	set := make(map[string]struct{}, len(team)*2)
	for _, m := range team {
		set[m.Role] = struct{}{}
		for _, tag := range m.Tags {
			set[m.Role+":"+tag] = struct{}{}
		}
	}
	return set
}

// Similarity returns the Jaccard similarity of two teams' flattened trait
// sets. Two empty sets are identical (1); one empty set against a non-empty
// one scores 0.
func Similarity(a, b []MemberTrait) float64 {
	sa, sb := traitSet(a), traitSet(b)
	if len(sa) == 0 && len(sb) == 0 {
		return 1
	}
	if len(sa) == 0 || len(sb) == 0 {
		return 0
	}

	inter := 0
	for k := range sa {
		if _, ok := sb[k]; ok {
			inter++
		}
	}
	union := len(sa) + len(sb) - inter
	return float64(inter) / float64(union)
}
