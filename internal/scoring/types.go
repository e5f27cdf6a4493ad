// Synergy - Trust-Aware Team Matching and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/synergy

package scoring

import (
	"fmt"
	"strings"
)

// Stage is the lifecycle stage of a project.
type Stage int

const (
	// StageIdeation covers projects that are still an idea. Also parsed from "early".
	StageIdeation Stage = iota
	// StageBuilding covers projects building their first product.
	StageBuilding
	// StageScaling covers projects growing an existing product.
	StageScaling
)

// String returns the canonical stage name.
func (s Stage) String() string {
	switch s {
	case StageIdeation:
		return "ideation"
	case StageBuilding:
		return "building"
	case StageScaling:
		return "scaling"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// ParseStage parses a stage name. It accepts "early" as an alias of ideation.
func ParseStage(s string) (Stage, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "early", "ideation":
		return StageIdeation, nil
	case "building":
		return StageBuilding, nil
	case "scaling":
		return StageScaling, nil
	default:
		return StageIdeation, fmt.Errorf("unknown stage %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Stage) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Stage) UnmarshalText(text []byte) error {
	parsed, err := ParseStage(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Execution describes how reliably a person ships.
type Execution struct {
	Grit           float64 `json:"grit"`
	CompletionRate float64 `json:"completion_rate"`
	MVPStatus      float64 `json:"mvp_status"`
}

// TrustVector is the trust record of a profile. Composite is in [0, 1].
type TrustVector struct {
	Reputation         float64 `json:"reputation"`
	ResponseRate       float64 `json:"response_rate"`
	DeliveryCompliance float64 `json:"delivery_compliance"`
	Composite          float64 `json:"composite"`
}

// Profile is a person: a candidate or a project owner. Profiles are owned by
// an external profile service and are read-only here.
type Profile struct {
	ID        string      `json:"id"`
	Identity  []float64   `json:"identity"`
	Skills    []float64   `json:"skills"`
	Execution Execution   `json:"execution"`
	Trust     TrustVector `json:"trust"`
}

// Project is a team looking for members.
type Project struct {
	ID             string    `json:"id"`
	Category       string    `json:"category"`
	Owner          Profile   `json:"owner"`
	RequiredSkills []float64 `json:"required_skills"`
	TeamSkills     []float64 `json:"team_skills"`
	Stage          Stage     `json:"stage"`

	// DataPoints is the amount of supporting evidence behind the project's
	// vectors. It drives the confidence discount.
	DataPoints int `json:"data_points"`
}

// DefaultPsychFit is used when a candidate has no fit score for a project.
const DefaultPsychFit = 0.5

// Candidate is a profile applying to projects.
type Candidate struct {
	Profile

	// PsychFit maps project ID to psychological fit in [0, 1].
	PsychFit map[string]float64 `json:"psych_fit,omitempty"`
}

// PsychFitFor returns the fit for projectID, or DefaultPsychFit if absent.
//
//nolint:gocritic // hugeParam: read-only accessor
func (c Candidate) PsychFitFor(projectID string) float64 {
	if fit, ok := c.PsychFit[projectID]; ok {
		return fit
	}
	return DefaultPsychFit
}

// Weights is the per-stage weight of each sub-score.
type Weights struct {
	Vision float64
	Skill  float64
	Trust  float64
	Psych  float64
}

// Sum returns the total weight.
func (w Weights) Sum() float64 {
	return w.Vision + w.Skill + w.Trust + w.Psych
}

// MatchResult is a composite score and its four factors, all in [0, 1].
type MatchResult struct {
	Score  float64 `json:"score"`
	Vision float64 `json:"vision"`
	Skill  float64 `json:"skill"`
	Trust  float64 `json:"trust"`
	Psych  float64 `json:"psych"`
}

// MatchInput holds everything MatchScore needs for one perspective.
type MatchInput struct {
	// IdentityA and IdentityB are the two vision embeddings compared.
	IdentityA []float64
	IdentityB []float64

	// RequiredSkills and TeamSkills define the skill gap.
	RequiredSkills []float64
	TeamSkills     []float64

	// CandidateSkills are compared against the gap.
	CandidateSkills []float64

	// AggregateTrust is the cross-service trust aggregate. When nil,
	// CompositeTrust is used.
	AggregateTrust *float64
	CompositeTrust float64

	PsychFit   float64
	Stage      Stage
	DataPoints int

	// ConfidenceK is the confidence rate. Zero selects DefaultConfidenceK.
	ConfidenceK float64
}
