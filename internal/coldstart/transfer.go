// Synergy - Trust-Aware Team Matching and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/synergy

package coldstart

import (
	"errors"
	"fmt"

	"github.com/tomtom215/synergy/internal/logging"
	"github.com/tomtom215/synergy/internal/metrics"
	"github.com/tomtom215/synergy/internal/vecmath"
)

var (
	// ErrNoOverlapUsers is returned when the learner gets no training pairs.
	ErrNoOverlapUsers = errors.New("coldstart: no users active in both domains")

	// ErrIllConditioned is returned when the ridge system stays singular
	// after every regularization escalation.
	ErrIllConditioned = errors.New("coldstart: ridge system is ill-conditioned")
)

// minEscalatedLambda is the first escalation step when the configured lambda
// is zero.
const minEscalatedLambda = 1e-6

// TransferMapping maps embeddings of one service into another: target = W*source.
type TransferMapping struct {
	// W is targetDim x sourceDim.
	W [][]float64 `json:"w"`

	SourceService string `json:"source_service"`
	TargetService string `json:"target_service"`

	// Lambda is the regularization actually used.
	Lambda float64 `json:"lambda"`

	// Escalations counts how many times Lambda was raised to reach a
	// solvable system.
	Escalations int `json:"escalations"`
}

// Transfer projects a source embedding into the target space. Source
// dimensions beyond len(source) are treated as zero.
func Transfer(m *TransferMapping, source []float64) []float64 {
	return vecmath.MatVec(m.W, source)
}

// TransferPair is one user's embedding in both domains.
type TransferPair struct {
	Source []float64 `json:"source"`
	Target []float64 `json:"target"`
}

// RidgeOptions configures LearnTransferMapping.
type RidgeOptions struct {
	// Lambda is the ridge penalty, scaled by the number of pairs.
	// Default: 0.01.
	Lambda float64 `json:"lambda"`

	// MaxEscalations bounds how many times Lambda is multiplied by 10 when
	// the system is singular. Default: 6.
	MaxEscalations int `json:"max_escalations"`

	SourceService string `json:"source_service"`
	TargetService string `json:"target_service"`
}

// DefaultRidgeOptions returns the default ridge options.
func DefaultRidgeOptions() RidgeOptions {
	return RidgeOptions{Lambda: 0.01, MaxEscalations: 6}
}

// Validate checks the options for errors.
func (o RidgeOptions) Validate() error {
	if o.Lambda < 0 {
		return fmt.Errorf("coldstart.ridge.lambda must be non-negative, got %f", o.Lambda)
	}
	if o.MaxEscalations < 0 {
		return fmt.Errorf("coldstart.ridge.max_escalations must be non-negative, got %d", o.MaxEscalations)
	}
	return nil
}

// LearnTransferMapping fits W by independent ridge regressions, one per
// target dimension:
//
//	w_i = (XᵗX + λnI)⁻¹ Xᵗy_i
//
// XᵗX and its inverse are computed once and shared by every dimension. When
// the system is singular λ is raised tenfold, at most MaxEscalations times;
// the returned mapping records the λ used. If it is still singular the
// result is ErrIllConditioned.
//
//nolint:gocritic // hugeParam: opts is read-only
func LearnTransferMapping(pairs []TransferPair, opts RidgeOptions) (*TransferMapping, error) {
	if len(pairs) == 0 {
		return nil, ErrNoOverlapUsers
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	sourceDim, targetDim := 0, 0
	x := make([][]float64, len(pairs))
	for i, p := range pairs {
		x[i] = p.Source
		sourceDim = max(sourceDim, len(p.Source))
		targetDim = max(targetDim, len(p.Target))
	}

	n := float64(len(pairs))
	gram := vecmath.Gram(x, sourceDim)

	lambda := opts.Lambda
	var inv [][]float64
	escalations := 0
	for {
		a := make([][]float64, sourceDim)
		for i := range a {
			a[i] = make([]float64, sourceDim)
			copy(a[i], gram[i])
			a[i][i] += lambda * n
		}

		var err error
		inv, err = vecmath.Invert(a)
		if err == nil {
			break
		}
		if !errors.Is(err, vecmath.ErrSingular) {
			return nil, fmt.Errorf("invert ridge system: %w", err)
		}
		if escalations == opts.MaxEscalations {
			metrics.RecordRegularizationEscalations(escalations)
			return nil, fmt.Errorf("%w: lambda %g after %d escalations", ErrIllConditioned, lambda, escalations)
		}
		escalations++
		lambda = max(lambda*10, minEscalatedLambda)
	}

	if escalations > 0 {
		metrics.RecordRegularizationEscalations(escalations)
		logging.Warn().
			Str("source_service", opts.SourceService).
			Str("target_service", opts.TargetService).
			Float64("requested_lambda", opts.Lambda).
			Float64("lambda", lambda).
			Int("escalations", escalations).
			Msg("ridge system singular, regularization increased")
	}

	w := make([][]float64, targetDim)
	y := make([]float64, len(pairs))
	for i := 0; i < targetDim; i++ {
		for r, p := range pairs {
			y[r] = 0
			if i < len(p.Target) {
				y[r] = p.Target[i]
			}
		}
		w[i] = vecmath.MatVec(inv, vecmath.TransposeMul(x, y, sourceDim))
	}

	return &TransferMapping{
		W:             w,
		SourceService: opts.SourceService,
		TargetService: opts.TargetService,
		Lambda:        lambda,
		Escalations:   escalations,
	}, nil
}
