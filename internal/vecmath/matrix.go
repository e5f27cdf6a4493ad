// Synergy - Trust-Aware Team Matching and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/synergy

package vecmath

import (
	"errors"
	"math"
)

// SingularThreshold is the pivot magnitude below which Invert reports a
// singular matrix.
const SingularThreshold = 1e-12

// ErrSingular is returned when a matrix cannot be inverted.
var ErrSingular = errors.New("matrix is singular")

// ErrNotSquare is returned when a non-square matrix is passed to Invert.
var ErrNotSquare = errors.New("matrix is not square")

// Identity creates an n x n identity matrix.
func Identity(n int) [][]float64 {
	m := make([][]float64, n)
	for i := range m {
		m[i] = make([]float64, n)
		m[i][i] = 1.0
	}
	return m
}

// MatVec returns m*v. Columns of m beyond len(v) multiply an implicit zero.
func MatVec(m [][]float64, v []float64) []float64 {
	out := make([]float64, len(m))
	for i, row := range m {
		out[i] = Dot(row, v)
	}
	return out
}

// Gram returns XᵗX for a row-major design matrix X (n rows, d columns).
// Rows shorter than d are zero-padded.
func Gram(x [][]float64, d int) [][]float64 {
	g := make([][]float64, d)
	for i := range g {
		g[i] = make([]float64, d)
	}
	for _, row := range x {
		for i := 0; i < d && i < len(row); i++ {
			if row[i] == 0 {
				continue
			}
			for j := 0; j < d && j < len(row); j++ {
				g[i][j] += row[i] * row[j]
			}
		}
	}
	return g
}

// TransposeMul returns Xᵗy for a row-major design matrix X with d columns.
func TransposeMul(x [][]float64, y []float64, d int) []float64 {
	out := make([]float64, d)
	for r, row := range x {
		if r >= len(y) {
			break
		}
		for i := 0; i < d && i < len(row); i++ {
			out[i] += row[i] * y[r]
		}
	}
	return out
}

// Invert computes the inverse of a square matrix using Gauss-Jordan
// elimination with partial pivoting. The input is not modified.
//
//nolint:gocritic // A follows standard linear algebra notation
func Invert(A [][]float64) ([][]float64, error) {
	n := len(A)
	if n == 0 {
		return [][]float64{}, nil
	}
	for _, row := range A {
		if len(row) != n {
			return nil, ErrNotSquare
		}
	}

	// Augmented matrix [A|I]
	aug := make([][]float64, n)
	for i := range aug {
		aug[i] = make([]float64, 2*n)
		copy(aug[i], A[i])
		aug[i][n+i] = 1.0
	}

	for col := 0; col < n; col++ {
		pivot := col
		for r := col + 1; r < n; r++ {
			if math.Abs(aug[r][col]) > math.Abs(aug[pivot][col]) {
				pivot = r
			}
		}
		if math.Abs(aug[pivot][col]) < SingularThreshold {
			return nil, ErrSingular
		}
		aug[col], aug[pivot] = aug[pivot], aug[col]

		p := aug[col][col]
		for j := col; j < 2*n; j++ {
			aug[col][j] /= p
		}

		for r := 0; r < n; r++ {
			if r == col {
				continue
			}
			factor := aug[r][col]
			if factor == 0 {
				continue
			}
			for j := col; j < 2*n; j++ {
				aug[r][j] -= factor * aug[col][j]
			}
		}
	}

	inv := make([][]float64, n)
	for i := range inv {
		inv[i] = make([]float64, n)
		copy(inv[i], aug[i][n:])
	}
	return inv, nil
}
