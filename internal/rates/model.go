// Package rates holds the immutable rate model of one simulation: the
// substitution-rate matrix, equilibrium base frequencies, indel rate
// parameters, per-length indel distributions, and site-rate multipliers.
package rates

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidInput marks rate-model validation failures detected at
// construction.
var ErrInvalidInput = errors.New("invalid input")

// piTolerance bounds how far the equilibrium frequencies may drift from
// summing to exactly 1.
const piTolerance = 1e-6

// qDiagTolerance bounds the diagonal-rowsum identity check on Q.
const qDiagTolerance = 1e-6

// Matrix4 is a 4x4 substitution-rate matrix in TCAG order. Row i gives
// the rates from base i; the diagonal holds the negative row-sum.
type Matrix4 [4][4]float64

// Model bundles the rate parameters shared read-only by all workers for
// the life of one simulation.
type Model struct {
	Q   Matrix4
	Pi  [4]float64
	Xi  float64 // total indel rate per base per unit time
	Psi float64 // insertion/deletion rate ratio

	// Relative weights over indel lengths; index k holds length k+1.
	RelInsertionRates []float64
	RelDeletionRates  []float64
}

// NewModel validates the parameters and returns the assembled model.
func NewModel(q Matrix4, pi [4]float64, xi, psi float64,
	relIns, relDel []float64) (*Model, error) {

	sum := 0.0
	for i, p := range pi {
		if p < 0 {
			return nil, fmt.Errorf("rates: pi[%d] = %g is negative: %w", i, p, ErrInvalidInput)
		}
		sum += p
	}
	if math.Abs(sum-1) > piTolerance {
		return nil, fmt.Errorf("rates: pi sums to %g, not 1: %w", sum, ErrInvalidInput)
	}
	if xi < 0 {
		return nil, fmt.Errorf("rates: xi = %g is negative: %w", xi, ErrInvalidInput)
	}
	if psi <= 0 {
		return nil, fmt.Errorf("rates: psi = %g must be positive: %w", psi, ErrInvalidInput)
	}
	for i := 0; i < 4; i++ {
		rowSum := 0.0
		for j := 0; j < 4; j++ {
			if i != j {
				if q[i][j] < 0 {
					return nil, fmt.Errorf("rates: Q[%d][%d] = %g is negative: %w",
						i, j, q[i][j], ErrInvalidInput)
				}
				rowSum += q[i][j]
			}
		}
		if math.Abs(q[i][i]+rowSum) > qDiagTolerance*math.Max(1, rowSum) {
			return nil, fmt.Errorf("rates: Q diagonal [%d] = %g, want negative row-sum %g: %w",
				i, q[i][i], -rowSum, ErrInvalidInput)
		}
	}
	for i, w := range relIns {
		if w < 0 {
			return nil, fmt.Errorf("rates: relative insertion rate %d is negative: %w", i, ErrInvalidInput)
		}
	}
	for i, w := range relDel {
		if w < 0 {
			return nil, fmt.Errorf("rates: relative deletion rate %d is negative: %w", i, ErrInvalidInput)
		}
	}

	return &Model{
		Q:                 q,
		Pi:                pi,
		Xi:                xi,
		Psi:               psi,
		RelInsertionRates: append([]float64(nil), relIns...),
		RelDeletionRates:  append([]float64(nil), relDel...),
	}, nil
}

// InsertionRate returns the overall insertion rate xi/(1+1/psi).
func (m *Model) InsertionRate() float64 {
	if m.Xi == 0 {
		return 0
	}
	return m.Xi / (1 + 1/m.Psi)
}

// DeletionRate returns the overall deletion rate xi/(1+psi).
func (m *Model) DeletionRate() float64 {
	if m.Xi == 0 {
		return 0
	}
	return m.Xi / (1 + m.Psi)
}

// BaseRate returns the total mutation intensity of base b before gamma
// scaling: the base's substitution rate plus the indel rate.
func (m *Model) BaseRate(b int) float64 {
	return -m.Q[b][b] + m.Xi
}
