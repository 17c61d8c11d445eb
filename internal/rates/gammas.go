package rates

import (
	"fmt"
	"sort"
)

// SequenceGammas is the piecewise-constant site-rate multiplier map of
// one chromosome, stored as (inclusive end position, gamma) runs.
type SequenceGammas struct {
	ends   []int
	gammas []float64
}

// NewSequenceGammas builds the multiplier map from a 2-column matrix of
// (end_position_inclusive, gamma) rows. Ends must be strictly ascending
// and the last row must cover the chromosome; gammas must be
// non-negative.
func NewSequenceGammas(mat [][2]float64, chromSize int) (*SequenceGammas, error) {
	if len(mat) == 0 {
		return nil, fmt.Errorf("rates: empty gamma matrix: %w", ErrInvalidInput)
	}
	g := &SequenceGammas{
		ends:   make([]int, len(mat)),
		gammas: make([]float64, len(mat)),
	}
	prev := -1
	for i, row := range mat {
		end := int(row[0])
		if end <= prev {
			return nil, fmt.Errorf("rates: gamma end positions not strictly ascending at row %d: %w",
				i, ErrInvalidInput)
		}
		if row[1] < 0 {
			return nil, fmt.Errorf("rates: gamma %g at row %d is negative: %w",
				row[1], i, ErrInvalidInput)
		}
		g.ends[i] = end
		g.gammas[i] = row[1]
		prev = end
	}
	if g.ends[len(g.ends)-1] < chromSize-1 {
		return nil, fmt.Errorf("rates: gamma matrix ends at %d but chromosome has %d sites: %w",
			g.ends[len(g.ends)-1], chromSize, ErrInvalidInput)
	}
	return g, nil
}

// Flat returns a single-run multiplier map of 1 covering any position.
// Used when no site heterogeneity is supplied.
func Flat(chromSize int) *SequenceGammas {
	return &SequenceGammas{ends: []int{chromSize - 1}, gammas: []float64{1}}
}

// Gamma returns the multiplier at position pos. Positions past the last
// run (a chromosome grown by insertions) take the last run's value.
func (g *SequenceGammas) Gamma(pos int) float64 {
	i := sort.SearchInts(g.ends, pos)
	if i == len(g.ends) {
		i--
	}
	return g.gammas[i]
}
