package genome

import (
	"errors"
	"fmt"
)

// ErrInvalidInput marks construction-time validation failures: unknown
// bases, duplicate names, malformed parameters.
var ErrInvalidInput = errors.New("invalid input")

// RefChrom is one immutable reference chromosome. It is loaded once per
// run and shared by reference across all variants.
type RefChrom struct {
	Name  string
	Bases []byte
}

// Size returns the chromosome length.
func (r *RefChrom) Size() int { return len(r.Bases) }

// RefGenome is an ordered set of reference chromosomes with a cached
// total size.
type RefGenome struct {
	Chroms    []RefChrom
	TotalSize int
}

// NewRefGenome validates and assembles a reference genome. Names must be
// unique and bases restricted to uppercase T, C, A, G.
func NewRefGenome(chroms []RefChrom) (*RefGenome, error) {
	seen := make(map[string]bool, len(chroms))
	total := 0
	for _, c := range chroms {
		if c.Name == "" {
			return nil, fmt.Errorf("genome: empty chromosome name: %w", ErrInvalidInput)
		}
		if seen[c.Name] {
			return nil, fmt.Errorf("genome: duplicate chromosome name %q: %w", c.Name, ErrInvalidInput)
		}
		seen[c.Name] = true
		for i, b := range c.Bases {
			if !ValidBase(b) {
				return nil, fmt.Errorf("genome: chromosome %q has unknown base %q at position %d: %w",
					c.Name, string(b), i, ErrInvalidInput)
			}
		}
		total += len(c.Bases)
	}
	return &RefGenome{Chroms: chroms, TotalSize: total}, nil
}

// Size returns the number of chromosomes.
func (g *RefGenome) Size() int { return len(g.Chroms) }

// ChromSizes returns the chromosome lengths in order.
func (g *RefGenome) ChromSizes() []int {
	out := make([]int, len(g.Chroms))
	for i := range g.Chroms {
		out[i] = g.Chroms[i].Size()
	}
	return out
}
