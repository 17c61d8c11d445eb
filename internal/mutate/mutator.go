package mutate

import (
	"fmt"

	"github.com/bioforge/genosim/internal/genome"
	"github.com/bioforge/genosim/internal/rates"
	"github.com/bioforge/genosim/internal/rng"
	"github.com/bioforge/genosim/internal/sampling"
)

// Mutator combines the location sampler, type sampler, and
// insertion-sequence sampler for one variant chromosome. One event per
// Mutate call; the returned delta is the change in the chromosome's
// total mutation rate.
type Mutator struct {
	vc       *genome.VarChrom
	location *LocationSampler
	types    *rates.TypeSampler
	insert   *sampling.AliasStringSampler
}

// NewMutator wires the samplers for vc under model m. A nil gammas means
// no site heterogeneity.
func NewMutator(vc *genome.VarChrom, m *rates.Model, g *rates.SequenceGammas, chunkSize int) (*Mutator, error) {
	types, err := rates.NewTypeSampler(m)
	if err != nil {
		return nil, err
	}
	insert, err := sampling.NewAliasStringSampler([]byte(genome.Alphabet), m.Pi[:])
	if err != nil {
		return nil, fmt.Errorf("mutate: build insertion sampler: %w", err)
	}
	loc := NewLocationSampler(vc, m, g)
	loc.ChunkSize = chunkSize
	return &Mutator{vc: vc, location: loc, types: types, insert: insert}, nil
}

// Location exposes the location sampler (for drivers needing TotalRate).
func (mu *Mutator) Location() *LocationSampler { return mu.location }

// Mutate samples and applies one event on the whole chromosome,
// returning the change in total chromosome rate.
func (mu *Mutator) Mutate(eng *rng.Engine) float64 {
	p := mu.location.Sample(eng)
	return mu.apply(eng, p, nil)
}

// MutateRange samples and applies one event within [start,*end]. The end
// bound is adjusted by the event's length so the caller's window tracks
// indel size changes. An empty window (end < start) is a no-op.
func (mu *Mutator) MutateRange(eng *rng.Engine, start int, end *int) float64 {
	if *end < start {
		return 0
	}
	p := mu.location.SampleRange(eng, start, *end)
	return mu.apply(eng, p, end)
}

// apply draws the event type at p, folds the edit into the log, and
// computes the rate delta over the affected neighbourhood: the point
// itself for a substitution, [p-1, p+len+1] (bounded by the chromosome)
// for indels.
func (mu *Mutator) apply(eng *rng.Engine, p int, end *int) float64 {
	vc := mu.vc
	base := vc.BaseAt(p)
	info := mu.types.Sample(base, eng)

	if info.Length == 0 {
		g := mu.location.gammas.Gamma(vc.RefPos(p))
		delta := (mu.location.model.BaseRate(genome.BaseIndex(info.NewBase)) -
			mu.location.model.BaseRate(genome.BaseIndex(base))) * g
		vc.AddSubstitution(p, info.NewBase)
		return delta
	}

	length := info.Length
	if length < 0 && p-length > vc.Size() {
		// A deletion is clipped at the chromosome end.
		length = -(vc.Size() - p)
		if length == 0 {
			return 0
		}
	}

	abs := length
	if abs < 0 {
		abs = -abs
	}
	lo := p - 1
	if lo < 0 {
		lo = 0
	}
	hiOld := p + abs + 1
	if hiOld > vc.Size()-1 {
		hiOld = vc.Size() - 1
	}
	oldRate := mu.location.TotalRate(lo, hiOld)

	if length > 0 {
		nts := make([]byte, length)
		mu.insert.Fill(nts, eng)
		vc.AddInsertion(p, nts)
	} else {
		vc.AddDeletion(p, -length)
	}

	hiNew := hiOld + length
	if hiNew > vc.Size()-1 {
		hiNew = vc.Size() - 1
	}
	newRate := 0.0
	if vc.Size() > 0 && hiNew >= lo {
		newRate = mu.location.TotalRate(lo, hiNew)
	}

	if end != nil {
		*end += length
	}
	return newRate - oldRate
}
