// Package mutate orchestrates single mutation events on a variant
// chromosome: sampling a site proportional to its current rate, sampling
// the event type for the incumbent base, applying the edit, and
// reporting the resulting change in total chromosome rate.
package mutate

import (
	"github.com/bioforge/genosim/internal/genome"
	"github.com/bioforge/genosim/internal/rates"
	"github.com/bioforge/genosim/internal/rng"
	"github.com/bioforge/genosim/internal/sampling"
)

// LocationSampler draws event sites from a variant chromosome with
// probability proportional to the per-site rate
// q_base(p) * gamma(refpos(p)). Gamma multipliers are anchored to
// reference coordinates, so indels leave downstream site rates
// undisturbed.
type LocationSampler struct {
	vc     *genome.VarChrom
	model  *rates.Model
	gammas *rates.SequenceGammas

	// ChunkSize restricts whole-chromosome draws to a random window of
	// this many sites. Zero means the full chromosome.
	ChunkSize int
}

// NewLocationSampler builds a sampler over vc. A nil gammas means no
// site heterogeneity.
func NewLocationSampler(vc *genome.VarChrom, m *rates.Model, g *rates.SequenceGammas) *LocationSampler {
	if g == nil {
		g = rates.Flat(vc.Ref().Size())
	}
	return &LocationSampler{vc: vc, model: m, gammas: g}
}

// window materialises the bases and underlying reference positions of
// the inclusive variant range [start,end] in one log walk each.
func (s *LocationSampler) window(start, end int) ([]byte, []int) {
	n := end - start + 1
	bases := make([]byte, n)
	refpos := make([]int, n)
	s.vc.Chunk(bases, start)
	s.vc.RefPositions(refpos, start)
	return bases, refpos
}

func (s *LocationSampler) siteRate(base byte, ref int) float64 {
	return s.model.BaseRate(genome.BaseIndex(base)) * s.gammas.Gamma(ref)
}

// Sample draws a site from the whole chromosome, or from a random
// ChunkSize window when one is configured.
func (s *LocationSampler) Sample(eng *rng.Engine) int {
	size := s.vc.Size()
	if size == 1 {
		return 0
	}
	start, end := 0, size-1
	if s.ChunkSize > 0 && s.ChunkSize < size {
		start = int(eng.Uniform01() * float64(size-s.ChunkSize+1))
		end = start + s.ChunkSize - 1
	}
	return s.SampleRange(eng, start, end)
}

// SampleRange draws a site from the inclusive range [start,end].
func (s *LocationSampler) SampleRange(eng *rng.Engine, start, end int) int {
	if end <= start {
		return start
	}
	bases, refpos := s.window(start, end)
	return sampling.WeightedReservoir(start, end, func(p int) float64 {
		return s.siteRate(bases[p-start], refpos[p-start])
	}, eng)
}

// TotalRate sums the per-site rates over the inclusive range [start,end].
func (s *LocationSampler) TotalRate(start, end int) float64 {
	if end < start {
		return 0
	}
	bases, refpos := s.window(start, end)
	total := 0.0
	for i := range bases {
		total += s.siteRate(bases[i], refpos[i])
	}
	return total
}

// TotalRateAll sums the per-site rates over the whole chromosome.
func (s *LocationSampler) TotalRateAll() float64 {
	if s.vc.Size() == 0 {
		return 0
	}
	return s.TotalRate(0, s.vc.Size()-1)
}
