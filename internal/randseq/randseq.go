// Package randseq builds synthetic reference chromosomes: sequence
// lengths drawn from a gamma distribution, bases drawn from equilibrium
// frequencies, parallelised across workers with independently-seeded
// streams.
package randseq

import (
	"fmt"
	"sync"

	"github.com/bioforge/genosim/internal/genome"
	"github.com/bioforge/genosim/internal/rng"
	"github.com/bioforge/genosim/internal/sampling"
)

// Params configures one generation run.
type Params struct {
	NSeqs   int
	LenMean float64
	// LenSD <= 0 makes every sequence exactly LenMean long; otherwise
	// lengths are i.i.d. Gamma(mean^2/sd^2, sd^2/mean), floored to 1.
	LenSD   float64
	Pi      [4]float64
	Workers int
	Seed    uint64
}

// Sequences generates NSeqs byte strings. The worker partition is
// static and contiguous, and each worker owns one seed vector, so output
// is a pure function of Params.
func Sequences(p Params) ([][]byte, error) {
	if p.NSeqs <= 0 {
		return nil, fmt.Errorf("randseq: n_seqs must be positive: %w", genome.ErrInvalidInput)
	}
	if p.LenMean < 1 {
		return nil, fmt.Errorf("randseq: len_mean must be >= 1: %w", genome.ErrInvalidInput)
	}
	workers := p.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > p.NSeqs {
		workers = p.NSeqs
	}

	sampler, err := sampling.NewAliasStringSampler([]byte(genome.Alphabet), p.Pi[:])
	if err != nil {
		return nil, fmt.Errorf("randseq: %w", err)
	}
	seeds := rng.SeedSet(p.Seed, workers)

	gammaShape := (p.LenMean * p.LenMean) / (p.LenSD * p.LenSD)
	gammaScale := (p.LenSD * p.LenSD) / p.LenMean

	out := make([][]byte, p.NSeqs)
	errs := make([]error, workers)

	// Contiguous static blocks: worker w owns [w*per, min((w+1)*per, n)).
	per := (p.NSeqs + workers - 1) / workers

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(w int) {
			defer wg.Done()
			eng, err := rng.NewEngine(seeds[w])
			if err != nil {
				errs[w] = err
				return
			}
			lo, hi := w*per, (w+1)*per
			if hi > p.NSeqs {
				hi = p.NSeqs
			}
			for i := lo; i < hi; i++ {
				length := int(p.LenMean)
				if p.LenSD > 0 {
					draw, err := eng.Gamma(gammaShape, gammaScale)
					if err != nil {
						errs[w] = err
						return
					}
					length = int(draw)
					if length < 1 {
						length = 1
					}
				}
				seq := make([]byte, length)
				sampler.Fill(seq, eng)
				out[i] = seq
			}
		}(w)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Genome generates a named reference genome with chromosomes seq0,
// seq1, ...
func Genome(p Params) (*genome.RefGenome, error) {
	seqs, err := Sequences(p)
	if err != nil {
		return nil, err
	}
	chroms := make([]genome.RefChrom, len(seqs))
	for i, s := range seqs {
		chroms[i] = genome.RefChrom{Name: fmt.Sprintf("seq%d", i), Bases: s}
	}
	return genome.NewRefGenome(chroms)
}
