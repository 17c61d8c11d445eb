// Package sampling provides the discrete samplers used by the mutation
// engine: Walker's alias method for O(1) categorical draws and the
// Efraimidis-Spirakis weighted reservoir for one-pass proportional
// sampling over a rate stream.
package sampling

import (
	"fmt"

	"github.com/bioforge/genosim/internal/rng"
)

// AliasSampler draws an index in [0,K) with probability proportional to
// the weight vector it was built from. Build cost is O(K); each draw is
// O(1). Immutable after construction.
type AliasSampler struct {
	prob  []float64
	alias []int
}

// NewAliasSampler builds the alias tables from a non-negative weight
// vector. Weights are normalised internally; they need not sum to 1.
func NewAliasSampler(weights []float64) (*AliasSampler, error) {
	k := len(weights)
	if k == 0 {
		return nil, fmt.Errorf("sampling: empty weight vector")
	}
	sum := 0.0
	for i, w := range weights {
		if w < 0 {
			return nil, fmt.Errorf("sampling: negative weight %g at index %d", w, i)
		}
		sum += w
	}
	if sum <= 0 {
		return nil, fmt.Errorf("sampling: weights sum to zero")
	}

	s := &AliasSampler{
		prob:  make([]float64, k),
		alias: make([]int, k),
	}

	// Vose's construction: scale to mean 1, then pair small and large
	// columns until every column is full.
	scaled := make([]float64, k)
	small := make([]int, 0, k)
	large := make([]int, 0, k)
	for i, w := range weights {
		scaled[i] = w * float64(k) / sum
		if scaled[i] < 1 {
			small = append(small, i)
		} else {
			large = append(large, i)
		}
	}
	for len(small) > 0 && len(large) > 0 {
		l := small[len(small)-1]
		small = small[:len(small)-1]
		g := large[len(large)-1]
		large = large[:len(large)-1]
		s.prob[l] = scaled[l]
		s.alias[l] = g
		scaled[g] = scaled[g] + scaled[l] - 1
		if scaled[g] < 1 {
			small = append(small, g)
		} else {
			large = append(large, g)
		}
	}
	for _, g := range large {
		s.prob[g] = 1
		s.alias[g] = g
	}
	for _, l := range small {
		s.prob[l] = 1
		s.alias[l] = l
	}
	return s, nil
}

// K returns the number of categories.
func (s *AliasSampler) K() int { return len(s.prob) }

// Sample draws one category index.
func (s *AliasSampler) Sample(eng *rng.Engine) int {
	u := eng.Uniform01() * float64(len(s.prob))
	i := int(u)
	if i >= len(s.prob) {
		i = len(s.prob) - 1
	}
	if u-float64(i) < s.prob[i] {
		return i
	}
	return s.alias[i]
}

// AliasStringSampler fills byte buffers with letters drawn from a fixed
// alphabet under an alias-sampled distribution. Used for insertion
// sequences and random reference chromosomes.
type AliasStringSampler struct {
	letters []byte
	sampler *AliasSampler
}

// NewAliasStringSampler builds a string sampler over letters with the
// given weights. len(weights) must equal len(letters).
func NewAliasStringSampler(letters []byte, weights []float64) (*AliasStringSampler, error) {
	if len(letters) != len(weights) {
		return nil, fmt.Errorf("sampling: %d letters but %d weights", len(letters), len(weights))
	}
	s, err := NewAliasSampler(weights)
	if err != nil {
		return nil, err
	}
	return &AliasStringSampler{letters: append([]byte(nil), letters...), sampler: s}, nil
}

// Fill overwrites every byte of buf with a sampled letter.
func (s *AliasStringSampler) Fill(buf []byte, eng *rng.Engine) {
	for i := range buf {
		buf[i] = s.letters[s.sampler.Sample(eng)]
	}
}

// SampleOne draws a single letter.
func (s *AliasStringSampler) SampleOne(eng *rng.Engine) byte {
	return s.letters[s.sampler.Sample(eng)]
}
