package rates

import (
	"fmt"

	"github.com/bioforge/genosim/internal/genome"
	"github.com/bioforge/genosim/internal/rng"
	"github.com/bioforge/genosim/internal/sampling"
)

// MutationInfo describes one sampled event. Length is 0 for a
// substitution (NewBase set), +k for an insertion of k bases, -k for a
// deletion of k bases (NewBase zero for indels).
type MutationInfo struct {
	Length  int
	NewBase byte
}

// TypeSampler draws the event type conditional on the incumbent base:
// substitution target, insertion length, or deletion length. One alias
// table per base over the combined outcome vector.
type TypeSampler struct {
	samplers     [4]*sampling.AliasSampler
	eventLengths []int
}

// NewTypeSampler derives the per-base outcome distributions from the
// model. Outcome slot layout per base: substitution to T,C,A,G (diagonal
// zeroed), insertion lengths 1..I, deletion lengths 1..D. Indel weights
// are the normalised relative rates scaled by the overall
// insertion/deletion rate and split evenly across the four incumbent
// bases, matching the convention that indel rates are per-site and
// independent of the incumbent base.
func NewTypeSampler(m *Model) (*TypeSampler, error) {
	nIns := len(m.RelInsertionRates)
	nDel := len(m.RelDeletionRates)
	nEvents := 4 + nIns + nDel

	insWeights := normalisedTo(m.RelInsertionRates, m.InsertionRate())
	delWeights := normalisedTo(m.RelDeletionRates, m.DeletionRate())

	ts := &TypeSampler{eventLengths: make([]int, nEvents)}
	for i := 0; i < nIns; i++ {
		ts.eventLengths[4+i] = i + 1
	}
	for i := 0; i < nDel; i++ {
		ts.eventLengths[4+nIns+i] = -(i + 1)
	}

	for b := 0; b < 4; b++ {
		probs := make([]float64, 0, nEvents)
		for j := 0; j < 4; j++ {
			if j == b {
				probs = append(probs, 0)
			} else {
				probs = append(probs, m.Q[b][j])
			}
		}
		for _, w := range insWeights {
			probs = append(probs, w*0.25)
		}
		for _, w := range delWeights {
			probs = append(probs, w*0.25)
		}
		s, err := sampling.NewAliasSampler(probs)
		if err != nil {
			return nil, fmt.Errorf("rates: build type sampler for base %c: %w", genome.Alphabet[b], err)
		}
		ts.samplers[b] = s
	}
	return ts, nil
}

// Sample draws the event for the given incumbent base.
func (ts *TypeSampler) Sample(base byte, eng *rng.Engine) MutationInfo {
	b := genome.BaseIndex(base)
	k := ts.samplers[b].Sample(eng)
	if k < 4 {
		return MutationInfo{NewBase: genome.Alphabet[k]}
	}
	return MutationInfo{Length: ts.eventLengths[k]}
}

// normalisedTo scales weights so they sum to total. An all-zero vector
// (or a zero total) yields zeros, keeping outcome-slot indices aligned
// with eventLengths.
func normalisedTo(weights []float64, total float64) []float64 {
	out := make([]float64, len(weights))
	sum := 0.0
	for _, w := range weights {
		sum += w
	}
	if sum == 0 || total == 0 {
		return out
	}
	for i, w := range weights {
		out[i] = w / sum * total
	}
	return out
}
