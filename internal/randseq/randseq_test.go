package randseq

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bioforge/genosim/internal/genome"
)

func TestSequencesConstantLength(t *testing.T) {
	pi := [4]float64{0.1, 0.2, 0.3, 0.4}
	seqs, err := Sequences(Params{
		NSeqs: 1000, LenMean: 100, LenSD: 0, Pi: pi, Workers: 4, Seed: 42,
	})
	require.NoError(t, err)
	require.Len(t, seqs, 1000)

	counts := map[byte]int{}
	total := 0
	for _, s := range seqs {
		require.Len(t, s, 100)
		for _, b := range s {
			counts[b]++
		}
		total += len(s)
	}

	for i := 0; i < 4; i++ {
		letter := genome.Alphabet[i]
		got := float64(counts[letter]) / float64(total)
		sigma := 3 * math.Sqrt(pi[i]*(1-pi[i])/float64(total))
		assert.InDelta(t, pi[i], got, sigma+0.001, "pooled frequency of %c", letter)
	}
}

func TestSequencesGammaLengths(t *testing.T) {
	seqs, err := Sequences(Params{
		NSeqs: 2000, LenMean: 100, LenSD: 30,
		Pi: [4]float64{0.25, 0.25, 0.25, 0.25}, Workers: 2, Seed: 7,
	})
	require.NoError(t, err)

	sum := 0.0
	for _, s := range seqs {
		require.GreaterOrEqual(t, len(s), 1)
		sum += float64(len(s))
	}
	mean := sum / float64(len(seqs))
	assert.InDelta(t, 100, mean, 5, "mean length")
}

func TestSequencesDeterministic(t *testing.T) {
	p := Params{
		NSeqs: 50, LenMean: 200, LenSD: 50,
		Pi: [4]float64{0.25, 0.25, 0.25, 0.25}, Workers: 3, Seed: 1234,
	}
	a, err := Sequences(p)
	require.NoError(t, err)
	b, err := Sequences(p)
	require.NoError(t, err)
	require.Equal(t, a, b)

	p.Seed = 1235
	c, err := Sequences(p)
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}

func TestSequencesInvalidParams(t *testing.T) {
	_, err := Sequences(Params{NSeqs: 0, LenMean: 100})
	assert.ErrorIs(t, err, genome.ErrInvalidInput)
	_, err = Sequences(Params{NSeqs: 1, LenMean: 0})
	assert.ErrorIs(t, err, genome.ErrInvalidInput)
}

func TestGenomeNames(t *testing.T) {
	g, err := Genome(Params{
		NSeqs: 3, LenMean: 50,
		Pi: [4]float64{0.25, 0.25, 0.25, 0.25}, Workers: 1, Seed: 9,
	})
	require.NoError(t, err)
	require.Equal(t, 3, g.Size())
	assert.Equal(t, "seq0", g.Chroms[0].Name)
	assert.Equal(t, "seq1", g.Chroms[1].Name)
	assert.Equal(t, "seq2", g.Chroms[2].Name)
	assert.Equal(t, 150, g.TotalSize)
}
