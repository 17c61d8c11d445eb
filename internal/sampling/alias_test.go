package sampling

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bioforge/genosim/internal/rng"
)

func newTestEngine(t *testing.T) *rng.Engine {
	t.Helper()
	eng, err := rng.NewEngine([]uint64{2024, 17})
	require.NoError(t, err)
	return eng
}

func TestAliasSamplerErrors(t *testing.T) {
	_, err := NewAliasSampler(nil)
	assert.Error(t, err)
	_, err = NewAliasSampler([]float64{1, -1})
	assert.Error(t, err)
	_, err = NewAliasSampler([]float64{0, 0})
	assert.Error(t, err)
}

func TestAliasSamplerSingleton(t *testing.T) {
	s, err := NewAliasSampler([]float64{3})
	require.NoError(t, err)
	eng := newTestEngine(t)
	for i := 0; i < 100; i++ {
		assert.Equal(t, 0, s.Sample(eng))
	}
}

func TestAliasSamplerDistribution(t *testing.T) {
	weights := []float64{1, 2, 3, 4}
	s, err := NewAliasSampler(weights)
	require.NoError(t, err)
	eng := newTestEngine(t)

	const n = 1000000
	counts := make([]int, len(weights))
	for i := 0; i < n; i++ {
		counts[s.Sample(eng)]++
	}

	// Chi-squared against expected counts; 7.81 is the 95% quantile for
	// 3 degrees of freedom.
	chi2 := 0.0
	for i, w := range weights {
		expected := w / 10 * n
		d := float64(counts[i]) - expected
		chi2 += d * d / expected
	}
	assert.Less(t, chi2, 7.81, "empirical distribution deviates from weights: %v", counts)
}

func TestAliasSamplerZeroWeightNeverDrawn(t *testing.T) {
	s, err := NewAliasSampler([]float64{1, 0, 1})
	require.NoError(t, err)
	eng := newTestEngine(t)
	for i := 0; i < 100000; i++ {
		assert.NotEqual(t, 1, s.Sample(eng))
	}
}

func TestAliasStringSampler(t *testing.T) {
	letters := []byte("TCAG")
	s, err := NewAliasStringSampler(letters, []float64{0, 0, 1, 0})
	require.NoError(t, err)
	eng := newTestEngine(t)

	buf := make([]byte, 64)
	s.Fill(buf, eng)
	for _, b := range buf {
		assert.Equal(t, byte('A'), b)
	}
}

func TestAliasStringSamplerMismatch(t *testing.T) {
	_, err := NewAliasStringSampler([]byte("TCAG"), []float64{1, 1})
	assert.Error(t, err)
}

func TestAliasStringSamplerFrequencies(t *testing.T) {
	letters := []byte("TCAG")
	pi := []float64{0.1, 0.2, 0.3, 0.4}
	s, err := NewAliasStringSampler(letters, pi)
	require.NoError(t, err)
	eng := newTestEngine(t)

	const n = 400000
	buf := make([]byte, n)
	s.Fill(buf, eng)
	counts := map[byte]int{}
	for _, b := range buf {
		counts[b]++
	}
	for i, letter := range letters {
		got := float64(counts[letter]) / n
		// 3 sigma for a binomial proportion.
		sigma := 3 * math.Sqrt(pi[i]*(1-pi[i])/n)
		assert.InDelta(t, pi[i], got, sigma+0.001, "letter %c", letter)
	}
}
