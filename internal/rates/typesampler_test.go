package rates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bioforge/genosim/internal/rng"
)

func newTestEngine(t *testing.T) *rng.Engine {
	t.Helper()
	eng, err := rng.NewEngine([]uint64{77, 3})
	require.NoError(t, err)
	return eng
}

func TestTypeSamplerSubstitutionsOnly(t *testing.T) {
	m, err := NewModel(JC69(0.25), uniformPi, 0, 1, nil, nil)
	require.NoError(t, err)
	ts, err := NewTypeSampler(m)
	require.NoError(t, err)
	eng := newTestEngine(t)

	for _, base := range []byte("TCAG") {
		for i := 0; i < 1000; i++ {
			info := ts.Sample(base, eng)
			require.Equal(t, 0, info.Length)
			require.NotZero(t, info.NewBase)
			require.NotEqual(t, base, info.NewBase, "no self-substitution")
		}
	}
}

func TestTypeSamplerIndelLengths(t *testing.T) {
	m, err := NewModel(JC69(0.25), uniformPi, 0.5, 1, []float64{1, 2, 3}, []float64{4, 1})
	require.NoError(t, err)
	ts, err := NewTypeSampler(m)
	require.NoError(t, err)
	eng := newTestEngine(t)

	sawIns := map[int]bool{}
	sawDel := map[int]bool{}
	for i := 0; i < 100000; i++ {
		info := ts.Sample('A', eng)
		switch {
		case info.Length > 0:
			require.LessOrEqual(t, info.Length, 3)
			require.Zero(t, info.NewBase)
			sawIns[info.Length] = true
		case info.Length < 0:
			require.GreaterOrEqual(t, info.Length, -2)
			require.Zero(t, info.NewBase)
			sawDel[-info.Length] = true
		}
	}
	assert.Len(t, sawIns, 3, "all insertion lengths reachable")
	assert.Len(t, sawDel, 2, "all deletion lengths reachable")
}

func TestTypeSamplerIndelProportion(t *testing.T) {
	// With a JC69 substitution rate of 1 per base and xi = 0.25, the 0.25
	// factor leaves each incumbent base a quarter of the per-site indel
	// rate, so only a small share of events at a site are indels.
	m, err := NewModel(JC69(1.0/3.0), uniformPi, 0.25, 1, []float64{1}, []float64{1})
	require.NoError(t, err)
	ts, err := NewTypeSampler(m)
	require.NoError(t, err)
	eng := newTestEngine(t)

	// Per-base substitution mass: -Q[b][b] = 1. Indel mass per base:
	// xi * 0.25 = 0.0625. Expected indel share: 0.0625/1.0625.
	const n = 400000
	indels := 0
	for i := 0; i < n; i++ {
		if ts.Sample('T', eng).Length != 0 {
			indels++
		}
	}
	want := 0.0625 / 1.0625
	assert.InDelta(t, want, float64(indels)/n, 0.005)
}
