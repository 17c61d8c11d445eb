package sampling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeightedReservoirProportional(t *testing.T) {
	weights := []float64{1, 3, 2, 4}
	eng := newTestEngine(t)

	const n = 200000
	counts := make([]int, len(weights))
	for i := 0; i < n; i++ {
		pos := WeightedReservoir(0, len(weights)-1, func(p int) float64 {
			return weights[p]
		}, eng)
		counts[pos]++
	}

	for i, w := range weights {
		got := float64(counts[i]) / n
		want := w / 10
		assert.InDelta(t, want, got, 0.01, "position %d: %v", i, counts)
	}
}

func TestWeightedReservoirSubRange(t *testing.T) {
	weights := []float64{100, 1, 1, 1, 100}
	eng := newTestEngine(t)

	for i := 0; i < 10000; i++ {
		pos := WeightedReservoir(1, 3, func(p int) float64 {
			return weights[p]
		}, eng)
		require.GreaterOrEqual(t, pos, 1)
		require.LessOrEqual(t, pos, 3)
	}
}

func TestWeightedReservoirSingleton(t *testing.T) {
	eng := newTestEngine(t)
	pos := WeightedReservoir(5, 5, func(p int) float64 { return 1 }, eng)
	assert.Equal(t, 5, pos)
}

func TestWeightedReservoirZeroHead(t *testing.T) {
	weights := []float64{0, 0, 1, 1}
	eng := newTestEngine(t)
	for i := 0; i < 10000; i++ {
		pos := WeightedReservoir(0, 3, func(p int) float64 {
			return weights[p]
		}, eng)
		require.GreaterOrEqual(t, pos, 2, "zero-weight positions must not be drawn")
	}
}
