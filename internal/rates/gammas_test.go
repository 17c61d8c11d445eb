package rates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequenceGammasLookup(t *testing.T) {
	g, err := NewSequenceGammas([][2]float64{
		{99, 0.5},
		{199, 2.0},
		{299, 1.0},
	}, 300)
	require.NoError(t, err)

	assert.Equal(t, 0.5, g.Gamma(0))
	assert.Equal(t, 0.5, g.Gamma(99))
	assert.Equal(t, 2.0, g.Gamma(100))
	assert.Equal(t, 2.0, g.Gamma(199))
	assert.Equal(t, 1.0, g.Gamma(299))
	// Positions past the last run (chromosome grown by insertions) take
	// the last run's value.
	assert.Equal(t, 1.0, g.Gamma(500))
}

func TestSequenceGammasValidation(t *testing.T) {
	_, err := NewSequenceGammas(nil, 100)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = NewSequenceGammas([][2]float64{{50, 1}, {40, 1}}, 100)
	assert.ErrorIs(t, err, ErrInvalidInput, "ends must be strictly ascending")

	_, err = NewSequenceGammas([][2]float64{{50, -1}}, 51)
	assert.ErrorIs(t, err, ErrInvalidInput, "gammas must be non-negative")

	_, err = NewSequenceGammas([][2]float64{{50, 1}}, 100)
	assert.ErrorIs(t, err, ErrInvalidInput, "runs must cover the chromosome")
}

func TestFlat(t *testing.T) {
	g := Flat(100)
	assert.Equal(t, 1.0, g.Gamma(0))
	assert.Equal(t, 1.0, g.Gamma(99))
}
