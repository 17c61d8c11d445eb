package sampling

import (
	"math"

	"github.com/bioforge/genosim/internal/rng"
)

// RateGetter yields the non-negative weight of one position in a stream.
type RateGetter func(pos int) float64

// WeightedReservoir returns an index in the inclusive range [start,end]
// with probability proportional to rates(i), in a single left-to-right
// pass (Efraimidis & Spirakis 2006). Only positions that are adopted as
// the running maximum pay for an exponentiation; skipped positions cost
// one addition each.
func WeightedReservoir(start, end int, rates RateGetter, eng *rng.Engine) int {
	if end <= start {
		return start
	}

	// A zero-weight head would pin the key at zero, so advance to the
	// first positive weight before initialising.
	for start < end && rates(start) <= 0 {
		start++
	}

	r := eng.Uniform01()
	largestKey := math.Pow(r, 1/rates(start))
	largestPos := start

	c := start
	for c < end {
		r = eng.Uniform01()
		x := math.Log(r) / math.Log(largestKey)
		i := c + 1
		wtSum0 := rates(c)
		wtSum1 := wtSum0 + rates(i)
		for x > wtSum1 && i < end {
			i++
			wtSum0 += rates(i - 1)
			wtSum1 += rates(i)
		}
		if x > wtSum1 {
			break
		}
		if wtSum0 >= x {
			continue
		}

		largestPos = i

		w := rates(i)
		t := math.Pow(largestKey, w)
		r = eng.UniformAB(t, 1)
		largestKey = math.Pow(r, 1/w)

		c = i
	}

	return largestPos
}
