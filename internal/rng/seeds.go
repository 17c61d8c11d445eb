package rng

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
)

// seedWords is the number of 64-bit words handed to each worker engine:
// one state word plus one stream-selector word.
const seedWords = 2

// MasterSeed returns a seed from the OS entropy source.
func MasterSeed() (uint64, error) {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0, fmt.Errorf("rng: read OS entropy: %w", err)
	}
	return binary.LittleEndian.Uint64(buf[:]), nil
}

// SeedSet expands a master seed into one seed vector per worker. The
// expansion is a pure function of (master, workers): worker i always
// receives the same vector, so static scheduling over workers keeps
// whole runs reproducible. SplitMix64 is used as the expander; its
// full-period 64-bit stream keeps worker states from colliding.
func SeedSet(master uint64, workers int) [][]uint64 {
	if workers < 1 {
		workers = 1
	}
	sm := master
	out := make([][]uint64, workers)
	for i := range out {
		vec := make([]uint64, seedWords)
		for j := range vec {
			vec[j] = splitMix64(&sm)
		}
		out[i] = vec
	}
	return out
}

func splitMix64(state *uint64) uint64 {
	*state += 0x9e3779b97f4a7c15
	z := *state
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}
