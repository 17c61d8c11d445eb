// Package genome holds the sequence data model: immutable reference
// genomes and variant chromosomes represented as a reference plus an
// ordered mutation log.
package genome

// Alphabet is the nucleotide alphabet in its fixed ordinal order. The
// order is part of the wire contract: rate matrices, equilibrium
// frequencies, and event-probability vectors all index bases this way.
const Alphabet = "TCAG"

// baseIndex maps an uppercase nucleotide byte to its ordinal, 255 for
// anything outside the alphabet.
var baseIndex [256]uint8

func init() {
	for i := range baseIndex {
		baseIndex[i] = 255
	}
	for i := 0; i < len(Alphabet); i++ {
		baseIndex[Alphabet[i]] = uint8(i)
	}
}

// BaseIndex returns the ordinal of base b in TCAG order, or -1 when b is
// not a valid uppercase nucleotide.
func BaseIndex(b byte) int {
	i := baseIndex[b]
	if i == 255 {
		return -1
	}
	return int(i)
}

// ValidBase reports whether b is one of T, C, A, G.
func ValidBase(b byte) bool {
	return baseIndex[b] != 255
}
