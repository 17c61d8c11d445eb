package genome

import "fmt"

// VarChrom is one chromosome of one haploid variant genome: a non-owning
// reference back-pointer plus the ordered mutation log, with the current
// size cached.
type VarChrom struct {
	ref       *RefChrom
	muts      mutationLog
	chromSize int
	Name      string
}

// NewVarChrom starts an unmutated variant of ref.
func NewVarChrom(ref *RefChrom) *VarChrom {
	return &VarChrom{ref: ref, chromSize: ref.Size(), Name: ref.Name}
}

// Ref returns the underlying reference chromosome.
func (v *VarChrom) Ref() *RefChrom { return v.ref }

// Size returns the current variant chromosome length.
func (v *VarChrom) Size() int { return v.chromSize }

// NumMutations returns the number of records in the mutation log.
func (v *VarChrom) NumMutations() int { return v.muts.size() }

// Mutation is one edit record as exposed to callers (VCF emission, the
// mutation archive). Kind follows SizeModifier: 0 substitution, positive
// insertion, negative deletion.
type Mutation struct {
	SizeModifier int
	OldPos       int
	NewPos       int
	Bases        string
}

// Mutations returns a snapshot of the log in order.
func (v *VarChrom) Mutations() []Mutation {
	out := make([]Mutation, v.muts.size())
	for i := range out {
		out[i] = Mutation{
			SizeModifier: v.muts.sizeModifier[i],
			OldPos:       v.muts.oldPos[i],
			NewPos:       v.muts.newPos[i],
			Bases:        string(v.muts.bases[i]),
		}
	}
	return out
}

// getChar resolves the base at variant position pos given the governing
// record index i (the result of muts.search(pos); -1 for none).
func (v *VarChrom) getChar(pos, i int) byte {
	if i < 0 {
		return v.ref.Bases[pos]
	}
	m := &v.muts
	sm := m.sizeModifier[i]
	switch {
	case sm == 0:
		if pos == m.newPos[i] {
			return m.bases[i][0]
		}
		return v.ref.Bases[m.oldPos[i]+(pos-m.newPos[i])]
	case sm > 0:
		off := pos - m.newPos[i]
		if off < len(m.bases[i]) {
			return m.bases[i][off]
		}
		return v.ref.Bases[m.oldPos[i]+off-len(m.bases[i])]
	default:
		return v.ref.Bases[m.oldPos[i]+(-sm)+(pos-m.newPos[i])]
	}
}

// BaseAt returns the base at variant position pos.
func (v *VarChrom) BaseAt(pos int) byte {
	return v.getChar(pos, v.muts.search(pos))
}

// RefPos converts a variant position to the reference position underlying
// it. Positions inside insertion bytes map to the reference base the
// insertion precedes.
func (v *VarChrom) RefPos(pos int) int {
	return v.refPosAt(pos, v.muts.search(pos))
}

// Chunk fills buf with len(buf) bases starting at variant position start,
// walking the log once.
func (v *VarChrom) Chunk(buf []byte, start int) {
	i := v.muts.search(start)
	for j := range buf {
		pos := start + j
		for i+1 < v.muts.size() && v.muts.newPos[i+1] <= pos {
			i++
		}
		buf[j] = v.getChar(pos, i)
	}
}

// RefPositions fills buf with the reference positions underlying the
// variant positions start, start+1, ..., walking the log once. The
// mapping matches RefPos at every position.
func (v *VarChrom) RefPositions(buf []int, start int) {
	i := v.muts.search(start)
	for j := range buf {
		pos := start + j
		for i+1 < v.muts.size() && v.muts.newPos[i+1] <= pos {
			i++
		}
		buf[j] = v.refPosAt(pos, i)
	}
}

func (v *VarChrom) refPosAt(pos, i int) int {
	if i < 0 {
		return pos
	}
	m := &v.muts
	sm := m.sizeModifier[i]
	switch {
	case sm == 0:
		return m.oldPos[i] + (pos - m.newPos[i])
	case sm > 0:
		off := pos - m.newPos[i]
		if off < len(m.bases[i]) {
			return m.oldPos[i]
		}
		return m.oldPos[i] + off - len(m.bases[i])
	default:
		return m.oldPos[i] + (-sm) + (pos - m.newPos[i])
	}
}

// Sequence materialises the entire variant chromosome.
func (v *VarChrom) Sequence() []byte {
	buf := make([]byte, v.chromSize)
	v.Chunk(buf, 0)
	return buf
}

// AddSubstitution replaces the base at variant position p with base. A
// position inside an existing insertion or substitution is rewritten in
// place; otherwise a new record is created.
func (v *VarChrom) AddSubstitution(p int, base byte) {
	m := &v.muts
	i := m.search(p)
	if i >= 0 {
		sm := m.sizeModifier[i]
		if sm == 0 && m.newPos[i] == p {
			m.bases[i][0] = base
			return
		}
		if sm > 0 {
			if off := p - m.newPos[i]; off < len(m.bases[i]) {
				m.bases[i][off] = base
				return
			}
		}
	}
	m.insert(i+1, 0, v.RefPos(p), p, []byte{base})
}

// AddInsertion inserts nts before variant position p. An insertion landing
// inside (or immediately after) an existing insertion's bytes is spliced
// into that record; otherwise a new record is created and all later
// records shift right.
func (v *VarChrom) AddInsertion(p int, nts []byte) {
	k := len(nts)
	if k == 0 {
		return
	}
	m := &v.muts
	i := m.search(p)
	if i >= 0 && m.sizeModifier[i] > 0 {
		if off := p - m.newPos[i]; off <= len(m.bases[i]) {
			b := m.bases[i]
			grown := make([]byte, 0, len(b)+k)
			grown = append(grown, b[:off]...)
			grown = append(grown, nts...)
			grown = append(grown, b[off:]...)
			m.bases[i] = grown
			m.sizeModifier[i] += k
			m.shiftNewPos(i+1, k)
			v.chromSize += k
			return
		}
	}
	idx := i + 1
	if i >= 0 && m.newPos[i] == p && m.sizeModifier[i] == 0 {
		// Insertion sorts before a substitution anchored at the same spot.
		idx = i
	}
	m.insert(idx, k, v.RefPos(p), p, nts)
	m.shiftNewPos(idx+1, k)
	v.chromSize += k
}

// AddDeletion removes k bases starting at variant position p, resolving
// the new deletion against overlapping substitutions, insertions, and
// contiguous deletions already in the log.
func (v *VarChrom) AddDeletion(p, k int) {
	if p < 0 || p >= v.chromSize || k <= 0 {
		return
	}
	if p+k > v.chromSize {
		k = v.chromSize - p
	}
	delEnd := p + k
	m := &v.muts

	i0 := m.search(p)

	// Deletion entirely within one insertion's bytes: shrink it in place,
	// no deletion record results.
	if i0 >= 0 && m.sizeModifier[i0] > 0 {
		np := m.newPos[i0]
		L := len(m.bases[i0])
		if p < np+L && delEnd <= np+L {
			if p == np && k == L {
				m.erase(i0)
				m.shiftNewPos(i0, -k)
			} else {
				b := m.bases[i0]
				m.bases[i0] = append(b[:p-np:p-np], b[delEnd-np:]...)
				m.sizeModifier[i0] -= k
				m.shiftNewPos(i0+1, -k)
			}
			v.chromSize -= k
			return
		}
	}

	op := v.RefPos(p)
	refFootprint := k // reference bases removed by this deletion
	mergedOld := op
	mergedExtra := 0 // footprint inherited from merged prior deletions

	s := i0 + 1
	if i0 >= 0 {
		np := m.newPos[i0]
		switch sm := m.sizeModifier[i0]; {
		case sm > 0:
			L := len(m.bases[i0])
			if p < np+L { // the insertion's suffix is absorbed
				absorbed := L - (p - np)
				refFootprint -= absorbed
				if p == np {
					m.erase(i0)
					s = i0
				} else {
					m.bases[i0] = m.bases[i0][: p-np : p-np]
					m.sizeModifier[i0] -= absorbed
				}
			}
		case sm == 0:
			if np == p {
				m.erase(i0)
				s = i0
			}
		default:
			if np == p { // prior deletion ends right where ours begins
				mergedExtra += -sm
				mergedOld = m.oldPos[i0]
				m.erase(i0)
				s = i0
			}
		}
		// A zero-width deletion can hide behind the record just handled.
		if s > 0 && m.sizeModifier[s-1] < 0 && m.newPos[s-1] == p {
			mergedExtra += -m.sizeModifier[s-1]
			mergedOld = m.oldPos[s-1]
			m.erase(s - 1)
			s--
		}
	}

	j := s
	for j < m.size() && m.newPos[j] < delEnd {
		switch sm := m.sizeModifier[j]; {
		case sm == 0:
			m.erase(j)
		case sm > 0:
			np := m.newPos[j]
			L := len(m.bases[j])
			if np+L <= delEnd { // wholly absorbed
				refFootprint -= L
				m.erase(j)
			} else { // deletion ends inside this insertion
				covered := delEnd - np
				refFootprint -= covered
				m.bases[j] = m.bases[j][covered:]
				m.sizeModifier[j] -= covered
				m.newPos[j] = delEnd
				j++
			}
		default: // engulfed deletion: contiguous by construction
			mergedExtra += -sm
			if m.oldPos[j] < mergedOld {
				mergedOld = m.oldPos[j]
			}
			m.erase(j)
		}
	}

	// A deletion starting exactly at our reference end merges too.
	if j < m.size() && m.newPos[j] == delEnd && m.sizeModifier[j] < 0 &&
		m.oldPos[j] == mergedOld+refFootprint+mergedExtra {
		mergedExtra += -m.sizeModifier[j]
		m.erase(j)
	}

	if total := refFootprint + mergedExtra; total > 0 {
		m.insert(s, -total, mergedOld, p, nil)
		m.shiftNewPos(s+1, -k)
	} else {
		m.shiftNewPos(s, -k)
	}
	v.chromSize -= k
}

// CheckInvariants verifies the internal consistency of the log: cached
// size, monotone positions, the adjacency relation between consecutive
// records, and reference-range overlap rules. Intended for tests and
// debug builds; an error indicates a bug.
func (v *VarChrom) CheckInvariants() error {
	m := &v.muts
	sum := 0
	for i := 0; i < m.size(); i++ {
		sum += m.sizeModifier[i]
	}
	if v.chromSize != v.ref.Size()+sum {
		return fmt.Errorf("genome: size invariant: cached %d, ref %d + modifiers %d",
			v.chromSize, v.ref.Size(), sum)
	}
	for i := 1; i < m.size(); i++ {
		if m.newPos[i] < m.newPos[i-1] || m.oldPos[i] < m.oldPos[i-1] {
			return fmt.Errorf("genome: position order violated at record %d", i)
		}
		if m.newPos[i] == m.newPos[i-1] && m.sizeModifier[i-1] >= 0 {
			return fmt.Errorf("genome: newPos tie at record %d not preceded by a deletion", i)
		}
		prevEnd := m.oldPos[i-1] // last reference position covered by record i-1
		switch sm := m.sizeModifier[i-1]; {
		case sm < 0:
			prevEnd += -sm - 1
		case sm > 0:
			prevEnd-- // insertions have no reference footprint
		}
		if m.oldPos[i] <= prevEnd {
			return fmt.Errorf("genome: reference ranges overlap at record %d", i)
		}
		lenVar := recordVarLen(m.sizeModifier[i-1], m.bases[i-1])
		lenRef := recordRefLen(m.sizeModifier[i-1])
		want := m.newPos[i-1] + lenVar + (m.oldPos[i] - m.oldPos[i-1] - lenRef)
		if m.newPos[i] != want {
			return fmt.Errorf("genome: record %d newPos %d, want %d", i, m.newPos[i], want)
		}
	}
	return nil
}

func recordVarLen(sm int, bases []byte) int {
	switch {
	case sm == 0:
		return 1
	case sm > 0:
		return len(bases)
	default:
		return 0
	}
}

func recordRefLen(sm int) int {
	switch {
	case sm == 0:
		return 1
	case sm > 0:
		return 0
	default:
		return -sm
	}
}
