package genome

import "sort"

// mutationLog stores the ordered edit journal of one variant chromosome
// as four parallel slices sharing index i, sorted by newPos. Each record
// owns its bases slice.
//
// Record kinds by sizeModifier: 0 substitution (bases holds one byte),
// >0 insertion (bases holds the inserted bytes), <0 deletion (bases nil).
type mutationLog struct {
	sizeModifier []int
	oldPos       []int
	newPos       []int
	bases        [][]byte
}

func (m *mutationLog) size() int { return len(m.newPos) }

// search returns the largest index i with newPos[i] <= target, or -1 when
// every record starts past target. Ties on newPos (a zero-width deletion
// followed by an edit at the same variant position) resolve to the later
// record, which is the one governing the base at target.
func (m *mutationLog) search(target int) int {
	// First index with newPos > target.
	i := sort.Search(len(m.newPos), func(i int) bool { return m.newPos[i] > target })
	return i - 1
}

// insert places a record at index i, shifting later records right.
// Inserting at size() appends.
func (m *mutationLog) insert(i, sm, op, np int, bases []byte) {
	m.sizeModifier = append(m.sizeModifier, 0)
	copy(m.sizeModifier[i+1:], m.sizeModifier[i:])
	m.sizeModifier[i] = sm

	m.oldPos = append(m.oldPos, 0)
	copy(m.oldPos[i+1:], m.oldPos[i:])
	m.oldPos[i] = op

	m.newPos = append(m.newPos, 0)
	copy(m.newPos[i+1:], m.newPos[i:])
	m.newPos[i] = np

	m.bases = append(m.bases, nil)
	copy(m.bases[i+1:], m.bases[i:])
	m.bases[i] = cloneBases(bases)
}

// erase removes the record at index i.
func (m *mutationLog) erase(i int) {
	m.sizeModifier = append(m.sizeModifier[:i], m.sizeModifier[i+1:]...)
	m.oldPos = append(m.oldPos[:i], m.oldPos[i+1:]...)
	m.newPos = append(m.newPos[:i], m.newPos[i+1:]...)
	m.bases = append(m.bases[:i], m.bases[i+1:]...)
}

// shiftNewPos adds delta to newPos of every record at index >= from.
func (m *mutationLog) shiftNewPos(from, delta int) {
	for i := from; i < len(m.newPos); i++ {
		m.newPos[i] += delta
	}
}

func cloneBases(b []byte) []byte {
	if b == nil {
		return nil
	}
	return append([]byte(nil), b...)
}
