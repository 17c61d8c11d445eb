package genome

import "fmt"

// VarGenome is one haploid variant genome: one VarChrom per reference
// chromosome, in reference order.
type VarGenome struct {
	Name    string
	Chroms  []*VarChrom
	refByID map[string]int
}

// NewVarGenome starts an unmutated variant of ref.
func NewVarGenome(name string, ref *RefGenome) *VarGenome {
	vg := &VarGenome{
		Name:    name,
		Chroms:  make([]*VarChrom, ref.Size()),
		refByID: make(map[string]int, ref.Size()),
	}
	for i := range ref.Chroms {
		vg.Chroms[i] = NewVarChrom(&ref.Chroms[i])
		vg.refByID[ref.Chroms[i].Name] = i
	}
	return vg
}

// Chrom returns the variant chromosome with the given reference name.
func (vg *VarGenome) Chrom(name string) (*VarChrom, bool) {
	i, ok := vg.refByID[name]
	if !ok {
		return nil, false
	}
	return vg.Chroms[i], true
}

// ChromSizes returns current chromosome lengths in order.
func (vg *VarGenome) ChromSizes() []int {
	out := make([]int, len(vg.Chroms))
	for i, c := range vg.Chroms {
		out[i] = c.Size()
	}
	return out
}

// TotalSize returns the summed length of all chromosomes.
func (vg *VarGenome) TotalSize() int {
	total := 0
	for _, c := range vg.Chroms {
		total += c.Size()
	}
	return total
}

// VarSet is an ordered collection of variant genomes over one reference.
type VarSet struct {
	Reference *RefGenome
	Variants  []*VarGenome
}

// NewVarSet creates n unmutated variants named var0, var1, ...
func NewVarSet(ref *RefGenome, n int) *VarSet {
	vs := &VarSet{Reference: ref, Variants: make([]*VarGenome, n)}
	for i := range vs.Variants {
		vs.Variants[i] = NewVarGenome(fmt.Sprintf("var%d", i), ref)
	}
	return vs
}

// NewVarSetNamed creates one variant per name.
func NewVarSetNamed(ref *RefGenome, names []string) *VarSet {
	vs := &VarSet{Reference: ref, Variants: make([]*VarGenome, len(names))}
	for i, name := range names {
		vs.Variants[i] = NewVarGenome(name, ref)
	}
	return vs
}

// Size returns the number of variants.
func (vs *VarSet) Size() int { return len(vs.Variants) }
