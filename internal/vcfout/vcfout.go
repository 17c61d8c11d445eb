// Package vcfout emits the mutations of a variant set as VCF: one line
// per merged reference window, with the alternate alleles of every
// variant reconstructed from its mutation log.
package vcfout

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/bioforge/genosim/internal/genome"
)

// WriteFile writes the variant set to a VCF file.
func WriteFile(path string, vs *genome.VarSet) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create VCF file: %w", err)
	}
	defer f.Close()
	return Write(f, vs)
}

// Write emits the full VCF document for vs.
func Write(w io.Writer, vs *genome.VarSet) error {
	bw := bufio.NewWriter(w)
	if err := writeHeader(bw, vs); err != nil {
		return err
	}
	for c := range vs.Reference.Chroms {
		if err := writeChrom(bw, vs, c); err != nil {
			return err
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flush VCF output: %w", err)
	}
	return nil
}

func writeHeader(bw *bufio.Writer, vs *genome.VarSet) error {
	fmt.Fprintln(bw, "##fileformat=VCFv4.3")
	for i := range vs.Reference.Chroms {
		c := &vs.Reference.Chroms[i]
		fmt.Fprintf(bw, "##contig=<ID=%s,length=%d>\n", c.Name, c.Size())
	}
	fmt.Fprintln(bw, `##FORMAT=<ID=GT,Number=1,Type=String,Description="Genotype">`)
	cols := []string{"#CHROM", "POS", "ID", "REF", "ALT", "QUAL", "FILTER", "INFO", "FORMAT"}
	for _, vg := range vs.Variants {
		cols = append(cols, vg.Name)
	}
	if _, err := fmt.Fprintln(bw, strings.Join(cols, "\t")); err != nil {
		return fmt.Errorf("write VCF header: %w", err)
	}
	return nil
}

// window is a merged half-open reference range [start,end) covering at
// least one mutation of at least one variant.
type window struct {
	start, end int
}

// refInterval returns the reference window one mutation needs,
// pre-extended to include the anchor base before an indel.
func refInterval(mut genome.Mutation) window {
	switch {
	case mut.SizeModifier == 0:
		return window{mut.OldPos, mut.OldPos + 1}
	case mut.SizeModifier > 0:
		start := mut.OldPos - 1
		if start < 0 {
			start = 0
		}
		return window{start, mut.OldPos + 1}
	default:
		start := mut.OldPos - 1
		if start < 0 {
			start = 0
		}
		return window{start, mut.OldPos - mut.SizeModifier}
	}
}

func writeChrom(bw *bufio.Writer, vs *genome.VarSet, c int) error {
	ref := &vs.Reference.Chroms[c]

	muts := make([][]genome.Mutation, vs.Size())
	var intervals []window
	for i, vg := range vs.Variants {
		muts[i] = vg.Chroms[c].Mutations()
		for _, m := range muts[i] {
			intervals = append(intervals, refInterval(m))
		}
	}
	if len(intervals) == 0 {
		return nil
	}

	sort.Slice(intervals, func(a, b int) bool { return intervals[a].start < intervals[b].start })
	merged := intervals[:1]
	for _, iv := range intervals[1:] {
		last := &merged[len(merged)-1]
		if iv.start < last.end {
			if iv.end > last.end {
				last.end = iv.end
			}
		} else {
			merged = append(merged, iv)
		}
	}

	for _, win := range merged {
		refStr := string(ref.Bases[win.start:win.end])

		gts := make([]int, vs.Size())
		var alts []string
		for i := range vs.Variants {
			alt := applyWindow(refStr, win, muts[i])
			if alt == refStr {
				continue
			}
			found := -1
			for k, a := range alts {
				if a == alt {
					found = k
					break
				}
			}
			if found < 0 {
				alts = append(alts, alt)
				found = len(alts) - 1
			}
			gts[i] = found + 1
		}
		if len(alts) == 0 {
			// Overlapping edits restored the reference; nothing to report.
			continue
		}

		cols := make([]string, 0, 9+vs.Size())
		cols = append(cols, ref.Name, fmt.Sprint(win.start+1), ".",
			refStr, strings.Join(alts, ","), ".", ".", ".", "GT")
		for _, gt := range gts {
			cols = append(cols, fmt.Sprint(gt))
		}
		if _, err := fmt.Fprintln(bw, strings.Join(cols, "\t")); err != nil {
			return fmt.Errorf("write VCF record: %w", err)
		}
	}
	return nil
}

// applyWindow rebuilds one variant's allele over the window by applying
// its in-window mutations back to front, so earlier edits don't disturb
// later offsets.
func applyWindow(refStr string, win window, muts []genome.Mutation) string {
	alt := []byte(refStr)
	for i := len(muts) - 1; i >= 0; i-- {
		m := muts[i]
		if m.OldPos < win.start || m.OldPos >= win.end {
			continue
		}
		pos := m.OldPos - win.start
		switch {
		case m.SizeModifier == 0:
			alt[pos] = m.Bases[0]
		case m.SizeModifier > 0:
			grown := make([]byte, 0, len(alt)+len(m.Bases))
			grown = append(grown, alt[:pos]...)
			grown = append(grown, m.Bases...)
			grown = append(grown, alt[pos:]...)
			alt = grown
		default:
			k := -m.SizeModifier
			alt = append(alt[:pos:pos], alt[pos+k:]...)
		}
	}
	return string(alt)
}
