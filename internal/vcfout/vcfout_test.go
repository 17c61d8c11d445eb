package vcfout

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bioforge/genosim/internal/genome"
)

func testSet(t *testing.T) *genome.VarSet {
	t.Helper()
	ref, err := genome.NewRefGenome([]genome.RefChrom{
		{Name: "chr1", Bases: []byte("ACATACGT")},
	})
	require.NoError(t, err)
	return genome.NewVarSet(ref, 2)
}

func records(doc string) []string {
	var out []string
	for _, line := range strings.Split(doc, "\n") {
		if line != "" && !strings.HasPrefix(line, "#") {
			out = append(out, line)
		}
	}
	return out
}

func TestWriteHeader(t *testing.T) {
	vs := testSet(t)
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, vs))

	doc := buf.String()
	assert.Contains(t, doc, "##fileformat=VCFv4.3")
	assert.Contains(t, doc, "##contig=<ID=chr1,length=8>")
	assert.Contains(t, doc, "#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\tFORMAT\tvar0\tvar1")
	assert.Empty(t, records(doc), "no mutations, no records")
}

func TestWriteRecords(t *testing.T) {
	vs := testSet(t)
	// var0: two substitutions.
	vs.Variants[0].Chroms[0].AddSubstitution(1, 'G')
	vs.Variants[0].Chroms[0].AddSubstitution(6, 'A')
	// var1: the same substitution at reference position 6, then a
	// deletion of reference positions 4-5.
	vs.Variants[1].Chroms[0].AddSubstitution(6, 'A')
	vs.Variants[1].Chroms[0].AddDeletion(4, 2)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, vs))
	recs := records(buf.String())
	require.Len(t, recs, 3)

	fields := strings.Split(recs[0], "\t")
	assert.Equal(t, []string{"chr1", "2", ".", "C", "G", ".", ".", ".", "GT", "1", "0"}, fields)

	fields = strings.Split(recs[1], "\t")
	assert.Equal(t, []string{"chr1", "4", ".", "TAC", "T", ".", ".", ".", "GT", "0", "1"}, fields)

	fields = strings.Split(recs[2], "\t")
	assert.Equal(t, []string{"chr1", "7", ".", "G", "A", ".", ".", ".", "GT", "1", "1"},
		fields, "identical alleles share one ALT index")
}

func TestWriteInsertionAnchored(t *testing.T) {
	vs := testSet(t)
	vs.Variants[0].Chroms[0].AddInsertion(3, []byte("GG"))

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, vs))
	recs := records(buf.String())
	require.Len(t, recs, 1)

	fields := strings.Split(recs[0], "\t")
	require.Len(t, fields, 11)
	assert.Equal(t, "3", fields[1], "window starts at the anchor base")
	assert.Equal(t, "AT", fields[3])
	assert.Equal(t, "AGGT", fields[4])
	assert.Equal(t, "1", fields[9])
	assert.Equal(t, "0", fields[10])
}

func TestWriteDistinctAlts(t *testing.T) {
	vs := testSet(t)
	vs.Variants[0].Chroms[0].AddSubstitution(0, 'T')
	vs.Variants[1].Chroms[0].AddSubstitution(0, 'G')

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, vs))
	recs := records(buf.String())
	require.Len(t, recs, 1)

	fields := strings.Split(recs[0], "\t")
	assert.Equal(t, "T,G", fields[4])
	assert.Equal(t, "1", fields[9])
	assert.Equal(t, "2", fields[10])
}
