package fasta

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bioforge/genosim/internal/genome"
)

func TestReadBasic(t *testing.T) {
	in := ">chr1 some description\nACGT\nTTAA\n>chr2\nGGCC\n"
	g, err := Read(strings.NewReader(in))
	require.NoError(t, err)
	require.Equal(t, 2, g.Size())
	assert.Equal(t, "chr1", g.Chroms[0].Name)
	assert.Equal(t, "ACGTTTAA", string(g.Chroms[0].Bases))
	assert.Equal(t, "chr2", g.Chroms[1].Name)
	assert.Equal(t, "GGCC", string(g.Chroms[1].Bases))
	assert.Equal(t, 12, g.TotalSize)
}

func TestReadUppercases(t *testing.T) {
	g, err := Read(strings.NewReader(">s\nacgt\n"))
	require.NoError(t, err)
	assert.Equal(t, "ACGT", string(g.Chroms[0].Bases))
}

func TestReadRejectsUnknownBase(t *testing.T) {
	_, err := Read(strings.NewReader(">s\nACGN\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, genome.ErrInvalidInput)
}

func TestReadRejectsDuplicateNames(t *testing.T) {
	_, err := Read(strings.NewReader(">s\nAC\n>s\nGT\n"))
	assert.ErrorIs(t, err, genome.ErrInvalidInput)
}

func TestReadEmpty(t *testing.T) {
	_, err := Read(strings.NewReader(""))
	assert.ErrorIs(t, err, genome.ErrInvalidInput)
}

func TestWriteWraps(t *testing.T) {
	var buf bytes.Buffer
	seq := []byte(strings.Repeat("A", 150))
	require.NoError(t, Write(&buf, []string{"s"}, [][]byte{seq}))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, ">s", lines[0])
	assert.Len(t, lines[1], 70)
	assert.Len(t, lines[2], 70)
	assert.Len(t, lines[3], 10)
}

func TestRoundTripFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ref.fa")

	g, err := genome.NewRefGenome([]genome.RefChrom{
		{Name: "chr1", Bases: []byte("TCAGTCAGTCAG")},
		{Name: "chr2", Bases: []byte(strings.Repeat("ACGT", 40))},
	})
	require.NoError(t, err)
	require.NoError(t, WriteGenome(path, g))

	got, err := ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, g.Size(), got.Size())
	for i := range g.Chroms {
		assert.Equal(t, g.Chroms[i].Name, got.Chroms[i].Name)
		assert.Equal(t, g.Chroms[i].Bases, got.Chroms[i].Bases)
	}
}

func TestRoundTripGzip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ref.fa.gz")

	g, err := genome.NewRefGenome([]genome.RefChrom{
		{Name: "chr1", Bases: []byte("TCAGTCAG")},
	})
	require.NoError(t, err)
	require.NoError(t, WriteGenome(path, g))

	got, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "TCAGTCAG", string(got.Chroms[0].Bases))
}

func TestWriteVariant(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "var.fa")

	ref, err := genome.NewRefGenome([]genome.RefChrom{
		{Name: "chr1", Bases: []byte("ACAT")},
	})
	require.NoError(t, err)
	vg := genome.NewVarGenome("var0", ref)
	vg.Chroms[0].AddSubstitution(2, 'G')
	require.NoError(t, WriteVariant(path, vg))

	got, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "ACGT", string(got.Chroms[0].Bases))
}
