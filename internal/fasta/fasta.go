// Package fasta reads and writes reference genomes in FASTA format.
package fasta

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bioforge/genosim/internal/genome"
)

// wrapWidth is the sequence line width used when writing.
const wrapWidth = 70

// ReadFile loads a FASTA file (gzipped when the path ends in .gz) into a
// reference genome. Bases are uppercased; anything outside T, C, A, G
// is rejected.
func ReadFile(path string) (*genome.RefGenome, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open FASTA file: %w", err)
	}
	defer f.Close()

	var reader io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("open gzip reader: %w", err)
		}
		defer gz.Close()
		reader = gz
	}

	return Read(reader)
}

// Read parses FASTA content from r.
func Read(r io.Reader) (*genome.RefGenome, error) {
	scanner := bufio.NewScanner(r)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 10*1024*1024)

	var chroms []genome.RefChrom
	var name string
	var seq bytes.Buffer
	flush := func() {
		if name != "" {
			chroms = append(chroms, genome.RefChrom{
				Name:  name,
				Bases: append([]byte(nil), seq.Bytes()...),
			})
		}
		seq.Reset()
	}

	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, ">") {
			flush()
			name = parseHeader(line)
			if name == "" {
				return nil, fmt.Errorf("fasta: empty sequence name: %w", genome.ErrInvalidInput)
			}
			continue
		}
		seq.WriteString(strings.ToUpper(strings.TrimSpace(line)))
	}
	flush()
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan FASTA: %w", err)
	}
	if len(chroms) == 0 {
		return nil, fmt.Errorf("fasta: no sequences found: %w", genome.ErrInvalidInput)
	}
	return genome.NewRefGenome(chroms)
}

// parseHeader extracts the sequence name: everything after '>' up to the
// first whitespace.
func parseHeader(line string) string {
	header := strings.TrimPrefix(line, ">")
	if idx := strings.IndexAny(header, " \t"); idx != -1 {
		header = header[:idx]
	}
	return header
}

// WriteFile writes named sequences as FASTA, gzipped when the path ends
// in .gz.
func WriteFile(path string, names []string, seqs [][]byte) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create FASTA file: %w", err)
	}
	defer f.Close()

	var w io.Writer = f
	if strings.HasSuffix(path, ".gz") {
		gz := gzip.NewWriter(f)
		defer gz.Close()
		w = gz
	}
	return Write(w, names, seqs)
}

// Write emits named sequences as FASTA with 70-column wrapping.
func Write(w io.Writer, names []string, seqs [][]byte) error {
	if len(names) != len(seqs) {
		return fmt.Errorf("fasta: %d names but %d sequences", len(names), len(seqs))
	}
	bw := bufio.NewWriter(w)
	for i, name := range names {
		if _, err := fmt.Fprintf(bw, ">%s\n", name); err != nil {
			return fmt.Errorf("write FASTA header: %w", err)
		}
		seq := seqs[i]
		for len(seq) > 0 {
			n := wrapWidth
			if n > len(seq) {
				n = len(seq)
			}
			if _, err := bw.Write(seq[:n]); err != nil {
				return fmt.Errorf("write FASTA sequence: %w", err)
			}
			if err := bw.WriteByte('\n'); err != nil {
				return fmt.Errorf("write FASTA sequence: %w", err)
			}
			seq = seq[n:]
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flush FASTA output: %w", err)
	}
	return nil
}

// WriteGenome writes a reference genome as FASTA.
func WriteGenome(path string, g *genome.RefGenome) error {
	names := make([]string, g.Size())
	seqs := make([][]byte, g.Size())
	for i := range g.Chroms {
		names[i] = g.Chroms[i].Name
		seqs[i] = g.Chroms[i].Bases
	}
	return WriteFile(path, names, seqs)
}

// WriteVariant materialises every chromosome of a variant genome and
// writes them as FASTA.
func WriteVariant(path string, vg *genome.VarGenome) error {
	names := make([]string, len(vg.Chroms))
	seqs := make([][]byte, len(vg.Chroms))
	for i, vc := range vg.Chroms {
		names[i] = vc.Name
		seqs[i] = vc.Sequence()
	}
	return WriteFile(path, names, seqs)
}
