// Package archive persists applied mutations in DuckDB so a finished run
// can be queried per variant, chromosome, or event kind.
package archive

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/marcboeker/go-duckdb"

	"github.com/bioforge/genosim/internal/genome"
)

// Store manages a DuckDB connection holding the mutation archive.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates a DuckDB database at the given path. Use an
// empty string for an in-memory database.
func Open(path string) (*Store, error) {
	if path != "" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create archive directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for direct queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS mutations (
		variant VARCHAR,
		chrom VARCHAR,
		kind VARCHAR,
		ref_pos BIGINT,
		var_pos BIGINT,
		size_modifier BIGINT,
		bases VARCHAR
	)`)
	return err
}

// AppendVariant archives the full mutation log of every chromosome of
// one variant genome.
func (s *Store) AppendVariant(vg *genome.VarGenome) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin archive transaction: %w", err)
	}
	stmt, err := tx.Prepare(`INSERT INTO mutations
		(variant, chrom, kind, ref_pos, var_pos, size_modifier, bases)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("prepare archive insert: %w", err)
	}
	defer stmt.Close()

	for _, vc := range vg.Chroms {
		for _, m := range vc.Mutations() {
			kind := "sub"
			switch {
			case m.SizeModifier > 0:
				kind = "ins"
			case m.SizeModifier < 0:
				kind = "del"
			}
			if _, err := stmt.Exec(vg.Name, vc.Name, kind,
				m.OldPos, m.NewPos, m.SizeModifier, m.Bases); err != nil {
				tx.Rollback()
				return fmt.Errorf("archive mutation: %w", err)
			}
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit archive transaction: %w", err)
	}
	return nil
}

// Count returns the number of archived mutations, optionally filtered by
// variant name (empty string means all).
func (s *Store) Count(variant string) (int, error) {
	var (
		n   int
		err error
	)
	if variant == "" {
		err = s.db.QueryRow(`SELECT COUNT(*) FROM mutations`).Scan(&n)
	} else {
		err = s.db.QueryRow(`SELECT COUNT(*) FROM mutations WHERE variant = ?`, variant).Scan(&n)
	}
	if err != nil {
		return 0, fmt.Errorf("count archived mutations: %w", err)
	}
	return n, nil
}
