// Package store keeps a history of analysis runs in a SQLite database.
package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/KaramelBytes/cosmochem-cli/internal/analysis"
	_ "github.com/mattn/go-sqlite3"
)

// Run is one recorded analysis run.
type Run struct {
	ID        string
	Timestamp string
	Source    string
	Records   int
	ResultDir string
	CreatedAt time.Time
}

// Store wraps the history database.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	stamp TEXT,
	source TEXT,
	records INTEGER,
	result_dir TEXT,
	created_at DATETIME
);
CREATE TABLE IF NOT EXISTS chemical_counts (
	run_id TEXT,
	chemical TEXT,
	count INTEGER
);
CREATE TABLE IF NOT EXISTS company_stats (
	run_id TEXT,
	company TEXT,
	products INTEGER,
	chemicals INTEGER
);
`

// Open opens (creating if needed) the database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }

// RecordRun stores a run with its chemical counts and company stats in one
// transaction. Recording the same run id again replaces the earlier rows.
func (s *Store) RecordRun(run Run, chemicals []analysis.Count, companies []analysis.CompanyStat) error {
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	for _, q := range []string{`DELETE FROM chemical_counts WHERE run_id = ?`, `DELETE FROM company_stats WHERE run_id = ?`} {
		if _, err := tx.Exec(q, run.ID); err != nil {
			return fmt.Errorf("clear previous rows: %w", err)
		}
	}
	if _, err := tx.Exec(`INSERT OR REPLACE INTO runs (id, stamp, source, records, result_dir, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, run.Timestamp, run.Source, run.Records, run.ResultDir, run.CreatedAt); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	chem, err := tx.Prepare(`INSERT INTO chemical_counts (run_id, chemical, count) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare chemical_counts: %w", err)
	}
	defer chem.Close()
	for _, c := range chemicals {
		if _, err := chem.Exec(run.ID, c.Value, c.N); err != nil {
			return fmt.Errorf("insert chemical %q: %w", c.Value, err)
		}
	}
	comp, err := tx.Prepare(`INSERT INTO company_stats (run_id, company, products, chemicals) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare company_stats: %w", err)
	}
	defer comp.Close()
	for _, c := range companies {
		if _, err := comp.Exec(run.ID, c.Company, c.Products, c.Chemicals); err != nil {
			return fmt.Errorf("insert company %q: %w", c.Company, err)
		}
	}
	return tx.Commit()
}

// ListRuns returns all runs, newest first.
func (s *Store) ListRuns() ([]Run, error) {
	rows, err := s.db.Query(`SELECT id, stamp, source, records, result_dir, created_at FROM runs ORDER BY created_at DESC, stamp DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Timestamp, &r.Source, &r.Records, &r.ResultDir, &r.CreatedAt); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// ChemicalCounts returns the stored chemical counts of a run, most frequent first.
func (s *Store) ChemicalCounts(runID string) ([]analysis.Count, error) {
	rows, err := s.db.Query(`SELECT chemical, count FROM chemical_counts WHERE run_id = ? ORDER BY count DESC, chemical ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []analysis.Count
	for rows.Next() {
		var c analysis.Count
		if err := rows.Scan(&c.Value, &c.N); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
