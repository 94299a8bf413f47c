// Package store keeps snapshots of exported record sets in SQLite.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/williampepple1/fbref-stats/pkg/models"
)

// Store manages the snapshot database
type Store struct {
	db *sql.DB
}

// Run describes one stored snapshot
type Run struct {
	ID        int64
	Subject   string
	SourceURL string
	CreatedAt time.Time
	Rows      int
}

// Open opens or creates the database at path
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// sqlite serialises writers anyway
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// init creates the schema
func (s *Store) init() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			subject TEXT NOT NULL,
			source_url TEXT NOT NULL,
			created_at TEXT NOT NULL,
			row_count INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS cells (
			run_id INTEGER NOT NULL REFERENCES runs(id),
			row_index INTEGER NOT NULL,
			column_index INTEGER NOT NULL,
			column_name TEXT NOT NULL,
			value TEXT NOT NULL,
			numeric REAL,
			PRIMARY KEY (run_id, row_index, column_index)
		);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveSnapshot stores every cell of the set under a new run and returns its id
func (s *Store) SaveSnapshot(ctx context.Context, subject, sourceURL string, set *models.RecordSet, at time.Time) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (subject, source_url, created_at, row_count) VALUES (?, ?, ?, ?)`,
		subject, sourceURL, at.UTC().Format(time.RFC3339), set.Len())
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO cells (run_id, row_index, column_index, column_name, value, numeric) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range set.Records {
		for j, c := range set.Columns {
			v := r.Get(c)
			var num sql.NullFloat64
			if v.Numeric && !v.IsMissing() {
				num = sql.NullFloat64{Float64: v.Num, Valid: true}
			}
			if _, err := stmt.ExecContext(ctx, runID, i, j, c, v.String(), num); err != nil {
				return 0, fmt.Errorf("failed to insert cell: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit snapshot: %w", err)
	}
	return runID, nil
}

// LatestRun returns the most recent run for a subject
func (s *Store) LatestRun(ctx context.Context, subject string) (Run, error) {
	var run Run
	var created string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, subject, source_url, created_at, row_count FROM runs WHERE subject = ? ORDER BY id DESC LIMIT 1`,
		subject).Scan(&run.ID, &run.Subject, &run.SourceURL, &created, &run.Rows)
	if err != nil {
		return Run{}, err
	}
	run.CreatedAt, err = time.Parse(time.RFC3339, created)
	if err != nil {
		return Run{}, fmt.Errorf("bad created_at %q: %w", created, err)
	}
	return run, nil
}

// LoadSnapshot rebuilds the record set of a run
func (s *Store) LoadSnapshot(ctx context.Context, runID int64) (*models.RecordSet, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT row_index, column_index, column_name, value, numeric FROM cells WHERE run_id = ? ORDER BY row_index, column_index`,
		runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query cells: %w", err)
	}
	defer rows.Close()

	set := models.NewRecordSet(nil)
	for rows.Next() {
		var rowIdx, colIdx int
		var name, value string
		var num sql.NullFloat64
		if err := rows.Scan(&rowIdx, &colIdx, &name, &value, &num); err != nil {
			return nil, err
		}
		if rowIdx == 0 {
			set.AddColumn(name)
		}
		for len(set.Records) <= rowIdx {
			set.Records = append(set.Records, models.Record{})
		}
		if num.Valid {
			set.Records[rowIdx][name] = models.Number(num.Float64)
		} else {
			set.Records[rowIdx][name] = models.Text(value)
		}
	}
	return set, rows.Err()
}
