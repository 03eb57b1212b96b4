package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// RunRecord is one finished import run in the local history database.
type RunRecord struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	SourceFile string
	Kind       string
	Mode       string
	DryRun     bool
	Total      int
	Success    int
	Skipped    int
	Errors     int
}

// RunError is one row-level failure captured during a run.
type RunError struct {
	RunID   string
	Message string
}

var ErrRunNotFound = errors.New("import run not found")

// SQLiteStore keeps the local import run history.
type SQLiteStore struct {
	db *sql.DB
}

func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.ensureSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) ensureSchema() error {
	const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	started_at TEXT NOT NULL,
	finished_at TEXT NOT NULL,
	source_file TEXT NOT NULL,
	kind TEXT NOT NULL,
	mode TEXT NOT NULL,
	dry_run INTEGER NOT NULL DEFAULT 0,
	total INTEGER NOT NULL CHECK(total >= 0),
	success INTEGER NOT NULL CHECK(success >= 0),
	skipped INTEGER NOT NULL CHECK(skipped >= 0),
	errors INTEGER NOT NULL CHECK(errors >= 0),
	created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE IF NOT EXISTS run_errors (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	message TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_run_errors_run_id ON run_errors(run_id);
`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// InsertRun stores one run with its error messages and returns the run ID.
func (s *SQLiteStore) InsertRun(record RunRecord, errorMessages []string) (string, error) {
	id := record.ID
	if id == "" {
		id = uuid.NewString()
	}

	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("begin transaction: %w", err)
	}

	const insertRun = `
INSERT INTO runs (
	id,
	started_at,
	finished_at,
	source_file,
	kind,
	mode,
	dry_run,
	total,
	success,
	skipped,
	errors
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`

	dryRun := 0
	if record.DryRun {
		dryRun = 1
	}
	if _, err := tx.Exec(
		insertRun,
		id,
		record.StartedAt.Format(time.RFC3339),
		record.FinishedAt.Format(time.RFC3339),
		record.SourceFile,
		record.Kind,
		record.Mode,
		dryRun,
		record.Total,
		record.Success,
		record.Skipped,
		record.Errors,
	); err != nil {
		_ = tx.Rollback()
		return "", fmt.Errorf("insert run: %w", err)
	}

	if len(errorMessages) > 0 {
		stmt, err := tx.Prepare(`INSERT INTO run_errors (run_id, message) VALUES (?, ?);`)
		if err != nil {
			_ = tx.Rollback()
			return "", fmt.Errorf("prepare error insert: %w", err)
		}
		defer stmt.Close()

		for _, message := range errorMessages {
			if _, err := stmt.Exec(id, message); err != nil {
				_ = tx.Rollback()
				return "", fmt.Errorf("insert run error: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit transaction: %w", err)
	}
	return id, nil
}

// ListRuns returns runs newest first, up to limit (0 means all).
func (s *SQLiteStore) ListRuns(limit int) ([]RunRecord, error) {
	query := `
SELECT
	id,
	started_at,
	finished_at,
	source_file,
	kind,
	mode,
	dry_run,
	total,
	success,
	skipped,
	errors
FROM runs
ORDER BY started_at DESC, id`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	query += ";"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	records := make([]RunRecord, 0, 32)
	for rows.Next() {
		var (
			record     RunRecord
			startedRaw string
			finishRaw  string
			dryRun     int
		)
		if err := rows.Scan(
			&record.ID,
			&startedRaw,
			&finishRaw,
			&record.SourceFile,
			&record.Kind,
			&record.Mode,
			&dryRun,
			&record.Total,
			&record.Success,
			&record.Skipped,
			&record.Errors,
		); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		record.DryRun = dryRun != 0

		record.StartedAt, err = time.Parse(time.RFC3339, startedRaw)
		if err != nil {
			return nil, fmt.Errorf("parse started_at %q: %w", startedRaw, err)
		}
		record.FinishedAt, err = time.Parse(time.RFC3339, finishRaw)
		if err != nil {
			return nil, fmt.Errorf("parse finished_at %q: %w", finishRaw, err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return records, nil
}

// RunErrors returns the stored error messages of one run.
func (s *SQLiteStore) RunErrors(runID string) ([]string, error) {
	var exists int
	err := s.db.QueryRow(`SELECT COUNT(1) FROM runs WHERE id = ?;`, runID).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("query run %s: %w", runID, err)
	}
	if exists == 0 {
		return nil, ErrRunNotFound
	}

	rows, err := s.db.Query(`SELECT message FROM run_errors WHERE run_id = ? ORDER BY id;`, runID)
	if err != nil {
		return nil, fmt.Errorf("query run errors: %w", err)
	}
	defer rows.Close()

	messages := make([]string, 0, 16)
	for rows.Next() {
		var message string
		if err := rows.Scan(&message); err != nil {
			return nil, fmt.Errorf("scan run error: %w", err)
		}
		messages = append(messages, message)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run errors: %w", err)
	}
	return messages, nil
}

// DeleteAllRuns clears the history, returning the number of removed runs.
func (s *SQLiteStore) DeleteAllRuns() (int64, error) {
	if _, err := s.db.Exec(`DELETE FROM run_errors;`); err != nil {
		return 0, fmt.Errorf("delete run errors: %w", err)
	}
	res, err := s.db.Exec(`DELETE FROM runs;`)
	if err != nil {
		return 0, fmt.Errorf("delete runs: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("read deleted row count: %w", err)
	}
	return rows, nil
}
