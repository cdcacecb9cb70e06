// Package storage provides SQLite-based persistence for loop run history.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// End reasons recorded for a run.
const (
	EndQuit          = "quit"
	EndRenderFailure = "render-failure"
)

// Store manages the SQLite database connection for run history.
type Store struct {
	db *sql.DB
}

// Run is one execution of the frame loop.
type Run struct {
	ID         int64
	Backend    string
	FrameRate  float64 // Configured target rate
	IntervalMS int64   // Derived frame interval
	Frames     uint64  // Executed frames
	Skipped    uint64  // Throttled iterations
	EndReason  string  // Empty while the run is in progress
	AvgFPS     float64 // Mean of the per-second samples, 0 if none
	Samples    int
	StartedAt  time.Time
	EndedAt    time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	// SQLite allows a single writer; serialize access across sessions.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			backend TEXT NOT NULL,
			frame_rate REAL NOT NULL,
			interval_ms INTEGER NOT NULL,
			frames INTEGER NOT NULL DEFAULT 0,
			skipped INTEGER NOT NULL DEFAULT 0,
			end_reason TEXT,
			started_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			ended_at DATETIME
		);

		CREATE TABLE IF NOT EXISTS rate_samples (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id INTEGER NOT NULL REFERENCES runs(id),
			fps INTEGER NOT NULL,
			recorded_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_rate_samples_run ON rate_samples(run_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// StartRun records the start of a run and returns its ID.
func (s *Store) StartRun(backend string, frameRate float64, interval time.Duration) (int64, error) {
	result, err := s.db.Exec(
		"INSERT INTO runs (backend, frame_rate, interval_ms) VALUES (?, ?, ?)",
		backend, frameRate, interval.Milliseconds(),
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot start run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}
	return id, nil
}

// RecordRate stores one per-second frame count for a run.
func (s *Store) RecordRate(runID int64, fps int) error {
	_, err := s.db.Exec(
		"INSERT INTO rate_samples (run_id, fps) VALUES (?, ?)",
		runID, fps,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot record rate: %w", err)
	}
	return nil
}

// FinishRun stores the final counters of a run.
func (s *Store) FinishRun(runID int64, frames, skipped uint64, reason string) error {
	res, err := s.db.Exec(
		`UPDATE runs
		 SET frames = ?, skipped = ?, end_reason = ?, ended_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		int64(frames), int64(skipped), reason, runID,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot finish run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("storage: unknown run %d", runID)
	}
	return nil
}

// RecentRuns retrieves the most recent runs, newest first.
func (s *Store) RecentRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT r.id, r.backend, r.frame_rate, r.interval_ms, r.frames, r.skipped,
		        r.end_reason, r.started_at, r.ended_at,
		        COALESCE(AVG(rs.fps), 0), COUNT(rs.id)
		 FROM runs r
		 LEFT JOIN rate_samples rs ON rs.run_id = r.id
		 GROUP BY r.id
		 ORDER BY r.id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var frames, skipped int64
		var reason sql.NullString
		var startedAt, endedAt any
		if err := rows.Scan(
			&r.ID, &r.Backend, &r.FrameRate, &r.IntervalMS, &frames, &skipped,
			&reason, &startedAt, &endedAt, &r.AvgFPS, &r.Samples,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}

		r.Frames = uint64(frames)
		r.Skipped = uint64(skipped)
		if reason.Valid {
			r.EndReason = reason.String
		}
		r.StartedAt = parseTime(startedAt)
		r.EndedAt = parseTime(endedAt)
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return runs, nil
}

// RateSamples returns the per-second frame counts of a run in recording order.
func (s *Store) RateSamples(runID int64) ([]int, error) {
	rows, err := s.db.Query(
		"SELECT fps FROM rate_samples WHERE run_id = ? ORDER BY id",
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query rate samples: %w", err)
	}
	defer rows.Close()

	var samples []int
	for rows.Next() {
		var fps int
		if err := rows.Scan(&fps); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		samples = append(samples, fps)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return samples, nil
}

// parseTime handles DATETIME values returned either as time.Time or as text.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
