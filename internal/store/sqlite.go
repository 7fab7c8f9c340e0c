// Package store persists the pipeline's audit trail: one row per executed
// stage with its input/output counts, so any past seeding sheet can be
// traced back to the runs that produced it.
package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

// RunLog records stage executions in a local SQLite database.
type RunLog struct {
	db *sql.DB
}

// Open opens (or creates) the run log at the given path and configures WAL
// mode.
func Open(path string) (*RunLog, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, eris.Wrap(err, "store: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "store: exec %s", pragma)
		}
	}
	return &RunLog{db: db}, nil
}

const migration = `
CREATE TABLE IF NOT EXISTS stage_runs (
	id          TEXT PRIMARY KEY,
	stage       TEXT NOT NULL,
	status      TEXT NOT NULL DEFAULT 'running',
	records_in  INTEGER NOT NULL DEFAULT 0,
	records_out INTEGER NOT NULL DEFAULT 0,
	unresolved  INTEGER NOT NULL DEFAULT 0,
	error       TEXT,
	started_at  DATETIME NOT NULL,
	finished_at DATETIME
);

CREATE INDEX IF NOT EXISTS idx_stage_runs_stage ON stage_runs(stage);
CREATE INDEX IF NOT EXISTS idx_stage_runs_started_at ON stage_runs(started_at);
`

// Migrate creates the schema if needed.
func (l *RunLog) Migrate(ctx context.Context) error {
	_, err := l.db.ExecContext(ctx, migration)
	return eris.Wrap(err, "store: migrate")
}

// Close closes the underlying database.
func (l *RunLog) Close() error {
	return l.db.Close()
}

// StageRun is one recorded stage execution.
type StageRun struct {
	ID         string
	Stage      string
	Status     string
	RecordsIn  int
	RecordsOut int
	Unresolved int
	Error      string
	StartedAt  time.Time
	FinishedAt *time.Time
}

// Counts summarizes a finished stage.
type Counts struct {
	RecordsIn  int
	RecordsOut int
	Unresolved int
}

// Begin records the start of a stage and returns the run ID.
func (l *RunLog) Begin(ctx context.Context, stage string) (string, error) {
	id := uuid.New().String()
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO stage_runs (id, stage, status, started_at) VALUES (?, ?, 'running', ?)`,
		id, stage, time.Now().UTC(),
	)
	if err != nil {
		return "", eris.Wrap(err, "store: insert stage run")
	}
	return id, nil
}

// Finish marks a stage run complete or failed, with its counts.
func (l *RunLog) Finish(ctx context.Context, id string, counts Counts, runErr error) error {
	status := "complete"
	errText := ""
	if runErr != nil {
		status = "failed"
		errText = runErr.Error()
	}
	_, err := l.db.ExecContext(ctx,
		`UPDATE stage_runs
		 SET status = ?, records_in = ?, records_out = ?, unresolved = ?, error = ?, finished_at = ?
		 WHERE id = ?`,
		status, counts.RecordsIn, counts.RecordsOut, counts.Unresolved, errText, time.Now().UTC(), id,
	)
	return eris.Wrap(err, "store: finish stage run")
}

// Recent returns the most recent stage runs, newest first.
func (l *RunLog) Recent(ctx context.Context, limit int) ([]StageRun, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT id, stage, status, records_in, records_out, unresolved, COALESCE(error, ''), started_at, finished_at
		 FROM stage_runs
		 ORDER BY started_at DESC
		 LIMIT ?`, limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "store: query stage runs")
	}
	defer rows.Close()

	var runs []StageRun
	for rows.Next() {
		var run StageRun
		var finished sql.NullTime
		if err := rows.Scan(
			&run.ID, &run.Stage, &run.Status,
			&run.RecordsIn, &run.RecordsOut, &run.Unresolved,
			&run.Error, &run.StartedAt, &finished,
		); err != nil {
			return nil, eris.Wrap(err, "store: scan stage run")
		}
		if finished.Valid {
			run.FinishedAt = &finished.Time
		}
		runs = append(runs, run)
	}
	return runs, eris.Wrap(rows.Err(), "store: iterate stage runs")
}
