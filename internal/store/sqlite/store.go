package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"formicarium/internal/domain"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	seed INTEGER NOT NULL,
	ants INTEGER NOT NULL,
	morsels INTEGER NOT NULL,
	total_supply INTEGER NOT NULL,
	status TEXT NOT NULL,
	generations INTEGER NOT NULL DEFAULT 0,
	stored INTEGER NOT NULL DEFAULT 0,
	started_at INTEGER NOT NULL,
	finished_at INTEGER NULL
);

CREATE TABLE IF NOT EXISTS run_samples (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id TEXT NOT NULL,
	generation INTEGER NOT NULL,
	stored INTEGER NOT NULL,
	trails INTEGER NOT NULL,
	foraging INTEGER NOT NULL,
	carrying INTEGER NOT NULL,
	created_at INTEGER NOT NULL,
	FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS idx_run_samples_run ON run_samples(run_id, generation);
`

type Store struct {
	db *sql.DB
}

func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, stmt := range pragmas {
		if _, err := db.Exec(stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("set sqlite pragma %q: %w", stmt, err)
		}
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}

func (s *Store) CreateRun(ctx context.Context, run domain.Run) error {
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now().UTC()
	}
	if run.Status == "" {
		run.Status = domain.RunStatusRunning
	}

	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO runs(
			id, seed, ants, morsels, total_supply, status, generations, stored, started_at, finished_at
		) VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Seed, run.Ants, run.Morsels, run.TotalSupply, string(run.Status),
		run.Generations, run.Stored, run.StartedAt.Unix(), nullableUnix(run.FinishedAt),
	)
	if err != nil {
		return fmt.Errorf("create run: %w", err)
	}
	return nil
}

func (s *Store) FinishRun(ctx context.Context, runID string, status domain.RunStatus, generations uint64, stored uint64, finishedAt time.Time) error {
	_, err := s.db.ExecContext(
		ctx,
		`UPDATE runs SET status = ?, generations = ?, stored = ?, finished_at = ? WHERE id = ?`,
		string(status), generations, stored, finishedAt.UTC().Unix(), runID,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	return nil
}

func (s *Store) GetRun(ctx context.Context, runID string) (domain.Run, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT id, seed, ants, morsels, total_supply, status, generations, stored, started_at, finished_at
		FROM runs WHERE id = ?`,
		runID,
	)
	var r domain.Run
	var status string
	var started int64
	var finished sql.NullInt64
	if err := row.Scan(
		&r.ID, &r.Seed, &r.Ants, &r.Morsels, &r.TotalSupply, &status,
		&r.Generations, &r.Stored, &started, &finished,
	); err != nil {
		return domain.Run{}, fmt.Errorf("get run: %w", err)
	}
	r.Status = domain.RunStatus(status)
	r.StartedAt = unixToTime(started)
	r.FinishedAt = int64ToTimePtr(finished)
	return r, nil
}

func (s *Store) ListRuns(ctx context.Context) ([]domain.Run, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, seed, ants, morsels, total_supply, status, generations, stored, started_at, finished_at
		FROM runs ORDER BY started_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	result := make([]domain.Run, 0)
	for rows.Next() {
		var r domain.Run
		var status string
		var started int64
		var finished sql.NullInt64
		if err := rows.Scan(
			&r.ID, &r.Seed, &r.Ants, &r.Morsels, &r.TotalSupply, &status,
			&r.Generations, &r.Stored, &started, &finished,
		); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.Status = domain.RunStatus(status)
		r.StartedAt = unixToTime(started)
		r.FinishedAt = int64ToTimePtr(finished)
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return result, nil
}

func (s *Store) AppendSample(ctx context.Context, sample domain.Sample) error {
	if sample.CreatedAt.IsZero() {
		sample.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO run_samples(run_id, generation, stored, trails, foraging, carrying, created_at)
		VALUES(?, ?, ?, ?, ?, ?, ?)`,
		sample.RunID, sample.Generation, sample.Stored, sample.Trails,
		sample.Foraging, sample.Carrying, sample.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("append sample: %w", err)
	}
	return nil
}

func (s *Store) ListRunSamples(ctx context.Context, runID string, limit int) ([]domain.Sample, error) {
	if limit <= 0 {
		limit = 500
	}
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, run_id, generation, stored, trails, foraging, carrying, created_at
		FROM run_samples
		WHERE run_id = ?
		ORDER BY generation ASC
		LIMIT ?`,
		runID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list run samples: %w", err)
	}
	defer rows.Close()

	result := make([]domain.Sample, 0, limit)
	for rows.Next() {
		var sample domain.Sample
		var created int64
		if err := rows.Scan(
			&sample.ID, &sample.RunID, &sample.Generation, &sample.Stored,
			&sample.Trails, &sample.Foraging, &sample.Carrying, &created,
		); err != nil {
			return nil, fmt.Errorf("scan sample: %w", err)
		}
		sample.CreatedAt = unixToTime(created)
		result = append(result, sample)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate samples: %w", err)
	}
	return result, nil
}

func int64ToTimePtr(v sql.NullInt64) *time.Time {
	if !v.Valid || v.Int64 <= 0 {
		return nil
	}
	t := time.Unix(v.Int64, 0).UTC()
	return &t
}

func unixToTime(v int64) time.Time {
	return time.Unix(v, 0).UTC()
}

func nullableUnix(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Unix()
}
