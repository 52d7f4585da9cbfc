package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"

	"dispatchopt/internal/model"
)

// Postgres stores one row per job, upserted on every transition.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(dsn string) (*Postgres, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	p := &Postgres{db: db}
	if err := p.ensureSchema(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Postgres) ensureSchema() error {
	_, err := p.db.Exec(`CREATE TABLE IF NOT EXISTS jobs (
		id uuid PRIMARY KEY,
		status text NOT NULL,
		progress int NOT NULL DEFAULT 0,
		strategy text NOT NULL,
		payload jsonb,
		result jsonb,
		error text,
		updated_at timestamptz NOT NULL DEFAULT now()
	)`)
	if err != nil {
		return fmt.Errorf("postgres: ensure schema: %w", err)
	}
	return nil
}

func (p *Postgres) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

func (p *Postgres) CreateJob(ctx context.Context, job model.Job) error {
	return p.upsert(ctx, job)
}

func (p *Postgres) UpdateJob(ctx context.Context, job model.Job) error {
	return p.upsert(ctx, job)
}

func (p *Postgres) upsert(ctx context.Context, job model.Job) error {
	payload, err := toJSON(job.Payload)
	if err != nil {
		return fmt.Errorf("postgres: encode payload for job %s: %w", job.ID, err)
	}
	result, err := toJSON(job.Result)
	if err != nil {
		return fmt.Errorf("postgres: encode result for job %s: %w", job.ID, err)
	}
	_, err = p.db.ExecContext(ctx, `INSERT INTO jobs (id, status, progress, strategy, payload, result, error, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,now())
		ON CONFLICT (id) DO UPDATE SET status=$2, progress=$3, strategy=$4, payload=$5, result=$6, error=$7, updated_at=now()`,
		job.ID, string(job.Status), job.Progress, job.Strategy, payload, result, nullIfEmpty(job.Error))
	if err != nil {
		return fmt.Errorf("postgres: upsert job %s: %w", job.ID, err)
	}
	return nil
}

func (p *Postgres) GetJob(ctx context.Context, id string) (model.Job, error) {
	row := p.db.QueryRowContext(ctx, `SELECT id::text, status, progress, strategy, payload, result, error FROM jobs WHERE id=$1`, id)
	var job model.Job
	var status string
	var payload, result []byte
	var errText sql.NullString
	if err := row.Scan(&job.ID, &status, &job.Progress, &job.Strategy, &payload, &result, &errText); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Job{}, ErrNotFound
		}
		return model.Job{}, fmt.Errorf("postgres: get job %s: %w", id, err)
	}
	job.Status = model.JobStatus(status)
	job.Error = errText.String
	if len(payload) > 0 {
		var pl model.OptimizeRequest
		if err := json.Unmarshal(payload, &pl); err == nil {
			job.Payload = &pl
		}
	}
	if len(result) > 0 {
		var res model.OptimizeResult
		if err := json.Unmarshal(result, &res); err == nil {
			job.Result = &res
		}
	}
	return job, nil
}

func (p *Postgres) CountJobs(ctx context.Context) (int, int, error) {
	row := p.db.QueryRowContext(ctx, `SELECT count(*), count(*) FILTER (WHERE status IN ('running','processing')) FROM jobs`)
	var total, active int
	if err := row.Scan(&total, &active); err != nil {
		return 0, 0, fmt.Errorf("postgres: count jobs: %w", err)
	}
	return total, active, nil
}

func toJSON(v any) (any, error) {
	switch x := v.(type) {
	case *model.OptimizeRequest:
		if x == nil {
			return nil, nil
		}
	case *model.OptimizeResult:
		if x == nil {
			return nil, nil
		}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
