package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/printdesk/labelpress/internal/core/domain"
)

type JobRepository struct {
	db *sql.DB
}

func NewJobRepository(db *sql.DB) *JobRepository {
	return &JobRepository{db: db}
}

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func (r *JobRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across api/worker startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026082901)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS merge_jobs (
	id TEXT PRIMARY KEY,
	label_path TEXT NOT NULL,
	slip_path TEXT NOT NULL,
	status TEXT NOT NULL,
	outputs JSONB NOT NULL DEFAULT '[]'::jsonb,
	failures JSONB NOT NULL DEFAULT '[]'::jsonb,
	manifest_path TEXT NOT NULL DEFAULT '',
	error_message TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_merge_jobs_status ON merge_jobs(status);
CREATE INDEX IF NOT EXISTS idx_merge_jobs_created_at ON merge_jobs(created_at DESC);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (r *JobRepository) Create(ctx context.Context, job *domain.MergeJob) error {
	outputsJSON, err := json.Marshal(emptyIfNilOutputs(job.Outputs))
	if err != nil {
		return fmt.Errorf("marshal outputs: %w", err)
	}
	failuresJSON, err := json.Marshal(emptyIfNilFailures(job.Failures))
	if err != nil {
		return fmt.Errorf("marshal failures: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO merge_jobs (
	id, label_path, slip_path, status, outputs, failures, manifest_path, error_message, created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
`,
		job.ID, job.LabelPath, job.SlipPath, string(job.Status), outputsJSON, failuresJSON,
		job.ManifestPath, job.Error, job.CreatedAt, job.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert merge job: %w", err)
	}
	return nil
}

func (r *JobRepository) GetByID(ctx context.Context, id string) (*domain.MergeJob, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, label_path, slip_path, status, outputs, failures, manifest_path, error_message, created_at, updated_at
FROM merge_jobs
WHERE id = $1
`, id)

	var job domain.MergeJob
	var outputsRaw, failuresRaw []byte
	var status string

	err := row.Scan(
		&job.ID, &job.LabelPath, &job.SlipPath, &status, &outputsRaw, &failuresRaw,
		&job.ManifestPath, &job.Error, &job.CreatedAt, &job.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrJobNotFound, "get merge job", fmt.Errorf("id=%s", id))
		}
		return nil, fmt.Errorf("scan merge job: %w", err)
	}

	if err := json.Unmarshal(outputsRaw, &job.Outputs); err != nil {
		return nil, fmt.Errorf("unmarshal outputs: %w", err)
	}
	if err := json.Unmarshal(failuresRaw, &job.Failures); err != nil {
		return nil, fmt.Errorf("unmarshal failures: %w", err)
	}
	job.Status = domain.JobStatus(status)
	return &job, nil
}

func (r *JobRepository) UpdateStatus(ctx context.Context, id string, status domain.JobStatus, errMessage string) error {
	result, err := r.db.ExecContext(ctx, `
UPDATE merge_jobs
SET status = $2, error_message = $3, updated_at = $4
WHERE id = $1
`, id, string(status), errMessage, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update merge job status: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update merge job rows affected: %w", err)
	}
	if rows == 0 {
		return domain.WrapError(domain.ErrJobNotFound, "update merge job status", fmt.Errorf("id=%s", id))
	}
	return nil
}

func (r *JobRepository) SaveOutputs(ctx context.Context, id string, outputs []domain.JobOutput, failures []domain.BulkFailure, manifestPath string) error {
	outputsJSON, err := json.Marshal(emptyIfNilOutputs(outputs))
	if err != nil {
		return fmt.Errorf("marshal outputs: %w", err)
	}
	failuresJSON, err := json.Marshal(emptyIfNilFailures(failures))
	if err != nil {
		return fmt.Errorf("marshal failures: %w", err)
	}

	result, err := r.db.ExecContext(ctx, `
UPDATE merge_jobs
SET outputs = $2, failures = $3, manifest_path = $4, updated_at = $5
WHERE id = $1
`, id, outputsJSON, failuresJSON, manifestPath, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save merge job outputs: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("save merge job outputs rows affected: %w", err)
	}
	if rows == 0 {
		return domain.WrapError(domain.ErrJobNotFound, "save merge job outputs", fmt.Errorf("id=%s", id))
	}
	return nil
}

func emptyIfNilOutputs(outputs []domain.JobOutput) []domain.JobOutput {
	if outputs == nil {
		return []domain.JobOutput{}
	}
	return outputs
}

func emptyIfNilFailures(failures []domain.BulkFailure) []domain.BulkFailure {
	if failures == nil {
		return []domain.BulkFailure{}
	}
	return failures
}
