package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/govtalent/pool-admin-api/internal/models"
)

const exportJobColumns = `id, pool_id, format, status, file_path, error, requested_by, created_at, completed_at`

// ExportJobRepository persists background candidate-export jobs.
type ExportJobRepository struct {
	db *sqlx.DB
}

// NewExportJobRepository constructs the repository.
func NewExportJobRepository(db *sqlx.DB) *ExportJobRepository {
	return &ExportJobRepository{db: db}
}

// Create inserts a new pending job.
func (r *ExportJobRepository) Create(ctx context.Context, job *models.ExportJob) error {
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	if job.Status == "" {
		job.Status = models.ExportJobStatusPending
	}
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO export_jobs (id, pool_id, format, status, file_path, error, requested_by, created_at, completed_at)
	VALUES (:id, :pool_id, :format, :status, :file_path, :error, :requested_by, :created_at, :completed_at)`
	if _, err := r.db.NamedExecContext(ctx, query, job); err != nil {
		return fmt.Errorf("create export job: %w", err)
	}
	return nil
}

// GetByID fetches one job.
func (r *ExportJobRepository) GetByID(ctx context.Context, id string) (*models.ExportJob, error) {
	query := fmt.Sprintf("SELECT %s FROM export_jobs WHERE id = $1", exportJobColumns)
	var job models.ExportJob
	if err := r.db.GetContext(ctx, &job, query, id); err != nil {
		return nil, err
	}
	return &job, nil
}

// ListByPool returns the export history for one pool, latest first.
func (r *ExportJobRepository) ListByPool(ctx context.Context, poolID string) ([]models.ExportJob, error) {
	query := fmt.Sprintf("SELECT %s FROM export_jobs WHERE pool_id = $1 ORDER BY created_at DESC LIMIT 50", exportJobColumns)
	var jobs []models.ExportJob
	if err := r.db.SelectContext(ctx, &jobs, query, poolID); err != nil {
		return nil, fmt.Errorf("list export jobs: %w", err)
	}
	return jobs, nil
}

// SetRunning marks a pending job as picked up by a worker.
func (r *ExportJobRepository) SetRunning(ctx context.Context, id string) error {
	const query = `UPDATE export_jobs SET status = $1 WHERE id = $2 AND status = $3`
	result, err := r.db.ExecContext(ctx, query, models.ExportJobStatusRunning, id, models.ExportJobStatusPending)
	if err != nil {
		return fmt.Errorf("mark export job running: %w", err)
	}
	return requireRow(result)
}

// SetCompleted records the rendered file path.
func (r *ExportJobRepository) SetCompleted(ctx context.Context, id, filePath string, completedAt time.Time) error {
	const query = `UPDATE export_jobs SET status = $1, file_path = $2, completed_at = $3 WHERE id = $4`
	result, err := r.db.ExecContext(ctx, query, models.ExportJobStatusCompleted, filePath, completedAt, id)
	if err != nil {
		return fmt.Errorf("mark export job completed: %w", err)
	}
	return requireRow(result)
}

// SetFailed records the failure message.
func (r *ExportJobRepository) SetFailed(ctx context.Context, id, errMsg string, completedAt time.Time) error {
	const query = `UPDATE export_jobs SET status = $1, error = $2, completed_at = $3 WHERE id = $4`
	result, err := r.db.ExecContext(ctx, query, models.ExportJobStatusFailed, errMsg, completedAt, id)
	if err != nil {
		return fmt.Errorf("mark export job failed: %w", err)
	}
	return requireRow(result)
}
