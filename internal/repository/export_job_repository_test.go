package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/govtalent/pool-admin-api/internal/models"
)

func TestExportJobRepositoryCreateSeedsDefaults(t *testing.T) {
	db, mock, cleanup := newPoolRepoMock(t)
	defer cleanup()

	repo := NewExportJobRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO export_jobs")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	job := &models.ExportJob{PoolID: "pool-1", Format: models.ExportFormatCSV, RequestedBy: "user-1"}
	require.NoError(t, repo.Create(context.Background(), job))
	require.NotEmpty(t, job.ID)
	require.Equal(t, models.ExportJobStatusPending, job.Status)
	require.False(t, job.CreatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExportJobRepositorySetRunningOnlyFromPending(t *testing.T) {
	db, mock, cleanup := newPoolRepoMock(t)
	defer cleanup()

	repo := NewExportJobRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE export_jobs SET status = $1 WHERE id = $2 AND status = $3")).
		WithArgs("RUNNING", "job-1", "PENDING").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.SetRunning(context.Background(), "job-1"))

	mock.ExpectExec(regexp.QuoteMeta("UPDATE export_jobs SET status = $1 WHERE id = $2 AND status = $3")).
		WithArgs("RUNNING", "job-1", "PENDING").
		WillReturnResult(sqlmock.NewResult(0, 0))
	require.ErrorIs(t, repo.SetRunning(context.Background(), "job-1"), sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExportJobRepositorySetCompleted(t *testing.T) {
	db, mock, cleanup := newPoolRepoMock(t)
	defer cleanup()

	repo := NewExportJobRepository(db)
	completedAt := time.Now().UTC()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE export_jobs SET status = $1, file_path = $2")).
		WithArgs("COMPLETED", "exports/candidates_pool-1.csv", completedAt, "job-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.SetCompleted(context.Background(), "job-1", "exports/candidates_pool-1.csv", completedAt))
	require.NoError(t, mock.ExpectationsWereMet())
}
