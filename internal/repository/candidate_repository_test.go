package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/govtalent/pool-admin-api/internal/models"
)

func candidateRow(id string) []driver.Value {
	now := time.Now()
	return []driver.Value{id, "pool-1", id + "@example.com", "Alex A", "NEW", nil, now, now}
}

func candidateRowColumns() []string {
	return []string{"id", "pool_id", "email", "full_name", "status", "notes", "submitted_at", "updated_at"}
}

func TestCandidateRepositoryListScopesByPoolAndStatus(t *testing.T) {
	db, mock, cleanup := newPoolRepoMock(t)
	defer cleanup()

	repo := NewCandidateRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM pool_candidates")).
		WithArgs("pool-1", "NEW", "QUALIFIED").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, pool_id, email")).
		WithArgs("pool-1", "NEW", "QUALIFIED").
		WillReturnRows(sqlmock.NewRows(candidateRowColumns()).
			AddRow(candidateRow("cand-1")...).
			AddRow(candidateRow("cand-2")...))

	list, total, err := repo.List(context.Background(), models.CandidateFilter{
		PoolID: "pool-1",
		Status: []models.CandidateStatus{models.CandidateStatusNew, models.CandidateStatusQualified},
	})
	require.NoError(t, err)
	require.Equal(t, 2, total)
	require.Len(t, list, 2)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCandidateRepositoryUpdateMissingRow(t *testing.T) {
	db, mock, cleanup := newPoolRepoMock(t)
	defer cleanup()

	repo := NewCandidateRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE pool_candidates SET status =")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &models.PoolCandidate{
		ID:     "cand-missing",
		Status: models.CandidateStatusScreenedIn,
	})
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCandidateRepositoryListAllOrdersBySubmission(t *testing.T) {
	db, mock, cleanup := newPoolRepoMock(t)
	defer cleanup()

	repo := NewCandidateRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY submitted_at ASC")).
		WithArgs("pool-1").
		WillReturnRows(sqlmock.NewRows(candidateRowColumns()).AddRow(candidateRow("cand-1")...))

	list, err := repo.ListAll(context.Background(), "pool-1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "cand-1", list[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}
