package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/govtalent/pool-admin-api/internal/models"
)

const candidateColumns = `id, pool_id, email, full_name, status, notes, submitted_at, updated_at`

// CandidateRepository persists pool applications.
type CandidateRepository struct {
	db *sqlx.DB
}

// NewCandidateRepository constructs the repository.
func NewCandidateRepository(db *sqlx.DB) *CandidateRepository {
	return &CandidateRepository{db: db}
}

// List returns candidates matching the filter plus the total count.
func (r *CandidateRepository) List(ctx context.Context, filter models.CandidateFilter) ([]models.PoolCandidate, int, error) {
	args := make([]interface{}, 0, 4)
	conditions := make([]string, 0, 3)

	if filter.PoolID != "" {
		args = append(args, filter.PoolID)
		conditions = append(conditions, fmt.Sprintf("pool_id = $%d", len(args)))
	}
	if len(filter.Status) > 0 {
		placeholders := make([]string, len(filter.Status))
		for i, status := range filter.Status {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		conditions = append(conditions, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		conditions = append(conditions, fmt.Sprintf("(full_name ILIKE $%d OR email ILIKE $%d)", len(args), len(args)))
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM pool_candidates"+where, args...); err != nil {
		return nil, 0, fmt.Errorf("count candidates: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	query := fmt.Sprintf("SELECT %s FROM pool_candidates%s ORDER BY submitted_at DESC LIMIT %d OFFSET %d", candidateColumns, where, limit, offset)

	var candidates []models.PoolCandidate
	if err := r.db.SelectContext(ctx, &candidates, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list candidates: %w", err)
	}
	return candidates, total, nil
}

// ListAll returns every candidate for a pool, used by exports.
func (r *CandidateRepository) ListAll(ctx context.Context, poolID string) ([]models.PoolCandidate, error) {
	query := fmt.Sprintf("SELECT %s FROM pool_candidates WHERE pool_id = $1 ORDER BY submitted_at ASC", candidateColumns)
	var candidates []models.PoolCandidate
	if err := r.db.SelectContext(ctx, &candidates, query, poolID); err != nil {
		return nil, fmt.Errorf("list all candidates: %w", err)
	}
	return candidates, nil
}

// GetByID fetches one candidate.
func (r *CandidateRepository) GetByID(ctx context.Context, id string) (*models.PoolCandidate, error) {
	query := fmt.Sprintf("SELECT %s FROM pool_candidates WHERE id = $1", candidateColumns)
	var candidate models.PoolCandidate
	if err := r.db.GetContext(ctx, &candidate, query, id); err != nil {
		return nil, err
	}
	return &candidate, nil
}

// Update persists status and notes changes.
func (r *CandidateRepository) Update(ctx context.Context, candidate *models.PoolCandidate) error {
	candidate.UpdatedAt = time.Now().UTC()
	const query = `UPDATE pool_candidates SET status = :status, notes = :notes, updated_at = :updated_at WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, candidate)
	if err != nil {
		return fmt.Errorf("update candidate: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check candidate update rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
