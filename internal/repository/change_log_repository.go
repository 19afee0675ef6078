package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/govtalent/pool-admin-api/internal/models"
)

// ChangeLogRepository reads the audit trail written by published-record
// section updates. Writes happen inside PoolRepository's transaction.
type ChangeLogRepository struct {
	db *sqlx.DB
}

// NewChangeLogRepository constructs the repository.
func NewChangeLogRepository(db *sqlx.DB) *ChangeLogRepository {
	return &ChangeLogRepository{db: db}
}

// ListByPool returns the change history for one pool, latest first.
func (r *ChangeLogRepository) ListByPool(ctx context.Context, poolID string, limit int) ([]models.PoolChangeLog, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	query := fmt.Sprintf(`SELECT id, pool_id, section, changes, justification, created_by, created_at
	FROM pool_change_logs WHERE pool_id = $1 ORDER BY created_at DESC LIMIT %d`, limit)
	var logs []models.PoolChangeLog
	if err := r.db.SelectContext(ctx, &logs, query, poolID); err != nil {
		return nil, fmt.Errorf("list pool change logs: %w", err)
	}
	return logs, nil
}
