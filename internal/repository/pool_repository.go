package repository

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/govtalent/pool-admin-api/internal/models"
)

const poolColumns = `id, name, classification_id, department_id, process_number, closing_date,
       language_requirement, security_clearance, location, your_impact, key_tasks,
       what_to_expect, special_note, essential_skill_ids, asset_skill_ids,
       status, published_at, archived_at, created_at, updated_at`

// poolSectionColumns is the allowlist of columns a section save may touch.
// Anything else in a changes map is a programming error and is refused
// before the query is built.
var poolSectionColumns = map[string]struct{}{
	"name":                 {},
	"classification_id":    {},
	"department_id":        {},
	"process_number":       {},
	"closing_date":         {},
	"language_requirement": {},
	"security_clearance":   {},
	"location":             {},
	"your_impact":          {},
	"key_tasks":            {},
	"what_to_expect":       {},
	"special_note":         {},
	"essential_skill_ids":  {},
	"asset_skill_ids":      {},
}

// PoolRepository persists recruitment pools.
type PoolRepository struct {
	db *sqlx.DB
}

// NewPoolRepository constructs the repository.
func NewPoolRepository(db *sqlx.DB) *PoolRepository {
	return &PoolRepository{db: db}
}

// Create inserts a new pool row.
func (r *PoolRepository) Create(ctx context.Context, pool *models.Pool) error {
	if pool.ID == "" {
		pool.ID = uuid.NewString()
	}
	if pool.Status == "" {
		pool.Status = models.PoolStatusDraft
	}
	now := time.Now().UTC()
	if pool.CreatedAt.IsZero() {
		pool.CreatedAt = now
	}
	pool.UpdatedAt = now
	const query = `INSERT INTO pools
	(id, name, classification_id, department_id, process_number, closing_date,
	 language_requirement, security_clearance, location, your_impact, key_tasks,
	 what_to_expect, special_note, essential_skill_ids, asset_skill_ids,
	 status, published_at, archived_at, created_at, updated_at)
	VALUES (:id, :name, :classification_id, :department_id, :process_number, :closing_date,
	 :language_requirement, :security_clearance, :location, :your_impact, :key_tasks,
	 :what_to_expect, :special_note, :essential_skill_ids, :asset_skill_ids,
	 :status, :published_at, :archived_at, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, pool); err != nil {
		return fmt.Errorf("create pool: %w", err)
	}
	return nil
}

// GetByID fetches a pool by identifier.
func (r *PoolRepository) GetByID(ctx context.Context, id string) (*models.Pool, error) {
	query := fmt.Sprintf(`SELECT %s FROM pools WHERE id = $1`, poolColumns)
	var pool models.Pool
	if err := r.db.GetContext(ctx, &pool, query, id); err != nil {
		return nil, err
	}
	return &pool, nil
}

// List returns pools matching the filter plus the total count.
func (r *PoolRepository) List(ctx context.Context, filter models.PoolFilter) ([]models.Pool, int, error) {
	args := make([]interface{}, 0, 6)
	conditions := make([]string, 0, 4)

	if len(filter.Status) > 0 {
		placeholders := make([]string, len(filter.Status))
		for i, status := range filter.Status {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		conditions = append(conditions, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.ClassificationID != "" {
		args = append(args, filter.ClassificationID)
		conditions = append(conditions, fmt.Sprintf("classification_id = $%d", len(args)))
	}
	if filter.DepartmentID != "" {
		args = append(args, filter.DepartmentID)
		conditions = append(conditions, fmt.Sprintf("department_id = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		conditions = append(conditions, fmt.Sprintf("(name->>'en' ILIKE $%d OR name->>'fr' ILIKE $%d)", len(args), len(args)))
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM pools" + where
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count pools: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	query := fmt.Sprintf("SELECT %s FROM pools%s ORDER BY updated_at DESC LIMIT %d OFFSET %d", poolColumns, where, limit, offset)

	var pools []models.Pool
	if err := r.db.SelectContext(ctx, &pools, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list pools: %w", err)
	}
	return pools, total, nil
}

// UpdateSection applies a partial update limited to one section's columns.
// The update is conditional on the row still being a draft: content changes
// to a published pool must go through UpdatePublishedSection so the
// justification is recorded, and a session holding a stale draft copy must
// not slip past that gate.
func (r *PoolRepository) UpdateSection(ctx context.Context, id string, changes map[string]interface{}) error {
	query, args, err := buildSectionUpdate(id, changes, models.PoolStatusDraft)
	if err != nil {
		return err
	}
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update pool section: %w", err)
	}
	return requireRow(result)
}

// UpdatePublishedSection applies a partial update to a published pool and
// records the change-log entry in the same transaction. The update is
// conditional on the row still being published; a lifecycle change that
// raced the save rolls the whole thing back.
func (r *PoolRepository) UpdatePublishedSection(ctx context.Context, id string, changes map[string]interface{}, entry *models.PoolChangeLog) error {
	query, args, err := buildSectionUpdate(id, changes, models.PoolStatusPublished)
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin published update: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update published pool section: %w", err)
	}
	if err := requireRow(result); err != nil {
		return err
	}

	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	const logQuery = `INSERT INTO pool_change_logs
	(id, pool_id, section, changes, justification, created_by, created_at)
	VALUES (:id, :pool_id, :section, :changes, :justification, :created_by, :created_at)`
	if _, err := tx.NamedExecContext(ctx, logQuery, entry); err != nil {
		return fmt.Errorf("insert pool change log: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit published update: %w", err)
	}
	return nil
}

// UpdateStatus performs a conditional lifecycle transition. The update only
// lands when the row still carries the expected current status.
func (r *PoolRepository) UpdateStatus(ctx context.Context, id string, from, to models.PoolStatus, publishedAt, archivedAt *time.Time) error {
	const query = `UPDATE pools
	SET status = $1,
	    published_at = COALESCE($2, published_at),
	    archived_at = $3,
	    updated_at = NOW()
	WHERE id = $4 AND status = $5`
	result, err := r.db.ExecContext(ctx, query, to, publishedAt, archivedAt, id, from)
	if err != nil {
		return fmt.Errorf("update pool status: %w", err)
	}
	return requireRow(result)
}

// UpdateClosingDate pushes the closing date without touching the status.
func (r *PoolRepository) UpdateClosingDate(ctx context.Context, id string, closingDate time.Time) error {
	const query = `UPDATE pools SET closing_date = $1, updated_at = NOW() WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, closingDate, id)
	if err != nil {
		return fmt.Errorf("update pool closing date: %w", err)
	}
	return requireRow(result)
}

// Delete removes a pool, conditional on its current status.
func (r *PoolRepository) Delete(ctx context.Context, id string, status models.PoolStatus) error {
	const query = `DELETE FROM pools WHERE id = $1 AND status = $2`
	result, err := r.db.ExecContext(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("delete pool: %w", err)
	}
	return requireRow(result)
}

func buildSectionUpdate(id string, changes map[string]interface{}, requireStatus models.PoolStatus) (string, []interface{}, error) {
	if len(changes) == 0 {
		return "", nil, fmt.Errorf("empty section update for pool %s", id)
	}
	columns := make([]string, 0, len(changes))
	for column := range changes {
		if _, ok := poolSectionColumns[column]; !ok {
			return "", nil, fmt.Errorf("column %q not updatable through sections", column)
		}
		columns = append(columns, column)
	}
	// Deterministic order keeps queries stable for logging and tests.
	sort.Strings(columns)

	args := make([]interface{}, 0, len(columns)+2)
	setParts := make([]string, 0, len(columns)+1)
	for _, column := range columns {
		args = append(args, changes[column])
		setParts = append(setParts, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	setParts = append(setParts, "updated_at = NOW()")

	args = append(args, id)
	query := fmt.Sprintf("UPDATE pools SET %s WHERE id = $%d", strings.Join(setParts, ", "), len(args))
	if requireStatus != "" {
		args = append(args, requireStatus)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	return query, args, nil
}

func requireRow(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check affected rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
