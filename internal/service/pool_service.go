package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/govtalent/pool-admin-api/internal/dto"
	"github.com/govtalent/pool-admin-api/internal/models"
	appErrors "github.com/govtalent/pool-admin-api/pkg/errors"
)

type poolRepository interface {
	List(ctx context.Context, filter models.PoolFilter) ([]models.Pool, int, error)
	GetByID(ctx context.Context, id string) (*models.Pool, error)
	Create(ctx context.Context, pool *models.Pool) error
	UpdateStatus(ctx context.Context, id string, from, to models.PoolStatus, publishedAt, archivedAt *time.Time) error
	UpdateClosingDate(ctx context.Context, id string, closingDate time.Time) error
	Delete(ctx context.Context, id string, status models.PoolStatus) error
}

type changeLogStore interface {
	ListByPool(ctx context.Context, poolID string, limit int) ([]models.PoolChangeLog, error)
}

// PoolService handles pool CRUD and the lifecycle actions. Section-scoped
// edits go through PoolEditorService instead.
type PoolService struct {
	repo       poolRepository
	changeLogs changeLogStore
	validator  *validator.Validate
	logger     *zap.Logger
	now        func() time.Time
	invalidate func(poolID string)
}

// PoolOption configures the pool service.
type PoolOption func(*PoolService)

// WithPoolClock injects a deterministic clock.
func WithPoolClock(now func() time.Time) PoolOption {
	return func(s *PoolService) {
		if now != nil {
			s.now = now
		}
	}
}

// WithChangeLogStore enables the change history endpoint.
func WithChangeLogStore(store changeLogStore) PoolOption {
	return func(s *PoolService) {
		s.changeLogs = store
	}
}

// WithSessionInvalidator registers a callback fired after every lifecycle
// transition so cached edit sessions refetch the record.
func WithSessionInvalidator(fn func(poolID string)) PoolOption {
	return func(s *PoolService) {
		s.invalidate = fn
	}
}

// NewPoolService constructs the pool service.
func NewPoolService(repo poolRepository, validate *validator.Validate, logger *zap.Logger, opts ...PoolOption) *PoolService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &PoolService{
		repo:      repo,
		validator: validate,
		logger:    logger,
		now:       time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(svc)
		}
	}
	return svc
}

// List returns pools and pagination metadata.
func (s *PoolService) List(ctx context.Context, query dto.PoolQuery) ([]models.Pool, *models.Pagination, error) {
	page := query.Page
	if page < 1 {
		page = 1
	}
	size := query.PageSize
	if size <= 0 {
		size = 20
	}
	filter := models.PoolFilter{
		Status:           query.Status,
		ClassificationID: query.ClassificationID,
		DepartmentID:     query.DepartmentID,
		Search:           query.Search,
		Limit:            size,
		Offset:           (page - 1) * size,
	}
	pools, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list pools")
	}
	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: total}
	return pools, pagination, nil
}

// Get returns one pool.
func (s *PoolService) Get(ctx context.Context, id string) (*models.Pool, error) {
	pool, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "pool not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load pool")
	}
	return pool, nil
}

// ListChangeLogs returns the audit trail of published-record edits.
func (s *PoolService) ListChangeLogs(ctx context.Context, poolID string, limit int) ([]models.PoolChangeLog, error) {
	if s.changeLogs == nil {
		return nil, appErrors.Clone(appErrors.ErrInternal, "change log store not configured")
	}
	if _, err := s.Get(ctx, poolID); err != nil {
		return nil, err
	}
	logs, err := s.changeLogs.ListByPool(ctx, poolID, limit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list change logs")
	}
	return logs, nil
}

// Create seeds a new draft pool. Everything beyond the name is filled in
// section by section afterwards.
func (s *PoolService) Create(ctx context.Context, req dto.CreatePoolRequest) (*models.Pool, error) {
	if req.Name.IsEmpty() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "name is required")
	}
	pool := &models.Pool{
		ID:               uuid.NewString(),
		Name:             req.Name,
		ClassificationID: req.ClassificationID,
		DepartmentID:     req.DepartmentID,
		Status:           models.PoolStatusDraft,
	}
	if err := s.repo.Create(ctx, pool); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create pool")
	}
	return pool, nil
}

// Publish moves a draft pool live. Every required section must be complete
// before the transition is attempted.
func (s *PoolService) Publish(ctx context.Context, id string) (*models.Pool, error) {
	pool, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if pool.Status != models.PoolStatusDraft {
		return nil, lifecycleError(pool.Status, "publish")
	}
	if blockers := requiredSectionBlockers(pool); len(blockers) > 0 {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, fmt.Sprintf("incomplete required sections: %s", joinSectionIDs(blockers)))
	}
	now := s.now().UTC()
	return s.transition(ctx, pool, models.PoolStatusPublished, &now, nil)
}

// Close stops accepting applications.
func (s *PoolService) Close(ctx context.Context, id string) (*models.Pool, error) {
	pool, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if pool.Status != models.PoolStatusPublished {
		return nil, lifecycleError(pool.Status, "close")
	}
	return s.transition(ctx, pool, models.PoolStatusClosed, nil, nil)
}

// Extend pushes the closing date forward. Only the closing date changes;
// the lifecycle status is untouched.
func (s *PoolService) Extend(ctx context.Context, id string, req dto.ExtendPoolRequest) (*models.Pool, error) {
	pool, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if pool.Status != models.PoolStatusPublished && pool.Status != models.PoolStatusClosed {
		return nil, lifecycleError(pool.Status, "extend")
	}
	closing := req.ClosingDate.UTC()
	if err := s.repo.UpdateClosingDate(ctx, id, closing); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "pool not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to extend pool")
	}
	pool.ClosingDate = &closing
	s.invalidateSessions(id)
	return pool, nil
}

// Archive retires a closed pool.
func (s *PoolService) Archive(ctx context.Context, id string) (*models.Pool, error) {
	pool, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if pool.Status != models.PoolStatusClosed {
		return nil, lifecycleError(pool.Status, "archive")
	}
	now := s.now().UTC()
	return s.transition(ctx, pool, models.PoolStatusArchived, nil, &now)
}

// Unarchive restores an archived pool to closed.
func (s *PoolService) Unarchive(ctx context.Context, id string) (*models.Pool, error) {
	pool, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if pool.Status != models.PoolStatusArchived {
		return nil, lifecycleError(pool.Status, "unarchive")
	}
	return s.transition(ctx, pool, models.PoolStatusClosed, pool.PublishedAt, nil)
}

// Delete removes a pool. Only drafts may be deleted; anything published
// once stays on the record.
func (s *PoolService) Delete(ctx context.Context, id string) error {
	pool, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if pool.Status != models.PoolStatusDraft {
		return lifecycleError(pool.Status, "delete")
	}
	if err := s.repo.Delete(ctx, id, models.PoolStatusDraft); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrConflict, "pool is no longer a draft")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete pool")
	}
	s.invalidateSessions(id)
	return nil
}

// Duplicate creates a new draft carrying a deep copy of every field group
// of the source pool. The copy gets its own identity and starts its
// lifecycle from scratch regardless of the source's status.
func (s *PoolService) Duplicate(ctx context.Context, id string) (*models.Pool, error) {
	source, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	clone := source.Clone()
	clone.ID = uuid.NewString()
	clone.Status = models.PoolStatusDraft
	clone.PublishedAt = nil
	clone.ArchivedAt = nil
	clone.CreatedAt = time.Time{}
	clone.UpdatedAt = time.Time{}
	if err := s.repo.Create(ctx, clone); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to duplicate pool")
	}
	return clone, nil
}

// transition applies a conditional status change. The repository refuses
// the update when the row is no longer in the expected status, which
// surfaces as a conflict here.
func (s *PoolService) transition(ctx context.Context, pool *models.Pool, to models.PoolStatus, publishedAt, archivedAt *time.Time) (*models.Pool, error) {
	if err := s.repo.UpdateStatus(ctx, pool.ID, pool.Status, to, publishedAt, archivedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrConflict, "pool status changed concurrently")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update pool status")
	}
	s.logger.Info("pool lifecycle transition",
		zap.String("pool_id", pool.ID),
		zap.String("from", string(pool.Status)),
		zap.String("to", string(to)))
	pool.Status = to
	if publishedAt != nil {
		pool.PublishedAt = publishedAt
	}
	if to == models.PoolStatusArchived {
		pool.ArchivedAt = archivedAt
	} else {
		pool.ArchivedAt = nil
	}
	s.invalidateSessions(pool.ID)
	return pool, nil
}

func (s *PoolService) invalidateSessions(poolID string) {
	if s.invalidate != nil {
		s.invalidate(poolID)
	}
}

func lifecycleError(status models.PoolStatus, action string) error {
	return appErrors.Clone(appErrors.ErrLifecycle, fmt.Sprintf("cannot %s a %s pool", action, status))
}

func joinSectionIDs(ids []models.SectionID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = string(id)
	}
	return strings.Join(parts, ", ")
}
