package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/govtalent/pool-admin-api/internal/dto"
	"github.com/govtalent/pool-admin-api/internal/models"
	appErrors "github.com/govtalent/pool-admin-api/pkg/errors"
)

type editorPoolStore interface {
	GetByID(ctx context.Context, id string) (*models.Pool, error)
	UpdateSection(ctx context.Context, id string, changes map[string]interface{}) error
	UpdatePublishedSection(ctx context.Context, id string, changes map[string]interface{}, entry *models.PoolChangeLog) error
}

// PoolEditorService orchestrates the multi-section edit page: it fetches
// the record once per session, hands each section its own toggle
// controller, dispatches scoped saves through the plain or the
// published-update path, and keeps the cached record and derived statuses
// coherent after every successful save.
type PoolEditorService struct {
	repo    editorPoolStore
	logger  *zap.Logger
	metrics *MetricsService

	bindings []sectionBinding
	byID     map[models.SectionID]sectionBinding

	mu         sync.Mutex
	sessions   map[string]*editSession
	sessionTTL time.Duration
	now        func() time.Time
}

// PoolEditorOption configures the editor service.
type PoolEditorOption func(*PoolEditorService)

// WithEditorClock injects a deterministic clock.
func WithEditorClock(now func() time.Time) PoolEditorOption {
	return func(s *PoolEditorService) {
		if now != nil {
			s.now = now
		}
	}
}

// WithEditorSessionTTL overrides how long idle sessions are retained.
func WithEditorSessionTTL(ttl time.Duration) PoolEditorOption {
	return func(s *PoolEditorService) {
		if ttl > 0 {
			s.sessionTTL = ttl
		}
	}
}

// WithEditorMetrics attaches the metrics service for session gauges.
func WithEditorMetrics(metrics *MetricsService) PoolEditorOption {
	return func(s *PoolEditorService) {
		s.metrics = metrics
	}
}

// NewPoolEditorService constructs the editor service.
func NewPoolEditorService(repo editorPoolStore, logger *zap.Logger, opts ...PoolEditorOption) *PoolEditorService {
	if logger == nil {
		logger = zap.NewNop()
	}
	bindings := poolSectionBindings()
	byID := make(map[models.SectionID]sectionBinding, len(bindings))
	for _, binding := range bindings {
		byID[binding.ID] = binding
	}
	svc := &PoolEditorService{
		repo:       repo,
		logger:     logger,
		bindings:   bindings,
		byID:       byID,
		sessions:   make(map[string]*editSession),
		sessionTTL: 2 * time.Hour,
		now:        time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(svc)
		}
	}
	return svc
}

// EditView returns the aggregated edit-page payload, creating the session
// (one record fetch) when the user has none for this pool.
func (s *PoolEditorService) EditView(ctx context.Context, poolID, userID string) (*dto.EditView, error) {
	session, err := s.session(ctx, poolID, userID)
	if err != nil {
		return nil, err
	}
	return session.view(s.bindings, s.now().UTC()), nil
}

// OpenSection transitions one section into edit mode.
func (s *PoolEditorService) OpenSection(ctx context.Context, poolID, userID string, sectionID models.SectionID) (*dto.EditView, error) {
	binding, ok := s.byID[sectionID]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("unknown section: %s", sectionID))
	}
	session, err := s.session(ctx, poolID, userID)
	if err != nil {
		return nil, err
	}
	if err := session.open(binding, s.now().UTC()); err != nil {
		return nil, err
	}
	return session.view(s.bindings, s.now().UTC()), nil
}

// CancelSection closes one section and discards its draft without any
// store dispatch.
func (s *PoolEditorService) CancelSection(ctx context.Context, poolID, userID string, sectionID models.SectionID) (*dto.EditView, error) {
	if _, ok := s.byID[sectionID]; !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("unknown section: %s", sectionID))
	}
	session, err := s.session(ctx, poolID, userID)
	if err != nil {
		return nil, err
	}
	session.cancel(sectionID, s.now().UTC())
	return session.view(s.bindings, s.now().UTC()), nil
}

// SaveSection validates and dispatches one section's draft. Draft records
// go through the plain partial update; published records route through the
// justification gate; a save is never dispatched for a section that is not
// open or while another save is in flight.
func (s *PoolEditorService) SaveSection(ctx context.Context, poolID, userID string, sectionID models.SectionID, draft dto.PoolSectionDraft) (*dto.EditView, error) {
	binding, ok := s.byID[sectionID]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("unknown section: %s", sectionID))
	}
	session, err := s.session(ctx, poolID, userID)
	if err != nil {
		return nil, err
	}

	// Local validation: invalid drafts never reach the store.
	if err := binding.validate(&draft); err != nil {
		return nil, err
	}

	status := session.poolStatus()
	var justification string
	switch status {
	case models.PoolStatusDraft:
		// plain save path
	case models.PoolStatusPublished:
		if !binding.EditableWhenPublished {
			return nil, appErrors.ErrSectionDisabled
		}
		justification = strings.TrimSpace(draft.ChangeJustification)
		if justification == "" {
			return nil, appErrors.Clone(appErrors.ErrValidation, "changeJustification is required to edit a published advertisement")
		}
	default:
		return nil, appErrors.ErrSectionDisabled
	}

	if err := session.beginSave(sectionID, &draft, s.now().UTC()); err != nil {
		return nil, err
	}

	changes := binding.changes(&draft)
	var saveErr error
	if status == models.PoolStatusPublished {
		payload, err := json.Marshal(changes)
		if err != nil {
			payload = []byte("{}")
		}
		entry := &models.PoolChangeLog{
			PoolID:        poolID,
			Section:       sectionID,
			Changes:       payload,
			Justification: justification,
			CreatedBy:     userID,
		}
		saveErr = s.repo.UpdatePublishedSection(ctx, poolID, changes, entry)
	} else {
		saveErr = s.repo.UpdateSection(ctx, poolID, changes)
	}

	session.finishSave(binding, &draft, saveErr, s.now().UTC())
	if s.metrics != nil {
		s.metrics.RecordSectionSave(string(sectionID), saveErr == nil)
	}

	if saveErr != nil {
		s.logger.Warn("section save rejected",
			zap.String("pool_id", poolID),
			zap.String("section", string(sectionID)),
			zap.Error(saveErr))
		if errors.Is(saveErr, sql.ErrNoRows) {
			// The conditional update missed: the pool's lifecycle status
			// changed behind this session's cached copy. Drop the stale
			// sessions so the next view refetches.
			s.InvalidatePool(poolID)
			return nil, appErrors.Clone(appErrors.ErrConflict, "pool status changed concurrently")
		}
		return nil, appErrors.Wrap(saveErr, appErrors.ErrSaveRejected.Code, appErrors.ErrSaveRejected.Status, "the update could not be saved")
	}
	return session.view(s.bindings, s.now().UTC()), nil
}

// InvalidatePool drops every session for the given pool. Lifecycle actions
// change the record outside the sessions' cached copies, so they must be
// refetched.
func (s *PoolEditorService) InvalidatePool(poolID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prefix := poolID + "|"
	for key := range s.sessions {
		if strings.HasPrefix(key, prefix) {
			delete(s.sessions, key)
		}
	}
	s.observeSessions()
}

// Sweep drops sessions idle longer than the session TTL.
func (s *PoolEditorService) Sweep() {
	cutoff := s.now().UTC().Add(-s.sessionTTL)
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, session := range s.sessions {
		session.mu.Lock()
		idle := session.lastActive.Before(cutoff) && !session.submitting
		session.mu.Unlock()
		if idle {
			delete(s.sessions, key)
		}
	}
	s.observeSessions()
}

// StartSweeper runs Sweep on the given interval until the context ends.
func (s *PoolEditorService) StartSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.Sweep()
			}
		}
	}()
}

func (s *PoolEditorService) session(ctx context.Context, poolID, userID string) (*editSession, error) {
	key := poolID + "|" + userID

	s.mu.Lock()
	if session, ok := s.sessions[key]; ok {
		s.mu.Unlock()
		return session, nil
	}
	s.mu.Unlock()

	pool, err := s.repo.GetByID(ctx, poolID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "pool not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load pool")
	}

	session := newEditSession(userID, pool, s.bindings, s.now().UTC())
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.sessions[key]; ok {
		return existing, nil
	}
	s.sessions[key] = session
	s.observeSessions()
	return session, nil
}

func (s *PoolEditorService) observeSessions() {
	if s.metrics != nil {
		s.metrics.SetOpenEditSessions(len(s.sessions))
	}
}
