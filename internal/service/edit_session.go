package service

import (
	"sync"
	"time"

	"github.com/govtalent/pool-admin-api/internal/dto"
	"github.com/govtalent/pool-admin-api/internal/models"
	appErrors "github.com/govtalent/pool-admin-api/pkg/errors"
)

// sectionToggle is the per-section edit mode: every section is its own
// two-state machine, independent of its neighbours.
type sectionToggle int

const (
	sectionClosed sectionToggle = iota
	sectionOpen
)

type sectionController struct {
	state sectionToggle
	draft *dto.PoolSectionDraft
}

// editSession mirrors one user's edit page over a single pool: a private
// cached copy of the record fetched once, one toggle controller per
// section, and the session-wide submit lock. Sections do not read or write
// each other's state; the submit lock is the only shared flag.
type editSession struct {
	mu sync.Mutex

	userID     string
	pool       *models.Pool
	sections   map[models.SectionID]*sectionController
	submitting bool
	lastActive time.Time
}

func newEditSession(userID string, pool *models.Pool, bindings []sectionBinding, now time.Time) *editSession {
	sections := make(map[models.SectionID]*sectionController, len(bindings))
	for _, binding := range bindings {
		sections[binding.ID] = &sectionController{state: sectionClosed}
	}
	return &editSession{
		userID:     userID,
		pool:       pool.Clone(),
		sections:   sections,
		lastActive: now,
	}
}

// sectionEditable reports whether a section may enter edit mode given the
// record's lifecycle status. Draft records edit freely; published records
// only through sections flagged as post-publication editable; closed and
// archived records not at all.
func sectionEditable(status models.PoolStatus, binding sectionBinding) bool {
	switch status {
	case models.PoolStatusDraft:
		return true
	case models.PoolStatusPublished:
		return binding.EditableWhenPublished
	default:
		return false
	}
}

// view projects the session into the edit-page payload. Statuses are
// derived fresh from the cached record on every call.
func (s *editSession) view(bindings []sectionBinding, now time.Time) *dto.EditView {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastActive = now

	states := make([]models.SectionState, 0, len(bindings))
	for _, binding := range bindings {
		status, icon := ComputeSectionStatus(binding.SectionDescriptor, s.pool)
		controller := s.sections[binding.ID]
		states = append(states, models.SectionState{
			ID:       binding.ID,
			Title:    binding.Title,
			Status:   status,
			Icon:     icon,
			Open:     controller != nil && controller.state == sectionOpen,
			Editable: sectionEditable(s.pool.Status, binding),
		})
	}

	return &dto.EditView{
		Pool:       s.pool.Clone(),
		Sections:   states,
		Actions:    allowedActions(s.pool),
		Submitting: s.submitting,
	}
}

func (s *editSession) poolStatus() models.PoolStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pool.Status
}

// open transitions a section Closed -> Open. Disabled sections refuse the
// transition.
func (s *editSession) open(binding sectionBinding, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastActive = now

	if !sectionEditable(s.pool.Status, binding) {
		return appErrors.ErrSectionDisabled
	}
	s.sections[binding.ID].state = sectionOpen
	return nil
}

// cancel discards the draft and closes the section. No store call is ever
// issued; cancelling an already-closed section is a no-op.
func (s *editSession) cancel(id models.SectionID, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastActive = now

	controller := s.sections[id]
	controller.draft = nil
	controller.state = sectionClosed
}

// beginSave acquires the session submit lock and records the attempted
// draft on the open section. Exactly one save may be in flight per session;
// re-entrant submits are refused without dispatching.
func (s *editSession) beginSave(id models.SectionID, draft *dto.PoolSectionDraft, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastActive = now

	controller := s.sections[id]
	if controller.state != sectionOpen {
		return appErrors.ErrSectionClosed
	}
	if s.submitting {
		return appErrors.ErrSaveInFlight
	}
	s.submitting = true
	controller.draft = draft
	return nil
}

// finishSave releases the submit lock and applies the save outcome. On
// success the draft is committed into the cached record and the section
// closes; on failure the section stays open with the attempted draft intact
// for retry. The outcome is applied even if the section was cancelled while
// the request was in flight: a dispatched request always completes.
func (s *editSession) finishSave(binding sectionBinding, draft *dto.PoolSectionDraft, saveErr error, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.submitting = false
	controller := s.sections[binding.ID]
	if saveErr != nil {
		controller.draft = draft
		return
	}
	binding.commit(s.pool, draft)
	s.pool.UpdatedAt = now
	controller.draft = nil
	controller.state = sectionClosed
}

// allowedActions lists the lifecycle actions available for the record's
// current status. Publish is withheld while any required section still
// reports an error; duplication is always available.
func allowedActions(pool *models.Pool) []string {
	var actions []string
	switch pool.Status {
	case models.PoolStatusDraft:
		if len(requiredSectionBlockers(pool)) == 0 {
			actions = append(actions, "publish")
		}
		actions = append(actions, "delete")
	case models.PoolStatusPublished:
		actions = append(actions, "close", "extend")
	case models.PoolStatusClosed:
		actions = append(actions, "extend", "archive")
	case models.PoolStatusArchived:
		actions = append(actions, "unarchive")
	}
	return append(actions, "duplicate")
}
