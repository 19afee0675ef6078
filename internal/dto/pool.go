package dto

import (
	"time"

	"github.com/govtalent/pool-admin-api/internal/models"
)

// CreatePoolRequest seeds a new draft pool. Everything beyond the name is
// filled in section by section afterwards.
type CreatePoolRequest struct {
	Name             models.LocalizedString `json:"name" binding:"required"`
	ClassificationID *string                `json:"classificationId,omitempty"`
	DepartmentID     *string                `json:"departmentId,omitempty"`
}

// PoolQuery constrains pool listings.
type PoolQuery struct {
	Status           []models.PoolStatus
	ClassificationID string
	DepartmentID     string
	Search           string
	Page             int
	PageSize         int
}

// ExtendPoolRequest carries the new closing date for the extend action.
type ExtendPoolRequest struct {
	ClosingDate time.Time `json:"closingDate" binding:"required"`
}

// PoolSectionDraft is the in-progress edit for one section. Only the fields
// belonging to the saved section are read; the rest stay nil. When the pool
// is published, ChangeJustification must be non-empty.
type PoolSectionDraft struct {
	Name                *models.LocalizedString `json:"name,omitempty"`
	ClassificationID    *string                 `json:"classificationId,omitempty"`
	DepartmentID        *string                 `json:"departmentId,omitempty"`
	ProcessNumber       *string                 `json:"processNumber,omitempty"`
	ClosingDate         *time.Time              `json:"closingDate,omitempty"`
	LanguageRequirement *string                 `json:"languageRequirement,omitempty"`
	SecurityClearance   *string                 `json:"securityClearance,omitempty"`
	Location            *models.LocalizedString `json:"location,omitempty"`
	YourImpact          *models.LocalizedString `json:"yourImpact,omitempty"`
	KeyTasks            *models.LocalizedString `json:"keyTasks,omitempty"`
	WhatToExpect        *models.LocalizedString `json:"whatToExpect,omitempty"`
	SpecialNote         *models.LocalizedString `json:"specialNote,omitempty"`
	EssentialSkillIDs   *[]string               `json:"essentialSkillIds,omitempty"`
	AssetSkillIDs       *[]string               `json:"assetSkillIds,omitempty"`

	ChangeJustification string `json:"changeJustification,omitempty"`
}

// EditView is the aggregated edit-page payload: the cached record, the
// derived state of every section, the allowed lifecycle actions, and the
// session-wide submitting flag.
type EditView struct {
	Pool       *models.Pool          `json:"pool"`
	Sections   []models.SectionState `json:"sections"`
	Actions    []string              `json:"actions"`
	Submitting bool                  `json:"submitting"`
}
