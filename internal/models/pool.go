package models

import (
	"time"

	"github.com/lib/pq"
)

// PoolStatus is the coarse lifecycle state of a recruitment pool. It gates
// which top-level actions are available and through which path sections may
// be edited.
type PoolStatus string

const (
	PoolStatusDraft     PoolStatus = "DRAFT"
	PoolStatusPublished PoolStatus = "PUBLISHED"
	PoolStatusClosed    PoolStatus = "CLOSED"
	PoolStatusArchived  PoolStatus = "ARCHIVED"
)

// Valid reports whether the status is one of the known lifecycle states.
func (s PoolStatus) Valid() bool {
	switch s {
	case PoolStatusDraft, PoolStatusPublished, PoolStatusClosed, PoolStatusArchived:
		return true
	}
	return false
}

// Pool is the parent record behind the multi-section edit page: a job
// advertisement assembled section by section and published as a whole.
type Pool struct {
	ID                  string          `db:"id" json:"id"`
	Name                LocalizedString `db:"name" json:"name"`
	ClassificationID    *string         `db:"classification_id" json:"classificationId,omitempty"`
	DepartmentID        *string         `db:"department_id" json:"departmentId,omitempty"`
	ProcessNumber       *string         `db:"process_number" json:"processNumber,omitempty"`
	ClosingDate         *time.Time      `db:"closing_date" json:"closingDate,omitempty"`
	LanguageRequirement *string         `db:"language_requirement" json:"languageRequirement,omitempty"`
	SecurityClearance   *string         `db:"security_clearance" json:"securityClearance,omitempty"`
	Location            LocalizedString `db:"location" json:"location"`
	YourImpact          LocalizedString `db:"your_impact" json:"yourImpact"`
	KeyTasks            LocalizedString `db:"key_tasks" json:"keyTasks"`
	WhatToExpect        LocalizedString `db:"what_to_expect" json:"whatToExpect"`
	SpecialNote         LocalizedString `db:"special_note" json:"specialNote"`
	EssentialSkillIDs   pq.StringArray  `db:"essential_skill_ids" json:"essentialSkillIds"`
	AssetSkillIDs       pq.StringArray  `db:"asset_skill_ids" json:"assetSkillIds"`
	Status              PoolStatus      `db:"status" json:"status"`
	PublishedAt         *time.Time      `db:"published_at" json:"publishedAt,omitempty"`
	ArchivedAt          *time.Time      `db:"archived_at" json:"archivedAt,omitempty"`
	CreatedAt           time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt           time.Time       `db:"updated_at" json:"updatedAt"`
}

// Clone returns a deep copy. Edit sessions cache a private copy of the
// record, and duplication starts from one.
func (p *Pool) Clone() *Pool {
	if p == nil {
		return nil
	}
	clone := *p
	clone.ClassificationID = cloneStringPtr(p.ClassificationID)
	clone.DepartmentID = cloneStringPtr(p.DepartmentID)
	clone.ProcessNumber = cloneStringPtr(p.ProcessNumber)
	clone.LanguageRequirement = cloneStringPtr(p.LanguageRequirement)
	clone.SecurityClearance = cloneStringPtr(p.SecurityClearance)
	clone.ClosingDate = cloneTimePtr(p.ClosingDate)
	clone.PublishedAt = cloneTimePtr(p.PublishedAt)
	clone.ArchivedAt = cloneTimePtr(p.ArchivedAt)
	clone.EssentialSkillIDs = append(pq.StringArray(nil), p.EssentialSkillIDs...)
	clone.AssetSkillIDs = append(pq.StringArray(nil), p.AssetSkillIDs...)
	return &clone
}

// PoolFilter constrains pool listing queries.
type PoolFilter struct {
	Status           []PoolStatus
	ClassificationID string
	DepartmentID     string
	Search           string
	Limit            int
	Offset           int
}

func cloneStringPtr(v *string) *string {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneTimePtr(v *time.Time) *time.Time {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
