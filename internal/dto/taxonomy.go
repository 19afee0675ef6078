package dto

import "github.com/govtalent/pool-admin-api/internal/models"

// UpsertClassificationRequest creates or updates a classification.
type UpsertClassificationRequest struct {
	Group     string                 `json:"group" binding:"required"`
	Level     int                    `json:"level" binding:"required,min=1"`
	Name      models.LocalizedString `json:"name" binding:"required"`
	MinSalary *int                   `json:"minSalary,omitempty"`
	MaxSalary *int                   `json:"maxSalary,omitempty"`
}

// UpsertDepartmentRequest creates or updates a department.
type UpsertDepartmentRequest struct {
	Name      models.LocalizedString `json:"name" binding:"required"`
	OrgNumber *string                `json:"orgNumber,omitempty"`
}

// UpsertSkillFamilyRequest creates or updates a skill family.
type UpsertSkillFamilyRequest struct {
	Key  string                 `json:"key" binding:"required"`
	Name models.LocalizedString `json:"name" binding:"required"`
}

// UpsertSkillRequest creates or updates a skill.
type UpsertSkillRequest struct {
	Key         string                 `json:"key" binding:"required"`
	Name        models.LocalizedString `json:"name" binding:"required"`
	Description models.LocalizedString `json:"description"`
	FamilyID    *string                `json:"familyId,omitempty"`
}
