package service

import (
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/govtalent/pool-admin-api/internal/dto"
	"github.com/govtalent/pool-admin-api/internal/models"
	appErrors "github.com/govtalent/pool-admin-api/pkg/errors"
)

// sectionBinding couples a section descriptor with its draft plumbing: the
// local validation rules, the column changes handed to the store, and the
// commit that folds a saved draft into the cached record. The edit page is
// driven entirely by this list; adding a section means adding an entry.
type sectionBinding struct {
	models.SectionDescriptor

	validate func(draft *dto.PoolSectionDraft) error
	changes  func(draft *dto.PoolSectionDraft) map[string]interface{}
	commit   func(pool *models.Pool, draft *dto.PoolSectionDraft)
}

func poolSectionBindings() []sectionBinding {
	return []sectionBinding{
		{
			SectionDescriptor: models.SectionDescriptor{
				ID:           models.SectionPoolName,
				Title:        "Advertisement details",
				FallbackIcon: models.IconEdit,
				IsNull: func(p *models.Pool) bool {
					return p.Name.IsEmpty() && p.ClassificationID == nil && p.DepartmentID == nil && p.ProcessNumber == nil
				},
				HasGap: func(p *models.Pool) bool {
					return !p.Name.IsComplete() || p.ClassificationID == nil || p.DepartmentID == nil
				},
				Columns: []string{"name", "classification_id", "department_id", "process_number"},
			},
			validate: func(d *dto.PoolSectionDraft) error {
				if d.Name == nil {
					return validationError("name is required")
				}
				if !d.Name.IsComplete() {
					return validationError("name requires both languages")
				}
				return nil
			},
			changes: func(d *dto.PoolSectionDraft) map[string]interface{} {
				changes := map[string]interface{}{"name": *d.Name}
				if d.ClassificationID != nil {
					changes["classification_id"] = *d.ClassificationID
				}
				if d.DepartmentID != nil {
					changes["department_id"] = *d.DepartmentID
				}
				if d.ProcessNumber != nil {
					changes["process_number"] = *d.ProcessNumber
				}
				return changes
			},
			commit: func(p *models.Pool, d *dto.PoolSectionDraft) {
				p.Name = *d.Name
				if d.ClassificationID != nil {
					p.ClassificationID = d.ClassificationID
				}
				if d.DepartmentID != nil {
					p.DepartmentID = d.DepartmentID
				}
				if d.ProcessNumber != nil {
					p.ProcessNumber = d.ProcessNumber
				}
			},
		},
		{
			SectionDescriptor: models.SectionDescriptor{
				ID:                    models.SectionClosingDate,
				Title:                 "Closing date",
				EditableWhenPublished: true,
				FallbackIcon:          models.IconEdit,
				IsNull:                func(p *models.Pool) bool { return p.ClosingDate == nil },
				// A set closing date is always complete; the source never
				// reports a gap for this section.
				HasGap:  func(*models.Pool) bool { return false },
				Columns: []string{"closing_date"},
			},
			validate: func(d *dto.PoolSectionDraft) error {
				if d.ClosingDate == nil {
					return validationError("closingDate is required")
				}
				return nil
			},
			changes: func(d *dto.PoolSectionDraft) map[string]interface{} {
				return map[string]interface{}{"closing_date": *d.ClosingDate}
			},
			commit: func(p *models.Pool, d *dto.PoolSectionDraft) {
				p.ClosingDate = d.ClosingDate
			},
		},
		{
			SectionDescriptor: models.SectionDescriptor{
				ID:           models.SectionCoreRequirements,
				Title:        "Core requirements",
				FallbackIcon: models.IconEdit,
				IsNull: func(p *models.Pool) bool {
					return p.LanguageRequirement == nil && p.SecurityClearance == nil && p.Location.IsEmpty()
				},
				HasGap: func(p *models.Pool) bool {
					return p.LanguageRequirement == nil || p.SecurityClearance == nil
				},
				Columns: []string{"language_requirement", "security_clearance", "location"},
			},
			validate: func(d *dto.PoolSectionDraft) error {
				if d.LanguageRequirement == nil || strings.TrimSpace(*d.LanguageRequirement) == "" {
					return validationError("languageRequirement is required")
				}
				if d.SecurityClearance == nil || strings.TrimSpace(*d.SecurityClearance) == "" {
					return validationError("securityClearance is required")
				}
				return nil
			},
			changes: func(d *dto.PoolSectionDraft) map[string]interface{} {
				changes := map[string]interface{}{
					"language_requirement": *d.LanguageRequirement,
					"security_clearance":   *d.SecurityClearance,
				}
				if d.Location != nil {
					changes["location"] = *d.Location
				}
				return changes
			},
			commit: func(p *models.Pool, d *dto.PoolSectionDraft) {
				p.LanguageRequirement = d.LanguageRequirement
				p.SecurityClearance = d.SecurityClearance
				if d.Location != nil {
					p.Location = *d.Location
				}
			},
		},
		bilingualBinding(models.SectionYourImpact, "Your impact", "your_impact", false, true,
			func(p *models.Pool) *models.LocalizedString { return &p.YourImpact },
			func(d *dto.PoolSectionDraft) *models.LocalizedString { return d.YourImpact },
		),
		bilingualBinding(models.SectionKeyTasks, "Work tasks", "key_tasks", false, true,
			func(p *models.Pool) *models.LocalizedString { return &p.KeyTasks },
			func(d *dto.PoolSectionDraft) *models.LocalizedString { return d.KeyTasks },
		),
		{
			SectionDescriptor: models.SectionDescriptor{
				ID:           models.SectionEssentialSkills,
				Title:        "Essential skills",
				FallbackIcon: models.IconEdit,
				IsNull:       func(p *models.Pool) bool { return len(p.EssentialSkillIDs) == 0 },
				HasGap:       func(*models.Pool) bool { return false },
				Columns:      []string{"essential_skill_ids"},
			},
			validate: func(d *dto.PoolSectionDraft) error {
				if d.EssentialSkillIDs == nil || len(*d.EssentialSkillIDs) == 0 {
					return validationError("at least one essential skill is required")
				}
				return nil
			},
			changes: func(d *dto.PoolSectionDraft) map[string]interface{} {
				return map[string]interface{}{"essential_skill_ids": pq.StringArray(*d.EssentialSkillIDs)}
			},
			commit: func(p *models.Pool, d *dto.PoolSectionDraft) {
				p.EssentialSkillIDs = append(pq.StringArray(nil), *d.EssentialSkillIDs...)
			},
		},
		{
			SectionDescriptor: models.SectionDescriptor{
				ID:           models.SectionAssetSkills,
				Title:        "Asset skills",
				Optional:     true,
				FallbackIcon: models.IconPlus,
				IsNull:       func(p *models.Pool) bool { return len(p.AssetSkillIDs) == 0 },
				HasGap:       func(*models.Pool) bool { return false },
				Columns:      []string{"asset_skill_ids"},
			},
			validate: func(d *dto.PoolSectionDraft) error {
				if d.AssetSkillIDs == nil {
					return validationError("assetSkillIds is required")
				}
				return nil
			},
			changes: func(d *dto.PoolSectionDraft) map[string]interface{} {
				return map[string]interface{}{"asset_skill_ids": pq.StringArray(*d.AssetSkillIDs)}
			},
			commit: func(p *models.Pool, d *dto.PoolSectionDraft) {
				p.AssetSkillIDs = append(pq.StringArray(nil), *d.AssetSkillIDs...)
			},
		},
		bilingualBinding(models.SectionWhatToExpect, "What to expect", "what_to_expect", true, true,
			func(p *models.Pool) *models.LocalizedString { return &p.WhatToExpect },
			func(d *dto.PoolSectionDraft) *models.LocalizedString { return d.WhatToExpect },
		),
		bilingualBinding(models.SectionSpecialNote, "Special note", "special_note", true, true,
			func(p *models.Pool) *models.LocalizedString { return &p.SpecialNote },
			func(d *dto.PoolSectionDraft) *models.LocalizedString { return d.SpecialNote },
		),
	}
}

// bilingualBinding builds the binding for a section that is a single
// bilingual rich-text field. Required sections demand both languages and
// report a gap when only one is filled; optional sections accept anything
// and never report a gap, matching the source behaviour.
func bilingualBinding(
	id models.SectionID,
	title, column string,
	optional, editableWhenPublished bool,
	fromPool func(*models.Pool) *models.LocalizedString,
	fromDraft func(*dto.PoolSectionDraft) *models.LocalizedString,
) sectionBinding {
	icon := models.IconEdit
	if optional {
		icon = models.IconPlus
	}
	desc := models.SectionDescriptor{
		ID:                    id,
		Title:                 title,
		Optional:              optional,
		EditableWhenPublished: editableWhenPublished,
		FallbackIcon:          icon,
		IsNull:                func(p *models.Pool) bool { return fromPool(p).IsEmpty() },
		Columns:               []string{column},
	}
	if optional {
		desc.HasGap = func(*models.Pool) bool { return false }
	} else {
		desc.HasGap = func(p *models.Pool) bool { return fromPool(p).HasGap() }
	}

	return sectionBinding{
		SectionDescriptor: desc,
		validate: func(d *dto.PoolSectionDraft) error {
			value := fromDraft(d)
			if value == nil {
				return validationError(fmt.Sprintf("%s is required", column))
			}
			if !optional && !value.IsComplete() {
				return validationError(fmt.Sprintf("%s requires both languages", column))
			}
			return nil
		},
		changes: func(d *dto.PoolSectionDraft) map[string]interface{} {
			return map[string]interface{}{column: *fromDraft(d)}
		},
		commit: func(p *models.Pool, d *dto.PoolSectionDraft) {
			*fromPool(p) = *fromDraft(d)
		},
	}
}

// requiredSectionBlockers returns the required sections currently reporting
// an error status. Publishing is refused while any remain; the check runs
// against the record already in hand, no store round trip.
func requiredSectionBlockers(pool *models.Pool) []models.SectionID {
	var blockers []models.SectionID
	for _, binding := range poolSectionBindings() {
		if binding.Optional {
			continue
		}
		status, _ := ComputeSectionStatus(binding.SectionDescriptor, pool)
		if status == models.SectionStatusError {
			blockers = append(blockers, binding.ID)
		}
	}
	return blockers
}

func validationError(message string) error {
	return appErrors.Clone(appErrors.ErrValidation, message)
}
