package models

import "time"

// Classification is a pay group/level taxonomy entry (e.g. IT-03).
type Classification struct {
	ID        string          `db:"id" json:"id"`
	Group     string          `db:"grp" json:"group"`
	Level     int             `db:"level" json:"level"`
	Name      LocalizedString `db:"name" json:"name"`
	MinSalary *int            `db:"min_salary" json:"minSalary,omitempty"`
	MaxSalary *int            `db:"max_salary" json:"maxSalary,omitempty"`
	CreatedAt time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time       `db:"updated_at" json:"updatedAt"`
}

// Department is a hiring organisation.
type Department struct {
	ID        string          `db:"id" json:"id"`
	Name      LocalizedString `db:"name" json:"name"`
	OrgNumber *string         `db:"org_number" json:"orgNumber,omitempty"`
	CreatedAt time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time       `db:"updated_at" json:"updatedAt"`
}

// SkillFamily groups related skills.
type SkillFamily struct {
	ID        string          `db:"id" json:"id"`
	Key       string          `db:"key" json:"key"`
	Name      LocalizedString `db:"name" json:"name"`
	CreatedAt time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time       `db:"updated_at" json:"updatedAt"`
}

// Skill is a selectable competency attached to pools as essential or asset.
type Skill struct {
	ID          string          `db:"id" json:"id"`
	Key         string          `db:"key" json:"key"`
	Name        LocalizedString `db:"name" json:"name"`
	Description LocalizedString `db:"description" json:"description"`
	FamilyID    *string         `db:"family_id" json:"familyId,omitempty"`
	CreatedAt   time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updatedAt"`
}
