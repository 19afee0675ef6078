package models

// SectionID identifies one independently editable slice of a pool record.
type SectionID string

const (
	SectionPoolName         SectionID = "pool_name"
	SectionClosingDate      SectionID = "closing_date"
	SectionCoreRequirements SectionID = "core_requirements"
	SectionYourImpact       SectionID = "your_impact"
	SectionKeyTasks         SectionID = "key_tasks"
	SectionEssentialSkills  SectionID = "essential_skills"
	SectionAssetSkills      SectionID = "asset_skills"
	SectionWhatToExpect     SectionID = "what_to_expect"
	SectionSpecialNote      SectionID = "special_note"
)

// SectionStatus is the derived display status of a section.
type SectionStatus string

const (
	SectionStatusError    SectionStatus = "error"
	SectionStatusSuccess  SectionStatus = "success"
	SectionStatusOptional SectionStatus = "optional"
)

// SectionIcon names the indicator shown next to a section in the
// navigation summary.
type SectionIcon string

const (
	IconWarning SectionIcon = "warning"
	IconCheck   SectionIcon = "check"
	IconEdit    SectionIcon = "edit"
	IconPlus    SectionIcon = "plus"
)

// SectionDescriptor is the static per-section configuration: completeness
// predicates, the optional flag, and which columns the section may touch.
// Descriptors are declared once at startup and never mutated.
type SectionDescriptor struct {
	ID                    SectionID
	Title                 string
	Optional              bool
	EditableWhenPublished bool
	FallbackIcon          SectionIcon

	// IsNull reports whether every field in the section's slice is empty.
	// HasGap reports whether a required field within a non-empty slice is
	// still missing. Both must be total over any record, nils included.
	IsNull func(*Pool) bool
	HasGap func(*Pool) bool

	// Columns is the allowlist of database columns a save for this section
	// may update.
	Columns []string
}

// SectionState is the projection returned to clients: derived status plus
// the session's open/closed flag. It is recomputed from the cached record
// on every read, never stored.
type SectionState struct {
	ID       SectionID     `json:"id"`
	Title    string        `json:"title"`
	Status   SectionStatus `json:"status"`
	Icon     SectionIcon   `json:"icon"`
	Open     bool          `json:"open"`
	Editable bool          `json:"editable"`
}
