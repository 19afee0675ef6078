package service

import "github.com/govtalent/pool-admin-api/internal/models"

// ComputeSectionStatus derives the display status and icon for one section
// from its descriptor predicates applied to the current record. First match
// wins:
//
//	optional && isNull          -> optional
//	isNull                      -> error
//	hasGap                      -> error
//	otherwise                   -> success
//
// The result is a pure projection; it is recomputed from the cached record
// on every read and never stored.
func ComputeSectionStatus(desc models.SectionDescriptor, pool *models.Pool) (models.SectionStatus, models.SectionIcon) {
	var isNull, hasGap bool
	if desc.IsNull != nil {
		isNull = desc.IsNull(pool)
	}
	if desc.HasGap != nil {
		hasGap = desc.HasGap(pool)
	}

	var status models.SectionStatus
	switch {
	case desc.Optional && isNull:
		status = models.SectionStatusOptional
	case isNull:
		status = models.SectionStatusError
	case hasGap:
		status = models.SectionStatusError
	default:
		status = models.SectionStatusSuccess
	}

	switch status {
	case models.SectionStatusError:
		return status, models.IconWarning
	case models.SectionStatusSuccess:
		return status, models.IconCheck
	default:
		icon := desc.FallbackIcon
		if icon == "" {
			icon = models.IconPlus
		}
		return status, icon
	}
}
