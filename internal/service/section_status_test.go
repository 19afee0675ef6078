package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/govtalent/pool-admin-api/internal/models"
)

func staticDescriptor(optional, isNull, hasGap bool) models.SectionDescriptor {
	return models.SectionDescriptor{
		ID:           models.SectionYourImpact,
		Optional:     optional,
		FallbackIcon: models.IconPlus,
		IsNull:       func(*models.Pool) bool { return isNull },
		HasGap:       func(*models.Pool) bool { return hasGap },
	}
}

func TestComputeSectionStatusDecisionTable(t *testing.T) {
	cases := []struct {
		name     string
		optional bool
		isNull   bool
		hasGap   bool
		status   models.SectionStatus
		icon     models.SectionIcon
	}{
		{"optional empty", true, true, false, models.SectionStatusOptional, models.IconPlus},
		{"optional empty with gap", true, true, true, models.SectionStatusOptional, models.IconPlus},
		{"required empty", false, true, false, models.SectionStatusError, models.IconWarning},
		{"required empty with gap", false, true, true, models.SectionStatusError, models.IconWarning},
		{"required partial", false, false, true, models.SectionStatusError, models.IconWarning},
		{"optional partial", true, false, true, models.SectionStatusError, models.IconWarning},
		{"required complete", false, false, false, models.SectionStatusSuccess, models.IconCheck},
		{"optional complete", true, false, false, models.SectionStatusSuccess, models.IconCheck},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, icon := ComputeSectionStatus(staticDescriptor(tc.optional, tc.isNull, tc.hasGap), &models.Pool{})
			assert.Equal(t, tc.status, status)
			assert.Equal(t, tc.icon, icon)
		})
	}
}

func TestComputeSectionStatusDefaultsFallbackIcon(t *testing.T) {
	desc := staticDescriptor(true, true, false)
	desc.FallbackIcon = ""
	_, icon := ComputeSectionStatus(desc, &models.Pool{})
	assert.Equal(t, models.IconPlus, icon)
}

func TestComputeSectionStatusNilPredicates(t *testing.T) {
	desc := models.SectionDescriptor{ID: models.SectionSpecialNote, Optional: true}
	status, _ := ComputeSectionStatus(desc, &models.Pool{})
	assert.Equal(t, models.SectionStatusSuccess, status)
}

func TestRequiredSectionBlockers(t *testing.T) {
	pool := &models.Pool{Status: models.PoolStatusDraft}
	blockers := requiredSectionBlockers(pool)
	require.NotEmpty(t, blockers)
	assert.Contains(t, blockers, models.SectionPoolName)
	assert.Contains(t, blockers, models.SectionClosingDate)
	assert.Contains(t, blockers, models.SectionEssentialSkills)
	assert.NotContains(t, blockers, models.SectionAssetSkills)
	assert.NotContains(t, blockers, models.SectionWhatToExpect)

	complete := completePoolFixture(models.PoolStatusDraft)
	assert.Empty(t, requiredSectionBlockers(complete))
}

func TestRequiredSectionBlockersReportsGaps(t *testing.T) {
	pool := completePoolFixture(models.PoolStatusDraft)
	pool.YourImpact = models.LocalizedString{En: "English only"}
	blockers := requiredSectionBlockers(pool)
	require.Len(t, blockers, 1)
	assert.Equal(t, models.SectionYourImpact, blockers[0])
}
