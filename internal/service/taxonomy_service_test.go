package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/govtalent/pool-admin-api/internal/dto"
	"github.com/govtalent/pool-admin-api/internal/models"
	appErrors "github.com/govtalent/pool-admin-api/pkg/errors"
)

type taxonomyRepoStub struct {
	classifications map[string]models.Classification
	departments     map[string]models.Department
	families        map[string]models.SkillFamily
	skills          map[string]models.Skill
}

func newTaxonomyRepoStub() *taxonomyRepoStub {
	return &taxonomyRepoStub{
		classifications: make(map[string]models.Classification),
		departments:     make(map[string]models.Department),
		families:        make(map[string]models.SkillFamily),
		skills:          make(map[string]models.Skill),
	}
}

func (s *taxonomyRepoStub) ListClassifications(ctx context.Context) ([]models.Classification, error) {
	out := make([]models.Classification, 0, len(s.classifications))
	for _, c := range s.classifications {
		out = append(out, c)
	}
	return out, nil
}

func (s *taxonomyRepoStub) UpsertClassification(ctx context.Context, c *models.Classification) error {
	s.classifications[c.ID] = *c
	return nil
}

func (s *taxonomyRepoStub) DeleteClassification(ctx context.Context, id string) error {
	if _, ok := s.classifications[id]; !ok {
		return sql.ErrNoRows
	}
	delete(s.classifications, id)
	return nil
}

func (s *taxonomyRepoStub) ListDepartments(ctx context.Context) ([]models.Department, error) {
	out := make([]models.Department, 0, len(s.departments))
	for _, d := range s.departments {
		out = append(out, d)
	}
	return out, nil
}

func (s *taxonomyRepoStub) UpsertDepartment(ctx context.Context, d *models.Department) error {
	s.departments[d.ID] = *d
	return nil
}

func (s *taxonomyRepoStub) DeleteDepartment(ctx context.Context, id string) error {
	if _, ok := s.departments[id]; !ok {
		return sql.ErrNoRows
	}
	delete(s.departments, id)
	return nil
}

func (s *taxonomyRepoStub) ListSkillFamilies(ctx context.Context) ([]models.SkillFamily, error) {
	out := make([]models.SkillFamily, 0, len(s.families))
	for _, f := range s.families {
		out = append(out, f)
	}
	return out, nil
}

func (s *taxonomyRepoStub) UpsertSkillFamily(ctx context.Context, f *models.SkillFamily) error {
	s.families[f.ID] = *f
	return nil
}

func (s *taxonomyRepoStub) DeleteSkillFamily(ctx context.Context, id string) error {
	if _, ok := s.families[id]; !ok {
		return sql.ErrNoRows
	}
	delete(s.families, id)
	return nil
}

func (s *taxonomyRepoStub) ListSkills(ctx context.Context, familyID string) ([]models.Skill, error) {
	out := make([]models.Skill, 0, len(s.skills))
	for _, sk := range s.skills {
		if familyID == "" || (sk.FamilyID != nil && *sk.FamilyID == familyID) {
			out = append(out, sk)
		}
	}
	return out, nil
}

func (s *taxonomyRepoStub) UpsertSkill(ctx context.Context, sk *models.Skill) error {
	s.skills[sk.ID] = *sk
	return nil
}

func (s *taxonomyRepoStub) DeleteSkill(ctx context.Context, id string) error {
	if _, ok := s.skills[id]; !ok {
		return sql.ErrNoRows
	}
	delete(s.skills, id)
	return nil
}

func TestTaxonomyServiceSaveClassification(t *testing.T) {
	repo := newTaxonomyRepoStub()
	service := NewTaxonomyService(repo, nil, nil)

	created, err := service.SaveClassification(context.Background(), "", dto.UpsertClassificationRequest{
		Group: "IT",
		Level: 3,
		Name:  models.LocalizedString{En: "IT-03", Fr: "TI-03"},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	list, err := service.ListClassifications(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestTaxonomyServiceSalaryRangeValidation(t *testing.T) {
	repo := newTaxonomyRepoStub()
	service := NewTaxonomyService(repo, nil, nil)

	min, max := 90000, 80000
	_, err := service.SaveClassification(context.Background(), "", dto.UpsertClassificationRequest{
		Group:     "IT",
		Level:     3,
		Name:      models.LocalizedString{En: "IT-03", Fr: "TI-03"},
		MinSalary: &min,
		MaxSalary: &max,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.classifications)
}

func TestTaxonomyServiceDeleteMissingSkill(t *testing.T) {
	service := NewTaxonomyService(newTaxonomyRepoStub(), nil, nil)

	err := service.DeleteSkill(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestTaxonomyServiceDeleteSkillFamily(t *testing.T) {
	repo := newTaxonomyRepoStub()
	service := NewTaxonomyService(repo, nil, nil)

	family, err := service.SaveSkillFamily(context.Background(), "", dto.UpsertSkillFamilyRequest{
		Key:  "leadership",
		Name: models.LocalizedString{En: "Leadership", Fr: "Leadership"},
	})
	require.NoError(t, err)

	require.NoError(t, service.DeleteSkillFamily(context.Background(), family.ID))
	assert.Empty(t, repo.families)

	err = service.DeleteSkillFamily(context.Background(), family.ID)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestTaxonomyServiceSkillsByFamily(t *testing.T) {
	repo := newTaxonomyRepoStub()
	service := NewTaxonomyService(repo, nil, nil)

	family, err := service.SaveSkillFamily(context.Background(), "", dto.UpsertSkillFamilyRequest{
		Key:  "technical",
		Name: models.LocalizedString{En: "Technical", Fr: "Technique"},
	})
	require.NoError(t, err)

	_, err = service.SaveSkill(context.Background(), "", dto.UpsertSkillRequest{
		Key:      "go",
		Name:     models.LocalizedString{En: "Go", Fr: "Go"},
		FamilyID: &family.ID,
	})
	require.NoError(t, err)
	_, err = service.SaveSkill(context.Background(), "", dto.UpsertSkillRequest{
		Key:  "communication",
		Name: models.LocalizedString{En: "Communication", Fr: "Communication"},
	})
	require.NoError(t, err)

	scoped, err := service.ListSkills(context.Background(), family.ID)
	require.NoError(t, err)
	assert.Len(t, scoped, 1)

	all, err := service.ListSkills(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
