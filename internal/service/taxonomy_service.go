package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/govtalent/pool-admin-api/internal/dto"
	"github.com/govtalent/pool-admin-api/internal/models"
	appErrors "github.com/govtalent/pool-admin-api/pkg/errors"
)

type taxonomyRepository interface {
	ListClassifications(ctx context.Context) ([]models.Classification, error)
	UpsertClassification(ctx context.Context, c *models.Classification) error
	DeleteClassification(ctx context.Context, id string) error
	ListDepartments(ctx context.Context) ([]models.Department, error)
	UpsertDepartment(ctx context.Context, d *models.Department) error
	DeleteDepartment(ctx context.Context, id string) error
	ListSkillFamilies(ctx context.Context) ([]models.SkillFamily, error)
	UpsertSkillFamily(ctx context.Context, f *models.SkillFamily) error
	DeleteSkillFamily(ctx context.Context, id string) error
	ListSkills(ctx context.Context, familyID string) ([]models.Skill, error)
	UpsertSkill(ctx context.Context, s *models.Skill) error
	DeleteSkill(ctx context.Context, id string) error
}

// TaxonomyService manages the reference data pools are assembled from:
// classifications, departments, skill families and skills.
type TaxonomyService struct {
	repo   taxonomyRepository
	cache  *CacheService
	logger *zap.Logger
}

// NewTaxonomyService constructs the taxonomy service.
func NewTaxonomyService(repo taxonomyRepository, cache *CacheService, logger *zap.Logger) *TaxonomyService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TaxonomyService{repo: repo, cache: cache, logger: logger}
}

// ListClassifications returns every classification, cached.
func (s *TaxonomyService) ListClassifications(ctx context.Context) ([]models.Classification, error) {
	var cached []models.Classification
	if hit, _ := s.cache.Get(ctx, "taxonomy:classifications", &cached); hit {
		return cached, nil
	}
	out, err := s.repo.ListClassifications(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list classifications")
	}
	_ = s.cache.Set(ctx, "taxonomy:classifications", out, 0)
	return out, nil
}

// SaveClassification creates or updates a classification.
func (s *TaxonomyService) SaveClassification(ctx context.Context, id string, req dto.UpsertClassificationRequest) (*models.Classification, error) {
	c := &models.Classification{
		ID:        id,
		Group:     req.Group,
		Level:     req.Level,
		Name:      req.Name,
		MinSalary: req.MinSalary,
		MaxSalary: req.MaxSalary,
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if req.MinSalary != nil && req.MaxSalary != nil && *req.MinSalary > *req.MaxSalary {
		return nil, appErrors.Clone(appErrors.ErrValidation, "minSalary exceeds maxSalary")
	}
	if err := s.repo.UpsertClassification(ctx, c); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save classification")
	}
	s.invalidate(ctx, "taxonomy:classifications")
	return c, nil
}

// DeleteClassification removes a classification.
func (s *TaxonomyService) DeleteClassification(ctx context.Context, id string) error {
	if err := s.repo.DeleteClassification(ctx, id); err != nil {
		return s.deleteError(err, "classification")
	}
	s.invalidate(ctx, "taxonomy:classifications")
	return nil
}

// ListDepartments returns every department, cached.
func (s *TaxonomyService) ListDepartments(ctx context.Context) ([]models.Department, error) {
	var cached []models.Department
	if hit, _ := s.cache.Get(ctx, "taxonomy:departments", &cached); hit {
		return cached, nil
	}
	out, err := s.repo.ListDepartments(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list departments")
	}
	_ = s.cache.Set(ctx, "taxonomy:departments", out, 0)
	return out, nil
}

// SaveDepartment creates or updates a department.
func (s *TaxonomyService) SaveDepartment(ctx context.Context, id string, req dto.UpsertDepartmentRequest) (*models.Department, error) {
	d := &models.Department{ID: id, Name: req.Name, OrgNumber: req.OrgNumber}
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	if err := s.repo.UpsertDepartment(ctx, d); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save department")
	}
	s.invalidate(ctx, "taxonomy:departments")
	return d, nil
}

// DeleteDepartment removes a department.
func (s *TaxonomyService) DeleteDepartment(ctx context.Context, id string) error {
	if err := s.repo.DeleteDepartment(ctx, id); err != nil {
		return s.deleteError(err, "department")
	}
	s.invalidate(ctx, "taxonomy:departments")
	return nil
}

// ListSkillFamilies returns every skill family.
func (s *TaxonomyService) ListSkillFamilies(ctx context.Context) ([]models.SkillFamily, error) {
	out, err := s.repo.ListSkillFamilies(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list skill families")
	}
	return out, nil
}

// SaveSkillFamily creates or updates a skill family.
func (s *TaxonomyService) SaveSkillFamily(ctx context.Context, id string, req dto.UpsertSkillFamilyRequest) (*models.SkillFamily, error) {
	f := &models.SkillFamily{ID: id, Key: req.Key, Name: req.Name}
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	if err := s.repo.UpsertSkillFamily(ctx, f); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save skill family")
	}
	s.invalidate(ctx, "taxonomy:skills*")
	return f, nil
}

// DeleteSkillFamily removes a skill family.
func (s *TaxonomyService) DeleteSkillFamily(ctx context.Context, id string) error {
	if err := s.repo.DeleteSkillFamily(ctx, id); err != nil {
		return s.deleteError(err, "skill family")
	}
	s.invalidate(ctx, "taxonomy:skills*")
	return nil
}

// ListSkills returns skills, optionally scoped to one family.
func (s *TaxonomyService) ListSkills(ctx context.Context, familyID string) ([]models.Skill, error) {
	key := fmt.Sprintf("taxonomy:skills:%s", familyID)
	var cached []models.Skill
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return cached, nil
	}
	out, err := s.repo.ListSkills(ctx, familyID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list skills")
	}
	_ = s.cache.Set(ctx, key, out, 0)
	return out, nil
}

// SaveSkill creates or updates a skill.
func (s *TaxonomyService) SaveSkill(ctx context.Context, id string, req dto.UpsertSkillRequest) (*models.Skill, error) {
	sk := &models.Skill{
		ID:          id,
		Key:         req.Key,
		Name:        req.Name,
		Description: req.Description,
		FamilyID:    req.FamilyID,
	}
	if sk.ID == "" {
		sk.ID = uuid.NewString()
	}
	if err := s.repo.UpsertSkill(ctx, sk); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save skill")
	}
	s.invalidate(ctx, "taxonomy:skills*")
	return sk, nil
}

// DeleteSkill removes a skill.
func (s *TaxonomyService) DeleteSkill(ctx context.Context, id string) error {
	if err := s.repo.DeleteSkill(ctx, id); err != nil {
		return s.deleteError(err, "skill")
	}
	s.invalidate(ctx, "taxonomy:skills*")
	return nil
}

func (s *TaxonomyService) invalidate(ctx context.Context, pattern string) {
	if err := s.cache.Invalidate(ctx, pattern); err != nil {
		s.logger.Warn("taxonomy cache invalidation failed", zap.String("pattern", pattern), zap.Error(err))
	}
}

func (s *TaxonomyService) deleteError(err error, entity string) error {
	if err == sql.ErrNoRows {
		return appErrors.Clone(appErrors.ErrNotFound, entity+" not found")
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete "+entity)
}
