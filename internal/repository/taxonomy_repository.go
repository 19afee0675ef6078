package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/govtalent/pool-admin-api/internal/models"
)

// TaxonomyRepository persists the reference data behind pool sections:
// classifications, departments, skill families and skills.
type TaxonomyRepository struct {
	db *sqlx.DB
}

// NewTaxonomyRepository constructs the repository.
func NewTaxonomyRepository(db *sqlx.DB) *TaxonomyRepository {
	return &TaxonomyRepository{db: db}
}

// ListClassifications returns all classifications ordered by group and level.
func (r *TaxonomyRepository) ListClassifications(ctx context.Context) ([]models.Classification, error) {
	const query = `SELECT id, grp, level, name, min_salary, max_salary, created_at, updated_at
	FROM classifications ORDER BY grp ASC, level ASC`
	var out []models.Classification
	if err := r.db.SelectContext(ctx, &out, query); err != nil {
		return nil, fmt.Errorf("list classifications: %w", err)
	}
	return out, nil
}

// UpsertClassification inserts or updates a classification.
func (r *TaxonomyRepository) UpsertClassification(ctx context.Context, c *models.Classification) error {
	now := time.Now().UTC()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now
	const query = `INSERT INTO classifications (id, grp, level, name, min_salary, max_salary, created_at, updated_at)
	VALUES (:id, :grp, :level, :name, :min_salary, :max_salary, :created_at, :updated_at)
	ON CONFLICT (id) DO UPDATE SET
		grp = EXCLUDED.grp,
		level = EXCLUDED.level,
		name = EXCLUDED.name,
		min_salary = EXCLUDED.min_salary,
		max_salary = EXCLUDED.max_salary,
		updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, c); err != nil {
		return fmt.Errorf("upsert classification: %w", err)
	}
	return nil
}

// DeleteClassification removes a classification.
func (r *TaxonomyRepository) DeleteClassification(ctx context.Context, id string) error {
	return r.deleteByID(ctx, "classifications", id)
}

// ListDepartments returns all departments ordered by English name.
func (r *TaxonomyRepository) ListDepartments(ctx context.Context) ([]models.Department, error) {
	const query = `SELECT id, name, org_number, created_at, updated_at
	FROM departments ORDER BY name->>'en' ASC`
	var out []models.Department
	if err := r.db.SelectContext(ctx, &out, query); err != nil {
		return nil, fmt.Errorf("list departments: %w", err)
	}
	return out, nil
}

// UpsertDepartment inserts or updates a department.
func (r *TaxonomyRepository) UpsertDepartment(ctx context.Context, d *models.Department) error {
	now := time.Now().UTC()
	if d.CreatedAt.IsZero() {
		d.CreatedAt = now
	}
	d.UpdatedAt = now
	const query = `INSERT INTO departments (id, name, org_number, created_at, updated_at)
	VALUES (:id, :name, :org_number, :created_at, :updated_at)
	ON CONFLICT (id) DO UPDATE SET
		name = EXCLUDED.name,
		org_number = EXCLUDED.org_number,
		updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, d); err != nil {
		return fmt.Errorf("upsert department: %w", err)
	}
	return nil
}

// DeleteDepartment removes a department.
func (r *TaxonomyRepository) DeleteDepartment(ctx context.Context, id string) error {
	return r.deleteByID(ctx, "departments", id)
}

// ListSkillFamilies returns all skill families.
func (r *TaxonomyRepository) ListSkillFamilies(ctx context.Context) ([]models.SkillFamily, error) {
	const query = `SELECT id, key, name, created_at, updated_at FROM skill_families ORDER BY key ASC`
	var out []models.SkillFamily
	if err := r.db.SelectContext(ctx, &out, query); err != nil {
		return nil, fmt.Errorf("list skill families: %w", err)
	}
	return out, nil
}

// UpsertSkillFamily inserts or updates a skill family.
func (r *TaxonomyRepository) UpsertSkillFamily(ctx context.Context, f *models.SkillFamily) error {
	now := time.Now().UTC()
	if f.CreatedAt.IsZero() {
		f.CreatedAt = now
	}
	f.UpdatedAt = now
	const query = `INSERT INTO skill_families (id, key, name, created_at, updated_at)
	VALUES (:id, :key, :name, :created_at, :updated_at)
	ON CONFLICT (id) DO UPDATE SET
		key = EXCLUDED.key,
		name = EXCLUDED.name,
		updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, f); err != nil {
		return fmt.Errorf("upsert skill family: %w", err)
	}
	return nil
}

// DeleteSkillFamily removes a skill family.
func (r *TaxonomyRepository) DeleteSkillFamily(ctx context.Context, id string) error {
	return r.deleteByID(ctx, "skill_families", id)
}

// ListSkills returns skills, optionally scoped to one family.
func (r *TaxonomyRepository) ListSkills(ctx context.Context, familyID string) ([]models.Skill, error) {
	query := `SELECT id, key, name, description, family_id, created_at, updated_at FROM skills`
	args := []interface{}{}
	if familyID != "" {
		query += ` WHERE family_id = $1`
		args = append(args, familyID)
	}
	query += ` ORDER BY key ASC`
	var out []models.Skill
	if err := r.db.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, fmt.Errorf("list skills: %w", err)
	}
	return out, nil
}

// UpsertSkill inserts or updates a skill.
func (r *TaxonomyRepository) UpsertSkill(ctx context.Context, s *models.Skill) error {
	now := time.Now().UTC()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	s.UpdatedAt = now
	const query = `INSERT INTO skills (id, key, name, description, family_id, created_at, updated_at)
	VALUES (:id, :key, :name, :description, :family_id, :created_at, :updated_at)
	ON CONFLICT (id) DO UPDATE SET
		key = EXCLUDED.key,
		name = EXCLUDED.name,
		description = EXCLUDED.description,
		family_id = EXCLUDED.family_id,
		updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, s); err != nil {
		return fmt.Errorf("upsert skill: %w", err)
	}
	return nil
}

// DeleteSkill removes a skill.
func (r *TaxonomyRepository) DeleteSkill(ctx context.Context, id string) error {
	return r.deleteByID(ctx, "skills", id)
}

func (r *TaxonomyRepository) deleteByID(ctx context.Context, table, id string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE id = $1", table)
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete from %s: %w", table, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check %s delete rows: %w", table, err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
