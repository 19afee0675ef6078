package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/govtalent/pool-admin-api/internal/dto"
	"github.com/govtalent/pool-admin-api/internal/models"
	appErrors "github.com/govtalent/pool-admin-api/pkg/errors"
	"github.com/govtalent/pool-admin-api/pkg/response"
)

type taxonomyService interface {
	ListClassifications(ctx context.Context) ([]models.Classification, error)
	SaveClassification(ctx context.Context, id string, req dto.UpsertClassificationRequest) (*models.Classification, error)
	DeleteClassification(ctx context.Context, id string) error
	ListDepartments(ctx context.Context) ([]models.Department, error)
	SaveDepartment(ctx context.Context, id string, req dto.UpsertDepartmentRequest) (*models.Department, error)
	DeleteDepartment(ctx context.Context, id string) error
	ListSkillFamilies(ctx context.Context) ([]models.SkillFamily, error)
	SaveSkillFamily(ctx context.Context, id string, req dto.UpsertSkillFamilyRequest) (*models.SkillFamily, error)
	DeleteSkillFamily(ctx context.Context, id string) error
	ListSkills(ctx context.Context, familyID string) ([]models.Skill, error)
	SaveSkill(ctx context.Context, id string, req dto.UpsertSkillRequest) (*models.Skill, error)
	DeleteSkill(ctx context.Context, id string) error
}

// TaxonomyHandler exposes the reference data endpoints backing the pool
// selector sections.
type TaxonomyHandler struct {
	service taxonomyService
}

// NewTaxonomyHandler constructs the handler.
func NewTaxonomyHandler(service taxonomyService) *TaxonomyHandler {
	return &TaxonomyHandler{service: service}
}

// ListClassifications godoc
// @Summary List classifications
// @Tags Taxonomy
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /taxonomy/classifications [get]
func (h *TaxonomyHandler) ListClassifications(c *gin.Context) {
	list, err := h.service.ListClassifications(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, list, nil)
}

// SaveClassification godoc
// @Summary Create or update a classification
// @Tags Taxonomy
// @Accept json
// @Produce json
// @Param id path string false "Classification ID"
// @Param payload body dto.UpsertClassificationRequest true "Classification payload"
// @Success 200 {object} response.Envelope
// @Router /taxonomy/classifications/{id} [put]
func (h *TaxonomyHandler) SaveClassification(c *gin.Context) {
	var req dto.UpsertClassificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid classification payload"))
		return
	}
	saved, err := h.service.SaveClassification(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, saved, nil)
}

// DeleteClassification godoc
// @Summary Delete a classification
// @Tags Taxonomy
// @Param id path string true "Classification ID"
// @Success 204 {object} response.Envelope
// @Router /taxonomy/classifications/{id} [delete]
func (h *TaxonomyHandler) DeleteClassification(c *gin.Context) {
	if err := h.service.DeleteClassification(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListDepartments godoc
// @Summary List departments
// @Tags Taxonomy
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /taxonomy/departments [get]
func (h *TaxonomyHandler) ListDepartments(c *gin.Context) {
	list, err := h.service.ListDepartments(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, list, nil)
}

// SaveDepartment godoc
// @Summary Create or update a department
// @Tags Taxonomy
// @Accept json
// @Produce json
// @Param id path string false "Department ID"
// @Param payload body dto.UpsertDepartmentRequest true "Department payload"
// @Success 200 {object} response.Envelope
// @Router /taxonomy/departments/{id} [put]
func (h *TaxonomyHandler) SaveDepartment(c *gin.Context) {
	var req dto.UpsertDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid department payload"))
		return
	}
	saved, err := h.service.SaveDepartment(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, saved, nil)
}

// DeleteDepartment godoc
// @Summary Delete a department
// @Tags Taxonomy
// @Param id path string true "Department ID"
// @Success 204 {object} response.Envelope
// @Router /taxonomy/departments/{id} [delete]
func (h *TaxonomyHandler) DeleteDepartment(c *gin.Context) {
	if err := h.service.DeleteDepartment(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListSkillFamilies godoc
// @Summary List skill families
// @Tags Taxonomy
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /taxonomy/skill-families [get]
func (h *TaxonomyHandler) ListSkillFamilies(c *gin.Context) {
	list, err := h.service.ListSkillFamilies(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, list, nil)
}

// SaveSkillFamily godoc
// @Summary Create or update a skill family
// @Tags Taxonomy
// @Accept json
// @Produce json
// @Param id path string false "Skill family ID"
// @Param payload body dto.UpsertSkillFamilyRequest true "Skill family payload"
// @Success 200 {object} response.Envelope
// @Router /taxonomy/skill-families/{id} [put]
func (h *TaxonomyHandler) SaveSkillFamily(c *gin.Context) {
	var req dto.UpsertSkillFamilyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid skill family payload"))
		return
	}
	saved, err := h.service.SaveSkillFamily(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, saved, nil)
}

// DeleteSkillFamily godoc
// @Summary Delete a skill family
// @Tags Taxonomy
// @Param id path string true "Skill family ID"
// @Success 204 {object} response.Envelope
// @Router /taxonomy/skill-families/{id} [delete]
func (h *TaxonomyHandler) DeleteSkillFamily(c *gin.Context) {
	if err := h.service.DeleteSkillFamily(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListSkills godoc
// @Summary List skills, optionally scoped to a family
// @Tags Taxonomy
// @Produce json
// @Param familyId query string false "Skill family filter"
// @Success 200 {object} response.Envelope
// @Router /taxonomy/skills [get]
func (h *TaxonomyHandler) ListSkills(c *gin.Context) {
	list, err := h.service.ListSkills(c.Request.Context(), strings.TrimSpace(c.Query("familyId")))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, list, nil)
}

// SaveSkill godoc
// @Summary Create or update a skill
// @Tags Taxonomy
// @Accept json
// @Produce json
// @Param id path string false "Skill ID"
// @Param payload body dto.UpsertSkillRequest true "Skill payload"
// @Success 200 {object} response.Envelope
// @Router /taxonomy/skills/{id} [put]
func (h *TaxonomyHandler) SaveSkill(c *gin.Context) {
	var req dto.UpsertSkillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid skill payload"))
		return
	}
	saved, err := h.service.SaveSkill(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, saved, nil)
}

// DeleteSkill godoc
// @Summary Delete a skill
// @Tags Taxonomy
// @Param id path string true "Skill ID"
// @Success 204 {object} response.Envelope
// @Router /taxonomy/skills/{id} [delete]
func (h *TaxonomyHandler) DeleteSkill(c *gin.Context) {
	if err := h.service.DeleteSkill(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
