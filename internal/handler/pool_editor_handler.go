package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/govtalent/pool-admin-api/internal/dto"
	"github.com/govtalent/pool-admin-api/internal/models"
	appErrors "github.com/govtalent/pool-admin-api/pkg/errors"
	"github.com/govtalent/pool-admin-api/pkg/response"
)

type poolEditorService interface {
	EditView(ctx context.Context, poolID, userID string) (*dto.EditView, error)
	OpenSection(ctx context.Context, poolID, userID string, sectionID models.SectionID) (*dto.EditView, error)
	CancelSection(ctx context.Context, poolID, userID string, sectionID models.SectionID) (*dto.EditView, error)
	SaveSection(ctx context.Context, poolID, userID string, sectionID models.SectionID, draft dto.PoolSectionDraft) (*dto.EditView, error)
}

// PoolEditorHandler exposes the section-by-section edit page endpoints.
type PoolEditorHandler struct {
	service poolEditorService
}

// NewPoolEditorHandler constructs the handler.
func NewPoolEditorHandler(service poolEditorService) *PoolEditorHandler {
	return &PoolEditorHandler{service: service}
}

// EditView godoc
// @Summary Get the edit page state for a pool
// @Tags Pool editor
// @Produce json
// @Param id path string true "Pool ID"
// @Success 200 {object} response.Envelope
// @Router /pools/{id}/edit [get]
func (h *PoolEditorHandler) EditView(c *gin.Context) {
	h.withSession(c, func(ctx context.Context, poolID, userID string) (*dto.EditView, error) {
		return h.service.EditView(ctx, poolID, userID)
	})
}

// OpenSection godoc
// @Summary Open one section for editing
// @Tags Pool editor
// @Produce json
// @Param id path string true "Pool ID"
// @Param section path string true "Section ID"
// @Success 200 {object} response.Envelope
// @Router /pools/{id}/edit/sections/{section}/open [post]
func (h *PoolEditorHandler) OpenSection(c *gin.Context) {
	h.withSession(c, func(ctx context.Context, poolID, userID string) (*dto.EditView, error) {
		return h.service.OpenSection(ctx, poolID, userID, models.SectionID(c.Param("section")))
	})
}

// CancelSection godoc
// @Summary Discard the draft and close one section
// @Tags Pool editor
// @Produce json
// @Param id path string true "Pool ID"
// @Param section path string true "Section ID"
// @Success 200 {object} response.Envelope
// @Router /pools/{id}/edit/sections/{section}/cancel [post]
func (h *PoolEditorHandler) CancelSection(c *gin.Context) {
	h.withSession(c, func(ctx context.Context, poolID, userID string) (*dto.EditView, error) {
		return h.service.CancelSection(ctx, poolID, userID, models.SectionID(c.Param("section")))
	})
}

// SaveSection godoc
// @Summary Save one section's draft
// @Tags Pool editor
// @Accept json
// @Produce json
// @Param id path string true "Pool ID"
// @Param section path string true "Section ID"
// @Param payload body dto.PoolSectionDraft true "Section draft"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /pools/{id}/edit/sections/{section} [put]
func (h *PoolEditorHandler) SaveSection(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "pool editor service not configured"))
		return
	}
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var draft dto.PoolSectionDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid section draft"))
		return
	}
	view, err := h.service.SaveSection(c.Request.Context(), c.Param("id"), claims.UserID, models.SectionID(c.Param("section")), draft)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}

func (h *PoolEditorHandler) withSession(c *gin.Context, fn func(ctx context.Context, poolID, userID string) (*dto.EditView, error)) {
	if h.service == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "pool editor service not configured"))
		return
	}
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	view, err := fn(c.Request.Context(), c.Param("id"), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}
