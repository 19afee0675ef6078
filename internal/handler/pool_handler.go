package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/govtalent/pool-admin-api/internal/dto"
	"github.com/govtalent/pool-admin-api/internal/models"
	appErrors "github.com/govtalent/pool-admin-api/pkg/errors"
	"github.com/govtalent/pool-admin-api/pkg/response"
)

type poolService interface {
	List(ctx context.Context, query dto.PoolQuery) ([]models.Pool, *models.Pagination, error)
	Get(ctx context.Context, id string) (*models.Pool, error)
	Create(ctx context.Context, req dto.CreatePoolRequest) (*models.Pool, error)
	Publish(ctx context.Context, id string) (*models.Pool, error)
	Close(ctx context.Context, id string) (*models.Pool, error)
	Extend(ctx context.Context, id string, req dto.ExtendPoolRequest) (*models.Pool, error)
	Archive(ctx context.Context, id string) (*models.Pool, error)
	Unarchive(ctx context.Context, id string) (*models.Pool, error)
	Delete(ctx context.Context, id string) error
	Duplicate(ctx context.Context, id string) (*models.Pool, error)
	ListChangeLogs(ctx context.Context, poolID string, limit int) ([]models.PoolChangeLog, error)
}

// PoolHandler exposes REST endpoints for pool CRUD and lifecycle actions.
type PoolHandler struct {
	service poolService
}

// NewPoolHandler constructs the handler.
func NewPoolHandler(service poolService) *PoolHandler {
	return &PoolHandler{service: service}
}

// List godoc
// @Summary List recruitment pools
// @Tags Pools
// @Produce json
// @Param status query string false "Comma separated statuses"
// @Param classificationId query string false "Classification filter"
// @Param departmentId query string false "Department filter"
// @Param search query string false "Name search"
// @Param page query int false "Page number"
// @Param pageSize query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /pools [get]
func (h *PoolHandler) List(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "pool service not configured"))
		return
	}
	query := dto.PoolQuery{
		ClassificationID: strings.TrimSpace(c.Query("classificationId")),
		DepartmentID:     strings.TrimSpace(c.Query("departmentId")),
		Search:           strings.TrimSpace(c.Query("search")),
		Page:             queryInt(c, "page", 1),
		PageSize:         queryInt(c, "pageSize", 20),
	}
	if rawStatus := c.Query("status"); rawStatus != "" {
		parts := strings.Split(rawStatus, ",")
		statuses := make([]models.PoolStatus, 0, len(parts))
		for _, part := range parts {
			part = strings.ToUpper(strings.TrimSpace(part))
			if status := models.PoolStatus(part); status.Valid() {
				statuses = append(statuses, status)
			}
		}
		query.Status = statuses
	}
	pools, pagination, err := h.service.List(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, pools, pagination)
}

// Get godoc
// @Summary Get pool detail
// @Tags Pools
// @Produce json
// @Param id path string true "Pool ID"
// @Success 200 {object} response.Envelope
// @Router /pools/{id} [get]
func (h *PoolHandler) Get(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "pool service not configured"))
		return
	}
	pool, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, pool, nil)
}

// Create godoc
// @Summary Create a draft pool
// @Tags Pools
// @Accept json
// @Produce json
// @Param payload body dto.CreatePoolRequest true "Pool payload"
// @Success 201 {object} response.Envelope
// @Router /pools [post]
func (h *PoolHandler) Create(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "pool service not configured"))
		return
	}
	var req dto.CreatePoolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid pool payload"))
		return
	}
	pool, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, pool, nil)
}

// Delete godoc
// @Summary Delete a draft pool
// @Tags Pools
// @Param id path string true "Pool ID"
// @Success 204 {object} response.Envelope
// @Router /pools/{id} [delete]
func (h *PoolHandler) Delete(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "pool service not configured"))
		return
	}
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Publish godoc
// @Summary Publish a draft pool
// @Tags Pools
// @Produce json
// @Param id path string true "Pool ID"
// @Success 200 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Router /pools/{id}/publish [post]
func (h *PoolHandler) Publish(c *gin.Context) {
	h.lifecycle(c, h.service.Publish)
}

// Close godoc
// @Summary Close a published pool
// @Tags Pools
// @Produce json
// @Param id path string true "Pool ID"
// @Success 200 {object} response.Envelope
// @Router /pools/{id}/close [post]
func (h *PoolHandler) Close(c *gin.Context) {
	h.lifecycle(c, h.service.Close)
}

// Archive godoc
// @Summary Archive a closed pool
// @Tags Pools
// @Produce json
// @Param id path string true "Pool ID"
// @Success 200 {object} response.Envelope
// @Router /pools/{id}/archive [post]
func (h *PoolHandler) Archive(c *gin.Context) {
	h.lifecycle(c, h.service.Archive)
}

// Unarchive godoc
// @Summary Restore an archived pool to closed
// @Tags Pools
// @Produce json
// @Param id path string true "Pool ID"
// @Success 200 {object} response.Envelope
// @Router /pools/{id}/unarchive [post]
func (h *PoolHandler) Unarchive(c *gin.Context) {
	h.lifecycle(c, h.service.Unarchive)
}

// Duplicate godoc
// @Summary Duplicate a pool as a new draft
// @Tags Pools
// @Produce json
// @Param id path string true "Pool ID"
// @Success 201 {object} response.Envelope
// @Router /pools/{id}/duplicate [post]
func (h *PoolHandler) Duplicate(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "pool service not configured"))
		return
	}
	pool, err := h.service.Duplicate(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, pool, nil)
}

// Extend godoc
// @Summary Extend a pool's closing date
// @Tags Pools
// @Accept json
// @Produce json
// @Param id path string true "Pool ID"
// @Param payload body dto.ExtendPoolRequest true "New closing date"
// @Success 200 {object} response.Envelope
// @Router /pools/{id}/extend [post]
func (h *PoolHandler) Extend(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "pool service not configured"))
		return
	}
	var req dto.ExtendPoolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid extend payload"))
		return
	}
	pool, err := h.service.Extend(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, pool, nil)
}

// ChangeLogs godoc
// @Summary List the change history of a published pool
// @Tags Pools
// @Produce json
// @Param id path string true "Pool ID"
// @Param limit query int false "Maximum entries"
// @Success 200 {object} response.Envelope
// @Router /pools/{id}/change-logs [get]
func (h *PoolHandler) ChangeLogs(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "pool service not configured"))
		return
	}
	logs, err := h.service.ListChangeLogs(c.Request.Context(), c.Param("id"), queryInt(c, "limit", 50))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, logs, nil)
}

func (h *PoolHandler) lifecycle(c *gin.Context, action func(context.Context, string) (*models.Pool, error)) {
	if h.service == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "pool service not configured"))
		return
	}
	pool, err := action(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, pool, nil)
}

func queryInt(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}
