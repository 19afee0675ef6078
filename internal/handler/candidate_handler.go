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

type candidateService interface {
	List(ctx context.Context, poolID string, status []models.CandidateStatus, search string, page, pageSize int) ([]models.PoolCandidate, *models.Pagination, error)
	Get(ctx context.Context, id string) (*models.PoolCandidate, error)
	Update(ctx context.Context, id string, req dto.UpdateCandidateRequest) (*models.PoolCandidate, error)
}

// CandidateHandler exposes candidate screening endpoints.
type CandidateHandler struct {
	service candidateService
}

// NewCandidateHandler constructs the handler.
func NewCandidateHandler(service candidateService) *CandidateHandler {
	return &CandidateHandler{service: service}
}

// List godoc
// @Summary List candidates for a pool
// @Tags Candidates
// @Produce json
// @Param id path string true "Pool ID"
// @Param status query string false "Comma separated statuses"
// @Param search query string false "Name or email search"
// @Param page query int false "Page number"
// @Param pageSize query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /pools/{id}/candidates [get]
func (h *CandidateHandler) List(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "candidate service not configured"))
		return
	}
	var statuses []models.CandidateStatus
	if rawStatus := c.Query("status"); rawStatus != "" {
		parts := strings.Split(rawStatus, ",")
		statuses = make([]models.CandidateStatus, 0, len(parts))
		for _, part := range parts {
			part = strings.ToUpper(strings.TrimSpace(part))
			if part == "" {
				continue
			}
			statuses = append(statuses, models.CandidateStatus(part))
		}
	}
	candidates, pagination, err := h.service.List(c.Request.Context(), c.Param("id"), statuses,
		strings.TrimSpace(c.Query("search")), queryInt(c, "page", 1), queryInt(c, "pageSize", 20))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, candidates, pagination)
}

// Get godoc
// @Summary Get candidate detail
// @Tags Candidates
// @Produce json
// @Param id path string true "Candidate ID"
// @Success 200 {object} response.Envelope
// @Router /candidates/{id} [get]
func (h *CandidateHandler) Get(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "candidate service not configured"))
		return
	}
	candidate, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, candidate, nil)
}

// Update godoc
// @Summary Update a candidate's screening status
// @Tags Candidates
// @Accept json
// @Produce json
// @Param id path string true "Candidate ID"
// @Param payload body dto.UpdateCandidateRequest true "Screening update"
// @Success 200 {object} response.Envelope
// @Router /candidates/{id} [put]
func (h *CandidateHandler) Update(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "candidate service not configured"))
		return
	}
	var req dto.UpdateCandidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid candidate payload"))
		return
	}
	candidate, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, candidate, nil)
}
