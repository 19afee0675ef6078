package service

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"github.com/govtalent/pool-admin-api/internal/dto"
	"github.com/govtalent/pool-admin-api/internal/models"
	appErrors "github.com/govtalent/pool-admin-api/pkg/errors"
)

type candidateRepository interface {
	List(ctx context.Context, filter models.CandidateFilter) ([]models.PoolCandidate, int, error)
	GetByID(ctx context.Context, id string) (*models.PoolCandidate, error)
	Update(ctx context.Context, candidate *models.PoolCandidate) error
}

// CandidateService manages applications submitted to pools.
type CandidateService struct {
	repo   candidateRepository
	logger *zap.Logger
}

// NewCandidateService constructs the candidate service.
func NewCandidateService(repo candidateRepository, logger *zap.Logger) *CandidateService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CandidateService{repo: repo, logger: logger}
}

// List returns candidates for a pool with pagination metadata.
func (s *CandidateService) List(ctx context.Context, poolID string, status []models.CandidateStatus, search string, page, pageSize int) ([]models.PoolCandidate, *models.Pagination, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	filter := models.CandidateFilter{
		PoolID: poolID,
		Status: status,
		Search: search,
		Limit:  pageSize,
		Offset: (page - 1) * pageSize,
	}
	candidates, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list candidates")
	}
	pagination := &models.Pagination{Page: page, PageSize: pageSize, TotalCount: total}
	return candidates, pagination, nil
}

// Get returns one candidate.
func (s *CandidateService) Get(ctx context.Context, id string) (*models.PoolCandidate, error) {
	candidate, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "candidate not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load candidate")
	}
	return candidate, nil
}

// Update changes a candidate's screening status and notes.
func (s *CandidateService) Update(ctx context.Context, id string, req dto.UpdateCandidateRequest) (*models.PoolCandidate, error) {
	if !req.Status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown candidate status")
	}
	candidate, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	candidate.Status = req.Status
	if req.Notes != nil {
		candidate.Notes = req.Notes
	}
	if err := s.repo.Update(ctx, candidate); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update candidate")
	}
	return candidate, nil
}
