package dto

import (
	"time"

	"github.com/govtalent/pool-admin-api/internal/models"
)

// UpdateCandidateRequest changes a candidate's screening status and notes.
type UpdateCandidateRequest struct {
	Status models.CandidateStatus `json:"status" binding:"required"`
	Notes  *string                `json:"notes,omitempty"`
}

// ExportCandidatesRequest starts a candidate export job.
type ExportCandidatesRequest struct {
	Format models.ExportFormat `json:"format" binding:"required,oneof=CSV PDF"`
}

// ExportJobView is the export job projection returned to clients; the
// download URL is populated once the job completes.
type ExportJobView struct {
	ID          string                 `json:"id"`
	PoolID      string                 `json:"poolId"`
	Format      models.ExportFormat    `json:"format"`
	Status      models.ExportJobStatus `json:"status"`
	DownloadURL string                 `json:"downloadUrl,omitempty"`
	ExpiresAt   *time.Time             `json:"expiresAt,omitempty"`
	Error       string                 `json:"error,omitempty"`
	CreatedAt   time.Time              `json:"createdAt"`
	CompletedAt *time.Time             `json:"completedAt,omitempty"`
}
