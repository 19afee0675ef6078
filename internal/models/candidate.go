package models

import "time"

// CandidateStatus tracks an applicant through screening.
type CandidateStatus string

const (
	CandidateStatusNew         CandidateStatus = "NEW"
	CandidateStatusScreenedIn  CandidateStatus = "SCREENED_IN"
	CandidateStatusScreenedOut CandidateStatus = "SCREENED_OUT"
	CandidateStatusQualified   CandidateStatus = "QUALIFIED"
	CandidateStatusPlaced      CandidateStatus = "PLACED"
)

// Valid reports whether the status is a known screening state.
func (s CandidateStatus) Valid() bool {
	switch s {
	case CandidateStatusNew, CandidateStatusScreenedIn, CandidateStatusScreenedOut,
		CandidateStatusQualified, CandidateStatusPlaced:
		return true
	}
	return false
}

// PoolCandidate is an application submitted to a pool.
type PoolCandidate struct {
	ID          string          `db:"id" json:"id"`
	PoolID      string          `db:"pool_id" json:"poolId"`
	Email       string          `db:"email" json:"email"`
	FullName    string          `db:"full_name" json:"fullName"`
	Status      CandidateStatus `db:"status" json:"status"`
	Notes       *string         `db:"notes" json:"notes,omitempty"`
	SubmittedAt time.Time       `db:"submitted_at" json:"submittedAt"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updatedAt"`
}

// CandidateFilter constrains candidate listing queries.
type CandidateFilter struct {
	PoolID string
	Status []CandidateStatus
	Search string
	Limit  int
	Offset int
}
