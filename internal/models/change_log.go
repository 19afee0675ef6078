package models

import (
	"encoding/json"
	"time"
)

// PoolChangeLog records every edit applied to a published pool. The
// justification is mandatory: published advertisements are externally
// visible, so each change must be auditable.
type PoolChangeLog struct {
	ID            string          `db:"id" json:"id"`
	PoolID        string          `db:"pool_id" json:"poolId"`
	Section       SectionID       `db:"section" json:"section"`
	Changes       json.RawMessage `db:"changes" json:"changes"`
	Justification string          `db:"justification" json:"justification"`
	CreatedBy     string          `db:"created_by" json:"createdBy"`
	CreatedAt     time.Time       `db:"created_at" json:"createdAt"`
}
