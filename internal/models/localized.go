package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// LocalizedString holds the bilingual value of a content field. It is
// persisted as a JSONB column.
type LocalizedString struct {
	En string `json:"en"`
	Fr string `json:"fr"`
}

// IsEmpty reports whether both language values are blank.
func (l LocalizedString) IsEmpty() bool {
	return strings.TrimSpace(l.En) == "" && strings.TrimSpace(l.Fr) == ""
}

// IsComplete reports whether both language values are filled in.
func (l LocalizedString) IsComplete() bool {
	return strings.TrimSpace(l.En) != "" && strings.TrimSpace(l.Fr) != ""
}

// HasGap reports whether exactly one of the two language values is filled.
func (l LocalizedString) HasGap() bool {
	return !l.IsEmpty() && !l.IsComplete()
}

// Value implements driver.Valuer.
func (l LocalizedString) Value() (driver.Value, error) {
	return json.Marshal(l)
}

// Scan implements sql.Scanner.
func (l *LocalizedString) Scan(src interface{}) error {
	if src == nil {
		*l = LocalizedString{}
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("unsupported localized string source type %T", src)
	}
}
