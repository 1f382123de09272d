package insight

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

type Type string

const (
	TypeFinancial   Type = "financial"
	TypePerformance Type = "performance"
	TypeAttendance  Type = "attendance"
	TypeRisk        Type = "risk"
)

type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Insight entity - a persisted point-in-time analysis record. Insights
// are created once and never mutated; deletion is an explicit admin
// action.
type Insight struct {
	ID        string
	CompanyID string
	UserID    *string

	Type            Type
	Title           string
	Description     string
	Severity        Severity
	Recommendations []string
	Data            Payload

	CreatedAt time.Time
}

// Payload is the free-form analysis data attached to an insight,
// stored as JSONB.
type Payload map[string]any

// Value implements driver.Valuer for database storage
func (p Payload) Value() (driver.Value, error) {
	if p == nil {
		return nil, nil
	}
	return json.Marshal(p)
}

// Scan implements sql.Scanner for database retrieval
func (p *Payload) Scan(value interface{}) error {
	if value == nil {
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to scan insight payload: invalid type")
	}

	return json.Unmarshal(bytes, p)
}

// ValidType reports whether s names a known insight type.
func ValidType(s string) bool {
	switch Type(s) {
	case TypeFinancial, TypePerformance, TypeAttendance, TypeRisk:
		return true
	}
	return false
}
