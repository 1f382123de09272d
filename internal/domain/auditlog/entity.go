package auditlog

import "time"

// Entry entity - an append-only record of a mutating action
type Entry struct {
	ID        string
	CompanyID string
	ActorID   string

	Action   string // e.g. "invoice.create", "leave.approve"
	Entity   string
	EntityID string
	Detail   map[string]any

	CreatedAt time.Time
}
