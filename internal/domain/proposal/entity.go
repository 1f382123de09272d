package proposal

import "time"

type Status string

const (
	StatusDraft    Status = "draft"
	StatusSent     Status = "sent"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
	StatusExpired  Status = "expired"
)

// Proposal entity
type Proposal struct {
	ID        string
	CompanyID string
	CreatedBy string

	Number     string
	CustomerID string
	Title      string
	Status     Status

	ValidUntil time.Time
	Total      float64
	Notes      *string

	Items []Item

	CreatedAt time.Time
	UpdatedAt time.Time

	// Relationship (for responses)
	CustomerName *string
}

// Item is a single proposal line
type Item struct {
	ID          string
	ProposalID  string
	Description string
	Quantity    float64
	UnitPrice   float64
	LineTotal   float64
}
