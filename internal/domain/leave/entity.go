package leave

import "time"

type Type string

const (
	TypeAnnual    Type = "annual"
	TypeSick      Type = "sick"
	TypeEmergency Type = "emergency"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Request entity - a leave request
type Request struct {
	ID        string
	CompanyID string
	UserID    string

	Type      Type
	StartDate time.Time
	EndDate   time.Time
	TotalDays float64
	Reason    string

	Status          Status
	ApprovedBy      *string
	ApprovedAt      *time.Time
	RejectionReason *string

	CreatedAt time.Time
	UpdatedAt time.Time

	// Relationship (for responses)
	UserName *string
}

// TypeBalance holds the per-type figures for one user and year.
type TypeBalance struct {
	Total     float64 `json:"total"`
	Used      float64 `json:"used"`
	Remaining float64 `json:"remaining"`
}

// Balance is the per-user leave balance across the three leave types.
type Balance struct {
	UserID    string      `json:"user_id"`
	Year      int         `json:"year"`
	Annual    TypeBalance `json:"annual"`
	Sick      TypeBalance `json:"sick"`
	Emergency TypeBalance `json:"emergency"`
}
