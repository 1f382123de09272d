package invoice

import "time"

type Status string

const (
	StatusDraft     Status = "draft"
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusSent      Status = "sent"
	StatusPaid      Status = "paid"
	StatusCancelled Status = "cancelled"

	// StatusOverdue is derived, never stored: a sent or pending invoice
	// past its due date.
	StatusOverdue Status = "overdue"
)

// Invoice entity
type Invoice struct {
	ID        string
	CompanyID string
	CreatedBy string

	Number     string
	CustomerID string
	Status     Status

	IssueDate time.Time
	DueDate   time.Time

	Subtotal float64
	TaxRate  float64
	TaxTotal float64
	Total    float64
	Notes    *string

	Items []Item

	CreatedAt time.Time
	UpdatedAt time.Time

	// Relationship (for responses)
	CustomerName *string
}

// Item is a single invoice line
type Item struct {
	ID          string
	InvoiceID   string
	ProductID   *string
	Description string
	Quantity    float64
	UnitPrice   float64
	LineTotal   float64
}

// EffectiveStatus resolves the derived overdue state against now.
func (i Invoice) EffectiveStatus(now time.Time) Status {
	if (i.Status == StatusSent || i.Status == StatusPending) && i.DueDate.Before(now) {
		return StatusOverdue
	}
	return i.Status
}
