package invoice

import (
	"context"
	"time"
)

// Repository - interface for the invoices and invoice_items tables
type Repository interface {
	// Create inserts the invoice and its items in one transaction.
	// A unique violation on the number column returns ErrNumberConflict.
	Create(ctx context.Context, inv Invoice) (Invoice, error)
	GetByID(ctx context.Context, id string) (Invoice, error)
	ListByCompany(ctx context.Context, companyID string, filter Filter) ([]Invoice, int64, error)
	UpdateStatus(ctx context.Context, id string, status Status) error
	Delete(ctx context.Context, id string) error

	// CountForMonth counts invoices issued by a company in the month
	// containing t, used for sequential numbering.
	CountForMonth(ctx context.Context, companyID string, t time.Time) (int, error)
	// ListOverdue returns sent/pending invoices whose due date has
	// passed.
	ListOverdue(ctx context.Context, companyID string, now time.Time) ([]Invoice, error)
	// OverdueRatio reports overdue count over all non-cancelled, along
	// with the totals, for risk scoring.
	OverdueRatio(ctx context.Context, companyID string, now time.Time) (overdue, total int, err error)
}

// Filter narrows invoice listings
type Filter struct {
	Status     *string
	CustomerID *string
	CreatedBy  *string
	Page       int
	Limit      int
}
