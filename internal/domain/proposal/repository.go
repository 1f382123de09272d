package proposal

import (
	"context"
	"time"
)

// Repository - interface for the proposals and proposal_items tables
type Repository interface {
	Create(ctx context.Context, p Proposal) (Proposal, error)
	GetByID(ctx context.Context, id string) (Proposal, error)
	ListByCompany(ctx context.Context, companyID string, filter Filter) ([]Proposal, int64, error)
	UpdateStatus(ctx context.Context, id string, status Status) error
	Delete(ctx context.Context, id string) error

	CountForMonth(ctx context.Context, companyID string, t time.Time) (int, error)
	// StatusCounts returns per-status counts for a company, used by the
	// assistant's proposal replies.
	StatusCounts(ctx context.Context, companyID string, createdBy *string) (map[Status]int, error)
}

// Filter narrows proposal listings
type Filter struct {
	Status     *string
	CustomerID *string
	CreatedBy  *string
	Page       int
	Limit      int
}
