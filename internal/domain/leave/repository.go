package leave

import "context"

// Repository - interface for the leave_requests table
type Repository interface {
	Create(ctx context.Context, req Request) (Request, error)
	GetByID(ctx context.Context, id string) (Request, error)
	ListByUser(ctx context.Context, userID string, filter Filter) ([]Request, int64, error)
	ListByCompany(ctx context.Context, companyID string, filter Filter) ([]Request, int64, error)
	UpdateStatus(ctx context.Context, id string, status Status, approvedBy *string, rejectionReason *string) error
	// UsedDays sums approved working days per leave type for a user in
	// the given year.
	UsedDays(ctx context.Context, userID string, year int) (map[Type]float64, error)
}

// Filter narrows leave request listings
type Filter struct {
	Type   *string
	Status *string
	Page   int
	Limit  int
}
