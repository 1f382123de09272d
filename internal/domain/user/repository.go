package user

import "context"

// Repository - interface for the users table
type Repository interface {
	Create(ctx context.Context, u User) (User, error)
	GetByID(ctx context.Context, id string) (User, error)
	GetByEmail(ctx context.Context, companyID, email string) (User, error)
	GetByEmailAnyCompany(ctx context.Context, email string) (User, error)
	ListByCompany(ctx context.Context, companyID string, filter Filter) ([]User, int64, error)
	Update(ctx context.Context, req UpdateStaffRequest) error
	Deactivate(ctx context.Context, id string) error
}

// Filter narrows staff listings
type Filter struct {
	Search     *string
	Role       *string
	Department *string
	Page       int
	Limit      int
}
