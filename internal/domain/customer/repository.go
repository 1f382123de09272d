package customer

import "context"

// Repository - interface for the customers table
type Repository interface {
	Create(ctx context.Context, c Customer) (Customer, error)
	GetByID(ctx context.Context, id string) (Customer, error)
	ListByCompany(ctx context.Context, companyID string, search *string, page, limit int) ([]Customer, int64, error)
	Update(ctx context.Context, req UpdateCustomerRequest) error
	Delete(ctx context.Context, id string) error
}
