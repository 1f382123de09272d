package company

import "context"

// Repository - interface for the companies table
type Repository interface {
	Create(ctx context.Context, c Company) (Company, error)
	GetByID(ctx context.Context, id string) (Company, error)
	GetBySlug(ctx context.Context, slug string) (Company, error)
	Update(ctx context.Context, req UpdateCompanyRequest) error
	ListIDs(ctx context.Context) ([]string, error)
}
