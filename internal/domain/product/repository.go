package product

import "context"

// Repository - interface for the products table
type Repository interface {
	Create(ctx context.Context, p Product) (Product, error)
	GetByID(ctx context.Context, id string) (Product, error)
	ListByCompany(ctx context.Context, companyID string, search *string, page, limit int) ([]Product, int64, error)
	Update(ctx context.Context, req UpdateProductRequest) error
	Delete(ctx context.Context, id string) error
}
