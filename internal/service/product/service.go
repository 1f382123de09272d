package product

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/workbridge/erp-backend-go/internal/domain/product"
)

// Service manages the product catalog.
type Service interface {
	Create(ctx context.Context, companyID string, req product.CreateProductRequest) (product.Product, error)
	GetByID(ctx context.Context, companyID, id string) (product.Product, error)
	List(ctx context.Context, companyID string, search *string, page, limit int) ([]product.Product, int64, error)
	Update(ctx context.Context, companyID string, req product.UpdateProductRequest) (product.Product, error)
	Delete(ctx context.Context, companyID, id string) error
}

type ProductServiceImpl struct {
	product.Repository
}

func NewProductService(repo product.Repository) Service {
	return &ProductServiceImpl{Repository: repo}
}

// Create implements Service.
func (s *ProductServiceImpl) Create(ctx context.Context, companyID string, req product.CreateProductRequest) (product.Product, error) {
	if err := req.Validate(); err != nil {
		return product.Product{}, err
	}

	created, err := s.Repository.Create(ctx, product.Product{
		CompanyID:   companyID,
		Name:        req.Name,
		SKU:         req.SKU,
		Description: req.Description,
		UnitPrice:   req.UnitPrice,
		Unit:        req.Unit,
		PictureURL:  req.PictureURL,
	})
	if err != nil {
		if errors.Is(err, product.ErrSKUExists) {
			return product.Product{}, product.ErrSKUExists
		}
		return product.Product{}, fmt.Errorf("failed to create product: %w", err)
	}
	return created, nil
}

// GetByID implements Service.
func (s *ProductServiceImpl) GetByID(ctx context.Context, companyID, id string) (product.Product, error) {
	p, err := s.Repository.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return product.Product{}, product.ErrProductNotFound
		}
		return product.Product{}, fmt.Errorf("failed to get product: %w", err)
	}
	if p.CompanyID != companyID {
		return product.Product{}, product.ErrProductNotFound
	}
	return p, nil
}

// List implements Service.
func (s *ProductServiceImpl) List(ctx context.Context, companyID string, search *string, page, limit int) ([]product.Product, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.Repository.ListByCompany(ctx, companyID, search, page, limit)
}

// Update implements Service.
func (s *ProductServiceImpl) Update(ctx context.Context, companyID string, req product.UpdateProductRequest) (product.Product, error) {
	if err := req.Validate(); err != nil {
		return product.Product{}, err
	}

	if _, err := s.GetByID(ctx, companyID, req.ID); err != nil {
		return product.Product{}, err
	}

	if err := s.Repository.Update(ctx, req); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return product.Product{}, product.ErrProductNotFound
		}
		return product.Product{}, fmt.Errorf("failed to update product: %w", err)
	}

	return s.GetByID(ctx, companyID, req.ID)
}

// Delete implements Service.
func (s *ProductServiceImpl) Delete(ctx context.Context, companyID, id string) error {
	if _, err := s.GetByID(ctx, companyID, id); err != nil {
		return err
	}
	return s.Repository.Delete(ctx, id)
}
