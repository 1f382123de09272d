package company

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/workbridge/erp-backend-go/internal/domain/company"
)

// Service exposes tenant profile management.
type Service interface {
	Get(ctx context.Context, id string) (company.Company, error)
	Update(ctx context.Context, req company.UpdateCompanyRequest) (company.Company, error)
}

type CompanyServiceImpl struct {
	company.Repository
}

func NewCompanyService(repo company.Repository) Service {
	return &CompanyServiceImpl{Repository: repo}
}

// Get implements Service.
func (s *CompanyServiceImpl) Get(ctx context.Context, id string) (company.Company, error) {
	c, err := s.Repository.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return company.Company{}, company.ErrCompanyNotFound
		}
		return company.Company{}, fmt.Errorf("failed to get company: %w", err)
	}
	return c, nil
}

// Update implements Service.
func (s *CompanyServiceImpl) Update(ctx context.Context, req company.UpdateCompanyRequest) (company.Company, error) {
	if err := req.Validate(); err != nil {
		return company.Company{}, err
	}

	if err := s.Repository.Update(ctx, req); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return company.Company{}, company.ErrCompanyNotFound
		}
		return company.Company{}, fmt.Errorf("failed to update company: %w", err)
	}

	return s.Get(ctx, req.ID)
}
