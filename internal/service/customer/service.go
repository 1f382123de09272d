package customer

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/workbridge/erp-backend-go/internal/domain/customer"
)

// Service manages the customer directory.
type Service interface {
	Create(ctx context.Context, companyID string, req customer.CreateCustomerRequest) (customer.Customer, error)
	GetByID(ctx context.Context, companyID, id string) (customer.Customer, error)
	List(ctx context.Context, companyID string, search *string, page, limit int) ([]customer.Customer, int64, error)
	Update(ctx context.Context, companyID string, req customer.UpdateCustomerRequest) (customer.Customer, error)
	Delete(ctx context.Context, companyID, id string) error
}

type CustomerServiceImpl struct {
	customer.Repository
}

func NewCustomerService(repo customer.Repository) Service {
	return &CustomerServiceImpl{Repository: repo}
}

// Create implements Service.
func (s *CustomerServiceImpl) Create(ctx context.Context, companyID string, req customer.CreateCustomerRequest) (customer.Customer, error) {
	if err := req.Validate(); err != nil {
		return customer.Customer{}, err
	}

	created, err := s.Repository.Create(ctx, customer.Customer{
		CompanyID:     companyID,
		Name:          req.Name,
		Email:         req.Email,
		Phone:         req.Phone,
		Address:       req.Address,
		ContactPerson: req.ContactPerson,
	})
	if err != nil {
		return customer.Customer{}, fmt.Errorf("failed to create customer: %w", err)
	}
	return created, nil
}

// GetByID implements Service.
func (s *CustomerServiceImpl) GetByID(ctx context.Context, companyID, id string) (customer.Customer, error) {
	c, err := s.Repository.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return customer.Customer{}, customer.ErrCustomerNotFound
		}
		return customer.Customer{}, fmt.Errorf("failed to get customer: %w", err)
	}
	if c.CompanyID != companyID {
		return customer.Customer{}, customer.ErrCustomerNotFound
	}
	return c, nil
}

// List implements Service.
func (s *CustomerServiceImpl) List(ctx context.Context, companyID string, search *string, page, limit int) ([]customer.Customer, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.Repository.ListByCompany(ctx, companyID, search, page, limit)
}

// Update implements Service.
func (s *CustomerServiceImpl) Update(ctx context.Context, companyID string, req customer.UpdateCustomerRequest) (customer.Customer, error) {
	if err := req.Validate(); err != nil {
		return customer.Customer{}, err
	}

	if _, err := s.GetByID(ctx, companyID, req.ID); err != nil {
		return customer.Customer{}, err
	}

	if err := s.Repository.Update(ctx, req); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return customer.Customer{}, customer.ErrCustomerNotFound
		}
		return customer.Customer{}, fmt.Errorf("failed to update customer: %w", err)
	}

	return s.GetByID(ctx, companyID, req.ID)
}

// Delete implements Service.
func (s *CustomerServiceImpl) Delete(ctx context.Context, companyID, id string) error {
	if _, err := s.GetByID(ctx, companyID, id); err != nil {
		return err
	}
	return s.Repository.Delete(ctx, id)
}
