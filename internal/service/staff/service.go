package staff

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/workbridge/erp-backend-go/internal/domain/company"
	"github.com/workbridge/erp-backend-go/internal/domain/user"
	"github.com/workbridge/erp-backend-go/internal/pkg/email"
	"github.com/workbridge/erp-backend-go/internal/pkg/task"
)

// Service manages staff accounts within a company.
type Service interface {
	Create(ctx context.Context, companyID string, req user.CreateStaffRequest) (user.StaffResponse, error)
	GetByID(ctx context.Context, companyID, id string) (user.StaffResponse, error)
	List(ctx context.Context, companyID string, filter user.Filter) (user.ListStaffResponse, error)
	Update(ctx context.Context, companyID string, req user.UpdateStaffRequest) (user.StaffResponse, error)
	Deactivate(ctx context.Context, companyID, id string) error
}

type StaffServiceImpl struct {
	user.Repository
	companyRepo  company.Repository
	emailService email.EmailService
	tasks        *task.Runner
	loginURL     string
}

func NewStaffService(
	userRepo user.Repository,
	companyRepo company.Repository,
	emailService email.EmailService,
	tasks *task.Runner,
	loginURL string,
) Service {
	return &StaffServiceImpl{
		Repository:   userRepo,
		companyRepo:  companyRepo,
		emailService: emailService,
		tasks:        tasks,
		loginURL:     loginURL,
	}
}

// Create implements Service. The welcome email goes out on a detached
// task: staff creation must not fail because SMTP is down.
func (s *StaffServiceImpl) Create(ctx context.Context, companyID string, req user.CreateStaffRequest) (user.StaffResponse, error) {
	if err := req.Validate(); err != nil {
		return user.StaffResponse{}, err
	}

	_, err := s.Repository.GetByEmail(ctx, companyID, req.Email)
	if err == nil {
		return user.StaffResponse{}, user.ErrEmailExists
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return user.StaffResponse{}, fmt.Errorf("failed to check staff email: %w", err)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return user.StaffResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	created, err := s.Repository.Create(ctx, user.User{
		CompanyID:    companyID,
		Email:        req.Email,
		PasswordHash: string(passwordHash),
		FullName:     req.FullName,
		Role:         user.RoleStaff,
		Position:     req.Position,
		Department:   req.Department,
		Phone:        req.Phone,
	})
	if err != nil {
		return user.StaffResponse{}, fmt.Errorf("failed to create staff: %w", err)
	}

	comp, err := s.companyRepo.GetByID(ctx, companyID)
	if err != nil {
		return user.StaffResponse{}, fmt.Errorf("failed to get company: %w", err)
	}

	s.tasks.Go("staff-welcome-email", func(ctx context.Context) error {
		return s.emailService.SendWelcome(created.Email, created.FullName, comp.Name, req.Password, s.loginURL)
	})

	return toStaffResponse(created), nil
}

// GetByID implements Service.
func (s *StaffServiceImpl) GetByID(ctx context.Context, companyID, id string) (user.StaffResponse, error) {
	u, err := s.Repository.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.StaffResponse{}, user.ErrUserNotFound
		}
		return user.StaffResponse{}, fmt.Errorf("failed to get staff: %w", err)
	}
	if u.CompanyID != companyID {
		return user.StaffResponse{}, user.ErrUserNotFound
	}

	return toStaffResponse(u), nil
}

// List implements Service.
func (s *StaffServiceImpl) List(ctx context.Context, companyID string, filter user.Filter) (user.ListStaffResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}

	users, total, err := s.Repository.ListByCompany(ctx, companyID, filter)
	if err != nil {
		return user.ListStaffResponse{}, fmt.Errorf("failed to list staff: %w", err)
	}

	staff := make([]user.StaffResponse, 0, len(users))
	for _, u := range users {
		staff = append(staff, toStaffResponse(u))
	}

	return user.ListStaffResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages(total, filter.Limit),
		Staff:      staff,
	}, nil
}

// Update implements Service.
func (s *StaffServiceImpl) Update(ctx context.Context, companyID string, req user.UpdateStaffRequest) (user.StaffResponse, error) {
	if err := req.Validate(); err != nil {
		return user.StaffResponse{}, err
	}

	if _, err := s.GetByID(ctx, companyID, req.ID); err != nil {
		return user.StaffResponse{}, err
	}

	if err := s.Repository.Update(ctx, req); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.StaffResponse{}, user.ErrUserNotFound
		}
		return user.StaffResponse{}, fmt.Errorf("failed to update staff: %w", err)
	}

	return s.GetByID(ctx, companyID, req.ID)
}

// Deactivate implements Service.
func (s *StaffServiceImpl) Deactivate(ctx context.Context, companyID, id string) error {
	if _, err := s.GetByID(ctx, companyID, id); err != nil {
		return err
	}

	if err := s.Repository.Deactivate(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.ErrUserNotFound
		}
		return fmt.Errorf("failed to deactivate staff: %w", err)
	}
	return nil
}

func toStaffResponse(u user.User) user.StaffResponse {
	return user.StaffResponse{
		ID:         u.ID,
		CompanyID:  u.CompanyID,
		Email:      u.Email,
		FullName:   u.FullName,
		Role:       string(u.Role),
		Position:   u.Position,
		Department: u.Department,
		Phone:      u.Phone,
		AvatarURL:  u.AvatarURL,
		IsActive:   u.IsActive,
		CreatedAt:  u.CreatedAt,
	}
}

func totalPages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	pages := int(total) / limit
	if int(total)%limit != 0 {
		pages++
	}
	return pages
}
