package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/workbridge/erp-backend-go/internal/domain/settings"
)

// Service reads and writes per-company settings. A company that has
// never saved settings gets the defaults.
type Service interface {
	Get(ctx context.Context, companyID string) (settings.Settings, error)
	Update(ctx context.Context, req settings.UpdateSettingsRequest) (settings.Settings, error)
}

type SettingsServiceImpl struct {
	settings.Repository
}

func NewSettingsService(repo settings.Repository) Service {
	return &SettingsServiceImpl{Repository: repo}
}

// Get implements Service.
func (s *SettingsServiceImpl) Get(ctx context.Context, companyID string) (settings.Settings, error) {
	current, err := s.Repository.Get(ctx, companyID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return settings.Defaults(companyID), nil
		}
		return settings.Settings{}, fmt.Errorf("failed to get settings: %w", err)
	}
	return current, nil
}

// Update implements Service.
func (s *SettingsServiceImpl) Update(ctx context.Context, req settings.UpdateSettingsRequest) (settings.Settings, error) {
	if err := req.Validate(); err != nil {
		return settings.Settings{}, err
	}

	current, err := s.Get(ctx, req.CompanyID)
	if err != nil {
		return settings.Settings{}, err
	}

	if req.Currency != nil {
		current.Currency = *req.Currency
	}
	if req.Theme != nil {
		current.Theme = *req.Theme
	}
	if req.AnnualLeaveQuota != nil {
		current.AnnualLeaveQuota = *req.AnnualLeaveQuota
	}
	if req.SickLeaveQuota != nil {
		current.SickLeaveQuota = *req.SickLeaveQuota
	}
	if req.EmergencyLeaveQuota != nil {
		current.EmergencyLeaveQuota = *req.EmergencyLeaveQuota
	}
	if req.WorkdayStartHour != nil {
		current.WorkdayStartHour = *req.WorkdayStartHour
	}

	if err := s.Repository.Upsert(ctx, current); err != nil {
		return settings.Settings{}, fmt.Errorf("failed to save settings: %w", err)
	}

	return current, nil
}
