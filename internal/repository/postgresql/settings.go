package postgresql

import (
	"context"
	"fmt"

	"github.com/workbridge/erp-backend-go/internal/domain/settings"
	"github.com/workbridge/erp-backend-go/internal/pkg/database"
)

type settingsRepositoryImpl struct {
	db *database.DB
}

func NewSettingsRepository(db *database.DB) settings.Repository {
	return &settingsRepositoryImpl{db: db}
}

// Get implements settings.Repository.
func (r *settingsRepositoryImpl) Get(ctx context.Context, companyID string) (settings.Settings, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT company_id, currency, theme, annual_leave_quota, sick_leave_quota, emergency_leave_quota, workday_start_hour, updated_at
		FROM company_settings
		WHERE company_id = $1`

	var s settings.Settings
	err := q.QueryRow(ctx, query, companyID).Scan(
		&s.CompanyID, &s.Currency, &s.Theme,
		&s.AnnualLeaveQuota, &s.SickLeaveQuota, &s.EmergencyLeaveQuota,
		&s.WorkdayStartHour, &s.UpdatedAt,
	)
	if err != nil {
		return settings.Settings{}, err
	}
	return s, nil
}

// Upsert implements settings.Repository.
func (r *settingsRepositoryImpl) Upsert(ctx context.Context, s settings.Settings) error {
	q := GetQuerier(ctx, r.db)

	_, err := q.Exec(ctx, `
		INSERT INTO company_settings (company_id, currency, theme, annual_leave_quota, sick_leave_quota, emergency_leave_quota, workday_start_hour, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		ON CONFLICT (company_id) DO UPDATE SET
			currency = EXCLUDED.currency,
			theme = EXCLUDED.theme,
			annual_leave_quota = EXCLUDED.annual_leave_quota,
			sick_leave_quota = EXCLUDED.sick_leave_quota,
			emergency_leave_quota = EXCLUDED.emergency_leave_quota,
			workday_start_hour = EXCLUDED.workday_start_hour,
			updated_at = NOW()`,
		s.CompanyID, s.Currency, s.Theme,
		s.AnnualLeaveQuota, s.SickLeaveQuota, s.EmergencyLeaveQuota,
		s.WorkdayStartHour,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert company settings: %w", err)
	}
	return nil
}
