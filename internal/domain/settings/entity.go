package settings

import "time"

// Settings entity - per-company application settings. The server-side
// source of truth for what clients cache (theme, currency) plus the
// leave quotas the balance computation reads.
type Settings struct {
	CompanyID string

	Currency string
	Theme    string

	AnnualLeaveQuota    float64
	SickLeaveQuota      float64
	EmergencyLeaveQuota float64

	// WorkdayStartHour is the clock-in hour at or after which an
	// arrival counts as late.
	WorkdayStartHour int

	UpdatedAt time.Time
}

// Defaults returns the settings applied to a newly registered company.
func Defaults(companyID string) Settings {
	return Settings{
		CompanyID:           companyID,
		Currency:            "USD",
		Theme:               "light",
		AnnualLeaveQuota:    12,
		SickLeaveQuota:      14,
		EmergencyLeaveQuota: 5,
		WorkdayStartHour:    9,
	}
}
