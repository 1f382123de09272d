package settings

import "github.com/workbridge/erp-backend-go/internal/pkg/validator"

type UpdateSettingsRequest struct {
	CompanyID           string   `json:"-"`
	Currency            *string  `json:"currency,omitempty"`
	Theme               *string  `json:"theme,omitempty"`
	AnnualLeaveQuota    *float64 `json:"annual_leave_quota,omitempty"`
	SickLeaveQuota      *float64 `json:"sick_leave_quota,omitempty"`
	EmergencyLeaveQuota *float64 `json:"emergency_leave_quota,omitempty"`
	WorkdayStartHour    *int     `json:"workday_start_hour,omitempty"`
}

func (r *UpdateSettingsRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Currency != nil && !validator.IsValidCurrency(*r.Currency) {
		errs = append(errs, validator.ValidationError{
			Field:   "currency",
			Message: "currency must be a three-letter ISO 4217 code",
		})
	}
	if r.Theme != nil && !validator.IsInSlice(*r.Theme, []string{"light", "dark"}) {
		errs = append(errs, validator.ValidationError{
			Field:   "theme",
			Message: "theme must be one of: light, dark",
		})
	}
	for field, quota := range map[string]*float64{
		"annual_leave_quota":    r.AnnualLeaveQuota,
		"sick_leave_quota":      r.SickLeaveQuota,
		"emergency_leave_quota": r.EmergencyLeaveQuota,
	} {
		if quota != nil && *quota < 0 {
			errs = append(errs, validator.ValidationError{
				Field:   field,
				Message: field + " must not be negative",
			})
		}
	}
	if r.WorkdayStartHour != nil && (*r.WorkdayStartHour < 0 || *r.WorkdayStartHour > 23) {
		errs = append(errs, validator.ValidationError{
			Field:   "workday_start_hour",
			Message: "workday_start_hour must be between 0 and 23",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}
