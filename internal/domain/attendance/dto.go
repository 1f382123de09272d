package attendance

import (
	"time"

	"github.com/workbridge/erp-backend-go/internal/pkg/validator"
)

type ClockInRequest struct {
	Notes *string `json:"notes,omitempty"`
}

type ListRequest struct {
	UserID string `json:"user_id,omitempty"`
	From   string `json:"from"`
	To     string `json:"to"`
	Page   int    `json:"page"`
	Limit  int    `json:"limit"`
}

func (r *ListRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.From != "" {
		if _, ok := validator.IsValidDate(r.From); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "from",
				Message: "from must be a date in YYYY-MM-DD format",
			})
		}
	}
	if r.To != "" {
		if _, ok := validator.IsValidDate(r.To); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "to",
				Message: "to must be a date in YYYY-MM-DD format",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type RecordResponse struct {
	ID         string     `json:"id"`
	UserID     string     `json:"user_id"`
	UserName   *string    `json:"user_name,omitempty"`
	Date       time.Time  `json:"date"`
	ClockIn    time.Time  `json:"clock_in"`
	ClockOut   *time.Time `json:"clock_out,omitempty"`
	TotalHours *float64   `json:"total_hours,omitempty"`
	Notes      *string    `json:"notes,omitempty"`
}
