package insight

import (
	"time"

	"github.com/workbridge/erp-backend-go/internal/pkg/validator"
)

type GenerateInsightRequest struct {
	Type string `json:"type"`
}

func (r *GenerateInsightRequest) Validate() error {
	var errs validator.ValidationErrors

	if !ValidType(r.Type) {
		errs = append(errs, validator.ValidationError{
			Field:   "type",
			Message: "type must be one of: financial, performance, attendance, risk",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type InsightResponse struct {
	ID              string    `json:"id"`
	Type            string    `json:"type"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Severity        string    `json:"severity"`
	Recommendations []string  `json:"recommendations"`
	Data            Payload   `json:"data,omitempty"`
	UserID          *string   `json:"user_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

type ListInsightsResponse struct {
	TotalCount int64             `json:"total_count"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"total_pages"`
	Insights   []InsightResponse `json:"insights"`
}
