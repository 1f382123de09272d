package proposal

import (
	"time"

	"github.com/workbridge/erp-backend-go/internal/pkg/validator"
)

type CreateItemRequest struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
}

type CreateProposalRequest struct {
	CustomerID string              `json:"customer_id"`
	Title      string              `json:"title"`
	ValidUntil string              `json:"valid_until"`
	Notes      *string             `json:"notes,omitempty"`
	Items      []CreateItemRequest `json:"items"`
}

func (r *CreateProposalRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.CustomerID) {
		errs = append(errs, validator.ValidationError{
			Field:   "customer_id",
			Message: "customer_id is required",
		})
	}
	if validator.IsEmpty(r.Title) {
		errs = append(errs, validator.ValidationError{
			Field:   "title",
			Message: "title is required",
		})
	}
	if _, ok := validator.IsValidDate(r.ValidUntil); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "valid_until",
			Message: "valid_until must be a date in YYYY-MM-DD format",
		})
	}
	if len(r.Items) == 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "items",
			Message: "at least one item is required",
		})
	}
	for _, item := range r.Items {
		if validator.IsEmpty(item.Description) || item.Quantity <= 0 || item.UnitPrice < 0 {
			errs = append(errs, validator.ValidationError{
				Field:   "items",
				Message: "each item needs a description, positive quantity and non-negative unit_price",
			})
			break
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

func (r *UpdateStatusRequest) Validate() error {
	var errs validator.ValidationErrors

	allowed := []string{
		string(StatusDraft), string(StatusSent), string(StatusAccepted),
		string(StatusRejected), string(StatusExpired),
	}
	if !validator.IsInSlice(r.Status, allowed) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: draft, sent, accepted, rejected, expired",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ItemResponse struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	LineTotal   float64 `json:"line_total"`
}

type ProposalResponse struct {
	ID           string         `json:"id"`
	Number       string         `json:"number"`
	CustomerID   string         `json:"customer_id"`
	CustomerName *string        `json:"customer_name,omitempty"`
	Title        string         `json:"title"`
	Status       string         `json:"status"`
	ValidUntil   time.Time      `json:"valid_until"`
	Total        float64        `json:"total"`
	Notes        *string        `json:"notes,omitempty"`
	Items        []ItemResponse `json:"items,omitempty"`
	CreatedBy    string         `json:"created_by"`
	CreatedAt    time.Time      `json:"created_at"`
}

type ListProposalsResponse struct {
	TotalCount int64              `json:"total_count"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"total_pages"`
	Proposals  []ProposalResponse `json:"proposals"`
}
