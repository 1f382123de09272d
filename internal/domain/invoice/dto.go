package invoice

import (
	"time"

	"github.com/workbridge/erp-backend-go/internal/pkg/validator"
)

type CreateItemRequest struct {
	ProductID   *string `json:"product_id,omitempty"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
}

type CreateInvoiceRequest struct {
	CustomerID string              `json:"customer_id"`
	IssueDate  string              `json:"issue_date"`
	DueDate    string              `json:"due_date"`
	TaxRate    float64             `json:"tax_rate"`
	Notes      *string             `json:"notes,omitempty"`
	Items      []CreateItemRequest `json:"items"`
}

func (r *CreateInvoiceRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.CustomerID) {
		errs = append(errs, validator.ValidationError{
			Field:   "customer_id",
			Message: "customer_id is required",
		})
	}

	issue, issueOK := validator.IsValidDate(r.IssueDate)
	if !issueOK {
		errs = append(errs, validator.ValidationError{
			Field:   "issue_date",
			Message: "issue_date must be a date in YYYY-MM-DD format",
		})
	}
	due, dueOK := validator.IsValidDate(r.DueDate)
	if !dueOK {
		errs = append(errs, validator.ValidationError{
			Field:   "due_date",
			Message: "due_date must be a date in YYYY-MM-DD format",
		})
	}
	if issueOK && dueOK && due.Before(issue) {
		errs = append(errs, validator.ValidationError{
			Field:   "due_date",
			Message: "due_date must not be before issue_date",
		})
	}

	if r.TaxRate < 0 || r.TaxRate > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "tax_rate",
			Message: "tax_rate must be between 0 and 100",
		})
	}

	if len(r.Items) == 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "items",
			Message: "at least one item is required",
		})
	}
	for _, item := range r.Items {
		if validator.IsEmpty(item.Description) {
			errs = append(errs, validator.ValidationError{
				Field:   "items",
				Message: "item description is required",
			})
			break
		}
		if item.Quantity <= 0 || item.UnitPrice < 0 {
			errs = append(errs, validator.ValidationError{
				Field:   "items",
				Message: "item quantity must be positive and unit_price non-negative",
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
		string(StatusDraft), string(StatusPending), string(StatusApproved),
		string(StatusSent), string(StatusPaid), string(StatusCancelled),
	}
	if !validator.IsInSlice(r.Status, allowed) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: draft, pending, approved, sent, paid, cancelled",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ItemResponse struct {
	ID          string  `json:"id"`
	ProductID   *string `json:"product_id,omitempty"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	LineTotal   float64 `json:"line_total"`
}

type InvoiceResponse struct {
	ID           string         `json:"id"`
	Number       string         `json:"number"`
	CustomerID   string         `json:"customer_id"`
	CustomerName *string        `json:"customer_name,omitempty"`
	Status       string         `json:"status"`
	IssueDate    time.Time      `json:"issue_date"`
	DueDate      time.Time      `json:"due_date"`
	Subtotal     float64        `json:"subtotal"`
	TaxRate      float64        `json:"tax_rate"`
	TaxTotal     float64        `json:"tax_total"`
	Total        float64        `json:"total"`
	Notes        *string        `json:"notes,omitempty"`
	Items        []ItemResponse `json:"items,omitempty"`
	CreatedBy    string         `json:"created_by"`
	CreatedAt    time.Time      `json:"created_at"`
}

type ListInvoicesResponse struct {
	TotalCount int64             `json:"total_count"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"total_pages"`
	Invoices   []InvoiceResponse `json:"invoices"`
}
