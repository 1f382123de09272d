package delivery

import (
	"time"

	"github.com/workbridge/erp-backend-go/internal/pkg/validator"
)

type CreateItemRequest struct {
	ProductID   *string `json:"product_id,omitempty"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	PictureURL  *string `json:"picture_url,omitempty"`
}

type CreateDeliveryRequest struct {
	CustomerID   string              `json:"customer_id"`
	DeliveryDate string              `json:"delivery_date"`
	Address      string              `json:"address"`
	Notes        *string             `json:"notes,omitempty"`
	Items        []CreateItemRequest `json:"items"`
}

func (r *CreateDeliveryRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.CustomerID) {
		errs = append(errs, validator.ValidationError{
			Field:   "customer_id",
			Message: "customer_id is required",
		})
	}
	if _, ok := validator.IsValidDate(r.DeliveryDate); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "delivery_date",
			Message: "delivery_date must be a date in YYYY-MM-DD format",
		})
	}
	if validator.IsEmpty(r.Address) {
		errs = append(errs, validator.ValidationError{
			Field:   "address",
			Message: "address is required",
		})
	}
	if len(r.Items) == 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "items",
			Message: "at least one item is required",
		})
	}
	for _, item := range r.Items {
		if validator.IsEmpty(item.Description) || item.Quantity <= 0 {
			errs = append(errs, validator.ValidationError{
				Field:   "items",
				Message: "each item needs a description and a positive quantity",
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
		string(StatusPreparing), string(StatusInTransit),
		string(StatusDelivered), string(StatusCancelled),
	}
	if !validator.IsInSlice(r.Status, allowed) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: preparing, in-transit, delivered, cancelled",
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
	PictureURL  *string `json:"picture_url,omitempty"`
}

type DeliveryResponse struct {
	ID           string         `json:"id"`
	Number       string         `json:"number"`
	CustomerID   string         `json:"customer_id"`
	CustomerName *string        `json:"customer_name,omitempty"`
	Status       string         `json:"status"`
	DeliveryDate time.Time      `json:"delivery_date"`
	Address      string         `json:"address"`
	Notes        *string        `json:"notes,omitempty"`
	Items        []ItemResponse `json:"items,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}

type ListDeliveriesResponse struct {
	TotalCount int64              `json:"total_count"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"total_pages"`
	Deliveries []DeliveryResponse `json:"deliveries"`
}
