package delivery

import (
	"context"
	"time"
)

// Repository - interface for the deliveries and delivery_items tables
type Repository interface {
	Create(ctx context.Context, d Delivery) (Delivery, error)
	GetByID(ctx context.Context, id string) (Delivery, error)
	ListByCompany(ctx context.Context, companyID string, filter Filter) ([]Delivery, int64, error)
	UpdateStatus(ctx context.Context, id string, status Status) error
	Delete(ctx context.Context, id string) error
	CountForMonth(ctx context.Context, companyID string, t time.Time) (int, error)
}

// Filter narrows delivery listings
type Filter struct {
	Status     *string
	CustomerID *string
	Page       int
	Limit      int
}
