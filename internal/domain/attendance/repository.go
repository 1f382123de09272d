package attendance

import (
	"context"
	"time"
)

// Repository - interface for the attendance table
type Repository interface {
	Create(ctx context.Context, rec Record) (Record, error)
	GetByID(ctx context.Context, id string) (Record, error)
	GetByUserAndDate(ctx context.Context, userID string, date time.Time) (Record, error)
	ListByUser(ctx context.Context, userID string, from, to time.Time) ([]Record, error)
	ListByCompany(ctx context.Context, companyID string, from, to time.Time, page, limit int) ([]Record, int64, error)
	SetClockOut(ctx context.Context, id string, clockOut time.Time, totalHours float64) error
}
