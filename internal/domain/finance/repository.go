package finance

import (
	"context"
	"time"
)

// Repository - interface for the transactions table
type Repository interface {
	Create(ctx context.Context, tx Transaction) (Transaction, error)
	GetByID(ctx context.Context, id string) (Transaction, error)
	List(ctx context.Context, scope Scope, filter Filter) ([]Transaction, int64, error)
	Update(ctx context.Context, req UpdateTransactionRequest) error
	Delete(ctx context.Context, id string) error

	Summarize(ctx context.Context, scope Scope, from, to time.Time) (Summary, error)
	ExpensesByCategory(ctx context.Context, scope Scope, from, to time.Time) ([]CategoryTotal, error)
}

// Filter narrows transaction listings
type Filter struct {
	Type     *string
	Category *string
	From     *time.Time
	To       *time.Time
	Page     int
	Limit    int
}
