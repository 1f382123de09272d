package performance

import "context"

// GoalRepository - interface for the goals table
type GoalRepository interface {
	Create(ctx context.Context, g Goal) (Goal, error)
	GetByID(ctx context.Context, id string) (Goal, error)
	ListByUser(ctx context.Context, userID string) ([]Goal, error)
	ListByCompany(ctx context.Context, companyID string) ([]Goal, error)
	Update(ctx context.Context, req UpdateGoalRequest) error
	Delete(ctx context.Context, id string) error
}

// ReviewRepository - interface for the performance_reviews table
type ReviewRepository interface {
	Create(ctx context.Context, r Review) (Review, error)
	GetByID(ctx context.Context, id string) (Review, error)
	ListByUser(ctx context.Context, userID string) ([]Review, error)
	ListByCompany(ctx context.Context, companyID string) ([]Review, error)
	Delete(ctx context.Context, id string) error
}
