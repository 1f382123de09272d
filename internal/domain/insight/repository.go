package insight

import "context"

// Repository - interface for the ai_insights table. No update method:
// an insight is a snapshot.
type Repository interface {
	Create(ctx context.Context, ins Insight) (Insight, error)
	GetByID(ctx context.Context, id string) (Insight, error)
	List(ctx context.Context, companyID string, filter Filter) ([]Insight, int64, error)
	Delete(ctx context.Context, id string) error
}

// Filter narrows insight listings
type Filter struct {
	Type     *string
	Severity *string
	UserID   *string
	Page     int
	Limit    int
}
