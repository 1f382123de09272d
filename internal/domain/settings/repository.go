package settings

import "context"

// Repository - interface for the global_settings table
type Repository interface {
	Get(ctx context.Context, companyID string) (Settings, error)
	Upsert(ctx context.Context, s Settings) error
}
