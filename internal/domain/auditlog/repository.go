package auditlog

import "context"

// Repository - interface for the audit_logs table. Entries are never
// updated or deleted.
type Repository interface {
	Append(ctx context.Context, e Entry) error
	ListByCompany(ctx context.Context, companyID string, page, limit int) ([]Entry, int64, error)
}
