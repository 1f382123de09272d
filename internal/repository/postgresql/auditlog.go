package postgresql

import (
	"context"
	"fmt"

	"github.com/workbridge/erp-backend-go/internal/domain/auditlog"
	"github.com/workbridge/erp-backend-go/internal/pkg/database"
)

type auditLogRepositoryImpl struct {
	db *database.DB
}

func NewAuditLogRepository(db *database.DB) auditlog.Repository {
	return &auditLogRepositoryImpl{db: db}
}

// Append implements auditlog.Repository.
func (r *auditLogRepositoryImpl) Append(ctx context.Context, e auditlog.Entry) error {
	q := GetQuerier(ctx, r.db)

	_, err := q.Exec(ctx, `
		INSERT INTO audit_logs (company_id, actor_id, action, entity, entity_id, detail)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		e.CompanyID, e.ActorID, e.Action, e.Entity, e.EntityID, e.Detail,
	)
	if err != nil {
		return fmt.Errorf("failed to append audit log: %w", err)
	}
	return nil
}

// ListByCompany implements auditlog.Repository.
func (r *auditLogRepositoryImpl) ListByCompany(ctx context.Context, companyID string, page, limit int) ([]auditlog.Entry, int64, error) {
	q := GetQuerier(ctx, r.db)

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM audit_logs WHERE company_id = $1`, companyID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count audit logs: %w", err)
	}

	rows, err := q.Query(ctx, `
		SELECT id, company_id, actor_id, action, entity, entity_id, detail, created_at
		FROM audit_logs
		WHERE company_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`,
		companyID, limit, (page-1)*limit,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list audit logs: %w", err)
	}
	defer rows.Close()

	entries := make([]auditlog.Entry, 0)
	for rows.Next() {
		var e auditlog.Entry
		if err := rows.Scan(&e.ID, &e.CompanyID, &e.ActorID, &e.Action, &e.Entity, &e.EntityID, &e.Detail, &e.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan audit log entry: %w", err)
		}
		entries = append(entries, e)
	}

	return entries, total, rows.Err()
}
