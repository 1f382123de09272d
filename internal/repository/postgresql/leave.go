package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/workbridge/erp-backend-go/internal/domain/leave"
	"github.com/workbridge/erp-backend-go/internal/pkg/database"
)

type leaveRepositoryImpl struct {
	db *database.DB
}

func NewLeaveRepository(db *database.DB) leave.Repository {
	return &leaveRepositoryImpl{db: db}
}

const leaveColumns = `lr.id, lr.company_id, lr.user_id, lr.type, lr.start_date, lr.end_date, lr.total_days, lr.reason,
	lr.status, lr.approved_by, lr.approved_at, lr.rejection_reason, lr.created_at, lr.updated_at`

func scanLeaveRequest(row pgx.Row, withUser bool) (leave.Request, error) {
	var req leave.Request
	dest := []interface{}{
		&req.ID, &req.CompanyID, &req.UserID, &req.Type, &req.StartDate, &req.EndDate,
		&req.TotalDays, &req.Reason, &req.Status, &req.ApprovedBy, &req.ApprovedAt,
		&req.RejectionReason, &req.CreatedAt, &req.UpdatedAt,
	}
	if withUser {
		dest = append(dest, &req.UserName)
	}
	err := row.Scan(dest...)
	return req, err
}

// Create implements leave.Repository.
func (r *leaveRepositoryImpl) Create(ctx context.Context, req leave.Request) (leave.Request, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_requests AS lr (company_id, user_id, type, start_date, end_date, total_days, reason, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + leaveColumns

	return scanLeaveRequest(q.QueryRow(ctx, query,
		req.CompanyID, req.UserID, req.Type, req.StartDate, req.EndDate,
		req.TotalDays, req.Reason, req.Status,
	), false)
}

// GetByID implements leave.Repository.
func (r *leaveRepositoryImpl) GetByID(ctx context.Context, id string) (leave.Request, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + leaveColumns + `, u.full_name
		FROM leave_requests lr
		JOIN users u ON u.id = lr.user_id
		WHERE lr.id = $1`

	return scanLeaveRequest(q.QueryRow(ctx, query, id), true)
}

func (r *leaveRepositoryImpl) list(ctx context.Context, whereColumn, whereValue string, filter leave.Filter) ([]leave.Request, int64, error) {
	q := GetQuerier(ctx, r.db)

	whereClause := fmt.Sprintf("WHERE lr.%s = $1", whereColumn)
	args := []interface{}{whereValue}

	if filter.Type != nil && *filter.Type != "" {
		args = append(args, *filter.Type)
		whereClause += fmt.Sprintf(" AND lr.type = $%d", len(args))
	}
	if filter.Status != nil && *filter.Status != "" {
		args = append(args, *filter.Status)
		whereClause += fmt.Sprintf(" AND lr.status = $%d", len(args))
	}

	var total int64
	countQuery := "SELECT COUNT(*) FROM leave_requests lr " + whereClause
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count leave requests: %w", err)
	}

	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)
	query := fmt.Sprintf(`
		SELECT %s, u.full_name
		FROM leave_requests lr
		JOIN users u ON u.id = lr.user_id
		%s
		ORDER BY lr.created_at DESC
		LIMIT $%d OFFSET $%d`,
		leaveColumns, whereClause, len(args)-1, len(args))

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list leave requests: %w", err)
	}
	defer rows.Close()

	requests := make([]leave.Request, 0)
	for rows.Next() {
		req, err := scanLeaveRequest(rows, true)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan leave request: %w", err)
		}
		requests = append(requests, req)
	}

	return requests, total, rows.Err()
}

// ListByUser implements leave.Repository.
func (r *leaveRepositoryImpl) ListByUser(ctx context.Context, userID string, filter leave.Filter) ([]leave.Request, int64, error) {
	return r.list(ctx, "user_id", userID, filter)
}

// ListByCompany implements leave.Repository.
func (r *leaveRepositoryImpl) ListByCompany(ctx context.Context, companyID string, filter leave.Filter) ([]leave.Request, int64, error) {
	return r.list(ctx, "company_id", companyID, filter)
}

// UpdateStatus implements leave.Repository.
func (r *leaveRepositoryImpl) UpdateStatus(ctx context.Context, id string, status leave.Status, approvedBy *string, rejectionReason *string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_requests
		SET status = $1,
			approved_by = $2,
			approved_at = CASE WHEN $1 = 'approved' THEN NOW() ELSE approved_at END,
			rejection_reason = $3,
			updated_at = NOW()
		WHERE id = $4
		RETURNING id`

	var updatedID string
	if err := q.QueryRow(ctx, query, status, approvedBy, rejectionReason, id).Scan(&updatedID); err != nil {
		return fmt.Errorf("failed to update leave request %s: %w", id, err)
	}
	return nil
}

// UsedDays implements leave.Repository.
func (r *leaveRepositoryImpl) UsedDays(ctx context.Context, userID string, year int) (map[leave.Type]float64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT type, COALESCE(SUM(total_days), 0)
		FROM leave_requests
		WHERE user_id = $1
		  AND status = 'approved'
		  AND EXTRACT(YEAR FROM start_date) = $2
		GROUP BY type`

	rows, err := q.Query(ctx, query, userID, year)
	if err != nil {
		return nil, fmt.Errorf("failed to sum used leave days: %w", err)
	}
	defer rows.Close()

	used := make(map[leave.Type]float64)
	for rows.Next() {
		var t leave.Type
		var days float64
		if err := rows.Scan(&t, &days); err != nil {
			return nil, fmt.Errorf("failed to scan used leave days: %w", err)
		}
		used[t] = days
	}

	return used, rows.Err()
}
