package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/workbridge/erp-backend-go/internal/domain/notification"
	"github.com/workbridge/erp-backend-go/internal/pkg/database"
)

type notificationRepositoryImpl struct {
	db *database.DB
}

func NewNotificationRepository(db *database.DB) notification.Repository {
	return &notificationRepositoryImpl{db: db}
}

const notificationColumns = `id, company_id, recipient_id, sender_id, type, title, message, data, is_read, created_at`

func scanNotification(row pgx.Row) (notification.Notification, error) {
	var n notification.Notification
	err := row.Scan(
		&n.ID, &n.CompanyID, &n.RecipientID, &n.SenderID, &n.Type,
		&n.Title, &n.Message, &n.Data, &n.IsRead, &n.CreatedAt,
	)
	return n, err
}

// Create implements notification.Repository.
func (r *notificationRepositoryImpl) Create(ctx context.Context, n notification.Notification) (notification.Notification, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO notifications (company_id, recipient_id, sender_id, type, title, message, data)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + notificationColumns

	return scanNotification(q.QueryRow(ctx, query,
		n.CompanyID, n.RecipientID, n.SenderID, n.Type, n.Title, n.Message, n.Data,
	))
}

// ListByRecipient implements notification.Repository.
func (r *notificationRepositoryImpl) ListByRecipient(ctx context.Context, recipientID string, unreadOnly bool, page, limit int) ([]notification.Notification, int64, error) {
	q := GetQuerier(ctx, r.db)

	whereClause := "WHERE recipient_id = $1"
	args := []interface{}{recipientID}
	if unreadOnly {
		whereClause += " AND is_read = false"
	}

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM notifications "+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count notifications: %w", err)
	}

	args = append(args, limit, (page-1)*limit)
	query := fmt.Sprintf(
		"SELECT %s FROM notifications %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		notificationColumns, whereClause, len(args)-1, len(args),
	)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	notifications := make([]notification.Notification, 0)
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, n)
	}

	return notifications, total, rows.Err()
}

// MarkRead implements notification.Repository.
func (r *notificationRepositoryImpl) MarkRead(ctx context.Context, id, recipientID string) error {
	q := GetQuerier(ctx, r.db)

	commandTag, err := q.Exec(ctx,
		`UPDATE notifications SET is_read = true WHERE id = $1 AND recipient_id = $2`,
		id, recipientID,
	)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() != 1 {
		return notification.ErrNotificationNotFound
	}
	return nil
}

// MarkAllRead implements notification.Repository.
func (r *notificationRepositoryImpl) MarkAllRead(ctx context.Context, recipientID string) error {
	q := GetQuerier(ctx, r.db)

	_, err := q.Exec(ctx,
		`UPDATE notifications SET is_read = true WHERE recipient_id = $1 AND is_read = false`,
		recipientID,
	)
	return err
}

// UnreadCount implements notification.Repository.
func (r *notificationRepositoryImpl) UnreadCount(ctx context.Context, recipientID string) (int, error) {
	q := GetQuerier(ctx, r.db)

	var count int
	err := q.QueryRow(ctx,
		`SELECT COUNT(*) FROM notifications WHERE recipient_id = $1 AND is_read = false`,
		recipientID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}
