package notification

import "time"

// Notification entity - a per-user in-app notification
type Notification struct {
	ID          string
	CompanyID   string
	RecipientID string
	SenderID    *string

	Type    string // e.g. "leave_approved", "invoice_overdue", "insight"
	Title   string
	Message string
	Data    map[string]any

	IsRead    bool
	CreatedAt time.Time
}
