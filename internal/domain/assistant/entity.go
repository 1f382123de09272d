package assistant

import (
	"time"

	"github.com/workbridge/erp-backend-go/internal/domain/user"
)

// SystemContext carries the caller's identity and governs what data a
// request may touch: staff see only their own records, admins see
// company-wide aggregates.
type SystemContext struct {
	UserID    string
	UserRole  user.Role
	CompanyID string
}

// IsStaff reports whether the caller is bound to their own records.
func (c SystemContext) IsStaff() bool {
	return c.UserRole != user.RoleAdmin
}

type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// ChatMessage is an ephemeral conversation turn. It lives in session
// state only; history arrays are passed into the engine per call.
type ChatMessage struct {
	Role      MessageRole `json:"role"`
	Content   string      `json:"content"`
	Timestamp time.Time   `json:"timestamp"`
}
