package user

import "time"

type Role string

const (
	RoleAdmin Role = "admin"
	RoleStaff Role = "staff"
)

// User entity - both admins and staff members of a company
type User struct {
	ID           string
	CompanyID    string
	Email        string
	PasswordHash string
	FullName     string
	Role         Role

	Position   *string
	Department *string
	Phone      *string
	AvatarURL  *string

	IsActive bool

	CreatedAt time.Time
	UpdatedAt time.Time
}
