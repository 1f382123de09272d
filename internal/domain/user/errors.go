package user

import "errors"

var (
	ErrUserNotFound           = errors.New("User not found")
	ErrEmailExists            = errors.New("Email already registered in this company")
	ErrAdminPrivilegeRequired = errors.New("Admin privilege required")
	ErrUserInactive           = errors.New("User account is deactivated")
)
