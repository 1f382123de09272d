package leave

import "errors"

var (
	ErrRequestNotFound     = errors.New("Leave request not found")
	ErrInsufficientBalance = errors.New("Insufficient leave balance")
	ErrAlreadyProcessed    = errors.New("Leave request already processed")
	ErrUnauthorizedAccess  = errors.New("Leave request belongs to another user")
	ErrInvalidDateRange    = errors.New("Leave end date is before start date")
)
