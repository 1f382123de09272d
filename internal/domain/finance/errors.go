package finance

import "errors"

var (
	ErrTransactionNotFound = errors.New("Transaction not found")
	ErrInvalidAmount       = errors.New("Transaction amount must be positive")
)
