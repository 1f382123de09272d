package invoice

import "errors"

var (
	ErrInvoiceNotFound    = errors.New("Invoice not found")
	ErrNumberConflict     = errors.New("Invoice number already exists")
	ErrInvalidTransition  = errors.New("Invalid invoice status transition")
	ErrNoItems            = errors.New("Invoice must have at least one item")
	ErrNumberingExhausted = errors.New("Invoice number generation retries exhausted")
)
