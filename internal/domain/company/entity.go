package company

import "time"

// Company entity - a tenant
type Company struct {
	ID      string
	Name    string
	Slug    string
	Email   *string
	Phone   *string
	Address *string

	// Branding used on rendered documents
	LogoURL  *string
	Website  *string
	TaxID    *string
	Currency string

	CreatedAt time.Time
	UpdatedAt time.Time
}
