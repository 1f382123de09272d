package customer

import "time"

// Customer entity - a client company or person invoices and proposals
// are addressed to
type Customer struct {
	ID        string
	CompanyID string

	Name          string
	Email         *string
	Phone         *string
	Address       *string
	ContactPerson *string

	CreatedAt time.Time
	UpdatedAt time.Time
}
