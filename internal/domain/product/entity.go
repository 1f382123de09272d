package product

import "time"

// Product entity - catalog item referenced by invoice and delivery lines
type Product struct {
	ID        string
	CompanyID string

	Name        string
	SKU         *string
	Description *string
	UnitPrice   float64
	Unit        string // e.g. "pcs", "hour", "kg"
	PictureURL  *string
	IsActive    bool

	CreatedAt time.Time
	UpdatedAt time.Time
}
