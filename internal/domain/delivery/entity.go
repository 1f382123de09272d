package delivery

import "time"

type Status string

const (
	StatusPreparing Status = "preparing"
	StatusInTransit Status = "in-transit"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

// Delivery entity - a delivery note
type Delivery struct {
	ID        string
	CompanyID string
	CreatedBy string

	Number       string
	CustomerID   string
	Status       Status
	DeliveryDate time.Time
	Address      string
	Notes        *string

	Items []Item

	CreatedAt time.Time
	UpdatedAt time.Time

	// Relationships (for responses and document rendering)
	CustomerName *string
}

// Item is a single delivery line
type Item struct {
	ID          string
	DeliveryID  string
	ProductID   *string
	Description string
	Quantity    float64
	PictureURL  *string
}
