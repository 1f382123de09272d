package attendance

import "time"

// Record entity - one row per user per working day
type Record struct {
	ID        string
	CompanyID string
	UserID    string

	Date       time.Time
	ClockIn    time.Time
	ClockOut   *time.Time
	TotalHours *float64

	Notes *string

	CreatedAt time.Time
	UpdatedAt time.Time

	// Relationship (for responses)
	UserName *string
}
