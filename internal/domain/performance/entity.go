package performance

import "time"

type GoalStatus string

const (
	GoalNotStarted GoalStatus = "not-started"
	GoalInProgress GoalStatus = "in-progress"
	GoalCompleted  GoalStatus = "completed"
	GoalCancelled  GoalStatus = "cancelled"
)

// Goal entity
type Goal struct {
	ID        string
	CompanyID string
	UserID    string

	Title       string
	Description *string
	Status      GoalStatus

	StartDate time.Time
	EndDate   time.Time

	TargetValue  float64
	CurrentValue float64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Progress returns percentage toward the target, capped at 100.
func (g Goal) Progress() float64 {
	if g.TargetValue <= 0 {
		return 0
	}
	p := g.CurrentValue / g.TargetValue * 100
	if p > 100 {
		return 100
	}
	return p
}

// Overdue reports whether the goal missed its end date without being
// completed or cancelled.
func (g Goal) Overdue(now time.Time) bool {
	return g.Status != GoalCompleted && g.Status != GoalCancelled && g.EndDate.Before(now)
}

// Review entity - a periodic performance review
type Review struct {
	ID         string
	CompanyID  string
	UserID     string
	ReviewerID string

	Period        string // e.g. "2026-Q2"
	OverallRating float64
	Competencies  map[string]float64
	Comments      *string

	CreatedAt time.Time
	UpdatedAt time.Time
}
