package performance

import (
	"time"

	"github.com/workbridge/erp-backend-go/internal/pkg/validator"
)

type CreateGoalRequest struct {
	UserID      string  `json:"user_id"`
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	StartDate   string  `json:"start_date"`
	EndDate     string  `json:"end_date"`
	TargetValue float64 `json:"target_value"`
}

func (r *CreateGoalRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.UserID) {
		errs = append(errs, validator.ValidationError{
			Field:   "user_id",
			Message: "user_id is required",
		})
	}
	if validator.IsEmpty(r.Title) {
		errs = append(errs, validator.ValidationError{
			Field:   "title",
			Message: "title is required",
		})
	}

	start, startOK := validator.IsValidDate(r.StartDate)
	if !startOK {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be a date in YYYY-MM-DD format",
		})
	}
	end, endOK := validator.IsValidDate(r.EndDate)
	if !endOK {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be a date in YYYY-MM-DD format",
		})
	}
	if startOK && endOK && end.Before(start) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must not be before start_date",
		})
	}

	if r.TargetValue < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "target_value",
			Message: "target_value must not be negative",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type UpdateGoalRequest struct {
	ID           string   `json:"-"`
	Title        *string  `json:"title,omitempty"`
	Description  *string  `json:"description,omitempty"`
	Status       *string  `json:"status,omitempty"`
	EndDate      *string  `json:"end_date,omitempty"`
	TargetValue  *float64 `json:"target_value,omitempty"`
	CurrentValue *float64 `json:"current_value,omitempty"`
}

func (r *UpdateGoalRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Status != nil {
		allowed := []string{
			string(GoalNotStarted), string(GoalInProgress),
			string(GoalCompleted), string(GoalCancelled),
		}
		if !validator.IsInSlice(*r.Status, allowed) {
			errs = append(errs, validator.ValidationError{
				Field:   "status",
				Message: "status must be one of: not-started, in-progress, completed, cancelled",
			})
		}
	}
	if r.EndDate != nil {
		if _, ok := validator.IsValidDate(*r.EndDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be a date in YYYY-MM-DD format",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type CreateReviewRequest struct {
	UserID        string             `json:"user_id"`
	Period        string             `json:"period"`
	OverallRating float64            `json:"overall_rating"`
	Competencies  map[string]float64 `json:"competencies,omitempty"`
	Comments      *string            `json:"comments,omitempty"`
}

func (r *CreateReviewRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.UserID) {
		errs = append(errs, validator.ValidationError{
			Field:   "user_id",
			Message: "user_id is required",
		})
	}
	if validator.IsEmpty(r.Period) {
		errs = append(errs, validator.ValidationError{
			Field:   "period",
			Message: "period is required",
		})
	}
	if r.OverallRating < 1 || r.OverallRating > 5 {
		errs = append(errs, validator.ValidationError{
			Field:   "overall_rating",
			Message: "overall_rating must be between 1 and 5",
		})
	}
	for name, rating := range r.Competencies {
		if rating < 1 || rating > 5 {
			errs = append(errs, validator.ValidationError{
				Field:   "competencies",
				Message: name + " rating must be between 1 and 5",
			})
			break
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type GoalResponse struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	Title        string    `json:"title"`
	Description  *string   `json:"description,omitempty"`
	Status       string    `json:"status"`
	StartDate    time.Time `json:"start_date"`
	EndDate      time.Time `json:"end_date"`
	TargetValue  float64   `json:"target_value"`
	CurrentValue float64   `json:"current_value"`
	Progress     float64   `json:"progress"`
	CreatedAt    time.Time `json:"created_at"`
}

type ReviewResponse struct {
	ID            string             `json:"id"`
	UserID        string             `json:"user_id"`
	ReviewerID    string             `json:"reviewer_id"`
	Period        string             `json:"period"`
	OverallRating float64            `json:"overall_rating"`
	Competencies  map[string]float64 `json:"competencies,omitempty"`
	Comments      *string            `json:"comments,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
}
