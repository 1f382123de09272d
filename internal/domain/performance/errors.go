package performance

import "errors"

var (
	ErrGoalNotFound   = errors.New("Goal not found")
	ErrReviewNotFound = errors.New("Performance review not found")
	ErrInvalidRating  = errors.New("Rating must be between 1 and 5")
)
