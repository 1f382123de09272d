package performance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/workbridge/erp-backend-go/internal/domain/notification"
	"github.com/workbridge/erp-backend-go/internal/domain/performance"
	"github.com/workbridge/erp-backend-go/internal/domain/user"
)

// Notifier publishes in-app notifications.
type Notifier interface {
	Notify(ctx context.Context, n notification.Notification)
}

// Service manages goals and performance reviews.
type Service interface {
	CreateGoal(ctx context.Context, companyID string, req performance.CreateGoalRequest) (performance.Goal, error)
	GetGoal(ctx context.Context, companyID, id string) (performance.Goal, error)
	ListGoals(ctx context.Context, companyID string, userID *string) ([]performance.Goal, error)
	UpdateGoal(ctx context.Context, companyID string, req performance.UpdateGoalRequest) (performance.Goal, error)
	DeleteGoal(ctx context.Context, companyID, id string) error

	CreateReview(ctx context.Context, companyID, reviewerID string, req performance.CreateReviewRequest) (performance.Review, error)
	GetReview(ctx context.Context, companyID, id string) (performance.Review, error)
	ListReviews(ctx context.Context, companyID string, userID *string) ([]performance.Review, error)
	DeleteReview(ctx context.Context, companyID, id string) error
}

type PerformanceServiceImpl struct {
	goalRepo   performance.GoalRepository
	reviewRepo performance.ReviewRepository
	userRepo   user.Repository
	notifier   Notifier
}

func NewPerformanceService(
	goalRepo performance.GoalRepository,
	reviewRepo performance.ReviewRepository,
	userRepo user.Repository,
	notifier Notifier,
) Service {
	return &PerformanceServiceImpl{
		goalRepo:   goalRepo,
		reviewRepo: reviewRepo,
		userRepo:   userRepo,
		notifier:   notifier,
	}
}

// CreateGoal implements Service.
func (s *PerformanceServiceImpl) CreateGoal(ctx context.Context, companyID string, req performance.CreateGoalRequest) (performance.Goal, error) {
	if err := req.Validate(); err != nil {
		return performance.Goal{}, err
	}

	u, err := s.userRepo.GetByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return performance.Goal{}, user.ErrUserNotFound
		}
		return performance.Goal{}, fmt.Errorf("failed to get user: %w", err)
	}
	if u.CompanyID != companyID {
		return performance.Goal{}, user.ErrUserNotFound
	}

	start, _ := time.Parse("2006-01-02", req.StartDate)
	end, _ := time.Parse("2006-01-02", req.EndDate)

	goal, err := s.goalRepo.Create(ctx, performance.Goal{
		CompanyID:   companyID,
		UserID:      req.UserID,
		Title:       req.Title,
		Description: req.Description,
		Status:      performance.GoalNotStarted,
		StartDate:   start,
		EndDate:     end,
		TargetValue: req.TargetValue,
	})
	if err != nil {
		return performance.Goal{}, fmt.Errorf("failed to create goal: %w", err)
	}

	s.notifier.Notify(ctx, notification.Notification{
		CompanyID:   companyID,
		RecipientID: req.UserID,
		Type:        "goal_assigned",
		Title:       "New goal assigned",
		Message:     fmt.Sprintf("A new goal has been assigned to you: %s", req.Title),
		Data:        map[string]any{"goal_id": goal.ID},
	})

	return goal, nil
}

// GetGoal implements Service.
func (s *PerformanceServiceImpl) GetGoal(ctx context.Context, companyID, id string) (performance.Goal, error) {
	goal, err := s.goalRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return performance.Goal{}, performance.ErrGoalNotFound
		}
		return performance.Goal{}, fmt.Errorf("failed to get goal: %w", err)
	}
	if goal.CompanyID != companyID {
		return performance.Goal{}, performance.ErrGoalNotFound
	}
	return goal, nil
}

// ListGoals implements Service. With a user ID the listing narrows to
// that user.
func (s *PerformanceServiceImpl) ListGoals(ctx context.Context, companyID string, userID *string) ([]performance.Goal, error) {
	if userID != nil && *userID != "" {
		return s.goalRepo.ListByUser(ctx, *userID)
	}
	return s.goalRepo.ListByCompany(ctx, companyID)
}

// UpdateGoal implements Service.
func (s *PerformanceServiceImpl) UpdateGoal(ctx context.Context, companyID string, req performance.UpdateGoalRequest) (performance.Goal, error) {
	if err := req.Validate(); err != nil {
		return performance.Goal{}, err
	}

	if _, err := s.GetGoal(ctx, companyID, req.ID); err != nil {
		return performance.Goal{}, err
	}

	if err := s.goalRepo.Update(ctx, req); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return performance.Goal{}, performance.ErrGoalNotFound
		}
		return performance.Goal{}, fmt.Errorf("failed to update goal: %w", err)
	}

	return s.GetGoal(ctx, companyID, req.ID)
}

// DeleteGoal implements Service.
func (s *PerformanceServiceImpl) DeleteGoal(ctx context.Context, companyID, id string) error {
	if _, err := s.GetGoal(ctx, companyID, id); err != nil {
		return err
	}
	return s.goalRepo.Delete(ctx, id)
}

// CreateReview implements Service.
func (s *PerformanceServiceImpl) CreateReview(ctx context.Context, companyID, reviewerID string, req performance.CreateReviewRequest) (performance.Review, error) {
	if err := req.Validate(); err != nil {
		return performance.Review{}, err
	}

	u, err := s.userRepo.GetByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return performance.Review{}, user.ErrUserNotFound
		}
		return performance.Review{}, fmt.Errorf("failed to get user: %w", err)
	}
	if u.CompanyID != companyID {
		return performance.Review{}, user.ErrUserNotFound
	}

	review, err := s.reviewRepo.Create(ctx, performance.Review{
		CompanyID:     companyID,
		UserID:        req.UserID,
		ReviewerID:    reviewerID,
		Period:        req.Period,
		OverallRating: req.OverallRating,
		Competencies:  req.Competencies,
		Comments:      req.Comments,
	})
	if err != nil {
		return performance.Review{}, fmt.Errorf("failed to create review: %w", err)
	}

	s.notifier.Notify(ctx, notification.Notification{
		CompanyID:   companyID,
		RecipientID: req.UserID,
		SenderID:    &reviewerID,
		Type:        "review_received",
		Title:       "Performance review received",
		Message:     fmt.Sprintf("A performance review for %s has been submitted.", req.Period),
		Data:        map[string]any{"review_id": review.ID},
	})

	return review, nil
}

// GetReview implements Service.
func (s *PerformanceServiceImpl) GetReview(ctx context.Context, companyID, id string) (performance.Review, error) {
	review, err := s.reviewRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return performance.Review{}, performance.ErrReviewNotFound
		}
		return performance.Review{}, fmt.Errorf("failed to get review: %w", err)
	}
	if review.CompanyID != companyID {
		return performance.Review{}, performance.ErrReviewNotFound
	}
	return review, nil
}

// ListReviews implements Service.
func (s *PerformanceServiceImpl) ListReviews(ctx context.Context, companyID string, userID *string) ([]performance.Review, error) {
	if userID != nil && *userID != "" {
		return s.reviewRepo.ListByUser(ctx, *userID)
	}
	return s.reviewRepo.ListByCompany(ctx, companyID)
}

// DeleteReview implements Service.
func (s *PerformanceServiceImpl) DeleteReview(ctx context.Context, companyID, id string) error {
	if _, err := s.GetReview(ctx, companyID, id); err != nil {
		return err
	}
	return s.reviewRepo.Delete(ctx, id)
}
