package postgresql

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/workbridge/erp-backend-go/internal/domain/performance"
	"github.com/workbridge/erp-backend-go/internal/pkg/database"
)

type goalRepositoryImpl struct {
	db *database.DB
}

func NewGoalRepository(db *database.DB) performance.GoalRepository {
	return &goalRepositoryImpl{db: db}
}

const goalColumns = `id, company_id, user_id, title, description, status, start_date, end_date, target_value, current_value, created_at, updated_at`

func scanGoal(row pgx.Row) (performance.Goal, error) {
	var g performance.Goal
	err := row.Scan(
		&g.ID, &g.CompanyID, &g.UserID, &g.Title, &g.Description, &g.Status,
		&g.StartDate, &g.EndDate, &g.TargetValue, &g.CurrentValue,
		&g.CreatedAt, &g.UpdatedAt,
	)
	return g, err
}

// Create implements performance.GoalRepository.
func (r *goalRepositoryImpl) Create(ctx context.Context, g performance.Goal) (performance.Goal, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO goals (company_id, user_id, title, description, status, start_date, end_date, target_value, current_value)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + goalColumns

	return scanGoal(q.QueryRow(ctx, query,
		g.CompanyID, g.UserID, g.Title, g.Description, g.Status,
		g.StartDate, g.EndDate, g.TargetValue, g.CurrentValue,
	))
}

// GetByID implements performance.GoalRepository.
func (r *goalRepositoryImpl) GetByID(ctx context.Context, id string) (performance.Goal, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + goalColumns + ` FROM goals WHERE id = $1`
	return scanGoal(q.QueryRow(ctx, query, id))
}

func (r *goalRepositoryImpl) listWhere(ctx context.Context, whereColumn, whereValue string) ([]performance.Goal, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(
		"SELECT %s FROM goals WHERE %s = $1 ORDER BY end_date ASC",
		goalColumns, whereColumn,
	)

	rows, err := q.Query(ctx, query, whereValue)
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}
	defer rows.Close()

	goals := make([]performance.Goal, 0)
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan goal: %w", err)
		}
		goals = append(goals, g)
	}

	return goals, rows.Err()
}

// ListByUser implements performance.GoalRepository.
func (r *goalRepositoryImpl) ListByUser(ctx context.Context, userID string) ([]performance.Goal, error) {
	return r.listWhere(ctx, "user_id", userID)
}

// ListByCompany implements performance.GoalRepository.
func (r *goalRepositoryImpl) ListByCompany(ctx context.Context, companyID string) ([]performance.Goal, error) {
	return r.listWhere(ctx, "company_id", companyID)
}

// Update implements performance.GoalRepository.
func (r *goalRepositoryImpl) Update(ctx context.Context, req performance.UpdateGoalRequest) error {
	q := GetQuerier(ctx, r.db)

	updates := make(map[string]interface{})
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if req.EndDate != nil {
		updates["end_date"] = *req.EndDate
	}
	if req.TargetValue != nil {
		updates["target_value"] = *req.TargetValue
	}
	if req.CurrentValue != nil {
		updates["current_value"] = *req.CurrentValue
	}

	if len(updates) == 0 {
		return fmt.Errorf("no updatable fields provided for goal update")
	}
	updates["updated_at"] = time.Now()

	setClauses := make([]string, 0, len(updates))
	args := make([]interface{}, 0, len(updates)+1)
	i := 1
	for col, val := range updates {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", col, i))
		args = append(args, val)
		i++
	}

	sql := "UPDATE goals SET " + strings.Join(setClauses, ", ") + fmt.Sprintf(" WHERE id = $%d RETURNING id", i)
	args = append(args, req.ID)

	var updatedID string
	if err := q.QueryRow(ctx, sql, args...).Scan(&updatedID); err != nil {
		return fmt.Errorf("failed to update goal with id %s: %w", req.ID, err)
	}
	return nil
}

// Delete implements performance.GoalRepository.
func (r *goalRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	commandTag, err := q.Exec(ctx, `DELETE FROM goals WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() != 1 {
		return performance.ErrGoalNotFound
	}
	return nil
}

type reviewRepositoryImpl struct {
	db *database.DB
}

func NewReviewRepository(db *database.DB) performance.ReviewRepository {
	return &reviewRepositoryImpl{db: db}
}

const reviewColumns = `id, company_id, user_id, reviewer_id, period, overall_rating, competencies, comments, created_at, updated_at`

func scanReview(row pgx.Row) (performance.Review, error) {
	var rev performance.Review
	var competencies []byte
	err := row.Scan(
		&rev.ID, &rev.CompanyID, &rev.UserID, &rev.ReviewerID, &rev.Period,
		&rev.OverallRating, &competencies, &rev.Comments,
		&rev.CreatedAt, &rev.UpdatedAt,
	)
	if err != nil {
		return performance.Review{}, err
	}
	if competencies != nil {
		if err := json.Unmarshal(competencies, &rev.Competencies); err != nil {
			return performance.Review{}, fmt.Errorf("failed to decode competencies: %w", err)
		}
	}
	return rev, nil
}

// Create implements performance.ReviewRepository.
func (r *reviewRepositoryImpl) Create(ctx context.Context, rev performance.Review) (performance.Review, error) {
	q := GetQuerier(ctx, r.db)

	competencies, err := json.Marshal(rev.Competencies)
	if err != nil {
		return performance.Review{}, fmt.Errorf("failed to encode competencies: %w", err)
	}

	query := `
		INSERT INTO performance_reviews (company_id, user_id, reviewer_id, period, overall_rating, competencies, comments)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + reviewColumns

	return scanReview(q.QueryRow(ctx, query,
		rev.CompanyID, rev.UserID, rev.ReviewerID, rev.Period,
		rev.OverallRating, competencies, rev.Comments,
	))
}

// GetByID implements performance.ReviewRepository.
func (r *reviewRepositoryImpl) GetByID(ctx context.Context, id string) (performance.Review, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + reviewColumns + ` FROM performance_reviews WHERE id = $1`
	return scanReview(q.QueryRow(ctx, query, id))
}

func (r *reviewRepositoryImpl) listWhere(ctx context.Context, whereColumn, whereValue string) ([]performance.Review, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(
		"SELECT %s FROM performance_reviews WHERE %s = $1 ORDER BY created_at DESC",
		reviewColumns, whereColumn,
	)

	rows, err := q.Query(ctx, query, whereValue)
	if err != nil {
		return nil, fmt.Errorf("failed to list performance reviews: %w", err)
	}
	defer rows.Close()

	reviews := make([]performance.Review, 0)
	for rows.Next() {
		rev, err := scanReview(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan performance review: %w", err)
		}
		reviews = append(reviews, rev)
	}

	return reviews, rows.Err()
}

// ListByUser implements performance.ReviewRepository.
func (r *reviewRepositoryImpl) ListByUser(ctx context.Context, userID string) ([]performance.Review, error) {
	return r.listWhere(ctx, "user_id", userID)
}

// ListByCompany implements performance.ReviewRepository.
func (r *reviewRepositoryImpl) ListByCompany(ctx context.Context, companyID string) ([]performance.Review, error) {
	return r.listWhere(ctx, "company_id", companyID)
}

// Delete implements performance.ReviewRepository.
func (r *reviewRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	commandTag, err := q.Exec(ctx, `DELETE FROM performance_reviews WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() != 1 {
		return performance.ErrReviewNotFound
	}
	return nil
}
