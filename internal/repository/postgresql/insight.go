package postgresql

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/workbridge/erp-backend-go/internal/domain/insight"
	"github.com/workbridge/erp-backend-go/internal/pkg/database"
)

type insightRepositoryImpl struct {
	db *database.DB
}

func NewInsightRepository(db *database.DB) insight.Repository {
	return &insightRepositoryImpl{db: db}
}

const insightColumns = `id, company_id, user_id, type, title, description, severity, recommendations, data, created_at`

func scanInsight(row pgx.Row) (insight.Insight, error) {
	var ins insight.Insight
	err := row.Scan(
		&ins.ID, &ins.CompanyID, &ins.UserID, &ins.Type, &ins.Title,
		&ins.Description, &ins.Severity, &ins.Recommendations, &ins.Data,
		&ins.CreatedAt,
	)
	return ins, err
}

// Create implements insight.Repository.
func (r *insightRepositoryImpl) Create(ctx context.Context, ins insight.Insight) (insight.Insight, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO ai_insights (company_id, user_id, type, title, description, severity, recommendations, data)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + insightColumns

	return scanInsight(q.QueryRow(ctx, query,
		ins.CompanyID, ins.UserID, ins.Type, ins.Title, ins.Description,
		ins.Severity, ins.Recommendations, ins.Data,
	))
}

// GetByID implements insight.Repository.
func (r *insightRepositoryImpl) GetByID(ctx context.Context, id string) (insight.Insight, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + insightColumns + ` FROM ai_insights WHERE id = $1`
	return scanInsight(q.QueryRow(ctx, query, id))
}

// List implements insight.Repository.
func (r *insightRepositoryImpl) List(ctx context.Context, companyID string, filter insight.Filter) ([]insight.Insight, int64, error) {
	q := GetQuerier(ctx, r.db)

	conds := sq.And{sq.Eq{"company_id": companyID}}
	if filter.Type != nil && *filter.Type != "" {
		conds = append(conds, sq.Eq{"type": *filter.Type})
	}
	if filter.Severity != nil && *filter.Severity != "" {
		conds = append(conds, sq.Eq{"severity": *filter.Severity})
	}
	if filter.UserID != nil && *filter.UserID != "" {
		conds = append(conds, sq.Eq{"user_id": *filter.UserID})
	}

	countSQL, countArgs, err := psql.Select("COUNT(*)").From("ai_insights").Where(conds).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count query: %w", err)
	}
	var total int64
	if err := q.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count insights: %w", err)
	}

	listSQL, listArgs, err := psql.
		Select(insightColumns).
		From("ai_insights").
		Where(conds).
		OrderBy("created_at DESC").
		Limit(uint64(filter.Limit)).
		Offset(uint64((filter.Page - 1) * filter.Limit)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list query: %w", err)
	}

	rows, err := q.Query(ctx, listSQL, listArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list insights: %w", err)
	}
	defer rows.Close()

	insights := make([]insight.Insight, 0)
	for rows.Next() {
		ins, err := scanInsight(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan insight: %w", err)
		}
		insights = append(insights, ins)
	}

	return insights, total, rows.Err()
}

// Delete implements insight.Repository.
func (r *insightRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	commandTag, err := q.Exec(ctx, `DELETE FROM ai_insights WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() != 1 {
		return insight.ErrInsightNotFound
	}
	return nil
}
