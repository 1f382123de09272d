package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/workbridge/erp-backend-go/internal/domain/finance"
	"github.com/workbridge/erp-backend-go/internal/pkg/database"
)

type financeRepositoryImpl struct {
	db *database.DB
}

func NewFinanceRepository(db *database.DB) finance.Repository {
	return &financeRepositoryImpl{db: db}
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const transactionColumns = `id, company_id, created_by, type, category, amount, description, date, created_at, updated_at`

func scanTransaction(row pgx.Row) (finance.Transaction, error) {
	var tx finance.Transaction
	err := row.Scan(
		&tx.ID, &tx.CompanyID, &tx.CreatedBy, &tx.Type, &tx.Category,
		&tx.Amount, &tx.Description, &tx.Date, &tx.CreatedAt, &tx.UpdatedAt,
	)
	return tx, err
}

// scopeConds translates a finance.Scope into squirrel conditions.
func scopeConds(scope finance.Scope) sq.And {
	conds := sq.And{sq.Eq{"company_id": scope.CompanyID}}
	if scope.UserID != "" {
		conds = append(conds, sq.Eq{"created_by": scope.UserID})
	}
	return conds
}

// Create implements finance.Repository.
func (r *financeRepositoryImpl) Create(ctx context.Context, tx finance.Transaction) (finance.Transaction, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO transactions (company_id, created_by, type, category, amount, description, date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + transactionColumns

	return scanTransaction(q.QueryRow(ctx, query,
		tx.CompanyID, tx.CreatedBy, tx.Type, tx.Category, tx.Amount, tx.Description, tx.Date,
	))
}

// GetByID implements finance.Repository.
func (r *financeRepositoryImpl) GetByID(ctx context.Context, id string) (finance.Transaction, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`
	return scanTransaction(q.QueryRow(ctx, query, id))
}

// List implements finance.Repository.
func (r *financeRepositoryImpl) List(ctx context.Context, scope finance.Scope, filter finance.Filter) ([]finance.Transaction, int64, error) {
	q := GetQuerier(ctx, r.db)

	conds := scopeConds(scope)
	if filter.Type != nil && *filter.Type != "" {
		conds = append(conds, sq.Eq{"type": *filter.Type})
	}
	if filter.Category != nil && *filter.Category != "" {
		conds = append(conds, sq.Eq{"category": *filter.Category})
	}
	if filter.From != nil {
		conds = append(conds, sq.GtOrEq{"date": *filter.From})
	}
	if filter.To != nil {
		conds = append(conds, sq.LtOrEq{"date": *filter.To})
	}

	countSQL, countArgs, err := psql.Select("COUNT(*)").From("transactions").Where(conds).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count query: %w", err)
	}
	var total int64
	if err := q.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	listSQL, listArgs, err := psql.
		Select(strings.Split(transactionColumns, ", ")...).
		From("transactions").
		Where(conds).
		OrderBy("date DESC", "created_at DESC").
		Limit(uint64(filter.Limit)).
		Offset(uint64((filter.Page - 1) * filter.Limit)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list query: %w", err)
	}

	rows, err := q.Query(ctx, listSQL, listArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	txs := make([]finance.Transaction, 0)
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txs = append(txs, tx)
	}

	return txs, total, rows.Err()
}

// Update implements finance.Repository.
func (r *financeRepositoryImpl) Update(ctx context.Context, req finance.UpdateTransactionRequest) error {
	q := GetQuerier(ctx, r.db)

	builder := psql.Update("transactions")
	changed := false

	if req.Category != nil {
		builder = builder.Set("category", *req.Category)
		changed = true
	}
	if req.Amount != nil {
		builder = builder.Set("amount", *req.Amount)
		changed = true
	}
	if req.Description != nil {
		builder = builder.Set("description", *req.Description)
		changed = true
	}
	if req.Date != nil {
		builder = builder.Set("date", *req.Date)
		changed = true
	}

	if !changed {
		return fmt.Errorf("no updatable fields provided for transaction update")
	}

	sqlStr, args, err := builder.
		Set("updated_at", time.Now()).
		Where(sq.Eq{"id": req.ID}).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update query: %w", err)
	}

	var updatedID string
	if err := q.QueryRow(ctx, sqlStr, args...).Scan(&updatedID); err != nil {
		return fmt.Errorf("failed to update transaction %s: %w", req.ID, err)
	}
	return nil
}

// Delete implements finance.Repository.
func (r *financeRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	commandTag, err := q.Exec(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() != 1 {
		return finance.ErrTransactionNotFound
	}
	return nil
}

// Summarize implements finance.Repository.
func (r *financeRepositoryImpl) Summarize(ctx context.Context, scope finance.Scope, from, to time.Time) (finance.Summary, error) {
	q := GetQuerier(ctx, r.db)

	conds := scopeConds(scope)
	conds = append(conds, sq.GtOrEq{"date": from}, sq.LtOrEq{"date": to})

	sqlStr, args, err := psql.
		Select(
			"COALESCE(SUM(amount) FILTER (WHERE type = 'income'), 0)",
			"COALESCE(SUM(amount) FILTER (WHERE type = 'expense'), 0)",
			"COUNT(*) FILTER (WHERE type = 'income')",
			"COUNT(*) FILTER (WHERE type = 'expense')",
		).
		From("transactions").
		Where(conds).
		ToSql()
	if err != nil {
		return finance.Summary{}, fmt.Errorf("failed to build summary query: %w", err)
	}

	var s finance.Summary
	err = q.QueryRow(ctx, sqlStr, args...).Scan(&s.TotalIncome, &s.TotalExpenses, &s.IncomeCount, &s.ExpenseCount)
	if err != nil {
		return finance.Summary{}, fmt.Errorf("failed to summarize transactions: %w", err)
	}
	s.NetProfit = s.TotalIncome - s.TotalExpenses

	return s, nil
}

// ExpensesByCategory implements finance.Repository.
func (r *financeRepositoryImpl) ExpensesByCategory(ctx context.Context, scope finance.Scope, from, to time.Time) ([]finance.CategoryTotal, error) {
	q := GetQuerier(ctx, r.db)

	conds := scopeConds(scope)
	conds = append(conds, sq.Eq{"type": "expense"}, sq.GtOrEq{"date": from}, sq.LtOrEq{"date": to})

	sqlStr, args, err := psql.
		Select("category", "COALESCE(SUM(amount), 0) AS total").
		From("transactions").
		Where(conds).
		GroupBy("category").
		OrderBy("total DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build category query: %w", err)
	}

	rows, err := q.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses by category: %w", err)
	}
	defer rows.Close()

	totals := make([]finance.CategoryTotal, 0)
	for rows.Next() {
		var ct finance.CategoryTotal
		if err := rows.Scan(&ct.Category, &ct.Total); err != nil {
			return nil, fmt.Errorf("failed to scan category total: %w", err)
		}
		totals = append(totals, ct)
	}

	return totals, rows.Err()
}
