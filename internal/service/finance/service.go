package finance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/jackc/pgx/v5"

	"github.com/workbridge/erp-backend-go/internal/domain/finance"
)

// Service records and aggregates financial transactions. Every method
// takes a Scope: staff callers carry their own user ID in it, admins
// an empty one.
type Service interface {
	Create(ctx context.Context, scope finance.Scope, req finance.CreateTransactionRequest) (finance.TransactionResponse, error)
	GetByID(ctx context.Context, scope finance.Scope, id string) (finance.TransactionResponse, error)
	List(ctx context.Context, scope finance.Scope, filter finance.Filter) (finance.ListTransactionsResponse, error)
	Update(ctx context.Context, scope finance.Scope, req finance.UpdateTransactionRequest) (finance.TransactionResponse, error)
	Delete(ctx context.Context, scope finance.Scope, id string) error
	Summary(ctx context.Context, scope finance.Scope, from, to time.Time) (finance.Summary, error)
	MonthlySummary(ctx context.Context, scope finance.Scope) (current, previous finance.Summary, err error)
	ExpensesByCategory(ctx context.Context, scope finance.Scope, from, to time.Time) ([]finance.CategoryTotal, error)
}

type FinanceServiceImpl struct {
	finance.Repository
	clock clock.Clock
}

func NewFinanceService(repo finance.Repository, clk clock.Clock) Service {
	return &FinanceServiceImpl{Repository: repo, clock: clk}
}

// Create implements Service.
func (s *FinanceServiceImpl) Create(ctx context.Context, scope finance.Scope, req finance.CreateTransactionRequest) (finance.TransactionResponse, error) {
	if err := req.Validate(); err != nil {
		return finance.TransactionResponse{}, err
	}

	date, _ := time.Parse("2006-01-02", req.Date)

	createdBy := scope.UserID
	if createdBy == "" {
		return finance.TransactionResponse{}, fmt.Errorf("transaction creator is required")
	}

	tx, err := s.Repository.Create(ctx, finance.Transaction{
		CompanyID:   scope.CompanyID,
		CreatedBy:   createdBy,
		Type:        finance.TransactionType(req.Type),
		Category:    req.Category,
		Amount:      req.Amount,
		Description: req.Description,
		Date:        date,
	})
	if err != nil {
		return finance.TransactionResponse{}, fmt.Errorf("failed to create transaction: %w", err)
	}

	return toTransactionResponse(tx), nil
}

func (s *FinanceServiceImpl) getScoped(ctx context.Context, scope finance.Scope, id string) (finance.Transaction, error) {
	tx, err := s.Repository.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return finance.Transaction{}, finance.ErrTransactionNotFound
		}
		return finance.Transaction{}, fmt.Errorf("failed to get transaction: %w", err)
	}
	if tx.CompanyID != scope.CompanyID {
		return finance.Transaction{}, finance.ErrTransactionNotFound
	}
	if scope.UserID != "" && tx.CreatedBy != scope.UserID {
		return finance.Transaction{}, finance.ErrTransactionNotFound
	}
	return tx, nil
}

// GetByID implements Service.
func (s *FinanceServiceImpl) GetByID(ctx context.Context, scope finance.Scope, id string) (finance.TransactionResponse, error) {
	tx, err := s.getScoped(ctx, scope, id)
	if err != nil {
		return finance.TransactionResponse{}, err
	}
	return toTransactionResponse(tx), nil
}

// List implements Service.
func (s *FinanceServiceImpl) List(ctx context.Context, scope finance.Scope, filter finance.Filter) (finance.ListTransactionsResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}

	txs, total, err := s.Repository.List(ctx, scope, filter)
	if err != nil {
		return finance.ListTransactionsResponse{}, fmt.Errorf("failed to list transactions: %w", err)
	}

	responses := make([]finance.TransactionResponse, 0, len(txs))
	for _, tx := range txs {
		responses = append(responses, toTransactionResponse(tx))
	}

	totalPages := int(total) / filter.Limit
	if int(total)%filter.Limit != 0 {
		totalPages++
	}

	return finance.ListTransactionsResponse{
		TotalCount:   total,
		Page:         filter.Page,
		Limit:        filter.Limit,
		TotalPages:   totalPages,
		Transactions: responses,
	}, nil
}

// Update implements Service.
func (s *FinanceServiceImpl) Update(ctx context.Context, scope finance.Scope, req finance.UpdateTransactionRequest) (finance.TransactionResponse, error) {
	if err := req.Validate(); err != nil {
		return finance.TransactionResponse{}, err
	}

	if _, err := s.getScoped(ctx, scope, req.ID); err != nil {
		return finance.TransactionResponse{}, err
	}

	if err := s.Repository.Update(ctx, req); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return finance.TransactionResponse{}, finance.ErrTransactionNotFound
		}
		return finance.TransactionResponse{}, fmt.Errorf("failed to update transaction: %w", err)
	}

	return s.GetByID(ctx, scope, req.ID)
}

// Delete implements Service.
func (s *FinanceServiceImpl) Delete(ctx context.Context, scope finance.Scope, id string) error {
	if _, err := s.getScoped(ctx, scope, id); err != nil {
		return err
	}
	return s.Repository.Delete(ctx, id)
}

// Summary implements Service.
func (s *FinanceServiceImpl) Summary(ctx context.Context, scope finance.Scope, from, to time.Time) (finance.Summary, error) {
	summary, err := s.Repository.Summarize(ctx, scope, from, to)
	if err != nil {
		return finance.Summary{}, fmt.Errorf("failed to summarize transactions: %w", err)
	}
	return summary, nil
}

// MonthlySummary implements Service. It returns the summary for the
// current calendar month and the one before it.
func (s *FinanceServiceImpl) MonthlySummary(ctx context.Context, scope finance.Scope) (finance.Summary, finance.Summary, error) {
	now := s.clock.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	prevStart := monthStart.AddDate(0, -1, 0)

	current, err := s.Summary(ctx, scope, monthStart, now)
	if err != nil {
		return finance.Summary{}, finance.Summary{}, err
	}
	previous, err := s.Summary(ctx, scope, prevStart, monthStart.Add(-time.Second))
	if err != nil {
		return finance.Summary{}, finance.Summary{}, err
	}

	return current, previous, nil
}

// ExpensesByCategory implements Service.
func (s *FinanceServiceImpl) ExpensesByCategory(ctx context.Context, scope finance.Scope, from, to time.Time) ([]finance.CategoryTotal, error) {
	totals, err := s.Repository.ExpensesByCategory(ctx, scope, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to get expenses by category: %w", err)
	}
	return totals, nil
}

func toTransactionResponse(tx finance.Transaction) finance.TransactionResponse {
	return finance.TransactionResponse{
		ID:          tx.ID,
		Type:        string(tx.Type),
		Category:    tx.Category,
		Amount:      tx.Amount,
		Description: tx.Description,
		Date:        tx.Date,
		CreatedBy:   tx.CreatedBy,
		CreatedAt:   tx.CreatedAt,
	}
}
