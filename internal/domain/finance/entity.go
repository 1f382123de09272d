package finance

import "time"

type TransactionType string

const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
)

// Transaction entity - a single income or expense record
type Transaction struct {
	ID        string
	CompanyID string
	CreatedBy string

	Type        TransactionType
	Category    string
	Amount      float64
	Description *string
	Date        time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Summary aggregates transactions over a time range.
type Summary struct {
	TotalIncome   float64 `json:"total_income"`
	TotalExpenses float64 `json:"total_expenses"`
	NetProfit     float64 `json:"net_profit"`
	IncomeCount   int     `json:"income_count"`
	ExpenseCount  int     `json:"expense_count"`
}

// CategoryTotal is a summed amount per expense category.
type CategoryTotal struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
}

// Scope bounds which rows a query may touch. An empty UserID means
// company-wide (admin callers only).
type Scope struct {
	CompanyID string
	UserID    string
}
