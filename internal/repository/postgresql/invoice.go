package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/workbridge/erp-backend-go/internal/domain/invoice"
	"github.com/workbridge/erp-backend-go/internal/pkg/database"
)

type invoiceRepositoryImpl struct {
	db *database.DB
}

func NewInvoiceRepository(db *database.DB) invoice.Repository {
	return &invoiceRepositoryImpl{db: db}
}

const invoiceColumns = `i.id, i.company_id, i.created_by, i.number, i.customer_id, i.status,
	i.issue_date, i.due_date, i.subtotal, i.tax_rate, i.tax_total, i.total, i.notes, i.created_at, i.updated_at`

// pgUniqueViolation is the PostgreSQL error code for unique_violation.
const pgUniqueViolation = "23505"

func scanInvoice(row pgx.Row, withCustomer bool) (invoice.Invoice, error) {
	var inv invoice.Invoice
	dest := []interface{}{
		&inv.ID, &inv.CompanyID, &inv.CreatedBy, &inv.Number, &inv.CustomerID, &inv.Status,
		&inv.IssueDate, &inv.DueDate, &inv.Subtotal, &inv.TaxRate, &inv.TaxTotal, &inv.Total,
		&inv.Notes, &inv.CreatedAt, &inv.UpdatedAt,
	}
	if withCustomer {
		dest = append(dest, &inv.CustomerName)
	}
	err := row.Scan(dest...)
	return inv, err
}

// Create implements invoice.Repository. The invoice row and its items
// are inserted atomically; a duplicate number maps to ErrNumberConflict
// so the numbering retry loop in the service can regenerate.
func (r *invoiceRepositoryImpl) Create(ctx context.Context, inv invoice.Invoice) (invoice.Invoice, error) {
	var created invoice.Invoice

	err := WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		query := `
			INSERT INTO invoices AS i (company_id, created_by, number, customer_id, status,
				issue_date, due_date, subtotal, tax_rate, tax_total, total, notes)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			RETURNING ` + invoiceColumns

		var err error
		created, err = scanInvoice(tx.QueryRow(ctx, query,
			inv.CompanyID, inv.CreatedBy, inv.Number, inv.CustomerID, inv.Status,
			inv.IssueDate, inv.DueDate, inv.Subtotal, inv.TaxRate, inv.TaxTotal, inv.Total, inv.Notes,
		), false)
		if err != nil {
			return err
		}

		for _, item := range inv.Items {
			itemQuery := `
				INSERT INTO invoice_items (invoice_id, product_id, description, quantity, unit_price, line_total)
				VALUES ($1, $2, $3, $4, $5, $6)
				RETURNING id, invoice_id`

			var it invoice.Item
			err := tx.QueryRow(ctx, itemQuery,
				created.ID, item.ProductID, item.Description, item.Quantity, item.UnitPrice, item.LineTotal,
			).Scan(&it.ID, &it.InvoiceID)
			if err != nil {
				return fmt.Errorf("failed to insert invoice item: %w", err)
			}
			it.ProductID = item.ProductID
			it.Description = item.Description
			it.Quantity = item.Quantity
			it.UnitPrice = item.UnitPrice
			it.LineTotal = item.LineTotal
			created.Items = append(created.Items, it)
		}

		return nil
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return invoice.Invoice{}, invoice.ErrNumberConflict
		}
		return invoice.Invoice{}, err
	}

	return created, nil
}

func (r *invoiceRepositoryImpl) loadItems(ctx context.Context, q database.Querier, invoiceID string) ([]invoice.Item, error) {
	rows, err := q.Query(ctx, `
		SELECT id, invoice_id, product_id, description, quantity, unit_price, line_total
		FROM invoice_items
		WHERE invoice_id = $1
		ORDER BY id`, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to load invoice items: %w", err)
	}
	defer rows.Close()

	items := make([]invoice.Item, 0)
	for rows.Next() {
		var it invoice.Item
		if err := rows.Scan(&it.ID, &it.InvoiceID, &it.ProductID, &it.Description, &it.Quantity, &it.UnitPrice, &it.LineTotal); err != nil {
			return nil, fmt.Errorf("failed to scan invoice item: %w", err)
		}
		items = append(items, it)
	}

	return items, rows.Err()
}

// GetByID implements invoice.Repository.
func (r *invoiceRepositoryImpl) GetByID(ctx context.Context, id string) (invoice.Invoice, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + invoiceColumns + `, c.name
		FROM invoices i
		JOIN customers c ON c.id = i.customer_id
		WHERE i.id = $1`

	inv, err := scanInvoice(q.QueryRow(ctx, query, id), true)
	if err != nil {
		return invoice.Invoice{}, err
	}

	inv.Items, err = r.loadItems(ctx, q, inv.ID)
	if err != nil {
		return invoice.Invoice{}, err
	}

	return inv, nil
}

// ListByCompany implements invoice.Repository.
func (r *invoiceRepositoryImpl) ListByCompany(ctx context.Context, companyID string, filter invoice.Filter) ([]invoice.Invoice, int64, error) {
	q := GetQuerier(ctx, r.db)

	whereClause := "WHERE i.company_id = $1"
	args := []interface{}{companyID}

	if filter.Status != nil && *filter.Status != "" {
		args = append(args, *filter.Status)
		whereClause += fmt.Sprintf(" AND i.status = $%d", len(args))
	}
	if filter.CustomerID != nil && *filter.CustomerID != "" {
		args = append(args, *filter.CustomerID)
		whereClause += fmt.Sprintf(" AND i.customer_id = $%d", len(args))
	}
	if filter.CreatedBy != nil && *filter.CreatedBy != "" {
		args = append(args, *filter.CreatedBy)
		whereClause += fmt.Sprintf(" AND i.created_by = $%d", len(args))
	}

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM invoices i "+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count invoices: %w", err)
	}

	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)
	query := fmt.Sprintf(`
		SELECT %s, c.name
		FROM invoices i
		JOIN customers c ON c.id = i.customer_id
		%s
		ORDER BY i.issue_date DESC, i.number DESC
		LIMIT $%d OFFSET $%d`,
		invoiceColumns, whereClause, len(args)-1, len(args))

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list invoices: %w", err)
	}
	defer rows.Close()

	invoices := make([]invoice.Invoice, 0)
	for rows.Next() {
		inv, err := scanInvoice(rows, true)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan invoice: %w", err)
		}
		invoices = append(invoices, inv)
	}

	return invoices, total, rows.Err()
}

// UpdateStatus implements invoice.Repository.
func (r *invoiceRepositoryImpl) UpdateStatus(ctx context.Context, id string, status invoice.Status) error {
	q := GetQuerier(ctx, r.db)

	var updatedID string
	err := q.QueryRow(ctx,
		`UPDATE invoices SET status = $1, updated_at = NOW() WHERE id = $2 RETURNING id`,
		status, id,
	).Scan(&updatedID)
	if err != nil {
		return fmt.Errorf("failed to update invoice %s status: %w", id, err)
	}
	return nil
}

// Delete implements invoice.Repository.
func (r *invoiceRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	commandTag, err := q.Exec(ctx, `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() != 1 {
		return invoice.ErrInvoiceNotFound
	}
	return nil
}

// CountForMonth implements invoice.Repository.
func (r *invoiceRepositoryImpl) CountForMonth(ctx context.Context, companyID string, t time.Time) (int, error) {
	q := GetQuerier(ctx, r.db)

	monthStart := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	monthEnd := monthStart.AddDate(0, 1, 0)

	var count int
	err := q.QueryRow(ctx,
		`SELECT COUNT(*) FROM invoices WHERE company_id = $1 AND created_at >= $2 AND created_at < $3`,
		companyID, monthStart, monthEnd,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count invoices for month: %w", err)
	}
	return count, nil
}

// ListOverdue implements invoice.Repository.
func (r *invoiceRepositoryImpl) ListOverdue(ctx context.Context, companyID string, now time.Time) ([]invoice.Invoice, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + invoiceColumns + `, c.name
		FROM invoices i
		JOIN customers c ON c.id = i.customer_id
		WHERE i.company_id = $1
		  AND i.status IN ('sent', 'pending')
		  AND i.due_date < $2
		ORDER BY i.due_date ASC`

	rows, err := q.Query(ctx, query, companyID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to list overdue invoices: %w", err)
	}
	defer rows.Close()

	invoices := make([]invoice.Invoice, 0)
	for rows.Next() {
		inv, err := scanInvoice(rows, true)
		if err != nil {
			return nil, fmt.Errorf("failed to scan overdue invoice: %w", err)
		}
		invoices = append(invoices, inv)
	}

	return invoices, rows.Err()
}

// OverdueRatio implements invoice.Repository.
func (r *invoiceRepositoryImpl) OverdueRatio(ctx context.Context, companyID string, now time.Time) (overdue, total int, err error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			COUNT(*) FILTER (WHERE status IN ('sent', 'pending') AND due_date < $2),
			COUNT(*) FILTER (WHERE status <> 'cancelled')
		FROM invoices
		WHERE company_id = $1`

	if err := q.QueryRow(ctx, query, companyID, now).Scan(&overdue, &total); err != nil {
		return 0, 0, fmt.Errorf("failed to compute overdue ratio: %w", err)
	}
	return overdue, total, nil
}
