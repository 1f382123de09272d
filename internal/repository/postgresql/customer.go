package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/workbridge/erp-backend-go/internal/domain/customer"
	"github.com/workbridge/erp-backend-go/internal/pkg/database"
)

type customerRepositoryImpl struct {
	db *database.DB
}

func NewCustomerRepository(db *database.DB) customer.Repository {
	return &customerRepositoryImpl{db: db}
}

const customerColumns = `id, company_id, name, email, phone, address, contact_person, created_at, updated_at`

func scanCustomer(row pgx.Row) (customer.Customer, error) {
	var c customer.Customer
	err := row.Scan(
		&c.ID, &c.CompanyID, &c.Name, &c.Email, &c.Phone,
		&c.Address, &c.ContactPerson, &c.CreatedAt, &c.UpdatedAt,
	)
	return c, err
}

// Create implements customer.Repository.
func (r *customerRepositoryImpl) Create(ctx context.Context, c customer.Customer) (customer.Customer, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO customers (company_id, name, email, phone, address, contact_person)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + customerColumns

	return scanCustomer(q.QueryRow(ctx, query,
		c.CompanyID, c.Name, c.Email, c.Phone, c.Address, c.ContactPerson,
	))
}

// GetByID implements customer.Repository.
func (r *customerRepositoryImpl) GetByID(ctx context.Context, id string) (customer.Customer, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`
	return scanCustomer(q.QueryRow(ctx, query, id))
}

// ListByCompany implements customer.Repository.
func (r *customerRepositoryImpl) ListByCompany(ctx context.Context, companyID string, search *string, page, limit int) ([]customer.Customer, int64, error) {
	q := GetQuerier(ctx, r.db)

	where := []string{"company_id = $1"}
	args := []interface{}{companyID}

	if search != nil && *search != "" {
		args = append(args, "%"+*search+"%")
		where = append(where, fmt.Sprintf("(name ILIKE $%d OR email ILIKE $%d)", len(args), len(args)))
	}

	whereClause := strings.Join(where, " AND ")

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM customers WHERE "+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count customers: %w", err)
	}

	args = append(args, limit, (page-1)*limit)
	query := fmt.Sprintf(
		"SELECT %s FROM customers WHERE %s ORDER BY name ASC LIMIT $%d OFFSET $%d",
		customerColumns, whereClause, len(args)-1, len(args),
	)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list customers: %w", err)
	}
	defer rows.Close()

	customers := make([]customer.Customer, 0)
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan customer: %w", err)
		}
		customers = append(customers, c)
	}

	return customers, total, rows.Err()
}

// Update implements customer.Repository.
func (r *customerRepositoryImpl) Update(ctx context.Context, req customer.UpdateCustomerRequest) error {
	q := GetQuerier(ctx, r.db)

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.Address != nil {
		updates["address"] = *req.Address
	}
	if req.ContactPerson != nil {
		updates["contact_person"] = *req.ContactPerson
	}

	if len(updates) == 0 {
		return fmt.Errorf("no updatable fields provided for customer update")
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

	sql := "UPDATE customers SET " + strings.Join(setClauses, ", ") + fmt.Sprintf(" WHERE id = $%d RETURNING id", i)
	args = append(args, req.ID)

	var updatedID string
	if err := q.QueryRow(ctx, sql, args...).Scan(&updatedID); err != nil {
		return fmt.Errorf("failed to update customer with id %s: %w", req.ID, err)
	}
	return nil
}

// Delete implements customer.Repository.
func (r *customerRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	commandTag, err := q.Exec(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() != 1 {
		return customer.ErrCustomerNotFound
	}
	return nil
}
