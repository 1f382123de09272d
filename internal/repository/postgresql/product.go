package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/workbridge/erp-backend-go/internal/domain/product"
	"github.com/workbridge/erp-backend-go/internal/pkg/database"
)

type productRepositoryImpl struct {
	db *database.DB
}

func NewProductRepository(db *database.DB) product.Repository {
	return &productRepositoryImpl{db: db}
}

const productColumns = `id, company_id, name, sku, description, unit_price, unit, picture_url, is_active, created_at, updated_at`

func scanProduct(row pgx.Row) (product.Product, error) {
	var p product.Product
	err := row.Scan(
		&p.ID, &p.CompanyID, &p.Name, &p.SKU, &p.Description,
		&p.UnitPrice, &p.Unit, &p.PictureURL, &p.IsActive,
		&p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

// Create implements product.Repository.
func (r *productRepositoryImpl) Create(ctx context.Context, p product.Product) (product.Product, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO products (company_id, name, sku, description, unit_price, unit, picture_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + productColumns

	created, err := scanProduct(q.QueryRow(ctx, query,
		p.CompanyID, p.Name, p.SKU, p.Description, p.UnitPrice, p.Unit, p.PictureURL,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return product.Product{}, product.ErrSKUExists
		}
		return product.Product{}, err
	}
	return created, nil
}

// GetByID implements product.Repository.
func (r *productRepositoryImpl) GetByID(ctx context.Context, id string) (product.Product, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	return scanProduct(q.QueryRow(ctx, query, id))
}

// ListByCompany implements product.Repository.
func (r *productRepositoryImpl) ListByCompany(ctx context.Context, companyID string, search *string, page, limit int) ([]product.Product, int64, error) {
	q := GetQuerier(ctx, r.db)

	where := []string{"company_id = $1"}
	args := []interface{}{companyID}

	if search != nil && *search != "" {
		args = append(args, "%"+*search+"%")
		where = append(where, fmt.Sprintf("(name ILIKE $%d OR sku ILIKE $%d)", len(args), len(args)))
	}

	whereClause := strings.Join(where, " AND ")

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM products WHERE "+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	args = append(args, limit, (page-1)*limit)
	query := fmt.Sprintf(
		"SELECT %s FROM products WHERE %s ORDER BY name ASC LIMIT $%d OFFSET $%d",
		productColumns, whereClause, len(args)-1, len(args),
	)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := make([]product.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}

	return products, total, rows.Err()
}

// Update implements product.Repository.
func (r *productRepositoryImpl) Update(ctx context.Context, req product.UpdateProductRequest) error {
	q := GetQuerier(ctx, r.db)

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.SKU != nil {
		updates["sku"] = *req.SKU
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.UnitPrice != nil {
		updates["unit_price"] = *req.UnitPrice
	}
	if req.Unit != nil {
		updates["unit"] = *req.Unit
	}
	if req.PictureURL != nil {
		updates["picture_url"] = *req.PictureURL
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if len(updates) == 0 {
		return fmt.Errorf("no updatable fields provided for product update")
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

	sql := "UPDATE products SET " + strings.Join(setClauses, ", ") + fmt.Sprintf(" WHERE id = $%d RETURNING id", i)
	args = append(args, req.ID)

	var updatedID string
	if err := q.QueryRow(ctx, sql, args...).Scan(&updatedID); err != nil {
		return fmt.Errorf("failed to update product with id %s: %w", req.ID, err)
	}
	return nil
}

// Delete implements product.Repository.
func (r *productRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	commandTag, err := q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() != 1 {
		return product.ErrProductNotFound
	}
	return nil
}
