package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/workbridge/erp-backend-go/internal/domain/company"
	"github.com/workbridge/erp-backend-go/internal/pkg/database"
)

type companyRepositoryImpl struct {
	db *database.DB
}

func NewCompanyRepository(db *database.DB) company.Repository {
	return &companyRepositoryImpl{db: db}
}

const companyColumns = `id, name, slug, email, phone, address, logo_url, website, tax_id, currency, created_at, updated_at`

func scanCompany(row pgx.Row) (company.Company, error) {
	var c company.Company
	err := row.Scan(
		&c.ID, &c.Name, &c.Slug, &c.Email, &c.Phone, &c.Address,
		&c.LogoURL, &c.Website, &c.TaxID, &c.Currency,
		&c.CreatedAt, &c.UpdatedAt,
	)
	return c, err
}

// Create implements company.Repository.
func (r *companyRepositoryImpl) Create(ctx context.Context, c company.Company) (company.Company, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO companies (name, slug, email, phone, address, currency)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + companyColumns

	return scanCompany(q.QueryRow(ctx, query, c.Name, c.Slug, c.Email, c.Phone, c.Address, c.Currency))
}

// GetByID implements company.Repository.
func (r *companyRepositoryImpl) GetByID(ctx context.Context, id string) (company.Company, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + companyColumns + ` FROM companies WHERE id = $1`
	return scanCompany(q.QueryRow(ctx, query, id))
}

// GetBySlug implements company.Repository.
func (r *companyRepositoryImpl) GetBySlug(ctx context.Context, slug string) (company.Company, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + companyColumns + ` FROM companies WHERE slug = $1`
	return scanCompany(q.QueryRow(ctx, query, slug))
}

// ListIDs implements company.Repository. Used by scheduled jobs that
// iterate every tenant.
func (r *companyRepositoryImpl) ListIDs(ctx context.Context) ([]string, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT id FROM companies ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to list company ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Update implements company.Repository.
func (r *companyRepositoryImpl) Update(ctx context.Context, req company.UpdateCompanyRequest) error {
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
	if req.LogoURL != nil {
		updates["logo_url"] = *req.LogoURL
	}
	if req.Website != nil {
		updates["website"] = *req.Website
	}
	if req.TaxID != nil {
		updates["tax_id"] = *req.TaxID
	}
	if req.Currency != nil {
		updates["currency"] = *req.Currency
	}

	if len(updates) == 0 {
		return fmt.Errorf("no updatable fields provided for company update")
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

	sql := "UPDATE companies SET " + strings.Join(setClauses, ", ") + fmt.Sprintf(" WHERE id = $%d RETURNING id", i)
	args = append(args, req.ID)

	var updatedID string
	if err := q.QueryRow(ctx, sql, args...).Scan(&updatedID); err != nil {
		return fmt.Errorf("failed to update company with id %s: %w", req.ID, err)
	}
	return nil
}
