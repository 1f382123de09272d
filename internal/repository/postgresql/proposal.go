package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/workbridge/erp-backend-go/internal/domain/proposal"
	"github.com/workbridge/erp-backend-go/internal/pkg/database"
)

type proposalRepositoryImpl struct {
	db *database.DB
}

func NewProposalRepository(db *database.DB) proposal.Repository {
	return &proposalRepositoryImpl{db: db}
}

const proposalColumns = `p.id, p.company_id, p.created_by, p.number, p.customer_id, p.title, p.status,
	p.valid_until, p.total, p.notes, p.created_at, p.updated_at`

func scanProposal(row pgx.Row, withCustomer bool) (proposal.Proposal, error) {
	var prop proposal.Proposal
	dest := []interface{}{
		&prop.ID, &prop.CompanyID, &prop.CreatedBy, &prop.Number, &prop.CustomerID,
		&prop.Title, &prop.Status, &prop.ValidUntil, &prop.Total, &prop.Notes,
		&prop.CreatedAt, &prop.UpdatedAt,
	}
	if withCustomer {
		dest = append(dest, &prop.CustomerName)
	}
	err := row.Scan(dest...)
	return prop, err
}

// Create implements proposal.Repository.
func (r *proposalRepositoryImpl) Create(ctx context.Context, p proposal.Proposal) (proposal.Proposal, error) {
	var created proposal.Proposal

	err := WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		query := `
			INSERT INTO proposals AS p (company_id, created_by, number, customer_id, title, status, valid_until, total, notes)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING ` + proposalColumns

		var err error
		created, err = scanProposal(tx.QueryRow(ctx, query,
			p.CompanyID, p.CreatedBy, p.Number, p.CustomerID, p.Title, p.Status,
			p.ValidUntil, p.Total, p.Notes,
		), false)
		if err != nil {
			return err
		}

		for _, item := range p.Items {
			itemQuery := `
				INSERT INTO proposal_items (proposal_id, description, quantity, unit_price, line_total)
				VALUES ($1, $2, $3, $4, $5)
				RETURNING id, proposal_id`

			var it proposal.Item
			err := tx.QueryRow(ctx, itemQuery,
				created.ID, item.Description, item.Quantity, item.UnitPrice, item.LineTotal,
			).Scan(&it.ID, &it.ProposalID)
			if err != nil {
				return fmt.Errorf("failed to insert proposal item: %w", err)
			}
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
			return proposal.Proposal{}, proposal.ErrNumberConflict
		}
		return proposal.Proposal{}, err
	}

	return created, nil
}

// GetByID implements proposal.Repository.
func (r *proposalRepositoryImpl) GetByID(ctx context.Context, id string) (proposal.Proposal, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + proposalColumns + `, c.name
		FROM proposals p
		JOIN customers c ON c.id = p.customer_id
		WHERE p.id = $1`

	prop, err := scanProposal(q.QueryRow(ctx, query, id), true)
	if err != nil {
		return proposal.Proposal{}, err
	}

	rows, err := q.Query(ctx, `
		SELECT id, proposal_id, description, quantity, unit_price, line_total
		FROM proposal_items
		WHERE proposal_id = $1
		ORDER BY id`, prop.ID)
	if err != nil {
		return proposal.Proposal{}, fmt.Errorf("failed to load proposal items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var it proposal.Item
		if err := rows.Scan(&it.ID, &it.ProposalID, &it.Description, &it.Quantity, &it.UnitPrice, &it.LineTotal); err != nil {
			return proposal.Proposal{}, fmt.Errorf("failed to scan proposal item: %w", err)
		}
		prop.Items = append(prop.Items, it)
	}

	return prop, rows.Err()
}

// ListByCompany implements proposal.Repository.
func (r *proposalRepositoryImpl) ListByCompany(ctx context.Context, companyID string, filter proposal.Filter) ([]proposal.Proposal, int64, error) {
	q := GetQuerier(ctx, r.db)

	whereClause := "WHERE p.company_id = $1"
	args := []interface{}{companyID}

	if filter.Status != nil && *filter.Status != "" {
		args = append(args, *filter.Status)
		whereClause += fmt.Sprintf(" AND p.status = $%d", len(args))
	}
	if filter.CustomerID != nil && *filter.CustomerID != "" {
		args = append(args, *filter.CustomerID)
		whereClause += fmt.Sprintf(" AND p.customer_id = $%d", len(args))
	}
	if filter.CreatedBy != nil && *filter.CreatedBy != "" {
		args = append(args, *filter.CreatedBy)
		whereClause += fmt.Sprintf(" AND p.created_by = $%d", len(args))
	}

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM proposals p "+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count proposals: %w", err)
	}

	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)
	query := fmt.Sprintf(`
		SELECT %s, c.name
		FROM proposals p
		JOIN customers c ON c.id = p.customer_id
		%s
		ORDER BY p.created_at DESC
		LIMIT $%d OFFSET $%d`,
		proposalColumns, whereClause, len(args)-1, len(args))

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list proposals: %w", err)
	}
	defer rows.Close()

	proposals := make([]proposal.Proposal, 0)
	for rows.Next() {
		prop, err := scanProposal(rows, true)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan proposal: %w", err)
		}
		proposals = append(proposals, prop)
	}

	return proposals, total, rows.Err()
}

// UpdateStatus implements proposal.Repository.
func (r *proposalRepositoryImpl) UpdateStatus(ctx context.Context, id string, status proposal.Status) error {
	q := GetQuerier(ctx, r.db)

	var updatedID string
	err := q.QueryRow(ctx,
		`UPDATE proposals SET status = $1, updated_at = NOW() WHERE id = $2 RETURNING id`,
		status, id,
	).Scan(&updatedID)
	if err != nil {
		return fmt.Errorf("failed to update proposal %s status: %w", id, err)
	}
	return nil
}

// Delete implements proposal.Repository.
func (r *proposalRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	commandTag, err := q.Exec(ctx, `DELETE FROM proposals WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() != 1 {
		return proposal.ErrProposalNotFound
	}
	return nil
}

// CountForMonth implements proposal.Repository.
func (r *proposalRepositoryImpl) CountForMonth(ctx context.Context, companyID string, t time.Time) (int, error) {
	q := GetQuerier(ctx, r.db)

	monthStart := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	monthEnd := monthStart.AddDate(0, 1, 0)

	var count int
	err := q.QueryRow(ctx,
		`SELECT COUNT(*) FROM proposals WHERE company_id = $1 AND created_at >= $2 AND created_at < $3`,
		companyID, monthStart, monthEnd,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count proposals for month: %w", err)
	}
	return count, nil
}

// StatusCounts implements proposal.Repository.
func (r *proposalRepositoryImpl) StatusCounts(ctx context.Context, companyID string, createdBy *string) (map[proposal.Status]int, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT status, COUNT(*) FROM proposals WHERE company_id = $1`
	args := []interface{}{companyID}
	if createdBy != nil && *createdBy != "" {
		args = append(args, *createdBy)
		query += fmt.Sprintf(" AND created_by = $%d", len(args))
	}
	query += " GROUP BY status"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to count proposals by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[proposal.Status]int)
	for rows.Next() {
		var status proposal.Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan proposal status count: %w", err)
		}
		counts[status] = count
	}

	return counts, rows.Err()
}
