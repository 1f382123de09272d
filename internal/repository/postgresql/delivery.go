package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/workbridge/erp-backend-go/internal/domain/delivery"
	"github.com/workbridge/erp-backend-go/internal/pkg/database"
)

type deliveryRepositoryImpl struct {
	db *database.DB
}

func NewDeliveryRepository(db *database.DB) delivery.Repository {
	return &deliveryRepositoryImpl{db: db}
}

const deliveryColumns = `d.id, d.company_id, d.created_by, d.number, d.customer_id, d.status,
	d.delivery_date, d.address, d.notes, d.created_at, d.updated_at`

func scanDelivery(row pgx.Row, withCustomer bool) (delivery.Delivery, error) {
	var del delivery.Delivery
	dest := []interface{}{
		&del.ID, &del.CompanyID, &del.CreatedBy, &del.Number, &del.CustomerID, &del.Status,
		&del.DeliveryDate, &del.Address, &del.Notes, &del.CreatedAt, &del.UpdatedAt,
	}
	if withCustomer {
		dest = append(dest, &del.CustomerName)
	}
	err := row.Scan(dest...)
	return del, err
}

// Create implements delivery.Repository.
func (r *deliveryRepositoryImpl) Create(ctx context.Context, d delivery.Delivery) (delivery.Delivery, error) {
	var created delivery.Delivery

	err := WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		query := `
			INSERT INTO deliveries AS d (company_id, created_by, number, customer_id, status, delivery_date, address, notes)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING ` + deliveryColumns

		var err error
		created, err = scanDelivery(tx.QueryRow(ctx, query,
			d.CompanyID, d.CreatedBy, d.Number, d.CustomerID, d.Status,
			d.DeliveryDate, d.Address, d.Notes,
		), false)
		if err != nil {
			return err
		}

		for _, item := range d.Items {
			itemQuery := `
				INSERT INTO delivery_items (delivery_id, product_id, description, quantity, picture_url)
				VALUES ($1, $2, $3, $4, $5)
				RETURNING id, delivery_id`

			var it delivery.Item
			err := tx.QueryRow(ctx, itemQuery,
				created.ID, item.ProductID, item.Description, item.Quantity, item.PictureURL,
			).Scan(&it.ID, &it.DeliveryID)
			if err != nil {
				return fmt.Errorf("failed to insert delivery item: %w", err)
			}
			it.ProductID = item.ProductID
			it.Description = item.Description
			it.Quantity = item.Quantity
			it.PictureURL = item.PictureURL
			created.Items = append(created.Items, it)
		}

		return nil
	})
	if err != nil {
		return delivery.Delivery{}, err
	}

	return created, nil
}

// GetByID implements delivery.Repository.
func (r *deliveryRepositoryImpl) GetByID(ctx context.Context, id string) (delivery.Delivery, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + deliveryColumns + `, c.name
		FROM deliveries d
		JOIN customers c ON c.id = d.customer_id
		WHERE d.id = $1`

	del, err := scanDelivery(q.QueryRow(ctx, query, id), true)
	if err != nil {
		return delivery.Delivery{}, err
	}

	rows, err := q.Query(ctx, `
		SELECT id, delivery_id, product_id, description, quantity, picture_url
		FROM delivery_items
		WHERE delivery_id = $1
		ORDER BY id`, del.ID)
	if err != nil {
		return delivery.Delivery{}, fmt.Errorf("failed to load delivery items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var it delivery.Item
		if err := rows.Scan(&it.ID, &it.DeliveryID, &it.ProductID, &it.Description, &it.Quantity, &it.PictureURL); err != nil {
			return delivery.Delivery{}, fmt.Errorf("failed to scan delivery item: %w", err)
		}
		del.Items = append(del.Items, it)
	}

	return del, rows.Err()
}

// ListByCompany implements delivery.Repository.
func (r *deliveryRepositoryImpl) ListByCompany(ctx context.Context, companyID string, filter delivery.Filter) ([]delivery.Delivery, int64, error) {
	q := GetQuerier(ctx, r.db)

	whereClause := "WHERE d.company_id = $1"
	args := []interface{}{companyID}

	if filter.Status != nil && *filter.Status != "" {
		args = append(args, *filter.Status)
		whereClause += fmt.Sprintf(" AND d.status = $%d", len(args))
	}
	if filter.CustomerID != nil && *filter.CustomerID != "" {
		args = append(args, *filter.CustomerID)
		whereClause += fmt.Sprintf(" AND d.customer_id = $%d", len(args))
	}

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM deliveries d "+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count deliveries: %w", err)
	}

	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)
	query := fmt.Sprintf(`
		SELECT %s, c.name
		FROM deliveries d
		JOIN customers c ON c.id = d.customer_id
		%s
		ORDER BY d.delivery_date DESC
		LIMIT $%d OFFSET $%d`,
		deliveryColumns, whereClause, len(args)-1, len(args))

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list deliveries: %w", err)
	}
	defer rows.Close()

	deliveries := make([]delivery.Delivery, 0)
	for rows.Next() {
		del, err := scanDelivery(rows, true)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan delivery: %w", err)
		}
		deliveries = append(deliveries, del)
	}

	return deliveries, total, rows.Err()
}

// UpdateStatus implements delivery.Repository.
func (r *deliveryRepositoryImpl) UpdateStatus(ctx context.Context, id string, status delivery.Status) error {
	q := GetQuerier(ctx, r.db)

	var updatedID string
	err := q.QueryRow(ctx,
		`UPDATE deliveries SET status = $1, updated_at = NOW() WHERE id = $2 RETURNING id`,
		status, id,
	).Scan(&updatedID)
	if err != nil {
		return fmt.Errorf("failed to update delivery %s status: %w", id, err)
	}
	return nil
}

// Delete implements delivery.Repository.
func (r *deliveryRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	commandTag, err := q.Exec(ctx, `DELETE FROM deliveries WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() != 1 {
		return delivery.ErrDeliveryNotFound
	}
	return nil
}

// CountForMonth implements delivery.Repository.
func (r *deliveryRepositoryImpl) CountForMonth(ctx context.Context, companyID string, t time.Time) (int, error) {
	q := GetQuerier(ctx, r.db)

	monthStart := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	monthEnd := monthStart.AddDate(0, 1, 0)

	var count int
	err := q.QueryRow(ctx,
		`SELECT COUNT(*) FROM deliveries WHERE company_id = $1 AND created_at >= $2 AND created_at < $3`,
		companyID, monthStart, monthEnd,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count deliveries for month: %w", err)
	}
	return count, nil
}
