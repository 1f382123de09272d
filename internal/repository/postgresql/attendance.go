package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/workbridge/erp-backend-go/internal/domain/attendance"
	"github.com/workbridge/erp-backend-go/internal/pkg/database"
)

type attendanceRepositoryImpl struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.Repository {
	return &attendanceRepositoryImpl{db: db}
}

const attendanceColumns = `a.id, a.company_id, a.user_id, a.date, a.clock_in, a.clock_out, a.total_hours, a.notes, a.created_at, a.updated_at`

func scanAttendance(row pgx.Row, withUser bool) (attendance.Record, error) {
	var rec attendance.Record
	dest := []interface{}{
		&rec.ID, &rec.CompanyID, &rec.UserID, &rec.Date, &rec.ClockIn,
		&rec.ClockOut, &rec.TotalHours, &rec.Notes, &rec.CreatedAt, &rec.UpdatedAt,
	}
	if withUser {
		dest = append(dest, &rec.UserName)
	}
	err := row.Scan(dest...)
	return rec, err
}

// Create implements attendance.Repository.
func (r *attendanceRepositoryImpl) Create(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendance_records AS a (company_id, user_id, date, clock_in, notes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + attendanceColumns

	return scanAttendance(q.QueryRow(ctx, query,
		rec.CompanyID, rec.UserID, rec.Date, rec.ClockIn, rec.Notes,
	), false)
}

// GetByID implements attendance.Repository.
func (r *attendanceRepositoryImpl) GetByID(ctx context.Context, id string) (attendance.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + attendanceColumns + ` FROM attendance_records a WHERE a.id = $1`
	return scanAttendance(q.QueryRow(ctx, query, id), false)
}

// GetByUserAndDate implements attendance.Repository.
func (r *attendanceRepositoryImpl) GetByUserAndDate(ctx context.Context, userID string, date time.Time) (attendance.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + attendanceColumns + ` FROM attendance_records a WHERE a.user_id = $1 AND a.date = $2`
	return scanAttendance(q.QueryRow(ctx, query, userID, date), false)
}

// ListByUser implements attendance.Repository.
func (r *attendanceRepositoryImpl) ListByUser(ctx context.Context, userID string, from, to time.Time) ([]attendance.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendance_records a
		WHERE a.user_id = $1 AND a.date >= $2 AND a.date <= $3
		ORDER BY a.date DESC`

	rows, err := q.Query(ctx, query, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance records: %w", err)
	}
	defer rows.Close()

	records := make([]attendance.Record, 0)
	for rows.Next() {
		rec, err := scanAttendance(rows, false)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

// ListByCompany implements attendance.Repository.
func (r *attendanceRepositoryImpl) ListByCompany(ctx context.Context, companyID string, from, to time.Time, page, limit int) ([]attendance.Record, int64, error) {
	q := GetQuerier(ctx, r.db)

	var total int64
	err := q.QueryRow(ctx,
		`SELECT COUNT(*) FROM attendance_records WHERE company_id = $1 AND date >= $2 AND date <= $3`,
		companyID, from, to,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count attendance records: %w", err)
	}

	query := `
		SELECT ` + attendanceColumns + `, u.full_name
		FROM attendance_records a
		JOIN users u ON u.id = a.user_id
		WHERE a.company_id = $1 AND a.date >= $2 AND a.date <= $3
		ORDER BY a.date DESC, u.full_name ASC
		LIMIT $4 OFFSET $5`

	rows, err := q.Query(ctx, query, companyID, from, to, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list attendance records: %w", err)
	}
	defer rows.Close()

	records := make([]attendance.Record, 0)
	for rows.Next() {
		rec, err := scanAttendance(rows, true)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		records = append(records, rec)
	}

	return records, total, rows.Err()
}

// SetClockOut implements attendance.Repository.
func (r *attendanceRepositoryImpl) SetClockOut(ctx context.Context, id string, clockOut time.Time, totalHours float64) error {
	q := GetQuerier(ctx, r.db)

	var updatedID string
	err := q.QueryRow(ctx,
		`UPDATE attendance_records SET clock_out = $1, total_hours = $2, updated_at = NOW() WHERE id = $3 RETURNING id`,
		clockOut, totalHours, id,
	).Scan(&updatedID)
	if err != nil {
		return fmt.Errorf("failed to set clock out for record %s: %w", id, err)
	}
	return nil
}
