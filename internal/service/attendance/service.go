package attendance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/jackc/pgx/v5"

	"github.com/workbridge/erp-backend-go/internal/domain/attendance"
)

// Service handles clock in/out and attendance listings.
type Service interface {
	ClockIn(ctx context.Context, companyID, userID string, req attendance.ClockInRequest) (attendance.RecordResponse, error)
	ClockOut(ctx context.Context, userID string) (attendance.RecordResponse, error)
	Today(ctx context.Context, userID string) (attendance.RecordResponse, error)
	ListByUser(ctx context.Context, userID string, req attendance.ListRequest) ([]attendance.RecordResponse, error)
	ListByCompany(ctx context.Context, companyID string, req attendance.ListRequest) ([]attendance.RecordResponse, int64, error)
}

type AttendanceServiceImpl struct {
	attendance.Repository
	clock clock.Clock
}

func NewAttendanceService(repo attendance.Repository, clk clock.Clock) Service {
	return &AttendanceServiceImpl{Repository: repo, clock: clk}
}

// dateOf truncates t to its calendar day.
func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// ClockIn implements Service. One open record per user per day.
func (s *AttendanceServiceImpl) ClockIn(ctx context.Context, companyID, userID string, req attendance.ClockInRequest) (attendance.RecordResponse, error) {
	now := s.clock.Now()
	today := dateOf(now)

	_, err := s.Repository.GetByUserAndDate(ctx, userID, today)
	if err == nil {
		return attendance.RecordResponse{}, attendance.ErrAlreadyClockedIn
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return attendance.RecordResponse{}, fmt.Errorf("failed to check today's attendance: %w", err)
	}

	rec, err := s.Repository.Create(ctx, attendance.Record{
		CompanyID: companyID,
		UserID:    userID,
		Date:      today,
		ClockIn:   now,
		Notes:     req.Notes,
	})
	if err != nil {
		return attendance.RecordResponse{}, fmt.Errorf("failed to create attendance record: %w", err)
	}

	return toRecordResponse(rec), nil
}

// ClockOut implements Service. Total hours are computed here, once,
// and stored with the record.
func (s *AttendanceServiceImpl) ClockOut(ctx context.Context, userID string) (attendance.RecordResponse, error) {
	now := s.clock.Now()

	rec, err := s.Repository.GetByUserAndDate(ctx, userID, dateOf(now))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.RecordResponse{}, attendance.ErrNotClockedIn
		}
		return attendance.RecordResponse{}, fmt.Errorf("failed to get today's attendance: %w", err)
	}

	if rec.ClockOut != nil {
		return attendance.RecordResponse{}, attendance.ErrAlreadyClockedOut
	}

	totalHours := now.Sub(rec.ClockIn).Hours()
	if totalHours < 0 {
		totalHours = 0
	}

	if err := s.Repository.SetClockOut(ctx, rec.ID, now, totalHours); err != nil {
		return attendance.RecordResponse{}, fmt.Errorf("failed to clock out: %w", err)
	}

	rec.ClockOut = &now
	rec.TotalHours = &totalHours

	return toRecordResponse(rec), nil
}

// Today implements Service.
func (s *AttendanceServiceImpl) Today(ctx context.Context, userID string) (attendance.RecordResponse, error) {
	rec, err := s.Repository.GetByUserAndDate(ctx, userID, dateOf(s.clock.Now()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.RecordResponse{}, attendance.ErrRecordNotFound
		}
		return attendance.RecordResponse{}, fmt.Errorf("failed to get today's attendance: %w", err)
	}
	return toRecordResponse(rec), nil
}

func (s *AttendanceServiceImpl) window(req attendance.ListRequest) (time.Time, time.Time, error) {
	now := s.clock.Now()
	from := dateOf(now).AddDate(0, -1, 0)
	to := dateOf(now)

	if req.From != "" {
		parsed, err := time.Parse("2006-01-02", req.From)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid from date: %w", err)
		}
		from = parsed
	}
	if req.To != "" {
		parsed, err := time.Parse("2006-01-02", req.To)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid to date: %w", err)
		}
		to = parsed
	}

	return from, to, nil
}

// ListByUser implements Service.
func (s *AttendanceServiceImpl) ListByUser(ctx context.Context, userID string, req attendance.ListRequest) ([]attendance.RecordResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	from, to, err := s.window(req)
	if err != nil {
		return nil, err
	}

	records, err := s.Repository.ListByUser(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}

	responses := make([]attendance.RecordResponse, 0, len(records))
	for _, rec := range records {
		responses = append(responses, toRecordResponse(rec))
	}
	return responses, nil
}

// ListByCompany implements Service.
func (s *AttendanceServiceImpl) ListByCompany(ctx context.Context, companyID string, req attendance.ListRequest) ([]attendance.RecordResponse, int64, error) {
	if err := req.Validate(); err != nil {
		return nil, 0, err
	}

	from, to, err := s.window(req)
	if err != nil {
		return nil, 0, err
	}

	page := req.Page
	if page < 1 {
		page = 1
	}
	limit := req.Limit
	if limit < 1 || limit > 100 {
		limit = 20
	}

	records, total, err := s.Repository.ListByCompany(ctx, companyID, from, to, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list attendance: %w", err)
	}

	responses := make([]attendance.RecordResponse, 0, len(records))
	for _, rec := range records {
		responses = append(responses, toRecordResponse(rec))
	}
	return responses, total, nil
}

func toRecordResponse(rec attendance.Record) attendance.RecordResponse {
	return attendance.RecordResponse{
		ID:         rec.ID,
		UserID:     rec.UserID,
		UserName:   rec.UserName,
		Date:       rec.Date,
		ClockIn:    rec.ClockIn,
		ClockOut:   rec.ClockOut,
		TotalHours: rec.TotalHours,
		Notes:      rec.Notes,
	}
}
