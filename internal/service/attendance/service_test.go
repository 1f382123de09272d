package attendance

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/workbridge/erp-backend-go/internal/domain/attendance"
)

type fakeAttendanceRepo struct {
	records map[string]attendance.Record
	nextID  int
}

func newFakeAttendanceRepo() *fakeAttendanceRepo {
	return &fakeAttendanceRepo{records: make(map[string]attendance.Record)}
}

func (r *fakeAttendanceRepo) Create(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	r.nextID++
	rec.ID = fmt.Sprintf("att-%d", r.nextID)
	r.records[rec.ID] = rec
	return rec, nil
}

func (r *fakeAttendanceRepo) GetByID(ctx context.Context, id string) (attendance.Record, error) {
	rec, ok := r.records[id]
	if !ok {
		return attendance.Record{}, pgx.ErrNoRows
	}
	return rec, nil
}

func (r *fakeAttendanceRepo) GetByUserAndDate(ctx context.Context, userID string, date time.Time) (attendance.Record, error) {
	for _, rec := range r.records {
		if rec.UserID == userID && rec.Date.Equal(date) {
			return rec, nil
		}
	}
	return attendance.Record{}, pgx.ErrNoRows
}

func (r *fakeAttendanceRepo) ListByUser(ctx context.Context, userID string, from, to time.Time) ([]attendance.Record, error) {
	var out []attendance.Record
	for _, rec := range r.records {
		if rec.UserID == userID && !rec.Date.Before(from) && !rec.Date.After(to) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *fakeAttendanceRepo) ListByCompany(ctx context.Context, companyID string, from, to time.Time, page, limit int) ([]attendance.Record, int64, error) {
	var out []attendance.Record
	for _, rec := range r.records {
		if rec.CompanyID == companyID {
			out = append(out, rec)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeAttendanceRepo) SetClockOut(ctx context.Context, id string, clockOut time.Time, totalHours float64) error {
	rec := r.records[id]
	rec.ClockOut = &clockOut
	rec.TotalHours = &totalHours
	r.records[id] = rec
	return nil
}

func newAttendanceFixture() (Service, *fakeAttendanceRepo, *clock.Mock) {
	repo := newFakeAttendanceRepo()
	clk := clock.NewMock()
	clk.Set(time.Date(2026, 8, 17, 8, 30, 0, 0, time.UTC))
	return NewAttendanceService(repo, clk), repo, clk
}

func TestClockInOncePerDay(t *testing.T) {
	svc, _, _ := newAttendanceFixture()

	first, err := svc.ClockIn(context.Background(), "company-1", "user-a", attendance.ClockInRequest{})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 8, 17, 0, 0, 0, 0, time.UTC), first.Date)

	_, err = svc.ClockIn(context.Background(), "company-1", "user-a", attendance.ClockInRequest{})
	assert.ErrorIs(t, err, attendance.ErrAlreadyClockedIn)
}

func TestClockOutComputesHours(t *testing.T) {
	svc, _, clk := newAttendanceFixture()

	_, err := svc.ClockIn(context.Background(), "company-1", "user-a", attendance.ClockInRequest{})
	require.NoError(t, err)

	clk.Add(8*time.Hour + 30*time.Minute)

	rec, err := svc.ClockOut(context.Background(), "user-a")
	require.NoError(t, err)
	require.NotNil(t, rec.TotalHours)
	assert.InDelta(t, 8.5, *rec.TotalHours, 0.001)
}

func TestClockOutWithoutClockIn(t *testing.T) {
	svc, _, _ := newAttendanceFixture()

	_, err := svc.ClockOut(context.Background(), "user-a")
	assert.ErrorIs(t, err, attendance.ErrNotClockedIn)
}

func TestClockOutTwice(t *testing.T) {
	svc, _, clk := newAttendanceFixture()

	_, err := svc.ClockIn(context.Background(), "company-1", "user-a", attendance.ClockInRequest{})
	require.NoError(t, err)

	clk.Add(8 * time.Hour)
	_, err = svc.ClockOut(context.Background(), "user-a")
	require.NoError(t, err)

	_, err = svc.ClockOut(context.Background(), "user-a")
	assert.ErrorIs(t, err, attendance.ErrAlreadyClockedOut)
}

func TestTodayNoRecord(t *testing.T) {
	svc, _, _ := newAttendanceFixture()

	_, err := svc.Today(context.Background(), "user-a")
	assert.ErrorIs(t, err, attendance.ErrRecordNotFound)
}

func TestListByUserRejectsMalformedDates(t *testing.T) {
	svc, _, _ := newAttendanceFixture()

	_, err := svc.ListByUser(context.Background(), "user-a", attendance.ListRequest{From: "17-08-2026"})
	assert.Error(t, err)
}

func TestListByUserDefaultsToTrailingMonth(t *testing.T) {
	svc, repo, _ := newAttendanceFixture()

	old := attendance.Record{
		CompanyID: "company-1",
		UserID:    "user-a",
		Date:      time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		ClockIn:   time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC),
	}
	recent := attendance.Record{
		CompanyID: "company-1",
		UserID:    "user-a",
		Date:      time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC),
		ClockIn:   time.Date(2026, 8, 10, 9, 0, 0, 0, time.UTC),
	}
	_, err := repo.Create(context.Background(), old)
	require.NoError(t, err)
	_, err = repo.Create(context.Background(), recent)
	require.NoError(t, err)

	records, err := svc.ListByUser(context.Background(), "user-a", attendance.ListRequest{})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, recent.Date, records[0].Date)
}
