package leave

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/workbridge/erp-backend-go/internal/domain/leave"
	"github.com/workbridge/erp-backend-go/internal/domain/notification"
	"github.com/workbridge/erp-backend-go/internal/domain/settings"
)

type fakeLeaveRepo struct {
	requests map[string]leave.Request
	nextID   int
	used     map[leave.Type]float64
}

func newFakeLeaveRepo() *fakeLeaveRepo {
	return &fakeLeaveRepo{
		requests: make(map[string]leave.Request),
		used:     make(map[leave.Type]float64),
	}
}

func (r *fakeLeaveRepo) Create(ctx context.Context, req leave.Request) (leave.Request, error) {
	r.nextID++
	req.ID = fmt.Sprintf("req-%d", r.nextID)
	r.requests[req.ID] = req
	return req, nil
}

func (r *fakeLeaveRepo) GetByID(ctx context.Context, id string) (leave.Request, error) {
	req, ok := r.requests[id]
	if !ok {
		return leave.Request{}, pgx.ErrNoRows
	}
	return req, nil
}

func (r *fakeLeaveRepo) ListByUser(ctx context.Context, userID string, filter leave.Filter) ([]leave.Request, int64, error) {
	var out []leave.Request
	for _, req := range r.requests {
		if req.UserID == userID {
			out = append(out, req)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeLeaveRepo) ListByCompany(ctx context.Context, companyID string, filter leave.Filter) ([]leave.Request, int64, error) {
	var out []leave.Request
	for _, req := range r.requests {
		if req.CompanyID == companyID {
			out = append(out, req)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeLeaveRepo) UpdateStatus(ctx context.Context, id string, status leave.Status, approvedBy *string, rejectionReason *string) error {
	req := r.requests[id]
	req.Status = status
	req.ApprovedBy = approvedBy
	req.RejectionReason = rejectionReason
	r.requests[id] = req
	return nil
}

func (r *fakeLeaveRepo) UsedDays(ctx context.Context, userID string, year int) (map[leave.Type]float64, error) {
	return r.used, nil
}

type fakeSettingsRepo struct {
	settings settings.Settings
	missing  bool
}

func (r *fakeSettingsRepo) Get(ctx context.Context, companyID string) (settings.Settings, error) {
	if r.missing {
		return settings.Settings{}, pgx.ErrNoRows
	}
	return r.settings, nil
}

func (r *fakeSettingsRepo) Upsert(ctx context.Context, s settings.Settings) error {
	return nil
}

type fakeNotifier struct {
	sent []notification.Notification
}

func (n *fakeNotifier) Notify(ctx context.Context, notif notification.Notification) {
	n.sent = append(n.sent, notif)
}

type leaveFixture struct {
	svc      Service
	repo     *fakeLeaveRepo
	settings *fakeSettingsRepo
	notifier *fakeNotifier
	clock    *clock.Mock
}

func newLeaveFixture() *leaveFixture {
	f := &leaveFixture{
		repo:     newFakeLeaveRepo(),
		settings: &fakeSettingsRepo{settings: settings.Defaults("company-1")},
		notifier: &fakeNotifier{},
		clock:    clock.NewMock(),
	}
	f.clock.Set(time.Date(2026, 8, 15, 10, 0, 0, 0, time.UTC))
	f.svc = NewLeaveService(f.repo, f.settings, f.notifier, f.clock)
	return f
}

func TestWorkingDaysSkipsWeekends(t *testing.T) {
	// Monday 3 August through Sunday 9 August 2026: five weekdays.
	start := time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 8, 9, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 5.0, workingDays(start, end))

	// A single Saturday counts nothing.
	sat := time.Date(2026, 8, 8, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 0.0, workingDays(sat, sat))
}

func TestLeaveCreateComputesWorkingDays(t *testing.T) {
	f := newLeaveFixture()

	resp, err := f.svc.Create(context.Background(), "company-1", leave.CreateRequestRequest{
		UserID:    "user-a",
		Type:      "annual",
		StartDate: "2026-08-03",
		EndDate:   "2026-08-11", // spans one weekend
		Reason:    "Family trip",
	})

	require.NoError(t, err)
	assert.Equal(t, 7.0, resp.TotalDays)
	assert.Equal(t, string(leave.StatusPending), resp.Status)
}

func TestLeaveCreateWeekendOnlyRejected(t *testing.T) {
	f := newLeaveFixture()

	_, err := f.svc.Create(context.Background(), "company-1", leave.CreateRequestRequest{
		UserID:    "user-a",
		Type:      "annual",
		StartDate: "2026-08-08",
		EndDate:   "2026-08-09",
		Reason:    "Weekend away",
	})

	assert.ErrorIs(t, err, leave.ErrInvalidDateRange)
}

func TestLeaveCreateInsufficientBalance(t *testing.T) {
	f := newLeaveFixture()
	// Annual quota defaults to 12; 10 already used leaves 2 remaining.
	f.repo.used[leave.TypeAnnual] = 10

	_, err := f.svc.Create(context.Background(), "company-1", leave.CreateRequestRequest{
		UserID:    "user-a",
		Type:      "annual",
		StartDate: "2026-08-03",
		EndDate:   "2026-08-07",
		Reason:    "Family trip",
	})

	assert.ErrorIs(t, err, leave.ErrInsufficientBalance)
}

func TestLeaveBalanceFallsBackToDefaults(t *testing.T) {
	f := newLeaveFixture()
	f.settings.missing = true
	f.repo.used[leave.TypeSick] = 3

	balance, err := f.svc.Balance(context.Background(), "company-1", "user-a")

	require.NoError(t, err)
	assert.Equal(t, 2026, balance.Year)
	assert.Equal(t, 12.0, balance.Annual.Total)
	assert.Equal(t, 11.0, balance.Sick.Remaining)
}

func TestLeaveBalanceNeverNegative(t *testing.T) {
	f := newLeaveFixture()
	f.repo.used[leave.TypeEmergency] = 9 // quota is 5

	balance, err := f.svc.Balance(context.Background(), "company-1", "user-a")

	require.NoError(t, err)
	assert.Equal(t, 0.0, balance.Emergency.Remaining)
}

func TestLeaveApproveNotifiesRequester(t *testing.T) {
	f := newLeaveFixture()
	created, err := f.svc.Create(context.Background(), "company-1", leave.CreateRequestRequest{
		UserID:    "user-a",
		Type:      "annual",
		StartDate: "2026-08-03",
		EndDate:   "2026-08-05",
		Reason:    "Family trip",
	})
	require.NoError(t, err)

	resp, err := f.svc.Approve(context.Background(), "company-1", "admin-1", created.ID)

	require.NoError(t, err)
	assert.Equal(t, string(leave.StatusApproved), resp.Status)
	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, "user-a", f.notifier.sent[0].RecipientID)
	assert.Equal(t, "leave_approved", f.notifier.sent[0].Type)
}

func TestLeaveApproveAlreadyProcessed(t *testing.T) {
	f := newLeaveFixture()
	created, err := f.svc.Create(context.Background(), "company-1", leave.CreateRequestRequest{
		UserID:    "user-a",
		Type:      "annual",
		StartDate: "2026-08-03",
		EndDate:   "2026-08-05",
		Reason:    "Family trip",
	})
	require.NoError(t, err)

	_, err = f.svc.Approve(context.Background(), "company-1", "admin-1", created.ID)
	require.NoError(t, err)

	_, err = f.svc.Approve(context.Background(), "company-1", "admin-1", created.ID)
	assert.ErrorIs(t, err, leave.ErrAlreadyProcessed)
}

func TestLeaveRejectCarriesReason(t *testing.T) {
	f := newLeaveFixture()
	created, err := f.svc.Create(context.Background(), "company-1", leave.CreateRequestRequest{
		UserID:    "user-a",
		Type:      "sick",
		StartDate: "2026-08-03",
		EndDate:   "2026-08-04",
		Reason:    "Recovery",
	})
	require.NoError(t, err)

	reason := "Certificate required for multi-day sick leave"
	resp, err := f.svc.Reject(context.Background(), "company-1", "admin-1", created.ID, leave.RejectRequestRequest{
		Reason: &reason,
	})

	require.NoError(t, err)
	assert.Equal(t, string(leave.StatusRejected), resp.Status)
	require.Len(t, f.notifier.sent, 1)
	assert.Contains(t, f.notifier.sent[0].Message, reason)
}

func TestLeaveGetScopedToOwnerForStaff(t *testing.T) {
	f := newLeaveFixture()
	created, err := f.svc.Create(context.Background(), "company-1", leave.CreateRequestRequest{
		UserID:    "user-a",
		Type:      "annual",
		StartDate: "2026-08-03",
		EndDate:   "2026-08-05",
		Reason:    "Family trip",
	})
	require.NoError(t, err)

	_, err = f.svc.GetByID(context.Background(), "company-1", "user-b", false, created.ID)
	assert.ErrorIs(t, err, leave.ErrUnauthorizedAccess)

	_, err = f.svc.GetByID(context.Background(), "company-1", "user-b", true, created.ID)
	assert.NoError(t, err)
}
