package leave

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/jackc/pgx/v5"

	"github.com/workbridge/erp-backend-go/internal/domain/leave"
	"github.com/workbridge/erp-backend-go/internal/domain/notification"
	"github.com/workbridge/erp-backend-go/internal/domain/settings"
)

// Notifier publishes in-app notifications, implemented by the
// notification service.
type Notifier interface {
	Notify(ctx context.Context, n notification.Notification)
}

// Service handles leave requests and balances.
type Service interface {
	Create(ctx context.Context, companyID string, req leave.CreateRequestRequest) (leave.RequestResponse, error)
	GetByID(ctx context.Context, companyID, userID string, isAdmin bool, id string) (leave.RequestResponse, error)
	ListByUser(ctx context.Context, userID string, filter leave.Filter) (leave.ListRequestsResponse, error)
	ListByCompany(ctx context.Context, companyID string, filter leave.Filter) (leave.ListRequestsResponse, error)
	Approve(ctx context.Context, companyID, approverID, id string) (leave.RequestResponse, error)
	Reject(ctx context.Context, companyID, approverID, id string, req leave.RejectRequestRequest) (leave.RequestResponse, error)
	Balance(ctx context.Context, companyID, userID string) (leave.Balance, error)
}

type LeaveServiceImpl struct {
	leave.Repository
	settingsRepo settings.Repository
	notifier     Notifier
	clock        clock.Clock
}

func NewLeaveService(
	repo leave.Repository,
	settingsRepo settings.Repository,
	notifier Notifier,
	clk clock.Clock,
) Service {
	return &LeaveServiceImpl{
		Repository:   repo,
		settingsRepo: settingsRepo,
		notifier:     notifier,
		clock:        clk,
	}
}

// workingDays counts weekdays between start and end inclusive.
func workingDays(start, end time.Time) float64 {
	days := 0.0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd != time.Saturday && wd != time.Sunday {
			days++
		}
	}
	return days
}

// Create implements Service. The request is checked against the
// caller's remaining balance for its leave type.
func (s *LeaveServiceImpl) Create(ctx context.Context, companyID string, req leave.CreateRequestRequest) (leave.RequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.RequestResponse{}, err
	}

	start, _ := time.Parse("2006-01-02", req.StartDate)
	end, _ := time.Parse("2006-01-02", req.EndDate)

	totalDays := workingDays(start, end)
	if totalDays == 0 {
		return leave.RequestResponse{}, leave.ErrInvalidDateRange
	}

	balance, err := s.Balance(ctx, companyID, req.UserID)
	if err != nil {
		return leave.RequestResponse{}, err
	}

	var remaining float64
	switch leave.Type(req.Type) {
	case leave.TypeAnnual:
		remaining = balance.Annual.Remaining
	case leave.TypeSick:
		remaining = balance.Sick.Remaining
	case leave.TypeEmergency:
		remaining = balance.Emergency.Remaining
	}
	if totalDays > remaining {
		return leave.RequestResponse{}, leave.ErrInsufficientBalance
	}

	created, err := s.Repository.Create(ctx, leave.Request{
		CompanyID: companyID,
		UserID:    req.UserID,
		Type:      leave.Type(req.Type),
		StartDate: start,
		EndDate:   end,
		TotalDays: totalDays,
		Reason:    req.Reason,
		Status:    leave.StatusPending,
	})
	if err != nil {
		return leave.RequestResponse{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	return toRequestResponse(created), nil
}

// GetByID implements Service. Staff may only read their own requests.
func (s *LeaveServiceImpl) GetByID(ctx context.Context, companyID, userID string, isAdmin bool, id string) (leave.RequestResponse, error) {
	req, err := s.getOwned(ctx, companyID, id)
	if err != nil {
		return leave.RequestResponse{}, err
	}

	if !isAdmin && req.UserID != userID {
		return leave.RequestResponse{}, leave.ErrUnauthorizedAccess
	}

	return toRequestResponse(req), nil
}

func (s *LeaveServiceImpl) getOwned(ctx context.Context, companyID, id string) (leave.Request, error) {
	req, err := s.Repository.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.Request{}, leave.ErrRequestNotFound
		}
		return leave.Request{}, fmt.Errorf("failed to get leave request: %w", err)
	}
	if req.CompanyID != companyID {
		return leave.Request{}, leave.ErrRequestNotFound
	}
	return req, nil
}

// ListByUser implements Service.
func (s *LeaveServiceImpl) ListByUser(ctx context.Context, userID string, filter leave.Filter) (leave.ListRequestsResponse, error) {
	normalizeFilter(&filter)

	requests, total, err := s.Repository.ListByUser(ctx, userID, filter)
	if err != nil {
		return leave.ListRequestsResponse{}, fmt.Errorf("failed to list leave requests: %w", err)
	}

	return buildListResponse(requests, total, filter), nil
}

// ListByCompany implements Service.
func (s *LeaveServiceImpl) ListByCompany(ctx context.Context, companyID string, filter leave.Filter) (leave.ListRequestsResponse, error) {
	normalizeFilter(&filter)

	requests, total, err := s.Repository.ListByCompany(ctx, companyID, filter)
	if err != nil {
		return leave.ListRequestsResponse{}, fmt.Errorf("failed to list leave requests: %w", err)
	}

	return buildListResponse(requests, total, filter), nil
}

// Approve implements Service. Only pending requests can be approved.
func (s *LeaveServiceImpl) Approve(ctx context.Context, companyID, approverID, id string) (leave.RequestResponse, error) {
	req, err := s.getOwned(ctx, companyID, id)
	if err != nil {
		return leave.RequestResponse{}, err
	}
	if req.Status != leave.StatusPending {
		return leave.RequestResponse{}, leave.ErrAlreadyProcessed
	}

	if err := s.Repository.UpdateStatus(ctx, id, leave.StatusApproved, &approverID, nil); err != nil {
		return leave.RequestResponse{}, fmt.Errorf("failed to approve leave request: %w", err)
	}

	s.notifier.Notify(ctx, notification.Notification{
		CompanyID:   companyID,
		RecipientID: req.UserID,
		SenderID:    &approverID,
		Type:        "leave_approved",
		Title:       "Leave request approved",
		Message:     fmt.Sprintf("Your %s leave request (%s - %s) has been approved.", req.Type, req.StartDate.Format("2 Jan"), req.EndDate.Format("2 Jan")),
		Data:        map[string]any{"leave_request_id": req.ID},
	})

	return s.GetByID(ctx, companyID, req.UserID, true, id)
}

// Reject implements Service.
func (s *LeaveServiceImpl) Reject(ctx context.Context, companyID, approverID, id string, rejectReq leave.RejectRequestRequest) (leave.RequestResponse, error) {
	if err := rejectReq.Validate(); err != nil {
		return leave.RequestResponse{}, err
	}

	req, err := s.getOwned(ctx, companyID, id)
	if err != nil {
		return leave.RequestResponse{}, err
	}
	if req.Status != leave.StatusPending {
		return leave.RequestResponse{}, leave.ErrAlreadyProcessed
	}

	if err := s.Repository.UpdateStatus(ctx, id, leave.StatusRejected, &approverID, rejectReq.Reason); err != nil {
		return leave.RequestResponse{}, fmt.Errorf("failed to reject leave request: %w", err)
	}

	message := fmt.Sprintf("Your %s leave request was rejected.", req.Type)
	if rejectReq.Reason != nil {
		message = fmt.Sprintf("Your %s leave request was rejected: %s", req.Type, *rejectReq.Reason)
	}
	s.notifier.Notify(ctx, notification.Notification{
		CompanyID:   companyID,
		RecipientID: req.UserID,
		SenderID:    &approverID,
		Type:        "leave_rejected",
		Title:       "Leave request rejected",
		Message:     message,
		Data:        map[string]any{"leave_request_id": req.ID},
	})

	return s.GetByID(ctx, companyID, req.UserID, true, id)
}

// Balance implements Service. The balance is always derived from the
// company quotas and approved requests; nothing is stored.
func (s *LeaveServiceImpl) Balance(ctx context.Context, companyID, userID string) (leave.Balance, error) {
	year := s.clock.Now().Year()

	quotas, err := s.settingsRepo.Get(ctx, companyID)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return leave.Balance{}, fmt.Errorf("failed to get company settings: %w", err)
		}
		quotas = settings.Defaults(companyID)
	}

	used, err := s.Repository.UsedDays(ctx, userID, year)
	if err != nil {
		return leave.Balance{}, fmt.Errorf("failed to sum used leave days: %w", err)
	}

	balanceFor := func(total, usedDays float64) leave.TypeBalance {
		remaining := total - usedDays
		if remaining < 0 {
			remaining = 0
		}
		return leave.TypeBalance{Total: total, Used: usedDays, Remaining: remaining}
	}

	return leave.Balance{
		UserID:    userID,
		Year:      year,
		Annual:    balanceFor(quotas.AnnualLeaveQuota, used[leave.TypeAnnual]),
		Sick:      balanceFor(quotas.SickLeaveQuota, used[leave.TypeSick]),
		Emergency: balanceFor(quotas.EmergencyLeaveQuota, used[leave.TypeEmergency]),
	}, nil
}

func normalizeFilter(filter *leave.Filter) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}
}

func buildListResponse(requests []leave.Request, total int64, filter leave.Filter) leave.ListRequestsResponse {
	responses := make([]leave.RequestResponse, 0, len(requests))
	for _, req := range requests {
		responses = append(responses, toRequestResponse(req))
	}

	totalPages := int(total) / filter.Limit
	if int(total)%filter.Limit != 0 {
		totalPages++
	}

	return leave.ListRequestsResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
		Requests:   responses,
	}
}

func toRequestResponse(req leave.Request) leave.RequestResponse {
	userName := ""
	if req.UserName != nil {
		userName = *req.UserName
	}
	return leave.RequestResponse{
		ID:              req.ID,
		UserID:          req.UserID,
		UserName:        userName,
		Type:            string(req.Type),
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		TotalDays:       req.TotalDays,
		Reason:          req.Reason,
		Status:          string(req.Status),
		ApprovedBy:      req.ApprovedBy,
		ApprovedAt:      req.ApprovedAt,
		RejectionReason: req.RejectionReason,
		CreatedAt:       req.CreatedAt,
	}
}
