package assistant

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/jackc/pgx/v5"

	"github.com/workbridge/erp-backend-go/internal/domain/assistant"
	"github.com/workbridge/erp-backend-go/internal/domain/attendance"
	"github.com/workbridge/erp-backend-go/internal/domain/finance"
	"github.com/workbridge/erp-backend-go/internal/domain/insight"
	"github.com/workbridge/erp-backend-go/internal/domain/invoice"
	"github.com/workbridge/erp-backend-go/internal/domain/leave"
	"github.com/workbridge/erp-backend-go/internal/domain/performance"
	"github.com/workbridge/erp-backend-go/internal/domain/proposal"
	"github.com/workbridge/erp-backend-go/internal/pkg/completion"
)

// The assistant reads from the other domain services but never writes
// through them. Each consumer interface names exactly the methods the
// engine calls, so tests can fake a single domain at a time.

type LeaveReader interface {
	Balance(ctx context.Context, companyID, userID string) (leave.Balance, error)
}

type FinanceReader interface {
	MonthlySummary(ctx context.Context, scope finance.Scope) (current, previous finance.Summary, err error)
	ExpensesByCategory(ctx context.Context, scope finance.Scope, from, to time.Time) ([]finance.CategoryTotal, error)
}

type PerformanceReader interface {
	ListGoals(ctx context.Context, companyID string, userID *string) ([]performance.Goal, error)
	ListReviews(ctx context.Context, companyID string, userID *string) ([]performance.Review, error)
}

type AttendanceReader interface {
	Today(ctx context.Context, userID string) (attendance.RecordResponse, error)
	ListByUser(ctx context.Context, userID string, req attendance.ListRequest) ([]attendance.RecordResponse, error)
}

type InvoiceReader interface {
	List(ctx context.Context, companyID string, filter invoice.Filter) (invoice.ListInvoicesResponse, error)
	OverdueRatio(ctx context.Context, companyID string, now time.Time) (overdue, total int, err error)
}

type ProposalReader interface {
	StatusCounts(ctx context.Context, companyID string, createdBy *string) (map[proposal.Status]int, error)
}

// Service is the conversational assistant and insight engine.
type Service interface {
	Chat(ctx context.Context, sysCtx assistant.SystemContext, req assistant.ChatRequest) (assistant.ChatResponse, error)
	GenerateInsight(ctx context.Context, sysCtx assistant.SystemContext, req insight.GenerateInsightRequest) (insight.InsightResponse, error)
	GetInsight(ctx context.Context, sysCtx assistant.SystemContext, id string) (insight.InsightResponse, error)
	ListInsights(ctx context.Context, companyID string, filter insight.Filter) (insight.ListInsightsResponse, error)
	DeleteInsight(ctx context.Context, sysCtx assistant.SystemContext, id string) error
}

type AssistantServiceImpl struct {
	insightRepo insight.Repository

	leaveReader       LeaveReader
	financeReader     FinanceReader
	performanceReader PerformanceReader
	attendanceReader  AttendanceReader
	invoiceReader     InvoiceReader
	proposalReader    ProposalReader

	completion completion.Client
	clock      clock.Clock
}

func NewAssistantService(
	insightRepo insight.Repository,
	leaveReader LeaveReader,
	financeReader FinanceReader,
	performanceReader PerformanceReader,
	attendanceReader AttendanceReader,
	invoiceReader InvoiceReader,
	proposalReader ProposalReader,
	completionClient completion.Client,
	clk clock.Clock,
) Service {
	return &AssistantServiceImpl{
		insightRepo:       insightRepo,
		leaveReader:       leaveReader,
		financeReader:     financeReader,
		performanceReader: performanceReader,
		attendanceReader:  attendanceReader,
		invoiceReader:     invoiceReader,
		proposalReader:    proposalReader,
		completion:        completionClient,
		clock:             clk,
	}
}

// financeScope pins staff callers to their own transactions; admins
// see the whole company.
func financeScope(sysCtx assistant.SystemContext) finance.Scope {
	scope := finance.Scope{CompanyID: sysCtx.CompanyID}
	if sysCtx.IsStaff() {
		scope.UserID = sysCtx.UserID
	}
	return scope
}

// scopedUserID returns the user filter for list queries: staff are
// always pinned to themselves, admins are unscoped.
func scopedUserID(sysCtx assistant.SystemContext) *string {
	if sysCtx.IsStaff() {
		id := sysCtx.UserID
		return &id
	}
	return nil
}

// GetInsight implements Service. Staff can only read insights that were
// generated about themselves, mirroring the list scoping; anything else
// reads as not found.
func (s *AssistantServiceImpl) GetInsight(ctx context.Context, sysCtx assistant.SystemContext, id string) (insight.InsightResponse, error) {
	ins, err := s.insightRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return insight.InsightResponse{}, insight.ErrInsightNotFound
		}
		return insight.InsightResponse{}, fmt.Errorf("failed to get insight: %w", err)
	}
	if ins.CompanyID != sysCtx.CompanyID {
		return insight.InsightResponse{}, insight.ErrInsightNotFound
	}
	if sysCtx.IsStaff() && (ins.UserID == nil || *ins.UserID != sysCtx.UserID) {
		return insight.InsightResponse{}, insight.ErrInsightNotFound
	}
	return toInsightResponse(ins), nil
}

// ListInsights implements Service.
func (s *AssistantServiceImpl) ListInsights(ctx context.Context, companyID string, filter insight.Filter) (insight.ListInsightsResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}

	insights, total, err := s.insightRepo.List(ctx, companyID, filter)
	if err != nil {
		return insight.ListInsightsResponse{}, fmt.Errorf("failed to list insights: %w", err)
	}

	responses := make([]insight.InsightResponse, 0, len(insights))
	for _, ins := range insights {
		responses = append(responses, toInsightResponse(ins))
	}

	totalPages := int(total) / filter.Limit
	if int(total)%filter.Limit != 0 {
		totalPages++
	}

	return insight.ListInsightsResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
		Insights:   responses,
	}, nil
}

// DeleteInsight implements Service.
func (s *AssistantServiceImpl) DeleteInsight(ctx context.Context, sysCtx assistant.SystemContext, id string) error {
	if _, err := s.GetInsight(ctx, sysCtx, id); err != nil {
		return err
	}
	return s.insightRepo.Delete(ctx, id)
}

func toInsightResponse(ins insight.Insight) insight.InsightResponse {
	return insight.InsightResponse{
		ID:              ins.ID,
		Type:            string(ins.Type),
		Title:           ins.Title,
		Description:     ins.Description,
		Severity:        string(ins.Severity),
		Recommendations: ins.Recommendations,
		Data:            ins.Data,
		UserID:          ins.UserID,
		CreatedAt:       ins.CreatedAt,
	}
}
