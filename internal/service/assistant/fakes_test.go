package assistant

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/workbridge/erp-backend-go/internal/domain/assistant"
	"github.com/workbridge/erp-backend-go/internal/domain/attendance"
	"github.com/workbridge/erp-backend-go/internal/domain/finance"
	"github.com/workbridge/erp-backend-go/internal/domain/insight"
	"github.com/workbridge/erp-backend-go/internal/domain/invoice"
	"github.com/workbridge/erp-backend-go/internal/domain/leave"
	"github.com/workbridge/erp-backend-go/internal/domain/performance"
	"github.com/workbridge/erp-backend-go/internal/domain/proposal"
)

type fakeInsightRepo struct {
	created []insight.Insight
	nextID  int
}

func (f *fakeInsightRepo) Create(_ context.Context, ins insight.Insight) (insight.Insight, error) {
	f.nextID++
	ins.ID = fmt.Sprintf("ins-%d", f.nextID)
	ins.CreatedAt = time.Now()
	f.created = append(f.created, ins)
	return ins, nil
}

func (f *fakeInsightRepo) GetByID(_ context.Context, id string) (insight.Insight, error) {
	for _, ins := range f.created {
		if ins.ID == id {
			return ins, nil
		}
	}
	return insight.Insight{}, insight.ErrInsightNotFound
}

func (f *fakeInsightRepo) List(_ context.Context, companyID string, _ insight.Filter) ([]insight.Insight, int64, error) {
	var out []insight.Insight
	for _, ins := range f.created {
		if ins.CompanyID == companyID {
			out = append(out, ins)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeInsightRepo) Delete(_ context.Context, _ string) error { return nil }

type fakeLeaveReader struct {
	balance       leave.Balance
	err           error
	lastCompanyID string
	lastUserID    string
}

func (f *fakeLeaveReader) Balance(_ context.Context, companyID, userID string) (leave.Balance, error) {
	f.lastCompanyID = companyID
	f.lastUserID = userID
	return f.balance, f.err
}

type fakeFinanceReader struct {
	current   finance.Summary
	previous  finance.Summary
	err       error
	byCat     []finance.CategoryTotal
	lastScope finance.Scope
}

func (f *fakeFinanceReader) MonthlySummary(_ context.Context, scope finance.Scope) (finance.Summary, finance.Summary, error) {
	f.lastScope = scope
	return f.current, f.previous, f.err
}

func (f *fakeFinanceReader) ExpensesByCategory(_ context.Context, scope finance.Scope, _, _ time.Time) ([]finance.CategoryTotal, error) {
	f.lastScope = scope
	return f.byCat, nil
}

type fakePerformanceReader struct {
	goals      []performance.Goal
	reviews    []performance.Review
	err        error
	lastUserID *string
}

func (f *fakePerformanceReader) ListGoals(_ context.Context, _ string, userID *string) ([]performance.Goal, error) {
	f.lastUserID = userID
	return f.goals, f.err
}

func (f *fakePerformanceReader) ListReviews(_ context.Context, _ string, userID *string) ([]performance.Review, error) {
	f.lastUserID = userID
	return f.reviews, f.err
}

type fakeAttendanceReader struct {
	today      attendance.RecordResponse
	todayErr   error
	records    []attendance.RecordResponse
	listErr    error
	lastUserID string
}

func (f *fakeAttendanceReader) Today(_ context.Context, userID string) (attendance.RecordResponse, error) {
	f.lastUserID = userID
	return f.today, f.todayErr
}

func (f *fakeAttendanceReader) ListByUser(_ context.Context, userID string, _ attendance.ListRequest) ([]attendance.RecordResponse, error) {
	f.lastUserID = userID
	return f.records, f.listErr
}

type fakeInvoiceReader struct {
	list       invoice.ListInvoicesResponse
	listErr    error
	overdue    int
	total      int
	ratioErr   error
	lastFilter invoice.Filter
}

func (f *fakeInvoiceReader) List(_ context.Context, _ string, filter invoice.Filter) (invoice.ListInvoicesResponse, error) {
	f.lastFilter = filter
	return f.list, f.listErr
}

func (f *fakeInvoiceReader) OverdueRatio(_ context.Context, _ string, _ time.Time) (int, int, error) {
	return f.overdue, f.total, f.ratioErr
}

type fakeProposalReader struct {
	counts        map[proposal.Status]int
	err           error
	lastCreatedBy *string
}

func (f *fakeProposalReader) StatusCounts(_ context.Context, _ string, createdBy *string) (map[proposal.Status]int, error) {
	f.lastCreatedBy = createdBy
	return f.counts, f.err
}

type fakeCompletion struct {
	enabled bool
	reply   string
	err     error
	calls   int
}

func (f *fakeCompletion) Enabled() bool { return f.enabled }

func (f *fakeCompletion) Complete(_ context.Context, _ string, _ []assistant.ChatMessage, _ string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.reply, f.err
}

var errUpstream = errors.New("upstream unavailable")
