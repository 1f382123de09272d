package assistant

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/workbridge/erp-backend-go/internal/domain/assistant"
	"github.com/workbridge/erp-backend-go/internal/domain/attendance"
	"github.com/workbridge/erp-backend-go/internal/domain/finance"
	"github.com/workbridge/erp-backend-go/internal/domain/insight"
	"github.com/workbridge/erp-backend-go/internal/domain/performance"
	"github.com/workbridge/erp-backend-go/internal/domain/user"
)

func generate(t *testing.T, f *engineFixture, ctxType string, admin bool) insight.InsightResponse {
	t.Helper()
	sysCtx := staffContext()
	if admin {
		sysCtx = adminContext()
	}
	resp, err := f.svc.GenerateInsight(context.Background(), sysCtx, insight.GenerateInsightRequest{Type: ctxType})
	require.NoError(t, err)
	return resp
}

func TestFinancialInsightRevenueGrowth(t *testing.T) {
	f := newEngineFixture()
	f.finance.previous = finance.Summary{TotalIncome: 1000, TotalExpenses: 500, NetProfit: 500}
	f.finance.current = finance.Summary{TotalIncome: 1500, TotalExpenses: 520, NetProfit: 980}

	resp := generate(t, f, "financial", true)

	assert.Equal(t, "Strong Revenue Growth Detected", resp.Title)
	assert.Equal(t, string(insight.SeverityLow), resp.Severity)
}

func TestFinancialInsightRevenueDecline(t *testing.T) {
	f := newEngineFixture()
	f.finance.previous = finance.Summary{TotalIncome: 1000, TotalExpenses: 400, NetProfit: 600}
	f.finance.current = finance.Summary{TotalIncome: 700, TotalExpenses: 400, NetProfit: 300}

	resp := generate(t, f, "financial", true)

	assert.Equal(t, "Revenue Decline Alert", resp.Title)
	assert.Equal(t, string(insight.SeverityHigh), resp.Severity)
}

func TestFinancialInsightExpenseGrowthBeatsNegativeProfit(t *testing.T) {
	// Branch order is fixed: expense growth is checked before negative
	// profit, so a loss with ballooning expenses reads as the expense
	// warning, not the profit alert.
	f := newEngineFixture()
	f.finance.previous = finance.Summary{TotalIncome: 1000, TotalExpenses: 900, NetProfit: 100}
	f.finance.current = finance.Summary{TotalIncome: 1050, TotalExpenses: 1200, NetProfit: -150}

	resp := generate(t, f, "financial", true)

	assert.Equal(t, "Expense Growth Warning", resp.Title)
	assert.Equal(t, string(insight.SeverityMedium), resp.Severity)
}

func TestFinancialInsightNegativeProfit(t *testing.T) {
	f := newEngineFixture()
	f.finance.previous = finance.Summary{TotalIncome: 1000, TotalExpenses: 1020, NetProfit: -20}
	f.finance.current = finance.Summary{TotalIncome: 950, TotalExpenses: 1000, NetProfit: -50}

	resp := generate(t, f, "financial", true)

	assert.Equal(t, "Negative Profit Alert", resp.Title)
	assert.Equal(t, string(insight.SeverityHigh), resp.Severity)
}

func TestFinancialInsightStable(t *testing.T) {
	f := newEngineFixture()
	f.finance.previous = finance.Summary{TotalIncome: 1000, TotalExpenses: 800, NetProfit: 200}
	f.finance.current = finance.Summary{TotalIncome: 1020, TotalExpenses: 810, NetProfit: 210}

	resp := generate(t, f, "financial", true)

	assert.Equal(t, "Stable Financial Performance", resp.Title)
	assert.Equal(t, string(insight.SeverityLow), resp.Severity)
}

func TestFinancialInsightFailureFallsBack(t *testing.T) {
	f := newEngineFixture()
	f.finance.err = errUpstream

	resp := generate(t, f, "financial", true)

	assert.Equal(t, "Analysis Unavailable", resp.Title)
	assert.Equal(t, string(insight.SeverityLow), resp.Severity)
	assert.Contains(t, resp.Description, "upstream unavailable")
	assert.Equal(t, fallbackRecommendations, resp.Recommendations)
	// Even the fallback is persisted.
	require.Len(t, f.insights.created, 1)
}

func TestPerformanceInsightOverdueGoals(t *testing.T) {
	f := newEngineFixture()
	now := f.clock.Now()
	f.performance.goals = []performance.Goal{
		{Status: performance.GoalInProgress, EndDate: now.AddDate(0, 0, -3)},
		{Status: performance.GoalCompleted, EndDate: now.AddDate(0, 0, -1)},
	}

	resp := generate(t, f, "performance", false)

	assert.Equal(t, "Overdue Goals Detected", resp.Title)
	assert.Equal(t, string(insight.SeverityMedium), resp.Severity)
}

func TestPerformanceInsightLowCompletion(t *testing.T) {
	f := newEngineFixture()
	future := f.clock.Now().AddDate(0, 1, 0)
	f.performance.goals = []performance.Goal{
		{Status: performance.GoalInProgress, EndDate: future},
		{Status: performance.GoalInProgress, EndDate: future},
		{Status: performance.GoalCompleted, EndDate: future},
	}

	resp := generate(t, f, "performance", false)

	assert.Equal(t, "Low Goal Completion Rate", resp.Title)
}

func TestPerformanceInsightLowRating(t *testing.T) {
	f := newEngineFixture()
	f.performance.reviews = []performance.Review{
		{OverallRating: 2}, {OverallRating: 3},
	}

	resp := generate(t, f, "performance", false)

	assert.Equal(t, "Performance Improvement Needed", resp.Title)
	assert.Equal(t, string(insight.SeverityHigh), resp.Severity)
}

func TestPerformanceInsightScopesStaffToSelf(t *testing.T) {
	f := newEngineFixture()

	generate(t, f, "performance", false)

	require.NotNil(t, f.performance.lastUserID)
	assert.Equal(t, "user-a", *f.performance.lastUserID)
}

func TestAttendanceInsightNoRecords(t *testing.T) {
	f := newEngineFixture()

	resp := generate(t, f, "attendance", false)

	assert.Equal(t, "Low Attendance Rate Alert", resp.Title)
	assert.Equal(t, string(insight.SeverityHigh), resp.Severity)
	assert.EqualValues(t, 0.0, resp.Data["attendance_rate"])
}

func TestAttendanceInsightLateArrivals(t *testing.T) {
	f := newEngineFixture()
	base := time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC)
	hours := 8.0
	for i := 0; i < 25; i++ {
		clockIn := base.AddDate(0, 0, i).Add(8 * time.Hour)
		if i < 10 {
			clockIn = clockIn.Add(90 * time.Minute) // 09:30
		}
		f.attendance.records = append(f.attendance.records, attendance.RecordResponse{
			ClockIn:    clockIn,
			TotalHours: &hours,
		})
	}

	resp := generate(t, f, "attendance", false)

	assert.Equal(t, "Frequent Late Arrivals Detected", resp.Title)
	assert.Equal(t, string(insight.SeverityMedium), resp.Severity)
}

func TestAttendanceInsightWithoutUserFallsBack(t *testing.T) {
	f := newEngineFixture()
	sysCtx := adminContext()
	sysCtx.UserID = ""

	resp, err := f.svc.GenerateInsight(context.Background(), sysCtx, insight.GenerateInsightRequest{Type: "attendance"})

	require.NoError(t, err)
	assert.Equal(t, "Analysis Unavailable", resp.Title)
	assert.Equal(t, string(insight.SeverityLow), resp.Severity)
}

func TestRiskInsightAllChecksTriggered(t *testing.T) {
	f := newEngineFixture()
	f.finance.current = finance.Summary{TotalIncome: 100, TotalExpenses: 200, NetProfit: -100}
	f.performance.goals = []performance.Goal{
		{Status: performance.GoalInProgress, EndDate: f.clock.Now().AddDate(0, 0, -5)},
	}
	// no attendance records: rate 0 < 70
	f.invoices.overdue = 5
	f.invoices.total = 10

	resp := generate(t, f, "risk", false)

	assert.Equal(t, string(insight.SeverityHigh), resp.Severity)
	assert.EqualValues(t, 9, resp.Data["risk_score"])
}

func TestRiskInsightSubCheckFailureOmitted(t *testing.T) {
	f := newEngineFixture()
	f.finance.err = errUpstream // would have scored 3
	f.invoices.overdue = 5
	f.invoices.total = 10
	hours := 8.0
	for i := 0; i < 25; i++ {
		f.attendance.records = append(f.attendance.records, attendance.RecordResponse{
			ClockIn:    time.Date(2026, 8, 3, 8, 0, 0, 0, time.UTC).AddDate(0, 0, i),
			TotalHours: &hours,
		})
	}

	resp := generate(t, f, "risk", false)

	// Only the invoice check fires.
	assert.EqualValues(t, 2, resp.Data["risk_score"])
	assert.Equal(t, string(insight.SeverityLow), resp.Severity)
}

func TestRiskInsightClean(t *testing.T) {
	f := newEngineFixture()
	f.finance.current = finance.Summary{TotalIncome: 1000, TotalExpenses: 500, NetProfit: 500}
	hours := 8.0
	for i := 0; i < 25; i++ {
		f.attendance.records = append(f.attendance.records, attendance.RecordResponse{
			ClockIn:    time.Date(2026, 8, 3, 8, 0, 0, 0, time.UTC).AddDate(0, 0, i),
			TotalHours: &hours,
		})
	}

	resp := generate(t, f, "risk", false)

	assert.Equal(t, string(insight.SeverityLow), resp.Severity)
	assert.EqualValues(t, 0, resp.Data["risk_score"])
	assert.Contains(t, resp.Description, "No elevated risk indicators")
}

func TestGenerateInsightRejectsUnknownType(t *testing.T) {
	f := newEngineFixture()

	_, err := f.svc.GenerateInsight(context.Background(), staffContext(), insight.GenerateInsightRequest{Type: "astrology"})
	assert.Error(t, err)
}

func TestGenerateInsightPersistsBeforeReturning(t *testing.T) {
	f := newEngineFixture()
	f.finance.current = finance.Summary{TotalIncome: 1000, TotalExpenses: 500, NetProfit: 500}

	resp := generate(t, f, "financial", false)

	require.Len(t, f.insights.created, 1)
	stored := f.insights.created[0]
	assert.Equal(t, resp.ID, stored.ID)
	assert.Equal(t, "company-1", stored.CompanyID)
	require.NotNil(t, stored.UserID)
	assert.Equal(t, "user-a", *stored.UserID)
}

func TestGetInsightScopedToSubjectForStaff(t *testing.T) {
	f := newEngineFixture()

	subject := assistant.SystemContext{UserID: "user-b", UserRole: user.RoleStaff, CompanyID: "company-1"}
	resp, err := f.svc.GenerateInsight(context.Background(), subject, insight.GenerateInsightRequest{Type: "attendance"})
	require.NoError(t, err)

	// Another staff member cannot read it by id.
	_, err = f.svc.GetInsight(context.Background(), staffContext(), resp.ID)
	assert.ErrorIs(t, err, insight.ErrInsightNotFound)

	// The subject and an admin both can.
	own, err := f.svc.GetInsight(context.Background(), subject, resp.ID)
	require.NoError(t, err)
	require.NotNil(t, own.UserID)
	assert.Equal(t, "user-b", *own.UserID)

	_, err = f.svc.GetInsight(context.Background(), adminContext(), resp.ID)
	assert.NoError(t, err)
}

func TestGetInsightCompanyWideHiddenFromStaff(t *testing.T) {
	f := newEngineFixture()
	f.finance.current = finance.Summary{TotalIncome: 1000, TotalExpenses: 500, NetProfit: 500}

	// Admin-generated financial insights carry no subject user.
	resp := generate(t, f, "financial", true)
	require.Nil(t, resp.UserID)

	_, err := f.svc.GetInsight(context.Background(), staffContext(), resp.ID)
	assert.ErrorIs(t, err, insight.ErrInsightNotFound)

	_, err = f.svc.GetInsight(context.Background(), adminContext(), resp.ID)
	assert.NoError(t, err)
}
