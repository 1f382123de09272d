package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/workbridge/erp-backend-go/internal/domain/assistant"
	"github.com/workbridge/erp-backend-go/internal/domain/attendance"
	"github.com/workbridge/erp-backend-go/internal/domain/insight"
	"github.com/workbridge/erp-backend-go/internal/domain/performance"
)

var fallbackRecommendations = []string{
	"Retry the analysis in a few minutes",
	"Check that the underlying data is available",
	"Contact support if the problem persists",
}

// GenerateInsight implements Service. Analysis failures never reach
// the caller: the outer recover-and-fallback persists a low-severity
// insight describing the failure instead.
func (s *AssistantServiceImpl) GenerateInsight(ctx context.Context, sysCtx assistant.SystemContext, req insight.GenerateInsightRequest) (insight.InsightResponse, error) {
	if err := req.Validate(); err != nil {
		return insight.InsightResponse{}, err
	}

	typ := insight.Type(req.Type)

	var (
		ins insight.Insight
		err error
	)
	switch typ {
	case insight.TypeFinancial:
		ins, err = s.financialInsight(ctx, sysCtx)
	case insight.TypePerformance:
		ins, err = s.performanceInsight(ctx, sysCtx)
	case insight.TypeAttendance:
		ins, err = s.attendanceInsight(ctx, sysCtx)
	case insight.TypeRisk:
		ins, err = s.riskInsight(ctx, sysCtx)
	default:
		return insight.InsightResponse{}, insight.ErrUnknownType
	}

	if err != nil {
		slog.ErrorContext(ctx, "Insight analysis failed, falling back",
			"type", typ, "company_id", sysCtx.CompanyID, "error", err)
		ins = s.fallbackInsight(typ, err)
	}

	ins.CompanyID = sysCtx.CompanyID
	if sysCtx.UserID != "" && (sysCtx.IsStaff() || typ == insight.TypeAttendance) {
		id := sysCtx.UserID
		ins.UserID = &id
	}

	created, createErr := s.insightRepo.Create(ctx, ins)
	if createErr != nil {
		return insight.InsightResponse{}, fmt.Errorf("failed to persist insight: %w", createErr)
	}

	return toInsightResponse(created), nil
}

// percentChange handles the zero-baseline month: any growth from zero
// reads as 100%, no activity in either month as 0%.
func percentChange(previous, current float64) float64 {
	if previous == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	return (current - previous) / previous * 100
}

// financialInsight compares the current calendar month to the previous
// one. The title chain is ordered: the first satisfied condition wins,
// so a mild loss with flat revenue still reads as stable.
func (s *AssistantServiceImpl) financialInsight(ctx context.Context, sysCtx assistant.SystemContext) (insight.Insight, error) {
	scope := financeScope(sysCtx)

	current, previous, err := s.financeReader.MonthlySummary(ctx, scope)
	if err != nil {
		return insight.Insight{}, fmt.Errorf("failed to fetch monthly summaries: %w", err)
	}

	revenueChange := percentChange(previous.TotalIncome, current.TotalIncome)
	expenseChange := percentChange(previous.TotalExpenses, current.TotalExpenses)
	profitChange := current.NetProfit - previous.NetProfit

	now := s.clock.Now()
	topCategory := ""
	if totals, catErr := s.financeReader.ExpensesByCategory(ctx, scope, now.AddDate(0, -1, 0), now); catErr != nil {
		slog.WarnContext(ctx, "Expense category breakdown unavailable", "error", catErr)
	} else if len(totals) > 0 {
		topCategory = totals[0].Category
	}

	ins := insight.Insight{
		Type: insight.TypeFinancial,
		Data: insight.Payload{
			"revenue_change_pct":   revenueChange,
			"expense_change_pct":   expenseChange,
			"profit_change":        profitChange,
			"current_net_profit":   current.NetProfit,
			"top_expense_category": topCategory,
		},
	}

	switch {
	case revenueChange > 10:
		ins.Title = "Strong Revenue Growth Detected"
		ins.Severity = insight.SeverityLow
		ins.Description = fmt.Sprintf("Revenue grew %.1f%% compared to last month, reaching %.2f.", revenueChange, current.TotalIncome)
		ins.Recommendations = []string{
			"Identify which income streams drove the growth",
			"Consider scaling the best-performing offerings",
			"Review capacity to make sure delivery keeps up with demand",
		}
	case revenueChange < -10:
		ins.Title = "Revenue Decline Alert"
		ins.Severity = insight.SeverityHigh
		ins.Description = fmt.Sprintf("Revenue fell %.1f%% compared to last month, down to %.2f.", -revenueChange, current.TotalIncome)
		ins.Recommendations = []string{
			"Review lost or delayed deals from the past month",
			"Follow up on unpaid and overdue invoices",
			"Re-engage inactive customers with new proposals",
			"Reassess pricing against the market",
		}
	case expenseChange > 15:
		ins.Title = "Expense Growth Warning"
		ins.Severity = insight.SeverityMedium
		ins.Description = fmt.Sprintf("Expenses rose %.1f%% compared to last month, reaching %.2f.", expenseChange, current.TotalExpenses)
		if topCategory != "" {
			ins.Description += fmt.Sprintf(" The largest expense category is %q.", topCategory)
		}
		ins.Recommendations = []string{
			"Audit the largest expense category for one-off versus recurring costs",
			"Set category budgets and alert thresholds",
			"Defer non-essential purchases until margins recover",
		}
	case current.NetProfit < 0:
		ins.Title = "Negative Profit Alert"
		ins.Severity = insight.SeverityHigh
		ins.Description = fmt.Sprintf("The business is operating at a loss this month: net %.2f.", current.NetProfit)
		ins.Recommendations = []string{
			"Cut or defer discretionary spending immediately",
			"Accelerate collection of outstanding invoices",
			"Review recurring costs for cancellation or renegotiation",
			"Model a break-even plan for the next quarter",
		}
	default:
		ins.Title = "Stable Financial Performance"
		ins.Severity = insight.SeverityLow
		ins.Description = fmt.Sprintf("Income and expenses are tracking close to last month. Net profit is %.2f.", current.NetProfit)
		ins.Recommendations = []string{
			"Keep monitoring monthly trends",
			"Build a reserve while performance is steady",
			"Look for incremental efficiency gains",
		}
	}

	return ins, nil
}

// performanceInsight analyses the scoped user's goals and reviews, or
// the whole company for an admin.
func (s *AssistantServiceImpl) performanceInsight(ctx context.Context, sysCtx assistant.SystemContext) (insight.Insight, error) {
	userID := scopedUserID(sysCtx)

	goals, err := s.performanceReader.ListGoals(ctx, sysCtx.CompanyID, userID)
	if err != nil {
		return insight.Insight{}, fmt.Errorf("failed to fetch goals: %w", err)
	}
	reviews, err := s.performanceReader.ListReviews(ctx, sysCtx.CompanyID, userID)
	if err != nil {
		return insight.Insight{}, fmt.Errorf("failed to fetch reviews: %w", err)
	}

	now := s.clock.Now()
	var completed, overdue int
	for _, g := range goals {
		if g.Status == performance.GoalCompleted {
			completed++
		}
		if g.Overdue(now) {
			overdue++
		}
	}

	completionRate := 0.0
	if len(goals) > 0 {
		completionRate = float64(completed) / float64(len(goals)) * 100
	}

	averageRating := 0.0
	if len(reviews) > 0 {
		var sum float64
		for _, r := range reviews {
			sum += r.OverallRating
		}
		averageRating = sum / float64(len(reviews))
	}

	ins := insight.Insight{
		Type: insight.TypePerformance,
		Data: insight.Payload{
			"total_goals":     len(goals),
			"completed_goals": completed,
			"overdue_goals":   overdue,
			"completion_rate": completionRate,
			"average_rating":  averageRating,
			"review_count":    len(reviews),
		},
	}

	switch {
	case overdue > 0:
		ins.Title = "Overdue Goals Detected"
		ins.Severity = insight.SeverityMedium
		ins.Description = fmt.Sprintf("%d goal(s) have passed their end date without being completed.", overdue)
		ins.Recommendations = []string{
			"Review each overdue goal and either re-plan or close it",
			"Break large goals into smaller dated milestones",
			"Schedule a check-in to unblock stalled work",
		}
	case completionRate < 50 && len(goals) > 0:
		ins.Title = "Low Goal Completion Rate"
		ins.Severity = insight.SeverityMedium
		ins.Description = fmt.Sprintf("Only %.0f%% of goals are completed.", completionRate)
		ins.Recommendations = []string{
			"Check whether goals are realistically sized",
			"Prioritize the goals closest to completion",
			"Remove or re-scope goals that no longer matter",
		}
	case averageRating < 3 && len(reviews) > 0:
		ins.Title = "Performance Improvement Needed"
		ins.Severity = insight.SeverityHigh
		ins.Description = fmt.Sprintf("The average review rating is %.1f out of 5.", averageRating)
		ins.Recommendations = []string{
			"Discuss the low-rated competencies in a one-on-one",
			"Agree on a concrete improvement plan with dated checkpoints",
			"Pair with a stronger performer on the weakest area",
		}
	default:
		ins.Title = "Strong Performance Metrics"
		ins.Severity = insight.SeverityLow
		ins.Description = fmt.Sprintf("Goal completion is at %.0f%% with an average review rating of %.1f.", completionRate, averageRating)
		ins.Recommendations = []string{
			"Keep the current goal cadence",
			"Consider stretch goals for the next period",
			"Document what is working for the rest of the team",
		}
	}

	return ins, nil
}

const attendanceWindowDays = 30

// attendanceInsight requires a concrete user: attendance is always
// per-person. A missing user ID fails fast into the fallback path.
func (s *AssistantServiceImpl) attendanceInsight(ctx context.Context, sysCtx assistant.SystemContext) (insight.Insight, error) {
	if sysCtx.UserID == "" {
		return insight.Insight{}, fmt.Errorf("attendance analysis requires a user id")
	}

	now := s.clock.Now()
	from := now.AddDate(0, 0, -attendanceWindowDays)

	records, err := s.attendanceReader.ListByUser(ctx, sysCtx.UserID, attendance.ListRequest{
		From:  from.Format("2006-01-02"),
		To:    now.Format("2006-01-02"),
		Page:  1,
		Limit: attendanceWindowDays + 1,
	})
	if err != nil {
		return insight.Insight{}, fmt.Errorf("failed to fetch attendance records: %w", err)
	}

	daysWithRecord := len(records)
	attendanceRate := float64(daysWithRecord) / attendanceWindowDays * 100

	var lateArrivals int
	var totalHours float64
	var daysWithHours int
	for _, rec := range records {
		if rec.ClockIn.Hour() >= 9 {
			lateArrivals++
		}
		if rec.TotalHours != nil {
			totalHours += *rec.TotalHours
			daysWithHours++
		}
	}

	averageHours := 0.0
	if daysWithHours > 0 {
		averageHours = totalHours / float64(daysWithHours)
	}

	ins := insight.Insight{
		Type: insight.TypeAttendance,
		Data: insight.Payload{
			"window_days":       attendanceWindowDays,
			"days_with_record":  daysWithRecord,
			"attendance_rate":   attendanceRate,
			"late_arrivals":     lateArrivals,
			"average_hours_day": averageHours,
		},
	}

	switch {
	case attendanceRate < 70:
		ins.Title = "Low Attendance Rate Alert"
		ins.Severity = insight.SeverityHigh
		ins.Description = fmt.Sprintf("Attendance was recorded on %d of the last %d days (%.0f%%).", daysWithRecord, attendanceWindowDays, attendanceRate)
		ins.Recommendations = []string{
			"Check for missed clock-ins versus actual absences",
			"Review any open leave requests covering the gaps",
			"Discuss the pattern in the next one-on-one",
		}
	case daysWithRecord > 0 && float64(lateArrivals) > 0.3*float64(daysWithRecord):
		ins.Title = "Frequent Late Arrivals Detected"
		ins.Severity = insight.SeverityMedium
		ins.Description = fmt.Sprintf("%d of %d recorded days started at or after 09:00.", lateArrivals, daysWithRecord)
		ins.Recommendations = []string{
			"Confirm whether the late starts are schedule-related",
			"Consider an adjusted workday start if the pattern is stable",
			"Review the company's workday start setting",
		}
	case averageHours < 6:
		ins.Title = "Low Average Working Hours"
		ins.Severity = insight.SeverityMedium
		ins.Description = fmt.Sprintf("Average recorded time is %.1f hours per day over the window.", averageHours)
		ins.Recommendations = []string{
			"Check for missed clock-outs shortening the recorded days",
			"Compare recorded hours against the expected schedule",
			"Follow up if the shortfall is sustained",
		}
	default:
		ins.Title = "Good Attendance Patterns"
		ins.Severity = insight.SeverityLow
		ins.Description = fmt.Sprintf("Attendance is at %.0f%% with %.1f hours per day on average.", attendanceRate, averageHours)
		ins.Recommendations = []string{
			"No action needed",
			"Keep the current routine",
		}
	}

	return ins, nil
}

// riskInsight aggregates four independent sub-checks. Each is guarded
// on its own: a failed check is logged and contributes nothing, it
// never sinks the whole analysis.
func (s *AssistantServiceImpl) riskInsight(ctx context.Context, sysCtx assistant.SystemContext) (insight.Insight, error) {
	riskScore := 0
	var identifiedRisks []string

	// Financial: running at a loss, or expenses eating >80% of income. 3 points.
	if current, _, err := s.financeReader.MonthlySummary(ctx, financeScope(sysCtx)); err != nil {
		slog.WarnContext(ctx, "Risk financial check skipped", "error", err)
	} else if current.NetProfit < 0 || (current.TotalIncome > 0 && current.TotalExpenses/current.TotalIncome > 0.8) {
		riskScore += 3
		identifiedRisks = append(identifiedRisks, "Financial pressure: expenses are at or near current income")
	}

	// Goals: more than 30% of open goals past their end date. 2 points.
	if goals, err := s.performanceReader.ListGoals(ctx, sysCtx.CompanyID, scopedUserID(sysCtx)); err != nil {
		slog.WarnContext(ctx, "Risk goal check skipped", "error", err)
	} else if len(goals) > 0 {
		now := s.clock.Now()
		overdue := 0
		for _, g := range goals {
			if g.Overdue(now) {
				overdue++
			}
		}
		if float64(overdue)/float64(len(goals)) > 0.3 {
			riskScore += 2
			identifiedRisks = append(identifiedRisks, "Delivery risk: a large share of goals are overdue")
		}
	}

	// Attendance: the caller's trailing 30-day rate below 70%. 2 points.
	if sysCtx.UserID == "" {
		slog.WarnContext(ctx, "Risk attendance check skipped", "error", "no user id in context")
	} else {
		now := s.clock.Now()
		records, err := s.attendanceReader.ListByUser(ctx, sysCtx.UserID, attendance.ListRequest{
			From:  now.AddDate(0, 0, -attendanceWindowDays).Format("2006-01-02"),
			To:    now.Format("2006-01-02"),
			Page:  1,
			Limit: attendanceWindowDays + 1,
		})
		if err != nil {
			slog.WarnContext(ctx, "Risk attendance check skipped", "error", err)
		} else if float64(len(records))/attendanceWindowDays*100 < 70 {
			riskScore += 2
			identifiedRisks = append(identifiedRisks, "Attendance risk: recorded attendance is below 70% over 30 days")
		}
	}

	// Invoices: more than 20% of live invoices overdue. 2 points.
	if overdue, total, err := s.invoiceReader.OverdueRatio(ctx, sysCtx.CompanyID, s.clock.Now()); err != nil {
		slog.WarnContext(ctx, "Risk invoice check skipped", "error", err)
	} else if total > 0 && float64(overdue)/float64(total) > 0.2 {
		riskScore += 2
		identifiedRisks = append(identifiedRisks, "Cash-flow risk: over 20% of invoices are overdue")
	}

	var severity insight.Severity
	switch {
	case riskScore >= 6:
		severity = insight.SeverityHigh
	case riskScore >= 3:
		severity = insight.SeverityMedium
	default:
		severity = insight.SeverityLow
	}

	description := fmt.Sprintf("Composite risk score is %d out of 10 across financial, delivery, attendance, and invoicing checks.", riskScore)
	recommendations := []string{
		"Review the identified risk areas in priority order",
		"Re-run the analysis after corrective action",
	}
	if len(identifiedRisks) == 0 {
		description = "No elevated risk indicators were found across financial, delivery, attendance, and invoicing checks."
		recommendations = []string{
			"No action needed",
			"Re-run the assessment periodically",
		}
	}

	return insight.Insight{
		Type:            insight.TypeRisk,
		Title:           "Business Risk Assessment",
		Severity:        severity,
		Description:     description,
		Recommendations: recommendations,
		Data: insight.Payload{
			"risk_score":       riskScore,
			"identified_risks": identifiedRisks,
		},
	}, nil
}

// fallbackInsight is the generic record persisted when an analysis
// branch fails outright.
func (s *AssistantServiceImpl) fallbackInsight(typ insight.Type, cause error) insight.Insight {
	return insight.Insight{
		Type:            typ,
		Title:           "Analysis Unavailable",
		Severity:        insight.SeverityLow,
		Description:     fmt.Sprintf("The %s analysis could not be completed: %v.", typ, cause),
		Recommendations: fallbackRecommendations,
		Data: insight.Payload{
			"error":        cause.Error(),
			"generated_at": s.clock.Now().Format(time.RFC3339),
		},
	}
}
