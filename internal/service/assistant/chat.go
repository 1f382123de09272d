package assistant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/workbridge/erp-backend-go/internal/domain/assistant"
	"github.com/workbridge/erp-backend-go/internal/domain/attendance"
	"github.com/workbridge/erp-backend-go/internal/domain/invoice"
	"github.com/workbridge/erp-backend-go/internal/domain/performance"
	"github.com/workbridge/erp-backend-go/internal/domain/proposal"
)

const maxForwardedHistory = 10

const guidanceReply = "I'm not sure I understood that. You can ask me about your leave balance, " +
	"invoices, proposals, financial summaries, performance goals, or attendance. " +
	"Try something like \"what's my leave balance\" or \"show me this month's revenue\"."

// Chat implements Service. It never returns a conversational error to
// the caller: classification failures and backend outages all collapse
// into apologetic replies.
func (s *AssistantServiceImpl) Chat(ctx context.Context, sysCtx assistant.SystemContext, req assistant.ChatRequest) (assistant.ChatResponse, error) {
	if err := req.Validate(); err != nil {
		return assistant.ChatResponse{}, err
	}

	msg := normalize(req.Message)

	if r := s.classify(msg); r != nil {
		slog.DebugContext(ctx, "Chat message classified",
			"category", r.name, "user_id", sysCtx.UserID)
		return assistant.ChatResponse{Reply: r.reply(ctx, sysCtx, msg)}, nil
	}

	return assistant.ChatResponse{Reply: s.fallbackReply(ctx, sysCtx, req)}, nil
}

// fallbackReply forwards unmatched messages to the completion backend
// when one is configured, otherwise returns fixed guidance.
func (s *AssistantServiceImpl) fallbackReply(ctx context.Context, sysCtx assistant.SystemContext, req assistant.ChatRequest) string {
	if !s.completion.Enabled() {
		return guidanceReply
	}

	history := req.History
	if len(history) > maxForwardedHistory {
		history = history[len(history)-maxForwardedHistory:]
	}

	prompt := s.systemPrompt(ctx, sysCtx)

	reply, err := s.completion.Complete(ctx, prompt, history, req.Message)
	if err != nil {
		slog.WarnContext(ctx, "Completion backend call failed", "error", err)
		return guidanceReply
	}
	return reply
}

func (s *AssistantServiceImpl) handleGreeting(_ context.Context, _ assistant.SystemContext, _ string) string {
	return "Hello! I'm your workplace assistant. I can help you with leave balances, invoices, proposals, finances, performance goals, and attendance. What would you like to know?"
}

func (s *AssistantServiceImpl) handleSmallTalk(_ context.Context, _ assistant.SystemContext, _ string) string {
	return "I'm doing well, thank you for asking! How can I help you today?"
}

func (s *AssistantServiceImpl) handleThanks(_ context.Context, _ assistant.SystemContext, _ string) string {
	return "You're welcome! Let me know if there's anything else I can help with."
}

func (s *AssistantServiceImpl) handleFarewell(_ context.Context, _ assistant.SystemContext, _ string) string {
	return "Goodbye! Have a great day."
}

func (s *AssistantServiceImpl) handleWhatIs(_ context.Context, _ assistant.SystemContext, msg string) string {
	switch {
	case strings.Contains(msg, "invoice"):
		return "An invoice is a billing document sent to a customer listing items, quantities, and prices, with a due date for payment. Invoices here move through draft, pending, approved, sent, and paid states."
	case strings.Contains(msg, "proposal"):
		return "A proposal is a priced offer sent to a customer before work begins. Once sent it can be accepted, rejected, or expire on its validity date."
	case strings.Contains(msg, "leave"):
		return "Leave is paid time away from work. Your company grants annual, sick, and emergency quotas each year, and requests are approved by an administrator."
	case strings.Contains(msg, "kpi"), strings.Contains(msg, "goal"):
		return "A goal is a measurable target assigned to you with a start and end date. Progress is tracked against a target value and feeds into performance reviews."
	default:
		return "Could you tell me a bit more about what you'd like explained? I know about leave, invoices, proposals, finances, goals, and attendance."
	}
}

func (s *AssistantServiceImpl) handleCapabilities(_ context.Context, sysCtx assistant.SystemContext, _ string) string {
	if sysCtx.IsStaff() {
		return "I can check your leave balance, show your attendance and working hours, summarize your goals and reviews, and walk you through everyday tasks like requesting leave or clocking in."
	}
	return "I can summarize company finances, list invoice and proposal pipelines, surface overdue items, report on team goals and reviews, and answer questions about attendance across the company."
}

// handleLeave reports the caller's own balance. Balances are always
// per-user, so admins get their own figures here too.
func (s *AssistantServiceImpl) handleLeave(ctx context.Context, sysCtx assistant.SystemContext, _ string) string {
	balance, err := s.leaveReader.Balance(ctx, sysCtx.CompanyID, sysCtx.UserID)
	if err != nil {
		slog.WarnContext(ctx, "Chat leave lookup failed", "user_id", sysCtx.UserID, "error", err)
		return "Sorry, I couldn't retrieve your leave balance right now. Please try again in a moment."
	}

	return fmt.Sprintf(
		"Here's your %d leave balance: annual %.1f of %.1f days remaining, sick %.1f of %.1f, emergency %.1f of %.1f. You can submit a new request from the Leave page.",
		balance.Year,
		balance.Annual.Remaining, balance.Annual.Total,
		balance.Sick.Remaining, balance.Sick.Total,
		balance.Emergency.Remaining, balance.Emergency.Total,
	)
}

func (s *AssistantServiceImpl) handleInvoice(ctx context.Context, sysCtx assistant.SystemContext, _ string) string {
	filter := invoice.Filter{Page: 1, Limit: 100}
	if sysCtx.IsStaff() {
		filter.CreatedBy = scopedUserID(sysCtx)
	}

	list, err := s.invoiceReader.List(ctx, sysCtx.CompanyID, filter)
	if err != nil {
		slog.WarnContext(ctx, "Chat invoice lookup failed", "user_id", sysCtx.UserID, "error", err)
		return "Sorry, I couldn't look up invoices right now. Please try again shortly."
	}

	if list.TotalCount == 0 {
		if sysCtx.IsStaff() {
			return "You haven't created any invoices yet. You can create one from the Invoices page."
		}
		return "There are no invoices on record yet."
	}

	var unpaid, overdue int
	var outstanding float64
	for _, inv := range list.Invoices {
		switch inv.Status {
		case string(invoice.StatusOverdue):
			overdue++
			outstanding += inv.Total
		case string(invoice.StatusSent), string(invoice.StatusPending), string(invoice.StatusApproved):
			unpaid++
			outstanding += inv.Total
		}
	}

	subject := "The company has"
	if sysCtx.IsStaff() {
		subject = "You have"
	}
	reply := fmt.Sprintf("%s %d invoice(s): %d awaiting payment and %d overdue, totalling %.2f outstanding.",
		subject, list.TotalCount, unpaid, overdue, outstanding)
	if overdue > 0 {
		reply += " The overdue ones may need a follow-up with the customer."
	}
	return reply
}

func (s *AssistantServiceImpl) handleProposal(ctx context.Context, sysCtx assistant.SystemContext, _ string) string {
	counts, err := s.proposalReader.StatusCounts(ctx, sysCtx.CompanyID, scopedUserID(sysCtx))
	if err != nil {
		slog.WarnContext(ctx, "Chat proposal lookup failed", "user_id", sysCtx.UserID, "error", err)
		return "Sorry, I couldn't look up proposals right now. Please try again shortly."
	}

	total := 0
	for _, n := range counts {
		total += n
	}
	if total == 0 {
		return "There are no proposals on record yet. You can draft one from the Proposals page."
	}

	return fmt.Sprintf(
		"Proposal pipeline: %d draft, %d sent, %d accepted, %d rejected, %d expired (%d total).",
		counts[proposal.StatusDraft], counts[proposal.StatusSent], counts[proposal.StatusAccepted],
		counts[proposal.StatusRejected], counts[proposal.StatusExpired], total,
	)
}

func (s *AssistantServiceImpl) handleFinancial(ctx context.Context, sysCtx assistant.SystemContext, _ string) string {
	current, previous, err := s.financeReader.MonthlySummary(ctx, financeScope(sysCtx))
	if err != nil {
		slog.WarnContext(ctx, "Chat finance lookup failed", "user_id", sysCtx.UserID, "error", err)
		return "Sorry, I couldn't retrieve the financial summary right now. Please try again shortly."
	}

	scopeNote := "across the company"
	if sysCtx.IsStaff() {
		scopeNote = "from your records"
	}

	trend := "up"
	if current.NetProfit < previous.NetProfit {
		trend = "down"
	}

	return fmt.Sprintf(
		"This month %s: income %.2f, expenses %.2f, net %.2f (%s from last month's net of %.2f).",
		scopeNote, current.TotalIncome, current.TotalExpenses, current.NetProfit, trend, previous.NetProfit,
	)
}

func (s *AssistantServiceImpl) handlePerformance(ctx context.Context, sysCtx assistant.SystemContext, msg string) string {
	userID := scopedUserID(sysCtx)
	// An admin asking about "my" performance is scoped to themselves.
	if userID == nil && strings.Contains(msg, "my ") {
		id := sysCtx.UserID
		userID = &id
	}

	goals, err := s.performanceReader.ListGoals(ctx, sysCtx.CompanyID, userID)
	if err != nil {
		slog.WarnContext(ctx, "Chat goals lookup failed", "user_id", sysCtx.UserID, "error", err)
		return "Sorry, I couldn't retrieve performance data right now. Please try again shortly."
	}

	if len(goals) == 0 {
		if userID != nil {
			return "You don't have any goals assigned yet. Your manager can set them up from the Performance page."
		}
		return "No goals have been set up yet. You can create them from the Performance page."
	}

	var completed, overdue int
	now := s.clock.Now()
	for _, g := range goals {
		if g.Status == performance.GoalCompleted {
			completed++
		}
		if g.Overdue(now) {
			overdue++
		}
	}

	subject := "The team has"
	if userID != nil {
		subject = "You have"
	}
	reply := fmt.Sprintf("%s %d goal(s): %d completed, %d overdue.", subject, len(goals), completed, overdue)
	if overdue > 0 {
		reply += " The overdue ones could use attention first."
	}
	return reply
}

func (s *AssistantServiceImpl) handleAttendance(ctx context.Context, sysCtx assistant.SystemContext, _ string) string {
	today, err := s.attendanceReader.Today(ctx, sysCtx.UserID)
	if err != nil {
		if errors.Is(err, attendance.ErrRecordNotFound) {
			return "You haven't clocked in today. You can clock in from the Attendance page."
		}
		slog.WarnContext(ctx, "Chat attendance lookup failed", "user_id", sysCtx.UserID, "error", err)
		return "Sorry, I couldn't retrieve your attendance right now. Please try again shortly."
	}

	if today.ClockOut == nil {
		return fmt.Sprintf("You clocked in at %s and are still on the clock.", today.ClockIn.Format("15:04"))
	}
	hours := 0.0
	if today.TotalHours != nil {
		hours = *today.TotalHours
	}
	return fmt.Sprintf("Today you clocked in at %s and out at %s, for %.1f hours.",
		today.ClockIn.Format("15:04"), today.ClockOut.Format("15:04"), hours)
}

func (s *AssistantServiceImpl) handleHowTo(_ context.Context, _ assistant.SystemContext, msg string) string {
	switch {
	case strings.Contains(msg, "leave"), strings.Contains(msg, "time off"), strings.Contains(msg, "vacation"):
		return "To request leave: open the Leave page, choose the type (annual, sick, or emergency), pick the start and end dates, add a reason, and submit. An administrator will approve or reject it and you'll be notified."
	case strings.Contains(msg, "invoice"):
		return "To create an invoice: open the Invoices page, pick the customer, add line items with quantities and prices, set the due date, and save. The number is assigned automatically when it's created."
	case strings.Contains(msg, "clock"):
		return "To record attendance: use the clock-in button on the Attendance page when you start work, and clock out when you finish. Your hours are computed automatically."
	case strings.Contains(msg, "proposal"):
		return "To send a proposal: open the Proposals page, add the customer and line items, set a validity date, save it as a draft, then mark it as sent when you're ready."
	default:
		return "Tell me what you're trying to do - for example \"how do I request leave\" or \"how do I create an invoice\" - and I'll walk you through it."
	}
}
