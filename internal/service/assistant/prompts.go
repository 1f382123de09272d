package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/workbridge/erp-backend-go/internal/domain/assistant"
)

const staffPromptTemplate = `You are a helpful workplace assistant for a company's staff portal.
You may only discuss the current user's own records: their leave balance, their attendance, their goals and reviews, and invoices or proposals they created themselves.
Never reveal, estimate, or speculate about other employees' data, salaries, or company-wide figures.
If asked about data outside the user's own scope, politely decline and suggest they contact an administrator.
Keep answers short and practical.`

const adminPromptTemplate = `You are a helpful workplace assistant for a company administrator.
You may discuss company-wide aggregates: finances, invoice and proposal pipelines, team goals, reviews, and attendance.
Do not reveal individual employees' personal data beyond what the administrator's dashboards already show.
Keep answers short and practical.`

// systemPrompt builds the role-scoped prompt for the completion
// backend, with live context snippets fetched under the same scoping
// rules as the rule-based handlers. Snippet fetch failures are logged
// and skipped; the prompt degrades rather than the chat failing.
func (s *AssistantServiceImpl) systemPrompt(ctx context.Context, sysCtx assistant.SystemContext) string {
	var b strings.Builder

	if sysCtx.IsStaff() {
		b.WriteString(staffPromptTemplate)
	} else {
		b.WriteString(adminPromptTemplate)
	}

	snippets := s.contextSnippets(ctx, sysCtx)
	if len(snippets) > 0 {
		b.WriteString("\n\nCurrent context:\n")
		for _, line := range snippets {
			b.WriteString("- ")
			b.WriteString(line)
			b.WriteString("\n")
		}
	}

	return b.String()
}

func (s *AssistantServiceImpl) contextSnippets(ctx context.Context, sysCtx assistant.SystemContext) []string {
	var snippets []string

	if balance, err := s.leaveReader.Balance(ctx, sysCtx.CompanyID, sysCtx.UserID); err == nil {
		snippets = append(snippets, fmt.Sprintf(
			"Leave remaining: annual %.1f, sick %.1f, emergency %.1f days.",
			balance.Annual.Remaining, balance.Sick.Remaining, balance.Emergency.Remaining))
	} else {
		slog.DebugContext(ctx, "Prompt leave snippet skipped", "error", err)
	}

	if current, _, err := s.financeReader.MonthlySummary(ctx, financeScope(sysCtx)); err == nil {
		snippets = append(snippets, fmt.Sprintf(
			"This month: income %.2f, expenses %.2f, net %.2f.",
			current.TotalIncome, current.TotalExpenses, current.NetProfit))
	} else {
		slog.DebugContext(ctx, "Prompt finance snippet skipped", "error", err)
	}

	if today, err := s.attendanceReader.Today(ctx, sysCtx.UserID); err == nil {
		status := "clocked in at " + today.ClockIn.Format("15:04")
		if today.ClockOut != nil {
			status = "clocked out at " + today.ClockOut.Format("15:04")
		}
		snippets = append(snippets, "Attendance today: "+status+".")
	} else {
		slog.DebugContext(ctx, "Prompt attendance snippet skipped", "error", err)
	}

	return snippets
}
