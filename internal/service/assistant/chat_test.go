package assistant

import (
	"context"
	"testing"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/workbridge/erp-backend-go/internal/domain/assistant"
	"github.com/workbridge/erp-backend-go/internal/domain/leave"
	"github.com/workbridge/erp-backend-go/internal/domain/proposal"
	"github.com/workbridge/erp-backend-go/internal/domain/user"
)

type engineFixture struct {
	svc         *AssistantServiceImpl
	insights    *fakeInsightRepo
	leave       *fakeLeaveReader
	finance     *fakeFinanceReader
	performance *fakePerformanceReader
	attendance  *fakeAttendanceReader
	invoices    *fakeInvoiceReader
	proposals   *fakeProposalReader
	completion  *fakeCompletion
	clock       *clock.Mock
}

func newEngineFixture() *engineFixture {
	f := &engineFixture{
		insights:    &fakeInsightRepo{},
		leave:       &fakeLeaveReader{},
		finance:     &fakeFinanceReader{},
		performance: &fakePerformanceReader{},
		attendance:  &fakeAttendanceReader{},
		invoices:    &fakeInvoiceReader{},
		proposals:   &fakeProposalReader{},
		completion:  &fakeCompletion{},
		clock:       clock.NewMock(),
	}
	f.svc = NewAssistantService(
		f.insights, f.leave, f.finance, f.performance,
		f.attendance, f.invoices, f.proposals, f.completion, f.clock,
	).(*AssistantServiceImpl)
	return f
}

func staffContext() assistant.SystemContext {
	return assistant.SystemContext{UserID: "user-a", UserRole: user.RoleStaff, CompanyID: "company-1"}
}

func adminContext() assistant.SystemContext {
	return assistant.SystemContext{UserID: "admin-1", UserRole: user.RoleAdmin, CompanyID: "company-1"}
}

func TestChatGreetingNeverReachesCompletion(t *testing.T) {
	f := newEngineFixture()
	f.completion.enabled = true
	f.completion.reply = "model reply"

	resp, err := f.svc.Chat(context.Background(), staffContext(), assistant.ChatRequest{Message: "hello"})

	require.NoError(t, err)
	assert.Contains(t, resp.Reply, "workplace assistant")
	assert.Zero(t, f.completion.calls)
}

func TestChatClassifierPriorityOrder(t *testing.T) {
	f := newEngineFixture()

	cases := []struct {
		message string
		want    string
	}{
		{"hello", "greeting"},
		{"hey there", "greeting"},
		{"how are you today?", "small_talk"},
		{"thanks a lot", "thanks"},
		{"goodbye", "farewell"},
		{"what is an invoice", "what_is"},
		{"what can you do", "capabilities"},
		{"what's my leave balance", "leave"},
		{"show me unpaid invoices", "invoice"},
		{"any proposals accepted this week?", "proposal"},
		{"how is our revenue doing", "financial"},
		{"show my performance goals", "performance"},
		{"did i clock in this morning", "attendance"},
		{"how do i reset my password", "how_to"},
	}

	for _, tc := range cases {
		rule := f.svc.classify(normalize(tc.message))
		require.NotNil(t, rule, "message %q should classify", tc.message)
		assert.Equal(t, tc.want, rule.name, "message %q", tc.message)
	}
}

func TestChatUnmatchedWithoutBackendReturnsGuidance(t *testing.T) {
	f := newEngineFixture()

	resp, err := f.svc.Chat(context.Background(), staffContext(), assistant.ChatRequest{
		Message: "zxqw flibber",
	})

	require.NoError(t, err)
	assert.Equal(t, guidanceReply, resp.Reply)
}

func TestChatUnmatchedForwardsToCompletion(t *testing.T) {
	f := newEngineFixture()
	f.completion.enabled = true
	f.completion.reply = "here is a generated answer"

	resp, err := f.svc.Chat(context.Background(), staffContext(), assistant.ChatRequest{
		Message: "compose a short poem about office plants",
	})

	require.NoError(t, err)
	assert.Equal(t, "here is a generated answer", resp.Reply)
	assert.Equal(t, 1, f.completion.calls)
}

func TestChatCompletionFailureDegradesToGuidance(t *testing.T) {
	f := newEngineFixture()
	f.completion.enabled = true
	f.completion.err = errUpstream

	resp, err := f.svc.Chat(context.Background(), staffContext(), assistant.ChatRequest{
		Message: "compose a short poem about office plants",
	})

	require.NoError(t, err)
	assert.Equal(t, guidanceReply, resp.Reply)
}

func TestChatLeaveBalanceScopedToCaller(t *testing.T) {
	f := newEngineFixture()
	f.leave.balance = leave.Balance{
		UserID: "user-a",
		Year:   2026,
		Annual: leave.TypeBalance{Total: 12, Used: 4.5, Remaining: 7.5},
		Sick:   leave.TypeBalance{Total: 10, Used: 0, Remaining: 10},
	}

	resp, err := f.svc.Chat(context.Background(), staffContext(), assistant.ChatRequest{
		Message: "what's my leave balance",
	})

	require.NoError(t, err)
	assert.Equal(t, "user-a", f.leave.lastUserID)
	assert.Equal(t, "company-1", f.leave.lastCompanyID)
	assert.Contains(t, resp.Reply, "7.5")
	assert.Contains(t, resp.Reply, "10.0")
}

func TestChatLeaveFetchFailureYieldsApology(t *testing.T) {
	f := newEngineFixture()
	f.leave.err = errUpstream

	resp, err := f.svc.Chat(context.Background(), staffContext(), assistant.ChatRequest{
		Message: "how much vacation do i have left",
	})

	require.NoError(t, err)
	assert.Contains(t, resp.Reply, "couldn't retrieve your leave balance")
}

func TestChatProposalScopingByRole(t *testing.T) {
	f := newEngineFixture()
	f.proposals.counts = map[proposal.Status]int{proposal.StatusSent: 2}

	_, err := f.svc.Chat(context.Background(), staffContext(), assistant.ChatRequest{Message: "any proposals out?"})
	require.NoError(t, err)
	require.NotNil(t, f.proposals.lastCreatedBy)
	assert.Equal(t, "user-a", *f.proposals.lastCreatedBy)

	_, err = f.svc.Chat(context.Background(), adminContext(), assistant.ChatRequest{Message: "any proposals out?"})
	require.NoError(t, err)
	assert.Nil(t, f.proposals.lastCreatedBy)
}

func TestChatFinancialScopingByRole(t *testing.T) {
	f := newEngineFixture()

	_, err := f.svc.Chat(context.Background(), staffContext(), assistant.ChatRequest{Message: "how is revenue"})
	require.NoError(t, err)
	assert.Equal(t, "user-a", f.finance.lastScope.UserID)

	_, err = f.svc.Chat(context.Background(), adminContext(), assistant.ChatRequest{Message: "how is revenue"})
	require.NoError(t, err)
	assert.Empty(t, f.finance.lastScope.UserID)
}

func TestChatRejectsEmptyMessage(t *testing.T) {
	f := newEngineFixture()

	_, err := f.svc.Chat(context.Background(), staffContext(), assistant.ChatRequest{Message: "   "})
	assert.Error(t, err)
}
