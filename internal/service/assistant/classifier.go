package assistant

import (
	"context"
	"strings"

	"github.com/workbridge/erp-backend-go/internal/domain/assistant"
)

// handlerFunc produces the reply for a matched category. Handlers
// never return errors; data-fetch failures become apologetic text.
type handlerFunc func(ctx context.Context, sysCtx assistant.SystemContext, msg string) string

// rule pairs a predicate with its handler. Rules are evaluated in
// slice order and the first match wins; later rules are never
// consulted for a matched message.
type rule struct {
	name  string
	match func(msg string) bool
	reply handlerFunc
}

// rules returns the classification table in priority order.
func (s *AssistantServiceImpl) rules() []rule {
	return []rule{
		{"greeting", isGreeting, s.handleGreeting},
		{"small_talk", matchAny("how are you", "how's it going", "hows it going", "how do you do"), s.handleSmallTalk},
		{"thanks", matchAny("thank you", "thanks", "appreciate it", "much obliged"), s.handleThanks},
		{"farewell", matchAny("bye", "goodbye", "see you", "good night", "talk later"), s.handleFarewell},
		{"what_is", matchAny("what is", "what's a", "whats a", "explain", "define"), s.handleWhatIs},
		{"capabilities", matchAny("what can you do", "help me", "capabilities", "how can you help", "what do you do"), s.handleCapabilities},
		{"leave", matchAny("leave", "vacation", "time off", "day off", "sick day", "holiday"), s.handleLeave},
		{"invoice", matchAny("invoice", "billing", "bill "), s.handleInvoice},
		{"proposal", matchAny("proposal", "quote", "quotation"), s.handleProposal},
		{"financial", matchAny("revenue", "expense", "profit", "income", "financial", "finance", "cash", "spending"), s.handleFinancial},
		{"performance", matchAny("performance", "goal", "review", "rating", "kpi"), s.handlePerformance},
		{"attendance", matchAny("attendance", "clock in", "clock out", "clocked", "working hours", "work hours"), s.handleAttendance},
		{"how_to", matchAny("how do i", "how to", "how can i", "where do i"), s.handleHowTo},
	}
}

// classify returns the first matching rule, or nil when no rule
// matches and the message should fall through to the completion
// backend.
func (s *AssistantServiceImpl) classify(msg string) *rule {
	rules := s.rules()
	for i := range rules {
		if rules[i].match(msg) {
			return &rules[i]
		}
	}
	return nil
}

var greetings = []string{"hi", "hello", "hey", "good morning", "good afternoon", "good evening", "morning", "afternoon", "evening"}

// isGreeting matches only when the message opens with a greeting.
// Anchoring to the leading token keeps sentences that merely contain
// "hi" or "hey" out of this highest-priority rule.
func isGreeting(msg string) bool {
	for _, g := range greetings {
		if msg == g || strings.HasPrefix(msg, g+" ") || strings.HasPrefix(msg, g+",") || strings.HasPrefix(msg, g+"!") {
			return true
		}
	}
	return false
}

// matchAny builds a substring predicate over the lower-cased message.
func matchAny(patterns ...string) func(string) bool {
	return func(msg string) bool {
		for _, p := range patterns {
			if strings.Contains(msg, p) {
				return true
			}
		}
		return false
	}
}

// normalize lower-cases and trims the raw message before matching.
func normalize(msg string) string {
	return strings.ToLower(strings.TrimSpace(msg))
}
