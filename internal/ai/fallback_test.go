package ai

import (
	"strings"
	"testing"

	"tally/internal/core"
)

func TestFallbackReplyFinanceKeywords(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    string
	}{
		{"budget", "how do I set a budget?", "50/30/20"},
		{"saving", "tips for saving money", "$25/week"},
		{"categorize", "help me categorize this", "Common categories"},
		{"voice", "how does voice input work?", "I spent $25 on lunch"},
		{"unmatched", "tell me a joke", "I'm your AI assistant"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FallbackReply(tt.message, nil, false)
			if !strings.Contains(got, tt.want) {
				t.Errorf("reply %q does not contain %q", got, tt.want)
			}
		})
	}
}

func TestFallbackReplyGeneralKeywords(t *testing.T) {
	if got := FallbackReply("what's the weather today", nil, true); !strings.Contains(got, "weather") {
		t.Errorf("weather reply = %q", got)
	}
	if got := FallbackReply("latest news please", nil, true); !strings.Contains(got, "news sources") {
		t.Errorf("news reply = %q", got)
	}
	if got := FallbackReply("anything else", nil, true); !strings.Contains(got, "trouble connecting") {
		t.Errorf("generic reply = %q", got)
	}
}

func TestFallbackReplyAnalysisUsesContext(t *testing.T) {
	surplus := &ExpenseContext{
		TotalExpenses: core.Money{Cents: 50000},
		TotalIncome:   core.Money{Cents: 80000},
		TopCategories: []CategoryShare{{Category: core.CategoryFood, Amount: core.Money{Cents: 25000}, Percentage: 50}},
	}
	got := FallbackReply("give me insights", surplus, false)
	if !strings.Contains(got, "$300.00") || !strings.Contains(got, "food") {
		t.Errorf("surplus analysis = %q", got)
	}

	deficit := &ExpenseContext{
		TotalExpenses: core.Money{Cents: 90000},
		TotalIncome:   core.Money{Cents: 80000},
	}
	got = FallbackReply("give me insights", deficit, false)
	if !strings.Contains(got, "$100.00 more than you earn") {
		t.Errorf("deficit analysis = %q", got)
	}
}

func TestFinancePromptInjectsContext(t *testing.T) {
	ec := &ExpenseContext{
		TotalExpenses: core.Money{Cents: 123456},
		TotalIncome:   core.Money{Cents: 200000},
		TopCategories: []CategoryShare{
			{Category: core.CategoryHousing, Amount: core.Money{Cents: 80000}, Percentage: 64.8},
		},
		RecentTransactions: []TransactionLine{
			{Description: "rent", Amount: core.Money{Cents: 80000}, Category: core.CategoryHousing, Date: "2026-08-01"},
		},
	}

	prompt := FinancePrompt(ec)
	for _, want := range []string{"$1234.56", "$2000.00", "$765.44", "housing", "rent"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}

	bare := FinancePrompt(nil)
	if strings.Contains(bare, "financial context") {
		t.Errorf("nil context should omit the context block")
	}
}

func TestFinancePromptCapsRecentTransactions(t *testing.T) {
	ec := &ExpenseContext{}
	for i := 0; i < 8; i++ {
		ec.RecentTransactions = append(ec.RecentTransactions, TransactionLine{
			Description: "txn",
			Amount:      core.Money{Cents: 100},
			Category:    core.CategoryOther,
		})
	}
	prompt := FinancePrompt(ec)
	if got := strings.Count(prompt, "- txn:"); got != 5 {
		t.Errorf("prompt lists %d transactions, want 5", got)
	}
}
