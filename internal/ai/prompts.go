package ai

import (
	"fmt"
	"strings"

	"tally/internal/core"
)

// CategoryShare is one entry of the user's top spending categories.
type CategoryShare struct {
	Category   core.Category `json:"category"`
	Amount     core.Money    `json:"amount"`
	Percentage float64       `json:"percentage"`
}

// TransactionLine is a recent transaction shown to the model.
type TransactionLine struct {
	Description string        `json:"description"`
	Amount      core.Money    `json:"amount"`
	Category    core.Category `json:"category"`
	Date        string        `json:"date"`
}

// ExpenseContext is the financial snapshot injected into the finance
// persona so replies can reference the user's actual numbers.
type ExpenseContext struct {
	TotalExpenses      core.Money        `json:"total_expenses"`
	TotalIncome        core.Money        `json:"total_income"`
	TopCategories      []CategoryShare   `json:"top_categories"`
	RecentTransactions []TransactionLine `json:"recent_transactions"`
}

// Net returns income minus expenses.
func (c ExpenseContext) Net() core.Money {
	return core.Money{Cents: c.TotalIncome.Cents - c.TotalExpenses.Cents}
}

// GeneralPrompt is the persona for questions outside personal finance.
func GeneralPrompt() string {
	return `You are a helpful AI assistant that can answer questions about any topic.

Your personality:
- Helpful and informative
- Concise but thorough
- Friendly and engaging
- Provide accurate and up-to-date information

Keep responses concise (2-4 sentences) unless the user asks for detailed information.

If you don't know something, say so honestly and suggest how the user might find the answer.`
}

// FinancePrompt builds the expense-assistant persona, with the user's
// current numbers appended when a context is available.
func FinancePrompt(ec *ExpenseContext) string {
	var b strings.Builder
	b.WriteString(`You are ExpenseBot, an AI assistant specialized in personal finance and expense tracking. You help users manage their expenses, provide budgeting advice, and offer financial insights.

Your personality:
- Friendly and supportive
- Knowledgeable about personal finance
- Practical and actionable advice
- Encouraging towards financial goals

Keep responses concise (2-3 sentences max) unless the user asks for detailed analysis.

You can help with:
- Expense categorization
- Budgeting advice
- Financial goal setting
- Spending pattern analysis
- Money-saving tips
- Investment basics
- Debt management
`)

	if ec == nil {
		return b.String()
	}

	fmt.Fprintf(&b, "\nCurrent user's financial context:\n")
	fmt.Fprintf(&b, "- Total monthly expenses: $%s\n", ec.TotalExpenses)
	fmt.Fprintf(&b, "- Total monthly income: $%s\n", ec.TotalIncome)
	fmt.Fprintf(&b, "- Net amount: $%s\n", ec.Net())

	if len(ec.TopCategories) > 0 {
		b.WriteString("\nTop spending categories:\n")
		for _, cat := range ec.TopCategories {
			fmt.Fprintf(&b, "- %s: $%s (%.1f%%)\n", cat.Category, cat.Amount, cat.Percentage)
		}
	}

	if len(ec.RecentTransactions) > 0 {
		b.WriteString("\nRecent transactions:\n")
		recent := ec.RecentTransactions
		if len(recent) > 5 {
			recent = recent[:5]
		}
		for _, txn := range recent {
			fmt.Fprintf(&b, "- %s: $%s (%s)\n", txn.Description, txn.Amount, txn.Category)
		}
	}

	b.WriteString("\nUse this context to provide personalized advice.")
	return b.String()
}
