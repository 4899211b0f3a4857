// Package chat orchestrates the assistant: session bookkeeping, building
// the financial context for the model, and falling back to canned
// replies when the model cannot be reached.
package chat

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"tally/internal/ai"
	"tally/internal/services"
	"tally/internal/store"
)

// historyWindow caps how many prior turns are sent to the model.
const historyWindow = 10

// Service answers user messages inside persisted sessions.
type Service struct {
	sessions *store.ChatStore
	records  *store.RecordStore
	agg      *services.Aggregator
	gen      ai.Generator // nil means fallback replies only
}

func NewService(sessions *store.ChatStore, records *store.RecordStore, agg *services.Aggregator, gen ai.Generator) *Service {
	return &Service{sessions: sessions, records: records, agg: agg, gen: gen}
}

// SendMessage appends the user message to the session, asks the model
// for a reply and appends that too. When the model fails, the fallback
// reply is stored as the assistant message so the conversation never
// dead-ends. An empty sessionID starts a new session.
func (s *Service) SendMessage(ctx context.Context, sessionID, content string, general bool) (store.ChatSession, store.ChatMessage, error) {
	session, err := s.session(ctx, sessionID)
	if err != nil {
		return store.ChatSession{}, store.ChatMessage{}, err
	}

	session.Messages = append(session.Messages, store.NewMessage(store.RoleUser, content))
	session.LastActivity = time.Now()

	var ec *ai.ExpenseContext
	if !general {
		ec = s.buildContext(ctx)
	}

	reply := s.generate(ctx, session, content, ec, general)
	session.Messages = append(session.Messages, reply)
	session.LastActivity = time.Now()

	if err := s.sessions.SaveSession(ctx, session); err != nil {
		return store.ChatSession{}, store.ChatMessage{}, fmt.Errorf("save chat session: %w", err)
	}
	return session, reply, nil
}

func (s *Service) session(ctx context.Context, id string) (store.ChatSession, error) {
	if id == "" {
		return s.sessions.CreateSession(ctx)
	}
	return s.sessions.Session(ctx, id)
}

func (s *Service) generate(ctx context.Context, session store.ChatSession, content string, ec *ai.ExpenseContext, general bool) store.ChatMessage {
	if s.gen == nil {
		return store.NewMessage(store.RoleAssistant, ai.FallbackReply(content, ec, general))
	}

	prompt := ai.FinancePrompt(ec)
	if general {
		prompt = ai.GeneralPrompt()
	}

	history := session.Messages
	if len(history) > historyWindow {
		history = history[len(history)-historyWindow:]
	}
	turns := make([]ai.Turn, 0, len(history))
	for _, m := range history {
		turns = append(turns, ai.Turn{Role: m.Role, Content: m.Content})
	}

	text, err := s.gen.Generate(ctx, prompt, turns, content)
	if err != nil {
		slog.WarnContext(ctx, "Model call failed, using fallback reply", "error", err)
		text = ai.FallbackReply(content, ec, general)
	}
	return store.NewMessage(store.RoleAssistant, text)
}

// buildContext snapshots the current month for the finance persona.
// Failures degrade to no context rather than blocking the chat.
func (s *Service) buildContext(ctx context.Context) *ai.ExpenseContext {
	summary, err := s.agg.Summarize(ctx, nil, nil)
	if err != nil {
		slog.WarnContext(ctx, "Failed to summarize for chat context", "error", err)
		return nil
	}

	ec := &ai.ExpenseContext{
		TotalExpenses: summary.TotalExpenses,
		TotalIncome:   summary.TotalIncome,
	}

	for cat, amount := range summary.ByCategory {
		var pct float64
		if summary.TotalExpenses.Cents > 0 {
			pct = float64(amount.Cents) / float64(summary.TotalExpenses.Cents) * 100
		}
		ec.TopCategories = append(ec.TopCategories, ai.CategoryShare{
			Category:   cat,
			Amount:     amount,
			Percentage: pct,
		})
	}
	sort.Slice(ec.TopCategories, func(i, j int) bool {
		return ec.TopCategories[i].Amount.Cents > ec.TopCategories[j].Amount.Cents
	})
	if len(ec.TopCategories) > 5 {
		ec.TopCategories = ec.TopCategories[:5]
	}

	records, err := s.records.GetAll(ctx)
	if err != nil {
		slog.WarnContext(ctx, "Failed to load records for chat context", "error", err)
		return ec
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Date.After(records[j].Date) })
	for i, r := range records {
		if i == 5 {
			break
		}
		ec.RecentTransactions = append(ec.RecentTransactions, ai.TransactionLine{
			Description: r.Description,
			Amount:      r.Amount,
			Category:    r.Category,
			Date:        r.Date.Format("2006-01-02"),
		})
	}
	return ec
}

// Sessions lists all sessions, newest first.
func (s *Service) Sessions(ctx context.Context) ([]store.ChatSession, error) {
	return s.sessions.Sessions(ctx)
}

// ClearSession empties a session's messages.
func (s *Service) ClearSession(ctx context.Context, id string) error {
	return s.sessions.ClearSession(ctx, id)
}

// DeleteSession removes a session.
func (s *Service) DeleteSession(ctx context.Context, id string) error {
	return s.sessions.DeleteSession(ctx, id)
}
