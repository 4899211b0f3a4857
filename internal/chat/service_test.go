package chat

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"tally/internal/ai"
	"tally/internal/blob"
	"tally/internal/core"
	"tally/internal/services"
	"tally/internal/store"
)

type stubGenerator struct {
	reply      string
	err        error
	lastPrompt string
	lastTurns  []ai.Turn
}

func (g *stubGenerator) Generate(_ context.Context, systemPrompt string, history []ai.Turn, _ string) (string, error) {
	g.lastPrompt = systemPrompt
	g.lastTurns = history
	return g.reply, g.err
}

func newTestService(gen ai.Generator) (*Service, *store.RecordStore) {
	blobs := blob.NewMemoryStore()
	records := store.NewRecordStore(blobs)
	sessions := store.NewChatStore(blobs)
	agg := services.NewAggregator(records)
	return NewService(sessions, records, agg, gen), records
}

func TestSendMessageStoresBothTurns(t *testing.T) {
	gen := &stubGenerator{reply: "Here's a budgeting tip."}
	svc, _ := newTestService(gen)
	ctx := context.Background()

	session, reply, err := svc.SendMessage(ctx, "", "help me budget", false)
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if reply.Role != store.RoleAssistant || reply.Content != "Here's a budgeting tip." {
		t.Fatalf("reply = %+v", reply)
	}
	if len(session.Messages) != 2 {
		t.Fatalf("session has %d messages, want 2", len(session.Messages))
	}
	if session.Messages[0].Role != store.RoleUser || session.Messages[0].Content != "help me budget" {
		t.Fatalf("user turn = %+v", session.Messages[0])
	}

	// Message history persists across calls.
	session2, _, err := svc.SendMessage(ctx, session.ID, "thanks", false)
	if err != nil {
		t.Fatalf("send again: %v", err)
	}
	if len(session2.Messages) != 4 {
		t.Fatalf("session has %d messages after two exchanges, want 4", len(session2.Messages))
	}
}

func TestSendMessageFallbackOnModelError(t *testing.T) {
	gen := &stubGenerator{err: errors.New("api unreachable")}
	svc, _ := newTestService(gen)

	session, reply, err := svc.SendMessage(context.Background(), "", "how do I budget?", false)
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if !strings.Contains(reply.Content, "50/30/20") {
		t.Errorf("fallback reply = %q", reply.Content)
	}
	// The fallback is stored like any assistant message.
	if session.Messages[1].Content != reply.Content {
		t.Errorf("fallback not persisted in session")
	}
}

func TestSendMessageNilGeneratorUsesFallback(t *testing.T) {
	svc, _ := newTestService(nil)

	_, reply, err := svc.SendMessage(context.Background(), "", "saving advice please", false)
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if !strings.Contains(reply.Content, "adds up to $1,300") {
		t.Errorf("reply = %q", reply.Content)
	}
}

func TestSendMessageHistoryWindow(t *testing.T) {
	gen := &stubGenerator{reply: "ok"}
	svc, _ := newTestService(gen)
	ctx := context.Background()

	session, _, err := svc.SendMessage(ctx, "", "message 0", true)
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	for i := 1; i < 8; i++ {
		if _, _, err := svc.SendMessage(ctx, session.ID, "another message", true); err != nil {
			t.Fatalf("send %d: %v", i, err)
		}
	}

	// 15 stored turns before the final user message; only the last 10
	// go to the model.
	if len(gen.lastTurns) != historyWindow {
		t.Errorf("model saw %d turns, want %d", len(gen.lastTurns), historyWindow)
	}
}

func TestSendMessagePersonaSelection(t *testing.T) {
	gen := &stubGenerator{reply: "ok"}
	svc, records := newTestService(gen)
	ctx := context.Background()

	records.Add(ctx, core.Record{
		Amount:      core.Money{Cents: 80000},
		Description: "rent",
		Category:    core.CategoryHousing,
		Kind:        core.KindExpense,
		Date:        time.Now(),
	})

	if _, _, err := svc.SendMessage(ctx, "", "analyze my month", false); err != nil {
		t.Fatalf("send: %v", err)
	}
	if !strings.Contains(gen.lastPrompt, "ExpenseBot") || !strings.Contains(gen.lastPrompt, "rent") {
		t.Errorf("finance prompt missing persona or context:\n%s", gen.lastPrompt)
	}

	if _, _, err := svc.SendMessage(ctx, "", "what is the capital of France?", true); err != nil {
		t.Fatalf("send general: %v", err)
	}
	if strings.Contains(gen.lastPrompt, "ExpenseBot") {
		t.Errorf("general question used finance persona")
	}
}
