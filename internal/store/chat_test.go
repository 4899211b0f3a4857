package store

import (
	"context"
	"testing"

	"tally/internal/blob"
)

func TestChatStoreCreateSessionPrepends(t *testing.T) {
	s := NewChatStore(blob.NewMemoryStore())
	ctx := context.Background()

	first, err := s.CreateSession(ctx)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	second, err := s.CreateSession(ctx)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	sessions, err := s.Sessions(ctx)
	if err != nil {
		t.Fatalf("sessions: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("got %d sessions, want 2", len(sessions))
	}
	if sessions[0].ID != second.ID || sessions[1].ID != first.ID {
		t.Fatalf("sessions not newest first: %v then %v", sessions[0].ID, sessions[1].ID)
	}
}

func TestChatStoreSaveSession(t *testing.T) {
	s := NewChatStore(blob.NewMemoryStore())
	ctx := context.Background()

	sess, _ := s.CreateSession(ctx)
	sess.Messages = append(sess.Messages,
		NewMessage(RoleUser, "how much did I spend on food?"),
		NewMessage(RoleAssistant, "You spent $120.00 on food this month."),
	)
	if err := s.SaveSession(ctx, sess); err != nil {
		t.Fatalf("save session: %v", err)
	}

	got, err := s.Session(ctx, sess.ID)
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	if len(got.Messages) != 2 || got.Messages[0].Role != RoleUser {
		t.Fatalf("messages not persisted: %+v", got.Messages)
	}

	if err := s.SaveSession(ctx, ChatSession{ID: "missing"}); err == nil {
		t.Fatalf("expected error for unknown session")
	}
}

func TestChatStoreClearSessionKeepsSession(t *testing.T) {
	s := NewChatStore(blob.NewMemoryStore())
	ctx := context.Background()

	sess, _ := s.CreateSession(ctx)
	sess.Messages = append(sess.Messages, NewMessage(RoleUser, "hello"))
	s.SaveSession(ctx, sess)

	if err := s.ClearSession(ctx, sess.ID); err != nil {
		t.Fatalf("clear: %v", err)
	}
	got, err := s.Session(ctx, sess.ID)
	if err != nil {
		t.Fatalf("session should survive clear: %v", err)
	}
	if len(got.Messages) != 0 {
		t.Fatalf("messages not cleared: %+v", got.Messages)
	}
}

func TestChatStoreDeleteSession(t *testing.T) {
	s := NewChatStore(blob.NewMemoryStore())
	ctx := context.Background()

	sess, _ := s.CreateSession(ctx)
	if err := s.DeleteSession(ctx, sess.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.Session(ctx, sess.ID); err == nil {
		t.Fatalf("expected error after delete")
	}
	if err := s.DeleteSession(ctx, sess.ID); err == nil {
		t.Fatalf("expected error deleting twice")
	}
}
