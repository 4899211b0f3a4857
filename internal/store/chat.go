package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"tally/internal/blob"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ErrSessionNotFound is returned when no session matches the given id.
var ErrSessionNotFound = errors.New("chat session not found")

type (
	// ChatMessage is a single turn in a conversation.
	ChatMessage struct {
		ID        string    `json:"id"`
		Role      string    `json:"role"`
		Content   string    `json:"content"`
		Timestamp time.Time `json:"timestamp"`
	}

	// ChatSession is one conversation thread with the assistant.
	ChatSession struct {
		ID           string        `json:"id"`
		Messages     []ChatMessage `json:"messages"`
		CreatedAt    time.Time     `json:"created_at"`
		LastActivity time.Time     `json:"last_activity"`
	}
)

// ChatStore persists conversation sessions, newest first.
type ChatStore struct {
	mu    sync.Mutex
	blobs blob.Store
}

func NewChatStore(blobs blob.Store) *ChatStore {
	return &ChatStore{blobs: blobs}
}

// Sessions returns all sessions, newest first.
func (s *ChatStore) Sessions(ctx context.Context) ([]ChatSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// CreateSession opens a new empty session at the head of the list.
func (s *ChatStore) CreateSession(ctx context.Context) (ChatSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions, err := s.load(ctx)
	if err != nil {
		return ChatSession{}, err
	}

	now := time.Now()
	session := ChatSession{
		ID:           uuid.NewString(),
		Messages:     []ChatMessage{},
		CreatedAt:    now,
		LastActivity: now,
	}
	sessions = append([]ChatSession{session}, sessions...)
	if err := s.save(ctx, sessions); err != nil {
		return ChatSession{}, err
	}
	return session, nil
}

// Session returns the session with the given id.
func (s *ChatStore) Session(ctx context.Context, id string) (ChatSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions, err := s.load(ctx)
	if err != nil {
		return ChatSession{}, err
	}
	for _, sess := range sessions {
		if sess.ID == id {
			return sess, nil
		}
	}
	return ChatSession{}, fmt.Errorf("chat session %q: %w", id, ErrSessionNotFound)
}

// SaveSession replaces the stored session with the same id.
func (s *ChatStore) SaveSession(ctx context.Context, session ChatSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions, err := s.load(ctx)
	if err != nil {
		return err
	}
	for i := range sessions {
		if sessions[i].ID == session.ID {
			sessions[i] = session
			return s.save(ctx, sessions)
		}
	}
	return fmt.Errorf("chat session %q: %w", session.ID, ErrSessionNotFound)
}

// ClearSession empties a session's messages but keeps the session.
func (s *ChatStore) ClearSession(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions, err := s.load(ctx)
	if err != nil {
		return err
	}
	for i := range sessions {
		if sessions[i].ID == id {
			sessions[i].Messages = []ChatMessage{}
			sessions[i].LastActivity = time.Now()
			return s.save(ctx, sessions)
		}
	}
	return fmt.Errorf("chat session %q: %w", id, ErrSessionNotFound)
}

// DeleteSession removes a session entirely.
func (s *ChatStore) DeleteSession(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions, err := s.load(ctx)
	if err != nil {
		return err
	}
	kept := sessions[:0:0]
	for _, sess := range sessions {
		if sess.ID != id {
			kept = append(kept, sess)
		}
	}
	if len(kept) == len(sessions) {
		return fmt.Errorf("chat session %q: %w", id, ErrSessionNotFound)
	}
	return s.save(ctx, kept)
}

func (s *ChatStore) load(ctx context.Context) ([]ChatSession, error) {
	raw, found, err := s.blobs.Get(ctx, blob.KeyChatSessions)
	if err != nil {
		return nil, fmt.Errorf("load chat sessions: %w", err)
	}
	if !found {
		return []ChatSession{}, nil
	}

	var sessions []ChatSession
	if err := json.Unmarshal(raw, &sessions); err != nil {
		return nil, fmt.Errorf("decode chat sessions: %w", err)
	}
	if sessions == nil {
		sessions = []ChatSession{}
	}
	return sessions, nil
}

func (s *ChatStore) save(ctx context.Context, sessions []ChatSession) error {
	raw, err := json.Marshal(sessions)
	if err != nil {
		return fmt.Errorf("encode chat sessions: %w", err)
	}
	if err := s.blobs.Put(ctx, blob.KeyChatSessions, raw); err != nil {
		return fmt.Errorf("save chat sessions: %w", err)
	}
	return nil
}

// NewMessage builds a message with a fresh id and timestamp.
func NewMessage(role, content string) ChatMessage {
	return ChatMessage{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
}
