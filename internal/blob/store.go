// Package blob implements the key-value blob persistence layer. Each
// namespace stores exactly one JSON-serialized value under its own key;
// there is no schema versioning and no migration path for stored values.
package blob

import "context"

// Fixed namespaces. Every store keeps its whole collection under one key.
const (
	KeyRecords      = "records"
	KeyChatSessions = "chat-sessions"
	KeySettings     = "settings"
)

// Store is the outbound port for blob persistence.
type Store interface {
	// Get returns the value for key, with found=false when the key has
	// never been written.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)

	// Put writes value under key, replacing any previous value.
	Put(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}
