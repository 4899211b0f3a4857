package blob

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// MemoryStore is an in-memory Store, optionally backed by one JSON file per
// key in a data directory. With an empty dir it is purely transient, which
// is what the tests use.
type MemoryStore struct {
	mu   sync.Mutex
	data map[string][]byte
	dir  string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

// NewMemoryStoreFromDir seeds the store from <dir>/<key>.json files and
// writes every Put back to the same files.
func NewMemoryStoreFromDir(dir string) *MemoryStore {
	s := &MemoryStore{data: make(map[string][]byte), dir: dir}
	for _, key := range []string{KeyRecords, KeyChatSessions, KeySettings} {
		if b, err := os.ReadFile(s.filePath(key)); err == nil {
			s.data[key] = b
		}
	}
	return s
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

func (s *MemoryStore) Put(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := make([]byte, len(value))
	copy(stored, value)
	s.data[key] = stored

	if s.dir != "" {
		if err := os.MkdirAll(s.dir, 0755); err != nil {
			return fmt.Errorf("create data directory: %w", err)
		}
		if err := os.WriteFile(s.filePath(key), stored, 0644); err != nil {
			return fmt.Errorf("write blob file %q: %w", key, err)
		}
	}
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	if s.dir != "" {
		if err := os.Remove(s.filePath(key)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove blob file %q: %w", key, err)
		}
	}
	return nil
}

func (s *MemoryStore) filePath(key string) string {
	// Keys are fixed constants, but keep filenames safe anyway.
	name := strings.ReplaceAll(key, string(filepath.Separator), "_")
	return filepath.Join(s.dir, name+".json")
}
