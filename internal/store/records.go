// Package store implements the application stores on top of the blob
// layer. Every store keeps its whole collection under a single blob key
// and re-serializes the full set on each write; fine for one user's data.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"tally/internal/blob"
	"tally/internal/core"
)

// RecordStore holds the transaction records.
type RecordStore struct {
	mu    sync.Mutex
	blobs blob.Store
}

func NewRecordStore(blobs blob.Store) *RecordStore {
	return &RecordStore{blobs: blobs}
}

// GetAll returns every record, decoding the persisted JSON. An absent key
// yields an empty set; a corrupt blob surfaces as an error.
func (s *RecordStore) GetAll(ctx context.Context) ([]core.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// Add assigns an identifier and timestamps, appends the record and
// persists the full set.
func (s *RecordStore) Add(ctx context.Context, draft core.Record) (core.Record, error) {
	if err := draft.Validate(); err != nil {
		return core.Record{}, fmt.Errorf("validate record: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load(ctx)
	if err != nil {
		return core.Record{}, err
	}

	now := time.Now()
	draft.ID = uuid.NewString()
	draft.CreatedAt = now
	draft.UpdatedAt = now

	records = append(records, draft)
	if err := s.save(ctx, records); err != nil {
		return core.Record{}, err
	}

	slog.InfoContext(ctx, "Record added",
		"id", draft.ID,
		"kind", draft.Kind,
		"category", draft.Category,
		"amount_cents", draft.Amount.Cents)

	return draft, nil
}

// Update merges the patch into the record with the given id and refreshes
// its update timestamp. Returns core.ErrRecordNotFound when absent.
func (s *RecordStore) Update(ctx context.Context, id string, patch core.RecordPatch) (core.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load(ctx)
	if err != nil {
		return core.Record{}, err
	}

	for i := range records {
		if records[i].ID != id {
			continue
		}

		updated := records[i]
		if patch.Amount != nil {
			updated.Amount = *patch.Amount
		}
		if patch.Description != nil {
			updated.Description = *patch.Description
		}
		if patch.Category != nil {
			updated.Category = *patch.Category
		}
		if patch.Kind != nil {
			updated.Kind = *patch.Kind
		}
		if patch.Date != nil {
			updated.Date = *patch.Date
		}
		if err := updated.Validate(); err != nil {
			return core.Record{}, fmt.Errorf("validate updated record: %w", err)
		}
		updated.UpdatedAt = time.Now()

		records[i] = updated
		if err := s.save(ctx, records); err != nil {
			return core.Record{}, err
		}
		return updated, nil
	}

	return core.Record{}, core.ErrRecordNotFound
}

// Delete removes the record with the given id. Returns
// core.ErrRecordNotFound when no record matched; the set is untouched.
func (s *RecordStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load(ctx)
	if err != nil {
		return err
	}

	filtered := records[:0:0]
	for _, r := range records {
		if r.ID != id {
			filtered = append(filtered, r)
		}
	}
	if len(filtered) == len(records) {
		return core.ErrRecordNotFound
	}

	if err := s.save(ctx, filtered); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Record deleted", "id", id)
	return nil
}

// ExportAll returns pretty-printed JSON of all records.
func (s *RecordStore) ExportAll(ctx context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	out, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal records: %w", err)
	}
	return out, nil
}

// ImportAll wholesale-replaces the record set when the input parses as a
// JSON array; otherwise it fails without mutating existing state.
func (s *RecordStore) ImportAll(ctx context.Context, data []byte) error {
	var records []core.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return fmt.Errorf("import records: %w", err)
	}
	// "null" unmarshals into a nil slice without error; an empty set is
	// only importable as an actual []
	if records == nil {
		return fmt.Errorf("import records: input is not a JSON array")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.save(ctx, records); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Records imported", "count", len(records))
	return nil
}

// ClearAll resets the store to an empty record set.
func (s *RecordStore) ClearAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(ctx, []core.Record{})
}

func (s *RecordStore) load(ctx context.Context) ([]core.Record, error) {
	raw, found, err := s.blobs.Get(ctx, blob.KeyRecords)
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}
	if !found {
		return []core.Record{}, nil
	}

	var records []core.Record
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}
	if records == nil {
		records = []core.Record{}
	}
	return records, nil
}

func (s *RecordStore) save(ctx context.Context, records []core.Record) error {
	raw, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode records: %w", err)
	}
	if err := s.blobs.Put(ctx, blob.KeyRecords, raw); err != nil {
		return fmt.Errorf("save records: %w", err)
	}
	return nil
}
