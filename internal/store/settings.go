package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"tally/internal/blob"
	"tally/internal/core"
)

// SettingsStore owns the user settings blob: theme, currency, budget
// limits and recurring expense templates.
type SettingsStore struct {
	mu    sync.Mutex
	blobs blob.Store
}

func NewSettingsStore(blobs blob.Store) *SettingsStore {
	return &SettingsStore{blobs: blobs}
}

// Get returns the stored settings, falling back to defaults when nothing
// has been saved yet.
func (s *SettingsStore) Get(ctx context.Context) (core.UserSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// Save replaces the settings blob.
func (s *SettingsStore) Save(ctx context.Context, settings core.UserSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(ctx, settings)
}

// AddBudgetLimit validates and appends a new budget limit, assigning its id.
func (s *SettingsStore) AddBudgetLimit(ctx context.Context, limit core.BudgetLimit) (core.BudgetLimit, error) {
	if err := limit.Validate(); err != nil {
		return core.BudgetLimit{}, fmt.Errorf("validate budget limit: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	settings, err := s.load(ctx)
	if err != nil {
		return core.BudgetLimit{}, err
	}

	limit.ID = uuid.NewString()
	settings.BudgetLimits = append(settings.BudgetLimits, limit)
	if err := s.save(ctx, settings); err != nil {
		return core.BudgetLimit{}, err
	}

	slog.InfoContext(ctx, "Budget limit added",
		"id", limit.ID,
		"category", limit.Category,
		"limit_cents", limit.Limit.Cents,
		"threshold", limit.NotificationThreshold)

	return limit, nil
}

// UpdateBudgetLimit replaces the limit with the given id, keeping the id.
func (s *SettingsStore) UpdateBudgetLimit(ctx context.Context, id string, limit core.BudgetLimit) error {
	if err := limit.Validate(); err != nil {
		return fmt.Errorf("validate budget limit: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	settings, err := s.load(ctx)
	if err != nil {
		return err
	}

	for i := range settings.BudgetLimits {
		if settings.BudgetLimits[i].ID == id {
			limit.ID = id
			settings.BudgetLimits[i] = limit
			return s.save(ctx, settings)
		}
	}
	return core.ErrLimitNotFound
}

// DeleteBudgetLimit removes the limit with the given id.
func (s *SettingsStore) DeleteBudgetLimit(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings, err := s.load(ctx)
	if err != nil {
		return err
	}

	kept := settings.BudgetLimits[:0:0]
	for _, l := range settings.BudgetLimits {
		if l.ID != id {
			kept = append(kept, l)
		}
	}
	if len(kept) == len(settings.BudgetLimits) {
		return core.ErrLimitNotFound
	}
	settings.BudgetLimits = kept
	return s.save(ctx, settings)
}

// AddRecurringExpense validates and appends a recurring expense template.
func (s *SettingsStore) AddRecurringExpense(ctx context.Context, re core.RecurringExpense) (core.RecurringExpense, error) {
	if err := re.Validate(); err != nil {
		return core.RecurringExpense{}, fmt.Errorf("validate recurring expense: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	settings, err := s.load(ctx)
	if err != nil {
		return core.RecurringExpense{}, err
	}

	re.ID = uuid.NewString()
	settings.RecurringExpenses = append(settings.RecurringExpenses, re)
	if err := s.save(ctx, settings); err != nil {
		return core.RecurringExpense{}, err
	}
	return re, nil
}

// UpdateRecurringExpense replaces the template with the given id.
func (s *SettingsStore) UpdateRecurringExpense(ctx context.Context, id string, re core.RecurringExpense) error {
	if err := re.Validate(); err != nil {
		return fmt.Errorf("validate recurring expense: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	settings, err := s.load(ctx)
	if err != nil {
		return err
	}

	for i := range settings.RecurringExpenses {
		if settings.RecurringExpenses[i].ID == id {
			re.ID = id
			settings.RecurringExpenses[i] = re
			return s.save(ctx, settings)
		}
	}
	return fmt.Errorf("recurring expense %q: %w", id, core.ErrRecordNotFound)
}

// DeleteRecurringExpense removes the template with the given id.
func (s *SettingsStore) DeleteRecurringExpense(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings, err := s.load(ctx)
	if err != nil {
		return err
	}

	kept := settings.RecurringExpenses[:0:0]
	for _, re := range settings.RecurringExpenses {
		if re.ID != id {
			kept = append(kept, re)
		}
	}
	if len(kept) == len(settings.RecurringExpenses) {
		return fmt.Errorf("recurring expense %q: %w", id, core.ErrRecordNotFound)
	}
	settings.RecurringExpenses = kept
	return s.save(ctx, settings)
}

func (s *SettingsStore) load(ctx context.Context) (core.UserSettings, error) {
	raw, found, err := s.blobs.Get(ctx, blob.KeySettings)
	if err != nil {
		return core.UserSettings{}, fmt.Errorf("load settings: %w", err)
	}
	if !found {
		return core.DefaultSettings(), nil
	}

	var settings core.UserSettings
	if err := json.Unmarshal(raw, &settings); err != nil {
		return core.UserSettings{}, fmt.Errorf("decode settings: %w", err)
	}
	return settings, nil
}

func (s *SettingsStore) save(ctx context.Context, settings core.UserSettings) error {
	raw, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := s.blobs.Put(ctx, blob.KeySettings, raw); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}
