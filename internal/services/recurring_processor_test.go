package services

import (
	"context"
	"testing"
	"time"

	"tally/internal/blob"
	"tally/internal/core"
	"tally/internal/store"
)

func TestProcessDueCreatesRecordAndAdvances(t *testing.T) {
	blobs := blob.NewMemoryStore()
	settings := store.NewSettingsStore(blobs)
	records := store.NewRecordStore(blobs)
	ctx := context.Background()

	due := time.Date(2026, 8, 5, 0, 0, 0, 0, time.UTC)
	added, err := settings.AddRecurringExpense(ctx, core.RecurringExpense{
		Amount:      core.Money{Cents: 1599},
		Description: "streaming subscription",
		Category:    core.CategoryEntertainment,
		Frequency:   core.Monthly,
		NextDue:     due,
		Active:      true,
	})
	if err != nil {
		t.Fatalf("add recurring: %v", err)
	}

	now := time.Date(2026, 8, 10, 9, 0, 0, 0, time.UTC)
	p := NewRecurringProcessor(settings, records)
	n, err := p.ProcessDue(ctx, now)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if n != 1 {
		t.Fatalf("processed = %d, want 1", n)
	}

	all, _ := records.GetAll(ctx)
	if len(all) != 1 {
		t.Fatalf("got %d records, want 1", len(all))
	}
	r := all[0]
	if r.Description != "streaming subscription" || r.Amount.Cents != 1599 ||
		r.Category != core.CategoryEntertainment || r.Kind != core.KindExpense {
		t.Fatalf("materialized record wrong: %+v", r)
	}

	current, _ := settings.Get(ctx)
	re := current.RecurringExpenses[0]
	wantNext := time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC)
	if !re.NextDue.Equal(wantNext) {
		t.Errorf("next due = %v, want %v", re.NextDue, wantNext)
	}
	if !re.LastProcessed.Equal(now) {
		t.Errorf("last processed = %v, want %v", re.LastProcessed, now)
	}
	_ = added

	// A second run before the new due date is a no-op.
	n, err = p.ProcessDue(ctx, now)
	if err != nil {
		t.Fatalf("process again: %v", err)
	}
	if n != 0 {
		t.Fatalf("second run processed %d, want 0", n)
	}
}

func TestProcessDueSkipsInactiveAndFuture(t *testing.T) {
	blobs := blob.NewMemoryStore()
	settings := store.NewSettingsStore(blobs)
	records := store.NewRecordStore(blobs)
	ctx := context.Background()

	now := time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)
	settings.AddRecurringExpense(ctx, core.RecurringExpense{
		Amount:      core.Money{Cents: 1000},
		Description: "paused gym",
		Category:    core.CategoryHealthcare,
		Frequency:   core.Monthly,
		NextDue:     now.AddDate(0, -1, 0),
		Active:      false,
	})
	settings.AddRecurringExpense(ctx, core.RecurringExpense{
		Amount:      core.Money{Cents: 2000},
		Description: "not due yet",
		Category:    core.CategoryUtilities,
		Frequency:   core.Monthly,
		NextDue:     now.AddDate(0, 1, 0),
		Active:      true,
	})

	n, err := NewRecurringProcessor(settings, records).ProcessDue(ctx, now)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if n != 0 {
		t.Fatalf("processed = %d, want 0", n)
	}
	all, _ := records.GetAll(ctx)
	if len(all) != 0 {
		t.Fatalf("records created for skipped templates: %+v", all)
	}
}

func TestNextOccurrence(t *testing.T) {
	base := time.Date(2026, 8, 5, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		freq core.Frequency
		now  time.Time
		want time.Time
	}{
		{"daily", core.Daily, base, time.Date(2026, 8, 6, 0, 0, 0, 0, time.UTC)},
		{"weekly", core.Weekly, base, time.Date(2026, 8, 12, 0, 0, 0, 0, time.UTC)},
		{"monthly", core.Monthly, base, time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC)},
		{"yearly", core.Yearly, base, time.Date(2027, 8, 5, 0, 0, 0, 0, time.UTC)},
		{
			// Processor ran late; schedule stays anchored to the 5th.
			"monthly catch-up",
			core.Monthly,
			time.Date(2026, 11, 20, 0, 0, 0, 0, time.UTC),
			time.Date(2026, 12, 5, 0, 0, 0, 0, time.UTC),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextOccurrence(base, tt.freq, tt.now)
			if !got.Equal(tt.want) {
				t.Errorf("NextOccurrence = %v, want %v", got, tt.want)
			}
		})
	}
}
