package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"tally/internal/core"
	"tally/internal/store"
)

// RecurringProcessor materializes due recurring expense templates into
// real records.
type RecurringProcessor struct {
	settings *store.SettingsStore
	records  *store.RecordStore
}

func NewRecurringProcessor(settings *store.SettingsStore, records *store.RecordStore) *RecurringProcessor {
	return &RecurringProcessor{settings: settings, records: records}
}

// ProcessDue creates a record for every active recurring expense whose
// NextDue has passed, then advances NextDue past now and stamps
// LastProcessed. Failures on one template are logged and skipped so the
// rest still run. Returns the number of records created.
func (p *RecurringProcessor) ProcessDue(ctx context.Context, now time.Time) (int, error) {
	if p.settings == nil || p.records == nil {
		return 0, fmt.Errorf("recurring processor not properly initialized")
	}

	settings, err := p.settings.Get(ctx)
	if err != nil {
		return 0, fmt.Errorf("load recurring expenses: %w", err)
	}

	slog.InfoContext(ctx, "Processing recurring expenses",
		"total", len(settings.RecurringExpenses),
		"processing_date", now.Format("2006-01-02"))

	processed := 0
	for _, re := range settings.RecurringExpenses {
		if !re.Active || re.NextDue.After(now) {
			continue
		}

		record := core.Record{
			Amount:      re.Amount,
			Description: re.Description,
			Category:    re.Category,
			Kind:        core.KindExpense,
			Date:        now,
		}
		if _, err := p.records.Add(ctx, record); err != nil {
			slog.ErrorContext(ctx, "Failed to create record from recurring template",
				"recurring_id", re.ID,
				"description", re.Description,
				"error", err)
			continue
		}

		re.NextDue = NextOccurrence(re.NextDue, re.Frequency, now)
		re.LastProcessed = now
		if err := p.settings.UpdateRecurringExpense(ctx, re.ID, re); err != nil {
			slog.ErrorContext(ctx, "Failed to advance recurring template",
				"recurring_id", re.ID,
				"error", err)
			// The record exists; the template will fire again next run.
			continue
		}

		processed++
		slog.InfoContext(ctx, "Created record from recurring template",
			"recurring_id", re.ID,
			"description", re.Description,
			"amount_cents", re.Amount.Cents,
			"frequency", re.Frequency,
			"next_due", re.NextDue.Format("2006-01-02"))
	}

	slog.InfoContext(ctx, "Recurring expense processing complete",
		"processed", processed,
		"total_checked", len(settings.RecurringExpenses))

	return processed, nil
}

// NextOccurrence advances a due date by whole frequency steps until it
// lands after now. Stepping from the original due date rather than from
// now keeps the schedule anchored: a monthly expense due on the 5th stays
// on the 5th even when the processor runs late.
func NextOccurrence(due time.Time, freq core.Frequency, now time.Time) time.Time {
	next := due
	for !next.After(now) {
		switch freq {
		case core.Daily:
			next = next.AddDate(0, 0, 1)
		case core.Weekly:
			next = next.AddDate(0, 0, 7)
		case core.Monthly:
			next = next.AddDate(0, 1, 0)
		case core.Yearly:
			next = next.AddDate(1, 0, 0)
		default:
			// Unknown frequency; step a day so the loop terminates.
			next = next.AddDate(0, 0, 1)
		}
	}
	return next
}
