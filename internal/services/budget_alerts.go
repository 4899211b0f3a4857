package services

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"tally/internal/core"
	"tally/internal/store"
)

// AlertEvaluator derives budget alerts from a summary and the configured
// limits. The alert set is transient: every evaluation replaces it in
// full, so a dismissed alert reappears on the next evaluation as long as
// the spending still crosses the threshold.
type AlertEvaluator struct {
	settings *store.SettingsStore

	mu      sync.Mutex
	alerts  []core.BudgetAlert
	subs    map[int]func([]core.BudgetAlert)
	nextSub int
}

func NewAlertEvaluator(settings *store.SettingsStore) *AlertEvaluator {
	return &AlertEvaluator{
		settings: settings,
		subs:     map[int]func([]core.BudgetAlert){},
	}
}

// Evaluate checks every active budget limit against the summary and
// replaces the active alert set with the result. Returns nil without
// touching the set when budget reminders are disabled.
func (e *AlertEvaluator) Evaluate(ctx context.Context, summary core.Summary) ([]core.BudgetAlert, error) {
	settings, err := e.settings.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("evaluate budgets: %w", err)
	}
	if !settings.BudgetReminders {
		return nil, nil
	}

	now := time.Now()
	var alerts []core.BudgetAlert
	for _, limit := range settings.BudgetLimits {
		if !limit.Active {
			continue
		}

		spent := summary.Spent(limit.Category)
		var pct float64
		if limit.Limit.Cents > 0 {
			pct = float64(spent.Cents) / float64(limit.Limit.Cents) * 100
		}
		if pct < limit.NotificationThreshold {
			continue
		}

		alerts = append(alerts, core.BudgetAlert{
			ID:         core.AlertID(limit.Category, now),
			Category:   limit.Category,
			Spent:      spent,
			Limit:      limit.Limit,
			Percentage: int(math.Round(pct)),
			Severity:   severity(pct),
			Message:    alertMessage(limit.Category, pct, spent, limit.Limit),
			Timestamp:  now,
		})
	}

	e.mu.Lock()
	e.alerts = alerts
	e.mu.Unlock()
	e.notify()

	slog.InfoContext(ctx, "Budget evaluation complete",
		"limits_checked", len(settings.BudgetLimits),
		"alerts", len(alerts))

	return alerts, nil
}

// Active returns a copy of the current alert set.
func (e *AlertEvaluator) Active() []core.BudgetAlert {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]core.BudgetAlert, len(e.alerts))
	copy(out, e.alerts)
	return out
}

// Subscribe registers a callback invoked with the full alert set after
// every change. The returned function unsubscribes.
func (e *AlertEvaluator) Subscribe(cb func([]core.BudgetAlert)) func() {
	e.mu.Lock()
	id := e.nextSub
	e.nextSub++
	e.subs[id] = cb
	e.mu.Unlock()

	return func() {
		e.mu.Lock()
		delete(e.subs, id)
		e.mu.Unlock()
	}
}

// DismissAlert drops one alert from the transient set. Nothing is
// remembered across evaluations.
func (e *AlertEvaluator) DismissAlert(id string) {
	e.mu.Lock()
	kept := e.alerts[:0:0]
	for _, a := range e.alerts {
		if a.ID != id {
			kept = append(kept, a)
		}
	}
	e.alerts = kept
	e.mu.Unlock()
	e.notify()
}

// ClearAll empties the transient alert set.
func (e *AlertEvaluator) ClearAll() {
	e.mu.Lock()
	e.alerts = nil
	e.mu.Unlock()
	e.notify()
}

func (e *AlertEvaluator) notify() {
	e.mu.Lock()
	current := make([]core.BudgetAlert, len(e.alerts))
	copy(current, e.alerts)
	subs := make([]func([]core.BudgetAlert), 0, len(e.subs))
	for _, cb := range e.subs {
		subs = append(subs, cb)
	}
	e.mu.Unlock()

	for _, cb := range subs {
		cb(current)
	}
}

func severity(pct float64) core.Severity {
	switch {
	case pct >= 100:
		return core.SeverityCritical
	case pct >= 90:
		return core.SeverityDanger
	default:
		return core.SeverityWarning
	}
}

func alertMessage(category core.Category, pct float64, spent, limit core.Money) string {
	remaining := core.Money{Cents: limit.Cents - spent.Cents}
	if remaining.Cents < 0 {
		remaining.Cents = 0
	}

	switch {
	case pct >= 100:
		over := core.Money{Cents: spent.Cents - limit.Cents}
		return fmt.Sprintf("You've exceeded your %s budget by $%s!", category, over)
	case pct >= 90:
		return fmt.Sprintf("Almost at your %s budget limit! Only $%s remaining.", category, remaining)
	default:
		return fmt.Sprintf("You've used %.0f%% of your %s budget. $%s remaining.", pct, category, remaining)
	}
}
