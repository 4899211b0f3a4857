package services

import (
	"context"
	"strings"
	"testing"

	"tally/internal/blob"
	"tally/internal/core"
	"tally/internal/store"
)

func newEvaluatorWithLimit(t *testing.T, limitCents int64, threshold float64) (*AlertEvaluator, *store.SettingsStore) {
	t.Helper()
	settings := store.NewSettingsStore(blob.NewMemoryStore())
	_, err := settings.AddBudgetLimit(context.Background(), core.BudgetLimit{
		Category:              core.CategoryFood,
		Limit:                 core.Money{Cents: limitCents},
		Period:                core.Monthly,
		NotificationThreshold: threshold,
		Active:                true,
	})
	if err != nil {
		t.Fatalf("add limit: %v", err)
	}
	return NewAlertEvaluator(settings), settings
}

func summaryWithFoodSpend(cents int64) core.Summary {
	return core.Summary{
		TotalExpenses: core.Money{Cents: cents},
		ByCategory:    map[core.Category]core.Money{core.CategoryFood: {Cents: cents}},
	}
}

func TestEvaluateThresholdBoundaries(t *testing.T) {
	// Limit $100, threshold 80%.
	tests := []struct {
		name         string
		spentCents   int64
		wantAlerts   int
		wantSeverity core.Severity
	}{
		{"below threshold", 7900, 0, ""},
		{"at threshold", 8000, 1, core.SeverityWarning},
		{"danger band", 9000, 1, core.SeverityDanger},
		{"at limit", 10000, 1, core.SeverityCritical},
		{"over limit", 12500, 1, core.SeverityCritical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eval, _ := newEvaluatorWithLimit(t, 10000, 80)
			alerts, err := eval.Evaluate(context.Background(), summaryWithFoodSpend(tt.spentCents))
			if err != nil {
				t.Fatalf("evaluate: %v", err)
			}
			if len(alerts) != tt.wantAlerts {
				t.Fatalf("got %d alerts, want %d", len(alerts), tt.wantAlerts)
			}
			if tt.wantAlerts == 1 && alerts[0].Severity != tt.wantSeverity {
				t.Errorf("severity = %q, want %q", alerts[0].Severity, tt.wantSeverity)
			}
		})
	}
}

func TestEvaluateMessages(t *testing.T) {
	eval, _ := newEvaluatorWithLimit(t, 10000, 80)
	ctx := context.Background()

	alerts, _ := eval.Evaluate(ctx, summaryWithFoodSpend(12500))
	if len(alerts) != 1 || !strings.Contains(alerts[0].Message, "exceeded") ||
		!strings.Contains(alerts[0].Message, "25.00") {
		t.Errorf("critical message = %q", alerts[0].Message)
	}
	if alerts[0].Percentage != 125 {
		t.Errorf("percentage = %d, want 125", alerts[0].Percentage)
	}

	alerts, _ = eval.Evaluate(ctx, summaryWithFoodSpend(9200))
	if len(alerts) != 1 || !strings.Contains(alerts[0].Message, "Only $8.00 remaining") {
		t.Errorf("danger message = %q", alerts[0].Message)
	}

	alerts, _ = eval.Evaluate(ctx, summaryWithFoodSpend(8500))
	if len(alerts) != 1 || !strings.Contains(alerts[0].Message, "used 85%") ||
		!strings.Contains(alerts[0].Message, "$15.00 remaining") {
		t.Errorf("warning message = %q", alerts[0].Message)
	}
}

func TestEvaluateSkipsInactiveLimits(t *testing.T) {
	settings := store.NewSettingsStore(blob.NewMemoryStore())
	added, _ := settings.AddBudgetLimit(context.Background(), core.BudgetLimit{
		Category:              core.CategoryFood,
		Limit:                 core.Money{Cents: 10000},
		Period:                core.Monthly,
		NotificationThreshold: 80,
		Active:                true,
	})
	added.Active = false
	settings.UpdateBudgetLimit(context.Background(), added.ID, added)

	eval := NewAlertEvaluator(settings)
	alerts, err := eval.Evaluate(context.Background(), summaryWithFoodSpend(20000))
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if len(alerts) != 0 {
		t.Errorf("inactive limit produced alerts: %+v", alerts)
	}
}

func TestEvaluateDisabledReminders(t *testing.T) {
	eval, settings := newEvaluatorWithLimit(t, 10000, 80)
	ctx := context.Background()

	current, _ := settings.Get(ctx)
	current.BudgetReminders = false
	settings.Save(ctx, current)

	alerts, err := eval.Evaluate(ctx, summaryWithFoodSpend(20000))
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if alerts != nil {
		t.Errorf("expected nil alerts with reminders off, got %+v", alerts)
	}
}

func TestDismissAndReappear(t *testing.T) {
	eval, _ := newEvaluatorWithLimit(t, 10000, 80)
	ctx := context.Background()

	alerts, _ := eval.Evaluate(ctx, summaryWithFoodSpend(9500))
	if len(alerts) != 1 {
		t.Fatalf("expected one alert")
	}

	eval.DismissAlert(alerts[0].ID)
	if len(eval.Active()) != 0 {
		t.Fatalf("alert not dismissed")
	}

	// Dismissal is not remembered; the next evaluation regenerates.
	alerts, _ = eval.Evaluate(ctx, summaryWithFoodSpend(9500))
	if len(alerts) != 1 || len(eval.Active()) != 1 {
		t.Fatalf("alert did not reappear after re-evaluation")
	}

	eval.ClearAll()
	if len(eval.Active()) != 0 {
		t.Fatalf("clear all left alerts behind")
	}
}

func TestSubscribeNotifiesOnChange(t *testing.T) {
	eval, _ := newEvaluatorWithLimit(t, 10000, 80)
	ctx := context.Background()

	var calls [][]core.BudgetAlert
	unsubscribe := eval.Subscribe(func(alerts []core.BudgetAlert) {
		calls = append(calls, alerts)
	})

	eval.Evaluate(ctx, summaryWithFoodSpend(9500))
	if len(calls) != 1 || len(calls[0]) != 1 {
		t.Fatalf("subscriber not notified on evaluate: %v", calls)
	}

	eval.ClearAll()
	if len(calls) != 2 || len(calls[1]) != 0 {
		t.Fatalf("subscriber not notified on clear: %v", calls)
	}

	unsubscribe()
	eval.Evaluate(ctx, summaryWithFoodSpend(9500))
	if len(calls) != 2 {
		t.Fatalf("unsubscribed callback still invoked")
	}
}
