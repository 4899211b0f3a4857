// Package services holds the business logic that sits between the stores
// and the transport layer: summarizing records, evaluating budget limits,
// materializing recurring expenses and generating saving suggestions.
package services

import (
	"context"
	"fmt"
	"time"

	"tally/internal/core"
	"tally/internal/store"
)

const trendMonths = 6

// Aggregator computes summaries over the full record set. Every call
// recomputes from scratch; callers that need cheap repeated reads cache
// at their own boundary.
type Aggregator struct {
	records *store.RecordStore
}

func NewAggregator(records *store.RecordStore) *Aggregator {
	return &Aggregator{records: records}
}

// Summarize aggregates records in the given range, both ends inclusive.
// A nil start or end selects the current calendar month. The trend always
// covers the trailing six calendar months ending at the current one,
// regardless of the requested range.
func (a *Aggregator) Summarize(ctx context.Context, start, end *time.Time) (core.Summary, error) {
	records, err := a.records.GetAll(ctx)
	if err != nil {
		return core.Summary{}, fmt.Errorf("summarize: %w", err)
	}

	now := time.Now()
	from, to := monthWindow(now)
	if start != nil && end != nil {
		from, to = *start, *end
	}

	summary := core.Summary{
		ByCategory: map[core.Category]core.Money{},
		Trend:      make([]core.TrendPoint, 0, trendMonths),
	}

	for _, r := range records {
		if !inRange(r.Date, from, to) {
			continue
		}
		switch r.Kind {
		case core.KindIncome:
			summary.TotalIncome.Cents += r.Amount.Cents
		case core.KindExpense:
			summary.TotalExpenses.Cents += r.Amount.Cents
			spent := summary.ByCategory[r.Category]
			spent.Cents += r.Amount.Cents
			summary.ByCategory[r.Category] = spent
		}
	}
	summary.Net = core.Money{Cents: summary.TotalIncome.Cents - summary.TotalExpenses.Cents}

	// Oldest month first, current month last.
	for i := trendMonths - 1; i >= 0; i-- {
		first := time.Date(now.Year(), now.Month()-time.Month(i), 1, 0, 0, 0, 0, now.Location())
		mFrom, mTo := monthWindow(first)

		point := core.TrendPoint{Label: first.Format("Jan 2006")}
		for _, r := range records {
			if !inRange(r.Date, mFrom, mTo) {
				continue
			}
			switch r.Kind {
			case core.KindIncome:
				point.Income.Cents += r.Amount.Cents
			case core.KindExpense:
				point.Expenses.Cents += r.Amount.Cents
			}
		}
		summary.Trend = append(summary.Trend, point)
	}

	return summary, nil
}

// monthWindow returns the inclusive bounds of the calendar month
// containing t.
func monthWindow(t time.Time) (time.Time, time.Time) {
	from := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	to := from.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return from, to
}

func inRange(d, from, to time.Time) bool {
	return !d.Before(from) && !d.After(to)
}
