package services

import (
	"context"
	"fmt"
	"strings"

	"tally/internal/core"
	"tally/internal/store"
)

// SavingSuggestion is a spending-pattern observation with an estimated
// saving. Derived on demand, never stored.
type SavingSuggestion struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	Category        string     `json:"category"`
	PotentialSaving core.Money `json:"potential_saving"`
	Difficulty      string     `json:"difficulty"`
	Kind            string     `json:"type"`
}

// Thresholds for the suggestion rules.
const (
	subscriptionSavingRate = 0.30
	foodSavingRate         = 0.40
	frequentFoodCount      = 15
)

var subscriptionKeywords = []string{"subscription", "netflix", "spotify"}

// SuggestionEngine analyzes expense records for recurring saving
// opportunities.
type SuggestionEngine struct {
	settings *store.SettingsStore
}

func NewSuggestionEngine(settings *store.SettingsStore) *SuggestionEngine {
	return &SuggestionEngine{settings: settings}
}

// Generate returns saving suggestions for the given records, or nil when
// the user has turned suggestions off.
func (g *SuggestionEngine) Generate(ctx context.Context, records []core.Record) ([]SavingSuggestion, error) {
	settings, err := g.settings.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("generate suggestions: %w", err)
	}
	if !settings.SavingsSuggestions {
		return nil, nil
	}

	var suggestions []SavingSuggestion

	var subCount int
	var subTotal int64
	for _, r := range records {
		if r.Kind != core.KindExpense {
			continue
		}
		desc := strings.ToLower(r.Description)
		for _, kw := range subscriptionKeywords {
			if strings.Contains(desc, kw) {
				subCount++
				subTotal += r.Amount.Cents
				break
			}
		}
	}
	if subCount > 0 {
		suggestions = append(suggestions, SavingSuggestion{
			ID:    "sub-review",
			Title: "Review Subscriptions",
			Description: fmt.Sprintf(
				"You have %d subscription-like expenses. Consider canceling unused ones.", subCount),
			Category:        "subscriptions",
			PotentialSaving: core.Money{Cents: int64(float64(subTotal) * subscriptionSavingRate)},
			Difficulty:      "easy",
			Kind:            "subscription",
		})
	}

	var foodCount int
	var foodTotal int64
	for _, r := range records {
		if r.Kind == core.KindExpense && r.Category == core.CategoryFood {
			foodCount++
			foodTotal += r.Amount.Cents
		}
	}
	if foodCount > frequentFoodCount {
		suggestions = append(suggestions, SavingSuggestion{
			ID:              "meal-prep",
			Title:           "Try Meal Prepping",
			Description:     "You eat out frequently. Meal prepping could save you significant money.",
			Category:        string(core.CategoryFood),
			PotentialSaving: core.Money{Cents: int64(float64(foodTotal) * foodSavingRate)},
			Difficulty:      "medium",
			Kind:            "habit",
		})
	}

	return suggestions, nil
}
