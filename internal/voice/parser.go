// Package voice turns free-form transcribed speech into a draft expense.
// Parsing is a pure function over the transcript; capturing audio and
// producing the transcript is the caller's platform concern.
package voice

import (
	"regexp"
	"strings"

	"tally/internal/core"
)

// Result is a best-effort extraction from one transcript. Amount and
// Category are nil when nothing matched; Description always carries
// something usable, falling back to the raw transcript.
type Result struct {
	Amount      *core.Money    `json:"amount,omitempty"`
	Description string         `json:"description"`
	Category    *core.Category `json:"category,omitempty"`
	Confidence  float64        `json:"confidence"`
	RawText     string         `json:"raw_text"`
}

// Amount extraction patterns, tried in order; the first match wins.
var amountPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\$(\d+(?:\.\d{2})?)`),
	regexp.MustCompile(`(\d+(?:\.\d{2})?) dollars?`),
	regexp.MustCompile(`(\d+(?:\.\d{2})?) bucks?`),
	regexp.MustCompile(`spent (\d+(?:\.\d{2})?)`),
	regexp.MustCompile(`cost (\d+(?:\.\d{2})?)`),
	regexp.MustCompile(`(\d+(?:\.\d{2})?) on`),
	regexp.MustCompile(`for (\d+(?:\.\d{2})?)`),
}

var (
	amountText  = regexp.MustCompile(`(?i)\$?\d+(?:\.\d{2})?(?:\s*dollars?|\s*bucks?)?`)
	leadingVerb = regexp.MustCompile(`(?i)^(spent|paid|bought|purchased|cost)\s*`)
	connectors  = regexp.MustCompile(`(?i)\s*\b(on|for)\b\s*`)
)

// categoryKeywords is an ordered list so that when a transcript mentions
// keywords from several categories, the winner is always the same.
var categoryKeywords = []struct {
	category core.Category
	keywords []string
}{
	{core.CategoryFood, []string{"food", "restaurant", "lunch", "dinner", "breakfast", "coffee", "snack", "grocery", "groceries", "pizza", "burger", "meal"}},
	{core.CategoryTransportation, []string{"gas", "fuel", "uber", "lyft", "taxi", "bus", "train", "subway", "parking", "car", "transportation"}},
	{core.CategoryEntertainment, []string{"movie", "cinema", "concert", "game", "gaming", "netflix", "spotify", "entertainment", "fun", "party"}},
	{core.CategoryUtilities, []string{"electricity", "water", "gas bill", "internet", "phone", "utilities", "bill"}},
	{core.CategoryHealthcare, []string{"doctor", "hospital", "medicine", "pharmacy", "health", "medical", "dentist"}},
	{core.CategoryShopping, []string{"clothes", "shirt", "shoes", "shopping", "amazon", "store", "mall", "purchase"}},
	{core.CategoryEducation, []string{"school", "course", "book", "education", "learning", "university", "college"}},
	{core.CategoryTravel, []string{"hotel", "flight", "vacation", "trip", "travel", "booking", "airbnb"}},
	{core.CategoryHousing, []string{"rent", "mortgage", "house", "apartment", "home", "housing"}},
	{core.CategoryInsurance, []string{"insurance", "premium", "policy"}},
	{core.CategorySavings, []string{"save", "saving", "savings", "deposit"}},
	{core.CategoryInvestment, []string{"stock", "investment", "portfolio", "trading"}},
	{core.CategoryIncome, []string{"salary", "income", "paycheck", "earned", "bonus"}},
	{core.CategoryOther, []string{"other", "miscellaneous", "misc"}},
}

// Parse extracts an amount, category and cleaned description from a
// transcript. Confidence is passed through untouched.
func Parse(transcript string, confidence float64) Result {
	lower := strings.ToLower(transcript)

	var amount *core.Money
	for _, p := range amountPatterns {
		m := p.FindStringSubmatch(lower)
		if m == nil {
			continue
		}
		if cents, err := core.ParseDecimalToCents(m[1]); err == nil {
			amount = &core.Money{Cents: cents}
		}
		break
	}

	category := extractCategory(lower)

	description := transcript
	if amount != nil {
		description = strings.TrimSpace(amountText.ReplaceAllString(description, ""))
	}
	description = strings.TrimSpace(leadingVerb.ReplaceAllString(description, ""))
	description = strings.TrimSpace(connectors.ReplaceAllString(description, " "))
	if description == "" {
		description = transcript
	}

	return Result{
		Amount:      amount,
		Description: description,
		Category:    category,
		Confidence:  confidence,
		RawText:     transcript,
	}
}

func extractCategory(lower string) *core.Category {
	for _, entry := range categoryKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				c := entry.category
				return &c
			}
		}
	}
	return nil
}
