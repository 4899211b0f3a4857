package core

const (
	ThemeLight  ThemeMode = "light"
	ThemeDark   ThemeMode = "dark"
	ThemeSystem ThemeMode = "system"
)

type (
	// ThemeMode is the user's stated preference.
	ThemeMode string

	// ThemeVariant is the resolved style selection the presentation
	// boundary should apply. Resolution is a pure function; applying the
	// visual side effect is the adapter's concern.
	ThemeVariant string

	// Currency carries a code and its rate relative to USD.
	Currency struct {
		Code string  `json:"code"`
		Rate float64 `json:"rate"`
	}

	// UserSettings is the persisted user configuration blob.
	UserSettings struct {
		Theme              ThemeMode          `json:"theme"`
		Currency           Currency           `json:"currency"`
		BudgetReminders    bool               `json:"budget_reminders"`
		SavingsSuggestions bool               `json:"savings_suggestions"`
		RecurringExpenses  []RecurringExpense `json:"recurring_expenses"`
		BudgetLimits       []BudgetLimit      `json:"budget_limits"`
		Language           string             `json:"language"`
		DateFormat         string             `json:"date_format"`
	}
)

const (
	VariantLight ThemeVariant = "light"
	VariantDark  ThemeVariant = "dark"
)

// DefaultSettings returns the settings written on first use.
func DefaultSettings() UserSettings {
	return UserSettings{
		Theme:              ThemeSystem,
		Currency:           Currency{Code: "USD", Rate: 1},
		BudgetReminders:    true,
		SavingsSuggestions: true,
		RecurringExpenses:  []RecurringExpense{},
		BudgetLimits:       []BudgetLimit{},
		Language:           "en",
		DateFormat:         "MM/DD/YYYY",
	}
}

// ResolveTheme maps a theme preference to the variant to render.
// systemDark reports the platform's dark-mode preference and is only
// consulted for ThemeSystem.
func ResolveTheme(pref ThemeMode, systemDark bool) ThemeVariant {
	switch pref {
	case ThemeDark:
		return VariantDark
	case ThemeLight:
		return VariantLight
	default:
		if systemDark {
			return VariantDark
		}
		return VariantLight
	}
}

// Convert translates an amount between currencies through their USD rates.
func Convert(m Money, from, to Currency) Money {
	if from.Rate == 0 {
		return m
	}
	usd := float64(m.Cents) / from.Rate
	return Money{Cents: int64(usd*to.Rate + 0.5)}
}
