package core

import (
	"errors"
	"strings"
	"time"
)

const (
	KindExpense Kind = "expense"
	KindIncome  Kind = "income"
)

const (
	CategoryFood           Category = "food"
	CategoryTransportation Category = "transportation"
	CategoryEntertainment  Category = "entertainment"
	CategoryUtilities      Category = "utilities"
	CategoryHealthcare     Category = "healthcare"
	CategoryShopping       Category = "shopping"
	CategoryEducation      Category = "education"
	CategoryTravel         Category = "travel"
	CategoryHousing        Category = "housing"
	CategoryInsurance      Category = "insurance"
	CategorySavings        Category = "savings"
	CategoryInvestment     Category = "investment"
	CategoryIncome         Category = "income"
	CategoryOther          Category = "other"
)

const (
	Daily   Frequency = "daily"
	Weekly  Frequency = "weekly"
	Monthly Frequency = "monthly"
	Yearly  Frequency = "yearly"
)

type (
	// Kind is the polarity of a transaction record.
	Kind string

	// Category is one of the fixed closed set of transaction categories.
	Category string

	// Frequency is the repetition period of a recurring expense and the
	// advisory reset period of a budget limit.
	Frequency string

	Money struct {
		Cents int64 `json:"cents"`
	}

	// Record is a single income or expense transaction.
	Record struct {
		ID          string    `json:"id"`
		Amount      Money     `json:"amount"`
		Description string    `json:"description"`
		Category    Category  `json:"category"`
		Kind        Kind      `json:"kind"`
		Date        time.Time `json:"date"`
		CreatedAt   time.Time `json:"created_at"`
		UpdatedAt   time.Time `json:"updated_at"`
	}

	// RecordPatch carries optional field updates for an existing record.
	// Nil fields are left untouched.
	RecordPatch struct {
		Amount      *Money     `json:"amount,omitempty"`
		Description *string    `json:"description,omitempty"`
		Category    *Category  `json:"category,omitempty"`
		Kind        *Kind      `json:"kind,omitempty"`
		Date        *time.Time `json:"date,omitempty"`
	}

	// BudgetLimit is a user-configured per-category spending cap.
	// Period is advisory only; limits are never auto-reset.
	BudgetLimit struct {
		ID                    string    `json:"id"`
		Category              Category  `json:"category"`
		Limit                 Money     `json:"limit"`
		Period                Frequency `json:"period"`
		NotificationThreshold float64   `json:"notification_threshold"`
		Active                bool      `json:"active"`
	}

	// RecurringExpense is a template that materializes into records when due.
	RecurringExpense struct {
		ID            string    `json:"id"`
		Amount        Money     `json:"amount"`
		Description   string    `json:"description"`
		Category      Category  `json:"category"`
		Frequency     Frequency `json:"frequency"`
		NextDue       time.Time `json:"next_due"`
		Active        bool      `json:"active"`
		LastProcessed time.Time `json:"last_processed,omitempty"`
	}
)

// Categories lists every valid category in declaration order.
var Categories = []Category{
	CategoryFood,
	CategoryTransportation,
	CategoryEntertainment,
	CategoryUtilities,
	CategoryHealthcare,
	CategoryShopping,
	CategoryEducation,
	CategoryTravel,
	CategoryHousing,
	CategoryInsurance,
	CategorySavings,
	CategoryInvestment,
	CategoryIncome,
	CategoryOther,
}

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrEmptyDescription = errors.New("empty description")
	ErrInvalidCategory  = errors.New("invalid category")
	ErrInvalidKind      = errors.New("invalid kind")
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidFrequency = errors.New("invalid frequency")
	ErrInvalidThreshold = errors.New("invalid notification threshold")
	ErrRecordNotFound   = errors.New("record not found")
	ErrLimitNotFound    = errors.New("budget limit not found")
)

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

func (k Kind) Valid() bool {
	return k == KindExpense || k == KindIncome
}

func (f Frequency) Valid() bool {
	switch f {
	case Daily, Weekly, Monthly, Yearly:
		return true
	}
	return false
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (r Record) Validate() error {
	if err := r.Amount.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(r.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(r.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if !r.Category.Valid() {
		return ErrInvalidCategory
	}
	if !r.Kind.Valid() {
		return ErrInvalidKind
	}
	if r.Date.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (b BudgetLimit) Validate() error {
	if !b.Category.Valid() {
		return ErrInvalidCategory
	}
	if err := b.Limit.Validate(); err != nil {
		return err
	}
	if !b.Period.Valid() {
		return ErrInvalidFrequency
	}
	if b.NotificationThreshold <= 0 || b.NotificationThreshold > 100 {
		return ErrInvalidThreshold
	}
	return nil
}

func (re RecurringExpense) Validate() error {
	if err := re.Amount.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(re.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(re.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if !re.Category.Valid() {
		return ErrInvalidCategory
	}
	if !re.Frequency.Valid() {
		return ErrInvalidFrequency
	}
	if re.NextDue.IsZero() {
		return ErrInvalidDate
	}
	return nil
}
