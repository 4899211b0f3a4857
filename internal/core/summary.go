package core

// TrendPoint is one month of the six-month trailing trend.
type TrendPoint struct {
	Label    string `json:"month"` // e.g. "Mar 2026"
	Expenses Money  `json:"expenses"`
	Income   Money  `json:"income"`
}

// Summary is the derived aggregate for a date range. It is recomputed in
// full on every request and never stored.
type Summary struct {
	TotalExpenses Money              `json:"total_expenses"`
	TotalIncome   Money              `json:"total_income"`
	Net           Money              `json:"net"` // income minus expenses
	ByCategory    map[Category]Money `json:"expenses_by_category"`
	Trend         []TrendPoint       `json:"monthly_trend"` // oldest first, current month last
}

// Spent returns the expense total for a category, zero when the category
// does not appear in the breakdown.
func (s Summary) Spent(c Category) Money {
	return s.ByCategory[c]
}
