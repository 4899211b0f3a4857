package core

import (
	"fmt"
	"time"
)

// Severity grades how far over a budget threshold the spending is.
type Severity string

const (
	SeverityWarning  Severity = "warning"
	SeverityDanger   Severity = "danger"
	SeverityCritical Severity = "critical"
)

// BudgetAlert describes a crossed budget threshold. Alerts are derived
// from a summary on every evaluation and are never persisted.
type BudgetAlert struct {
	ID         string    `json:"id"`
	Category   Category  `json:"category"`
	Spent      Money     `json:"spent"`
	Limit      Money     `json:"limit"`
	Percentage int       `json:"percentage"`
	Severity   Severity  `json:"severity"`
	Message    string    `json:"message"`
	Timestamp  time.Time `json:"timestamp"`
}

// AlertID builds the transient alert identifier for a category at a
// point in time.
func AlertID(category Category, at time.Time) string {
	return fmt.Sprintf("%s-%d", category, at.UnixMilli())
}
