package amqp

import (
	"encoding/json"
	"time"

	"tally/internal/core"
)

// BudgetAlertEvent carries one evaluation's alert batch to the
// notification worker. The full alert payloads travel with the event
// because alerts are transient and cannot be re-fetched later.
type BudgetAlertEvent struct {
	Alerts    []core.BudgetAlert `json:"alerts"`
	Timestamp time.Time          `json:"timestamp"`
}

func NewBudgetAlertEvent(alerts []core.BudgetAlert) *BudgetAlertEvent {
	return &BudgetAlertEvent{
		Alerts:    alerts,
		Timestamp: time.Now(),
	}
}

func (e *BudgetAlertEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func BudgetAlertEventFromJSON(data []byte) (*BudgetAlertEvent, error) {
	var event BudgetAlertEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, err
	}
	return &event, nil
}
