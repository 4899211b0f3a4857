package http

import (
	"net/http"

	"tally/internal/amqp"
	"tally/internal/core"
)

type budgetLimitRequest struct {
	Category              core.Category  `json:"category"`
	Limit                 string         `json:"limit"` // decimal string
	Period                core.Frequency `json:"period"`
	NotificationThreshold float64        `json:"notification_threshold"`
	Active                bool           `json:"active"`
}

func (req budgetLimitRequest) toLimit() (core.BudgetLimit, error) {
	cents, err := core.ParseDecimalToCents(req.Limit)
	if err != nil {
		return core.BudgetLimit{}, core.ErrInvalidAmount
	}
	return core.BudgetLimit{
		Category:              req.Category,
		Limit:                 core.Money{Cents: cents},
		Period:                req.Period,
		NotificationThreshold: req.NotificationThreshold,
		Active:                req.Active,
	}, nil
}

func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request) {
	settings, err := s.settings.Get(r.Context())
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	limits := settings.BudgetLimits
	if limits == nil {
		limits = []core.BudgetLimit{}
	}
	s.writeJSON(w, http.StatusOK, limits)
}

func (s *Server) handleCreateBudget(w http.ResponseWriter, r *http.Request) {
	var req budgetLimitRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	limit, err := req.toLimit()
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}

	created, err := s.settings.AddBudgetLimit(r.Context(), limit)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateBudget(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req budgetLimitRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	limit, err := req.toLimit()
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	limit.ID = id

	if err := s.settings.UpdateBudgetLimit(r.Context(), id, limit); err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, limit)
}

func (s *Server) handleDeleteBudget(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.settings.DeleteBudgetLimit(r.Context(), id); err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleListAlerts(w http.ResponseWriter, r *http.Request) {
	alerts := s.alerts.Active()
	if alerts == nil {
		alerts = []core.BudgetAlert{}
	}
	s.writeJSON(w, http.StatusOK, alerts)
}

// handleEvaluateAlerts recomputes the current month's alerts and, when a
// broker is configured, publishes the non-empty result.
func (s *Server) handleEvaluateAlerts(w http.ResponseWriter, r *http.Request) {
	summary, err := s.aggregator.Summarize(r.Context(), nil, nil)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}

	alerts, err := s.alerts.Evaluate(r.Context(), summary)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}

	if s.publisher != nil && len(alerts) > 0 {
		event := amqp.NewBudgetAlertEvent(alerts)
		if err := s.publisher.PublishBudgetAlerts(r.Context(), event); err != nil {
			// evaluation already succeeded; report the alerts anyway
			s.logger.ErrorContext(r.Context(), "publish budget alerts", "error", err,
				"alert_count", len(alerts))
		}
	}

	if alerts == nil {
		alerts = []core.BudgetAlert{}
	}
	s.writeJSON(w, http.StatusOK, alerts)
}

func (s *Server) handleDismissAlert(w http.ResponseWriter, r *http.Request) {
	s.alerts.DismissAlert(r.PathValue("id"))
	s.writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleClearAlerts(w http.ResponseWriter, r *http.Request) {
	s.alerts.ClearAll()
	s.writeJSON(w, http.StatusNoContent, nil)
}
