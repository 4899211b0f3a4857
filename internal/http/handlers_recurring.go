package http

import (
	"net/http"
	"time"

	"tally/internal/core"
)

type recurringRequest struct {
	Amount      string         `json:"amount"` // decimal string
	Description string         `json:"description"`
	Category    core.Category  `json:"category"`
	Frequency   core.Frequency `json:"frequency"`
	NextDue     time.Time      `json:"next_due"`
	Active      bool           `json:"active"`
}

func (req recurringRequest) toExpense() (core.RecurringExpense, error) {
	cents, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		return core.RecurringExpense{}, core.ErrInvalidAmount
	}
	return core.RecurringExpense{
		Amount:      core.Money{Cents: cents},
		Description: req.Description,
		Category:    req.Category,
		Frequency:   req.Frequency,
		NextDue:     req.NextDue,
		Active:      req.Active,
	}, nil
}

func (s *Server) handleListRecurring(w http.ResponseWriter, r *http.Request) {
	settings, err := s.settings.Get(r.Context())
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	recurring := settings.RecurringExpenses
	if recurring == nil {
		recurring = []core.RecurringExpense{}
	}
	s.writeJSON(w, http.StatusOK, recurring)
}

func (s *Server) handleCreateRecurring(w http.ResponseWriter, r *http.Request) {
	var req recurringRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	re, err := req.toExpense()
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}

	created, err := s.settings.AddRecurringExpense(r.Context(), re)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateRecurring(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req recurringRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	re, err := req.toExpense()
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	re.ID = id

	if err := s.settings.UpdateRecurringExpense(r.Context(), id, re); err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, re)
}

func (s *Server) handleDeleteRecurring(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.settings.DeleteRecurringExpense(r.Context(), id); err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusNoContent, nil)
}
