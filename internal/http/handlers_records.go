package http

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"tally/internal/core"
)

type recordRequest struct {
	Amount      string        `json:"amount"` // decimal string, e.g. "12.34"
	Description string        `json:"description"`
	Category    core.Category `json:"category"`
	Kind        core.Kind     `json:"kind"`
	Date        *time.Time    `json:"date,omitempty"`
}

type recordPatchRequest struct {
	Amount      *string        `json:"amount,omitempty"`
	Description *string        `json:"description,omitempty"`
	Category    *core.Category `json:"category,omitempty"`
	Kind        *core.Kind     `json:"kind,omitempty"`
	Date        *time.Time     `json:"date,omitempty"`
}

func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	records, err := s.records.GetAll(r.Context())
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	if records == nil {
		records = []core.Record{}
	}
	s.writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleCreateRecord(w http.ResponseWriter, r *http.Request) {
	var req recordRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	cents, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, "invalid amount: "+req.Amount)
		return
	}

	date := time.Now()
	if req.Date != nil {
		date = *req.Date
	}

	record, err := s.records.Add(r.Context(), core.Record{
		Amount:      core.Money{Cents: cents},
		Description: req.Description,
		Category:    req.Category,
		Kind:        req.Kind,
		Date:        date,
	})
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}

	s.invalidateSummaries()
	s.structured.LogRecordCreated(r.Context(), record.ID, record.Description,
		record.Amount.Cents, string(record.Category), string(record.Kind))
	s.writeJSON(w, http.StatusCreated, record)
}

func (s *Server) handleUpdateRecord(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req recordPatchRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	patch := core.RecordPatch{
		Description: req.Description,
		Category:    req.Category,
		Kind:        req.Kind,
		Date:        req.Date,
	}
	if req.Amount != nil {
		cents, err := core.ParseDecimalToCents(*req.Amount)
		if err != nil {
			s.writeError(w, r, http.StatusBadRequest, "invalid amount: "+*req.Amount)
			return
		}
		patch.Amount = &core.Money{Cents: cents}
	}

	record, err := s.records.Update(r.Context(), id, patch)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}

	s.invalidateSummaries()
	s.writeJSON(w, http.StatusOK, record)
}

func (s *Server) handleDeleteRecord(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.records.Delete(r.Context(), id); err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	s.invalidateSummaries()
	s.writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleExportRecords(w http.ResponseWriter, r *http.Request) {
	data, err := s.records.ExportAll(r.Context())
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}

	filename := fmt.Sprintf("tally-export-%s.json", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		s.logger.Error("write export", "error", err)
	}
}

func (s *Server) handleImportRecords(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 8<<20))
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, "read body: "+err.Error())
		return
	}

	if err := s.records.ImportAll(r.Context(), data); err != nil {
		s.writeError(w, r, http.StatusBadRequest, "import records: "+err.Error())
		return
	}

	s.invalidateSummaries()
	records, err := s.records.GetAll(r.Context())
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]int{"imported": len(records)})
}

func (s *Server) handleClearRecords(w http.ResponseWriter, r *http.Request) {
	if err := s.records.ClearAll(r.Context()); err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	s.invalidateSummaries()
	s.writeJSON(w, http.StatusNoContent, nil)
}
