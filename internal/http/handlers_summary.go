package http

import (
	"fmt"
	"net/http"
	"time"

	"tally/internal/services"
)

const dateLayout = "2006-01-02"

// handleSummary serves the aggregate for an optional date range. Results are
// cached briefly; any record write invalidates the whole cache.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	var start, end *time.Time

	if v := r.URL.Query().Get("start"); v != "" {
		t, err := time.Parse(dateLayout, v)
		if err != nil {
			s.writeError(w, r, http.StatusBadRequest, "invalid start date, want YYYY-MM-DD")
			return
		}
		start = &t
	}
	if v := r.URL.Query().Get("end"); v != "" {
		t, err := time.Parse(dateLayout, v)
		if err != nil {
			s.writeError(w, r, http.StatusBadRequest, "invalid end date, want YYYY-MM-DD")
			return
		}
		// include the whole end day
		t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
		end = &t
	}

	key := summaryCacheKey(start, end)
	if cached, ok := s.summaryCache.Get(key); ok {
		w.Header().Set("X-Cache", "hit")
		s.writeJSON(w, http.StatusOK, cached)
		return
	}

	summary, err := s.aggregator.Summarize(r.Context(), start, end)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}

	s.summaryCache.Set(key, summary)
	w.Header().Set("X-Cache", "miss")
	s.writeJSON(w, http.StatusOK, summary)
}

func summaryCacheKey(start, end *time.Time) string {
	from, to := "current", "current"
	if start != nil {
		from = start.Format(dateLayout)
	}
	if end != nil {
		to = end.Format(dateLayout)
	}
	return fmt.Sprintf("summary:%s:%s", from, to)
}

func (s *Server) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	records, err := s.records.GetAll(r.Context())
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}

	suggestions, err := s.suggestions.Generate(r.Context(), records)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	if suggestions == nil {
		suggestions = []services.SavingSuggestion{}
	}
	s.writeJSON(w, http.StatusOK, suggestions)
}
