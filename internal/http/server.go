// Package http exposes the JSON API: records, summaries, budgets,
// recurring expenses, settings, voice parsing, and the chat assistant.
package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"tally/internal/amqp"
	"tally/internal/cache"
	"tally/internal/chat"
	"tally/internal/core"
	"tally/internal/log"
	"tally/internal/services"
	"tally/internal/store"
)

// Server wires the stores and services behind the HTTP API.
type Server struct {
	records     *store.RecordStore
	settings    *store.SettingsStore
	chat        *chat.Service
	aggregator  *services.Aggregator
	alerts      *services.AlertEvaluator
	suggestions *services.SuggestionEngine
	publisher   *amqp.Client // nil disables alert publishing

	summaryCache *cache.LRUCache[core.Summary]
	cacheManager *cache.Manager
	rateLimiter  *rateLimiter
	logger       *log.Logger
	structured   *log.StructuredLogger

	shutdownOnce sync.Once
}

// Options carries the collaborators a Server needs. Publisher may be nil.
type Options struct {
	Records     *store.RecordStore
	Settings    *store.SettingsStore
	Chat        *chat.Service
	Aggregator  *services.Aggregator
	Alerts      *services.AlertEvaluator
	Suggestions *services.SuggestionEngine
	Publisher   *amqp.Client

	SummaryCacheSize int
	SummaryCacheTTL  time.Duration
	Logger           *log.Logger
}

func NewServer(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(log.DefaultConfig()).WithComponent(log.ComponentHTTP)
	}

	cacheSize := opts.SummaryCacheSize
	if cacheSize < 1 {
		cacheSize = 128
	}
	cacheTTL := opts.SummaryCacheTTL
	if cacheTTL <= 0 {
		cacheTTL = 30 * time.Second
	}

	s := &Server{
		records:      opts.Records,
		settings:     opts.Settings,
		chat:         opts.Chat,
		aggregator:   opts.Aggregator,
		alerts:       opts.Alerts,
		suggestions:  opts.Suggestions,
		publisher:    opts.Publisher,
		summaryCache: cache.NewLRUCache[core.Summary](cacheSize, cacheTTL),
		cacheManager: cache.NewManager(),
		rateLimiter:  newRateLimiter(60, time.Minute),
		logger:       logger,
		structured:   log.NewStructuredLogger(logger),
	}

	s.cacheManager.Register(s.summaryCache)
	s.cacheManager.StartCleanup(time.Minute)

	return s
}

// Handler builds the routed handler with the middleware chain applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("GET /api/records", s.handleListRecords)
	mux.HandleFunc("POST /api/records", s.handleCreateRecord)
	mux.HandleFunc("PUT /api/records/{id}", s.handleUpdateRecord)
	mux.HandleFunc("DELETE /api/records/{id}", s.handleDeleteRecord)
	mux.HandleFunc("GET /api/records/export", s.handleExportRecords)
	mux.HandleFunc("POST /api/records/import", s.handleImportRecords)
	mux.HandleFunc("DELETE /api/records", s.handleClearRecords)

	mux.HandleFunc("GET /api/summary", s.handleSummary)
	mux.HandleFunc("GET /api/suggestions", s.handleSuggestions)

	mux.HandleFunc("GET /api/budgets", s.handleListBudgets)
	mux.HandleFunc("POST /api/budgets", s.handleCreateBudget)
	mux.HandleFunc("PUT /api/budgets/{id}", s.handleUpdateBudget)
	mux.HandleFunc("DELETE /api/budgets/{id}", s.handleDeleteBudget)

	mux.HandleFunc("GET /api/alerts", s.handleListAlerts)
	mux.HandleFunc("POST /api/alerts/evaluate", s.handleEvaluateAlerts)
	mux.HandleFunc("DELETE /api/alerts/{id}", s.handleDismissAlert)
	mux.HandleFunc("DELETE /api/alerts", s.handleClearAlerts)

	mux.HandleFunc("GET /api/recurring", s.handleListRecurring)
	mux.HandleFunc("POST /api/recurring", s.handleCreateRecurring)
	mux.HandleFunc("PUT /api/recurring/{id}", s.handleUpdateRecurring)
	mux.HandleFunc("DELETE /api/recurring/{id}", s.handleDeleteRecurring)

	mux.HandleFunc("GET /api/settings", s.handleGetSettings)
	mux.HandleFunc("PUT /api/settings", s.handleSaveSettings)

	mux.HandleFunc("POST /api/voice/parse", s.handleVoiceParse)

	mux.HandleFunc("POST /api/chat/messages", s.handleChatSend)
	mux.HandleFunc("GET /api/chat/sessions", s.handleChatSessions)
	mux.HandleFunc("POST /api/chat/sessions/{id}/clear", s.handleChatClear)
	mux.HandleFunc("DELETE /api/chat/sessions/{id}", s.handleChatDelete)

	return s.withSecurityHeaders(mux)
}

// Shutdown stops background goroutines. Safe to call more than once.
func (s *Server) Shutdown() {
	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.rateLimiter.stop()
		s.logger.Info("http server background tasks stopped")
	})
}

// invalidateSummaries drops all cached summaries; call after any record write.
func (s *Server) invalidateSummaries() {
	s.summaryCache.Clear()
}

func (s *Server) withSecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := generateRequestID()
		clientIP := extractClientIP(r)

		ctx := log.WithRequestID(r.Context(), requestID)
		r = r.WithContext(ctx)

		w.Header().Set("X-Request-ID", requestID)
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")

		if isMutating(r.Method) && !s.rateLimiter.allow(clientIP) {
			s.logger.WarnContext(ctx, "rate limit exceeded",
				"client_ip", clientIP,
				"method", r.Method,
				"path", r.URL.Path,
			)
			w.Header().Set("Retry-After", "60")
			s.writeError(w, r, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		s.structured.LogHTTPStart(ctx, r, clientIP)

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		s.structured.LogHTTPEnd(ctx, r, rw.statusCode, time.Since(start).Milliseconds(), clientIP)
	})
}

func isMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// responseWriter captures the status code for access logging.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if rw.written {
		return
	}
	rw.written = true
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	rw.written = true
	return rw.ResponseWriter.Write(b)
}

func generateRequestID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(b)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "ok")
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if _, err := s.records.GetAll(r.Context()); err != nil {
		s.writeError(w, r, http.StatusServiceUnavailable, "storage unavailable")
		return
	}
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "ready")
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	if status >= http.StatusInternalServerError {
		s.logger.ErrorContext(r.Context(), "request failed",
			"status", status,
			"method", r.Method,
			"path", r.URL.Path,
			"error", msg,
		)
	}
	s.writeJSON(w, status, errorResponse{Error: msg})
}

// writeStoreError maps domain sentinel errors to HTTP statuses.
func (s *Server) writeStoreError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, core.ErrRecordNotFound),
		errors.Is(err, core.ErrLimitNotFound),
		errors.Is(err, store.ErrSessionNotFound):
		s.writeError(w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrEmptyDescription),
		errors.Is(err, core.ErrInvalidCategory),
		errors.Is(err, core.ErrInvalidKind),
		errors.Is(err, core.ErrInvalidDate),
		errors.Is(err, core.ErrInvalidFrequency),
		errors.Is(err, core.ErrInvalidThreshold):
		s.writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, context.Canceled):
		s.writeError(w, r, 499, "request canceled")
	default:
		s.writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
