// Package server exposes the triage agent over HTTP. It is a thin boundary:
// request decoding, validation mapping, and response encoding; all analysis
// semantics live in the agent and pipeline packages.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/fraudops/alert-triage/internal/agent"
	"github.com/fraudops/alert-triage/internal/common"
	"github.com/fraudops/alert-triage/internal/model"
)

// maxRequestBodySize bounds analyze request bodies (1MB).
const maxRequestBodySize = 1 << 20

// defaultHistoryLimit is the number of records returned by the history
// endpoints when no limit is given.
const defaultHistoryLimit = 10

// sampleAlert is the fixed built-in alert served by the smoke-test endpoint.
var sampleAlert = model.Alert{
	Timestamp:       "2024-12-16T14:30:00Z",
	Merchant:        "Unknown Online Store",
	Amount:          299.99,
	TransactionType: "Card-Not-Present",
	UserID:          "user_12345",
	AlertID:         "alert_67890",
}

// ExecutionStore is the optional persistence collaborator. When nil, only
// the agent's in-memory history is available.
type ExecutionStore interface {
	SaveExecution(ctx context.Context, record model.ExecutionRecord) error
	ListExecutions(ctx context.Context, limit int) ([]model.ExecutionRecord, error)
}

// Handler serves the triage HTTP API.
type Handler struct {
	agent  *agent.Agent
	store  ExecutionStore
	logger *slog.Logger
}

// NewHandler creates the HTTP handler around a triage agent. store may be nil.
func NewHandler(a *agent.Agent, store ExecutionStore, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{agent: a, store: store, logger: logger}
}

// Router builds the chi router for the triage API.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/analyze", h.handleAnalyze)
		r.Post("/test", h.handleTest)
		r.Get("/agent/status", h.handleAgentStatus)
		r.Get("/agent/history", h.handleAgentHistory)
		r.Get("/executions", h.handleExecutions)
		r.Get("/health", h.handleHealth)
	})

	return r
}

// handleAnalyze runs the pipeline for one alert from the request body.
func (h *Handler) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)

	var alert model.Alert
	if err := json.NewDecoder(r.Body).Decode(&alert); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if err := agent.ValidateAlert(alert); err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.runAndRespond(w, r, alert)
}

// handleTest runs the pipeline against the built-in sample alert.
func (h *Handler) handleTest(w http.ResponseWriter, r *http.Request) {
	h.runAndRespond(w, r, sampleAlert)
}

func (h *Handler) runAndRespond(w http.ResponseWriter, r *http.Request, alert model.Alert) {
	start := time.Now()
	result, record := h.agent.ExecuteRecorded(r.Context(), alert)
	result.ExecutionTimeMs = float64(time.Since(start).Microseconds()) / 1000.0

	h.persist(r.Context(), record)

	// A failed result here means an internal pipeline error; validation
	// failures were rejected before execution.
	status := http.StatusOK
	if result.Status == model.StatusFailed {
		status = http.StatusInternalServerError
	}
	h.writeJSON(w, status, result)
}

// persist records this handler's own run in the store. Each in-flight
// request persists the record it was handed, so concurrent executions
// cannot shadow one another. A nil record means validation rejected the
// alert before an execution started.
func (h *Handler) persist(ctx context.Context, record *model.ExecutionRecord) {
	if h.store == nil || record == nil {
		return
	}
	if err := h.store.SaveExecution(ctx, *record); err != nil {
		h.logger.Error("failed to persist execution", "error", err)
	}
}

// handleAgentStatus exposes the hosting agent's identity and lifecycle state.
func (h *Handler) handleAgentStatus(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, h.agent.Status())
}

// handleAgentHistory returns the last N in-memory execution records.
func (h *Handler) handleAgentHistory(w http.ResponseWriter, r *http.Request) {
	status := h.agent.Status()
	history := h.agent.History(queryLimit(r, defaultHistoryLimit))
	h.writeJSON(w, http.StatusOK, map[string]any{
		"agent_name":        status.Name,
		"execution_history": history,
		"total_executions":  status.ExecutionCount,
	})
}

// handleExecutions returns persisted execution records, newest first.
func (h *Handler) handleExecutions(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		h.writeError(w, http.StatusNotFound, "execution store not configured")
		return
	}
	records, err := h.store.ListExecutions(r.Context(), queryLimit(r, defaultHistoryLimit))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			h.writeError(w, http.StatusNotFound, err.Error())
			return
		}
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"executions": records})
}

// handleHealth reports service liveness and agent state.
func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	status := h.agent.Status()
	h.writeJSON(w, http.StatusOK, map[string]any{
		"status":            "healthy",
		"agent_operational": status.Status != model.StatusFailed,
		"version":           status.Version,
	})
}

func queryLimit(r *http.Request, fallback int) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return fallback
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return fallback
	}
	return limit
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, map[string]string{"status": model.StatusFailed, "error": msg})
}
