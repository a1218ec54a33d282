// Package server exposes the ledger and process metrics over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/Alias1177/matchforecast/internal/database"
	"github.com/Alias1177/matchforecast/internal/model"
	"github.com/Alias1177/matchforecast/internal/report"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	maxLogLimit  = 500
	summaryLimit = 500
)

// Ledger is the part of the ledger the API reads and reconciles
type Ledger interface {
	RecentLogs(ctx context.Context, limit int) ([]model.LogEntry, error)
	UpdateResult(ctx context.Context, id int64, result string, roi float64) error
}

// Handler serves the ledger API
type Handler struct {
	ledger Ledger
	logger zerolog.Logger
}

// ResultUpdate is the body of a reconciliation request
type ResultUpdate struct {
	Result string  `json:"result"`
	ROI    float64 `json:"roi"`
}

// New creates a Handler over ledger
func New(ledger Ledger) *Handler {
	return &Handler{
		ledger: ledger,
		logger: log.With().Str("component", "http_server").Logger(),
	}
}

// Routes builds the router
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", h.Health)
	r.Handle("/metrics", promhttp.Handler())
	r.Route("/api", func(r chi.Router) {
		r.Get("/logs", h.GetLogs)
		r.Put("/logs/{id}/result", h.PutResult)
		r.Get("/summary", h.GetSummary)
	})
	return r
}

// Health reports liveness
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UTC(),
	})
}

// GetLogs returns the most recent ledger entries, newest first
func (h *Handler) GetLogs(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > maxLogLimit {
			h.errorResponse(w, http.StatusBadRequest, "limit must be between 1 and 500")
			return
		}
		limit = n
	}

	entries, err := h.ledger.RecentLogs(r.Context(), limit)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to read ledger")
		h.errorResponse(w, http.StatusInternalServerError, "Failed to read ledger")
		return
	}
	if entries == nil {
		entries = []model.LogEntry{}
	}

	h.jsonResponse(w, http.StatusOK, entries)
}

// GetSummary returns hit rate and ROI over recent ledger entries
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	entries, err := h.ledger.RecentLogs(r.Context(), summaryLimit)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to read ledger")
		h.errorResponse(w, http.StatusInternalServerError, "Failed to read ledger")
		return
	}

	// RecentLogs is newest first, the summary wants chronological order
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}

	h.jsonResponse(w, http.StatusOK, report.Summarize(entries))
}

// PutResult records the settled outcome of a prediction. Entries can only be
// moved out of PENDING, so the accepted results are WON, LOST and VOID.
func (h *Handler) PutResult(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		h.errorResponse(w, http.StatusBadRequest, "invalid entry id")
		return
	}

	var update ResultUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		h.errorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}
	switch update.Result {
	case model.ResultWon, model.ResultLost, model.ResultVoid:
	default:
		h.errorResponse(w, http.StatusBadRequest, "result must be WON, LOST or VOID")
		return
	}

	if err := h.ledger.UpdateResult(r.Context(), id, update.Result, update.ROI); err != nil {
		if errors.Is(err, database.ErrEntryNotFound) {
			h.errorResponse(w, http.StatusNotFound, "entry not found")
			return
		}
		h.logger.Error().Err(err).Int64("id", id).Msg("Failed to update ledger")
		h.errorResponse(w, http.StatusInternalServerError, "Failed to update ledger")
		return
	}

	h.logger.Info().Int64("id", id).Str("result", update.Result).Float64("roi", update.ROI).Msg("Entry reconciled")
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) jsonResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error().Err(err).Msg("Failed to encode response")
	}
}

func (h *Handler) errorResponse(w http.ResponseWriter, status int, message string) {
	h.jsonResponse(w, status, map[string]string{"error": message})
}
