package handlers

import (
	"net/http"
	"strconv"

	"github.com/catherineraj6/lab1-226/internal/scheduler"
	"github.com/catherineraj6/lab1-226/pkg/logger"
)

// RunsHandler exposes persisted pipeline runs. The ledger is optional;
// without one, every request answers 503.
type RunsHandler struct {
	ledger *scheduler.Ledger
	logger *logger.Logger
}

// NewRunsHandler creates a new runs handler. ledger may be nil.
func NewRunsHandler(ledger *scheduler.Ledger, log *logger.Logger) *RunsHandler {
	return &RunsHandler{
		ledger: ledger,
		logger: log,
	}
}

// GetRuns returns recent persisted pipeline runs, newest first
// GET /api/runs?job=daily_ingest&limit=20
func (h *RunsHandler) GetRuns(w http.ResponseWriter, r *http.Request) {
	if h.ledger == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"error": "run ledger not configured",
		})
		return
	}

	job := r.URL.Query().Get("job")

	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	runs, err := h.ledger.Recent(r.Context(), job, limit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to query pipeline runs")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to query runs"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"runs":  runs,
		"count": len(runs),
	})
}
