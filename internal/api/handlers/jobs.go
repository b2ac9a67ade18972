package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/catherineraj6/lab1-226/internal/scheduler"
	"github.com/catherineraj6/lab1-226/pkg/logger"
)

// JobsHandler exposes the scheduler's jobs over HTTP
// ⭐ SSOT: 작업 API 핸들러는 여기서만
type JobsHandler struct {
	sched  *scheduler.Scheduler
	logger *logger.Logger
}

// NewJobsHandler creates a new jobs handler
func NewJobsHandler(sched *scheduler.Scheduler, log *logger.Logger) *JobsHandler {
	return &JobsHandler{
		sched:  sched,
		logger: log,
	}
}

// GetJobs returns registered jobs with their statistics
// GET /api/jobs
func (h *JobsHandler) GetJobs(w http.ResponseWriter, r *http.Request) {
	stats := h.sched.GetJobStats()

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"jobs": stats,
	})
}

// RunJob triggers a job immediately. The run happens in the background;
// the response only acknowledges the trigger.
// POST /api/jobs/{name}/run
func (h *JobsHandler) RunJob(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	if err := h.sched.RunJob(name); err != nil {
		h.logger.WithError(err).WithField("job", name).Warn("Job trigger failed")
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}

	h.logger.WithField("job", name).Info("Job triggered via API")
	writeJSON(w, http.StatusAccepted, map[string]string{
		"job":    name,
		"status": "triggered",
	})
}

// GetHistory returns a job's in-memory execution history
// GET /api/jobs/{name}/history?limit=10
func (h *JobsHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	history, err := h.sched.GetJobHistory(name)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}

	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"job":     name,
		"results": history.GetLatestResults(limit),
	})
}

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
