package webapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/spboyer/siteselect/internal/dataset"
	"github.com/spboyer/siteselect/internal/models"
	"github.com/spboyer/siteselect/internal/report"
	"github.com/spboyer/siteselect/internal/solver"
	"github.com/spboyer/siteselect/internal/summary"
)

// DefaultVersion is reported when no build version is supplied.
const DefaultVersion = "dev"

// maxRequestBytes caps POST bodies.
const maxRequestBytes = 64 << 10

// RunExecutor runs optimization jobs one at a time.
type RunExecutor interface {
	Execute(ctx context.Context, job solver.Job) (*models.Run, error)
	Latest() *models.Run
}

// Handlers holds the HTTP handler methods for the web API.
type Handlers struct {
	runs    RunExecutor
	version string
}

// NewHandlers creates a new Handlers backed by runs. version is reported by
// the health check.
func NewHandlers(runs RunExecutor, version string) *Handlers {
	if version == "" {
		version = DefaultVersion
	}
	return &Handlers{runs: runs, version: version}
}

// HandleHealth returns a simple health check response.
func (h *Handlers) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: h.version,
	})
}

// HandleDatasets lists the built-in sample tables.
func (h *Handlers) HandleDatasets(w http.ResponseWriter, _ *http.Request) {
	samples, err := dataset.List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	out := make([]DatasetInfo, 0, len(samples))
	for _, s := range samples {
		out = append(out, DatasetInfo{Criteria: s.Criteria, Label: s.Label, Mode: s.Mode(), Candidates: s.Candidates})
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleDatasetCSV returns the preview table for a sample, nothing selected.
func (h *Handlers) HandleDatasetCSV(w http.ResponseWriter, r *http.Request) {
	s, err := dataset.Lookup(r.PathValue("criteria"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	// Any positive budget will do; the preview does not depend on it.
	inst, err := s.Instance(1)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	out, err := summary.ToCSV(inst, nil)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(out)) //nolint:errcheck
}

// HandleRun executes one optimization run.
func (h *Handlers) HandleRun(w http.ResponseWriter, r *http.Request) {
	var req RunRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	s, err := dataset.Lookup(req.Criteria)
	if err != nil {
		writeRunError(w, err)
		return
	}
	job, err := solver.JobFromSample(s, req.Budget)
	if err != nil {
		writeRunError(w, err)
		return
	}

	run, err := h.runs.Execute(r.Context(), job)
	if err != nil {
		writeRunError(w, err)
		return
	}

	resp, err := renderRun(run)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleLatestRun returns the most recent completed run.
func (h *Handlers) HandleLatestRun(w http.ResponseWriter, _ *http.Request) {
	run := h.runs.Latest()
	if run == nil {
		writeError(w, http.StatusNotFound, "no runs yet")
		return
	}
	resp, err := renderRun(run)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func renderRun(run *models.Run) (*RunResponse, error) {
	csvText, err := report.RunCSV(run)
	if err != nil {
		return nil, err
	}
	html, err := report.HTML(run)
	if err != nil {
		return nil, err
	}
	return &RunResponse{Run: run, Text: report.RunText(run), CSV: csvText, HTML: html}, nil
}

// RegisterRoutes registers all web API routes on the given mux.
func RegisterRoutes(mux *http.ServeMux, runs RunExecutor, version string) {
	h := NewHandlers(runs, version)
	mux.HandleFunc("GET /api/health", h.HandleHealth)
	mux.HandleFunc("GET /api/datasets", h.HandleDatasets)
	mux.HandleFunc("GET /api/datasets/{criteria}/csv", h.HandleDatasetCSV)
	mux.HandleFunc("POST /api/run", h.HandleRun)
	mux.HandleFunc("GET /api/runs/latest", h.HandleLatestRun)
}

func writeRunError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, solver.ErrRunInProgress):
		writeError(w, http.StatusConflict, err.Error())
	case solver.IsTransport(err):
		writeJSON(w, http.StatusBadGateway, ErrorResponse{Error: err.Error(), Code: http.StatusBadGateway, Hint: solver.BackendHint})
	case errors.Is(err, models.ErrShapeMismatch):
		writeError(w, http.StatusBadGateway, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, ErrorResponse{Error: msg, Code: code})
}
