package webapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/spboyer/siteselect/internal/models"
	"github.com/spboyer/siteselect/internal/solver"
)

// stubSolver answers every request with a canned response.
type stubSolver struct {
	resp    *solver.Response
	err     error
	block   chan struct{}
	started chan struct{}
	calls   int
}

func (s *stubSolver) Solve(ctx context.Context, req *solver.Request) (*solver.Response, error) {
	s.calls++
	if s.started != nil {
		close(s.started)
	}
	if s.block != nil {
		select {
		case <-s.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return s.resp, s.err
}

func genericAnswer(sel ...int) *solver.Response {
	ok := true
	return &solver.Response{Mode: models.ModeGeneric, Selection: &models.SelectionResult{Selection: sel, Success: &ok}}
}

func newTestMux(s solver.Solver) (*http.ServeMux, *solver.Runner) {
	runner := solver.NewRunner(s, nil)
	mux := http.NewServeMux()
	RegisterRoutes(mux, runner, "")
	return mux, runner
}

func postRun(t *testing.T, mux http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/run", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	return resp
}

func TestHandleHealth(t *testing.T) {
	h := NewHandlers(solver.NewRunner(&stubSolver{}, nil), "1.4.0")

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()

	h.HandleHealth(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp HealthResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Status != "ok" {
		t.Errorf("expected status ok, got %q", resp.Status)
	}
	if resp.Version != "1.4.0" {
		t.Errorf("expected version 1.4.0, got %q", resp.Version)
	}
}

func TestHandleHealth_DefaultVersion(t *testing.T) {
	h := NewHandlers(solver.NewRunner(&stubSolver{}, nil), "")

	rec := httptest.NewRecorder()
	h.HandleHealth(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	var resp HealthResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Version != DefaultVersion {
		t.Errorf("expected %q, got %q", DefaultVersion, resp.Version)
	}
}

func TestHandleDatasets(t *testing.T) {
	mux, _ := newTestMux(&stubSolver{})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/datasets", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var infos []DatasetInfo
	if err := json.NewDecoder(rec.Body).Decode(&infos); err != nil {
		t.Fatal(err)
	}
	if len(infos) != 6 {
		t.Fatalf("expected 6 datasets, got %d", len(infos))
	}
	modes := map[string]models.Mode{}
	for _, info := range infos {
		modes[info.Criteria] = info.Mode
		if len(info.Candidates) == 0 {
			t.Errorf("dataset %s has no candidates", info.Criteria)
		}
	}
	if modes["population"] != models.ModeDataset {
		t.Errorf("expected population to use dataset mode, got %q", modes["population"])
	}
	if modes["child_mortality"] != models.ModeGeneric {
		t.Errorf("expected child_mortality to use generic mode, got %q", modes["child_mortality"])
	}
}

func TestHandleDatasetCSV(t *testing.T) {
	mux, _ := newTestMux(&stubSolver{})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/datasets/child_mortality/csv", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("expected text/csv, got %q", ct)
	}
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	if lines[0] != "Location,Impact,Cost,Selected" {
		t.Errorf("unexpected header %q", lines[0])
	}
	if lines[1] != "Hospital A,85,45000,false" {
		t.Errorf("unexpected first row %q", lines[1])
	}
	if len(lines) != 9 {
		t.Errorf("expected 9 lines, got %d", len(lines))
	}
}

func TestHandleDatasetCSV_Unknown(t *testing.T) {
	mux, _ := newTestMux(&stubSolver{})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/datasets/nope/csv", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestHandleRun(t *testing.T) {
	s := &stubSolver{resp: genericAnswer(1, 0, 1, 0, 0, 0, 0, 0)}
	mux, runner := newTestMux(s)

	rec := postRun(t, mux, `{"criteria":"child_mortality","budget":100000}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp RunResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Run == nil || resp.Run.Summary == nil {
		t.Fatal("expected run summary")
	}
	if resp.Run.Summary.TotalCost != 83000 {
		t.Errorf("expected total cost 83000, got %v", resp.Run.Summary.TotalCost)
	}
	if resp.Run.Summary.RemainingBudget != 17000 {
		t.Errorf("expected remaining 17000, got %v", resp.Run.Summary.RemainingBudget)
	}
	if !strings.Contains(resp.CSV, "Hospital A,85,45000,true") {
		t.Errorf("CSV missing selected row:\n%s", resp.CSV)
	}
	if !strings.Contains(resp.Text, "Hospital C") {
		t.Errorf("text missing selected name:\n%s", resp.Text)
	}
	if !strings.Contains(resp.HTML, "<table>") {
		t.Errorf("expected HTML table, got:\n%s", resp.HTML)
	}
	if runner.Latest() == nil || runner.Latest().ID != resp.Run.ID {
		t.Error("expected latest run to be recorded")
	}
}

func TestHandleRun_Errors(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		solver   *stubSolver
		wantCode int
		wantHint bool
		calls    int
	}{
		{
			name:     "malformed body",
			body:     `{"criteria":`,
			solver:   &stubSolver{},
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "zero budget",
			body:     `{"criteria":"child_mortality","budget":0}`,
			solver:   &stubSolver{},
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "unknown criteria",
			body:     `{"criteria":"nope","budget":1000}`,
			solver:   &stubSolver{},
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "transport failure",
			body:     `{"criteria":"child_mortality","budget":1000}`,
			solver:   &stubSolver{err: &solver.TransportError{StatusCode: http.StatusInternalServerError}},
			wantCode: http.StatusBadGateway,
			wantHint: true,
			calls:    1,
		},
		{
			name:     "shape mismatch",
			body:     `{"criteria":"child_mortality","budget":1000}`,
			solver:   &stubSolver{resp: genericAnswer(1, 0)},
			wantCode: http.StatusBadGateway,
			calls:    1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux, runner := newTestMux(tt.solver)

			rec := postRun(t, mux, tt.body)
			if rec.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d: %s", tt.wantCode, rec.Code, rec.Body.String())
			}
			resp := decodeError(t, rec)
			if resp.Code != tt.wantCode {
				t.Errorf("expected body code %d, got %d", tt.wantCode, resp.Code)
			}
			if tt.wantHint && resp.Hint != solver.BackendHint {
				t.Errorf("expected backend hint, got %q", resp.Hint)
			}
			if tt.solver.calls != tt.calls {
				t.Errorf("expected %d solver calls, got %d", tt.calls, tt.solver.calls)
			}
			if runner.Latest() != nil {
				t.Error("failed run must not replace the latest run")
			}
		})
	}
}

func TestHandleRun_InProgress(t *testing.T) {
	s := &stubSolver{
		resp:    genericAnswer(0, 0, 0, 0, 0, 0, 0, 0),
		block:   make(chan struct{}),
		started: make(chan struct{}),
	}
	mux, _ := newTestMux(s)

	done := make(chan *httptest.ResponseRecorder)
	go func() {
		req := httptest.NewRequest(http.MethodPost, "/api/run",
			bytes.NewBufferString(`{"criteria":"child_mortality","budget":100000}`))
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		done <- rec
	}()
	<-s.started

	rec := postRun(t, mux, `{"criteria":"child_mortality","budget":100000}`)
	close(s.block)
	first := <-done

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 while a run is outstanding, got %d", rec.Code)
	}
	if resp := decodeError(t, rec); resp.Error != solver.ErrRunInProgress.Error() {
		t.Errorf("unexpected error %q", resp.Error)
	}
	if first.Code != http.StatusOK {
		t.Fatalf("expected first run to succeed, got %d: %s", first.Code, first.Body.String())
	}
}

func TestHandleLatestRun(t *testing.T) {
	mux, _ := newTestMux(&stubSolver{resp: genericAnswer(0, 0, 0, 0, 0, 0, 0, 0)})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/runs/latest", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 before any run, got %d", rec.Code)
	}

	if rec := postRun(t, mux, `{"criteria":"child_mortality","budget":100000}`); rec.Code != http.StatusOK {
		t.Fatalf("run failed: %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/runs/latest", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp RunResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Run.Status() != models.StatusNoneSelected {
		t.Errorf("expected none_selected, got %q", resp.Run.Status())
	}
	if !strings.Contains(resp.Text, "Zero candidates selected.") {
		t.Errorf("unexpected text:\n%s", resp.Text)
	}
}
