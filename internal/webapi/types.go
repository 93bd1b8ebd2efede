package webapi

import "github.com/spboyer/siteselect/internal/models"

// HealthResponse is the API response for the health check endpoint.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// DatasetInfo describes one built-in sample table.
type DatasetInfo struct {
	Criteria   string             `json:"criteria"`
	Label      string             `json:"label"`
	Mode       models.Mode        `json:"mode"`
	Candidates []models.Candidate `json:"candidates"`
}

// RunRequest is the body of POST /api/run.
type RunRequest struct {
	Criteria string `json:"criteria"`
	Budget   int    `json:"budget"`
}

// RunResponse is a completed run with its rendered views.
type RunResponse struct {
	Run  *models.Run `json:"run"`
	Text string      `json:"text"`
	CSV  string      `json:"csv"`
	HTML string      `json:"html"`
}

// ErrorResponse is the API response for errors.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
	// Hint is shown to the user next to transport failures.
	Hint string `json:"hint,omitempty"`
}
