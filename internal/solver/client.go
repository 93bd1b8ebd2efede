// Package solver talks to the external optimization backend: it builds the
// request, posts it, validates and decodes the response, and enforces that
// only one run is outstanding at a time.
package solver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/spboyer/siteselect/internal/models"
)

//go:generate go tool mockgen -source=client.go -destination=mock_solver_test.go -package=solver

// DefaultTimeout bounds a single request to the backend.
const DefaultTimeout = 120 * time.Second

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 8 << 20

// Response is a decoded backend answer. Exactly one of Selection and Dataset is
// set, matching the request's mode.
type Response struct {
	Mode      models.Mode
	Selection *models.SelectionResult
	Dataset   *models.DatasetResult
}

// Solver runs one optimization request.
type Solver interface {
	Solve(ctx context.Context, req *Request) (*Response, error)
}

// ClientOptions configures a Client.
type ClientOptions struct {
	HTTPClient *http.Client
	Timeout    time.Duration
	Logger     *slog.Logger
}

// Client is the HTTP Solver.
type Client struct {
	endpoint   string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient returns a Client posting to baseURL + Path.
func NewClient(baseURL string, opts *ClientOptions) *Client {
	if opts == nil {
		opts = &ClientOptions{}
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout == 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		endpoint:   strings.TrimRight(baseURL, "/") + Path,
		httpClient: httpClient,
		logger:     logger,
	}
}

// Endpoint returns the URL requests are posted to.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Solve posts req and decodes the response in req's mode. There is no retry.
func (c *Client) Solve(ctx context.Context, req *Request) (*Response, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	c.logger.Debug("posting optimization request",
		"endpoint", c.endpoint, "criteria", req.Criteria, "budget", req.Budget, "mode", req.Mode(), "candidates", len(req.Costs))

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close() //nolint:errcheck

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &TransportError{StatusCode: 0, Err: fmt.Errorf("reading response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Debug("optimization backend returned error status", "status", resp.StatusCode, "body", truncate(string(data), 200))
		return nil, &TransportError{StatusCode: resp.StatusCode, Err: fmt.Errorf("%s", http.StatusText(resp.StatusCode))}
	}

	return DecodeResponse(req.Mode(), data)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
