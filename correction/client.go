/*
client.go - REST client for the upstream time-correction API

PURPOSE:
  Thin JSON client over the upstream HR API. The wire schema belongs to
  the server; this client only knows the endpoints and how to map
  failures onto the package error taxonomy.

ENDPOINTS:
  POST   /time-corrections           Create
  GET    /time-corrections           List (employee_id, status filters)
  GET    /time-corrections/{id}      Get
  PUT    /time-corrections/{id}      Update (also status transitions)
  DELETE /time-corrections/{id}      Cancel

  Approve/deny are expressed as updates with a status field, matching
  the upstream convention.

ERROR HANDLING:
  Transport failures map to ErrServerUnavailable; HTTP error responses
  are classified by status code with the payload's error message
  attached. No call is retried.

SEE ALSO:
  - errors.go: the taxonomy
  - service.go: caching layer on top of this client
*/
package correction

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Client talks to the upstream time-correction API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the given base URL, e.g.
// "https://hr.example.com/api". A nil httpClient uses a default with a
// 30 second timeout.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{baseURL: baseURL, http: httpClient}
}

// =============================================================================
// OPERATIONS
// =============================================================================

func (c *Client) Create(ctx context.Context, form CreateForm) (*Request, error) {
	var out Request
	if err := c.do(ctx, http.MethodPost, "/time-corrections", form, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) List(ctx context.Context, q ListQuery) ([]*Request, error) {
	path := "/time-corrections"
	params := url.Values{}
	if q.EmployeeID != "" {
		params.Set("employee_id", q.EmployeeID)
	}
	if q.Status != "" {
		params.Set("status", string(q.Status))
	}
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var out []*Request
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Get(ctx context.Context, id string) (*Request, error) {
	var out Request
	if err := c.do(ctx, http.MethodGet, "/time-corrections/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Update(ctx context.Context, id string, form UpdateForm) (*Request, error) {
	var out Request
	if err := c.do(ctx, http.MethodPut, "/time-corrections/"+url.PathEscape(id), form, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Cancel(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/time-corrections/"+url.PathEscape(id), nil, nil)
}

// statusUpdate is the upstream's status-transition payload.
type statusUpdate struct {
	Status      Status `json:"status"`
	ReviewedBy  string `json:"reviewed_by"`
	ReviewNotes string `json:"review_notes,omitempty"`
}

// SetStatus performs an approve/deny transition as a status update.
func (c *Client) SetStatus(ctx context.Context, id string, status Status, reviewer, notes string) (*Request, error) {
	body := statusUpdate{Status: status, ReviewedBy: reviewer, ReviewNotes: notes}
	var out Request
	if err := c.do(ctx, http.MethodPut, "/time-corrections/"+url.PathEscape(id)+"/status", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// =============================================================================
// TRANSPORT
// =============================================================================

// errorPayload is the upstream's error response shape.
type errorPayload struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &APIError{Message: ErrServerUnavailable.Error(), sentinel: ErrServerUnavailable}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var payload errorPayload
		_ = json.NewDecoder(resp.Body).Decode(&payload)
		msg := payload.Error
		if msg == "" {
			msg = payload.Message
		}
		return classifyStatus(resp.StatusCode, msg)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
