package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultServer is the dispatch service address used when --server is not set.
const DefaultServer = "http://localhost:8080"

// APIError is a non-2xx answer from the dispatch service.
type APIError struct {
	Status  int    `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
}

type Request struct {
	ID        int        `json:"id"`
	From      string     `json:"from"`
	To        string     `json:"to"`
	Status    string     `json:"status"`
	Priority  string     `json:"priority"`
	Requester string     `json:"requester"`
	Porter    string     `json:"porter,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	StartedAt *time.Time `json:"started_at,omitempty"`
}

type Porter struct {
	Porter string `json:"porter"`
	Status string `json:"status"`
}

type Stats struct {
	CompletedTransports  int     `json:"completed_transports"`
	AverageTransportTime float64 `json:"average_transport_time"`
	LogCount             int     `json:"log_count"`
}

type UndoResult struct {
	Request Request `json:"request"`
	Changed bool    `json:"changed"`
}

type RegistryResult struct {
	Porter  string `json:"porter"`
	Changed bool   `json:"changed"`
}

// Client talks to the /api/v1 surface of the dispatch service.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

func (c *Client) Queue(ctx context.Context, all bool) ([]Request, error) {
	path := "/api/v1/requests"
	if all {
		path = "/api/v1/queue"
	}
	var out []Request
	return out, c.do(ctx, http.MethodGet, path, nil, &out)
}

func (c *Client) Porters(ctx context.Context) ([]Porter, error) {
	var out []Porter
	return out, c.do(ctx, http.MethodGet, "/api/v1/porters", nil, &out)
}

func (c *Client) Stats(ctx context.Context) (Stats, error) {
	var out Stats
	return out, c.do(ctx, http.MethodGet, "/api/v1/stats", nil, &out)
}

func (c *Client) CreateRequest(ctx context.Context, from, to, requester string, urgent bool) (Request, error) {
	body := map[string]any{"from": from, "to": to, "requester": requester, "urgent": urgent}
	var out Request
	return out, c.do(ctx, http.MethodPost, "/api/v1/requests", body, &out)
}

// Transition posts pickup, start or finish for porter.
func (c *Client) Transition(ctx context.Context, id int, step, porter string) (Request, error) {
	var out Request
	path := fmt.Sprintf("/api/v1/requests/%d/%s", id, step)
	return out, c.do(ctx, http.MethodPost, path, map[string]string{"porter": porter}, &out)
}

func (c *Client) Cancel(ctx context.Context, id int, actor string) (Request, error) {
	var out Request
	path := fmt.Sprintf("/api/v1/requests/%d/cancel", id)
	return out, c.do(ctx, http.MethodPost, path, map[string]string{"actor": actor}, &out)
}

func (c *Client) CancelPickup(ctx context.Context, id int) (Request, error) {
	var out Request
	return out, c.do(ctx, http.MethodPost, fmt.Sprintf("/api/v1/requests/%d/cancel-pickup", id), nil, &out)
}

func (c *Client) Undo(ctx context.Context, id int) (UndoResult, error) {
	var out UndoResult
	return out, c.do(ctx, http.MethodPost, fmt.Sprintf("/api/v1/requests/%d/undo", id), nil, &out)
}

// Registry posts sign-in or sign-out for porter.
func (c *Client) Registry(ctx context.Context, action, porter string) (RegistryResult, error) {
	var out RegistryResult
	path := "/api/v1/porters/" + action
	return out, c.do(ctx, http.MethodPost, path, map[string]string{"porter": porter}, &out)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach %s: %w", c.baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{Status: resp.StatusCode}
		if decodeErr := json.NewDecoder(resp.Body).Decode(apiErr); decodeErr != nil || apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		apiErr.Status = resp.StatusCode
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err = json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
