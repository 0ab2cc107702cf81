// Package supabase talks to a hosted Supabase project through its PostgREST API.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"streamvault/models"
)

const (
	restPath          = "/rest/v1"
	advertisementsTbl = "advertisement_requests"
	createAdRPC       = "create_advertisement_request"
)

// ErrNotConfigured is returned when the project URL or anon key is missing.
var ErrNotConfigured = errors.New("supabase url or anon key not configured")

// APIError carries a non-2xx PostgREST response.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("supabase: %d %s: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("supabase: %d: %s", e.Status, e.Message)
}

// Client is a minimal PostgREST client scoped to advertisement requests.
type Client struct {
	httpClient *http.Client
	baseURL    string
	anonKey    string
}

// NewClient creates a client for the project at projectURL. Missing
// credentials are reported lazily by each call so the server can still boot.
func NewClient(projectURL, anonKey string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    strings.TrimRight(strings.TrimSpace(projectURL), "/"),
		anonKey:    strings.TrimSpace(anonKey),
	}
}

// SetHTTPClient overrides the transport, mainly for tests.
func (c *Client) SetHTTPClient(hc *http.Client) {
	if hc != nil {
		c.httpClient = hc
	}
}

// Configured reports whether both URL and key are present.
func (c *Client) Configured() bool {
	return c.baseURL != "" && c.anonKey != ""
}

// List returns every advertisement request, newest first.
func (c *Client) List(ctx context.Context) ([]models.AdvertisementRequest, error) {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("order", "created_at.desc")

	var rows []models.AdvertisementRequest
	if err := c.do(ctx, http.MethodGet, advertisementsTbl, q, nil, &rows); err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []models.AdvertisementRequest{}
	}
	return rows, nil
}

// ExistsSince reports whether userIP created a request at or after since.
func (c *Client) ExistsSince(ctx context.Context, userIP string, since time.Time) (bool, error) {
	q := url.Values{}
	q.Set("select", "id")
	q.Set("user_ip", "eq."+userIP)
	q.Set("created_at", "gte."+since.UTC().Format(time.RFC3339Nano))
	q.Set("limit", "1")

	var rows []struct {
		ID string `json:"id"`
	}
	if err := c.do(ctx, http.MethodGet, advertisementsTbl, q, nil, &rows); err != nil {
		return false, err
	}
	return len(rows) > 0, nil
}

// InsertIfNoRecent creates a request through the create_advertisement_request
// database function, which performs the recency check and the insert in one
// transaction. inserted is false when the function declined the request.
func (c *Client) InsertIfNoRecent(ctx context.Context, req models.NewAdvertisementRequest, since time.Time) (models.AdvertisementRequest, bool, error) {
	payload := map[string]any{
		"p_email":       req.Email,
		"p_description": req.Description,
		"p_budget":      req.Budget,
		"p_user_ip":     req.UserIP,
		"p_since":       since.UTC().Format(time.RFC3339Nano),
	}

	var raw json.RawMessage
	if err := c.do(ctx, http.MethodPost, "rpc/"+createAdRPC, nil, payload, &raw); err != nil {
		return models.AdvertisementRequest{}, false, err
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return models.AdvertisementRequest{}, false, nil
	}

	var row struct {
		ID          *string    `json:"id"`
		Email       string     `json:"email"`
		Description string     `json:"description"`
		Budget      float64    `json:"budget"`
		UserIP      string     `json:"user_ip"`
		CreatedAt   *time.Time `json:"created_at"`
		UpdatedAt   *time.Time `json:"updated_at"`
	}
	if err := json.Unmarshal(trimmed, &row); err != nil {
		return models.AdvertisementRequest{}, false, fmt.Errorf("decode created request: %w", err)
	}
	// A NULL composite comes back as an object of nulls.
	if row.ID == nil || *row.ID == "" {
		return models.AdvertisementRequest{}, false, nil
	}

	created := models.AdvertisementRequest{
		ID:          *row.ID,
		Email:       row.Email,
		Description: row.Description,
		Budget:      row.Budget,
		UserIP:      row.UserIP,
	}
	if row.CreatedAt != nil {
		created.CreatedAt = row.CreatedAt.UTC()
	}
	if row.UpdatedAt != nil {
		created.UpdatedAt = row.UpdatedAt.UTC()
	}
	return created, true, nil
}

// Delete removes the request with the given id.
func (c *Client) Delete(ctx context.Context, id string) error {
	q := url.Values{}
	q.Set("id", "eq."+id)
	return c.do(ctx, http.MethodDelete, advertisementsTbl, q, nil, nil)
}

func (c *Client) do(ctx context.Context, method, resource string, query url.Values, body any, out any) error {
	if !c.Configured() {
		return ErrNotConfigured
	}

	endpoint := c.baseURL + restPath + "/" + resource
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("supabase %s %s: %w", method, resource, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeAPIError(resp.StatusCode, respBody)
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Authorization", "Bearer "+c.anonKey)
	req.Header.Set("Accept", "application/json")
	if req.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
}

func decodeAPIError(status int, body []byte) error {
	apiErr := &APIError{Status: status}
	var payload struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		apiErr.Code = payload.Code
		apiErr.Message = payload.Message
	} else {
		apiErr.Message = strings.TrimSpace(string(body))
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(status)
		}
	}
	return apiErr
}
