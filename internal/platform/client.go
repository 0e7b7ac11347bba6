// Package platform talks to the back-office REST API.
package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/felixgeelhaar/backoffice/internal/version"
)

// DefaultBaseURL is used when neither configuration nor BACKOFFICE_API_URL
// names a backend.
const DefaultBaseURL = "http://localhost:8000"

// DefaultTimeout bounds a single request.
const DefaultTimeout = 30 * time.Second

// Endpoints are the API paths the client calls.
type Endpoints struct {
	AdminLogin     string `yaml:"admin_login" json:"admin_login"`
	DeveloperLogin string `yaml:"developer_login" json:"developer_login"`
	Profile        string `yaml:"profile" json:"profile"`
}

// DefaultEndpoints returns the paths served by the back-office API.
func DefaultEndpoints() Endpoints {
	return Endpoints{
		AdminLogin:     "/api/admin/login",
		DeveloperLogin: "/api/developer/login",
		Profile:        "/api/admin/profile",
	}
}

// Client is the back-office API client. Requests go through an
// Authenticator, so a bearer token is attached whenever the token source
// has one.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	endpoints  Endpoints
	timeout    time.Duration
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client. Its transport is wrapped
// by the Authenticator.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTokenSource sets where bearer tokens come from.
func WithTokenSource(ts TokenSource) ClientOption {
	return func(c *Client) {
		c.tokens = ts
	}
}

// WithEndpoints overrides the API paths. Empty fields keep their defaults.
func WithEndpoints(e Endpoints) ClientOption {
	return func(c *Client) {
		if e.AdminLogin != "" {
			c.endpoints.AdminLogin = e.AdminLogin
		}
		if e.DeveloperLogin != "" {
			c.endpoints.DeveloperLogin = e.DeveloperLogin
		}
		if e.Profile != "" {
			c.endpoints.Profile = e.Profile
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// NewClient creates a client for baseURL. An empty baseURL means
// DefaultBaseURL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		endpoints:  DefaultEndpoints(),
		timeout:    DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}

	next := c.httpClient.Transport
	if next == nil {
		next = http.DefaultTransport
	}
	wrapped := *c.httpClient
	wrapped.Transport = NewAuthenticator(c.tokens, next)
	wrapped.Timeout = c.timeout
	c.httpClient = &wrapped
	return c
}

// BaseURL returns the API root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Endpoints returns the configured API paths.
func (c *Client) Endpoints() Endpoints {
	return c.endpoints
}

// doRequest performs an HTTP request. Authentication is added by the transport.
func (c *Client) doRequest(ctx context.Context, method, path string, body interface{}) (*http.Response, error) {
	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Method: method, URL: c.baseURL + path, Err: err}
	}

	return resp, nil
}

// errorResponse is the error body of the API.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// parseResponse decodes a 2xx body into target, or turns anything else into
// an *APIError.
func parseResponse(resp *http.Response, target interface{}) error {
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		apiErr := &APIError{StatusCode: resp.StatusCode, Body: string(body)}

		var errResp errorResponse
		if err := json.Unmarshal(body, &errResp); err == nil {
			apiErr.Message = errResp.Message
			if apiErr.Message == "" {
				apiErr.Message = errResp.Error
			}
		}
		return apiErr
	}

	if target != nil {
		if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// Ping requests the API root and returns the HTTP status. Only a request
// that never got an answer is an error.
func (c *Client) Ping(ctx context.Context) (int, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/", nil)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	return resp.StatusCode, nil
}
