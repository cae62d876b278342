// ABOUTME: HTTP client factory shared by both backend gateways
// ABOUTME: Bearer-token injection on every request, global 401 side effect on every response

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/skylane/flightdeck/internal/credential"
)

// Policy is the interceptor configuration shared by every backend client.
// Construct one Policy per process and hand it to each NewClient call so
// that token injection and 401 handling behave identically everywhere.
type Policy struct {
	// Credentials is the persisted token store read on every request.
	Credentials *credential.Store

	// OnUnauthorized fires after a 401 response has cleared the
	// credential. The TUI uses it to navigate to the login view. May be
	// nil.
	OnUnauthorized func()

	// HTTPClient overrides the transport. Defaults to http.DefaultClient.
	HTTPClient *http.Client

	// Logger defaults to slog.Default.
	Logger *slog.Logger
}

// Client is a single backend gateway: a base URL plus the shared policy.
type Client struct {
	baseURL string
	policy  *Policy
	logger  *slog.Logger
}

// NewClient creates a gateway for one backend. The base URL is used as-is
// with request paths appended; a trailing slash is trimmed.
func NewClient(baseURL string, policy *Policy) *Client {
	logger := policy.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		policy:  policy,
		logger:  logger.With("component", "api", "backend", baseURL),
	}
}

// BaseURL returns the backend base URL the client was built with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) httpClient() *http.Client {
	if c.policy.HTTPClient != nil {
		return c.policy.HTTPClient
	}
	return http.DefaultClient
}

// get issues a GET and decodes the JSON response into out (may be nil).
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

// post issues a POST with a JSON body and decodes the response into out.
func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

// put issues a PUT with a JSON body and decodes the response into out.
func (c *Client) put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, nil, body, out)
}

// delete issues a DELETE and decodes the response into out.
func (c *Client) delete(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, out)
}

// do performs one request with the shared interception policy applied.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reqBody)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.injectToken(req)

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	return c.handleResponse(resp, out)
}

// Upload sends one file as a multipart form, the only non-JSON request
// shape either backend accepts.
func (c *Client) upload(ctx context.Context, path, fieldName, fileName string, file io.Reader, out any) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile(fieldName, fileName)
	if err != nil {
		return fmt.Errorf("creating form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("copying file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("finalizing form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	c.injectToken(req)

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	return c.handleResponse(resp, out)
}

// injectToken attaches the bearer token when one is persisted. Absence is
// not an error: unauthenticated endpoints exist.
func (c *Client) injectToken(req *http.Request) {
	if token, ok := c.policy.Credentials.Load(); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

// handleResponse applies the response interception policy and decodes the
// body into out on success.
func (c *Client) handleResponse(resp *http.Response, out any) error {
	if resp.StatusCode == http.StatusUnauthorized {
		c.unauthorized(resp.Request)
		return decodeError(resp)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// unauthorized runs the global 401 policy: clear the persisted credential,
// then fire the navigation hook. This happens for any 401 from any call on
// either backend, including background polls.
func (c *Client) unauthorized(req *http.Request) {
	c.logger.Info("unauthorized response, clearing credential",
		"method", req.Method,
		"path", req.URL.Path,
	)

	if err := c.policy.Credentials.Clear(); err != nil {
		c.logger.Warn("clearing credential after 401", "error", err)
	}
	if c.policy.OnUnauthorized != nil {
		c.policy.OnUnauthorized()
	}
}
