// Package psiapi is the HTTP client for the identity API and the
// appointments API.
package psiapi

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/goccy/go-json"

	"psicocitas-web/internal/config"
	"psicocitas-web/internal/metrics"
)

// ErrNotFound is returned when the backend has no record for the request.
var ErrNotFound = errors.New("psiapi: not found")

// APIError is a non-2xx answer from a backend.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("psiapi: status %d", e.Status)
	}
	return fmt.Sprintf("psiapi: status %d: %s", e.Status, e.Message)
}

// Is lets errors.Is match ErrNotFound for 404 answers.
func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.Status == http.StatusNotFound
}

// Message returns the backend-provided error text of err, or fallback.
func Message(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

type tokenKey struct{}

// WithToken attaches the backend auth token to ctx. Requests made with the
// returned context carry it as a bearer token.
func WithToken(ctx context.Context, token string) context.Context {
	if token == "" {
		return ctx
	}
	return context.WithValue(ctx, tokenKey{}, token)
}

func tokenFrom(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey{}).(string)
	return token
}

// Client talks to both backends.
type Client struct {
	identityURL string
	psiURL      string
	httpClient  *http.Client
}

// NewClient creates a client from the API configuration.
func NewClient(cfg config.APIConfig) *Client {
	return &Client{
		identityURL: strings.TrimRight(cfg.IdentityURL, "/"),
		psiURL:      strings.TrimRight(cfg.PsiURL, "/"),
		httpClient:  &http.Client{Timeout: cfg.Timeout},
	}
}

// errorBody covers the two error shapes the backends use.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// do sends a JSON request and decodes a JSON answer into out. An empty body
// leaves out untouched. endpoint is the metrics label.
func (c *Client) do(ctx context.Context, method, base, path string, query url.Values, in, out interface{}) error {
	endpoint := method + " " + routeLabel(path)

	target := base + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode %s request: %w", endpoint, err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := tokenFrom(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.ObserveUpstream(endpoint, 0)
		slog.Error("upstream request failed", "endpoint", endpoint, "error", err)
		return fmt.Errorf("%s: %w", endpoint, err)
	}
	defer resp.Body.Close()
	metrics.ObserveUpstream(endpoint, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read %s response: %w", endpoint, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		var eb errorBody
		if json.Unmarshal(raw, &eb) == nil {
			apiErr.Message = eb.Error
			if apiErr.Message == "" {
				apiErr.Message = eb.Message
			}
		}
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", endpoint, err)
	}
	return nil
}

// routeLabel collapses numeric path segments so metric labels stay bounded.
func routeLabel(path string) string {
	parts := strings.Split(path, "/")
	for i, p := range parts {
		if p != "" && strings.Trim(p, "0123456789") == "" {
			parts[i] = ":id"
		}
	}
	return strings.Join(parts, "/")
}
