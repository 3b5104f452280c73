// Package remote is the JSON transport to the record service.
//
// Every request carries JSON Accept and Content-Type headers. Responses
// outside the 2xx range become *apperrors.RemoteError whose message is the
// body's "detail" string when the body is a JSON object carrying one, and the
// raw body text otherwise. A 204 response, or any empty body, decodes
// nothing.
package remote

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

	apperrors "nebibs/internal/platform/errors"
)

// maxBodyBytes bounds how much of a response is read into memory.
const maxBodyBytes = 8 << 20

type Config struct {
	BaseURL string

	// HTTPClient defaults to a client with Timeout.
	HTTPClient *http.Client
	Timeout    time.Duration

	Logger *slog.Logger
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(cfg Config) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("remote: base url is required")
	}
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		return nil, fmt.Errorf("remote: base url must be http or https (got %q)", baseURL)
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{baseURL: baseURL, httpClient: httpClient, logger: logger}, nil
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do sends body (when non-nil) as JSON and decodes the response into out
// (when non-nil and the response has content).
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("remote: encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("remote: build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("remote request failed", "method", method, "path", path, "error", err)
		return &apperrors.RemoteError{Method: method, Path: path, Message: err.Error()}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return &apperrors.RemoteError{Method: method, Path: path, Status: resp.StatusCode, Message: fmt.Sprintf("read response: %v", err)}
	}
	c.logger.Debug("remote request", "method", method, "path", path, "status", resp.StatusCode, "elapsed", time.Since(started))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &apperrors.RemoteError{Method: method, Path: path, Status: resp.StatusCode, Message: errorDetail(raw)}
	}
	if out == nil || resp.StatusCode == http.StatusNoContent || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &apperrors.RemoteError{Method: method, Path: path, Status: resp.StatusCode, Message: fmt.Sprintf("decode response: %v", err)}
	}
	return nil
}

func errorDetail(raw []byte) string {
	text := string(raw)
	var body struct {
		Detail *string `json:"detail"`
	}
	if err := json.Unmarshal(raw, &body); err == nil && body.Detail != nil {
		return *body.Detail
	}
	return text
}
