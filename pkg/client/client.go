// Package client is a small HTTP client for the logstate API.
package client

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

	httpadapter "github.com/aretw0/logstate/pkg/adapters/http"
	"github.com/aretw0/logstate/pkg/domain"
)

// DefaultBaseURL matches the default listen address of logstated serve.
const DefaultBaseURL = "http://127.0.0.1:8000"

// StatusError is returned for non-200 responses.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Code, e.Message)
}

// IsServerFault reports whether err is a 5xx answer, e.g. a poisoned controller.
func IsServerFault(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code >= 500
}

// Client calls a running logstated server.
type Client struct {
	baseURL string
	http    *http.Client
}

type Option func(*Client)

// WithHTTPClient replaces the default http.Client (10s timeout).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// New creates a Client for baseURL. An empty baseURL uses DefaultBaseURL.
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start asks the server to begin logging to path.
func (c *Client) Start(ctx context.Context, path string) (domain.Result, error) {
	body, err := json.Marshal(httpadapter.StartRequest{Path: path})
	if err != nil {
		return domain.Result{}, err
	}
	return c.logging(ctx, http.MethodPost, "/start", body)
}

// Stop asks the server to halt logging.
func (c *Client) Stop(ctx context.Context) (domain.Result, error) {
	return c.logging(ctx, http.MethodPost, "/stop", nil)
}

// Status queries the logging state.
func (c *Client) Status(ctx context.Context) (domain.Result, error) {
	return c.logging(ctx, http.MethodGet, "/status", nil)
}

// Info returns version and diagnostics.
func (c *Client) Info(ctx context.Context) (httpadapter.InfoResponse, error) {
	var info httpadapter.InfoResponse
	err := c.do(ctx, http.MethodGet, "/info", nil, &info)
	return info, err
}

func (c *Client) logging(ctx context.Context, method, path string, body []byte) (domain.Result, error) {
	var resp httpadapter.LoggingResponse
	if err := c.do(ctx, method, path, body, &resp); err != nil {
		return domain.Result{}, err
	}
	return resp.ToResult(), nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr httpadapter.APIError
		msg := resp.Status
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error != "" {
			msg = apiErr.Error
		}
		return &StatusError{Code: resp.StatusCode, Message: msg}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s response: %w", path, err)
	}
	return nil
}
