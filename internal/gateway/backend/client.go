// Package backend talks to the raffle REST backend.
package backend

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

	"go.uber.org/zap"

	"raffle-storefront/internal/entities"
)

// Config describes the backend endpoint.
type Config struct {
	BaseURL string
	Timeout time.Duration
	Retries int
	// Backoff between GET attempts; defaults to 200ms.
	Backoff time.Duration
}

// APIError is a non-2xx backend response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend status %d: %s", e.Status, e.Message)
}

// Unwrap maps 404 to entities.ErrNotFound and everything else to entities.ErrUpstream.
func (e *APIError) Unwrap() error {
	if e.Status == http.StatusNotFound {
		return entities.ErrNotFound
	}
	return entities.ErrUpstream
}

// Client is a JSON REST client for the backend.
type Client struct {
	baseURL string
	http    *http.Client
	log     *zap.SugaredLogger
	retries int
	backoff time.Duration
}

// New builds a backend client.
func New(cfg Config, log *zap.SugaredLogger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	backoff := cfg.Backoff
	if backoff <= 0 {
		backoff = 200 * time.Millisecond
	}
	retries := cfg.Retries
	if retries < 0 {
		retries = 0
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     log,
		retries: retries,
		backoff: backoff,
	}
}

type messageBody struct {
	Message string `json:"message"`
}

// get performs an idempotent GET with bounded retry on transport errors and 5xx.
func (c *Client) get(ctx context.Context, path string, query url.Values, fallback string, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var err error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.backoff):
			}
			c.log.Debugw("retrying backend request", "path", path, "attempt", attempt, "err", err)
		}
		err = c.do(ctx, http.MethodGet, endpoint, nil, fallback, out)
		if !retryable(ctx, err) {
			return err
		}
	}
	return err
}

func (c *Client) post(ctx context.Context, path string, body any, fallback string, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal body: %w", err)
	}
	return c.do(ctx, http.MethodPost, c.baseURL+path, payload, fallback, out)
}

func (c *Client) do(ctx context.Context, method, endpoint string, payload []byte, fallback string, out any) error {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &transportError{err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &transportError{err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := fallback
		var mb messageBody
		if json.Unmarshal(data, &mb) == nil && mb.Message != "" {
			msg = mb.Message
		}
		return &APIError{Status: resp.StatusCode, Message: msg}
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: decode %s: %v", entities.ErrUpstream, endpoint, err)
	}
	return nil
}

type transportError struct {
	err error
}

func (e *transportError) Error() string { return "backend unreachable: " + e.err.Error() }

func (e *transportError) Unwrap() []error { return []error{entities.ErrUpstream, e.err} }

func retryable(ctx context.Context, err error) bool {
	if err == nil || ctx.Err() != nil {
		return false
	}
	var te *transportError
	if errors.As(err, &te) {
		return true
	}
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status >= http.StatusInternalServerError
}
