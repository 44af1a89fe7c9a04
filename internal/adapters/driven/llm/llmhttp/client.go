// Package llmhttp is the JSON-over-HTTP transport shared by the LLM adapters.
// Requests are retried on network errors, 429 and 5xx responses.
package llmhttp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/custodia-labs/vetdesk/internal/logger"
)

// Default retry settings.
const (
	DefaultAttempts = 3
	DefaultDelay    = 500 * time.Millisecond
)

// StatusError is a non-2xx response.
type StatusError struct {
	Provider string
	Status   int
	Body     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: API returned status %d: %s", e.Provider, e.Status, e.Body)
}

// Temporary reports whether retrying may succeed.
func (e *StatusError) Temporary() bool {
	return e.Status == http.StatusTooManyRequests || e.Status >= 500
}

// Client posts JSON and decodes JSON replies.
type Client struct {
	Provider string
	HTTP     *http.Client
	Attempts uint
	Delay    time.Duration

	// Header is applied to every request.
	Header http.Header
}

// New creates a client with the default retry policy.
func New(provider string, timeout time.Duration, header http.Header) *Client {
	return &Client{
		Provider: provider,
		HTTP:     &http.Client{Timeout: timeout},
		Attempts: DefaultAttempts,
		Delay:    DefaultDelay,
		Header:   header,
	}
}

// PostJSON sends in as JSON to url and decodes the reply into out.
func (c *Client) PostJSON(ctx context.Context, url string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("%s: marshal request: %w", c.Provider, err)
	}
	return c.do(ctx, http.MethodPost, url, body, out)
}

// Get fetches url and decodes the reply into out, which may be nil.
func (c *Client) Get(ctx context.Context, url string, out any) error {
	return c.do(ctx, http.MethodGet, url, nil, out)
}

func (c *Client) do(ctx context.Context, method, url string, body []byte, out any) error {
	attempts := c.Attempts
	if attempts == 0 {
		attempts = 1
	}
	return retry.Do(
		func() error { return c.once(ctx, method, url, body, out) },
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.Delay(c.Delay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(retryable),
		retry.OnRetry(func(n uint, err error) {
			logger.Debug("%s: retrying %s (attempt %d): %v", c.Provider, url, n+1, err)
		}),
	)
}

func (c *Client) once(ctx context.Context, method, url string, body []byte, out any) error {
	var reader io.Reader = http.NoBody
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return retry.Unrecoverable(fmt.Errorf("%s: create request: %w", c.Provider, err))
	}
	for k, vs := range c.Header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("%s: send request: %w", c.Provider, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: read response: %w", c.Provider, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Provider: c.Provider, Status: resp.StatusCode, Body: truncate(string(data), 512)}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return retry.Unrecoverable(fmt.Errorf("%s: decode response: %w", c.Provider, err))
	}
	return nil
}

func retryable(err error) bool {
	if !retry.IsRecoverable(err) {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Temporary()
	}
	return true
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
