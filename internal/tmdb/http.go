package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"
)

// getJSON fetches endpoint through the breaker and decodes the body into target.
func (c *Client) getJSON(ctx context.Context, endpoint string, params url.Values, target any) error {
	body, err := c.breaker.Execute(func() ([]byte, error) {
		body, err := c.fetchWithRetry(ctx, c.buildURL(endpoint, params))
		if err != nil && ctx.Err() != nil {
			// Limiter waits can fail ahead of the deadline without wrapping ctx.Err().
			return nil, &UnavailableError{Message: "request cancelled", Err: ctx.Err()}
		}
		return body, err
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return &UnavailableError{Message: "circuit breaker open", Err: err}
		}
		return err
	}

	if err := json.Unmarshal(body, target); err != nil {
		return &UnavailableError{Message: "invalid response body", Err: err}
	}
	return nil
}

func (c *Client) buildURL(endpoint string, params url.Values) string {
	q := url.Values{}
	for k, v := range params {
		q[k] = v
	}
	q.Set("api_key", c.apiKey)
	return c.baseURL + endpoint + "?" + q.Encode()
}

func (c *Client) fetchWithRetry(ctx context.Context, endpoint string) ([]byte, error) {
	var lastErr error
	for attempt := 1; attempt <= c.retryAttempts; attempt++ {
		body, err := c.doRequest(ctx, endpoint)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !isRetryable(err) || attempt == c.retryAttempts {
			break
		}

		slog.Debug("retrying TMDB request", "attempt", attempt, "error", err)
		select {
		case <-ctx.Done():
			return nil, &UnavailableError{Message: "request cancelled", Err: ctx.Err()}
		case <-time.After(c.backoff(attempt)):
		}
	}
	return nil, lastErr
}

func (c *Client) doRequest(ctx context.Context, endpoint string) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &UnavailableError{Message: "rate limit wait", Err: err}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &UnavailableError{Message: "build request", Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &UnavailableError{Message: redactKey(err.Error()), Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &UnavailableError{
			StatusCode: resp.StatusCode,
			Message:    statusMessage(msg),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &UnavailableError{Message: "read response body", Err: err}
	}
	return body, nil
}

// statusMessage extracts TMDB's status_message when the error body is JSON.
func statusMessage(body []byte) string {
	var payload struct {
		StatusMessage string `json:"status_message"`
	}
	if json.Unmarshal(body, &payload) == nil && payload.StatusMessage != "" {
		return payload.StatusMessage
	}
	return strings.TrimSpace(string(body))
}

func isRetryable(err error) bool {
	switch status := statusOf(err); {
	case status == http.StatusTooManyRequests, status >= 500:
		return true
	case status != 0:
		return false
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		if urlErr.Timeout() {
			return true
		}
		// Network errors (connection resets etc.)
		if strings.Contains(urlErr.Error(), "connection") {
			return true
		}
	}
	return false
}

func backoffDelay(attempt int) time.Duration {
	// exponential backoff capped at 10 seconds
	delay := time.Duration(1<<uint(attempt-1)) * time.Second
	if delay > 10*time.Second {
		return 10 * time.Second
	}
	return delay
}

// redactKey keeps the api_key query value out of logged transport errors.
func redactKey(msg string) string {
	i := strings.Index(msg, "api_key=")
	if i < 0 {
		return msg
	}
	end := strings.IndexAny(msg[i:], "&\" ")
	if end < 0 {
		return msg[:i] + "api_key=REDACTED"
	}
	return fmt.Sprintf("%sapi_key=REDACTED%s", msg[:i], msg[i+end:])
}
