// Package tmdb is a client for the TMDB catalog endpoints the backend mirrors.
package tmdb

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL          = "https://api.themoviedb.org/3"
	defaultMaxAttempts      = 3
	defaultRatePerSecond    = 4 // TMDB allows ~40 requests per 10 seconds
	defaultFailureThreshold = 5
	defaultOpenTimeout      = 30 * time.Second
)

// HTTPDoer is an interface for making HTTP requests.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Client is the TMDB API client. It is safe for concurrent use.
type Client struct {
	apiKey        string
	baseURL       string
	httpClient    HTTPDoer
	limiter       *rate.Limiter
	breaker       *gobreaker.CircuitBreaker[[]byte]
	retryAttempts int
	backoff       func(attempt int) time.Duration
}

// NewClient creates a new TMDB API client.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:        apiKey,
		baseURL:       defaultBaseURL,
		httpClient:    &http.Client{Timeout: 15 * time.Second},
		limiter:       rate.NewLimiter(rate.Limit(defaultRatePerSecond), defaultRatePerSecond),
		breaker:       NewBreaker("tmdb", defaultFailureThreshold, defaultOpenTimeout),
		retryAttempts: defaultMaxAttempts,
		backoff:       backoffDelay,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Option is a functional option for configuring the Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(h HTTPDoer) Option {
	return func(c *Client) {
		if h != nil {
			c.httpClient = h
		}
	}
}

// WithBaseURL sets a custom base URL for the TMDB API.
func WithBaseURL(base string) Option {
	return func(c *Client) {
		if base != "" {
			c.baseURL = strings.TrimSuffix(base, "/")
		}
	}
}

// WithRetryAttempts sets the number of attempts for retryable failures.
func WithRetryAttempts(attempts int) Option {
	return func(c *Client) {
		if attempts > 0 {
			c.retryAttempts = attempts
		}
	}
}

// WithRateLimit caps outbound requests per second. Zero disables limiting.
func WithRateLimit(perSecond int) Option {
	return func(c *Client) {
		if perSecond <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), perSecond)
	}
}

// WithBreaker replaces the default circuit breaker.
func WithBreaker(cb *gobreaker.CircuitBreaker[[]byte]) Option {
	return func(c *Client) {
		if cb != nil {
			c.breaker = cb
		}
	}
}

func withBackoff(fn func(int) time.Duration) Option {
	return func(c *Client) {
		c.backoff = fn
	}
}

// NewBreaker returns a breaker that opens after threshold consecutive upstream
// failures and probes again after openTimeout. Client errors (4xx other than
// 429) and caller cancellation do not count as failures.
func NewBreaker(name string, threshold uint32, openTimeout time.Duration) *gobreaker.CircuitBreaker[[]byte] {
	return gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     openTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return true
			}
			status := statusOf(err)
			return status >= 400 && status < 500 && status != http.StatusTooManyRequests
		},
	})
}
