// Package remote implements HTTP GET of external feeds and REST endpoints
// with browser-like headers, optional bearer auth and retries.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/repeater/v2"
)

// maxBodySize limits response bodies, GitHub repository lists are the largest payloads
const maxBodySize = 32 * 1024 * 1024

// StatusError is returned for non-200 responses
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code: %d", e.Code)
}

// Options configure the client
type Options struct {
	Timeout    time.Duration
	UserAgent  string
	Retries    int           // additional attempts after the first one
	RetryDelay time.Duration // initial backoff delay
}

// Client fetches remote resources
type Client struct {
	client     *http.Client
	userAgent  string
	retries    int
	retryDelay time.Duration
}

// RequestOption customizes a single request
type RequestOption func(r *http.Request)

// WithBearer sets bearer token authorization
func WithBearer(token string) RequestOption {
	return func(r *http.Request) {
		if token != "" {
			r.Header.Set("Authorization", "Bearer "+token)
		}
	}
}

// WithAccept overrides the Accept header
func WithAccept(accept string) RequestOption {
	return func(r *http.Request) {
		r.Header.Set("Accept", accept)
	}
}

// New creates a client
func New(opts Options) *Client {
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.RetryDelay == 0 {
		opts.RetryDelay = 500 * time.Millisecond
	}
	return &Client{
		client: &http.Client{
			Timeout: opts.Timeout,
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		userAgent:  opts.UserAgent,
		retries:    opts.Retries,
		retryDelay: opts.RetryDelay,
	}
}

// Get fetches the URL and returns the response body. Server errors and network
// failures are retried, client errors (4xx) are returned immediately.
func (c *Client) Get(ctx context.Context, url string, opts ...RequestOption) ([]byte, error) {
	var body []byte
	var clientErr error

	retrier := repeater.NewBackoff(c.retries+1, c.retryDelay, repeater.WithMaxDelay(5*time.Second))
	err := retrier.Do(ctx, func() error {
		b, err := c.fetch(ctx, url, opts...)
		if err != nil {
			var se *StatusError
			if errors.As(err, &se) && se.Code < http.StatusInternalServerError {
				clientErr = err
				return nil
			}
			lgr.Printf("[DEBUG] attempt to fetch %s failed: %v", url, err)
			return err
		}
		body = b
		return nil
	})
	if clientErr != nil {
		return nil, clientErr
	}
	if err != nil {
		return nil, err
	}
	return body, nil
}

// GetJSON fetches the URL and decodes the JSON response into v
func (c *Client) GetJSON(ctx context.Context, url string, v any, opts ...RequestOption) error {
	opts = append([]RequestOption{WithAccept("application/json")}, opts...)
	body, err := c.Get(ctx, url, opts...)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decode json from %s: %w", url, err)
	}
	return nil
}

func (c *Client) fetch(ctx context.Context, url string, opts ...RequestOption) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	addBrowserHeaders(req)
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	for _, opt := range opts {
		opt(req)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{URL: url, Code: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}
