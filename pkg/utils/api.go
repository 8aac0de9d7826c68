package utils

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultUserAgent = "pokewall/0.1"
	defaultBackoff   = 500 * time.Millisecond
)

// StatusError reports a response whose status was not 200 OK.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s returned status %d", e.URL, e.StatusCode)
}

// Temporary reports whether the server side failed and a retry may succeed.
func (e *StatusError) Temporary() bool {
	return e.StatusCode >= 500
}

// API issues GET requests relative to a base URL, retrying transport faults and 5xx responses.
type API struct {
	client    *http.Client
	baseURL   *url.URL
	userAgent string
	retries   int
	backoff   time.Duration
}

type Option func(*API)

// WithClient replaces the underlying HTTP client.
func WithClient(client *http.Client) Option {
	return func(a *API) { a.client = client }
}

// WithTimeout sets a per-request timeout on a fresh client.
func WithTimeout(timeout time.Duration) Option {
	return func(a *API) { a.client = &http.Client{Timeout: timeout} }
}

// WithRetries sets how many extra attempts follow a retryable failure.
func WithRetries(retries int, backoff time.Duration) Option {
	return func(a *API) {
		if retries < 0 {
			retries = 0
		}
		a.retries = retries
		a.backoff = backoff
	}
}

// NewAPI builds an API for baseURL. An empty baseURL only accepts absolute references.
func NewAPI(baseURL string, opts ...Option) (*API, error) {
	a := &API{
		client:    http.DefaultClient,
		userAgent: defaultUserAgent,
		backoff:   defaultBackoff,
	}
	if trimmed := strings.TrimSpace(baseURL); trimmed != "" {
		base, err := url.Parse(trimmed)
		if err != nil {
			return nil, fmt.Errorf("parse base url %q: %w", baseURL, err)
		}
		if !base.IsAbs() {
			return nil, fmt.Errorf("base url %q must be absolute", baseURL)
		}
		// keep the last path segment when resolving relative references
		if !strings.HasSuffix(base.Path, "/") {
			base.Path += "/"
		}
		a.baseURL = base
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Open issues a GET for ref and returns the response when the status is 200.
// The caller closes the body.
func (a *API) Open(ctx context.Context, ref string, params url.Values) (*http.Response, error) {
	target, err := a.resolve(ref, params)
	if err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 0; attempt <= a.retries; attempt++ {
		if attempt > 0 {
			if err := sleep(ctx, time.Duration(attempt)*a.backoff); err != nil {
				return nil, err
			}
		}

		resp, err := a.do(ctx, target)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if !retryable(ctx, err) {
			break
		}
	}
	return nil, lastErr
}

// Get reads the full body of a successful GET for ref.
func (a *API) Get(ctx context.Context, ref string, params url.Values) ([]byte, error) {
	resp, err := a.Open(ctx, ref, params)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return body, nil
}

func (a *API) do(ctx context.Context, target string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json, image/*")
	req.Header.Set("User-Agent", a.userAgent)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
		return nil, &StatusError{URL: target, StatusCode: resp.StatusCode}
	}
	return resp, nil
}

func (a *API) resolve(ref string, params url.Values) (string, error) {
	rel, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("parse url %q: %w", ref, err)
	}
	target := rel
	if !rel.IsAbs() {
		if a.baseURL == nil {
			return "", fmt.Errorf("relative url %q without a base url", ref)
		}
		target = a.baseURL.ResolveReference(rel)
	}
	if len(params) > 0 {
		query := target.Query()
		for key, values := range params {
			for _, v := range values {
				query.Add(key, v)
			}
		}
		target.RawQuery = query.Encode()
	}
	return target.String(), nil
}

// retryable reports whether err is a transport fault or a 5xx status.
func retryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Temporary()
	}
	return true
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
