package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"
	"unicode/utf8"

	"oras.land/oras-go/v2/registry/remote/retry"
)

const (
	// DefaultMaxAttempts is the total number of attempts per request.
	DefaultMaxAttempts = 3
	// DefaultUserAgent is the User-Agent header sent with requests.
	DefaultUserAgent = "eagle/dev"

	// DialTimeout bounds TCP connect and TLS handshake.
	DialTimeout = 10 * time.Second
	// ResponseHeaderTimeout bounds the wait for response headers once the
	// request is written.
	ResponseHeaderTimeout = 30 * time.Second
	// HeaderPhaseTimeout is the soft ceiling on connect plus headers.
	HeaderPhaseTimeout = 60 * time.Second
	// BodyTimeout bounds reading the full response body.
	BodyTimeout = 120 * time.Second
)

// DefaultBackoff is the fixed wait schedule between attempts. The last entry
// repeats when more attempts than entries are configured.
var DefaultBackoff = []time.Duration{
	350 * time.Millisecond,
	900 * time.Millisecond,
	1500 * time.Millisecond,
}

// sharedTransport is the process-wide connection pool. It is built on first
// use and never mutated afterwards.
var sharedTransport = sync.OnceValue(func() http.RoundTripper {
	base := http.DefaultTransport.(*http.Transport).Clone()
	base.DialContext = (&net.Dialer{
		Timeout:   DialTimeout,
		KeepAlive: 30 * time.Second,
	}).DialContext
	base.TLSHandshakeTimeout = DialTimeout
	base.ResponseHeaderTimeout = ResponseHeaderTimeout

	return &deadlineTransport{
		next:          base,
		headerTimeout: HeaderPhaseTimeout,
		bodyTimeout:   BodyTimeout,
	}
})

// Client issues GET requests with bounded retry on transient failures.
// A Client holds no per-request state and may be shared.
type Client struct {
	base        http.RoundTripper
	userAgent   string
	maxAttempts int
	backoff     []time.Duration
	logger      *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithLogger sets the logger used for retry warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMaxAttempts sets the total number of attempts per request.
func WithMaxAttempts(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxAttempts = n
		}
	}
}

// WithBackoff replaces the wait schedule between attempts.
func WithBackoff(delays ...time.Duration) Option {
	return func(c *Client) {
		if len(delays) > 0 {
			c.backoff = append([]time.Duration(nil), delays...)
		}
	}
}

// WithBaseTransport replaces the shared round tripper. Intended for tests.
func WithBaseTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		if rt != nil {
			c.base = rt
		}
	}
}

// New creates a Client. Without WithBaseTransport all clients share one
// lazily constructed connection pool.
func New(opts ...Option) *Client {
	c := &Client{
		userAgent:   DefaultUserAgent,
		maxAttempts: DefaultMaxAttempts,
		backoff:     DefaultBackoff,
		logger:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.base == nil {
		c.base = sharedTransport()
	}
	return c
}

// Get performs a GET request. The response is returned only for HTTP 200;
// the caller owns and must close its body. Any other final status yields a
// *StatusError, and a transport failure yields a *RequestError.
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	policy := &fixedSchedule{
		label:       "GET " + url,
		maxAttempts: c.maxAttempts,
		backoff:     c.backoff,
		logger:      c.logger,
	}
	client := &http.Client{
		Transport: &retry.Transport{
			Base:   c.base,
			Policy: func() retry.Policy { return policy },
		},
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, &RequestError{URL: url, Attempts: policy.attempts, Err: unwrapURLError(err)}
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, &StatusError{
			URL:        url,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Attempts:   policy.attempts,
		}
	}

	return resp, nil
}

// GetJSON performs a GET request and decodes the body into v.
func (c *Client) GetJSON(ctx context.Context, url string, v any) error {
	resp, err := c.Get(ctx, url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", url, err)
	}
	return nil
}

// GetText performs a GET request and returns the body as UTF-8 text.
func (c *Client) GetText(ctx context.Context, url string) (string, error) {
	resp, err := c.Get(ctx, url)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", url, err)
	}
	if !utf8.Valid(body) {
		return "", fmt.Errorf("read %s: response is not valid UTF-8", url)
	}
	return string(body), nil
}
