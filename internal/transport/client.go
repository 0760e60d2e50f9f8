// Package transport provides the default HTTP implementation of
// rest.Connection.
package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/restkit-io/restkit/pkg/rest"
)

const defaultUserAgent = "restkit/1.0"

// Client performs HTTP exchanges against a single base URL. Redirects are
// never followed and retries are off unless configured, so every call maps
// to one observable round trip.
type Client struct {
	baseURL    string
	username   string
	password   string
	userAgent  string
	timeout    time.Duration
	debug      bool
	logger     rest.Logger
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBasicAuth sets credentials sent with every request.
func WithBasicAuth(username, password string) Option {
	return func(c *Client) {
		c.username = username
		c.password = password
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithLogger sets the logger for request/response debug output.
func WithLogger(logger rest.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDebug enables request/response logging.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithTimeout sets the per-request timeout. The timeout caps the whole
// exchange, retries included, regardless of option order.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithRetryConfig enables retries for transient failures. Retrying changes
// the one-call-one-round-trip contract, so it is opt-in.
func WithRetryConfig(maxRetries int, waitMin, waitMax time.Duration) Option {
	return func(c *Client) {
		c.httpClient = newRetryableClient(maxRetries, waitMin, waitMax)
	}
}

// WithHTTPClient replaces the underlying HTTP client entirely.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient creates a transport for the given base URL (scheme and host
// only; request paths carry the rest).
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		userAgent:  defaultUserAgent,
		httpClient: newRetryableClient(0, 0, 0),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.timeout > 0 {
		c.httpClient.Timeout = c.timeout
	}

	// a server redirect is a client error, not something to chase
	c.httpClient.CheckRedirect = func(_ *http.Request, _ []*http.Request) error {
		return http.ErrUseLastResponse
	}

	return c
}

func newRetryableClient(maxRetries int, waitMin, waitMax time.Duration) *http.Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = maxRetries
	rc.Logger = nil

	if waitMin > 0 {
		rc.RetryWaitMin = waitMin
	}

	if waitMax > 0 {
		rc.RetryWaitMax = waitMax
	}

	return rc.StandardClient()
}

// Do implements rest.Connection.
func (c *Client) Do(ctx context.Context, req *rest.Request) (*rest.Response, error) {
	fullURL := c.baseURL + req.Path

	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, fullURL, body)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	httpReq.Header.Set("User-Agent", c.userAgent)

	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	if c.username != "" || c.password != "" {
		httpReq.SetBasicAuth(c.username, c.password)
	}

	c.logDebug("http request", map[string]interface{}{
		"method": req.Method,
		"url":    fullURL,
	})

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &rest.TransportError{URL: fullURL, Err: err}
	}

	defer func() {
		_ = httpResp.Body.Close()
	}()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, &rest.TransportError{URL: fullURL, Err: err}
	}

	headers := make(map[string]string, len(httpResp.Header))
	for k := range httpResp.Header {
		headers[k] = httpResp.Header.Get(k)
	}

	c.logDebug("http response", map[string]interface{}{
		"method": req.Method,
		"url":    fullURL,
		"status": httpResp.StatusCode,
		"bytes":  len(respBody),
	})

	return &rest.Response{
		Status:  httpResp.StatusCode,
		Headers: headers,
		Body:    respBody,
	}, nil
}

func (c *Client) logDebug(msg string, fields map[string]interface{}) {
	if c.logger != nil && c.debug {
		c.logger.Debug(msg, fields)
	}
}
