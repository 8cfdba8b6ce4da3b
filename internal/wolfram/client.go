package wolfram

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/proxy"
)

const (
	// DefaultEndpoint is the Wolfram|Alpha Full Results API.
	DefaultEndpoint = "https://api.wolframalpha.com/v2/query"

	// DefaultUserAgent identifies wacli in HTTP requests.
	DefaultUserAgent = "wacli"

	// DefaultMaxBodySize limits the response body read into memory.
	DefaultMaxBodySize = 10 * 1024 * 1024 // 10MB

	// redacted replaces the appid in logged URLs and error messages.
	redacted = "***REDACTED***"
)

// Client sends queries to the Wolfram|Alpha API.
//
// A Client is safe for reuse across requests. It never sets a request
// deadline; the timeout hints travel to the server as query parameters.
type Client struct {
	// endpoint is the absolute URL the query string is appended to.
	endpoint string

	// httpClient performs the requests.
	httpClient *http.Client

	// proxyAddress is the optional SOCKS5 proxy in "host:port" format.
	proxyAddress string

	// userAgent is sent as the User-Agent header.
	userAgent string

	// maxBodySize bounds how many bytes of the response are read.
	maxBodySize int64

	// logger receives request diagnostics.
	logger *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithEndpoint overrides the API endpoint. Tests point this at httptest servers.
func WithEndpoint(endpoint string) Option {
	return func(c *Client) {
		c.endpoint = endpoint
	}
}

// WithHTTPClient replaces the underlying HTTP client.
// It takes precedence over WithProxy.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithProxy routes all requests through the SOCKS5 proxy at address ("host:port").
func WithProxy(address string) Option {
	return func(c *Client) {
		c.proxyAddress = address
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithMaxBodySize sets the response body limit in bytes. Values <= 0 keep the default.
func WithMaxBodySize(n int64) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxBodySize = n
		}
	}
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a Client. Without options it talks directly to DefaultEndpoint.
func NewClient(opts ...Option) (*Client, error) {
	c := &Client{
		endpoint:    DefaultEndpoint,
		userAgent:   DefaultUserAgent,
		maxBodySize: DefaultMaxBodySize,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}

	u, err := url.Parse(c.endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidEndpoint, c.endpoint)
	}

	if c.httpClient == nil {
		c.httpClient, err = newHTTPClient(c.proxyAddress)
		if err != nil {
			return nil, err
		}
	}

	return c, nil
}

// newHTTPClient builds the HTTP client, optionally dialing through a SOCKS5 proxy.
func newHTTPClient(proxyAddress string) (*http.Client, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone() //nolint:forcetypeassert // DefaultTransport is always *http.Transport

	if proxyAddress != "" {
		// We use nil for auth because local SOCKS proxies (Tor, ssh -D) typically don't require it
		dialer, err := proxy.SOCKS5("tcp", proxyAddress, nil, proxy.Direct)
		if err != nil {
			return nil, fmt.Errorf("failed to create SOCKS5 dialer: %w", err)
		}
		transport.Proxy = nil
		if contextDialer, ok := dialer.(proxy.ContextDialer); ok {
			transport.DialContext = contextDialer.DialContext
		} else {
			transport.DialContext = func(_ context.Context, network, addr string) (net.Conn, error) {
				return dialer.Dial(network, addr)
			}
		}
	}

	return &http.Client{Transport: transport}, nil
}

// Endpoint returns the configured API endpoint.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// ProxyAddress returns the configured SOCKS5 proxy address, or "" when direct.
func (c *Client) ProxyAddress() string {
	return c.proxyAddress
}

// Fetch sends q and returns the raw response body.
//
// Any failure to obtain the body is returned as a *TransportError. The body
// is returned regardless of the HTTP status; non-2xx statuses are logged.
func (c *Client) Fetch(ctx context.Context, q Query) ([]byte, error) {
	requestURL := c.requestURL(q)
	safeURL := c.requestURL(q.WithAppID(redacted))
	requestID := uuid.NewString()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, &TransportError{Op: "build request", URL: safeURL, Err: err}
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("sending query",
		"requestID", requestID,
		"url", safeURL,
		"proxy", c.proxyAddress,
	)
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Op: "send", URL: safeURL, Err: redactErr(err, q.AppID)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodySize))
	if err != nil {
		return nil, &TransportError{Op: "read body", URL: safeURL, Err: err}
	}

	c.logger.Debug("response received",
		"requestID", requestID,
		"status", resp.StatusCode,
		"contentType", resp.Header.Get("Content-Type"),
		"bytes", len(body),
		"elapsed", time.Since(start).Round(time.Millisecond),
	)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("unexpected HTTP status",
			"requestID", requestID,
			"status", resp.Status,
		)
	}

	return body, nil
}

// requestURL joins the endpoint and the encoded query.
func (c *Client) requestURL(q Query) string {
	sep := "?"
	if strings.Contains(c.endpoint, "?") {
		sep = "&"
	}
	return c.endpoint + sep + q.Encode()
}

// redactErr hides the appid in errors that echo the request URL (*url.Error does).
func redactErr(err error, appID string) error {
	if appID == "" {
		return err
	}
	msg := err.Error()
	escaped := url.QueryEscape(appID)
	if !strings.Contains(msg, escaped) {
		return err
	}
	return &redactedError{msg: strings.ReplaceAll(msg, escaped, redacted), err: err}
}

// redactedError keeps the original error for errors.Is/As while printing a safe message.
type redactedError struct {
	msg string
	err error
}

func (e *redactedError) Error() string { return e.msg }
func (e *redactedError) Unwrap() error { return e.err }
