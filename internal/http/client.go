// Package http executes single HTTP exchanges for the GitHub API gateway.
//
// It owns connection handling and socket-level retries (via
// go-retryablehttp) but performs no status validation: every response that
// arrives is handed back to the caller, whatever its status code.
package http

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/acoulton/github-v3-api/internal/constants"
)

// Static errors for err113 compliance.
var (
	ErrMethodRequired = errors.New("request method is required")
	ErrURLRequired    = errors.New("request URL is required")
)

// Logger is the logging interface used by the transport.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Request is a single outgoing HTTP exchange. URL must be absolute.
type Request struct {
	Method  string
	URL     string
	Headers http.Header
	Body    []byte
}

// Response is the raw result of an exchange.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// Client sends requests through a retrying HTTP client.
type Client struct {
	http      *retryablehttp.Client
	logger    Logger
	debug     bool
	userAgent string
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger used for debug output and retry diagnostics.
func WithLogger(logger Logger) Option {
	return func(c *Client) {
		c.logger = logger
		if logger != nil {
			c.http.Logger = &leveledLogger{logger: logger}
		}
	}
}

// WithDebug enables request/response logging.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithRetryConfig enables retries for transient failures (connection
// errors, 429 and 5xx responses).
func WithRetryConfig(retryMax int, waitMin, waitMax time.Duration) Option {
	return func(c *Client) {
		c.http.RetryMax = retryMax
		c.http.RetryWaitMin = waitMin
		c.http.RetryWaitMax = waitMax
	}
}

// WithTimeout bounds the total time of a single attempt.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.http.HTTPClient.Timeout = timeout
		}
	}
}

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.http.HTTPClient = httpClient
		}
	}
}

// NewClient creates a transport client. Retries are disabled unless
// WithRetryConfig is supplied.
func NewClient(opts ...Option) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 0
	retryClient.Logger = nil
	retryClient.HTTPClient.Timeout = constants.DefaultHTTPTimeout
	// Exhausted retries must still surface the last response for status
	// validation by the caller.
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	client := &Client{
		http:      retryClient,
		userAgent: constants.DefaultUserAgent,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// Do executes the request and returns the response regardless of status.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	if req.Method == "" {
		return nil, ErrMethodRequired
	}

	if req.URL == "" {
		return nil, ErrURLRequired
	}

	var body interface{}
	if req.Body != nil {
		body = req.Body
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	for key, values := range req.Headers {
		for _, value := range values {
			httpReq.Header.Add(key, value)
		}
	}

	if c.userAgent != "" && httpReq.Header.Get("User-Agent") == "" {
		httpReq.Header.Set("User-Agent", c.userAgent)
	}

	c.logRequest(req)

	start := time.Now()

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		if c.logger != nil {
			c.logger.Error("HTTP Request Failed", map[string]interface{}{
				"method": req.Method,
				"url":    req.URL,
				"error":  err.Error(),
			})
		}

		return nil, fmt.Errorf("executing %s %s: %w", req.Method, req.URL, err)
	}

	defer func() {
		_ = httpResp.Body.Close()
	}()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       respBody,
	}

	c.logResponse(req, resp, time.Since(start))

	return resp, nil
}

func (c *Client) logRequest(req *Request) {
	if !c.debug || c.logger == nil {
		return
	}

	c.logger.Debug("HTTP Request", map[string]interface{}{
		"method":    req.Method,
		"url":       req.URL,
		"body_size": len(req.Body),
	})
}

func (c *Client) logResponse(req *Request, resp *Response, elapsed time.Duration) {
	if !c.debug || c.logger == nil {
		return
	}

	fields := map[string]interface{}{
		"method":      req.Method,
		"url":         req.URL,
		"status_code": resp.StatusCode,
		"duration":    elapsed.String(),
	}

	if len(resp.Body) > 0 {
		fields["body"] = string(bytes.TrimSpace(truncate(resp.Body, constants.MaxLoggedBodySize)))
	}

	c.logger.Debug("HTTP Response", fields)
}

func truncate(body []byte, limit int) []byte {
	if len(body) <= limit {
		return body
	}

	return body[:limit]
}

// leveledLogger adapts Logger to retryablehttp.LeveledLogger.
type leveledLogger struct {
	logger Logger
}

func (l *leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.logger.Error(msg, toFields(keysAndValues))
}

func (l *leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Info(msg, toFields(keysAndValues))
}

func (l *leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.logger.Debug(msg, toFields(keysAndValues))
}

func (l *leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.logger.Warn(msg, toFields(keysAndValues))
}

func toFields(keysAndValues []interface{}) map[string]interface{} {
	fields := make(map[string]interface{}, len(keysAndValues)/2)

	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			key = fmt.Sprint(keysAndValues[i])
		}

		fields[key] = keysAndValues[i+1]
	}

	return fields
}
