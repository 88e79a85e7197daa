package ghapi

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/acoulton/github-v3-api/internal/constants"
	ghhttp "github.com/acoulton/github-v3-api/internal/http"
)

// ErrUnsupportedBody is returned when a request body cannot be encoded for
// the requested content type.
var ErrUnsupportedBody = errors.New("unsupported request body")

const (
	authModeBasic = "Basic"
	authModeToken = "token"
)

var defaultExpectStatus = map[string]int{
	http.MethodGet:    http.StatusOK,
	http.MethodPost:   http.StatusCreated,
	http.MethodPut:    http.StatusOK,
	http.MethodPatch:  http.StatusOK,
	http.MethodDelete: http.StatusNoContent,
	http.MethodHead:   http.StatusOK,
}

// Client is the API gateway. It resolves urls, authenticates, validates
// response status and tracks rate-limit state for every Entity and
// Collection built from it.
type Client struct {
	transport *ghhttp.Client
	baseURL   string
	chain     *InterceptorChain

	authMode       string
	authCredential string

	rateLimit          *int
	rateLimitRemaining *int
	lastHeaders        http.Header
}

// New creates a Client from cfg.
func New(cfg *Config) (*Client, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	opts := []ghhttp.Option{ghhttp.WithDebug(cfg.Debug)}

	if cfg.Logger != nil {
		opts = append(opts, ghhttp.WithLogger(&loggerAdapter{logger: cfg.Logger}))
	}

	if cfg.UserAgent != "" {
		opts = append(opts, ghhttp.WithUserAgent(cfg.UserAgent))
	}

	if cfg.HTTPClient != nil {
		opts = append(opts, ghhttp.WithHTTPClient(cfg.HTTPClient))
	}

	if cfg.HTTPTimeout > 0 {
		opts = append(opts, ghhttp.WithTimeout(cfg.HTTPTimeout))
	}

	if cfg.RetryMax > 0 {
		waitMin := cfg.RetryWaitMin
		if waitMin <= 0 {
			waitMin = constants.DefaultRetryWaitMin
		}

		waitMax := cfg.RetryWaitMax
		if waitMax <= 0 {
			waitMax = constants.DefaultRetryWaitMax
		}

		opts = append(opts, ghhttp.WithRetryConfig(cfg.RetryMax, waitMin, waitMax))
	}

	client := &Client{
		transport: ghhttp.NewClient(opts...),
		baseURL:   normalizeBaseURL(cfg.BaseURL),
		chain:     NewInterceptorChain(),
	}

	if client.baseURL == "" {
		client.baseURL = constants.DefaultBaseURL
	}

	if len(cfg.Headers) > 0 {
		client.chain.OnRequest(HeaderInterceptor(cfg.Headers))
	}

	if cfg.Logger != nil {
		client.chain.OnRequest(LoggingInterceptor(cfg.Logger))
		client.chain.OnResponse(LoggingResponseInterceptor(cfg.Logger))
	}

	if cfg.Metrics != nil {
		client.chain.OnRequest(MetricsRequestInterceptor(cfg.Metrics))
		client.chain.OnResponse(MetricsResponseInterceptor(cfg.Metrics))
	}

	switch {
	case cfg.Token != "":
		client.AuthenticateToken(cfg.Token)
	case cfg.Username != "":
		client.AuthenticateBasic(cfg.Username, cfg.Password)
	}

	return client, nil
}

// BaseURL returns the API root relative urls are resolved against.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Interceptors returns the chain run around every call.
func (c *Client) Interceptors() *InterceptorChain {
	return c.chain
}

type requestOptions struct {
	expect              []int
	requestContentType  string
	responseContentType string
}

// RequestOption customises a single call.
type RequestOption func(*requestOptions)

// ExpectStatus replaces the default expected status for the method.
func ExpectStatus(codes ...int) RequestOption {
	return func(o *requestOptions) {
		o.expect = append([]int(nil), codes...)
	}
}

// RequestContentType sets the Content-Type header. Structured bodies are
// only JSON encoded for application/json.
func RequestContentType(contentType string) RequestOption {
	return func(o *requestOptions) {
		o.requestContentType = contentType
	}
}

// ResponseContentType sets the Accept header.
func ResponseContentType(contentType string) RequestOption {
	return func(o *requestOptions) {
		o.responseContentType = contentType
	}
}

// Request performs one API call and validates its status.
//
// Relative urls are resolved against the base URL. The call is refused
// with a *RateLimitError when the last response reported zero remaining
// requests; ResetRateLimit clears that state.
func (c *Client) Request(ctx context.Context, method, rawURL string, body any, opts ...RequestOption) (*Response, error) {
	if c.rateLimitRemaining != nil && *c.rateLimitRemaining == 0 {
		limit := 0
		if c.rateLimit != nil {
			limit = *c.rateLimit
		}

		return nil, &RateLimitError{Limit: limit, URL: rawURL}
	}

	target := c.resolveURL(rawURL)
	c.lastHeaders = nil

	options := requestOptions{
		requestContentType:  constants.ContentTypeJSON,
		responseContentType: constants.ContentTypeJSON,
	}

	for _, opt := range opts {
		opt(&options)
	}

	if len(options.expect) == 0 {
		expected, ok := defaultExpectStatus[method]
		if !ok {
			expected = http.StatusOK
		}

		options.expect = []int{expected}
	}

	payload, err := encodeBody(body, options.requestContentType)
	if err != nil {
		return nil, err
	}

	req := &Request{
		Method:  method,
		URL:     target,
		Headers: make(http.Header),
		Body:    payload,
	}

	req.Headers.Set("Accept", options.responseContentType)
	req.Headers.Set("Content-Type", options.requestContentType)

	if c.authMode != "" {
		req.Headers.Set("Authorization", c.authMode+" "+c.authCredential)
	}

	err = c.chain.runBefore(ctx, req)
	if err != nil {
		return nil, err
	}

	raw, err := c.transport.Do(ctx, &ghhttp.Request{
		Method:  req.Method,
		URL:     req.URL,
		Headers: req.Headers,
		Body:    req.Body,
	})

	resp := &Response{Error: err}
	if raw != nil {
		resp.StatusCode = raw.StatusCode
		resp.Headers = raw.Headers
		resp.Body = raw.Body
	}

	if interceptErr := c.chain.runAfter(ctx, req, resp); interceptErr != nil && err == nil {
		err = interceptErr
	}

	if raw == nil {
		return nil, err
	}

	c.lastHeaders = raw.Headers
	c.rateLimit = headerIntPtr(raw.Headers, constants.HeaderRateLimit)
	c.rateLimitRemaining = headerIntPtr(raw.Headers, constants.HeaderRateLimitRemaining)

	if err != nil {
		return nil, err
	}

	if !slices.Contains(options.expect, raw.StatusCode) {
		return nil, &HTTPError{
			StatusCode: raw.StatusCode,
			Expected:   sortedCodes(options.expect),
			Method:     method,
			URL:        target,
			Body:       string(raw.Body),
		}
	}

	return resp, nil
}

// RequestJSON performs Request and decodes the JSON response body. An empty
// body decodes to nil.
func (c *Client) RequestJSON(ctx context.Context, method, rawURL string, body any, opts ...RequestOption) (any, error) {
	resp, err := c.Request(ctx, method, rawURL, body, opts...)
	if err != nil {
		return nil, err
	}

	if len(bytes.TrimSpace(resp.Body)) == 0 {
		return nil, nil
	}

	var decoded any

	err = json.Unmarshal(resp.Body, &decoded)
	if err != nil {
		return nil, fmt.Errorf("decoding response from %s: %w", rawURL, err)
	}

	return decoded, nil
}

// ResetRateLimit forgets the observed rate-limit state so that further calls
// are attempted.
func (c *Client) ResetRateLimit() {
	c.rateLimit = nil
	c.rateLimitRemaining = nil
}

// AuthenticateBasic switches to HTTP basic authentication.
func (c *Client) AuthenticateBasic(user, password string) {
	c.authMode = authModeBasic
	c.authCredential = base64.StdEncoding.EncodeToString([]byte(user + ":" + password))
}

// AuthenticateToken switches to OAuth token authentication.
func (c *Client) AuthenticateToken(token string) {
	c.authMode = authModeToken
	c.authCredential = token
}

// ResponseHeaders returns the headers of the most recent response, or nil
// when no response has been received since the last call started.
func (c *Client) ResponseHeaders() http.Header {
	return c.lastHeaders
}

// ResponseHeader returns one header of the most recent response.
func (c *Client) ResponseHeader(key string) (string, bool) {
	values := c.lastHeaders.Values(key)
	if len(values) == 0 {
		return "", false
	}

	return strings.Join(values, ", "), true
}

// RateLimit returns the last observed X-RateLimit-Limit.
func (c *Client) RateLimit() (int, bool) {
	return derefInt(c.rateLimit)
}

// RateLimitRemaining returns the last observed X-RateLimit-Remaining.
func (c *Client) RateLimitRemaining() (int, bool) {
	return derefInt(c.rateLimitRemaining)
}

func (c *Client) resolveURL(rawURL string) string {
	if strings.Contains(rawURL, "://") {
		return rawURL
	}

	return c.baseURL + strings.TrimPrefix(rawURL, "/")
}

func encodeBody(body any, contentType string) ([]byte, error) {
	switch b := body.(type) {
	case nil:
		return nil, nil
	case []byte:
		return b, nil
	case string:
		return []byte(b), nil
	case io.Reader:
		data, err := io.ReadAll(b)
		if err != nil {
			return nil, fmt.Errorf("reading request body: %w", err)
		}

		return data, nil
	}

	if contentType != constants.ContentTypeJSON {
		return nil, fmt.Errorf("%w: cannot send %T as %s", ErrUnsupportedBody, body, contentType)
	}

	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encoding request body: %w", err)
	}

	return data, nil
}

func headerInt(headers http.Header, key string) (int, bool) {
	raw := strings.TrimSpace(headers.Get(key))
	if raw == "" {
		return 0, false
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}

	return value, true
}

func headerIntPtr(headers http.Header, key string) *int {
	value, ok := headerInt(headers, key)
	if !ok {
		return nil
	}

	return &value
}

func derefInt(value *int) (int, bool) {
	if value == nil {
		return 0, false
	}

	return *value, true
}
