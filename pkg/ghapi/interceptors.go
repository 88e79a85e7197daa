package ghapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Request is an outgoing API call as seen by interceptors.
type Request struct {
	Method   string
	URL      string
	Headers  http.Header
	Body     []byte
	Metadata map[string]interface{}
}

// Response is the result of an API call. Error is set when the exchange
// failed before a status was received.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	Error      error
}

// RequestInterceptor may modify a call before it is sent. An error aborts
// the call.
type RequestInterceptor func(ctx context.Context, req *Request) error

// ResponseInterceptor observes a finished call. resp.Error is set when no
// status was received.
type ResponseInterceptor func(ctx context.Context, req *Request, resp *Response) error

// InterceptorChain holds the hooks a Client runs around each API call.
// Request hooks run in registration order and may edit headers or body
// before anything is sent. Response hooks see every exchange, including
// ones that failed in transport.
type InterceptorChain struct {
	before []RequestInterceptor
	after  []ResponseInterceptor
}

// NewInterceptorChain returns a chain with no hooks.
func NewInterceptorChain() *InterceptorChain {
	return &InterceptorChain{}
}

// OnRequest registers a hook run before each call is sent.
func (c *InterceptorChain) OnRequest(interceptor RequestInterceptor) {
	c.before = append(c.before, interceptor)
}

// OnResponse registers a hook run after each call returns.
func (c *InterceptorChain) OnResponse(interceptor ResponseInterceptor) {
	c.after = append(c.after, interceptor)
}

// runBefore stops at the first failing hook; the call is then not sent.
func (c *InterceptorChain) runBefore(ctx context.Context, req *Request) error {
	for i, hook := range c.before {
		err := hook(ctx, req)
		if err != nil {
			return fmt.Errorf("%s %s: request hook %d: %w", req.Method, req.URL, i, err)
		}
	}

	return nil
}

// runAfter runs every hook so that logging and metrics always see the
// exchange, and joins their errors.
func (c *InterceptorChain) runAfter(ctx context.Context, req *Request, resp *Response) error {
	var errs []error

	for i, hook := range c.after {
		err := hook(ctx, req, resp)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s %s: response hook %d: %w", req.Method, req.URL, i, err))
		}
	}

	return errors.Join(errs...)
}

// LoggingInterceptor logs outgoing requests.
func LoggingInterceptor(logger Logger) RequestInterceptor {
	return func(ctx context.Context, req *Request) error {
		logger.Debug("API Request", map[string]interface{}{
			"method": req.Method,
			"url":    req.URL,
		})

		return nil
	}
}

// LoggingResponseInterceptor logs responses, including rate-limit headers.
func LoggingResponseInterceptor(logger Logger) ResponseInterceptor {
	return func(ctx context.Context, req *Request, resp *Response) error {
		fields := map[string]interface{}{
			"method":      req.Method,
			"url":         req.URL,
			"status_code": resp.StatusCode,
		}

		if remaining := resp.Headers.Get("X-RateLimit-Remaining"); remaining != "" {
			fields["rate_limit_remaining"] = remaining
		}

		if resp.Error != nil {
			fields["error"] = resp.Error.Error()
			logger.Error("API Response Error", fields)
		} else {
			logger.Debug("API Response", fields)
		}

		return nil
	}
}

// HeaderInterceptor adds custom headers to requests.
func HeaderInterceptor(headers map[string]string) RequestInterceptor {
	return func(ctx context.Context, req *Request) error {
		if req.Headers == nil {
			req.Headers = make(http.Header)
		}

		for key, value := range headers {
			req.Headers.Set(key, value)
		}

		return nil
	}
}
