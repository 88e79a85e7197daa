package ghapi

import (
	"net/http"
	"strings"
	"time"
)

// Config holds the settings used by New to build a Client.
type Config struct {
	// BaseURL is the API root that relative urls are resolved against.
	// Defaults to https://api.github.com/.
	BaseURL string

	// Token enables OAuth token authentication and takes precedence over
	// Username/Password.
	Token    string
	Username string
	Password string

	// UserAgent overrides the default User-Agent header.
	UserAgent string

	// HTTPTimeout bounds a single HTTP attempt.
	HTTPTimeout time.Duration

	// RetryMax enables transport-level retries of connection failures and
	// 429/5xx responses. Zero disables retries.
	RetryMax     int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration

	// Debug enables verbose HTTP request/response logging when a Logger is
	// provided.
	Debug  bool
	Logger Logger

	// Metrics, when set, records every API call.
	Metrics *Metrics

	// Headers are added to every request.
	Headers map[string]string

	// HTTPClient replaces the underlying HTTP client.
	HTTPClient *http.Client
}

func normalizeBaseURL(base string) string {
	base = strings.TrimSpace(base)
	if base == "" {
		return ""
	}

	return strings.TrimRight(base, "/") + "/"
}
