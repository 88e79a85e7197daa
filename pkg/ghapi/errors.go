package ghapi

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// Static errors for err113 compliance.
var (
	// Gateway errors.
	ErrRateLimitExceeded = errors.New("API rate limit exceeded")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrBadHTTPResponse   = errors.New("unexpected HTTP response")

	// Entity errors.
	ErrInvalidProperty  = errors.New("invalid property")
	ErrReadOnlyProperty = errors.New("property is read-only")
	ErrMissingURL       = errors.New("entity has no url")
	ErrMissingProperty  = errors.New("property not present in loaded data")
	ErrInvalidData      = errors.New("invalid entity data")

	// Collection errors.
	ErrInvalidLinkHeader     = errors.New("invalid Link header")
	ErrReadOnlyCollection    = errors.New("collection is read-only")
	ErrIndexOutOfRange       = errors.New("index out of range")
	ErrInvalidPageSize       = errors.New("page size must be at least 1")
	ErrInvalidCollectionData = errors.New("collection response is not a list")

	// Schema errors.
	ErrUnknownType    = errors.New("unknown resource type")
	ErrUnresolvedType = errors.New("schema references an unresolved type")
	ErrNilSchema      = errors.New("schema is required")
	ErrNilConfig      = errors.New("config is required")
)

// HTTPError is returned when the API answers with a status that was not
// expected for the request.
type HTTPError struct {
	StatusCode int
	Expected   []int
	Method     string
	URL        string
	Body       string
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	expected := make([]string, 0, len(e.Expected))
	for _, code := range e.Expected {
		expected = append(expected, fmt.Sprintf("%d", code))
	}

	return fmt.Sprintf("unexpected HTTP status %d for %s %s (expected %s): %s",
		e.StatusCode, e.Method, e.URL, strings.Join(expected, ", "), e.Body)
}

// Unwrap maps the status onto the gateway sentinels.
func (e *HTTPError) Unwrap() error {
	if e.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}

	return ErrBadHTTPResponse
}

// RateLimitError is returned without contacting the API once the remaining
// request allowance has reached zero.
type RateLimitError struct {
	Limit int
	URL   string
}

// Error implements the error interface.
func (e *RateLimitError) Error() string {
	if e.Limit > 0 {
		return fmt.Sprintf("API rate limit of %d requests exceeded, refusing %s", e.Limit, e.URL)
	}

	return "API rate limit exceeded, refusing " + e.URL
}

// Unwrap returns ErrRateLimitExceeded.
func (e *RateLimitError) Unwrap() error {
	return ErrRateLimitExceeded
}

// PropertyError describes a rejected field access on an entity.
type PropertyError struct {
	Schema string
	Field  string
	Err    error
}

// Error implements the error interface.
func (e *PropertyError) Error() string {
	return fmt.Sprintf("%s.%s: %s", e.Schema, e.Field, e.Err)
}

// Unwrap returns the underlying sentinel.
func (e *PropertyError) Unwrap() error {
	return e.Err
}

func propertyError(schema *Schema, field string, err error) error {
	return &PropertyError{Schema: schema.Name, Field: field, Err: err}
}

// IsUnauthorized reports whether err is a 401 response.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// IsRateLimited reports whether err was raised by the rate-limit guard.
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimitExceeded)
}

// IsNotFound reports whether err is a 404 response.
func IsNotFound(err error) bool {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode == http.StatusNotFound
	}

	return false
}

func sortedCodes(codes []int) []int {
	out := append([]int(nil), codes...)
	sort.Ints(out)

	return out
}
