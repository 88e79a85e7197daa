package constants

import "time"

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration files.
	ConfigFilePerm = 0600
)

// API endpoint defaults.
const (
	// DefaultBaseURL is the root of the public GitHub v3 API.
	DefaultBaseURL = "https://api.github.com/"

	// DefaultUserAgent is sent when no User-Agent is configured.
	// GitHub rejects requests without one.
	DefaultUserAgent = "github-v3-api"

	// ContentTypeJSON is the default request and response content type.
	ContentTypeJSON = "application/json"
)

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 30 * time.Second

	// ShortHTTPTimeout is used for quick operations.
	ShortHTTPTimeout = 10 * time.Second
)

// Retry limits.
const (
	// DefaultRetryWaitMin is the minimum wait time between retries.
	DefaultRetryWaitMin = 1 * time.Second

	// DefaultRetryWaitMax is the maximum wait time between retries.
	DefaultRetryWaitMax = 10 * time.Second

	// ExtendedRetryWaitMax is used for operations that need longer waits.
	ExtendedRetryWaitMax = 30 * time.Second
)

// Pagination.
const (
	// DefaultPageSize is the number of items GitHub returns per page
	// unless told otherwise.
	DefaultPageSize = 30

	// ProbePageSize is the per_page value used to count a collection.
	ProbePageSize = 1
)

// Response headers consumed by the gateway.
const (
	HeaderRateLimit          = "X-RateLimit-Limit"
	HeaderRateLimitRemaining = "X-RateLimit-Remaining"
	HeaderLink               = "Link"
)

// Logging.
const (
	// MaxLoggedBodySize caps response bodies written to debug logs.
	MaxLoggedBodySize = 2048
)

// Output formats.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"

	// JSONIndentSize is the indent used for pretty-printed JSON output.
	JSONIndentSize = 2
)

// Display values.
const (
	NotAvailable = "N/A"
	MaskedSecret = "***"

	// StringTruncationLength bounds long values in table output.
	StringTruncationLength = 80
)

// CLI configuration.
const (
	// ConfigDirName is the directory under $HOME holding the CLI config.
	ConfigDirName = ".ghapi"

	// ConfigFileName is the config file name without extension.
	ConfigFileName = "config"

	// EnvPrefix is the prefix for environment variable overrides.
	EnvPrefix = "GHAPI"

	// DefaultExportSubject is the NATS subject used by `ghapi export`.
	DefaultExportSubject = "ghapi.export"

	// NATSClientName identifies export connections on the NATS server.
	NATSClientName = "ghapi-export"

	// NATSFlushTimeout bounds the final flush of an export.
	NATSFlushTimeout = 5 * time.Second
)
