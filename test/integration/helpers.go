//go:build integration

package integration

import (
	"os"

	"github.com/rs/zerolog"

	"github.com/acoulton/github-v3-api/pkg/ghapi"
)

// TestConfig holds configuration for integration tests.
type TestConfig struct {
	BaseURL string
	Token   string
	Owner   string
	Repo    string
	Verbose bool
}

// LoadTestConfig loads configuration from environment variables.
func LoadTestConfig() *TestConfig {
	return &TestConfig{
		BaseURL: os.Getenv("GHAPI_API"),
		Token:   os.Getenv("GHAPI_TOKEN"),
		Owner:   envOr("GHAPI_TEST_OWNER", "octocat"),
		Repo:    envOr("GHAPI_TEST_REPO", "Hello-World"),
		Verbose: os.Getenv("GHAPI_VERBOSE") == "true",
	}
}

// NewClient builds a client for the live API.
func (c *TestConfig) NewClient() (*ghapi.Client, error) {
	level := zerolog.WarnLevel
	if c.Verbose {
		level = zerolog.DebugLevel
	}

	logger := zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()

	return ghapi.New(&ghapi.Config{
		BaseURL:  c.BaseURL,
		Token:    c.Token,
		RetryMax: 2,
		Debug:    c.Verbose,
		Logger:   ghapi.NewZerologLogger(logger),
	})
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}
