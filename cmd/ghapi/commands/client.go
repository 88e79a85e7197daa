package commands

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/acoulton/github-v3-api/internal/constants"
	"github.com/acoulton/github-v3-api/pkg/ghapi"
)

// newLogger returns the CLI logger. Verbose mode logs every API call at
// debug level; otherwise only warnings reach stderr.
func newLogger() zerolog.Logger {
	level := zerolog.WarnLevel
	if viper.GetBool("verbose") {
		level = zerolog.DebugLevel
	}

	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().
		Timestamp().
		Str("service", "ghapi").
		Logger()
}

// newClientConfig builds the gateway settings from flags, environment and
// config file.
func newClientConfig() *ghapi.Config {
	return &ghapi.Config{
		BaseURL:      viper.GetString("api"),
		Token:        viper.GetString("token"),
		Username:     viper.GetString("username"),
		Password:     viper.GetString("password"),
		HTTPTimeout:  constants.DefaultHTTPTimeout,
		RetryMax:     viper.GetInt("retries"),
		RetryWaitMin: constants.DefaultRetryWaitMin,
		RetryWaitMax: constants.DefaultRetryWaitMax,
		Debug:        viper.GetBool("verbose"),
		Logger:       ghapi.NewZerologLogger(newLogger()),
	}
}

// CreateClient creates an API client from the current configuration.
func CreateClient() (*ghapi.Client, error) {
	client, err := ghapi.New(newClientConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return client, nil
}
