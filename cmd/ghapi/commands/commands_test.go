package commands

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/acoulton/github-v3-api/internal/constants"
)

// useViper isolates viper state for one test.
func useViper(t *testing.T, settings map[string]any) {
	t.Helper()

	viper.Reset()
	t.Cleanup(viper.Reset)

	viper.Set("output", constants.FormatJSON)

	for key, value := range settings {
		viper.Set(key, value)
	}
}

func run(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer

	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()

	return out.String(), err
}

func githubServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/octocat/Hello-World", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":1296269,"name":"Hello-World","owner":{"login":"octocat"},"private":false}`))
	})
	mux.HandleFunc("PATCH /repos/octocat/Hello-World", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)

		body["id"] = 1296269
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(body)
	})
	mux.HandleFunc("GET /users/octocat/repos", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":1,"name":"one"},{"id":2,"name":"two"},{"id":3,"name":"three"}]`))
	})
	mux.HandleFunc("GET /rate_limit", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(constants.HeaderRateLimit, "5000")
		w.Header().Set(constants.HeaderRateLimitRemaining, "4999")
		_, _ = w.Write([]byte(`{}`))
	})
	mux.HandleFunc("GET /user", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "token good" {
			w.WriteHeader(http.StatusUnauthorized)

			return
		}

		_, _ = w.Write([]byte(`{"login":"octocat"}`))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return server
}

func TestCommandConstruction(t *testing.T) {
	tests := []struct {
		cmd   *cobra.Command
		use   string
		flags []string
	}{
		{NewGetCommand(), "get URL", []string{"type", "field"}},
		{NewListCommand(), "list URL", []string{"type", "param", "page-size", "limit"}},
		{NewUpdateCommand(), "update URL", []string{"type", "set"}},
		{NewDeleteCommand(), "delete URL", []string{"type", "force"}},
		{NewExportCommand(), "export URL", []string{"type", "param", "limit", "nats-url", "subject", "file"}},
		{NewLoginCommand(), "login", []string{"token", "basic", "username", "password"}},
		{NewRateLimitCommand(), "rate-limit", nil},
	}

	for _, tt := range tests {
		t.Run(tt.use, func(t *testing.T) {
			assert.Equal(t, tt.use, tt.cmd.Use)
			assert.NotNil(t, tt.cmd.RunE)

			for _, flag := range tt.flags {
				assert.NotNil(t, tt.cmd.Flags().Lookup(flag), flag)
			}
		})
	}

	config := NewConfigCommand()

	var names []string
	for _, sub := range config.Commands() {
		names = append(names, sub.Name())
	}

	assert.ElementsMatch(t, []string{"show", "set", "unset"}, names)
}

func TestParseKeyValues(t *testing.T) {
	tests := []struct {
		name    string
		pairs   []string
		want    map[string]any
		wantErr bool
	}{
		{name: "string", pairs: []string{"description=New text"}, want: map[string]any{"description": "New text"}},
		{name: "bool", pairs: []string{"private=true"}, want: map[string]any{"private": true}},
		{name: "number", pairs: []string{"milestone=3"}, want: map[string]any{"milestone": float64(3)}},
		{name: "list", pairs: []string{`labels=["bug"]`}, want: map[string]any{"labels": []any{"bug"}}},
		{name: "empty value", pairs: []string{"body="}, want: map[string]any{"body": ""}},
		{name: "missing equals", pairs: []string{"private"}, wantErr: true},
		{name: "missing key", pairs: []string{"=x"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseKeyValues(tt.pairs)
			if tt.wantErr {
				require.ErrorIs(t, err, constants.ErrInvalidKeyValue)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, constants.NotAvailable, formatValue(nil))
	assert.Equal(t, "octocat", formatValue(map[string]any{"login": "octocat", "id": 1}))
	assert.Equal(t, "bug, ui", formatValue([]any{map[string]any{"name": "bug"}, "ui"}))
	assert.Equal(t, "42", formatValue(float64(42)))

	long := formatValue(strings.Repeat("x", 200))
	assert.Len(t, long, constants.StringTruncationLength)
	assert.True(t, strings.HasSuffix(long, "..."))
}

func TestGetCommand(t *testing.T) {
	server := githubServer(t)
	useViper(t, map[string]any{"api": server.URL})

	out, err := run(t, NewGetCommand(), "repos/octocat/Hello-World", "--type", "repo")
	require.NoError(t, err)

	var repo map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &repo))
	assert.Equal(t, "Hello-World", repo["name"])
	assert.Equal(t, map[string]any{"login": "octocat"}, repo["owner"])

	out, err = run(t, NewGetCommand(), "repos/octocat/Hello-World", "--type", "repo", "--field", "id")
	require.NoError(t, err)
	assert.Equal(t, "1296269\n", out)

	_, err = run(t, NewGetCommand(), "repos/octocat/Hello-World", "--type", "spaceship")
	require.ErrorIs(t, err, constants.ErrUnknownResourceType)
}

func TestListCommand(t *testing.T) {
	server := githubServer(t)
	useViper(t, map[string]any{"api": server.URL})

	out, err := run(t, NewListCommand(), "users/octocat/repos", "--type", "repo", "--limit", "2")
	require.NoError(t, err)

	var repos []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &repos))
	require.Len(t, repos, 2)
	assert.Equal(t, "two", repos[1]["name"])

	viper.Set("output", constants.FormatTable)

	out, err = run(t, NewListCommand(), "users/octocat/repos", "--type", "repo")
	require.NoError(t, err)
	assert.Contains(t, out, "three")
}

func TestUpdateCommand(t *testing.T) {
	server := githubServer(t)
	useViper(t, map[string]any{"api": server.URL})

	out, err := run(t, NewUpdateCommand(), "repos/octocat/Hello-World", "--type", "repo",
		"--set", "description=Updated", "--set", "private=true")
	require.NoError(t, err)

	var repo map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &repo))
	assert.Equal(t, "Updated", repo["description"])
	assert.Equal(t, true, repo["private"])

	_, err = run(t, NewUpdateCommand(), "repos/octocat/Hello-World", "--type", "repo")
	require.ErrorIs(t, err, constants.ErrNothingToUpdate)

	_, err = run(t, NewUpdateCommand(), "repos/octocat/Hello-World", "--type", "repo", "--set", "id=5")
	require.Error(t, err)
}

func TestRateLimitCommand(t *testing.T) {
	server := githubServer(t)
	useViper(t, map[string]any{"api": server.URL})

	out, err := run(t, NewRateLimitCommand())
	require.NoError(t, err)
	assert.JSONEq(t, `{"limit":5000,"remaining":4999}`, out)
}

func TestLoginAndConfig(t *testing.T) {
	server := githubServer(t)
	useViper(t, map[string]any{"api": server.URL})

	configFile := filepath.Join(t.TempDir(), "config.yml")
	viper.SetConfigFile(configFile)

	_, err := run(t, NewLoginCommand())
	require.ErrorIs(t, err, constants.ErrTokenOrBasicNeeded)

	_, err = run(t, NewLoginCommand(), "--token", "bad")
	require.Error(t, err)
	assert.NoFileExists(t, configFile)

	out, err := run(t, NewLoginCommand(), "--token", "good")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged in as octocat")

	data, err := os.ReadFile(configFile)
	require.NoError(t, err)

	var saved Config
	require.NoError(t, yaml.Unmarshal(data, &saved))
	assert.Equal(t, "good", saved.Token)
	assert.Equal(t, server.URL, saved.API)

	viper.Set("token", "good")

	out, err = run(t, NewConfigCommand(), "show")
	require.NoError(t, err)
	assert.Contains(t, out, constants.MaskedSecret)
	assert.NotContains(t, out, `"good"`)

	_, err = run(t, NewConfigCommand(), "set", "colour", "blue")
	require.ErrorIs(t, err, constants.ErrUnknownConfigKey)

	_, err = run(t, NewConfigCommand(), "set", "output", "xml")
	require.ErrorIs(t, err, constants.ErrInvalidOutputFormat)

	out, err = run(t, NewLogoutCommand())
	require.NoError(t, err)
	assert.Contains(t, out, "Logged out")

	data, err = os.ReadFile(configFile)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "good")
}
