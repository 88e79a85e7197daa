package resources_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/acoulton/github-v3-api/pkg/ghapi"
	"github.com/stretchr/testify/require"
)

type call struct {
	Method string
	Path   string
	Query  string
	Body   string
}

// githubStub routes requests to per-path handlers and records each call.
// HEAD falls back to the GET handler, and the "*" route catches any request
// without its own handler.
type githubStub struct {
	*httptest.Server

	mu    sync.Mutex
	calls []call
}

func newGitHubStub(t *testing.T, routes map[string]http.HandlerFunc) *githubStub {
	t.Helper()

	stub := &githubStub{}
	stub.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)

		stub.mu.Lock()
		stub.calls = append(stub.calls, call{Method: r.Method, Path: r.URL.Path, Query: r.URL.RawQuery, Body: string(body)})
		stub.mu.Unlock()

		handler, ok := routes[r.Method+" "+r.URL.Path]
		if !ok && r.Method == http.MethodHead {
			handler, ok = routes[http.MethodGet+" "+r.URL.Path]
		}

		if !ok {
			handler, ok = routes["*"]
		}

		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]any{"message": "Not Found"})

			return
		}

		handler(w, r)
	}))
	t.Cleanup(stub.Close)

	return stub
}

func (s *githubStub) recorded() []call {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]call(nil), s.calls...)
}

func (s *githubStub) lastCall() call {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.calls[len(s.calls)-1]
}

func (s *githubStub) client(t *testing.T) *ghapi.Client {
	t.Helper()

	client, err := ghapi.New(&ghapi.Config{BaseURL: s.URL})
	require.NoError(t, err)

	return client
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respond(status int, v any) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		if v == nil {
			w.WriteHeader(status)

			return
		}

		writeJSON(w, status, v)
	}
}
