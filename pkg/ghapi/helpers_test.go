package ghapi_test

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/acoulton/github-v3-api/pkg/ghapi"
	"github.com/stretchr/testify/require"
)

// MockLogger for testing.
type MockLogger struct {
	mu   sync.Mutex
	logs []map[string]interface{}
}

func (l *MockLogger) record(level, msg string, fields map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.logs = append(l.logs, map[string]interface{}{"level": level, "msg": msg, "fields": fields})
}

func (l *MockLogger) Debug(msg string, fields map[string]interface{}) { l.record("debug", msg, fields) }
func (l *MockLogger) Info(msg string, fields map[string]interface{})  { l.record("info", msg, fields) }
func (l *MockLogger) Warn(msg string, fields map[string]interface{})  { l.record("warn", msg, fields) }
func (l *MockLogger) Error(msg string, fields map[string]interface{}) { l.record("error", msg, fields) }

func (l *MockLogger) messages() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	msgs := make([]string, 0, len(l.logs))
	for _, entry := range l.logs {
		msgs = append(msgs, entry["msg"].(string))
	}

	return msgs
}

// recordedRequest is what a fake API saw.
type recordedRequest struct {
	Method string
	Path   string
	Query  string
	Header http.Header
	Body   string
}

// fakeAPI is an httptest server that records every request.
type fakeAPI struct {
	*httptest.Server

	mu       sync.Mutex
	requests []recordedRequest
}

func newFakeAPI(t *testing.T, handler http.HandlerFunc) *fakeAPI {
	t.Helper()

	api := &fakeAPI{}
	api.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)

		api.mu.Lock()
		api.requests = append(api.requests, recordedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.RawQuery,
			Header: r.Header.Clone(),
			Body:   string(body),
		})
		api.mu.Unlock()

		handler(w, r)
	}))
	t.Cleanup(api.Close)

	return api
}

func (a *fakeAPI) count() int {
	a.mu.Lock()
	defer a.mu.Unlock()

	return len(a.requests)
}

func (a *fakeAPI) last() recordedRequest {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.requests[len(a.requests)-1]
}

func (a *fakeAPI) all() []recordedRequest {
	a.mu.Lock()
	defer a.mu.Unlock()

	return append([]recordedRequest(nil), a.requests...)
}

func newTestClient(t *testing.T, baseURL string) *ghapi.Client {
	t.Helper()

	client, err := ghapi.New(&ghapi.Config{BaseURL: baseURL})
	require.NoError(t, err)

	return client
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type testSchemas struct {
	user *ghapi.Schema
	repo *ghapi.Schema
}

func newTestSchemas(t *testing.T) testSchemas {
	t.Helper()

	user := &ghapi.Schema{
		Name:         "user",
		DefaultField: "login",
		Fields: []ghapi.Field{
			ghapi.Scalar("login"),
			ghapi.Scalar("id"),
			ghapi.Scalar("url"),
			ghapi.Writable("name"),
			ghapi.Writable("hireable"),
			ghapi.Timestamp("created_at"),
		},
	}

	repo := &ghapi.Schema{
		Name: "repo",
		Fields: []ghapi.Field{
			ghapi.Scalar("url"),
			ghapi.Scalar("id"),
			ghapi.Writable("name"),
			ghapi.Writable("description"),
			ghapi.Writable("private"),
			ghapi.Ref("owner", "user"),
			ghapi.Ref("parent", "repo"),
			ghapi.Timestamp("created_at"),
		},
	}

	registry := ghapi.NewRegistry()
	registry.Register(user, repo)
	require.NoError(t, registry.Resolve())

	return testSchemas{user: user, repo: repo}
}

// pagedAPI serves a list of total items the way GitHub paginates: a Link
// header with rel="last" whenever there is more than one page.
func pagedAPI(t *testing.T, total int) *fakeAPI {
	t.Helper()

	var api *fakeAPI

	api = newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		if page < 1 {
			page = 1
		}

		perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
		if perPage < 1 {
			perPage = 30
		}

		pages := (total + perPage - 1) / perPage
		if pages > 1 {
			w.Header().Set("Link", fmt.Sprintf(
				`<%s%s?page=2&per_page=%d>; rel="next", <%s%s?page=%d&per_page=%d>; rel="last"`,
				api.URL, r.URL.Path, perPage, api.URL, r.URL.Path, pages, perPage))
		}

		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusOK)

			return
		}

		items := make([]map[string]any, 0, perPage)
		for i := (page - 1) * perPage; i < page*perPage && i < total; i++ {
			items = append(items, map[string]any{
				"id":  i,
				"url": fmt.Sprintf("%s/items/%d", api.URL, i),
			})
		}

		writeJSON(w, http.StatusOK, items)
	})

	return api
}

func itemSchema() *ghapi.Schema {
	return &ghapi.Schema{
		Name:   "item",
		Fields: []ghapi.Field{ghapi.Scalar("id"), ghapi.Scalar("url"), ghapi.Writable("name")},
	}
}
