package ghapi_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acoulton/github-v3-api/pkg/ghapi"
)

var errHookRefused = errors.New("refused")

func TestInterceptorChain(t *testing.T) {
	t.Parallel()

	t.Run("request hooks run in order and edit the call", func(t *testing.T) {
		t.Parallel()

		api := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{})
		})
		client := newTestClient(t, api.URL)

		var order []string

		client.Interceptors().OnRequest(func(_ context.Context, req *ghapi.Request) error {
			order = append(order, "first")
			req.Headers.Set("X-Trace", "one")

			return nil
		})
		client.Interceptors().OnRequest(func(_ context.Context, req *ghapi.Request) error {
			order = append(order, "second")
			req.Headers.Set("X-Trace", req.Headers.Get("X-Trace")+",two")

			return nil
		})

		_, err := client.Request(context.Background(), http.MethodGet, "user", nil)
		require.NoError(t, err)

		assert.Equal(t, []string{"first", "second"}, order)
		assert.Equal(t, "one,two", api.last().Header.Get("X-Trace"))
	})

	t.Run("failing request hook stops the call", func(t *testing.T) {
		t.Parallel()

		api := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{})
		})
		client := newTestClient(t, api.URL)

		client.Interceptors().OnRequest(func(context.Context, *ghapi.Request) error {
			return errHookRefused
		})

		_, err := client.Request(context.Background(), http.MethodGet, "user", nil)
		require.ErrorIs(t, err, errHookRefused)
		assert.Contains(t, err.Error(), "request hook 0")
		assert.Zero(t, api.count())
	})

	t.Run("every response hook sees the exchange", func(t *testing.T) {
		t.Parallel()

		api := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{})
		})
		client := newTestClient(t, api.URL)

		var statuses []int

		client.Interceptors().OnResponse(func(_ context.Context, _ *ghapi.Request, resp *ghapi.Response) error {
			statuses = append(statuses, resp.StatusCode)

			return errHookRefused
		})
		client.Interceptors().OnResponse(func(_ context.Context, _ *ghapi.Request, resp *ghapi.Response) error {
			statuses = append(statuses, resp.StatusCode)

			return nil
		})

		_, err := client.Request(context.Background(), http.MethodGet, "user", nil)
		require.ErrorIs(t, err, errHookRefused)
		assert.Contains(t, err.Error(), "response hook 0")
		assert.Equal(t, []int{http.StatusOK, http.StatusOK}, statuses)
	})
}
