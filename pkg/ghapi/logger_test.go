package ghapi_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acoulton/github-v3-api/pkg/ghapi"
)

func TestZerologLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger := ghapi.NewZerologLogger(zerolog.New(&buf).Level(zerolog.InfoLevel))

	logger.Debug("hidden", nil)
	logger.Warn("API Response", map[string]interface{}{"status_code": 404, "url": "users/ghost"})

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "API Response", entry["message"])
	assert.InDelta(t, 404, entry["status_code"], 0)
	assert.Equal(t, "users/ghost", entry["url"])
}
