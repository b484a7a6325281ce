package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("Filters below the configured level", func(t *testing.T) {
		var out bytes.Buffer
		log := New(&out, "warn")

		log.Info("hidden")
		log.Warn("shown", "gameID", "abc")

		var record map[string]any
		require.NoError(t, json.Unmarshal(out.Bytes(), &record))
		assert.Equal(t, "shown", record["msg"])
		assert.Equal(t, "WARN", record["level"])
		assert.Equal(t, "abc", record["gameID"])
	})

	t.Run("Unknown levels fall back to info", func(t *testing.T) {
		var out bytes.Buffer
		log := New(&out, "loud")

		log.Debug("hidden")
		assert.Empty(t, out.String())

		log.Info("shown")
		assert.Contains(t, out.String(), `"msg":"shown"`)
	})
}
