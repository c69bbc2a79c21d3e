package debug

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigure(t *testing.T) {
	t.Cleanup(func() { Init(false) })

	t.Run("disabled drops debug lines but keeps errors", func(t *testing.T) {
		var buf bytes.Buffer
		Configure(Options{Writer: &buf})

		Debug("query submitted", "template", "SELECT 1")
		Info("listening")
		assert.Empty(t, buf.String())
		assert.False(t, Enabled())

		Error("query failed", "kind", "syntax")
		assert.Contains(t, buf.String(), "query failed")
	})

	t.Run("enabled text", func(t *testing.T) {
		var buf bytes.Buffer
		Configure(Options{Enable: true, Writer: &buf})

		With("request_id", "abc").Debug("query submitted")
		assert.True(t, Enabled())
		assert.Contains(t, buf.String(), "request_id=abc")
		assert.Contains(t, buf.String(), "level=DEBUG")
	})

	t.Run("enabled json", func(t *testing.T) {
		var buf bytes.Buffer
		Configure(Options{Enable: true, Writer: &buf, JSON: true})

		Warn("slow query", "ms", 1200)

		var line map[string]interface{}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
		assert.Equal(t, "slow query", line["msg"])
		assert.Equal(t, "WARN", line["level"])
	})
}
