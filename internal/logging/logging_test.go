// internal/logging/logging_test.go
package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestJSONLevels(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(Options{Level: "warn", JSON: true, Output: &buf})
	require.NoError(t, err)
	log.Info("hidden")
	log.Warn("task failed", zap.String("stage", "snptest"))
	require.NoError(t, log.Sync())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "snptest", entry["stage"])
}

func TestQuietKeepsErrors(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(Options{Level: "debug", Quiet: true, Output: &buf})
	require.NoError(t, err)
	Warnings(log, []string{"chunk size exceeds chromosome 21"})
	log.Error("boom")
	out := buf.String()
	assert.NotContains(t, out, "chunk size")
	assert.Contains(t, out, "boom")
}

func TestBadLevel(t *testing.T) {
	_, err := New(Options{Level: "loud"})
	assert.Error(t, err)
}
