package logger

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, LevelWarn)

	log.Info("skipped %d", 1)
	log.Warn("slot %s taken", "abc")
	log.Error("boom")

	out := buf.String()
	assert.NotContains(t, out, "skipped")
	assert.Contains(t, out, "[WARN] slot abc taken")
	assert.Contains(t, out, "[ERROR] boom")
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("DEBUG")
	require.NoError(t, err)
	assert.Equal(t, LevelDebug, lvl)

	lvl, err = ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, LevelInfo, lvl)

	_, err = ParseLevel("verbose")
	assert.Error(t, err)
}

func TestNew_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")

	log, err := New(path, "info")
	require.NoError(t, err)
	log.Info("hello")
	log.Close()

	assert.FileExists(t, path)
}
