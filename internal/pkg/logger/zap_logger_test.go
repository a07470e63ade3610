package logger

import (
	"bufio"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoggerAddsModuleAndDetails(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := NewWithCore(core)

	l.Info("ShiftService", "clocked in", map[string]interface{}{"user_id": "u1"})
	l.Error("ShiftService", "geocode failed", map[string]interface{}{"error": errors.New("timeout")})
	l.Warn("ShiftService", "nil details", nil)

	entries := logs.All()
	require.Len(t, entries, 3)

	ctx := entries[0].ContextMap()
	assert.Equal(t, "ShiftService", ctx["module"])
	assert.Equal(t, map[string]interface{}{"user_id": "u1"}, ctx["details"])

	assert.Equal(t, "timeout", entries[1].ContextMap()["error_ref"])
	assert.Equal(t, map[string]interface{}{}, entries[2].ContextMap()["details"])
}

func TestIsolatedLoggerWritesJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feed.log")
	l := NewIsolatedLogger(path)

	l.Debug("Hub", "dropped below file level", nil)
	l.Info("Hub", "client registered", map[string]interface{}{"organization_id": "o1"})
	require.NoError(t, l.Sync())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var lines []map[string]interface{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var line map[string]interface{}
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &line))
		lines = append(lines, line)
	}

	require.Len(t, lines, 1)
	assert.Equal(t, "INFO", lines[0]["level"])
	assert.Equal(t, "client registered", lines[0]["message"])
	assert.Equal(t, "Hub", lines[0]["module"])
	assert.Contains(t, lines[0], "timestamp")
}

func TestNopLogger(t *testing.T) {
	l := NewNopLogger()
	l.Error("x", "y", nil)
	assert.NoError(t, l.Sync())
}
