package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlattenFieldsIsSorted(t *testing.T) {
	flat := flattenFields(map[string]interface{}{"b": 2, "a": 1, "c": 3})
	assert.Equal(t, []interface{}{"a", 1, "b", 2, "c", 3}, flat)
}

func TestLogFunctionsWithoutInit(t *testing.T) {
	assert.NotPanics(t, func() {
		LogInfo("info", nil)
		LogDebug("debug", map[string]interface{}{"k": "v"})
		LogWarn("warn", nil)
		LogError("error", nil, nil)
	})
}

func TestInitLoggerWritesFile(t *testing.T) {
	previous := Logger
	t.Cleanup(func() { Logger = previous })

	logFile := filepath.Join(t.TempDir(), "nested", "composer.log")
	require.NoError(t, InitLogger(LoggerConfig{LogFormat: "json", LogFile: logFile, Quiet: true}))

	LogInfo("hello", map[string]interface{}{"job": "TEST_JOB"})
	_ = Sync()

	assert.FileExists(t, logFile)
}

func TestWithFields(t *testing.T) {
	previous := Logger
	t.Cleanup(func() { Logger = previous })

	logFile := filepath.Join(t.TempDir(), "fields.log")
	require.NoError(t, InitLogger(LoggerConfig{LogFormat: "json", LogFile: logFile, Quiet: true, Debug: true}))

	WithFields(map[string]interface{}{"job": "TEST_JOB"}).Debugw("scoped", "step", "step_one")
	_ = Sync()

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"job":"TEST_JOB"`)
	assert.Contains(t, string(data), `"step":"step_one"`)
	assert.Contains(t, string(data), `"level":"debug"`)
}
