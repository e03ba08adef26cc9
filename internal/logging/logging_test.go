package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "sg.log")

	logger, err := New(Options{Path: path, Level: "info"})
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("board fetched")
	_ = logger.Sync()

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"msg":"board fetched"`)
	assert.NotContains(t, string(raw), "hidden")
}

func TestNewVerboseEnablesDebug(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sg.log")

	logger, err := New(Options{Path: path, Level: "warn", Verbose: true})
	require.NoError(t, err)

	logger.Debug("silent reconnect abandoned")
	_ = logger.Sync()

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "silent reconnect abandoned")
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New(Options{Level: "chatty"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse log level")
}

func TestNewWithoutOutputsIsNop(t *testing.T) {
	logger, err := New(Options{})
	require.NoError(t, err)
	assert.NotNil(t, logger)
}

func TestNewNoStderrKeepsVerboseLogsInFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sg.log")

	stderr, err := os.Create(filepath.Join(dir, "stderr"))
	require.NoError(t, err)
	original := os.Stderr
	os.Stderr = stderr
	t.Cleanup(func() { os.Stderr = original })

	logger, err := New(Options{Path: path, Verbose: true, NoStderr: true})
	require.NoError(t, err)
	logger.Debug("tui frame drawn")
	_ = logger.Sync()
	require.NoError(t, stderr.Close())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "tui frame drawn")

	leaked, err := os.ReadFile(stderr.Name())
	require.NoError(t, err)
	assert.Empty(t, leaked)
}
