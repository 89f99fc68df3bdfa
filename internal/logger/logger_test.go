package logger

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "svcview.log")

	log, closer, err := New(Config{Level: "debug", File: path})
	require.NoError(t, err)
	log.Debug("hello", "service", "sshd")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "msg=hello")
	assert.Contains(t, string(data), "service=sshd")
}

func TestNewRespectsLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "svcview.log")

	log, closer, err := New(Config{Level: "warn", File: path})
	require.NoError(t, err)
	log.Info("quiet")
	log.Warn("loud")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "quiet")
	assert.Contains(t, string(data), "loud")
}

func TestNewWithoutFile(t *testing.T) {
	log, closer, err := New(Config{})
	require.NoError(t, err)
	require.NotNil(t, closer)
	assert.False(t, log.Enabled(context.Background(), slog.LevelError))
	assert.NoError(t, closer.Close())
}

func TestNewBadLevel(t *testing.T) {
	_, _, err := New(Config{Level: "loud"})
	assert.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"":        slog.LevelInfo,
		"DEBUG":   slog.LevelDebug,
		" warn ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	}
	for in, want := range tests {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestWriterDefaults(t *testing.T) {
	w := Config{File: "x.log"}.writer()
	assert.Equal(t, DefaultMaxSizeMB, w.MaxSize)
	assert.Equal(t, DefaultMaxBackups, w.MaxBackups)
	assert.Equal(t, DefaultMaxAgeDays, w.MaxAge)
}
