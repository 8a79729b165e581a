package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  LogConfig
		wantErr bool
	}{
		{"stdout only", LogConfig{Level: "info"}, false},
		{"file with rotation", LogConfig{Level: "debug", File: "x.log", MaxSize: 10}, false},
		{"upper case level", LogConfig{Level: "WARN"}, false},
		{"unknown level", LogConfig{Level: "verbose"}, true},
		{"file without size", LogConfig{Level: "info", File: "x.log"}, true},
		{"negative backups", LogConfig{Level: "info", MaxBackups: -1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewLoggerWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "formrelay.log")
	logger, err := NewLogger(&LogConfig{Level: LevelWarn, File: path, MaxSize: 1})
	require.NoError(t, err)

	logger.Info("hidden %d", 1)
	logger.Warn("shown %d", 2)
	require.NoError(t, logger.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hidden 1")
	assert.Contains(t, string(data), "shown 2")
}

func TestWrapError(t *testing.T) {
	assert.Nil(t, WrapError(nil, "ignored"))

	err := WrapError(ErrNotify, "resend")
	assert.ErrorIs(t, err, ErrNotify)
	assert.Equal(t, "resend: notification error", err.Error())
}
