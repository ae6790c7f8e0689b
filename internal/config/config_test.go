package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ENVIRONMENT", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("DATA_DIR", "")
	t.Setenv("REDIS_URL", "")

	cfg := Load()
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, "./data", cfg.DataDir)
	assert.Empty(t, cfg.RedisURL)
	assert.Equal(t, [2]int{1280, 720}, cfg.WindowSize)
	assert.Equal(t, 0.5, cfg.Volume)
	assert.Equal(t, "main", cfg.EntryScript)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("DATA_DIR", "/srv/novella")
	t.Setenv("REDIS_URL", "localhost:6379")

	cfg := Load()
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, "/srv/novella", cfg.DataDir)
	assert.Equal(t, "localhost:6379", cfg.RedisURL)
}

func TestLoadFile(t *testing.T) {
	content := `# presentation settings
caption: Rainy Season
window_size: 1920, 1080
is_fullscreen: 1
fade_color: 16, 16, 24
volume: 0.8
entry_scene: prologue
unknown_key: ignored
`
	path := filepath.Join(t.TempDir(), "config.nec")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg := Load()
	require.NoError(t, cfg.LoadFile(path))

	assert.Equal(t, "Rainy Season", cfg.Caption)
	assert.Equal(t, [2]int{1920, 1080}, cfg.WindowSize)
	assert.True(t, cfg.Fullscreen)
	assert.Equal(t, [3]int{16, 16, 24}, cfg.FadeColor)
	assert.Equal(t, 0.8, cfg.Volume)
	assert.Equal(t, "prologue", cfg.EntryScript)
}

func TestLoadFileErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing colon", "caption Rainy Season\n"},
		{"bad window size", "window_size: 1920\n"},
		{"bad fade color", "fade_color: red, green, blue\n"},
		{"bad volume", "volume: loud\n"},
		{"bad fullscreen", "is_fullscreen: yes\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.nec")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))
			assert.Error(t, Load().LoadFile(path))
		})
	}
}

func TestLoadFileMissing(t *testing.T) {
	assert.Error(t, Load().LoadFile(filepath.Join(t.TempDir(), "nope.nec")))
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLogLevel("debug"))
	assert.Equal(t, slog.LevelWarn, parseLogLevel("WARNING"))
	assert.Equal(t, slog.LevelError, parseLogLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLogLevel("anything else"))
}
