// Package config loads engine configuration from two sources: process
// environment (runtime concerns like log level and Redis), and the flat
// "key: value" presentation config file shipped next to the script data.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Environment string
	LogLevel    slog.Level
	DataDir     string // root of the script/asset tree
	RedisURL    string // empty disables save slots

	// Presentation parameters from the config file. The engine core only
	// consumes EntryScript; the rest belongs to the stage.
	Caption     string
	WindowSize  [2]int
	Fullscreen  bool
	FadeColor   [3]int
	Volume      float64
	EntryScript string
}

func Load() *Config {
	return &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    parseLogLevel(getEnv("LOG_LEVEL", "info")),
		DataDir:     getEnv("DATA_DIR", "./data"),
		RedisURL:    getEnv("REDIS_URL", ""),
		WindowSize:  [2]int{1280, 720},
		Volume:      0.5,
		EntryScript: "main",
	}
}

// LoadFile overlays a "key: value" config file onto the defaults.
// Lines starting with '#' are comments; unknown keys are ignored so the
// stage can carry its own settings in the same file.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	for i, raw := range strings.Split(string(data), "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			return fmt.Errorf("config line %d: missing ':' in %q", i+1, line)
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		switch key {
		case "caption":
			c.Caption = value
		case "window_size":
			pair, err := intList(value, 2)
			if err != nil {
				return fmt.Errorf("config line %d: window_size: %w", i+1, err)
			}
			c.WindowSize = [2]int{pair[0], pair[1]}
		case "is_fullscreen":
			n, err := strconv.Atoi(value)
			if err != nil {
				return fmt.Errorf("config line %d: is_fullscreen: %w", i+1, err)
			}
			c.Fullscreen = n != 0
		case "fade_color":
			rgb, err := intList(value, 3)
			if err != nil {
				return fmt.Errorf("config line %d: fade_color: %w", i+1, err)
			}
			c.FadeColor = [3]int{rgb[0], rgb[1], rgb[2]}
		case "volume":
			f, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return fmt.Errorf("config line %d: volume: %w", i+1, err)
			}
			c.Volume = f
		case "entry_scene":
			c.EntryScript = value
		}
	}
	return nil
}

func intList(s string, want int) ([]int, error) {
	parts := strings.Split(s, ",")
	if len(parts) != want {
		return nil, fmt.Errorf("want %d comma-separated integers, got %q", want, s)
	}
	out := make([]int, want)
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
