package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vnovel/novella/internal/config"
	"github.com/vnovel/novella/internal/logger"
	"github.com/vnovel/novella/internal/storage"
)

func main() {
	cfg := config.Load()

	// The presentation config ships next to the script data.
	necPath := filepath.Join(cfg.DataDir, "config.nec")
	if _, err := os.Stat(necPath); err == nil {
		if err := cfg.LoadFile(necPath); err != nil {
			fmt.Fprintf(os.Stderr, "Invalid config file %s: %v\n", necPath, err)
			os.Exit(1)
		}
	}
	if cfg.Caption == "" {
		cfg.Caption = "Novella"
	}

	log := logger.Setup(cfg)

	store := storage.NewRedisStorage(cfg.RedisURL, cfg.DataDir, log)
	defer func() {
		_ = store.Close()
	}()

	// Save slots need Redis; the player runs without them.
	savesEnabled := false
	if cfg.RedisURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := store.Ping(ctx); err != nil {
			log.Warn("Redis unavailable, save slots disabled", "error", err)
		} else {
			savesEnabled = true
		}
		cancel()
	}

	p := tea.NewProgram(NewPlayerUI(cfg, store, log, savesEnabled),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running player: %v\n", err)
		os.Exit(1)
	}
}
