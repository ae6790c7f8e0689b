package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/vnovel/novella/pkg/save"
	"github.com/vnovel/novella/pkg/script"
)

const saveKeyPrefix = "save:"

// RedisStorage implements the Storage interface using Redis for save
// slots and the filesystem for static resources (scripts).
type RedisStorage struct {
	client  *redis.Client
	logger  *slog.Logger
	dataDir string
}

// Ensure RedisStorage implements Storage interface
var _ Storage = (*RedisStorage)(nil)

// NewRedisStorage creates a new Redis storage instance
func NewRedisStorage(redisAddr string, dataDir string, logger *slog.Logger) *RedisStorage {
	rdb := redis.NewClient(&redis.Options{
		Addr: redisAddr,
	})

	if dataDir == "" {
		dataDir = "./data"
	}

	return &RedisStorage{
		client:  rdb,
		logger:  logger,
		dataDir: dataDir,
	}
}

// Health and lifecycle methods

func (r *RedisStorage) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (r *RedisStorage) Close() error {
	if err := r.client.Close(); err != nil {
		r.logger.Error("Failed to close Redis connection", "error", err)
		return err
	}
	r.logger.Info("Redis connection closed")
	return nil
}

// WaitForConnection waits for Redis to become available (used during startup)
func (r *RedisStorage) WaitForConnection(ctx context.Context) error {
	maxRetries := 30
	retryDelay := 2 * time.Second

	for i := 0; i < maxRetries; i++ {
		if err := r.Ping(ctx); err != nil {
			r.logger.Debug("Redis not ready yet", "error", err, "attempt", i+1)

			select {
			case <-ctx.Done():
				return fmt.Errorf("context cancelled while waiting for redis: %w", ctx.Err())
			case <-time.After(retryDelay):
				continue
			}
		}

		r.logger.Info("Redis connection established")
		return nil
	}

	return fmt.Errorf("redis did not become available after %d attempts", maxRetries)
}

// Save slot operations (Redis-backed)

func (r *RedisStorage) SaveState(ctx context.Context, st *save.State) error {
	st.UpdatedAt = time.Now()

	data, err := json.Marshal(st)
	if err != nil {
		r.logger.Error("Failed to marshal save state", "uuid", st.ID, "error", err)
		return fmt.Errorf("failed to marshal save state: %w", err)
	}

	key := saveKeyPrefix + st.ID.String()
	if err := r.client.Set(ctx, key, string(data), 0).Err(); err != nil {
		r.logger.Error("Failed to write save state", "uuid", st.ID, "error", err)
		return fmt.Errorf("failed to write save state: %w", err)
	}

	return nil
}

func (r *RedisStorage) LoadState(ctx context.Context, id uuid.UUID) (*save.State, error) {
	key := saveKeyPrefix + id.String()
	data, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			r.logger.Warn("Save state not found", "uuid", id)
			return nil, nil // Return nil for not found
		}
		r.logger.Error("Failed to load save state", "uuid", id, "error", err)
		return nil, fmt.Errorf("failed to load save state: %w", err)
	}

	var st save.State
	if err := json.Unmarshal([]byte(data), &st); err != nil {
		r.logger.Error("Failed to unmarshal save state", "uuid", id, "error", err)
		return nil, fmt.Errorf("failed to unmarshal save state: %w", err)
	}

	return &st, nil
}

func (r *RedisStorage) ListStates(ctx context.Context) ([]*save.State, error) {
	var states []*save.State
	var cursor uint64

	for {
		keys, next, err := r.client.Scan(ctx, cursor, saveKeyPrefix+"*", 100).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to scan save states: %w", err)
		}

		for _, key := range keys {
			id, err := uuid.Parse(strings.TrimPrefix(key, saveKeyPrefix))
			if err != nil {
				r.logger.Warn("Skipping malformed save key", "key", key)
				continue
			}
			st, err := r.LoadState(ctx, id)
			if err != nil {
				return nil, err
			}
			if st != nil {
				states = append(states, st)
			}
		}

		cursor = next
		if cursor == 0 {
			break
		}
	}

	// Newest first, the order a load screen wants
	sort.Slice(states, func(i, j int) bool {
		return states[i].UpdatedAt.After(states[j].UpdatedAt)
	})
	return states, nil
}

func (r *RedisStorage) DeleteState(ctx context.Context, id uuid.UUID) error {
	key := saveKeyPrefix + id.String()
	if err := r.client.Del(ctx, key).Err(); err != nil {
		r.logger.Error("Failed to delete save state", "uuid", id, "error", err)
		return fmt.Errorf("failed to delete save state: %w", err)
	}
	return nil
}

// Script operations (filesystem-backed)

func (r *RedisStorage) ListScripts(ctx context.Context) ([]string, error) {
	return listScripts(r.dataDir, r.logger)
}

func (r *RedisStorage) GetScript(ctx context.Context, name string) (*script.Program, error) {
	return loadScript(r.dataDir, name)
}

func listScripts(dataDir string, logger *slog.Logger) ([]string, error) {
	scenesDir := filepath.Join(dataDir, "scenes")
	var names []string

	err := filepath.WalkDir(scenesDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || filepath.Ext(path) != ".nes" {
			return nil
		}
		names = append(names, strings.TrimSuffix(filepath.Base(path), ".nes"))
		return nil
	})
	if err != nil {
		logger.Error("Failed to walk scenes directory", "error", err)
		return nil, fmt.Errorf("failed to list scripts: %w", err)
	}

	sort.Strings(names)
	return names, nil
}

func loadScript(dataDir, name string) (*script.Program, error) {
	path := filepath.Join(dataDir, "scenes", name+".nes")

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("script not found: %s", name)
		}
		return nil, fmt.Errorf("failed to read script file: %w", err)
	}

	prog, err := script.Parse(name, string(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse script %s: %w", name, err)
	}
	return prog, nil
}
