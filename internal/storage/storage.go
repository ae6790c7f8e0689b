// Package storage provides the persistence boundary around the engine:
// script files are static resources read from the filesystem, save
// slots live in Redis.
package storage

import (
	"context"

	"github.com/google/uuid"

	"github.com/vnovel/novella/pkg/save"
	"github.com/vnovel/novella/pkg/script"
)

// Storage is the interface consumed by the player and validator.
type Storage interface {
	// Health and lifecycle
	Ping(ctx context.Context) error
	Close() error

	// Script operations (filesystem-backed, read-only)
	ListScripts(ctx context.Context) ([]string, error)
	GetScript(ctx context.Context, name string) (*script.Program, error)

	// Save slot operations
	SaveState(ctx context.Context, st *save.State) error
	LoadState(ctx context.Context, id uuid.UUID) (*save.State, error)
	ListStates(ctx context.Context) ([]*save.State, error)
	DeleteState(ctx context.Context, id uuid.UUID) error
}
