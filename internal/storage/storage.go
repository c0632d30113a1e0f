// Package storage persists game scripts for the rulekit service.
package storage

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/nathoo/rulekit/types"
)

// ErrNotFound is returned when no script is stored under an id.
var ErrNotFound = errors.New("script not found")

// Store saves and retrieves scripts by id.
type Store interface {
	Create(ctx context.Context, g *types.GameScript) (uuid.UUID, error)
	Get(ctx context.Context, id uuid.UUID) (*types.GameScript, error)
	// Update replaces an existing script; it returns ErrNotFound when id is unknown.
	Update(ctx context.Context, id uuid.UUID, g *types.GameScript) error
	Delete(ctx context.Context, id uuid.UUID) error

	Ping(ctx context.Context) error
	Close() error
}

func scriptKey(id uuid.UUID) string {
	return "script:" + id.String()
}
