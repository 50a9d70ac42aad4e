// Package storage provides the attachment content store: a flat directory of
// files addressed by name only. Writes can be staged under a private temporary
// name and promoted into place later with an atomic rename, which lets callers
// order the visible write after a database commit.
package storage

import (
	"context"
	"errors"

	"github.com/JaimeStill/recipe-lab/pkg/lifecycle"
)

// Storage errors returned by System implementations.
var (
	// ErrNotFound indicates the requested key does not exist in storage.
	ErrNotFound = errors.New("storage: key not found")

	// ErrPermissionDenied indicates insufficient permissions to access the key.
	ErrPermissionDenied = errors.New("storage: permission denied")

	// ErrInvalidKey indicates the key is empty, contains a path separator,
	// or uses the reserved staging prefix.
	ErrInvalidKey = errors.New("storage: invalid key")

	// ErrExists indicates a staged write would replace an existing key.
	ErrExists = errors.New("storage: key already exists")

	// ErrSettled is returned when a staged write is promoted after it was
	// already promoted or discarded.
	ErrSettled = errors.New("storage: staged write already settled")
)

// System defines the content store operations.
type System interface {
	// Store writes data under key, replacing any existing file.
	// The write is staged and promoted, so readers never observe a partial file.
	Store(ctx context.Context, key string, data []byte) error

	// Stage writes data under a private temporary name. Nothing is visible
	// under key until the returned Staged is promoted, and promotion fails
	// with ErrExists rather than replace a file already stored under key.
	Stage(ctx context.Context, key string, data []byte) (*Staged, error)

	// Retrieve returns the data stored at key.
	// Returns ErrNotFound if the key does not exist.
	Retrieve(ctx context.Context, key string) ([]byte, error)

	// Delete removes key. Returns nil if the key does not exist.
	Delete(ctx context.Context, key string) error

	// Validate reports whether key exists.
	Validate(ctx context.Context, key string) (bool, error)

	// Start registers lifecycle hooks with the coordinator.
	Start(lc *lifecycle.Coordinator) error
}
