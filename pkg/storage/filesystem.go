package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/google/uuid"

	"github.com/JaimeStill/recipe-lab/pkg/lifecycle"
)

const stagePrefix = ".staging-"

type filesystem struct {
	fs       billy.Filesystem
	basePath string
	logger   *slog.Logger
}

// New creates a content store rooted at cfg.Directory on the local disk.
// The directory is created by Start.
func New(cfg *Config, logger *slog.Logger) (System, error) {
	if cfg.Directory == "" {
		return nil, fmt.Errorf("directory required")
	}

	absPath, err := filepath.Abs(cfg.Directory)
	if err != nil {
		return nil, fmt.Errorf("resolve directory: %w", err)
	}

	return &filesystem{
		fs:       osfs.New(absPath),
		basePath: absPath,
		logger:   logger.With("system", "storage"),
	}, nil
}

// NewFilesystem creates a content store over an existing billy filesystem,
// such as memfs in tests.
func NewFilesystem(bfs billy.Filesystem, logger *slog.Logger) System {
	return &filesystem{
		fs:     bfs,
		logger: logger.With("system", "storage"),
	}
}

func (f *filesystem) Start(lc *lifecycle.Coordinator) error {
	f.logger.Info("starting storage system", "directory", f.basePath)

	if f.basePath == "" {
		return nil
	}

	if err := os.MkdirAll(f.basePath, 0755); err != nil {
		return fmt.Errorf("create storage directory: %w", err)
	}
	f.logger.Info("storage directory initialized")

	return nil
}

func (f *filesystem) Store(ctx context.Context, key string, data []byte) error {
	staged, err := f.Stage(ctx, key, data)
	if err != nil {
		return err
	}
	return staged.replace()
}

func (f *filesystem) Stage(ctx context.Context, key string, data []byte) (*Staged, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tmp := stagePrefix + uuid.NewString() + "-" + key

	file, err := f.fs.OpenFile(tmp, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("create staged file: %w", mapFSError(err))
	}

	_, writeErr := file.Write(data)
	closeErr := file.Close()
	if err := errors.Join(writeErr, closeErr); err != nil {
		f.remove(tmp)
		return nil, fmt.Errorf("write staged file: %w", err)
	}

	return &Staged{Key: key, tmp: tmp, fs: f}, nil
}

func (f *filesystem) Retrieve(ctx context.Context, key string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}

	data, err := util.ReadFile(f.fs, key)
	if err != nil {
		return nil, mapFSError(err)
	}
	return data, nil
}

func (f *filesystem) Delete(ctx context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	if err := f.fs.Remove(key); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("remove file: %w", mapFSError(err))
	}
	return nil
}

func (f *filesystem) Validate(ctx context.Context, key string) (bool, error) {
	if err := validateKey(key); err != nil {
		return false, err
	}

	if _, err := f.fs.Stat(key); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("stat file: %w", mapFSError(err))
	}
	return true, nil
}

func (f *filesystem) remove(name string) {
	if err := f.fs.Remove(name); err != nil && !errors.Is(err, fs.ErrNotExist) {
		f.logger.Warn("failed to remove staged file", "file", name, "error", err)
	}
}

func validateKey(key string) error {
	if key == "" || key == "." || key == ".." {
		return ErrInvalidKey
	}
	if strings.ContainsAny(key, `/\`) || strings.HasPrefix(key, stagePrefix) {
		return ErrInvalidKey
	}
	return nil
}

func mapFSError(err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return ErrNotFound
	case errors.Is(err, fs.ErrPermission):
		return ErrPermissionDenied
	default:
		return err
	}
}
