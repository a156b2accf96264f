// Package store provides the knowledge index codec: a Store interface with
// a JSON-file implementation and a SQLite implementation.
package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rcliao/agent-knowledge/internal/model"
)

// ErrContentNotFound is returned when a record's content blob is missing.
var ErrContentNotFound = errors.New("content not found")

// Store defines the knowledge storage interface.
type Store interface {
	// Load reads the index, creating and persisting an empty one if none exists.
	Load(ctx context.Context) (*model.Index, error)

	// Save persists the whole index. It sets Metadata.LastUpdated.
	Save(ctx context.Context, idx *model.Index) error

	// ReadContent returns the content blob at locator.
	ReadContent(ctx context.Context, locator string) (string, error)

	// WriteContent creates or overwrites the content blob at locator.
	WriteContent(ctx context.Context, locator, content string) error

	// Location describes where the store lives (a directory or db path).
	Location() string

	// Close closes the store.
	Close() error
}

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Open opens the named backend rooted at dir.
func Open(backend, dir string) (Store, error) {
	switch backend {
	case "", BackendFile:
		return NewFileStore(dir)
	case BackendSQLite:
		return NewSQLiteStore(filepath.Join(dir, "knowledge.db"))
	default:
		return nil, fmt.Errorf("unknown backend %q (valid: file, sqlite)", backend)
	}
}

// ValidateLocator checks that a content locator is a clean relative path
// that stays under the storage root.
func ValidateLocator(locator string) error {
	if locator == "" {
		return fmt.Errorf("locator cannot be empty")
	}
	if filepath.IsAbs(locator) {
		return fmt.Errorf("locator must be relative, got %s", locator)
	}
	clean := filepath.Clean(locator)
	if clean != locator {
		return fmt.Errorf("locator contains invalid components: %s", locator)
	}
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return fmt.Errorf("locator cannot reference parent directories: %s", locator)
	}
	return nil
}
