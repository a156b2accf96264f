package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/rcliao/agent-knowledge/internal/model"
)

// IndexFileName is the name of the JSON index inside the storage root.
const IndexFileName = "knowledge.json"

// FileStore keeps the index in knowledge.json and each content blob as a
// file next to it.
type FileStore struct {
	dir     string
	entropy *rand.Rand
	now     func() time.Time
}

// NewFileStore opens or creates a file store rooted at dir.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create knowledge dir: %w", err)
	}
	return &FileStore{
		dir:     dir,
		entropy: rand.New(rand.NewSource(time.Now().UnixNano())),
		now:     time.Now,
	}, nil
}

func (s *FileStore) indexPath() string {
	return filepath.Join(s.dir, IndexFileName)
}

func (s *FileStore) Location() string { return s.dir }

func (s *FileStore) Load(ctx context.Context) (*model.Index, error) {
	b, err := os.ReadFile(s.indexPath())
	if errors.Is(err, os.ErrNotExist) {
		idx := model.NewIndex(s.now())
		if err := s.writeIndex(idx); err != nil {
			return nil, fmt.Errorf("init index: %w", err)
		}
		return idx, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read index: %w", err)
	}

	var idx model.Index
	if err := json.Unmarshal(b, &idx); err != nil {
		return nil, fmt.Errorf("parse index %s: %w", s.indexPath(), err)
	}
	if idx.Memories == nil {
		idx.Memories = []model.Record{}
	}
	return &idx, nil
}

func (s *FileStore) Save(ctx context.Context, idx *model.Index) error {
	idx.Metadata.LastUpdated = model.FormatTime(s.now())
	if err := s.writeIndex(idx); err != nil {
		return fmt.Errorf("save index: %w", err)
	}
	return nil
}

func (s *FileStore) writeIndex(idx *model.Index) error {
	b, err := json.MarshalIndent(idx, "", "  ")
	if err != nil {
		return err
	}
	return s.writeAtomic(s.indexPath(), b)
}

func (s *FileStore) ReadContent(ctx context.Context, locator string) (string, error) {
	if err := ValidateLocator(locator); err != nil {
		return "", err
	}
	b, err := os.ReadFile(filepath.Join(s.dir, locator))
	if errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("%w at %s", ErrContentNotFound, locator)
	}
	if err != nil {
		return "", fmt.Errorf("read content: %w", err)
	}
	return string(b), nil
}

func (s *FileStore) WriteContent(ctx context.Context, locator, content string) error {
	if err := ValidateLocator(locator); err != nil {
		return err
	}
	path := filepath.Join(s.dir, locator)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create content dir: %w", err)
	}
	if err := s.writeAtomic(path, []byte(content)); err != nil {
		return fmt.Errorf("write content: %w", err)
	}
	return nil
}

// writeAtomic writes data to a uniquely named temp file in the target's
// directory and renames it into place.
func (s *FileStore) writeAtomic(path string, data []byte) error {
	tmp := path + "." + ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy).String() + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

func (s *FileStore) Close() error { return nil }
