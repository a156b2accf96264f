package memory

import (
	"context"

	"github.com/rcliao/agent-knowledge/internal/model"
)

// ReadResult is a record together with its content blob.
type ReadResult struct {
	Record  model.Record `json:"memory"`
	Content string       `json:"content"`
}

// Read returns the record with the given id and its full content, and
// increments its access count.
func (s *Service) Read(ctx context.Context, id string) (*ReadResult, error) {
	if id == "" {
		return nil, &ValidationError{Action: "read", Field: "memory_id"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	pos := idx.Find(id)
	if pos < 0 {
		return nil, &NotFoundError{IDs: []string{id}}
	}
	rec := idx.Memories[pos]
	if rec.FilePath == "" {
		return nil, ErrNoLocator
	}

	content, err := s.store.ReadContent(ctx, rec.FilePath)
	if err != nil {
		return nil, err
	}

	idx.Memories[pos].AccessCount++
	if err := s.save(ctx, idx); err != nil {
		return nil, err
	}

	s.log.Debug().Str("id", id).Msg("read")

	return &ReadResult{Record: idx.Memories[pos], Content: content}, nil
}
