package memory

import (
	"context"
	"errors"
	"fmt"

	"github.com/rcliao/agent-knowledge/internal/model"
)

// ExportedMemory is a record together with its content.
type ExportedMemory struct {
	model.Record
	Content string `json:"content"`
}

// ImportResult counts what Import did.
type ImportResult struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	IDs      []string `json:"ids"`
}

// Export returns every record, active and retired, with its content.
func (s *Service) Export(ctx context.Context) ([]ExportedMemory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]ExportedMemory, 0, len(idx.Memories))
	for _, r := range idx.Memories {
		content, err := s.store.ReadContent(ctx, r.FilePath)
		if err != nil {
			return nil, fmt.Errorf("export %s: %w", r.ID, err)
		}
		out = append(out, ExportedMemory{Record: r, Content: content})
	}
	return out, nil
}

// Import recreates exported memories through the create path, so each gets
// a fresh id. Memories exported as retired are retired again. Memories the
// duplicate guard refuses are skipped.
func (s *Service) Import(ctx context.Context, memories []ExportedMemory) (*ImportResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	res := &ImportResult{IDs: []string{}}
	for _, m := range memories {
		confidence := m.Confidence
		rec, err := s.create(ctx, idx, "import", CreateParams{
			Content:    m.Content,
			Category:   m.Category,
			Summary:    m.Summary,
			Tags:       m.Tags,
			Confidence: &confidence,
		}, nil)
		var dup *DuplicateError
		if errors.As(err, &dup) {
			res.Skipped++
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("import %s: %w", m.ID, err)
		}
		if m.Status == model.StatusRetired {
			s.retire(idx, idx.Find(rec.ID))
		}
		res.Imported++
		res.IDs = append(res.IDs, rec.ID)
	}

	if res.Imported > 0 {
		if err := s.save(ctx, idx); err != nil {
			return nil, err
		}
	}

	s.log.Info().Int("imported", res.Imported).Int("skipped", res.Skipped).Msg("import")

	return res, nil
}
