package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/rcliao/agent-knowledge/internal/model"
)

// DefaultListLimit is used when ListParams.Limit is not positive.
const DefaultListLimit = 20

// ListParams holds parameters for listing memories.
type ListParams struct {
	Category string
	Status   string // active (default), retired or all
	Tags     []string
	Limit    int
}

// List returns records matching the filters, most recently updated first.
// Unlike Search it does not touch access counts or save the index.
func (s *Service) List(ctx context.Context, p ListParams) ([]model.Record, error) {
	status := p.Status
	if status == "" {
		status = model.StatusActive
	}
	if !model.ValidStatuses[status] {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	limit := p.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	records := []model.Record{}
	for _, r := range idx.Memories {
		if status != model.StatusAll && r.Status != status {
			continue
		}
		if p.Category != "" && r.Category != p.Category {
			continue
		}
		if !hasTags(r, p.Tags) {
			continue
		}
		records = append(records, r)
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Updated > records[j].Updated
	})
	if len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

func hasTags(r model.Record, want []string) bool {
	have := wordSet(r.Tags)
	for _, t := range want {
		if !have[t] {
			return false
		}
	}
	return true
}
