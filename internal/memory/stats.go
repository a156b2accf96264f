package memory

import (
	"context"
	"sort"

	"github.com/rcliao/agent-knowledge/internal/model"
)

// Stats holds knowledge index statistics.
type Stats struct {
	Location        string          `json:"location"`
	Created         string          `json:"created"`
	LastUpdated     string          `json:"last_updated"`
	NextID          int             `json:"next_id"`
	TotalMemories   int             `json:"total_memories"`
	ActiveMemories  int             `json:"active_memories"`
	RetiredMemories int             `json:"retired_memories"`
	TotalAccesses   int             `json:"total_accesses"`
	Categories      []CategoryStats `json:"categories"`
}

// CategoryStats holds per-category counts.
type CategoryStats struct {
	Category string `json:"category"`
	Active   int    `json:"active"`
	Retired  int    `json:"retired"`
}

// Stats returns index statistics.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	st := &Stats{
		Location:      s.store.Location(),
		Created:       idx.Metadata.Created,
		LastUpdated:   idx.Metadata.LastUpdated,
		NextID:        idx.Metadata.NextID,
		TotalMemories: idx.Metadata.TotalMemories,
		Categories:    []CategoryStats{},
	}

	byCategory := map[string]*CategoryStats{}
	for _, r := range idx.Memories {
		cs, ok := byCategory[r.Category]
		if !ok {
			cs = &CategoryStats{Category: r.Category}
			byCategory[r.Category] = cs
		}
		if r.Status == model.StatusActive {
			st.ActiveMemories++
			cs.Active++
		} else {
			st.RetiredMemories++
			cs.Retired++
		}
		st.TotalAccesses += r.AccessCount
	}

	for _, cs := range byCategory {
		st.Categories = append(st.Categories, *cs)
	}
	sort.Slice(st.Categories, func(i, j int) bool {
		a, b := st.Categories[i], st.Categories[j]
		if a.Active+a.Retired != b.Active+b.Retired {
			return a.Active+a.Retired > b.Active+b.Retired
		}
		return a.Category < b.Category
	})

	return st, nil
}
