package memory

import (
	"context"
	"strings"

	"github.com/rcliao/agent-knowledge/internal/model"
)

// ConsolidateParams holds parameters for merging memories.
type ConsolidateParams struct {
	IDs        []string
	Content    string
	Summary    string
	Tags       []string
	Confidence *float64 // nil means the highest source confidence
}

// ConsolidateResult is the new record and the retired sources.
type ConsolidateResult struct {
	Record  *model.Record `json:"memory"`
	Sources []string      `json:"retired"`
}

// Consolidate merges the listed memories into a new one and retires them.
// The whole change is saved at once; if the new record is refused nothing
// is retired.
func (s *Service) Consolidate(ctx context.Context, p ConsolidateParams) (*ConsolidateResult, error) {
	if len(p.IDs) == 0 {
		return nil, &ValidationError{Action: ActionConsolidate, Field: "memory_id"}
	}
	if strings.TrimSpace(p.Content) == "" {
		return nil, &ValidationError{Action: ActionConsolidate, Field: "content"}
	}
	if strings.TrimSpace(p.Summary) == "" {
		return nil, &ValidationError{Action: ActionConsolidate, Field: "summary"}
	}
	ids := ParseIDs(strings.Join(p.IDs, ","))
	if len(ids) < 2 {
		return nil, ErrTooFewIDs
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	positions := make([]int, 0, len(ids))
	var missing []string
	for _, id := range ids {
		pos := idx.Find(id)
		if pos < 0 {
			missing = append(missing, id)
			continue
		}
		positions = append(positions, pos)
	}
	if len(missing) > 0 {
		return nil, &NotFoundError{IDs: missing}
	}

	sources := make([]model.Record, len(positions))
	for i, pos := range positions {
		sources[i] = idx.Memories[pos]
	}

	confidence := p.Confidence
	if confidence == nil {
		highest := maxConfidence(sources)
		confidence = &highest
	}

	tags := make([]string, 0)
	for _, src := range sources {
		tags = append(tags, src.Tags...)
	}
	tags = append(tags, p.Tags...)

	skip := make(map[string]bool, len(ids))
	for _, id := range ids {
		skip[id] = true
	}

	rec, err := s.create(ctx, idx, ActionCreate, CreateParams{
		Content:    p.Content,
		Category:   dominantCategory(sources),
		Summary:    p.Summary,
		Tags:       tags,
		Confidence: confidence,
	}, skip)
	if err != nil {
		return nil, err
	}

	for _, pos := range positions {
		s.retire(idx, pos)
	}

	if err := s.save(ctx, idx); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("action", ActionConsolidate).
		Str("id", rec.ID).
		Strs("sources", ids).
		Msg("memories consolidated")

	return &ConsolidateResult{Record: rec, Sources: ids}, nil
}

// dominantCategory returns the most frequent category; ties go to the one
// seen first in source order.
func dominantCategory(sources []model.Record) string {
	counts := map[string]int{}
	var order []string
	for _, src := range sources {
		if counts[src.Category] == 0 {
			order = append(order, src.Category)
		}
		counts[src.Category]++
	}
	best := ""
	bestN := 0
	for _, c := range order {
		if counts[c] > bestN {
			best, bestN = c, counts[c]
		}
	}
	return best
}

func maxConfidence(sources []model.Record) float64 {
	best := 0.0
	for i, src := range sources {
		if i == 0 || src.Confidence > best {
			best = src.Confidence
		}
	}
	return best
}
