package memory

import (
	"context"
	"strings"

	"github.com/rcliao/agent-knowledge/internal/model"
)

// Manage actions.
const (
	ActionCreate      = "create"
	ActionUpdate      = "update"
	ActionRetire      = "retire"
	ActionConsolidate = "consolidate"
)

// CreateParams holds parameters for creating a memory.
type CreateParams struct {
	Content    string
	Category   string
	Summary    string
	Tags       []string
	Confidence *float64 // nil means model.DefaultConfidence
}

// UpdateParams holds parameters for updating a memory. Empty strings and
// nil values leave the field untouched.
type UpdateParams struct {
	ID         string
	Content    string
	Summary    string
	Tags       []string
	Confidence *float64
}

// ManageParams is the flat argument set of the manage_memory tool.
type ManageParams struct {
	Action     string
	Content    string
	MemoryID   string // comma-separated for consolidate
	Category   string
	Tags       string // comma-separated
	Summary    string
	Confidence *float64
}

// ManageResult describes what a Manage call did.
type ManageResult struct {
	Action  string
	Record  *model.Record
	Sources []string // consolidate only
}

// Manage dispatches a lifecycle action.
func (s *Service) Manage(ctx context.Context, p ManageParams) (*ManageResult, error) {
	var tags []string
	if strings.TrimSpace(p.Tags) != "" {
		tags = model.ParseTags(p.Tags)
	}

	switch p.Action {
	case ActionCreate:
		rec, err := s.Create(ctx, CreateParams{
			Content:    p.Content,
			Category:   p.Category,
			Summary:    p.Summary,
			Tags:       tags,
			Confidence: p.Confidence,
		})
		if err != nil {
			return nil, err
		}
		return &ManageResult{Action: p.Action, Record: rec}, nil

	case ActionUpdate:
		rec, err := s.Update(ctx, UpdateParams{
			ID:         p.MemoryID,
			Content:    p.Content,
			Summary:    p.Summary,
			Tags:       tags,
			Confidence: p.Confidence,
		})
		if err != nil {
			return nil, err
		}
		return &ManageResult{Action: p.Action, Record: rec}, nil

	case ActionRetire:
		rec, err := s.Retire(ctx, p.MemoryID)
		if err != nil {
			return nil, err
		}
		return &ManageResult{Action: p.Action, Record: rec}, nil

	case ActionConsolidate:
		if p.MemoryID == "" {
			return nil, &ValidationError{Action: ActionConsolidate, Field: "memory_id"}
		}
		res, err := s.Consolidate(ctx, ConsolidateParams{
			IDs:        ParseIDs(p.MemoryID),
			Content:    p.Content,
			Summary:    p.Summary,
			Tags:       tags,
			Confidence: p.Confidence,
		})
		if err != nil {
			return nil, err
		}
		return &ManageResult{Action: p.Action, Record: res.Record, Sources: res.Sources}, nil

	default:
		return nil, &UnknownActionError{Action: p.Action}
	}
}

// Create stores a new memory. It is refused with a DuplicateError when the
// content looks like the summary of an existing active memory.
func (s *Service) Create(ctx context.Context, p CreateParams) (*model.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	rec, err := s.create(ctx, idx, ActionCreate, p, nil)
	if err != nil {
		return nil, err
	}

	if err := s.save(ctx, idx); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("action", ActionCreate).
		Str("id", rec.ID).
		Str("category", rec.Category).
		Msg("memory created")

	return rec, nil
}

// create validates p, writes the content blob and appends the record to
// idx. Records in skip are ignored by the duplicate guard. The caller saves.
func (s *Service) create(ctx context.Context, idx *model.Index, action string, p CreateParams, skip map[string]bool) (*model.Record, error) {
	if strings.TrimSpace(p.Content) == "" {
		return nil, &ValidationError{Action: action, Field: "content"}
	}
	if strings.TrimSpace(p.Category) == "" {
		return nil, &ValidationError{Action: action, Field: "category"}
	}
	if strings.TrimSpace(p.Summary) == "" {
		return nil, &ValidationError{Action: action, Field: "summary"}
	}
	if err := validConfidence(p.Confidence); err != nil {
		return nil, err
	}

	for _, m := range idx.Memories {
		if m.Status != model.StatusActive || skip[m.ID] {
			continue
		}
		if sim := Similarity(p.Content, m.Summary); sim > duplicateThreshold {
			s.log.Warn().
				Str("conflict", m.ID).
				Float64("similarity", sim).
				Msg("create refused: similar memory exists")
			return nil, &DuplicateError{ID: m.ID, Summary: m.Summary, Similarity: sim}
		}
	}

	if idx.Metadata.NextID < 1 {
		idx.Metadata.NextID = 1
	}
	id := model.FormatID(idx.Metadata.NextID)
	locator := model.LocatorFor(id)

	if err := s.store.WriteContent(ctx, locator, p.Content); err != nil {
		return nil, err
	}

	confidence := model.DefaultConfidence
	if p.Confidence != nil {
		confidence = *p.Confidence
	}

	now := s.timestamp()
	idx.Memories = append(idx.Memories, model.Record{
		ID:          id,
		FilePath:    locator,
		Category:    p.Category,
		Tags:        model.DedupTags(p.Tags),
		Summary:     p.Summary,
		Confidence:  confidence,
		AccessCount: 0,
		Status:      model.StatusActive,
		Created:     now,
		Updated:     now,
	})
	idx.Metadata.NextID++
	idx.Recount()

	rec := idx.Memories[len(idx.Memories)-1]
	return &rec, nil
}

// Update patches an existing memory. The content locator never changes.
func (s *Service) Update(ctx context.Context, p UpdateParams) (*model.Record, error) {
	if p.ID == "" {
		return nil, &ValidationError{Action: ActionUpdate, Field: "memory_id"}
	}
	if err := validConfidence(p.Confidence); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	pos := idx.Find(p.ID)
	if pos < 0 {
		return nil, &NotFoundError{IDs: []string{p.ID}}
	}
	r := &idx.Memories[pos]

	if p.Content != "" {
		if err := s.store.WriteContent(ctx, r.FilePath, p.Content); err != nil {
			return nil, err
		}
	}

	r.Updated = s.timestamp()
	if p.Tags != nil {
		r.Tags = model.DedupTags(p.Tags)
	}
	if p.Summary != "" {
		r.Summary = p.Summary
	}
	if p.Confidence != nil {
		r.Confidence = *p.Confidence
	}
	rec := *r

	if err := s.save(ctx, idx); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("action", ActionUpdate).
		Str("id", rec.ID).
		Bool("content", p.Content != "").
		Msg("memory updated")

	return &rec, nil
}

// Retire marks a memory retired and dampens its confidence. The content
// blob is kept. Retiring twice only refreshes the updated timestamp.
func (s *Service) Retire(ctx context.Context, id string) (*model.Record, error) {
	if id == "" {
		return nil, &ValidationError{Action: ActionRetire, Field: "memory_id"}
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
	s.retire(idx, pos)
	rec := idx.Memories[pos]

	if err := s.save(ctx, idx); err != nil {
		return nil, err
	}

	s.log.Info().Str("action", ActionRetire).Str("id", id).Msg("memory retired")

	return &rec, nil
}

// ParseIDs splits a comma-separated id list, trimming entries and dropping
// empties and repeats.
func ParseIDs(s string) []string {
	var ids []string
	seen := map[string]bool{}
	for _, id := range strings.Split(s, ",") {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}
