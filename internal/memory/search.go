package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/rcliao/agent-knowledge/internal/model"
)

// DefaultSearchLimit is used when SearchParams.Limit is not positive.
const DefaultSearchLimit = 5

// Ranking weights.
const (
	popularityWeight = 0.1
	recencyWeight    = 0.5
	recencyHorizon   = 365.0 // days
)

// SearchParams holds parameters for searching the index.
type SearchParams struct {
	Query    string
	Category string
	Status   string // active (default), retired or all
	Limit    int
}

// SearchHit is a record with its relevance score. Content is never included.
type SearchHit struct {
	model.Record
	RelevanceScore float64 `json:"relevance_score"`
}

// SearchResult is the ranked outcome of a search.
type SearchResult struct {
	Indexed       int         `json:"indexed"`
	TotalSearched int         `json:"total_searched"`
	Hits          []SearchHit `json:"results"`
}

// Search ranks records against the query keywords. Each returned record's
// access count is incremented and the index is saved once.
func (s *Service) Search(ctx context.Context, p SearchParams) (*SearchResult, error) {
	status := p.Status
	if status == "" {
		status = model.StatusActive
	}
	if !model.ValidStatuses[status] {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	limit := p.Limit
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	keywords := Keywords(p.Query)
	now := s.now()

	type scored struct {
		pos   int
		score float64
	}
	var candidates []scored
	searched := 0

	for i, r := range idx.Memories {
		if status != model.StatusAll && r.Status != status {
			continue
		}
		if p.Category != "" && r.Category != p.Category {
			continue
		}
		searched++

		score, ok := Relevance(r, keywords, now)
		if !ok {
			continue
		}
		candidates = append(candidates, scored{pos: i, score: score})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	if len(candidates) > 0 {
		for _, c := range candidates {
			idx.Memories[c.pos].AccessCount++
		}
		if err := s.save(ctx, idx); err != nil {
			return nil, err
		}
	}

	result := &SearchResult{
		Indexed:       len(idx.Memories),
		TotalSearched: searched,
		Hits:          make([]SearchHit, 0, len(candidates)),
	}
	for _, c := range candidates {
		rec := idx.Memories[c.pos]
		if rec.Tags == nil {
			rec.Tags = []string{}
		}
		result.Hits = append(result.Hits, SearchHit{
			Record:         rec,
			RelevanceScore: math.Round(c.score*100) / 100,
		})
	}

	s.log.Debug().
		Str("query", p.Query).
		Str("status", status).
		Int("searched", searched).
		Int("hits", len(result.Hits)).
		Msg("search")

	return result, nil
}

// Relevance scores r against keywords. The boolean is false when no keyword
// matched or the final score is not positive; such records are never
// returned regardless of their boosts.
//
// score = matches*confidence + accessCount*0.1 + max(0, 1-ageDays/365)*0.5
func Relevance(r model.Record, keywords []string, now time.Time) (float64, bool) {
	text := strings.ToLower(r.Category + " " + strings.Join(r.Tags, " ") + " " + r.Summary)

	matches := 0
	for _, kw := range keywords {
		matches += strings.Count(text, kw)
	}
	if matches == 0 {
		return 0, false
	}

	score := float64(matches) * r.Confidence
	score += float64(r.AccessCount) * popularityWeight
	score += recencyBoost(r, now)

	return score, score > 0
}

// recencyBoost is zero for records older than a year and for records whose
// timestamp does not parse.
func recencyBoost(r model.Record, now time.Time) float64 {
	ts := r.Updated
	if ts == "" {
		ts = r.Created
	}
	if ts == "" {
		return 0
	}
	t, err := model.ParseTime(ts)
	if err != nil {
		return 0
	}
	days := math.Floor(now.Sub(t).Hours() / 24)
	return math.Max(0, 1-days/recencyHorizon) * recencyWeight
}
