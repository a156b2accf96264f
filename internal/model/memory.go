// Package model defines the knowledge index data types.
package model

import (
	"fmt"
	"strings"
	"time"
)

// Record statuses.
const (
	StatusActive  = "active"
	StatusRetired = "retired"
	StatusAll     = "all"
)

const (
	// DefaultConfidence is assigned on create when no confidence is given.
	DefaultConfidence = 0.8
	// RetiredConfidence replaces a record's confidence when it is retired.
	RetiredConfidence = 0.3
)

// TimeLayout is the on-disk timestamp format (UTC, microsecond precision).
const TimeLayout = "2006-01-02T15:04:05.000000Z"

// Record is one entry of the knowledge index. Content lives in a separate
// blob referenced by FilePath.
type Record struct {
	ID          string   `json:"memory_id"`
	FilePath    string   `json:"file_path"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
	Summary     string   `json:"summary"`
	Confidence  float64  `json:"confidence"`
	AccessCount int      `json:"access_count"`
	Status      string   `json:"status"`
	Created     string   `json:"created"`
	Updated     string   `json:"updated"`
}

// Metadata is the index header.
type Metadata struct {
	Created       string `json:"created"`
	LastUpdated   string `json:"last_updated"`
	TotalMemories int    `json:"total_memories"`
	NextID        int    `json:"next_id"`
}

// Index is the unit read and written on every operation.
type Index struct {
	Metadata Metadata `json:"metadata"`
	Memories []Record `json:"memories"`
}

// ConventionalCategories are the categories the memory prompt suggests.
// They are not enforced.
var ConventionalCategories = []string{
	"user_profile",
	"technical_knowledge",
	"business_rules",
	"facts",
	"conversation_context",
}

// ValidStatuses are the accepted status filters.
var ValidStatuses = map[string]bool{
	StatusActive:  true,
	StatusRetired: true,
	StatusAll:     true,
}

// NewIndex returns an empty, well-formed index stamped with now.
func NewIndex(now time.Time) *Index {
	ts := FormatTime(now)
	return &Index{
		Metadata: Metadata{
			Created:     ts,
			LastUpdated: ts,
			NextID:      1,
		},
		Memories: []Record{},
	}
}

// FormatID renders a sequence number as a record id.
func FormatID(n int) string {
	return fmt.Sprintf("MEMORY-%03d", n)
}

// LocatorFor derives the content locator of a record id.
func LocatorFor(id string) string {
	return strings.ToLower(id) + ".md"
}

// FormatTime renders t in TimeLayout.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// ParseTime accepts RFC 3339 timestamps, with or without a zone.
// Zone-less values are read as UTC.
func ParseTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02T15:04:05.999999999", s)
}

// Find returns the position of id in the index, or -1.
func (idx *Index) Find(id string) int {
	for i := range idx.Memories {
		if idx.Memories[i].ID == id {
			return i
		}
	}
	return -1
}

// ActiveCount counts records with status active.
func (idx *Index) ActiveCount() int {
	n := 0
	for _, m := range idx.Memories {
		if m.Status == StatusActive {
			n++
		}
	}
	return n
}

// Recount refreshes TotalMemories from the records.
func (idx *Index) Recount() {
	idx.Metadata.TotalMemories = idx.ActiveCount()
}

// ParseTags splits a comma-separated tag string. Tags are trimmed, empty
// entries dropped and duplicates collapsed in first-seen order.
func ParseTags(s string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{}
	}
	return DedupTags(strings.Split(s, ","))
}

// DedupTags trims tags and removes empties and duplicates, keeping order.
func DedupTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := map[string]bool{}
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
