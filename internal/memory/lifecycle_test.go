package memory

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rcliao/agent-knowledge/internal/model"
	"github.com/rcliao/agent-knowledge/internal/store"
)

func TestCreate_DarkModeScenario(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService(t)

	rec, err := s.Create(ctx, CreateParams{
		Content: "Dark mode preferred", Category: "user_profile", Summary: "User UI dark mode",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if rec.ID != "MEMORY-001" {
		t.Errorf("expected MEMORY-001, got %s", rec.ID)
	}
	if rec.FilePath != "memory-001.md" {
		t.Errorf("expected memory-001.md, got %s", rec.FilePath)
	}
	if rec.Confidence != model.DefaultConfidence {
		t.Errorf("expected default confidence, got %v", rec.Confidence)
	}
	if rec.Status != model.StatusActive || rec.AccessCount != 0 {
		t.Errorf("unexpected new record state: %+v", rec)
	}
	if rec.Created != rec.Updated || rec.Created != model.FormatTime(testEpoch) {
		t.Errorf("expected created == updated == now, got %s / %s", rec.Created, rec.Updated)
	}

	_, err = s.Create(ctx, CreateParams{
		Content: "Dark mode preferred", Category: "user_profile", Summary: "User UI dark mode",
	})
	var dup *DuplicateError
	if !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateError, got %v", err)
	}
	if dup.ID != "MEMORY-001" || dup.Summary != "User UI dark mode" {
		t.Errorf("unexpected duplicate: %+v", dup)
	}

	idx := loadIndex(t, s)
	if len(idx.Memories) != 1 {
		t.Errorf("expected 1 record after refused create, got %d", len(idx.Memories))
	}
	if idx.Metadata.NextID != 2 {
		t.Errorf("expected next_id 2, got %d", idx.Metadata.NextID)
	}
}

func TestCreate_Validation(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService(t)

	tests := []struct {
		name  string
		p     CreateParams
		field string
	}{
		{"no content", CreateParams{Category: "facts", Summary: "s"}, "content"},
		{"blank content", CreateParams{Content: "   ", Category: "facts", Summary: "s"}, "content"},
		{"no category", CreateParams{Content: "c", Summary: "s"}, "category"},
		{"no summary", CreateParams{Content: "c", Category: "facts"}, "summary"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Create(ctx, tt.p)
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if ve.Field != tt.field || ve.Action != ActionCreate {
				t.Errorf("expected %s/create, got %s/%s", tt.field, ve.Field, ve.Action)
			}
		})
	}

	_, err := s.Create(ctx, CreateParams{Content: "c", Category: "facts", Summary: "s", Confidence: ptr(1.5)})
	if !errors.Is(err, ErrInvalidConfidence) {
		t.Errorf("expected ErrInvalidConfidence, got %v", err)
	}

	if n := len(loadIndex(t, s).Memories); n != 0 {
		t.Errorf("expected no records, got %d", n)
	}
}

func TestCreate_TagsAndConfidence(t *testing.T) {
	s, _ := newTestService(t)

	rec := mustCreate(t, s, CreateParams{
		Content: "Quarterly revenue excludes refunds", Category: "business_rules",
		Summary: "Revenue rule", Tags: []string{" finance", "rules ", "finance", ""},
		Confidence: ptr(0.95),
	})
	if len(rec.Tags) != 2 || rec.Tags[0] != "finance" || rec.Tags[1] != "rules" {
		t.Errorf("expected [finance rules], got %v", rec.Tags)
	}
	if rec.Confidence != 0.95 {
		t.Errorf("expected 0.95, got %v", rec.Confidence)
	}
}

func TestCreate_IDsNeverReused(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService(t)

	a := mustCreate(t, s, CreateParams{Content: "alpha one", Category: "facts", Summary: "first fact"})
	b := mustCreate(t, s, CreateParams{Content: "beta two", Category: "facts", Summary: "second fact"})
	if _, err := s.Retire(ctx, a.ID); err != nil {
		t.Fatalf("retire: %v", err)
	}
	c := mustCreate(t, s, CreateParams{Content: "gamma three", Category: "facts", Summary: "third fact"})
	s.Retire(ctx, c.ID)
	d := mustCreate(t, s, CreateParams{Content: "delta four", Category: "facts", Summary: "fourth fact"})

	got := []string{a.ID, b.ID, c.ID, d.ID}
	want := []string{"MEMORY-001", "MEMORY-002", "MEMORY-003", "MEMORY-004"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("create %d: expected %s, got %s", i, want[i], got[i])
		}
	}

	idx := loadIndex(t, s)
	if idx.Metadata.NextID != 5 {
		t.Errorf("expected next_id 5, got %d", idx.Metadata.NextID)
	}
	if idx.Metadata.TotalMemories != 2 {
		t.Errorf("expected 2 active, got %d", idx.Metadata.TotalMemories)
	}
}

func TestCreate_DuplicateGuardIgnoresRetired(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService(t)

	a := mustCreate(t, s, CreateParams{Content: "Dark mode preferred", Category: "user_profile", Summary: "User UI dark mode"})
	s.Retire(ctx, a.ID)

	b, err := s.Create(ctx, CreateParams{Content: "Dark mode preferred", Category: "user_profile", Summary: "User UI dark mode"})
	if err != nil {
		t.Fatalf("expected create to succeed once the match is retired: %v", err)
	}
	if b.ID != "MEMORY-002" {
		t.Errorf("expected MEMORY-002, got %s", b.ID)
	}
}

func TestSimilarity(t *testing.T) {
	tests := []struct {
		content, summary string
		want             float64
	}{
		{"Dark mode preferred", "User UI dark mode", 2.0 / 3.0},
		{"dark dark mode", "dark mode", 1},
		{"", "anything", 0},
		{"one two three four five", "six", 0},
	}
	for _, tt := range tests {
		got := Similarity(tt.content, tt.summary)
		if diff := got - tt.want; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("Similarity(%q, %q) = %v, want %v", tt.content, tt.summary, got, tt.want)
		}
	}

	// Only the first 20 tokens count.
	long := "a b c d e f g h i j k l m n o p q r s t match match match"
	if got := Similarity(long, "match"); got != 0 {
		t.Errorf("expected tokens past 20 to be ignored, got %v", got)
	}
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	s, clock := newTestService(t)

	rec := mustCreate(t, s, CreateParams{
		Content: "Use PostgreSQL 15", Category: "technical_knowledge", Summary: "Database version",
		Tags: []string{"db"},
	})
	clock.advance(time.Hour)

	got, err := s.Update(ctx, UpdateParams{ID: rec.ID, Content: "Use PostgreSQL 16", Summary: "Database version pin"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.FilePath != rec.FilePath {
		t.Errorf("locator changed: %s -> %s", rec.FilePath, got.FilePath)
	}
	if got.Summary != "Database version pin" {
		t.Errorf("summary not updated: %s", got.Summary)
	}
	if len(got.Tags) != 1 || got.Tags[0] != "db" {
		t.Errorf("tags should be untouched, got %v", got.Tags)
	}
	if got.Confidence != model.DefaultConfidence {
		t.Errorf("confidence should be untouched, got %v", got.Confidence)
	}
	if got.Updated != model.FormatTime(clock.t) || got.Created != rec.Created {
		t.Errorf("unexpected timestamps: created %s updated %s", got.Created, got.Updated)
	}

	content, _ := s.store.ReadContent(ctx, rec.FilePath)
	if content != "Use PostgreSQL 16" {
		t.Errorf("content not rewritten: %q", content)
	}

	clock.advance(time.Hour)
	got, err = s.Update(ctx, UpdateParams{ID: rec.ID, Tags: []string{"db", "infra"}, Confidence: ptr(0.5)})
	if err != nil {
		t.Fatalf("update tags: %v", err)
	}
	if len(got.Tags) != 2 || got.Confidence != 0.5 {
		t.Errorf("expected tags+confidence update, got %+v", got)
	}
	content, _ = s.store.ReadContent(ctx, rec.FilePath)
	if content != "Use PostgreSQL 16" {
		t.Errorf("content should be untouched, got %q", content)
	}

	// No fields at all still refreshes updated.
	clock.advance(time.Hour)
	got, _ = s.Update(ctx, UpdateParams{ID: rec.ID})
	if got.Updated != model.FormatTime(clock.t) {
		t.Errorf("expected updated refresh, got %s", got.Updated)
	}
}

func TestUpdate_NotFoundLeavesStoreUnchanged(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService(t)
	mustCreate(t, s, CreateParams{Content: "something", Category: "facts", Summary: "a fact"})

	indexPath := filepath.Join(s.store.Location(), store.IndexFileName)
	before, _ := os.ReadFile(indexPath)

	_, err := s.Update(ctx, UpdateParams{ID: "MEMORY-999", Content: "x"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	after, _ := os.ReadFile(indexPath)
	if !bytes.Equal(before, after) {
		t.Error("index changed after failed update")
	}
	if _, err := os.Stat(filepath.Join(s.store.Location(), "memory-999.md")); !os.IsNotExist(err) {
		t.Error("expected no content file for unknown id")
	}

	var ve *ValidationError
	if _, err := s.Update(ctx, UpdateParams{}); !errors.As(err, &ve) || ve.Field != "memory_id" {
		t.Errorf("expected memory_id validation error, got %v", err)
	}
}

func TestRetire_Idempotent(t *testing.T) {
	ctx := context.Background()
	s, clock := newTestService(t)
	rec := mustCreate(t, s, CreateParams{Content: "old fact", Category: "facts", Summary: "stale", Confidence: ptr(0.9)})

	clock.advance(time.Minute)
	first, err := s.Retire(ctx, rec.ID)
	if err != nil {
		t.Fatalf("retire: %v", err)
	}
	if first.Status != model.StatusRetired || first.Confidence != model.RetiredConfidence {
		t.Errorf("unexpected retired state: %+v", first)
	}

	clock.advance(time.Minute)
	second, err := s.Retire(ctx, rec.ID)
	if err != nil {
		t.Fatalf("retire again: %v", err)
	}
	if second.Status != model.StatusRetired || second.Confidence != model.RetiredConfidence {
		t.Errorf("unexpected state after second retire: %+v", second)
	}
	if second.Updated == first.Updated {
		t.Error("expected second retire to refresh updated")
	}

	content, err := s.store.ReadContent(ctx, rec.FilePath)
	if err != nil || content != "old fact" {
		t.Errorf("content should survive retirement: %q %v", content, err)
	}
	assertTotals(t, s)

	if _, err := s.Retire(ctx, "MEMORY-404"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestManage_Dispatch(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService(t)

	res, err := s.Manage(ctx, ManageParams{
		Action: ActionCreate, Content: "Dark mode preferred", Category: "user_profile",
		Summary: "User UI dark mode", Tags: "preferences, ui, preferences",
	})
	if err != nil {
		t.Fatalf("manage create: %v", err)
	}
	if res.Record.ID != "MEMORY-001" || len(res.Record.Tags) != 2 {
		t.Errorf("unexpected create result: %+v", res.Record)
	}

	res, err = s.Manage(ctx, ManageParams{Action: ActionUpdate, MemoryID: "MEMORY-001", Tags: "ui"})
	if err != nil {
		t.Fatalf("manage update: %v", err)
	}
	if len(res.Record.Tags) != 1 || res.Record.Tags[0] != "ui" {
		t.Errorf("expected tags [ui], got %v", res.Record.Tags)
	}

	res, err = s.Manage(ctx, ManageParams{Action: ActionUpdate, MemoryID: "MEMORY-001"})
	if err != nil {
		t.Fatalf("manage update without tags: %v", err)
	}
	if len(res.Record.Tags) != 1 {
		t.Errorf("empty tags string should not clear tags, got %v", res.Record.Tags)
	}

	if _, err := s.Manage(ctx, ManageParams{Action: ActionRetire, MemoryID: "MEMORY-001"}); err != nil {
		t.Fatalf("manage retire: %v", err)
	}

	var ua *UnknownActionError
	if _, err := s.Manage(ctx, ManageParams{Action: "delete"}); !errors.As(err, &ua) || ua.Action != "delete" {
		t.Errorf("expected UnknownActionError, got %v", err)
	}

	var ve *ValidationError
	if _, err := s.Manage(ctx, ManageParams{Action: ActionConsolidate, Content: "c", Summary: "s"}); !errors.As(err, &ve) || ve.Field != "memory_id" {
		t.Errorf("expected memory_id validation error, got %v", err)
	}
	if _, err := s.Manage(ctx, ManageParams{Action: ActionRetire}); !errors.As(err, &ve) || ve.Action != ActionRetire {
		t.Errorf("expected retire validation error, got %v", err)
	}
}

func TestParseIDs(t *testing.T) {
	got := ParseIDs(" MEMORY-001, MEMORY-002,,MEMORY-001 ")
	if len(got) != 2 || got[0] != "MEMORY-001" || got[1] != "MEMORY-002" {
		t.Errorf("unexpected ids: %v", got)
	}
	if len(ParseIDs("")) != 0 {
		t.Error("expected no ids from empty string")
	}
}
