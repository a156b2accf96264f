package memory

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rcliao/agent-knowledge/internal/model"
	"github.com/rcliao/agent-knowledge/internal/store"
)

var testEpoch = time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)

// testClock is a settable clock for the service.
type testClock struct{ t time.Time }

func (c *testClock) now() time.Time           { return c.t }
func (c *testClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestService(t *testing.T) (*Service, *testClock) {
	t.Helper()
	st, err := store.NewFileStore(filepath.Join(t.TempDir(), "knowledge"))
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return withClock(New(Config{Store: st}))
}

func newTestSQLiteService(t *testing.T) (*Service, *testClock) {
	t.Helper()
	st, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "knowledge.db"))
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return withClock(New(Config{Store: st}))
}

func withClock(s *Service) (*Service, *testClock) {
	c := &testClock{t: testEpoch}
	s.now = c.now
	return s, c
}

func ptr(f float64) *float64 { return &f }

func mustCreate(t *testing.T, s *Service, p CreateParams) *model.Record {
	t.Helper()
	rec, err := s.Create(context.Background(), p)
	if err != nil {
		t.Fatalf("create %q: %v", p.Summary, err)
	}
	return rec
}

func loadIndex(t *testing.T, s *Service) *model.Index {
	t.Helper()
	idx, err := s.store.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	return idx
}

func recordByID(t *testing.T, s *Service, id string) model.Record {
	t.Helper()
	idx := loadIndex(t, s)
	pos := idx.Find(id)
	if pos < 0 {
		t.Fatalf("record %s not in index", id)
	}
	return idx.Memories[pos]
}

func assertTotals(t *testing.T, s *Service) {
	t.Helper()
	idx := loadIndex(t, s)
	if idx.Metadata.TotalMemories != idx.ActiveCount() {
		t.Errorf("total_memories %d != active count %d", idx.Metadata.TotalMemories, idx.ActiveCount())
	}
}

func TestNew_NilLogger(t *testing.T) {
	s, _ := newTestService(t)
	// Logging on a Nop logger must not panic.
	s.log.Info().Msg("noop")
	if s.Store() == nil {
		t.Error("expected store")
	}
}
