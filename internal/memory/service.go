// Package memory implements the knowledge index operations: keyword search,
// content reads and the create/update/retire/consolidate lifecycle.
//
// Every operation loads the whole index from the store, mutates it in
// memory and saves it back before returning. Calls on one Service are
// serialised; separate processes sharing a store are not, and two of them
// writing at once can hand out the same id or lose an update.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/rcliao/agent-knowledge/internal/model"
	"github.com/rcliao/agent-knowledge/internal/store"
)

// Config holds the dependencies of a Service.
type Config struct {
	Store  store.Store
	Logger *zerolog.Logger
}

// Service runs memory operations against a store.
type Service struct {
	store store.Store
	log   zerolog.Logger
	now   func() time.Time
	mu    sync.Mutex
}

// New creates a Service. A nil Logger disables logging.
func New(cfg Config) *Service {
	log := zerolog.Nop()
	if cfg.Logger != nil {
		log = cfg.Logger.With().Str("component", "memory").Logger()
	}
	return &Service{
		store: cfg.Store,
		log:   log,
		now:   time.Now,
	}
}

// Store returns the underlying store.
func (s *Service) Store() store.Store {
	return s.store
}

func (s *Service) timestamp() string {
	return model.FormatTime(s.now())
}

// retire flips a record to retired in place. The caller saves.
func (s *Service) retire(idx *model.Index, pos int) {
	r := &idx.Memories[pos]
	r.Status = model.StatusRetired
	r.Confidence = model.RetiredConfidence
	r.Updated = s.timestamp()
}

func (s *Service) save(ctx context.Context, idx *model.Index) error {
	idx.Recount()
	return s.store.Save(ctx, idx)
}

func validConfidence(c *float64) error {
	if c != nil && (*c < 0 || *c > 1) {
		return ErrInvalidConfidence
	}
	return nil
}
