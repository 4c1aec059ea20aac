package wellness

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/pbaille/wellness/internal/store"
)

// ErrNotFound is returned when an entry or goal id does not exist
var ErrNotFound = errors.New("not found")

// Service runs the tracker flows on top of the record store.
// Each write runs its whole read-modify-write under mu.
type Service struct {
	store *store.Store
	loc   *time.Location
	now   func() time.Time

	mu sync.Mutex

	placeholders bool
	seed         uint64
}

// Option configures a Service
type Option func(*Service)

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLocation sets the calendar used for days and streaks
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithPlaceholderFactors fills unmeasured analytics factors with labelled
// placeholder values derived from seed.
func WithPlaceholderFactors(enabled bool, seed uint64) Option {
	return func(s *Service) {
		s.placeholders = enabled
		s.seed = seed
	}
}

// New creates a Service over st
func New(st *store.Store, opts ...Option) *Service {
	s := &Service{
		store: st,
		loc:   time.Local,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Location returns the calendar location
func (s *Service) Location() *time.Location {
	return s.loc
}

// load reads a collection; malformed data is logged and starts over empty
func load[T any](ctx context.Context, s *Service, key string) ([]T, error) {
	items, err := store.Load[T](ctx, s.store, key)
	if store.IsParseError(err) {
		log.Printf("wellness: %v; starting %s empty", err, key)
		return items, nil
	}
	return items, err
}

// save writes a collection. A *domain.StoreUnavailableError is passed
// through; the data is still visible for the rest of the session.
func save[T any](ctx context.Context, s *Service, key string, items []T) error {
	err := store.Save(ctx, s.store, key, items)
	if store.IsUnavailable(err) {
		log.Printf("wellness: %v; keeping %s in memory", err, key)
	}
	return err
}
