package repository

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/primehealth/scorecard/internal/domain/scorecard"
)

// MemoryStore implements Store with an in-process map of append-only
// per-subject histories. The latest pointer is simply the tail of the
// history slice. Concurrent Append calls for the same subject serialize on
// the store mutex; callers that need at-most-one-writer semantics across
// processes must get them from a real persistence layer.
type MemoryStore struct {
	mu      sync.RWMutex
	history map[string][]Record
	newID   func() string
}

// MemoryOption applies a configuration option to the MemoryStore.
type MemoryOption func(*MemoryStore)

// WithIDFunc replaces the record ID generator (UUIDs by default); tests use
// this to pin deterministic IDs.
func WithIDFunc(fn func() string) MemoryOption {
	return func(s *MemoryStore) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		history: make(map[string][]Record),
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetLatest returns the tail of a subject's history.
func (s *MemoryStore) GetLatest(_ context.Context, subjectID string) (Record, error) {
	if subjectID == "" {
		return Record{}, ErrEmptySubjectID
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	recs := s.history[subjectID]
	if len(recs) == 0 {
		return Record{}, ErrNotFound
	}
	return recs[len(recs)-1], nil
}

// Append stores a new record at the tail of the subject's history.
func (s *MemoryStore) Append(_ context.Context, subjectID string, card scorecard.Scorecard) (Record, error) {
	if subjectID == "" {
		return Record{}, ErrEmptySubjectID
	}
	rec := Record{
		ID:        s.newID(),
		SubjectID: subjectID,
		Card:      card,
	}
	s.mu.Lock()
	s.history[subjectID] = append(s.history[subjectID], rec)
	s.mu.Unlock()
	return rec, nil
}

// History returns a copy of the subject's records, oldest first.
func (s *MemoryStore) History(_ context.Context, subjectID string) ([]Record, error) {
	if subjectID == "" {
		return nil, ErrEmptySubjectID
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	recs := s.history[subjectID]
	if len(recs) == 0 {
		return nil, ErrNotFound
	}
	out := make([]Record, len(recs))
	copy(out, recs)
	return out, nil
}

// Count returns the number of subjects with at least one record.
func (s *MemoryStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.history)
}
