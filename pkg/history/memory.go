package history

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// MemoryStore keeps runs in a map. Runs are lost when the process exits.
type MemoryStore struct {
	runs map[string]*Run
	mu   sync.RWMutex
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		runs: make(map[string]*Run),
	}
}

// Record stores a copy of run.
func (s *MemoryStore) Record(_ context.Context, run *Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.runs[run.ID] = cloneRun(run)
	return nil
}

// Get returns a copy of the run with the given ID.
func (s *MemoryStore) Get(_ context.Context, id string) (*Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.runs[id]
	if !ok {
		return nil, fmt.Errorf("%q: %w", id, ErrNotFound)
	}
	return cloneRun(run), nil
}

// List returns copies of the matching runs, newest first.
func (s *MemoryStore) List(_ context.Context, q *Query) ([]*Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := s.sorted(q)

	start := 0
	if q != nil {
		start = q.Offset
	}
	if start >= len(matched) {
		return []*Run{}, nil
	}
	end := min(start+q.limit(), len(matched))

	results := make([]*Run, 0, end-start)
	for _, run := range matched[start:end] {
		results = append(results, cloneRun(run))
	}
	return results, nil
}

// Count returns the number of matching runs.
func (s *MemoryStore) Count(_ context.Context, q *Query) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, run := range s.runs {
		if q.matches(run) {
			n++
		}
	}
	return n, nil
}

// DeleteBefore removes runs started before cutoff.
func (s *MemoryStore) DeleteBefore(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted int64
	for id, run := range s.runs {
		if run.StartedAt.Before(cutoff) {
			delete(s.runs, id)
			deleted++
		}
	}
	return deleted, nil
}

// Trim keeps the newest keep runs.
func (s *MemoryStore) Trim(_ context.Context, keep int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := s.sorted(nil)
	if int64(len(all)) <= keep {
		return 0, nil
	}

	var deleted int64
	for _, run := range all[keep:] {
		delete(s.runs, run.ID)
		deleted++
	}
	return deleted, nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error {
	return nil
}

// sorted returns the matching runs newest first, ties broken by ID.
// Callers hold the lock.
func (s *MemoryStore) sorted(q *Query) []*Run {
	var matched []*Run
	for _, run := range s.runs {
		if q.matches(run) {
			matched = append(matched, run)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if !a.StartedAt.Equal(b.StartedAt) {
			return a.StartedAt.After(b.StartedAt)
		}
		return a.ID > b.ID
	})
	return matched
}

func cloneRun(run *Run) *Run {
	c := *run
	if run.Degraded != nil {
		c.Degraded = append([]string(nil), run.Degraded...)
	}
	return &c
}
