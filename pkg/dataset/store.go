package dataset

import (
	"fmt"
	"sync"
)

// Store holds named datasets in registration order.
type Store struct {
	mu       sync.RWMutex
	order    []string
	byName   map[string]Dataset
	maxDepth int
}

// NewStore creates an empty store whose Open walks at most maxDepth ancestors.
func NewStore(maxDepth int) *Store {
	return &Store{
		byName:   make(map[string]Dataset),
		maxDepth: maxDepth,
	}
}

// Add registers ds under its name.
func (s *Store) Add(ds Dataset) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byName[ds.Name()]; exists {
		return fmt.Errorf("dataset %q already registered", ds.Name())
	}
	s.byName[ds.Name()] = ds
	s.order = append(s.order, ds.Name())
	return nil
}

// Get returns the dataset registered under name.
func (s *Store) Get(name string) (Dataset, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ds, ok := s.byName[name]
	return ds, ok
}

// Names returns the registered names in registration order.
func (s *Store) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.order...)
}

// Open looks up name and captures its lineage.
func (s *Store) Open(name string) (*Handle, error) {
	ds, ok := s.Get(name)
	if !ok {
		return nil, fmt.Errorf("open %q: %w", name, ErrNotFound)
	}
	return Open(ds, s.maxDepth)
}
