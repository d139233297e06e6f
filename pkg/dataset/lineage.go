package dataset

import (
	"errors"
	"fmt"
)

// DefaultMaxLineageDepth bounds ancestry walks when no limit is configured.
const DefaultMaxLineageDepth = 64

var (
	// ErrLocked is returned when a dataset is already locked for export.
	ErrLocked = errors.New("dataset is locked")

	// ErrNotFound is returned when a named dataset does not exist.
	ErrNotFound = errors.New("dataset not found")

	// ErrLineageCycle is returned when a dataset is its own ancestor.
	ErrLineageCycle = errors.New("dataset lineage contains a cycle")

	// ErrLineageTooDeep is returned when the ancestry exceeds the depth limit.
	ErrLineageTooDeep = errors.New("dataset lineage exceeds depth limit")
)

// Handle is an opened dataset with its ancestry captured at open time.
type Handle struct {
	// Dataset is the opened dataset.
	Dataset Dataset

	// Lineage lists the dataset itself followed by its ancestors, nearest
	// first.
	Lineage []Dataset
}

// Open captures the lineage of ds. The walk is bounded by maxDepth
// ancestors (DefaultMaxLineageDepth when maxDepth <= 0) and fails on cycles.
func Open(ds Dataset, maxDepth int) (*Handle, error) {
	if ds == nil {
		return nil, fmt.Errorf("open: %w", ErrNotFound)
	}
	if maxDepth <= 0 {
		maxDepth = DefaultMaxLineageDepth
	}

	lineage := []Dataset{ds}
	seen := map[Dataset]struct{}{ds: {}}
	for d := ds.Parent(); d != nil; d = d.Parent() {
		if _, dup := seen[d]; dup {
			return nil, fmt.Errorf("open %q: %w", ds.Name(), ErrLineageCycle)
		}
		if len(lineage) > maxDepth {
			return nil, fmt.Errorf("open %q: %w (%d)", ds.Name(), ErrLineageTooDeep, maxDepth)
		}
		seen[d] = struct{}{}
		lineage = append(lineage, d)
	}

	return &Handle{Dataset: ds, Lineage: lineage}, nil
}

// Acquire takes the advisory export lock on ds. The returned release
// function must be called on every exit path, typically via defer.
func Acquire(ds Dataset) (release func(), err error) {
	if tl, ok := ds.(tryLocker); ok {
		if !tl.TryLock() {
			return func() {}, fmt.Errorf("acquire %q: %w", ds.Name(), ErrLocked)
		}
		return func() { ds.SetLocked(false) }, nil
	}
	if ds.Locked() {
		return func() {}, fmt.Errorf("acquire %q: %w", ds.Name(), ErrLocked)
	}
	ds.SetLocked(true)
	return func() { ds.SetLocked(false) }, nil
}

// tryLocker is implemented by datasets that can test-and-set their lock
// atomically.
type tryLocker interface {
	TryLock() bool
}
