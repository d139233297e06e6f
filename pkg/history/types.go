package history

import (
	"context"
	"time"

	"cytosight/csvexport/pkg/export"
)

// Run is one recorded export.
type Run struct {
	ID             string    `json:"id"`
	Dataset        string    `json:"dataset"`
	Kind           string    `json:"kind"`
	Outcome        string    `json:"outcome"`
	Path           string    `json:"path,omitempty"`
	PropertiesPath string    `json:"properties_path,omitempty"`
	SidecarSkipped bool      `json:"sidecar_skipped,omitempty"`
	Rows           int       `json:"rows"`
	Columns        int       `json:"columns"`
	Unassigned     int       `json:"unassigned,omitempty"`
	Degraded       []string  `json:"degraded,omitempty"`
	Error          string    `json:"error,omitempty"`
	StartedAt      time.Time `json:"started_at"`
	FinishedAt     time.Time `json:"finished_at"`
}

// FromResult converts an export result into a Run.
func FromResult(r *export.Result) *Run {
	run := &Run{
		ID:             r.ID,
		Dataset:        r.Dataset,
		Kind:           string(r.Kind),
		Outcome:        string(r.Outcome),
		Path:           r.Path,
		PropertiesPath: r.PropertiesPath,
		SidecarSkipped: r.SidecarSkipped,
		Rows:           r.Rows,
		Columns:        r.Columns,
		Unassigned:     r.Unassigned,
		Error:          r.Error,
		StartedAt:      r.StartedAt,
		FinishedAt:     r.FinishedAt,
	}
	if len(r.Degraded) > 0 {
		run.Degraded = append([]string(nil), r.Degraded...)
	}
	return run
}

// Duration returns how long the run took.
func (r *Run) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Query filters runs. Zero fields match everything. Results are ordered
// newest first.
type Query struct {
	Dataset string `json:"dataset,omitempty"`
	Kind    string `json:"kind,omitempty"`
	Outcome string `json:"outcome,omitempty"`

	// Since and Until bound StartedAt, both inclusive.
	Since *time.Time `json:"since,omitempty"`
	Until *time.Time `json:"until,omitempty"`

	// Limit defaults to DefaultLimit when zero. Count ignores it.
	Limit  int `json:"limit,omitempty"`
	Offset int `json:"offset,omitempty"`
}

// DefaultLimit is the page size List uses when Query.Limit is zero.
const DefaultLimit = 100

func (q *Query) limit() int {
	if q == nil || q.Limit <= 0 {
		return DefaultLimit
	}
	return q.Limit
}

func (q *Query) matches(r *Run) bool {
	if q == nil {
		return true
	}
	if q.Dataset != "" && r.Dataset != q.Dataset {
		return false
	}
	if q.Kind != "" && r.Kind != q.Kind {
		return false
	}
	if q.Outcome != "" && r.Outcome != q.Outcome {
		return false
	}
	if q.Since != nil && r.StartedAt.Before(*q.Since) {
		return false
	}
	if q.Until != nil && r.StartedAt.After(*q.Until) {
		return false
	}
	return true
}

// Store persists export runs.
type Store interface {
	// Record persists a run. Recording an existing ID replaces it.
	Record(ctx context.Context, run *Run) error

	// Get returns the run with the given ID or an error wrapping ErrNotFound.
	Get(ctx context.Context, id string) (*Run, error)

	// List returns runs matching q, newest first.
	List(ctx context.Context, q *Query) ([]*Run, error)

	// Count returns the number of runs matching q, ignoring pagination.
	Count(ctx context.Context, q *Query) (int64, error)

	// DeleteBefore removes runs started before cutoff.
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// Trim keeps the newest keep runs and removes the rest.
	Trim(ctx context.Context, keep int64) (int64, error)

	// Close releases resources held by the store.
	Close() error
}
