package export

import (
	"context"
	"io"

	"cytosight/csvexport/pkg/dataset"
)

// Stats summarizes a rendered table.
type Stats struct {
	// Rows is the number of data lines written, excluding the header.
	Rows int

	// Columns is the number of fields per data line.
	Columns int

	// RowLabels reports whether row labels were written.
	RowLabels bool

	// Unassigned counts cluster slots below the highest index that no
	// cluster claimed. Always zero for point tables.
	Unassigned int
}

// PointTable renders a point dataset as a primary table plus an optional
// per-column properties table.
type PointTable struct {
	// Source provides the values and dimension names.
	Source dataset.PointSource

	// RowLabels are written as the first column when there is exactly one
	// label per row; otherwise they are ignored.
	RowLabels []string

	// PerColumn holds the properties with one value per dimension.
	PerColumn *dataset.Properties

	// Task receives progress. Optional.
	Task Task
}

// labels returns the row labels if they match the row count.
func (t *PointTable) labels() []string {
	if len(t.RowLabels) > 0 && len(t.RowLabels) == t.Source.RowCount() {
		return t.RowLabels
	}
	return nil
}

func (t *PointTable) task() Task {
	if t.Task == nil {
		return NopTask{}
	}
	return t.Task
}

// Render writes the primary table. Progress is reported every
// ProgressInterval rows, and ctx is checked at the same checkpoints.
func (t *PointTable) Render(ctx context.Context, w io.Writer) (Stats, error) {
	task := t.task()
	labels := t.labels()
	names := t.Source.DimensionNames()
	total := t.Source.RowCount()

	stats := Stats{Columns: t.Source.DimensionCount(), RowLabels: labels != nil}
	if stats.RowLabels {
		stats.Columns++
	}

	lw := newLineWriter(w)
	if labels != nil && len(names) > 0 {
		lw.field("")
	}
	for _, name := range names {
		lw.field(Sanitize(name))
	}
	lw.end()

	var stopErr error
	t.Source.VisitRows(func(row int, values []float32) bool {
		if labels != nil {
			lw.field(Sanitize(labels[row]))
		}
		for _, v := range values {
			lw.number(v)
		}
		lw.end()
		stats.Rows++

		if stats.Rows%ProgressInterval == 0 {
			task.SetProgress(float64(stats.Rows) / float64(total))
			if err := ctx.Err(); err != nil {
				stopErr = err
				return false
			}
		}
		return true
	})

	flushErr := lw.flush()
	if stopErr != nil {
		return stats, stopErr
	}
	if flushErr != nil {
		return stats, flushErr
	}

	task.SetProgress(1)
	task.SetFinished()
	return stats, nil
}

// HasProperties reports whether a properties table would have any rows.
func (t *PointTable) HasProperties() bool {
	return t.PerColumn.Len() > 0
}

// RenderProperties writes the per-column properties table: a header of
// dimension names after an empty cell, then one line per property.
func (t *PointTable) RenderProperties(w io.Writer) error {
	lw := newLineWriter(w)
	lw.field("")
	for _, name := range t.Source.DimensionNames() {
		lw.field(Sanitize(name))
	}
	lw.end()

	for _, name := range t.PerColumn.Names() {
		values, _ := t.PerColumn.Get(name)
		lw.field(Sanitize(name))
		for _, v := range values {
			lw.field(formatProperty(v))
		}
		lw.end()
	}
	return lw.flush()
}

func formatProperty(v any) string {
	s := dataset.FormatScalar(v)
	if dataset.IsText(v) {
		return Sanitize(s)
	}
	return s
}
