package cli

import (
	"strconv"
	"strings"
	"time"

	"cytosight/csvexport/pkg/export"
	"cytosight/csvexport/pkg/history"
)

// RunTable lists recorded export runs.
type RunTable []*history.Run

// Header implements Table.
func (t RunTable) Header() []string {
	return []string{"ID", "STARTED", "DATASET", "KIND", "OUTCOME", "ROWS", "DURATION", "PATH", "ERROR"}
}

// Rows implements Table.
func (t RunTable) Rows() [][]string {
	rows := make([][]string, 0, len(t))
	for _, r := range t {
		rows = append(rows, []string{
			r.ID,
			r.StartedAt.Local().Format(time.RFC3339),
			r.Dataset,
			r.Kind,
			r.Outcome,
			strconv.Itoa(r.Rows),
			r.Duration().Round(time.Millisecond).String(),
			r.Path,
			r.Error,
		})
	}
	return rows
}

// ResultTable summarizes export results.
type ResultTable []*export.Result

// Header implements Table.
func (t ResultTable) Header() []string {
	return []string{"DATASET", "OUTCOME", "ROWS", "COLUMNS", "PATH", "PROPERTIES", "DEGRADED"}
}

// Rows implements Table.
func (t ResultTable) Rows() [][]string {
	rows := make([][]string, 0, len(t))
	for _, r := range t {
		props := r.PropertiesPath
		if r.SidecarSkipped {
			props = "(skipped)"
		}
		rows = append(rows, []string{
			r.Dataset,
			string(r.Outcome),
			strconv.Itoa(r.Rows),
			strconv.Itoa(r.Columns),
			r.Path,
			props,
			strings.Join(r.Degraded, " "),
		})
	}
	return rows
}

// DescriptionTable lists side-channel classifications.
type DescriptionTable []export.Description

// Header implements Table.
func (t DescriptionTable) Header() []string {
	return []string{"DATASET", "KIND", "ROWS", "DIMENSIONS", "LABELS", "PER-COLUMN", "DROPPED"}
}

// Rows implements Table.
func (t DescriptionTable) Rows() [][]string {
	rows := make([][]string, 0, len(t))
	for _, d := range t {
		labels := "-"
		switch {
		case d.LabelSource != "" && d.LabelsUsed:
			labels = d.LabelSource
		case d.LabelSource != "":
			labels = d.LabelSource + " (mismatch)"
		}
		rows = append(rows, []string{
			d.Dataset,
			string(d.Kind),
			strconv.Itoa(d.Rows),
			strconv.Itoa(d.Dimensions),
			labels,
			strings.Join(d.PerColumn, " "),
			strings.Join(d.Dropped, " "),
		})
	}
	return rows
}
