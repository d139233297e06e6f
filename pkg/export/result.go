package export

import (
	"time"

	"cytosight/csvexport/pkg/dataset"
)

// Outcome classifies how an export ended.
type Outcome string

const (
	// OutcomeWritten means the primary file was written completely.
	OutcomeWritten Outcome = "written"

	// OutcomeNothingToWrite means no target was chosen; no file was touched.
	OutcomeNothingToWrite Outcome = "nothing_to_write"

	// OutcomeOpenFailed means the primary file could not be opened.
	OutcomeOpenFailed Outcome = "open_failed"

	// OutcomeBusy means another export holds the dataset lock.
	OutcomeBusy Outcome = "busy"

	// OutcomeCancelled means the context was cancelled at a checkpoint.
	OutcomeCancelled Outcome = "cancelled"

	// OutcomeFailed means writing failed after the primary file was opened.
	OutcomeFailed Outcome = "failed"
)

// Outcomes lists every outcome, in declaration order.
var Outcomes = []Outcome{
	OutcomeWritten,
	OutcomeNothingToWrite,
	OutcomeOpenFailed,
	OutcomeBusy,
	OutcomeCancelled,
	OutcomeFailed,
}

// Succeeded reports whether the outcome is not a failure.
func (o Outcome) Succeeded() bool {
	return o == OutcomeWritten || o == OutcomeNothingToWrite
}

// Degraded side-channel identifiers recorded in Result.Degraded.
const (
	DegradedRowLabels      = "row_labels"
	DegradedPropertyPrefix = "property:"
)

// Result describes one export run.
type Result struct {
	ID             string       `json:"id"`
	Dataset        string       `json:"dataset"`
	Kind           dataset.Kind `json:"kind"`
	Outcome        Outcome      `json:"outcome"`
	Path           string       `json:"path,omitempty"`
	PropertiesPath string       `json:"properties_path,omitempty"`
	SidecarSkipped bool         `json:"sidecar_skipped,omitempty"`
	Directory      string       `json:"directory,omitempty"`
	Rows           int          `json:"rows"`
	Columns        int          `json:"columns"`
	RowLabels      bool         `json:"row_labels"`
	Unassigned     int          `json:"unassigned,omitempty"`
	Degraded       []string     `json:"degraded,omitempty"`
	StartedAt      time.Time    `json:"started_at"`
	FinishedAt     time.Time    `json:"finished_at"`
	Error          string       `json:"error,omitempty"`
}

// Duration returns how long the export ran.
func (r *Result) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
