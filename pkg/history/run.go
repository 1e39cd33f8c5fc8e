package history

import (
	"time"

	"github.com/blackstar257/csvlint/pkg/csv/defect"
)

// Run records the outcome of a single validation run.
type Run struct {
	// ID is the unique run identifier, assigned on save if empty.
	ID string `json:"id"`

	// File is the path of the validated file.
	File string `json:"file"`

	// Delimiter is the field delimiter used for the run.
	Delimiter string `json:"delimiter"`

	// LazyQuotes reports whether permissive quote handling was enabled.
	LazyQuotes bool `json:"lazy_quotes"`

	// StrictRFC4180 reports whether strict RFC 4180 mode was enabled.
	StrictRFC4180 bool `json:"strict_rfc4180"`

	// Valid is the run verdict.
	Valid bool `json:"valid"`

	// Fatal reports whether validation stopped before the end of input.
	Fatal bool `json:"fatal"`

	// RecordCount is the number of records scanned.
	RecordCount int64 `json:"record_count"`

	// Defects holds the defects found, in input order.
	Defects []defect.Defect `json:"defects,omitempty"`

	// StartedAt is when the run began.
	StartedAt time.Time `json:"started_at"`

	// Duration is how long the run took.
	Duration time.Duration `json:"duration"`
}

// DefectCount returns the number of defects recorded for the run.
func (r *Run) DefectCount() int {
	return len(r.Defects)
}
