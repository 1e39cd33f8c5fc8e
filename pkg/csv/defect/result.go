package defect

// Result is the terminal outcome of one validation run.
//
// Valid is true only when the stream was drained without a single
// defect. A fatal abort forces Valid to false and leaves a trailing
// defect describing the cause; a truncated run (defect cap reached)
// keeps the defects found so far and marks Truncated instead.
type Result struct {
	Defects   []Defect `json:"errors"`
	Valid     bool     `json:"valid"`
	Fatal     bool     `json:"fatal,omitempty"`
	Truncated bool     `json:"truncated,omitempty"`
}

// NewResult builds a Result from an accumulated list, computing the
// verdict. A fatal run is never valid, regardless of list contents.
func NewResult(l *List, fatal, truncated bool) *Result {
	return &Result{
		Defects:   l.Defects,
		Valid:     !fatal && !l.HasDefects(),
		Fatal:     fatal,
		Truncated: truncated,
	}
}

// HasCategory returns true if at least one defect has the given category.
func (r *Result) HasCategory(c Category) bool {
	for _, d := range r.Defects {
		if d.Category == c {
			return true
		}
	}
	return false
}

// CountByCategory tallies defects per category.
func (r *Result) CountByCategory() map[Category]int {
	counts := make(map[Category]int)
	for _, d := range r.Defects {
		counts[d.Category]++
	}
	return counts
}
