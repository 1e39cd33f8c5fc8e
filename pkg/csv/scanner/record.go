package scanner

// MalformationKind identifies a low-level problem detected while
// tokenizing a record.
type MalformationKind string

const (
	// MalformationBareQuote is a quote byte appearing mid-way through
	// an unquoted field.
	MalformationBareQuote MalformationKind = "bare_quote"
	// MalformationMalformedEscape is a quote inside a quoted field
	// followed by something other than a second quote, a delimiter, or
	// a line ending.
	MalformationMalformedEscape MalformationKind = "malformed_escape"
	// MalformationUnterminatedQuote is end-of-stream inside a quoted
	// field.
	MalformationUnterminatedQuote MalformationKind = "unterminated_quote"
	// MalformationInvalidEncoding is an invalid UTF-8 byte sequence.
	// The scanner stops producing records once one is seen.
	MalformationInvalidEncoding MalformationKind = "invalid_encoding"
)

// Malformation describes one low-level problem the scanner detected
// while producing a record. Field is the 1-based index of the field
// being assembled when the problem was found.
type Malformation struct {
	Kind    MalformationKind
	Field   int
	Message string
}

// Record is one logical row of fields as produced by the scanner.
//
// Records are created by the scanner, consumed immediately by the
// validator, and discarded; nothing retains them beyond one validation
// step, which bounds memory to the longest single record.
type Record struct {
	// Number is the 1-based record index. The header is record 1.
	Number int64

	// Fields holds the decoded field values in order.
	Fields []string

	// Quoted marks, per field, whether the field was produced as a
	// cleanly quoted field. Fields that went through lenient recovery
	// are reported as unquoted so the validator can inspect their raw
	// content for unescaped special characters.
	Quoted []bool

	// Terminator holds the raw line-ending bytes that closed the
	// record: "\r\n", "\n", "\r", or "" when the record ended at
	// end-of-stream.
	Terminator string

	// Malformations lists the low-level problems found while producing
	// this record, in discovery order.
	Malformations []Malformation
}

// Malformed reports whether the scanner detected any low-level problem
// while producing the record.
func (r *Record) Malformed() bool {
	return len(r.Malformations) > 0
}
