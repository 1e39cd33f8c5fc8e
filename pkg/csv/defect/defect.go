package defect

import "fmt"

// Category classifies a structural violation found while validating a
// CSV stream. The set is closed: every consumer switches exhaustively
// over these values.
type Category string

const (
	// CategoryFieldCount marks a record whose field count differs from
	// the header's.
	CategoryFieldCount Category = "field_count"
	// CategoryLineEnding marks a record terminated by something other
	// than CRLF while strict RFC 4180 mode is active.
	CategoryLineEnding Category = "line_ending"
	// CategoryQuote marks quote malformations: bare quotes, malformed
	// escapes, and unterminated quoted fields.
	CategoryQuote Category = "quote"
	// CategoryUnescapedSpecial marks an unquoted field whose raw
	// content contains the delimiter, a quote, or a line-ending byte.
	CategoryUnescapedSpecial Category = "unescaped_special"
	// CategoryEncoding marks invalid UTF-8 in the byte stream. Always
	// fatal: decoding is unreliable past the first bad sequence.
	CategoryEncoding Category = "encoding"
	// CategoryIO marks underlying read failures and strict-mode
	// delimiter misconfiguration. Always fatal.
	CategoryIO Category = "io"
)

// Categories returns every defined category in report order.
func Categories() []Category {
	return []Category{
		CategoryFieldCount,
		CategoryLineEnding,
		CategoryQuote,
		CategoryUnescapedSpecial,
		CategoryEncoding,
		CategoryIO,
	}
}

// Known reports whether c is one of the defined categories.
func Known(c Category) bool {
	switch c {
	case CategoryFieldCount, CategoryLineEnding, CategoryQuote,
		CategoryUnescapedSpecial, CategoryEncoding, CategoryIO:
		return true
	}
	return false
}

// Fatal reports whether defects of this category halt the scan.
// Only encoding and I/O conditions are unrecoverable; everything else
// accumulates while scanning continues.
func Fatal(c Category) bool {
	switch c {
	case CategoryEncoding, CategoryIO:
		return true
	case CategoryFieldCount, CategoryLineEnding, CategoryQuote,
		CategoryUnescapedSpecial:
		return false
	}
	return false
}

// Defect is a single detected rule violation attributed to a record.
// RecordNumber is 1-based and counts the header as record 1.
type Defect struct {
	RecordNumber int64    `json:"record"`
	Category     Category `json:"category"`
	Message      string   `json:"message"`
}

// String renders the defect in the report form used by the CLI.
func (d Defect) String() string {
	return fmt.Sprintf("Record #%d has error: %s", d.RecordNumber, d.Message)
}

// List accumulates defects in discovery order. Discovery order matches
// physical file order, so record numbers are non-decreasing.
type List struct {
	Defects []Defect
}

// NewList creates an empty defect list.
func NewList() *List {
	return &List{Defects: make([]Defect, 0)}
}

// Add appends a defect to the list.
func (l *List) Add(d Defect) {
	l.Defects = append(l.Defects, d)
}

// Addf creates and appends a defect with a formatted message.
func (l *List) Addf(record int64, category Category, format string, args ...any) {
	l.Add(Defect{
		RecordNumber: record,
		Category:     category,
		Message:      fmt.Sprintf(format, args...),
	})
}

// Count returns the number of accumulated defects.
func (l *List) Count() int {
	return len(l.Defects)
}

// HasDefects returns true if the list is non-empty.
func (l *List) HasDefects() bool {
	return len(l.Defects) > 0
}

// ByCategory returns all defects of the given category.
func (l *List) ByCategory(c Category) []Defect {
	var out []Defect
	for _, d := range l.Defects {
		if d.Category == c {
			out = append(out, d)
		}
	}
	return out
}

// HasCategory returns true if at least one defect has the given category.
func (l *List) HasCategory(c Category) bool {
	for _, d := range l.Defects {
		if d.Category == c {
			return true
		}
	}
	return false
}
