package validator

import (
	"io"
	"strings"

	"github.com/blackstar257/csvlint/pkg/csv/defect"
	"github.com/blackstar257/csvlint/pkg/csv/scanner"
)

// Mode is the immutable policy for one validation run. It is passed
// explicitly at construction, never read from process-wide state, so
// multiple validations can run concurrently in one process.
type Mode struct {
	// Delimiter is the field separator. Zero defaults to comma. The
	// validator treats it as an opaque single byte; restricting the
	// choice to a sane set is the caller's job.
	Delimiter byte

	// LazyQuotes tolerates malformed quote escaping: stray bytes are
	// kept as literal content instead of discarding the rest of the
	// field or record. Malformations are still reported as defects.
	LazyQuotes bool

	// StrictRFC4180 requires a comma delimiter and CRLF line endings.
	// A non-comma delimiter under strict mode is a caller
	// misconfiguration and fails the whole run; lazy quotes are
	// disabled while strict mode is active.
	StrictRFC4180 bool

	// RequireFinalTerminator extends the strict-mode CRLF rule to the
	// very last record. The default tolerates a missing terminator on
	// the final line, matching common producer behavior.
	RequireFinalTerminator bool

	// MaxDefects caps the accumulated defect list; zero means
	// unbounded. When the cap is reached the run stops early and the
	// result is marked truncated. The cap guards callers validating
	// adversarial input whose defect list would otherwise grow without
	// bound.
	MaxDefects int
}

// delimiter returns the effective delimiter byte.
func (m Mode) delimiter() byte {
	if m.Delimiter == 0 {
		return ','
	}
	return m.Delimiter
}

// Validator applies structural and mode-policy rules to the record
// stream of a single input. Each Validator owns one scanner and one
// defect accumulator exclusively; it is single-use.
type Validator struct {
	mode        Mode
	sc          *scanner.Scanner
	defects     *defect.List
	headerCount int
	records     int64
}

// New creates a Validator for the given byte source and mode. The
// strict-mode delimiter invariant is checked here, once, not per
// record: a violation is reported by Run as a configuration-level
// fatal rather than a data defect.
func New(r io.Reader, mode Mode) *Validator {
	lazy := mode.LazyQuotes
	if mode.StrictRFC4180 {
		lazy = false
	}
	return &Validator{
		mode:    mode,
		sc:      scanner.New(r, mode.delimiter(), lazy),
		defects: defect.NewList(),
	}
}

// Validate runs a complete validation of r under mode and returns the
// result. This is the single entry point callers need; New and Run are
// exposed for callers that want to hold the Validator.
func Validate(r io.Reader, mode Mode) *defect.Result {
	return New(r, mode).Run()
}

// Run drives the scanner record-by-record until the stream ends or a
// fatal condition occurs, then returns the accumulated result.
//
// Recoverable defects are data, not control flow: they accumulate and
// never halt the run. Only unreadable input, invalid UTF-8, and
// strict-mode misconfiguration stop the pipeline early, and even then
// the result carries every defect found up to that point plus one
// trailing defect naming the fatal cause.
func (v *Validator) Run() *defect.Result {
	if v.mode.StrictRFC4180 && v.mode.delimiter() != ',' {
		v.defects.Addf(0, defect.CategoryIO,
			"I/O error: strict RFC 4180 mode requires a comma delimiter, got %q", string(v.mode.delimiter()))
		return defect.NewResult(v.defects, true, false)
	}

	fatal := false
	truncated := false
	var lastNum int64

	for {
		rec, err := v.sc.Scan()
		if err == io.EOF {
			break
		}
		if err != nil {
			// The record in progress was lost with the read failure; the
			// defect is attributed to the record that would have followed.
			v.defects.Addf(lastNum+1, defect.CategoryIO, "I/O error: %v", err)
			fatal = true
			break
		}
		lastNum = rec.Number
		v.records++

		if v.headerCount == 0 && rec.Number == 1 {
			// The header defines the expected field count. It is exempt
			// from the count rule but checked by every other rule.
			v.headerCount = len(rec.Fields)
		}

		fatal = v.checkRecord(rec)
		if fatal {
			break
		}
		if v.mode.MaxDefects > 0 && v.defects.Count() >= v.mode.MaxDefects {
			truncated = true
			break
		}
	}

	return defect.NewResult(v.defects, fatal, truncated)
}

// Records returns the number of records scanned by Run.
func (v *Validator) Records() int64 {
	return v.records
}

// checkRecord applies the per-record rules in fixed order. Every
// violation the record carries is reported; no rule short-circuits
// another. The return value reports whether a fatal condition
// (invalid encoding) was encountered.
func (v *Validator) checkRecord(rec *scanner.Record) bool {
	// Rule 1: field count must match the header's. The header itself
	// is exempt.
	if rec.Number > 1 && len(rec.Fields) != v.headerCount {
		v.defects.Addf(rec.Number, defect.CategoryFieldCount,
			"wrong number of fields: expected %d, got %d", v.headerCount, len(rec.Fields))
	}

	// Rule 2: strict mode requires CRLF terminators. Skipped entirely
	// outside strict mode. The scanner only reports an absent
	// terminator on the record that reached end-of-stream, so absence
	// here always means the true final line.
	if v.mode.StrictRFC4180 {
		switch rec.Terminator {
		case "\r\n":
		case "":
			if v.mode.RequireFinalTerminator {
				v.defects.Addf(rec.Number, defect.CategoryLineEnding,
					"invalid line ending (RFC 4180 requires CRLF)")
			}
		default:
			v.defects.Addf(rec.Number, defect.CategoryLineEnding,
				"invalid line ending (RFC 4180 requires CRLF)")
		}
	}

	// Rule 3: quote and escape malformations, forwarded verbatim from
	// the scanner. Invalid encoding promotes to a fatal abort after
	// the record's remaining rules have run.
	fatal := false
	for _, m := range rec.Malformations {
		if m.Kind == scanner.MalformationInvalidEncoding {
			v.defects.Addf(rec.Number, defect.CategoryEncoding, "UTF-8 error: %s", m.Message)
			fatal = true
			continue
		}
		v.defects.Addf(rec.Number, defect.CategoryQuote, "%s", m.Message)
	}

	// Rule 4: an unquoted field whose raw content contains the
	// delimiter, a quote, or a line-ending byte can only have come out
	// of lenient recovery; a well-formed producer would have quoted it.
	for i, f := range rec.Fields {
		if rec.Quoted[i] {
			continue
		}
		if strings.ContainsAny(f, string([]byte{v.mode.delimiter(), '"', '\r', '\n'})) {
			v.defects.Addf(rec.Number, defect.CategoryUnescapedSpecial,
				"field %d contains unescaped special characters", i+1)
		}
	}

	return fatal
}
