package scanner

import (
	"bufio"
	"fmt"
	"io"
)

// quoteByte is the quote character. RFC 4180 admits no other.
const quoteByte = '"'

// state identifies the tokenizer's position within a field.
type state int

const (
	// stateFieldStart is the initial state for each field.
	stateFieldStart state = iota
	// stateUnquoted buffers a bare field.
	stateUnquoted
	// stateQuoted buffers a quoted field verbatim, line endings included.
	stateQuoted
	// stateQuotePending follows a quote inside a quoted field: either
	// the first half of a doubled-quote escape or the closing quote.
	stateQuotePending
	// stateResyncField skips to the next delimiter or line ending after
	// a malformed escape closed a field early.
	stateResyncField
	// stateResyncRecord skips to the next line ending after a bare
	// quote under strict quoting.
	stateResyncRecord
)

// Scanner tokenizes a byte stream into records: a single forward pass,
// one record at a time, never holding more than the record in progress.
// Field-count and mode-strictness policy are the validator's concern;
// the scanner only enforces quote nesting and delimiter splitting.
//
// A Scanner is not restartable: once Scan has been called the stream
// can only move forward.
type Scanner struct {
	r          *bufio.Reader
	delimiter  byte
	lazyQuotes bool

	utf8     utf8Checker
	num      int64
	finished bool
	err      error
}

// New creates a Scanner reading from r. A zero delimiter defaults to
// comma. When lazyQuotes is true the scanner recovers from malformed
// quoting by keeping stray bytes as literal content; it still reports
// the malformation on the record.
func New(r io.Reader, delimiter byte, lazyQuotes bool) *Scanner {
	if delimiter == 0 {
		delimiter = ','
	}
	return &Scanner{
		r:          bufio.NewReader(r),
		delimiter:  delimiter,
		lazyQuotes: lazyQuotes,
	}
}

// Scan produces the next record. It returns io.EOF once the stream is
// drained and any underlying read error verbatim; read errors are
// sticky. A record carrying malformations is still returned normally:
// malformations are data for the validator, not scan failures.
func (s *Scanner) Scan() (*Record, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.finished {
		return nil, io.EOF
	}

	rec := &Record{Number: s.num + 1}
	var field []byte
	fieldIndex := 1
	quoted := false
	st := stateFieldStart

	emitField := func() {
		rec.Fields = append(rec.Fields, string(field))
		rec.Quoted = append(rec.Quoted, quoted)
		field = field[:0]
		quoted = false
		fieldIndex++
	}
	malform := func(kind MalformationKind, msg string) {
		rec.Malformations = append(rec.Malformations, Malformation{
			Kind:    kind,
			Field:   fieldIndex,
			Message: msg,
		})
	}
	closeRecord := func(terminator string) *Record {
		rec.Terminator = terminator
		s.num = rec.Number
		return rec
	}

	for {
		b, err := s.r.ReadByte()
		if err == io.EOF {
			s.finished = true
			if s.utf8.incomplete() {
				malform(MalformationInvalidEncoding, "truncated UTF-8 sequence at end of input")
				if st != stateResyncField {
					emitField()
				}
				return closeRecord(""), nil
			}
			switch st {
			case stateFieldStart:
				if len(rec.Fields) == 0 {
					// Only blank lines or nothing at all: no record here.
					return nil, io.EOF
				}
				// Input ended right after a delimiter: trailing empty field.
				emitField()
			case stateUnquoted, stateQuotePending, stateResyncRecord:
				emitField()
			case stateQuoted:
				malform(MalformationUnterminatedQuote, "unterminated quote")
				emitField()
			case stateResyncField:
				// Field already closed by the malformed escape.
			}
			return closeRecord(""), nil
		}
		if err != nil {
			s.err = err
			return nil, err
		}

		if !s.utf8.accept(b) {
			malform(MalformationInvalidEncoding, fmt.Sprintf("invalid UTF-8 byte 0x%02X", b))
			s.finished = true
			if st != stateResyncField {
				emitField()
			}
			return closeRecord(""), nil
		}

		switch st {
		case stateFieldStart:
			switch b {
			case s.delimiter:
				emitField()
			case quoteByte:
				quoted = true
				st = stateQuoted
			case '\n':
				if len(rec.Fields) == 0 {
					continue // blank line, no record
				}
				emitField()
				return closeRecord("\n"), nil
			case '\r':
				terminator := s.finishCR()
				if len(rec.Fields) == 0 {
					continue
				}
				emitField()
				return closeRecord(terminator), nil
			default:
				field = append(field, b)
				st = stateUnquoted
			}

		case stateUnquoted:
			switch b {
			case s.delimiter:
				emitField()
				st = stateFieldStart
			case '\n':
				emitField()
				return closeRecord("\n"), nil
			case '\r':
				terminator := s.finishCR()
				emitField()
				return closeRecord(terminator), nil
			case quoteByte:
				malform(MalformationBareQuote, `bare " in non-quoted-field`)
				if s.lazyQuotes {
					field = append(field, b)
				} else {
					st = stateResyncRecord
				}
			default:
				field = append(field, b)
			}

		case stateQuoted:
			if b == quoteByte {
				st = stateQuotePending
			} else {
				// Delimiters and raw line-ending bytes are legal content
				// inside quotes and buffered verbatim.
				field = append(field, b)
			}

		case stateQuotePending:
			switch b {
			case quoteByte:
				// Doubled quote: one literal quote in the field value.
				field = append(field, quoteByte)
				st = stateQuoted
			case s.delimiter:
				emitField()
				st = stateFieldStart
			case '\n':
				emitField()
				return closeRecord("\n"), nil
			case '\r':
				terminator := s.finishCR()
				emitField()
				return closeRecord(terminator), nil
			default:
				if s.lazyQuotes {
					// Lenient recovery: keep the stray byte and buffer the
					// rest of the field as bare content. The field loses its
					// quoted status so the validator inspects it raw.
					field = append(field, b)
					quoted = false
					st = stateUnquoted
				} else {
					malform(MalformationMalformedEscape, "invalid escape sequence")
					emitField()
					st = stateResyncField
				}
			}

		case stateResyncField:
			switch b {
			case s.delimiter:
				st = stateFieldStart
			case '\n':
				return closeRecord("\n"), nil
			case '\r':
				return closeRecord(s.finishCR()), nil
			}

		case stateResyncRecord:
			switch b {
			case '\n':
				emitField()
				return closeRecord("\n"), nil
			case '\r':
				terminator := s.finishCR()
				emitField()
				return closeRecord(terminator), nil
			}
		}
	}
}

// finishCR is called with a CR already consumed. A CR immediately
// followed by LF is one CRLF terminator, never two endings.
func (s *Scanner) finishCR() string {
	next, err := s.r.Peek(1)
	if err == nil && next[0] == '\n' {
		_, _ = s.r.ReadByte()
		return "\r\n"
	}
	return "\r"
}
