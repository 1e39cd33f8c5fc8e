package scanner

import (
	"io"
	"strings"
	"testing"
)

// drain consumes the scanner, failing the test on unexpected errors.
func drain(t *testing.T, s *Scanner) []*Record {
	t.Helper()
	var records []*Record
	for {
		rec, err := s.Scan()
		if err == io.EOF {
			return records
		}
		if err != nil {
			t.Fatalf("Scan() failed: %v", err)
		}
		records = append(records, rec)
	}
}

func fieldsEqual(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func TestScanner_SimpleRecords(t *testing.T) {
	s := New(strings.NewReader("a,b,c\r\n1,2,3\r\n"), ',', false)
	records := drain(t, s)

	if len(records) != 2 {
		t.Fatalf("len(records) = %d, want 2", len(records))
	}
	if !fieldsEqual(records[0].Fields, []string{"a", "b", "c"}) {
		t.Errorf("record 1 fields = %v, want [a b c]", records[0].Fields)
	}
	if !fieldsEqual(records[1].Fields, []string{"1", "2", "3"}) {
		t.Errorf("record 2 fields = %v, want [1 2 3]", records[1].Fields)
	}
	for _, rec := range records {
		if rec.Terminator != "\r\n" {
			t.Errorf("record %d terminator = %q, want %q", rec.Number, rec.Terminator, "\r\n")
		}
		if rec.Malformed() {
			t.Errorf("record %d unexpectedly malformed: %v", rec.Number, rec.Malformations)
		}
	}
	if records[0].Number != 1 || records[1].Number != 2 {
		t.Errorf("record numbers = %d, %d, want 1, 2", records[0].Number, records[1].Number)
	}
}

func TestScanner_TerminatorCapture(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"crlf", "a\r\nb\r\n", []string{"\r\n", "\r\n"}},
		{"lf", "a\nb\n", []string{"\n", "\n"}},
		{"bare cr", "a\rb\r", []string{"\r", "\r"}},
		{"mixed", "a\r\nb\n", []string{"\r\n", "\n"}},
		{"absent at eof", "a\r\nb", []string{"\r\n", ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := drain(t, New(strings.NewReader(tt.input), ',', false))
			if len(records) != len(tt.want) {
				t.Fatalf("len(records) = %d, want %d", len(records), len(tt.want))
			}
			for i, want := range tt.want {
				if records[i].Terminator != want {
					t.Errorf("record %d terminator = %q, want %q", i+1, records[i].Terminator, want)
				}
			}
		})
	}
}

func TestScanner_QuotedFields(t *testing.T) {
	input := "\"a,b\",\"c\r\nd\",e\r\n"
	records := drain(t, New(strings.NewReader(input), ',', false))

	if len(records) != 1 {
		t.Fatalf("len(records) = %d, want 1", len(records))
	}
	rec := records[0]
	if !fieldsEqual(rec.Fields, []string{"a,b", "c\r\nd", "e"}) {
		t.Errorf("fields = %q, want [a,b c\\r\\nd e]", rec.Fields)
	}
	if !rec.Quoted[0] || !rec.Quoted[1] || rec.Quoted[2] {
		t.Errorf("quoted flags = %v, want [true true false]", rec.Quoted)
	}
	if rec.Malformed() {
		t.Errorf("unexpected malformations: %v", rec.Malformations)
	}
}

func TestScanner_DoubledQuoteEscape(t *testing.T) {
	records := drain(t, New(strings.NewReader("\"a\"\"b\",c\r\n"), ',', false))

	if len(records) != 1 {
		t.Fatalf("len(records) = %d, want 1", len(records))
	}
	if records[0].Fields[0] != `a"b` {
		t.Errorf("field 1 = %q, want %q", records[0].Fields[0], `a"b`)
	}
	if records[0].Malformed() {
		t.Errorf("doubled quote produced malformations: %v", records[0].Malformations)
	}
}

func TestScanner_ClosedQuoteAtEOF(t *testing.T) {
	records := drain(t, New(strings.NewReader(`"a"`), ',', false))

	if len(records) != 1 {
		t.Fatalf("len(records) = %d, want 1", len(records))
	}
	rec := records[0]
	if rec.Fields[0] != "a" || rec.Malformed() {
		t.Errorf("record = %q malformations %v, want [a] none", rec.Fields, rec.Malformations)
	}
	if rec.Terminator != "" {
		t.Errorf("terminator = %q, want empty", rec.Terminator)
	}
}

func TestScanner_UnterminatedQuote(t *testing.T) {
	records := drain(t, New(strings.NewReader("a,\"bc"), ',', false))

	if len(records) != 1 {
		t.Fatalf("len(records) = %d, want 1", len(records))
	}
	rec := records[0]
	if !fieldsEqual(rec.Fields, []string{"a", "bc"}) {
		t.Errorf("fields = %q, want [a bc]", rec.Fields)
	}
	if len(rec.Malformations) != 1 {
		t.Fatalf("len(malformations) = %d, want 1", len(rec.Malformations))
	}
	m := rec.Malformations[0]
	if m.Kind != MalformationUnterminatedQuote {
		t.Errorf("kind = %q, want %q", m.Kind, MalformationUnterminatedQuote)
	}
	if m.Field != 2 {
		t.Errorf("field = %d, want 2", m.Field)
	}
}

func TestScanner_BareQuoteLazy(t *testing.T) {
	records := drain(t, New(strings.NewReader("a\"b,c\n"), ',', true))

	if len(records) != 1 {
		t.Fatalf("len(records) = %d, want 1", len(records))
	}
	rec := records[0]
	if !fieldsEqual(rec.Fields, []string{`a"b`, "c"}) {
		t.Errorf("fields = %q, want [a\"b c]", rec.Fields)
	}
	if len(rec.Malformations) != 1 || rec.Malformations[0].Kind != MalformationBareQuote {
		t.Errorf("malformations = %v, want one bare_quote", rec.Malformations)
	}
}

func TestScanner_BareQuoteStrict(t *testing.T) {
	// Without lazy quotes the rest of the line is dropped and scanning
	// resynchronizes at the next line ending.
	records := drain(t, New(strings.NewReader("a\"b,c\nx,y\n"), ',', false))

	if len(records) != 2 {
		t.Fatalf("len(records) = %d, want 2", len(records))
	}
	if !fieldsEqual(records[0].Fields, []string{"a"}) {
		t.Errorf("record 1 fields = %q, want [a]", records[0].Fields)
	}
	if len(records[0].Malformations) != 1 || records[0].Malformations[0].Kind != MalformationBareQuote {
		t.Errorf("record 1 malformations = %v, want one bare_quote", records[0].Malformations)
	}
	if !fieldsEqual(records[1].Fields, []string{"x", "y"}) {
		t.Errorf("record 2 fields = %q, want [x y]", records[1].Fields)
	}
	if records[1].Malformed() {
		t.Errorf("record 2 unexpectedly malformed: %v", records[1].Malformations)
	}
}

func TestScanner_MalformedEscape(t *testing.T) {
	// Strict quoting: the stray byte after the closing quote records a
	// malformed escape, the field closes early, and scanning
	// resynchronizes at the next delimiter.
	records := drain(t, New(strings.NewReader("\"a\"b,c\n"), ',', false))

	if len(records) != 1 {
		t.Fatalf("len(records) = %d, want 1", len(records))
	}
	rec := records[0]
	if !fieldsEqual(rec.Fields, []string{"a", "c"}) {
		t.Errorf("fields = %q, want [a c]", rec.Fields)
	}
	if len(rec.Malformations) != 1 || rec.Malformations[0].Kind != MalformationMalformedEscape {
		t.Errorf("malformations = %v, want one malformed_escape", rec.Malformations)
	}
}

func TestScanner_MalformedEscapeLazy(t *testing.T) {
	// Lenient recovery keeps the stray byte as literal content and the
	// field is reported as unquoted.
	records := drain(t, New(strings.NewReader("\"a\"b,c\n"), ',', true))

	if len(records) != 1 {
		t.Fatalf("len(records) = %d, want 1", len(records))
	}
	rec := records[0]
	if !fieldsEqual(rec.Fields, []string{"ab", "c"}) {
		t.Errorf("fields = %q, want [ab c]", rec.Fields)
	}
	if rec.Quoted[0] {
		t.Error("recovered field still reported as quoted")
	}
	if rec.Malformed() {
		t.Errorf("lenient recovery recorded malformations: %v", rec.Malformations)
	}
}

func TestScanner_EmptyFields(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"all empty", ",,\n", []string{"", "", ""}},
		{"trailing delimiter at eof", "a,", []string{"a", ""}},
		{"leading empty", ",a\n", []string{"", "a"}},
		{"quoted empty", "\"\",a\n", []string{"", "a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := drain(t, New(strings.NewReader(tt.input), ',', false))
			if len(records) != 1 {
				t.Fatalf("len(records) = %d, want 1", len(records))
			}
			if !fieldsEqual(records[0].Fields, tt.want) {
				t.Errorf("fields = %q, want %q", records[0].Fields, tt.want)
			}
		})
	}
}

func TestScanner_BlankLinesSkipped(t *testing.T) {
	records := drain(t, New(strings.NewReader("a,b\n\n\r\nc,d\n"), ',', false))

	if len(records) != 2 {
		t.Fatalf("len(records) = %d, want 2", len(records))
	}
	if records[1].Number != 2 {
		t.Errorf("record number = %d, want 2", records[1].Number)
	}
	if !fieldsEqual(records[1].Fields, []string{"c", "d"}) {
		t.Errorf("record 2 fields = %q, want [c d]", records[1].Fields)
	}
}

func TestScanner_BlankLineAtEOF(t *testing.T) {
	for _, input := range []string{
		"a,b\r\n1,2\r\n\r\n",
		"a,b\n1,2\n\n",
		"a,b\n1,2\n\n\n",
		"\n\n",
		"\r\n\r\n",
	} {
		records := drain(t, New(strings.NewReader(input), ',', false))
		for _, rec := range records {
			if len(rec.Fields) != 2 {
				t.Errorf("input %q: record %d fields = %q, want 2 fields",
					input, rec.Number, rec.Fields)
			}
		}
		want := 2
		if input == "\n\n" || input == "\r\n\r\n" {
			want = 0
		}
		if len(records) != want {
			t.Errorf("input %q: len(records) = %d, want %d", input, len(records), want)
		}
	}
}

func TestScanner_AlternateDelimiters(t *testing.T) {
	for _, delim := range []byte{'\t', '|', ':', ';'} {
		input := strings.ReplaceAll("a?b?c\n", "?", string(delim))
		records := drain(t, New(strings.NewReader(input), delim, false))
		if len(records) != 1 || !fieldsEqual(records[0].Fields, []string{"a", "b", "c"}) {
			t.Errorf("delimiter %q: records = %+v, want single [a b c]", delim, records)
		}
	}
}

func TestScanner_InvalidEncoding(t *testing.T) {
	s := New(strings.NewReader("a,b\nx,\xffy,z\n1,2\n"), ',', false)

	rec, err := s.Scan()
	if err != nil {
		t.Fatalf("Scan() failed: %v", err)
	}
	if rec.Malformed() {
		t.Errorf("record 1 unexpectedly malformed: %v", rec.Malformations)
	}

	rec, err = s.Scan()
	if err != nil {
		t.Fatalf("Scan() failed: %v", err)
	}
	if len(rec.Malformations) != 1 || rec.Malformations[0].Kind != MalformationInvalidEncoding {
		t.Fatalf("malformations = %v, want one invalid_encoding", rec.Malformations)
	}

	// The stream terminates at the first invalid byte; the trailing
	// valid line is never produced.
	if _, err := s.Scan(); err != io.EOF {
		t.Errorf("Scan() after encoding failure = %v, want io.EOF", err)
	}
}

func TestScanner_ValidMultibyteUTF8(t *testing.T) {
	records := drain(t, New(strings.NewReader("héllo,wörld\n日本,語\n"), ',', false))

	if len(records) != 2 {
		t.Fatalf("len(records) = %d, want 2", len(records))
	}
	if !fieldsEqual(records[0].Fields, []string{"héllo", "wörld"}) {
		t.Errorf("record 1 fields = %q", records[0].Fields)
	}
	if !fieldsEqual(records[1].Fields, []string{"日本", "語"}) {
		t.Errorf("record 2 fields = %q", records[1].Fields)
	}
}

func TestScanner_TruncatedUTF8AtEOF(t *testing.T) {
	records := drain(t, New(strings.NewReader("a,\xc3"), ',', false))

	if len(records) != 1 {
		t.Fatalf("len(records) = %d, want 1", len(records))
	}
	if len(records[0].Malformations) != 1 || records[0].Malformations[0].Kind != MalformationInvalidEncoding {
		t.Errorf("malformations = %v, want one invalid_encoding", records[0].Malformations)
	}
}

func TestScanner_ReadErrorIsSticky(t *testing.T) {
	s := New(&failingReader{data: "a,b\n1,"}, ',', false)

	if _, err := s.Scan(); err != nil {
		t.Fatalf("Scan() failed early: %v", err)
	}
	_, err := s.Scan()
	if err == nil || err == io.EOF {
		t.Fatalf("Scan() = %v, want read error", err)
	}
	if _, again := s.Scan(); again != err {
		t.Errorf("second Scan() = %v, want sticky %v", again, err)
	}
}

func TestScanner_EmptyInput(t *testing.T) {
	if _, err := New(strings.NewReader(""), ',', false).Scan(); err != io.EOF {
		t.Errorf("Scan() = %v, want io.EOF", err)
	}
}

// failingReader serves its data then returns a non-EOF error.
type failingReader struct {
	data string
	pos  int
}

func (r *failingReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.data) {
		return 0, io.ErrUnexpectedEOF
	}
	n := copy(p, r.data[r.pos:])
	r.pos += n
	return n, nil
}
