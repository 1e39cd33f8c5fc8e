package defect

import "testing"

func TestDefect_String(t *testing.T) {
	d := Defect{RecordNumber: 3, Category: CategoryFieldCount, Message: "wrong number of fields: expected 3, got 4"}
	want := "Record #3 has error: wrong number of fields: expected 3, got 4"
	if got := d.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestCategory_Known(t *testing.T) {
	for _, c := range []Category{
		CategoryFieldCount, CategoryLineEnding, CategoryQuote,
		CategoryUnescapedSpecial, CategoryEncoding, CategoryIO,
	} {
		if !Known(c) {
			t.Errorf("Known(%q) = false, want true", c)
		}
	}
	if Known(Category("trailing_comma")) {
		t.Error("Known() accepted an undefined category")
	}
}

func TestCategory_Fatal(t *testing.T) {
	tests := []struct {
		category Category
		want     bool
	}{
		{CategoryFieldCount, false},
		{CategoryLineEnding, false},
		{CategoryQuote, false},
		{CategoryUnescapedSpecial, false},
		{CategoryEncoding, true},
		{CategoryIO, true},
	}
	for _, tt := range tests {
		if got := Fatal(tt.category); got != tt.want {
			t.Errorf("Fatal(%q) = %v, want %v", tt.category, got, tt.want)
		}
	}
}

func TestList_Accumulation(t *testing.T) {
	l := NewList()
	if l.HasDefects() {
		t.Error("new list reports defects")
	}

	l.Addf(1, CategoryQuote, "unterminated quote")
	l.Addf(2, CategoryFieldCount, "wrong number of fields: expected %d, got %d", 3, 2)
	l.Addf(2, CategoryLineEnding, "invalid line ending (RFC 4180 requires CRLF)")

	if l.Count() != 3 {
		t.Fatalf("Count() = %d, want 3", l.Count())
	}
	if !l.HasCategory(CategoryQuote) {
		t.Error("HasCategory(quote) = false, want true")
	}
	if l.HasCategory(CategoryEncoding) {
		t.Error("HasCategory(encoding) = true, want false")
	}
	if got := l.ByCategory(CategoryFieldCount); len(got) != 1 || got[0].RecordNumber != 2 {
		t.Errorf("ByCategory(field_count) = %v, want one defect at record 2", got)
	}
	if l.Defects[1].Message != "wrong number of fields: expected 3, got 2" {
		t.Errorf("Addf message = %q", l.Defects[1].Message)
	}
}

func TestNewResult_Verdict(t *testing.T) {
	clean := NewList()
	if r := NewResult(clean, false, false); !r.Valid {
		t.Error("empty list: Valid = false, want true")
	}
	if r := NewResult(clean, true, false); r.Valid {
		t.Error("fatal run: Valid = true, want false")
	}

	dirty := NewList()
	dirty.Addf(2, CategoryFieldCount, "wrong number of fields: expected 3, got 2")
	r := NewResult(dirty, false, true)
	if r.Valid {
		t.Error("dirty list: Valid = true, want false")
	}
	if !r.Truncated {
		t.Error("Truncated = false, want true")
	}
	if counts := r.CountByCategory(); counts[CategoryFieldCount] != 1 {
		t.Errorf("CountByCategory = %v, want field_count:1", counts)
	}
}

func TestCategories_AllKnown(t *testing.T) {
	cats := Categories()
	if len(cats) != 6 {
		t.Fatalf("Categories() returned %d categories, want 6", len(cats))
	}
	for _, c := range cats {
		if !Known(c) {
			t.Errorf("Categories() includes %q but Known(%q) = false", c, c)
		}
	}
	if cats[0] != CategoryFieldCount {
		t.Errorf("Categories()[0] = %q, want %q", cats[0], CategoryFieldCount)
	}
}
