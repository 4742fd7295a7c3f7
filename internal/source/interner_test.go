package source

import "testing"

func TestInternerRoundTrip(t *testing.T) {
	in := NewInterner()
	a := in.Intern("field")
	b := in.Intern("field")
	if a != b {
		t.Fatalf("same text must intern to the same ID")
	}
	got, ok := in.Lookup(a)
	if !ok || got != "field" {
		t.Fatalf("lookup returned %q, %v", got, ok)
	}
}

func TestInternerNoStringID(t *testing.T) {
	in := NewInterner()
	if got := in.MustLookup(NoStringID); got != "" {
		t.Fatalf("NoStringID must map to empty string, got %q", got)
	}
	if in.Intern("") != NoStringID {
		t.Fatalf("empty string must intern to NoStringID")
	}
}

func TestSpanCover(t *testing.T) {
	a := Span{File: 1, Start: 4, End: 8}
	b := Span{File: 1, Start: 2, End: 6}
	got := a.Cover(b)
	if got.Start != 2 || got.End != 8 {
		t.Fatalf("cover got %v", got)
	}
	other := Span{File: 2, Start: 0, End: 100}
	if got := a.Cover(other); got != a {
		t.Fatalf("cover across files must be a no-op")
	}
}
