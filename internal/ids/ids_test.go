package ids

import "testing"

func TestRoundTrip(t *testing.T) {
	id := New()
	s := id.String()
	if len(s) != 32 {
		t.Fatalf("expected 32 hex chars, got %d (%q)", len(s), s)
	}
	parsed, err := Parse(s)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if parsed != id {
		t.Fatalf("round trip mismatch: %v != %v", parsed, id)
	}
}

func TestEmpty(t *testing.T) {
	var id ID
	if !id.IsEmpty() {
		t.Fatalf("zero value should be empty")
	}
	if id != Empty {
		t.Fatalf("zero value should equal Empty")
	}
}

func TestLess(t *testing.T) {
	a, err := Parse("00000000000000000000000000000001")
	if err != nil {
		t.Fatal(err)
	}
	b, err := Parse("00000000000000000000000000000002")
	if err != nil {
		t.Fatal(err)
	}
	if !a.Less(b) {
		t.Fatalf("expected a < b")
	}
	if b.Less(a) {
		t.Fatalf("expected !(b < a)")
	}
}

func TestTextMarshal(t *testing.T) {
	id := New()
	text, err := id.MarshalText()
	if err != nil {
		t.Fatal(err)
	}
	var got ID
	if err := got.UnmarshalText(text); err != nil {
		t.Fatal(err)
	}
	if got != id {
		t.Fatalf("text round trip mismatch")
	}
}
