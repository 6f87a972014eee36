package jsonpath

import (
	"errors"
	"testing"
)

func TestValueLen(t *testing.T) {
	tests := []struct {
		doc  string
		path string
		want int
	}{
		{crateBody, "versions", 3},
		{`{"a": []}`, "a", 0},
		{`{"a": [1]}`, "a", 1},
		{`{"a": [[1,2],[3]]}`, "a", 2},
		{`{"a": [{"b": [1,2,3]}]}`, "a", 1},
		{`{"a": ["x,y", "z"]}`, "a", 2}, // commas inside strings don't split
	}

	for _, tt := range tests {
		v, err := Extract(tt.doc, tt.path)
		if err != nil {
			t.Fatalf("Extract(%q) error: %v", tt.path, err)
		}
		n, err := v.Len()
		if err != nil {
			t.Fatalf("Len error: %v", err)
		}
		if n != tt.want {
			t.Errorf("Len(%q) = %d, want %d", tt.doc, n, tt.want)
		}
	}
}

func TestValueLenWrongKind(t *testing.T) {
	v, err := Extract(crateBody, "crate")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := v.Len(); !errors.Is(err, ErrKind) {
		t.Errorf("Len on object error = %v, want ErrKind", err)
	}
}

func TestValueTypedAccessors(t *testing.T) {
	doc := `{"s": "hi", "n": -42, "f": 1.5, "b": true, "z": null}`

	s, err := mustExtract(t, doc, "s").String()
	if err != nil || s != "hi" {
		t.Errorf("String = %q, %v", s, err)
	}
	n, err := mustExtract(t, doc, "n").Int64()
	if err != nil || n != -42 {
		t.Errorf("Int64 = %d, %v", n, err)
	}
	f, err := mustExtract(t, doc, "f").Float64()
	if err != nil || f != 1.5 {
		t.Errorf("Float64 = %v, %v", f, err)
	}
	b, err := mustExtract(t, doc, "b").Bool()
	if err != nil || !b {
		t.Errorf("Bool = %v, %v", b, err)
	}
	if !mustExtract(t, doc, "z").IsNull() {
		t.Error("IsNull = false, want true")
	}
}

func TestValueKindMismatch(t *testing.T) {
	doc := `{"s": "hi", "n": 42}`

	if _, err := mustExtract(t, doc, "s").Int64(); !errors.Is(err, ErrKind) {
		t.Errorf("Int64 on string error = %v, want ErrKind", err)
	}
	if _, err := mustExtract(t, doc, "n").String(); !errors.Is(err, ErrKind) {
		t.Errorf("String on number error = %v, want ErrKind", err)
	}
	if _, err := mustExtract(t, doc, "n").Bool(); !errors.Is(err, ErrKind) {
		t.Errorf("Bool on number error = %v, want ErrKind", err)
	}
}

func TestValueStringEscapes(t *testing.T) {
	tests := []struct {
		doc  string
		want string
	}{
		{`{"a": "plain"}`, "plain"},
		{`{"a": "tab\there"}`, "tab\there"},
		{`{"a": "line\nbreak"}`, "line\nbreak"},
		{`{"a": "back\\slash"}`, `back\slash`},
		{`{"a": "sol\/idus"}`, "sol/idus"},
		{`{"a": "\u0041\u00e9"}`, "Aé"},
		{`{"a": "\ud83e\udd80"}`, "🦀"}, // surrogate pair
	}

	for _, tt := range tests {
		s, err := mustExtract(t, tt.doc, "a").String()
		if err != nil {
			t.Fatalf("String(%q) error: %v", tt.doc, err)
		}
		if s != tt.want {
			t.Errorf("String(%q) = %q, want %q", tt.doc, s, tt.want)
		}
	}
}

func TestValueOffsets(t *testing.T) {
	doc := `{"a": 123}`
	v := mustExtract(t, doc, "a")
	start, end := v.Offsets()
	if doc[start:end] != "123" {
		t.Errorf("Offsets select %q, want %q", doc[start:end], "123")
	}
}

func mustExtract(t *testing.T, doc, path string) Value {
	t.Helper()
	v, err := Extract(doc, path)
	if err != nil {
		t.Fatalf("Extract(%q) error: %v", path, err)
	}
	return v
}
