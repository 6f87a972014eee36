package jsonpath

import (
	"errors"
	"strings"
	"testing"
)

const crateBody = `{
  "crate": {
    "name": "serde",
    "max_version": "1.0.193",
    "downloads": 298457123,
    "created_at": "2014-11-05T21:44:27.022296+00:00",
    "updated_at": "2023-12-26T01:56:20.914296+00:00",
    "description": "A generic serialization/deserialization framework"
  },
  "versions": [
    {"num": "1.0.193", "license": "MIT OR Apache-2.0", "yanked": false},
    {"num": "1.0.192", "license": "MIT OR Apache-2.0", "yanked": false},
    {"num": "1.0.191", "license": null, "yanked": true}
  ]
}`

func TestExtractObjectPaths(t *testing.T) {
	tests := []struct {
		path string
		want string
		kind Kind
	}{
		{"crate.name", `"serde"`, KindString},
		{"crate.max_version", `"1.0.193"`, KindString},
		{"crate.downloads", "298457123", KindNumber},
		{"versions.0.num", `"1.0.193"`, KindString},
		{"versions.2.yanked", "true", KindBool},
		{"versions.2.license", "null", KindNull},
		{"crate", "", KindObject},
		{"versions", "", KindArray},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			v, err := Extract(crateBody, tt.path)
			if err != nil {
				t.Fatalf("Extract(%q) error: %v", tt.path, err)
			}
			if v.Kind() != tt.kind {
				t.Errorf("Kind = %v, want %v", v.Kind(), tt.kind)
			}
			if tt.want != "" && v.Raw() != tt.want {
				t.Errorf("Raw = %q, want %q", v.Raw(), tt.want)
			}
		})
	}
}

func TestExtractNotFound(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		path string
	}{
		{"missing key", crateBody, "crate.homepage"},
		{"missing nested key", crateBody, "crate.owner.name"},
		{"index out of bounds", crateBody, "versions.3"},
		{"large index", crateBody, "versions.2147483647"},
		{"empty document", "", "crate.name"},
		{"whitespace document", "   \n\t", "crate.name"},
		{"key segment against array", crateBody, "versions.num"},
		{"index segment against scalar", crateBody, "crate.name.0"},
		{"key segment against scalar", crateBody, "crate.downloads.total"},
		{"empty object", "{}", "anything"},
		{"empty array", "[]", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Extract(tt.doc, tt.path)
			if !errors.Is(err, ErrNotFound) {
				t.Errorf("Extract(%q) error = %v, want ErrNotFound", tt.path, err)
			}
		})
	}
}

func TestExtractMalformed(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		path string
	}{
		{"unterminated string", `{"a": "unclosed`, "a"},
		{"unterminated object", `{"a": {"b": 1}`, "missing"},
		{"mismatched brackets", `{"a": [1, 2}}`, "b"},
		{"missing colon", `{"a" 1}`, "a"},
		{"bare key", `{a: 1}`, "a"},
		{"truncated array", `{"a": [1, 2`, "b"},
		{"garbage value", `{"a": @}`, "b"},
		{"truncated after colon", `{"a":`, "a.b"},
		{"truncated after array open", `{"a": [`, "a.0"},
		{"truncated before nested member", `{"versions": [`, "versions.0.license"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Extract(tt.doc, tt.path)
			if !errors.Is(err, ErrMalformed) {
				t.Errorf("Extract(%q) error = %v, want ErrMalformed", tt.path, err)
			}
			if errors.Is(err, ErrNotFound) {
				t.Error("malformed must stay distinct from not-found")
			}
		})
	}
}

func TestExtractMalformedCarriesOffset(t *testing.T) {
	_, err := Extract(`{"a": "unclosed`, "a")
	var me *MalformedError
	if !errors.As(err, &me) {
		t.Fatalf("error = %v, want *MalformedError", err)
	}
	if me.Offset != 6 {
		t.Errorf("Offset = %d, want 6", me.Offset)
	}
}

func TestExtractEscapedQuoteInString(t *testing.T) {
	v, err := Extract(`{"a":"x\"y"}`, "a")
	if err != nil {
		t.Fatalf("Extract error: %v", err)
	}
	s, err := v.String()
	if err != nil {
		t.Fatalf("String error: %v", err)
	}
	if s != `x"y` {
		t.Errorf("String = %q, want %q", s, `x"y`)
	}
}

func TestExtractBracesInsideStrings(t *testing.T) {
	// Braces and brackets embedded in strings must not disturb the
	// depth counter.
	doc := `{"a": "}{][", "b": {"c": "[{"}, "d": 7}`
	v, err := Extract(doc, "d")
	if err != nil {
		t.Fatalf("Extract error: %v", err)
	}
	if v.Raw() != "7" {
		t.Errorf("Raw = %q, want %q", v.Raw(), "7")
	}
}

func TestExtractSkipsSiblingContainers(t *testing.T) {
	doc := `{"skip": {"deep": [[[{"x": 1}]]]}, "take": 42}`
	v, err := Extract(doc, "take")
	if err != nil {
		t.Fatalf("Extract error: %v", err)
	}
	if v.Raw() != "42" {
		t.Errorf("Raw = %q, want %q", v.Raw(), "42")
	}
}

func TestExtractArrayPositional(t *testing.T) {
	// Array segments are positional even when the element objects have
	// a key of the same spelling.
	doc := `[{"0": "zero"}, {"0": "one"}]`
	v, err := Extract(doc, "1.0")
	if err != nil {
		t.Fatalf("Extract error: %v", err)
	}
	s, _ := v.String()
	if s != "one" {
		t.Errorf("value = %q, want %q", s, "one")
	}
}

func TestExtractTopLevelArray(t *testing.T) {
	doc := `[10, 20, [30, 40]]`
	v, err := Extract(doc, "2.1")
	if err != nil {
		t.Fatalf("Extract error: %v", err)
	}
	if v.Raw() != "40" {
		t.Errorf("Raw = %q, want %q", v.Raw(), "40")
	}
}

func TestExtractNumberPreservedTextually(t *testing.T) {
	// A number larger than float64 can represent exactly must survive
	// as its original text.
	doc := `{"n": 9007199254740993}`
	v, err := Extract(doc, "n")
	if err != nil {
		t.Fatalf("Extract error: %v", err)
	}
	if v.Raw() != "9007199254740993" {
		t.Errorf("Raw = %q, want original text", v.Raw())
	}
	n, err := v.Uint64()
	if err != nil {
		t.Fatalf("Uint64 error: %v", err)
	}
	if n != 9007199254740993 {
		t.Errorf("Uint64 = %d, want 9007199254740993", n)
	}
}

func TestExtractComposesOverPrefixes(t *testing.T) {
	// Resolving a multi-segment path equals resolving a prefix and then
	// the suffix against the prefix's subdocument.
	paths := [][2]string{
		{"crate", "max_version"},
		{"versions", "0.license"},
		{"versions.1", "num"},
	}

	for _, p := range paths {
		full, err := Extract(crateBody, p[0]+"."+p[1])
		if err != nil {
			t.Fatalf("Extract(%q) error: %v", p[0]+"."+p[1], err)
		}
		prefix, err := Extract(crateBody, p[0])
		if err != nil {
			t.Fatalf("Extract(%q) error: %v", p[0], err)
		}
		suffix, err := Extract(prefix.Raw(), p[1])
		if err != nil {
			t.Fatalf("Extract suffix %q error: %v", p[1], err)
		}
		if full.Raw() != suffix.Raw() {
			t.Errorf("composed resolution mismatch: %q vs %q", full.Raw(), suffix.Raw())
		}
	}
}

func TestExtractMinifiedAndPretty(t *testing.T) {
	minified := strings.Join(strings.Fields(crateBody), "")
	// Collapsing whitespace this way is safe here because no string in
	// the fixture contains spaces that matter for the tested paths.
	v1, err := Extract(crateBody, "crate.downloads")
	if err != nil {
		t.Fatal(err)
	}
	v2, err := Extract(minified, "crate.downloads")
	if err != nil {
		t.Fatal(err)
	}
	if v1.Raw() != v2.Raw() {
		t.Errorf("pretty %q != minified %q", v1.Raw(), v2.Raw())
	}
}

func TestExtractInvalidPath(t *testing.T) {
	for _, path := range []string{"", "a..b", ".a", "a."} {
		if _, err := Extract(crateBody, path); err == nil {
			t.Errorf("Extract(%q) should fail", path)
		}
	}
}

func TestExtractEscapedKey(t *testing.T) {
	doc := `{"a\"b": 1}`
	v, err := Extract(doc, `a"b`)
	if err != nil {
		t.Fatalf("Extract error: %v", err)
	}
	if v.Raw() != "1" {
		t.Errorf("Raw = %q, want %q", v.Raw(), "1")
	}
}
