package jsonpath

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// Kind tags the JSON type of a resolved value.
type Kind int

const (
	KindInvalid Kind = iota
	KindString
	KindNumber
	KindBool
	KindNull
	KindObject
	KindArray
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "boolean"
	case KindNull:
		return "null"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	default:
		return "invalid"
	}
}

// ErrKind is returned by the typed accessors when the value at a resolved
// path has a different JSON type than requested.
var ErrKind = errors.New("unexpected value kind")

// Value is a located region within the source document: a start/end
// offset pair plus a kind tag. The underlying text is not copied or
// decoded until one of the accessors asks for it.
type Value struct {
	src   string
	start int
	end   int
	kind  Kind
}

// Kind reports the JSON type of the value.
func (v Value) Kind() Kind { return v.kind }

// Raw returns the literal text span of the value, quotes included for
// strings. Numbers keep their original textual form; no precision is
// lost to an intermediate float conversion.
func (v Value) Raw() string { return v.src[v.start:v.end] }

// Offsets returns the value's position within the source document.
func (v Value) Offsets() (start, end int) { return v.start, v.end }

// String materializes a string value, resolving escape sequences.
func (v Value) String() (string, error) {
	if v.kind != KindString {
		return "", fmt.Errorf("%w: %s, want string", ErrKind, v.kind)
	}
	return unquote(v.Raw())
}

// Int64 parses a number value as a signed integer.
func (v Value) Int64() (int64, error) {
	if v.kind != KindNumber {
		return 0, fmt.Errorf("%w: %s, want number", ErrKind, v.kind)
	}
	return strconv.ParseInt(v.Raw(), 10, 64)
}

// Uint64 parses a number value as an unsigned integer.
func (v Value) Uint64() (uint64, error) {
	if v.kind != KindNumber {
		return 0, fmt.Errorf("%w: %s, want number", ErrKind, v.kind)
	}
	return strconv.ParseUint(v.Raw(), 10, 64)
}

// Float64 parses a number value as a float.
func (v Value) Float64() (float64, error) {
	if v.kind != KindNumber {
		return 0, fmt.Errorf("%w: %s, want number", ErrKind, v.kind)
	}
	return strconv.ParseFloat(v.Raw(), 64)
}

// Bool reads a boolean value.
func (v Value) Bool() (bool, error) {
	if v.kind != KindBool {
		return false, fmt.Errorf("%w: %s, want boolean", ErrKind, v.kind)
	}
	return v.Raw() == "true", nil
}

// IsNull reports whether the value is the JSON null literal.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Len counts the elements of an array value by comma-aware iteration,
// without descending into the elements.
func (v Value) Len() (int, error) {
	if v.kind != KindArray {
		return 0, fmt.Errorf("%w: %s, want array", ErrKind, v.kind)
	}
	s := &scanner{src: v.src, pos: v.start + 1} // past '['
	n := 0
	for {
		s.skipSpace()
		if s.peek() == ']' {
			return n, nil
		}
		if _, _, _, err := s.scanValue(); err != nil {
			return 0, err
		}
		n++
		s.skipSpace()
		switch s.peek() {
		case ',':
			s.pos++
		case ']':
			return n, nil
		default:
			return 0, malformed(s.pos, "expected ',' or ']' in array")
		}
	}
}

// unquote resolves JSON string escapes. raw includes the surrounding
// quotes, which scanValue has already verified are balanced.
func unquote(raw string) (string, error) {
	inner := raw[1 : len(raw)-1]
	if !strings.ContainsRune(inner, '\\') {
		return inner, nil
	}

	var b strings.Builder
	b.Grow(len(inner))
	for i := 0; i < len(inner); {
		c := inner[i]
		if c != '\\' {
			b.WriteByte(c)
			i++
			continue
		}
		if i+1 >= len(inner) {
			return "", fmt.Errorf("jsonpath: truncated escape in %q", raw)
		}
		switch inner[i+1] {
		case '"':
			b.WriteByte('"')
		case '\\':
			b.WriteByte('\\')
		case '/':
			b.WriteByte('/')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case 'u':
			r, size, err := decodeUnicodeEscape(inner[i:])
			if err != nil {
				return "", err
			}
			b.WriteRune(r)
			i += size
			continue
		default:
			return "", fmt.Errorf("jsonpath: invalid escape \\%c", inner[i+1])
		}
		i += 2
	}
	return b.String(), nil
}

// decodeUnicodeEscape decodes a \uXXXX sequence at the start of s,
// combining surrogate pairs. It returns the rune and the number of bytes
// consumed.
func decodeUnicodeEscape(s string) (rune, int, error) {
	if len(s) < 6 {
		return 0, 0, fmt.Errorf("jsonpath: truncated \\u escape")
	}
	hi, err := strconv.ParseUint(s[2:6], 16, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("jsonpath: invalid \\u escape %q", s[:6])
	}
	r := rune(hi)
	if !utf16.IsSurrogate(r) {
		return r, 6, nil
	}
	if len(s) >= 12 && s[6] == '\\' && s[7] == 'u' {
		lo, err := strconv.ParseUint(s[8:12], 16, 32)
		if err == nil {
			if dec := utf16.DecodeRune(r, rune(lo)); dec != utf8.RuneError {
				return dec, 12, nil
			}
		}
	}
	return utf8.RuneError, 6, nil
}
