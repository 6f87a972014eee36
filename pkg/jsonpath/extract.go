package jsonpath

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for extraction failures.
var (
	// ErrNotFound is returned when a path does not resolve against a
	// well-formed document. The caller may substitute a default.
	ErrNotFound = errors.New("path not found")

	// ErrMalformed is returned when the document is structurally
	// invalid. The remainder of the document cannot be trusted and the
	// scan stops at the first defect.
	ErrMalformed = errors.New("malformed document")
)

// MalformedError carries the byte offset of the first structural defect.
// It matches ErrMalformed under errors.Is.
type MalformedError struct {
	Offset int
	Reason string
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("malformed document at offset %d: %s", e.Offset, e.Reason)
}

func (e *MalformedError) Unwrap() error { return ErrMalformed }

func malformed(offset int, reason string) error {
	return &MalformedError{Offset: offset, Reason: reason}
}

// Extract resolves a dot-path against JSON text and returns a view of
// the value it names. It never builds a document tree: containers off
// the resolution path are skipped in bulk by depth counting.
//
// Failures are ErrNotFound for paths that do not resolve (including any
// path against an empty document and array indices past the last
// element) and ErrMalformed for structurally invalid input.
func Extract(doc, path string) (Value, error) {
	segs, err := parsePath(path)
	if err != nil {
		return Value{}, err
	}

	s := &scanner{src: doc}
	s.skipSpace()
	if s.eof() {
		return Value{}, ErrNotFound // empty document
	}

	for _, seg := range segs {
		if err := s.descend(seg); err != nil {
			return Value{}, err
		}
	}

	start, end, kind, err := s.scanValue()
	if err != nil {
		return Value{}, err
	}
	return Value{src: doc, start: start, end: end, kind: kind}, nil
}

// scanner is a forward-only cursor over the source text. All scan state
// is local to one Extract call.
type scanner struct {
	src string
	pos int
}

func (s *scanner) eof() bool { return s.pos >= len(s.src) }

// peek returns the byte at the cursor, or 0 at end of input.
func (s *scanner) peek() byte {
	if s.eof() {
		return 0
	}
	return s.src[s.pos]
}

func (s *scanner) skipSpace() {
	for !s.eof() {
		switch s.src[s.pos] {
		case ' ', '\t', '\n', '\r':
			s.pos++
		default:
			return
		}
	}
}

// descend positions the cursor on the sub-value selected by seg. The
// cursor must be on the start of a container value; scalars and
// mismatched container kinds resolve to not-found.
func (s *scanner) descend(seg segment) error {
	s.skipSpace()
	switch s.peek() {
	case '{':
		return s.descendObject(seg)
	case '[':
		// Array segments are positional, never name matches.
		if !seg.digits {
			return ErrNotFound
		}
		return s.descendArray(seg.index)
	case 0:
		// Empty documents are caught before descent; hitting end of
		// input here means the document broke off mid-value.
		return malformed(s.pos, "unexpected end of input")
	default:
		// A path segment against a scalar cannot resolve, but the
		// scalar itself must still be well-formed.
		if _, _, _, err := s.scanValue(); err != nil {
			return err
		}
		return ErrNotFound
	}
}

// descendObject scans object members in order until one matches seg by
// name, leaving the cursor on the member's value.
func (s *scanner) descendObject(seg segment) error {
	s.pos++ // past '{'
	for {
		s.skipSpace()
		switch s.peek() {
		case '}':
			s.pos++
			return ErrNotFound
		case '"':
		case 0:
			return malformed(s.pos, "unterminated object")
		default:
			return malformed(s.pos, "expected member name")
		}

		keyStart := s.pos
		if err := s.scanString(); err != nil {
			return err
		}
		rawKey := s.src[keyStart:s.pos]

		s.skipSpace()
		if s.peek() != ':' {
			return malformed(s.pos, "expected ':' after member name")
		}
		s.pos++
		s.skipSpace()

		match, err := keyEquals(rawKey, seg.raw)
		if err != nil {
			return err
		}
		if match {
			return nil // cursor is on the member value
		}

		// Not on the path: skip the value in bulk.
		if _, _, _, err := s.scanValue(); err != nil {
			return err
		}
		s.skipSpace()
		switch s.peek() {
		case ',':
			s.pos++
		case '}':
			s.pos++
			return ErrNotFound
		default:
			return malformed(s.pos, "expected ',' or '}' in object")
		}
	}
}

// descendArray counts sibling elements until the target index, leaving
// the cursor on that element. An index past the last element is
// not-found, never a fault.
func (s *scanner) descendArray(target int) error {
	s.pos++ // past '['
	for i := 0; ; i++ {
		s.skipSpace()
		if s.eof() {
			return malformed(s.pos, "unterminated array")
		}
		if s.peek() == ']' {
			s.pos++
			return ErrNotFound // exhausted before target
		}
		if i == target {
			return nil // cursor is on the element
		}
		if _, _, _, err := s.scanValue(); err != nil {
			return err
		}
		s.skipSpace()
		switch s.peek() {
		case ',':
			s.pos++
		case ']':
			s.pos++
			return ErrNotFound
		default:
			return malformed(s.pos, "expected ',' or ']' in array")
		}
	}
}

// scanValue scans one complete JSON value at the cursor and advances
// past it, returning the value's bounds and kind. Containers are skipped
// by tracking a stack of open brackets; the stack must drain exactly, a
// residual open container at end of input is malformed.
func (s *scanner) scanValue() (start, end int, kind Kind, err error) {
	s.skipSpace()
	start = s.pos
	if s.eof() {
		return 0, 0, KindInvalid, malformed(s.pos, "unexpected end of input")
	}

	switch c := s.peek(); {
	case c == '"':
		if err := s.scanString(); err != nil {
			return 0, 0, KindInvalid, err
		}
		return start, s.pos, KindString, nil
	case c == '{' || c == '[':
		if err := s.scanContainer(); err != nil {
			return 0, 0, KindInvalid, err
		}
		kind = KindObject
		if c == '[' {
			kind = KindArray
		}
		return start, s.pos, kind, nil
	case c == 't':
		return s.scanLiteral("true", KindBool)
	case c == 'f':
		return s.scanLiteral("false", KindBool)
	case c == 'n':
		return s.scanLiteral("null", KindNull)
	case c == '-' || (c >= '0' && c <= '9'):
		return s.scanNumber()
	default:
		return 0, 0, KindInvalid, malformed(s.pos, fmt.Sprintf("unexpected character %q", c))
	}
}

// scanString advances the cursor past a string literal, honoring escape
// sequences so an escaped quote never terminates the string.
func (s *scanner) scanString() error {
	startPos := s.pos
	s.pos++ // past opening '"'
	for !s.eof() {
		switch s.src[s.pos] {
		case '\\':
			s.pos += 2 // escape consumes the next byte, whatever it is
		case '"':
			s.pos++
			return nil
		default:
			s.pos++
		}
	}
	return malformed(startPos, "unterminated string")
}

// scanContainer skips a complete object or array by depth counting,
// using a stack of opening brackets so a ']' can never close a '{'.
// String contents are skipped and do not disturb the counters.
func (s *scanner) scanContainer() error {
	startPos := s.pos
	var stack []byte
	for !s.eof() {
		switch c := s.src[s.pos]; c {
		case '"':
			if err := s.scanString(); err != nil {
				return err
			}
			continue
		case '{', '[':
			stack = append(stack, c)
		case '}':
			if len(stack) == 0 || stack[len(stack)-1] != '{' {
				return malformed(s.pos, "mismatched '}'")
			}
			stack = stack[:len(stack)-1]
		case ']':
			if len(stack) == 0 || stack[len(stack)-1] != '[' {
				return malformed(s.pos, "mismatched ']'")
			}
			stack = stack[:len(stack)-1]
		}
		s.pos++
		if len(stack) == 0 {
			return nil
		}
	}
	return malformed(startPos, "unterminated container")
}

func (s *scanner) scanLiteral(lit string, kind Kind) (int, int, Kind, error) {
	start := s.pos
	if !strings.HasPrefix(s.src[s.pos:], lit) {
		return 0, 0, KindInvalid, malformed(s.pos, "invalid literal")
	}
	s.pos += len(lit)
	return start, s.pos, kind, nil
}

// scanNumber consumes a numeric literal. The span is kept as text; the
// caller decides when and how to parse it.
func (s *scanner) scanNumber() (int, int, Kind, error) {
	start := s.pos
	for !s.eof() {
		switch c := s.src[s.pos]; {
		case c >= '0' && c <= '9',
			c == '-', c == '+', c == '.', c == 'e', c == 'E':
			s.pos++
		default:
			return start, s.pos, KindNumber, nil
		}
	}
	return start, s.pos, KindNumber, nil
}

// keyEquals compares a raw member name span (quotes included) to a path
// segment. Names without escapes compare directly; escaped names are
// unquoted first.
func keyEquals(rawKey, seg string) (bool, error) {
	inner := rawKey[1 : len(rawKey)-1]
	if !strings.ContainsRune(inner, '\\') {
		return inner == seg, nil
	}
	key, err := unquote(rawKey)
	if err != nil {
		return false, err
	}
	return key == seg, nil
}
