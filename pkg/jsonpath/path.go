package jsonpath

import "fmt"

// segment is one element of a dot-path. raw is the literal segment text,
// used for object member matching. index is valid only when digits is
// true; digit-only segments select array elements by position.
type segment struct {
	raw    string
	index  int
	digits bool
}

// parsePath splits a dot-path into segments. An empty path or an empty
// segment ("a..b", trailing dot) is rejected.
func parsePath(path string) ([]segment, error) {
	if path == "" {
		return nil, fmt.Errorf("jsonpath: empty path")
	}

	var segs []segment
	start := 0
	for i := 0; i <= len(path); i++ {
		if i < len(path) && path[i] != '.' {
			continue
		}
		raw := path[start:i]
		if raw == "" {
			return nil, fmt.Errorf("jsonpath: empty segment in path %q", path)
		}
		segs = append(segs, makeSegment(raw))
		start = i + 1
	}
	return segs, nil
}

func makeSegment(raw string) segment {
	idx := 0
	for i := 0; i < len(raw); i++ {
		if raw[i] < '0' || raw[i] > '9' {
			return segment{raw: raw}
		}
		// Indices large enough to overflow never resolve anyway; cap
		// instead of wrapping.
		if idx > (1<<31-1)/10 {
			return segment{raw: raw, index: 1<<31 - 1, digits: true}
		}
		idx = idx*10 + int(raw[i]-'0')
	}
	return segment{raw: raw, index: idx, digits: true}
}
