// Package jsonpath resolves dot-notation paths against raw JSON text
// without building a parse tree.
//
// The extractor performs a single forward scan of the document, counting
// brace/bracket depth to skip containers that are not on the resolution
// path. String contents are skipped with escape-aware end detection, so
// braces embedded in strings never disturb the depth counter. Values are
// returned as views into the source text and are only materialized
// (unescaped, parsed) when the caller asks.
//
// # Path Syntax
//
// Paths are dot-separated segments. Inside an object a segment matches a
// member by name; inside an array a digit-only segment selects an element
// by zero-based position:
//
//	crate.max_version
//	versions.0.license
//
// Array segments are always positional. A non-numeric segment applied to
// an array, or any segment applied to a scalar, resolves to not-found.
//
// # Errors
//
// [Extract] distinguishes two failure modes: [ErrNotFound] when the path
// does not resolve against a well-formed document (missing member, index
// past the end of an array, empty document), and [ErrMalformed] when the
// document itself is structurally invalid (unterminated string,
// mismatched bracket). Malformed input short-circuits the scan; the rest
// of the document cannot be trusted.
//
// The package holds no state between calls; concurrent extractions never
// interfere.
package jsonpath
