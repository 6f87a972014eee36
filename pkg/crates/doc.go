// Package crates retrieves crate metadata from the crates.io registry.
//
// A retrieval is one self-contained exchange: the client validates the
// crate name, drives a fetch task against /api/v1/crates/<name> with the
// spin-then-yield driver, and assembles a [Record] by extracting a fixed
// set of dot-paths from the raw response body. No JSON document tree is
// ever built and no state is shared between calls; callers wanting
// caching layer it on top (see the CLI and serve command).
//
// # Errors
//
// Failures carry machine-readable codes from
// [github.com/crator-sh/crator/pkg/errors]:
//
//   - CONNECTION_ERROR: DNS, TCP, or TLS failure
//   - HTTP_ERROR: non-success status; an unknown crate is a 404 and
//     never produces a zero-filled record
//   - PARSE_ERROR: structurally invalid response body
//   - PATH_NOT_FOUND: a required field absent from a well-formed body
//   - FORMAT_ERROR: a field present with an unexpected JSON type
package crates
