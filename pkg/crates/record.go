package crates

import (
	stderrors "errors"

	"github.com/crator-sh/crator/pkg/errors"
	"github.com/crator-sh/crator/pkg/humanize"
	"github.com/crator-sh/crator/pkg/jsonpath"
)

// Record is the assembled crate metadata. It is built once per
// retrieval and immutable after construction. Timestamps and the
// license expression are passed through from the registry verbatim.
type Record struct {
	Name           string `json:"name"`            // crate name as queried
	Latest         string `json:"latest"`          // latest version, "major.minor.patch"
	Downloads      string `json:"downloads"`       // compact form, e.g. "56k"
	TotalDownloads uint64 `json:"total_downloads"` // exact all-time count
	Versions       int    `json:"versions"`        // number of published versions
	CreatedAt      string `json:"created_at"`      // ISO-8601, verbatim
	UpdatedAt      string `json:"updated_at"`      // ISO-8601, verbatim
	License        string `json:"license"`         // SPDX expression, may be empty
}

// Fixed extraction paths into the /api/v1/crates/<name> response body.
const (
	pathMaxVersion = "crate.max_version"
	pathDownloads  = "crate.downloads"
	pathCreatedAt  = "crate.created_at"
	pathUpdatedAt  = "crate.updated_at"
	pathVersions   = "versions"
	pathLicense    = "versions.0.license"
)

// buildRecord maps the fixed paths into record fields. Purely
// structural; all scanning happens inside the extractor.
func buildRecord(name, body string) (*Record, error) {
	rec := &Record{Name: name}

	latest, err := extractString(body, pathMaxVersion)
	if err != nil {
		return nil, err
	}
	rec.Latest = latest

	downloads, err := extractUint(body, pathDownloads)
	if err != nil {
		return nil, err
	}
	rec.TotalDownloads = downloads
	rec.Downloads = humanize.Compact(downloads)

	if rec.CreatedAt, err = extractString(body, pathCreatedAt); err != nil {
		return nil, err
	}
	if rec.UpdatedAt, err = extractString(body, pathUpdatedAt); err != nil {
		return nil, err
	}

	versions, err := jsonpath.Extract(body, pathVersions)
	if err != nil {
		return nil, translate(err, pathVersions)
	}
	count, err := versions.Len()
	if err != nil {
		return nil, translate(err, pathVersions)
	}
	rec.Versions = count

	// License lives on the newest version entry. Absent or null is a
	// recoverable not-found: the record carries an empty license.
	license, err := jsonpath.Extract(body, pathLicense)
	switch {
	case stderrors.Is(err, jsonpath.ErrNotFound):
	case err != nil:
		return nil, translate(err, pathLicense)
	case license.IsNull():
	default:
		if rec.License, err = license.String(); err != nil {
			return nil, translate(err, pathLicense)
		}
	}

	return rec, nil
}

func extractString(body, path string) (string, error) {
	v, err := jsonpath.Extract(body, path)
	if err != nil {
		return "", translate(err, path)
	}
	s, err := v.String()
	if err != nil {
		return "", translate(err, path)
	}
	return s, nil
}

func extractUint(body, path string) (uint64, error) {
	v, err := jsonpath.Extract(body, path)
	if err != nil {
		return 0, translate(err, path)
	}
	n, err := v.Uint64()
	if err != nil {
		return 0, translate(err, path)
	}
	return n, nil
}

// translate maps extractor failures onto the retrieval error kinds. A
// malformed body aborts the whole retrieval; the document cannot be
// trusted past the first defect.
func translate(err error, path string) error {
	switch {
	case stderrors.Is(err, jsonpath.ErrMalformed):
		return errors.Wrap(errors.ErrCodeParse, err, "malformed registry response")
	case stderrors.Is(err, jsonpath.ErrNotFound):
		return errors.Wrap(errors.ErrCodePathNotFound, err, "field %s missing from registry response", path)
	case stderrors.Is(err, jsonpath.ErrKind):
		return errors.Wrap(errors.ErrCodeFormat, err, "unexpected value at %s", path)
	default:
		return errors.Wrap(errors.ErrCodeFormat, err, "cannot read %s", path)
	}
}
