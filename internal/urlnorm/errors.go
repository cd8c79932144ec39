// Package urlnorm error definitions.
package urlnorm

import "errors"

// Package-level sentinel errors. Callers drop the offending URL with a
// warning rather than aborting the scan, so these carry enough context on
// their own and are wrapped with the raw input at the call site.
var (
	// ErrInvalidURL is returned when a URL cannot be parsed.
	ErrInvalidURL = errors.New("invalid URL")

	// ErrUnsupportedScheme is returned for URLs outside http/https
	// (mailto:, javascript:, data: and friends).
	ErrUnsupportedScheme = errors.New("unsupported URL scheme")

	// ErrEmptyURL is returned when the input is empty or whitespace only.
	ErrEmptyURL = errors.New("empty URL")
)
