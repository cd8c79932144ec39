package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages. Using errors.New() here rather than fmt.Errorf()
// because we don't need to include dynamic values in these messages.
var (
	// ErrNoTarget is returned when no site root, sitemap URL, or list file
	// is specified. This error occurs when neither --input nor a positional
	// argument provides a target.
	ErrNoTarget = errors.New("no target specified: provide a site URL or use --input")

	// ErrInvalidTimeout is returned when the timeout is not positive.
	// A timeout of zero or negative would cause immediate request failures.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidConcurrency is returned when the concurrency is not positive.
	// A concurrency of zero would mean no fetches run at all.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be positive")

	// ErrInvalidSitemapBounds is returned when the sitemap depth or count
	// bound is negative. Use 0 to disable recursion entirely.
	ErrInvalidSitemapBounds = errors.New("invalid sitemap bounds: depth and count must be non-negative")

	// ErrConflictingReportFormats is returned when more than one of --brief,
	// --json, and --markdown is specified. Only one output format can be
	// used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --brief, --json, and --markdown are mutually exclusive")

	// ErrInvalidRate is returned when the request rate is negative.
	// A negative rate is invalid; use 0 to disable pacing.
	ErrInvalidRate = errors.New("invalid request rate: must be non-negative")

	// ErrInvalidMaxBodySize is returned when a body size budget is negative.
	// A negative budget is invalid; use 0 to use the default limit.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrInvalidLeakKind is returned when --leaks names an unknown media
	// kind. Valid values are image, video, and attachment.
	ErrInvalidLeakKind = errors.New("invalid leak kind: must be one of image, video, attachment")
)
