package audit

import "errors"

// Audit outcome errors.
// These map to the CLI's distinct exit codes, so they are sentinels
// checkable with errors.Is rather than ad-hoc strings.
var (
	// ErrNoEntries is returned when the sitemap tree was walked
	// successfully but contained zero post entries. An empty site cannot
	// leak, but the caller usually wants to know the audit was vacuous.
	ErrNoEntries = errors.New("sitemap contains no post entries")

	// ErrVendorGate is returned when --jetpack-only or
	// --assert-jetpack-leak is set and the fingerprinted sitemap vendor
	// is not in the Jetpack/WordPress.com family.
	ErrVendorGate = errors.New("sitemap vendor is not jetpack-flavored")
)
