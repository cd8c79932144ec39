package model

import "fmt"

// WarningKind categorizes non-fatal degradations recorded during a scan.
// A warning never aborts processing; it marks the result as valid but
// partial so a truncated scan is distinguishable from a complete one.
type WarningKind string

// Warning kind constants.
const (
	// WarnTruncatedScan means a traversal bound (depth or sitemap count)
	// was exceeded and the remainder was skipped.
	WarnTruncatedScan WarningKind = "truncated_scan"
	// WarnDroppedURL means a URL failed normalization and was dropped.
	WarnDroppedURL WarningKind = "dropped_url"
	// WarnSubSitemapFailed means a child sitemap could not be fetched or
	// parsed and its subtree was skipped.
	WarnSubSitemapFailed WarningKind = "sub_sitemap_failed"
	// WarnPostFetchFailed means a post page could not be fetched, so its
	// declarations were skipped rather than reported as leaks.
	WarnPostFetchFailed WarningKind = "post_fetch_failed"
)

// Warning is one recorded degradation.
type Warning struct {
	// Kind categorizes the degradation.
	Kind WarningKind `json:"kind"`

	// Subject is the URL or bound the warning is about.
	Subject string `json:"subject,omitempty"`

	// Detail is a human-readable explanation.
	Detail string `json:"detail,omitempty"`
}

// String renders the warning for log output.
func (w Warning) String() string {
	if w.Subject == "" {
		return fmt.Sprintf("%s: %s", w.Kind, w.Detail)
	}
	return fmt.Sprintf("%s: %s: %s", w.Kind, w.Subject, w.Detail)
}
