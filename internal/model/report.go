package model

import "time"

// AuditReport accumulates the outcome of one full site audit: the sitemap
// actually used, the fingerprinted vendor, every leak found, and every
// warning that makes the result partial.
//
// Design decision: the report is the single mutable aggregate of an audit.
// Pipeline steps append to it; the exported record slices themselves hold
// immutable values, matching the ownership rules in this package's doc.
type AuditReport struct {
	// Site is the audited site root or sitemap URL as given by the caller.
	Site string `json:"site"`

	// SitemapURL is the root sitemap the audit ran against.
	SitemapURL string `json:"sitemap_url,omitempty"`

	// Vendor is the fingerprinted sitemap generator.
	Vendor Vendor `json:"vendor"`

	// Leaks holds every leak record in emission order.
	Leaks []LeakRecord `json:"leaks"`

	// Warnings holds every non-fatal degradation in occurrence order.
	Warnings []Warning `json:"warnings,omitempty"`

	// PostsAudited counts post pages fetched and diffed.
	PostsAudited int `json:"posts_audited"`

	// SitemapsFetched counts sitemap documents fetched, index and urlset.
	SitemapsFetched int `json:"sitemaps_fetched"`

	// SitemapEntries counts <url> entries seen across post urlsets.
	SitemapEntries int `json:"sitemap_entries"`

	// Truncated is true when any traversal bound was hit; the leak set is
	// then valid but known to be a subset.
	Truncated bool `json:"truncated"`

	// DateScanned is when the audit started.
	DateScanned time.Time `json:"date_scanned"`

	// Elapsed is the total audit wall time.
	Elapsed time.Duration `json:"elapsed"`
}

// NewAuditReport creates an empty report for the given site.
func NewAuditReport(site string) *AuditReport {
	return &AuditReport{
		Site:        site,
		Leaks:       make([]LeakRecord, 0),
		Warnings:    make([]Warning, 0),
		DateScanned: time.Now(),
	}
}

// AddLeak appends a leak record.
func (r *AuditReport) AddLeak(leak LeakRecord) {
	r.Leaks = append(r.Leaks, leak)
}

// AddWarning appends a warning and flips Truncated for truncation kinds.
func (r *AuditReport) AddWarning(w Warning) {
	r.Warnings = append(r.Warnings, w)
	if w.Kind == WarnTruncatedScan {
		r.Truncated = true
	}
}

// HasLeaks reports whether any leak was recorded.
func (r *AuditReport) HasLeaks() bool {
	return len(r.Leaks) > 0
}

// CountByKind returns leak counts per media kind.
func (r *AuditReport) CountByKind() map[MediaKind]int {
	counts := make(map[MediaKind]int)
	for _, leak := range r.Leaks {
		counts[leak.Kind]++
	}
	return counts
}
