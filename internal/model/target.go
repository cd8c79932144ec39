package model

// Classification is the terminal triage verdict for a bulk-scanned target.
type Classification string

// Classification constants.
const (
	// ClassUnclassified is the initial state before any heuristic has run.
	ClassUnclassified Classification = ""
	// ClassJetpackLike marks targets whose sitemap carries a known
	// platform marker (WordPress.com generator, Jetpack signature).
	ClassJetpackLike Classification = "jetpack_like"
	// ClassSelfHosted marks targets with a plain sitemap and no media
	// extension namespaces.
	ClassSelfHosted Classification = "self_hosted"
	// ClassLikelyLeaking marks targets whose sitemap embeds image/video
	// declarations without a recognized platform marker: prime candidates
	// for a full audit.
	ClassLikelyLeaking Classification = "likely_leaking"
	// ClassUnreachable marks targets whose sitemap could not be fetched.
	ClassUnreachable Classification = "unreachable"
)

// String returns the string representation of the Classification.
func (c Classification) String() string {
	if c == ClassUnclassified {
		return "unclassified"
	}
	return string(c)
}

// Terminal returns true once the classification can no longer change.
func (c Classification) Terminal() bool {
	return c != ClassUnclassified
}

// Evidence is the identifier of one matched fingerprint rule. Evidence
// accumulates monotonically on a ScanTarget and is never retracted, so the
// terminal classification decision stays auditable per rule.
type Evidence string

// Evidence identifiers.
const (
	// EvidenceWPComGenerator matches the generator="wordpress.com" comment.
	EvidenceWPComGenerator Evidence = "wpcom_generator"
	// EvidenceJetpackGenerator matches a generator='jetpack...' comment.
	EvidenceJetpackGenerator Evidence = "jetpack_generator"
	// EvidenceJetpackSignature matches jetpack-sitemap buffer signatures.
	EvidenceJetpackSignature Evidence = "jetpack_signature"
	// EvidenceImageSitemapPath matches the image-sitemap-N.xml convention,
	// in the target URL or in a child <loc>.
	EvidenceImageSitemapPath Evidence = "image_sitemap_path"
	// EvidenceImageNamespace matches image declarations or the sitemap
	// image extension namespace.
	EvidenceImageNamespace Evidence = "image_namespace"
	// EvidenceVideoNamespace matches video declarations or the sitemap
	// video extension namespace.
	EvidenceVideoNamespace Evidence = "video_namespace"
	// EvidenceCoreSitemapPath matches the core wp-sitemap.xml convention.
	EvidenceCoreSitemapPath Evidence = "core_sitemap_path"
	// EvidenceSitemapDocument matches any well-formed urlset/sitemapindex.
	EvidenceSitemapDocument Evidence = "sitemap_document"
)

// ScanTarget is the triage record for one bulk-scanned site root.
// It is created Unclassified, transitions exactly once to a terminal
// classification (or Unreachable on fetch failure), then is read-only.
type ScanTarget struct {
	// RootURL is the input target, usually a site root or sitemap URL.
	RootURL string `json:"root_url"`

	// SitemapURL is the sitemap actually fetched, empty if none was located.
	SitemapURL string `json:"sitemap_url,omitempty"`

	// Classification is the terminal triage verdict.
	Classification Classification `json:"classification"`

	// Evidence lists matched rule identifiers in match order, deduplicated.
	Evidence []Evidence `json:"evidence,omitempty"`

	// StatusCode is the HTTP status of the sitemap fetch, 0 when the
	// request never completed.
	StatusCode int `json:"status_code,omitempty"`

	// FailureReason carries the fetch error for Unreachable targets.
	FailureReason string `json:"failure_reason,omitempty"`
}

// AddEvidence appends a matched rule identifier. Duplicates are ignored;
// evidence is never removed.
func (t *ScanTarget) AddEvidence(e Evidence) {
	for _, have := range t.Evidence {
		if have == e {
			return
		}
	}
	t.Evidence = append(t.Evidence, e)
}

// HasEvidence reports whether the rule identifier already matched.
func (t *ScanTarget) HasEvidence(e Evidence) bool {
	for _, have := range t.Evidence {
		if have == e {
			return true
		}
	}
	return false
}

// Finalize assigns the terminal classification. The first call wins;
// later calls are no-ops so a classification is never overwritten.
func (t *ScanTarget) Finalize(c Classification) {
	if t.Classification.Terminal() || !c.Terminal() {
		return
	}
	t.Classification = c
}
