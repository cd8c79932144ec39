package model

// LeakMode identifies which diff mode produced a LeakRecord.
type LeakMode string

// Leak mode constants.
const (
	// LeakModePost marks a per-post leak: the sitemap still advertises a
	// media URL the live post page no longer references.
	LeakModePost LeakMode = "post"
	// LeakModeOrphanAttachment marks a site-wide orphan: an attachment
	// sitemap entry no current post references anywhere.
	LeakModeOrphanAttachment LeakMode = "orphan_attachment"
)

// String returns the string representation of the LeakMode.
func (m LeakMode) String() string { return string(m) }

// LeakRecord is one confirmed timeleak. Created by the diff engine,
// never mutated, consumed by the report writers.
type LeakRecord struct {
	// PostURL is the post the leak was detected against.
	// Empty for orphan attachments, which have no single context post.
	PostURL string `json:"post_url,omitempty"`

	// MediaURL is the leaked media URL as declared by the sitemap.
	MediaURL string `json:"media_url"`

	// Kind is the media kind carried over from the declaration.
	Kind MediaKind `json:"kind"`

	// Mode records which diff mode emitted this leak.
	Mode LeakMode `json:"mode"`
}

// ContextTag returns the context column for brief output: the post URL for
// per-post leaks, "-" for orphan attachments (matching the classic one leak
// per line format).
func (r LeakRecord) ContextTag() string {
	if r.PostURL == "" {
		return "-"
	}
	return r.PostURL
}
