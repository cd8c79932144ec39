package model

// mediaKindUnknownStr is the string representation for unknown media kinds.
const mediaKindUnknownStr = "unknown"

// MediaKind classifies a media URL by its role in the audit.
type MediaKind string

// Media kind constants.
const (
	// MediaKindUnknown represents a URL whose media role could not be determined.
	MediaKindUnknown MediaKind = ""
	// MediaKindImage represents image files (png, jpeg, gif, webp, ...).
	MediaKindImage MediaKind = "image"
	// MediaKindVideo represents video files (mp4, webm, mov, ...).
	MediaKindVideo MediaKind = "video"
	// MediaKindAttachment represents uploaded files declared as first-class
	// URLs in an attachment sitemap, independent of any referencing post.
	MediaKindAttachment MediaKind = "attachment"
)

// String returns the string representation of the MediaKind.
func (k MediaKind) String() string {
	if k == MediaKindUnknown {
		return mediaKindUnknownStr
	}
	return string(k)
}

// IsValid returns true if this is a known media kind.
func (k MediaKind) IsValid() bool {
	switch k {
	case MediaKindImage, MediaKindVideo, MediaKindAttachment:
		return true
	default:
		return false
	}
}

// Tag returns the short uppercase tag used in brief leak output lines.
func (k MediaKind) Tag() string {
	switch k {
	case MediaKindImage:
		return "IMAGE"
	case MediaKindVideo:
		return "VIDEO"
	case MediaKindAttachment:
		return "ATTACH"
	default:
		return "UNKNOWN"
	}
}

// ParseMediaKind converts a string to MediaKind.
func ParseMediaKind(s string) MediaKind {
	switch s {
	case "image", "images", "IMAGE":
		return MediaKindImage
	case "video", "videos", "VIDEO":
		return MediaKindVideo
	case "attachment", "attachments", "ATTACH":
		return MediaKindAttachment
	default:
		return MediaKindUnknown
	}
}

// MediaDeclaration is a media URL advertised by a sitemap.
// Produced only by the sitemap parser; immutable once created.
//
// URL is always a normalized URL (see internal/urlnorm), so two declarations
// refer to the same media iff their URL fields are equal.
type MediaDeclaration struct {
	// URL is the normalized media URL.
	URL string `json:"url"`

	// Kind is the declared media kind (image, video, attachment).
	Kind MediaKind `json:"kind"`

	// ContextPostURL is the post the declaration is attached to.
	// Empty for attachment-sitemap entries, which have no single post.
	ContextPostURL string `json:"context_post_url,omitempty"`

	// SourceSitemapURL is the sitemap document that declared this media.
	SourceSitemapURL string `json:"source_sitemap_url"`
}

// MediaReference is a media URL actually rendered or linked by a live page.
// Produced only by the HTML media extractor; immutable once created.
type MediaReference struct {
	// URL is the normalized media URL.
	URL string `json:"url"`

	// Kind is the observed media kind, or MediaKindUnknown when the
	// extension gives no hint.
	Kind MediaKind `json:"kind"`

	// ContextPostURL is the page the reference was extracted from.
	ContextPostURL string `json:"context_post_url"`
}
