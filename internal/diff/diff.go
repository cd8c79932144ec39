// Package diff leak set computation.
package diff

import (
	"errors"

	"github.com/purpleghosts/JetGhost-Suite/internal/htmlmedia"
	"github.com/purpleghosts/JetGhost-Suite/internal/model"
	"github.com/purpleghosts/JetGhost-Suite/internal/urlnorm"
)

// ErrIncompleteEnumeration is returned by OrphanAttachments when the
// caller has not marked the site observation complete.
var ErrIncompleteEnumeration = errors.New("orphan detection requires a completed post enumeration")

// PageObservation is the media observed on a single live page.
type PageObservation struct {
	// URLs holds the normalized media URLs seen on the page.
	URLs map[string]bool

	// ImageKeys holds fuzzy filename keys of observed images.
	ImageKeys map[string]bool

	// VideoKeys holds fuzzy filename keys of observed videos.
	VideoKeys map[string]bool
}

// PageFromExtraction adapts an extractor result.
func PageFromExtraction(r *htmlmedia.Result) PageObservation {
	return PageObservation{
		URLs:      r.URLs,
		ImageKeys: r.ImageKeys,
		VideoKeys: r.VideoKeys,
	}
}

// PerPost computes the leak set for one post: every declaration whose URL
// is absent from the page and whose fuzzy key matches no observed variant
// of the same kind. Duplicate declarations collapse to one record; output
// order follows the declared order.
func PerPost(declared []model.MediaDeclaration, page PageObservation) []model.LeakRecord {
	var leaks []model.LeakRecord
	seen := make(map[string]bool, len(declared))

	for _, decl := range declared {
		if seen[decl.URL] {
			continue
		}
		seen[decl.URL] = true

		if referenced(decl, page) {
			continue
		}

		leaks = append(leaks, model.LeakRecord{
			PostURL:  decl.ContextPostURL,
			MediaURL: decl.URL,
			Kind:     decl.Kind,
			Mode:     model.LeakModePost,
		})
	}
	return leaks
}

// referenced reports whether the page carries the declaration, exactly or
// as a size variant.
func referenced(decl model.MediaDeclaration, page PageObservation) bool {
	if page.URLs[decl.URL] {
		return true
	}

	key := urlnorm.FilenameKey(decl.URL)
	if key == "" {
		return false
	}
	switch decl.Kind {
	case model.MediaKindImage:
		return page.ImageKeys[key]
	case model.MediaKindVideo:
		return page.VideoKeys[key]
	default:
		return page.ImageKeys[key] || page.VideoKeys[key]
	}
}

// SiteObservation aggregates page observations across an entire site for
// orphan detection. The caller adds every post's extraction, then calls
// MarkComplete once no posts remain.
type SiteObservation struct {
	urls      map[string]bool
	imageKeys map[string]bool
	videoKeys map[string]bool
	complete  bool
}

// NewSiteObservation creates an empty aggregate.
func NewSiteObservation() *SiteObservation {
	return &SiteObservation{
		urls:      make(map[string]bool),
		imageKeys: make(map[string]bool),
		videoKeys: make(map[string]bool),
	}
}

// AddPage folds one page's observation into the aggregate.
func (s *SiteObservation) AddPage(page PageObservation) {
	for u := range page.URLs {
		s.urls[u] = true
	}
	for k := range page.ImageKeys {
		s.imageKeys[k] = true
	}
	for k := range page.VideoKeys {
		s.videoKeys[k] = true
	}
}

// MarkComplete records that every currently-served post has been added.
func (s *SiteObservation) MarkComplete() {
	s.complete = true
}

// Complete reports whether the enumeration has been marked complete.
func (s *SiteObservation) Complete() bool {
	return s.complete
}

// OrphanAttachments computes site-wide orphans: attachment declarations
// referenced by no enumerated post, exactly or by fuzzy key in either
// media class. Returns ErrIncompleteEnumeration unless the observation
// has been marked complete.
func OrphanAttachments(declared []model.MediaDeclaration, site *SiteObservation) ([]model.LeakRecord, error) {
	if !site.Complete() {
		return nil, ErrIncompleteEnumeration
	}

	var leaks []model.LeakRecord
	seen := make(map[string]bool, len(declared))

	for _, decl := range declared {
		if seen[decl.URL] {
			continue
		}
		seen[decl.URL] = true

		if site.urls[decl.URL] {
			continue
		}
		key := urlnorm.FilenameKey(decl.URL)
		if key != "" && (site.imageKeys[key] || site.videoKeys[key]) {
			continue
		}

		leaks = append(leaks, model.LeakRecord{
			MediaURL: decl.URL,
			Kind:     model.MediaKindAttachment,
			Mode:     model.LeakModeOrphanAttachment,
		})
	}
	return leaks, nil
}

// FilterKinds projects a leak set down to the requested kinds. An empty
// kind list keeps everything; order is preserved.
func FilterKinds(leaks []model.LeakRecord, kinds ...model.MediaKind) []model.LeakRecord {
	if len(kinds) == 0 {
		return leaks
	}

	want := make(map[model.MediaKind]bool, len(kinds))
	for _, k := range kinds {
		want[k] = true
	}

	var filtered []model.LeakRecord
	for _, leak := range leaks {
		if want[leak.Kind] {
			filtered = append(filtered, leak)
		}
	}
	return filtered
}
