// Package htmlmedia media reference extraction.
package htmlmedia

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"

	"github.com/purpleghosts/JetGhost-Suite/internal/model"
	"github.com/purpleghosts/JetGhost-Suite/internal/urlnorm"
)

// Lazy-loading plugins stash the real source in data attributes and leave
// src pointing at a placeholder. All of these count as rendered media.
var imgSrcAttrs = []string{"src", "data-src", "data-lazy-src", "data-original"}

var srcsetAttrs = []string{"srcset", "data-srcset"}

// Extractor pulls media references out of one page.
type Extractor struct {
	policy urlnorm.Policy
}

// NewExtractor creates an Extractor with the given normalization policy.
func NewExtractor(pol urlnorm.Policy) *Extractor {
	return &Extractor{policy: pol}
}

// Result holds everything extracted from one page.
//
// Design decision: We collect references and fuzzy keys in a single pass
// rather than exposing separate methods because the diff engine always
// needs both, and one DOM walk per page is the budget.
type Result struct {
	// References are the extracted media references in first-seen order,
	// deduplicated by normalized URL.
	References []model.MediaReference

	// URLs indexes the normalized reference URLs for set membership.
	URLs map[string]bool

	// ImageKeys are fuzzy filename keys of image references, used to
	// match a declared original against a rendered resized variant.
	ImageKeys map[string]bool

	// VideoKeys are fuzzy filename keys of video references.
	VideoKeys map[string]bool

	// Warnings records reference URLs dropped by normalization.
	Warnings []model.Warning
}

// Extract parses the page body and collects every media reference:
// img sources (including srcset candidates and lazy-load attributes),
// video/source/audio sources, iframe embeds, anchors pointing directly at
// media files, and the og:image social preview. An empty body yields an
// empty result.
func (e *Extractor) Extract(body []byte, postURL string) (*Result, error) {
	result := &Result{
		URLs:      make(map[string]bool),
		ImageKeys: make(map[string]bool),
		VideoKeys: make(map[string]bool),
	}

	if len(bytes.TrimSpace(body)) == 0 {
		return result, nil
	}

	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			e.processElement(n, postURL, result)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return result, nil
}

func (e *Extractor) processElement(n *html.Node, postURL string, result *Result) {
	switch n.Data {
	case "img":
		for _, attr := range imgSrcAttrs {
			if v := getAttr(n, attr); v != "" {
				e.add(v, postURL, result)
			}
		}
		for _, attr := range srcsetAttrs {
			if v := getAttr(n, attr); v != "" {
				for _, candidate := range splitSrcset(v) {
					e.add(candidate, postURL, result)
				}
			}
		}

	case "video", "source", "audio":
		if v := getAttr(n, "src"); v != "" {
			e.add(v, postURL, result)
		}

	case "iframe":
		// Embeds: a declared video satisfied by a player iframe still
		// counts as referenced.
		if v := getAttr(n, "src"); v != "" {
			e.add(v, postURL, result)
		}

	case "a":
		// Plain hyperlinks count only when they point straight at a
		// media file; navigation links are noise.
		if v := getAttr(n, "href"); v != "" && urlnorm.IsProbablyMedia(v) {
			e.add(v, postURL, result)
		}

	case "meta":
		if getAttr(n, "property") == "og:image" {
			if v := getAttr(n, "content"); v != "" {
				e.add(v, postURL, result)
			}
		}
	}
}

// add normalizes raw and folds it into the result.
func (e *Extractor) add(raw, postURL string, result *Result) {
	norm, err := urlnorm.Normalize(raw, postURL, e.policy)
	if err != nil {
		result.Warnings = append(result.Warnings, model.Warning{
			Kind:    model.WarnDroppedURL,
			Subject: raw,
			Detail:  err.Error(),
		})
		return
	}
	if result.URLs[norm] {
		return
	}
	result.URLs[norm] = true

	kind := model.MediaKindUnknown
	switch {
	case urlnorm.IsProbablyImage(norm):
		kind = model.MediaKindImage
		result.ImageKeys[urlnorm.FilenameKey(norm)] = true
	case urlnorm.IsProbablyVideo(norm):
		kind = model.MediaKindVideo
		result.VideoKeys[urlnorm.FilenameKey(norm)] = true
	case urlnorm.IsProbablyAttachment(norm):
		kind = model.MediaKindAttachment
	}

	result.References = append(result.References, model.MediaReference{
		URL:            norm,
		Kind:           kind,
		ContextPostURL: postURL,
	})
}

// splitSrcset extracts candidate URLs from a srcset attribute value.
// Each comma-separated candidate is "URL [descriptor]".
func splitSrcset(srcset string) []string {
	var urls []string
	for _, part := range strings.Split(srcset, ",") {
		fields := strings.Fields(part)
		if len(fields) > 0 {
			urls = append(urls, fields[0])
		}
	}
	return urls
}

// getAttr retrieves an attribute value from an HTML node.
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}
