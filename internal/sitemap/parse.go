// Package sitemap document decoding.
package sitemap

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/purpleghosts/JetGhost-Suite/internal/model"
	"github.com/purpleghosts/JetGhost-Suite/internal/urlnorm"
)

// NodeKind distinguishes the two sitemap document shapes.
type NodeKind string

// Sitemap document shapes.
const (
	// NodeIndex is a sitemapindex document pointing at child sitemaps.
	NodeIndex NodeKind = "index"

	// NodeURLSet is a urlset document carrying post entries.
	NodeURLSet NodeKind = "urlset"
)

// Node is a decoded sitemap document. Index nodes carry Children, urlset
// nodes carry Entries; the other slice is nil.
type Node struct {
	// URL is the document's own location, when known.
	URL string

	// Kind is the document shape.
	Kind NodeKind

	// Children are child sitemap URLs in document order (index only).
	Children []string

	// Entries are post entries in document order (urlset only).
	Entries []Entry
}

// Entry is one <url> element of a urlset: the post location plus any
// embedded media declarations. All URLs are already normalized.
type Entry struct {
	// Loc is the post URL.
	Loc string

	// Images are image declaration URLs from the image namespace.
	Images []string

	// Videos are video declaration URLs (content, player and thumbnail
	// locations) from the video namespace.
	Videos []string
}

// XML shapes. Unqualified field tags match local names across every
// namespace flavor the SEO plugins emit.
type indexXML struct {
	Sitemaps []struct {
		Loc string `xml:"loc"`
	} `xml:"sitemap"`
}

type urlsetXML struct {
	URLs []struct {
		Loc    string `xml:"loc"`
		Images []struct {
			Loc string `xml:"loc"`
		} `xml:"image"`
		Videos []struct {
			ContentLoc   string `xml:"content_loc"`
			PlayerLoc    string `xml:"player_loc"`
			ThumbnailLoc string `xml:"thumbnail_loc"`
		} `xml:"video"`
	} `xml:"url"`
}

// Parse decodes a sitemap document. URLs are normalized against baseURL;
// entries whose location fails normalization are dropped with a warning,
// as are individual malformed media URLs inside an entry.
//
// An empty or whitespace-only body is valid and yields an empty urlset
// node. Malformed XML yields ErrMalformedXML; a well-formed document of
// any other shape yields ErrUnknownRoot.
func Parse(data []byte, baseURL string, pol urlnorm.Policy) (*Node, []model.Warning, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return &Node{URL: baseURL, Kind: NodeURLSet}, nil, nil
	}

	dec := xml.NewDecoder(bytes.NewReader(data))
	// Sitemaps in the wild declare legacy encodings; pass the bytes
	// through untouched rather than failing on the declaration.
	dec.CharsetReader = passthroughCharset

	root, err := findRoot(dec)
	if err != nil {
		return nil, nil, err
	}
	if root == nil {
		return &Node{URL: baseURL, Kind: NodeURLSet}, nil, nil
	}

	switch root.Name.Local {
	case "sitemapindex":
		return parseIndex(dec, root, baseURL, pol)
	case "urlset":
		return parseURLSet(dec, root, baseURL, pol)
	default:
		return nil, nil, fmt.Errorf("%w: <%s>", ErrUnknownRoot, root.Name.Local)
	}
}

// findRoot advances the decoder to the first start element.
func findRoot(dec *xml.Decoder) (*xml.StartElement, error) {
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedXML, err)
		}
		if se, ok := tok.(xml.StartElement); ok {
			return &se, nil
		}
	}
}

func parseIndex(dec *xml.Decoder, root *xml.StartElement, baseURL string, pol urlnorm.Policy) (*Node, []model.Warning, error) {
	var doc indexXML
	if err := dec.DecodeElement(&doc, root); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrMalformedXML, err)
	}

	node := &Node{URL: baseURL, Kind: NodeIndex}
	var warnings []model.Warning

	for _, sm := range doc.Sitemaps {
		loc, ok := normalizeOrWarn(sm.Loc, baseURL, pol, &warnings)
		if !ok {
			continue
		}
		node.Children = append(node.Children, loc)
	}
	return node, warnings, nil
}

func parseURLSet(dec *xml.Decoder, root *xml.StartElement, baseURL string, pol urlnorm.Policy) (*Node, []model.Warning, error) {
	var doc urlsetXML
	if err := dec.DecodeElement(&doc, root); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrMalformedXML, err)
	}

	node := &Node{URL: baseURL, Kind: NodeURLSet}
	var warnings []model.Warning

	for _, u := range doc.URLs {
		loc, ok := normalizeOrWarn(u.Loc, baseURL, pol, &warnings)
		if !ok {
			continue
		}

		entry := Entry{Loc: loc}
		for _, img := range u.Images {
			if m, ok := normalizeOrWarn(img.Loc, baseURL, pol, &warnings); ok {
				entry.Images = append(entry.Images, m)
			}
		}
		for _, vid := range u.Videos {
			for _, raw := range []string{vid.ContentLoc, vid.PlayerLoc, vid.ThumbnailLoc} {
				if raw == "" {
					continue
				}
				if m, ok := normalizeOrWarn(raw, baseURL, pol, &warnings); ok {
					entry.Videos = append(entry.Videos, m)
				}
			}
		}
		node.Entries = append(node.Entries, entry)
	}
	return node, warnings, nil
}

// normalizeOrWarn normalizes raw, appending a dropped-URL warning on
// failure. Empty locations are dropped silently; generators emit them for
// redacted entries and they carry no information.
func normalizeOrWarn(raw, baseURL string, pol urlnorm.Policy, warnings *[]model.Warning) (string, bool) {
	if strings.TrimSpace(raw) == "" {
		return "", false
	}
	norm, err := urlnorm.Normalize(raw, baseURL, pol)
	if err != nil {
		*warnings = append(*warnings, model.Warning{
			Kind:    model.WarnDroppedURL,
			Subject: raw,
			Detail:  err.Error(),
		})
		return "", false
	}
	return norm, true
}

// passthroughCharset accepts any declared encoding and reads the bytes
// as-is. WordPress sitemaps are UTF-8 in practice regardless of what the
// declaration claims.
func passthroughCharset(_ string, input io.Reader) (io.Reader, error) {
	return input, nil
}

// LooksLikeAttachmentSet reports whether a urlset enumerates raw media
// files rather than post pages. Core WordPress attachment sitemaps list
// media URLs directly; post auditing must skip them and hand them to the
// orphan check instead. Samples up to ten entries and requires at least
// three (and at least half the sample) to carry media extensions.
func LooksLikeAttachmentSet(node *Node) bool {
	if node.Kind != NodeURLSet || len(node.Entries) == 0 {
		return false
	}

	sample := node.Entries
	if len(sample) > 10 {
		sample = sample[:10]
	}

	mediaLike := 0
	for _, e := range sample {
		if urlnorm.IsProbablyMedia(e.Loc) {
			mediaLike++
		}
	}

	threshold := len(sample) / 2
	if threshold < 3 {
		threshold = 3
	}
	return mediaLike >= threshold
}
