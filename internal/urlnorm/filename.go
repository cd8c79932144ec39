// Package urlnorm fuzzy filename keys and media kind classification.
package urlnorm

import (
	"net/url"
	"path"
	"regexp"
	"strings"
)

// WordPress derives resized variants from the original upload by appending
// size markers to the stem. The variants below all serve the same editorial
// asset, so the fuzzy key treats them as one file.
var (
	sizeSuffixRe   = regexp.MustCompile(`-\d{1,5}x\d{1,5}$`)
	scaledSuffixRe = regexp.MustCompile(`-scaled$`)
	retinaSuffixRe = regexp.MustCompile(`@2x$`)
)

// FilenameKey returns a size-insensitive identity key for a media URL:
// the lowercased basename without extension, with WordPress size
// (-300x200), -scaled and retina (@2x) suffixes stripped. Two URLs with
// the same key are treated as variants of the same underlying file.
//
// The key is intentionally lossy. It is used only to suppress false
// positives when a page renders a resized variant of a declared original,
// never to assert that two files are identical.
func FilenameKey(rawURL string) string {
	base := basename(rawURL)
	if base == "" {
		return ""
	}

	stem := strings.ToLower(strings.TrimSuffix(base, path.Ext(base)))
	stem = retinaSuffixRe.ReplaceAllString(stem, "")
	stem = scaledSuffixRe.ReplaceAllString(stem, "")
	stem = sizeSuffixRe.ReplaceAllString(stem, "")
	return stem
}

// basename extracts the final path element of a URL, ignoring query and
// fragment. Falls back to raw string handling when parsing fails so that
// callers never receive an error from a lossy helper.
func basename(rawURL string) string {
	if u, err := url.Parse(rawURL); err == nil && u.Path != "" {
		if strings.HasSuffix(u.Path, "/") {
			return ""
		}
		return path.Base(u.Path)
	}
	if i := strings.IndexAny(rawURL, "?#"); i >= 0 {
		rawURL = rawURL[:i]
	}
	if i := strings.LastIndexByte(rawURL, '/'); i >= 0 {
		rawURL = rawURL[i+1:]
	}
	return rawURL
}

var imageExts = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true,
	".webp": true, ".avif": true, ".bmp": true, ".svg": true,
	".ico": true, ".heic": true, ".tiff": true, ".tif": true,
}

var videoExts = map[string]bool{
	".mp4": true, ".webm": true, ".mov": true, ".m4v": true,
	".avi": true, ".mkv": true, ".ogv": true, ".mpg": true,
	".mpeg": true, ".3gp": true,
}

var attachmentExts = map[string]bool{
	".pdf": true, ".zip": true, ".rar": true, ".7z": true,
	".doc": true, ".docx": true, ".xls": true, ".xlsx": true,
	".ppt": true, ".pptx": true, ".odt": true, ".ods": true,
	".mp3": true, ".m4a": true, ".wav": true, ".flac": true,
	".ogg": true, ".txt": true, ".csv": true, ".epub": true,
}

// IsProbablyImage reports whether the URL's extension looks like an image.
func IsProbablyImage(rawURL string) bool {
	return imageExts[extOf(rawURL)]
}

// IsProbablyVideo reports whether the URL's extension looks like a video.
func IsProbablyVideo(rawURL string) bool {
	return videoExts[extOf(rawURL)]
}

// IsProbablyAttachment reports whether the URL's extension looks like a
// downloadable attachment (documents, archives, audio). Images and videos
// are classified by their own predicates, not here.
func IsProbablyAttachment(rawURL string) bool {
	return attachmentExts[extOf(rawURL)]
}

// IsProbablyMedia reports whether the URL matches any media extension
// class. Used by the extractor's anchor scan to decide whether a plain
// hyperlink counts as a media reference.
func IsProbablyMedia(rawURL string) bool {
	ext := extOf(rawURL)
	return imageExts[ext] || videoExts[ext] || attachmentExts[ext]
}

func extOf(rawURL string) string {
	return strings.ToLower(path.Ext(basename(rawURL)))
}
