// Package sitemap endpoint discovery.
package sitemap

import (
	"bytes"
	"context"
	"net/http"
	"strings"

	"github.com/purpleghosts/JetGhost-Suite/internal/fetch"
)

// Well-known sitemap endpoints, in preference order. SEO plugin indices
// come first because they carry the media extensions this tool audits;
// the core wp-sitemap route and permalink-less index.php variants follow.
var wellKnownPaths = []string{
	"/sitemap_index.xml",
	"/sitemap.xml",
	"/wp-sitemap.xml",
	"/index.php/sitemap_index.xml",
	"/index.php/sitemap.xml",
}

// Discover locates a site's sitemap. It probes the well-known endpoints
// in order, then falls back to Sitemap: directives in robots.txt. Returns
// ErrNoSitemap when nothing answered with a usable document.
//
// siteURL may carry a trailing slash or a path; only scheme and host are
// used. If siteURL itself ends in .xml it is returned as-is, so callers
// can pass a direct sitemap URL through the same entry point.
func Discover(ctx context.Context, client *fetch.Client, siteURL string) (string, error) {
	siteURL = strings.TrimRight(siteURL, "/")
	if strings.HasSuffix(siteURL, ".xml") {
		return siteURL, nil
	}

	for _, path := range wellKnownPaths {
		candidate := siteURL + path
		if probeSitemap(ctx, client, candidate) {
			return candidate, nil
		}
	}

	if found := fromRobots(ctx, client, siteURL); found != "" {
		return found, nil
	}

	return "", ErrNoSitemap
}

// probeSitemap reports whether url serves a non-empty 200 response.
func probeSitemap(ctx context.Context, client *fetch.Client, url string) bool {
	resp, err := client.Get(ctx, url)
	if err != nil {
		return false
	}
	return resp.StatusCode == http.StatusOK && len(bytes.TrimSpace(resp.Body)) > 0
}

// fromRobots extracts and verifies Sitemap: directives from robots.txt.
// The first directive that serves a usable document wins.
func fromRobots(ctx context.Context, client *fetch.Client, siteURL string) string {
	resp, err := client.Get(ctx, siteURL+"/robots.txt")
	if err != nil || resp.StatusCode != http.StatusOK {
		return ""
	}

	for _, line := range strings.Split(string(resp.Body), "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(strings.ToLower(line), "sitemap:") {
			continue
		}
		candidate := strings.TrimSpace(line[len("sitemap:"):])
		if candidate == "" {
			continue
		}
		if probeSitemap(ctx, client, candidate) {
			return candidate
		}
	}
	return ""
}
