// Package sitemap error definitions.
package sitemap

import "errors"

var (
	// ErrMalformedXML is returned when a document cannot be decoded as XML.
	ErrMalformedXML = errors.New("malformed sitemap XML")

	// ErrUnknownRoot is returned when a well-formed document is neither
	// a sitemapindex nor a urlset.
	ErrUnknownRoot = errors.New("document root is neither sitemapindex nor urlset")

	// ErrNoSitemap is returned by Discover when no endpoint answered
	// with a usable sitemap.
	ErrNoSitemap = errors.New("no sitemap found for site")
)
