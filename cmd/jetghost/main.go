// Package main provides the entry point for the JetGhost CLI.
//
// JetGhost is a media timeleak auditing tool for WordPress sites.
// It compares what a site's sitemaps still advertise against what the
// live pages actually show, surfacing images, videos, and attachments
// that were removed from public view but remain discoverable.
//
// Usage:
//
//	jetghost audit <site|sitemap.xml>
//	jetghost fingerprint -i targets.txt
//	jetghost patterns <media-url>
//
// See --help for all available options.
package main

// main is the entry point for JetGhost.
func main() {
	Execute()
}
