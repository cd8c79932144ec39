// Package sitemap decodes sitemap documents and walks sitemap indices.
//
// # Architecture
//
// Three layers, each usable on its own:
//
//   - Parse: bytes to a Node (index or urlset), no network
//   - Walker: recursively resolves index nodes through the fetch client,
//     bounded by depth and total fetched-document count
//   - Discover: finds a site's sitemap from well-known endpoints and
//     robots.txt
//
// # Namespace Handling
//
// Real-world WordPress sitemaps disagree wildly on namespace URIs: Yoast,
// Rank Math, AIOSEO, SEOPress and Jetpack each emit their own flavor, and
// some omit namespace declarations entirely. Decoding therefore matches
// element local names only (url, loc, image, video), which encoding/xml
// does by default for unqualified field tags.
//
// Design decision: We bound the walk by both depth (default 3) and total
// fetched sitemap count (default 200) because:
//  1. A maliciously deep or cyclic index must not hang the scan
//  2. Running past the bound silently would understate the archive, so
//     hitting either bound records a truncation warning instead of failing
//  3. Legitimate sites fit comfortably inside both bounds
package sitemap
