// Package htmlmedia extracts media references from server-delivered HTML.
//
// The extractor reads the markup a server actually serves. Media injected
// later by scripts is invisible to it, which mirrors what the sitemap
// comparison needs: a sitemap entry is judged against the page as a crawler
// sees it, not against a fully hydrated browser view.
//
// Design decision: We use golang.org/x/net/html rather than regex because:
//  1. It correctly handles the malformed HTML WordPress themes emit
//  2. srcset and lazy-loading attributes need real attribute parsing
//  3. The tokenizer never fails on bad markup, so a page degrades to
//     fewer references instead of an error
package htmlmedia
