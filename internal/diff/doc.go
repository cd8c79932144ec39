// Package diff classifies declared-but-unreferenced media as leaks.
//
// Both entry points are pure functions over already-collected sets; the
// package performs no network access. PerPost compares one post's sitemap
// declarations against the media its live page renders. OrphanAttachments
// compares a site's attachment declarations against everything observed
// across all posts, and refuses to run until the caller marks that
// enumeration complete — an orphan verdict from a partial crawl would be
// indistinguishable from a false positive.
//
// A declaration counts as referenced when either its normalized URL or its
// fuzzy filename key appears on the page. The fuzzy match absorbs the
// resized and scaled variants WordPress substitutes for originals.
//
// Output order is the insertion order of the declared set, so identical
// inputs always produce identical reports.
package diff
