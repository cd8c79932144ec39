// Package model defines the core data types shared across the JetGhost
// audit, pattern, and fingerprint engines.
//
// Every type here is a value type owned by its producing stage: the sitemap
// parser creates MediaDeclaration, the HTML extractor creates MediaReference,
// the diff engine creates LeakRecord, the pattern engine creates
// PatternCandidate, and the fingerprint scanner creates ScanTarget. Records
// are handed downstream by value and never mutated by consumers.
package model
