// Package pattern predicts sibling media URLs from naming conventions.
//
// # Rules
//
// Upload filenames follow conventions tight enough to enumerate. Each
// rule fires independently on the decomposed filename:
//
//   - numeric suffix: photo-3.jpg implies photo-2.jpg, photo-1.jpg,
//     photo.jpg and a short forward window
//   - size suffix: photo-300x200.jpg implies the full-resolution
//     photo.jpg and the other conventional thumbnail sizes
//   - redaction suffix: contract-redacted.pdf implies contract.pdf and
//     the sibling marker spellings
//   - range: zero-padded sequences (scan-007.png) imply the padded run
//     around the observed index
//
// Confidence scores order candidates by rule specificity and proximity to
// the observed index. They never filter: a caller wanting fewer
// candidates truncates the ordered list.
//
// # Verification
//
// Verification is optional and separate. The Verifier probes candidates
// with bounded-concurrency HEAD requests and moves each candidate's state
// from Unverified to exactly one terminal state. Generation never touches
// the network; identical input always yields the identical candidate
// sequence.
package pattern
