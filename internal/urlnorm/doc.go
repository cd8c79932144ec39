// Package urlnorm canonicalizes media and post URLs so that set comparison
// between sitemap declarations and live-page references is meaningful.
//
// # Architecture
//
// The package exposes three layers of identity, from strict to fuzzy:
//
//   - Normalize: canonical absolute URL (the primary set key)
//   - FilenameKey: size/scale-insensitive basename key, used to avoid
//     flagging a file as missing when the page renders a resized variant
//   - Kind classifiers: extension-based media kind guesses
//
// Design decision: We implement normalization on top of net/url rather than
// using a third-party canonicalization library because:
//  1. The exact set of stripped query parameters is a policy decision that
//     changes per site (CDN cache busters vs. identity-bearing size keys)
//  2. Idempotence must hold exactly; layering policy over an opaque
//     canonicalizer makes that property hard to audit
//  3. net/url already handles the error-prone parts (parsing, reference
//     resolution, percent-encoding)
//
// # Idempotence
//
// Normalize is a fixed point: Normalize(Normalize(u)) == Normalize(u) for
// every URL it accepts. Every transformation applied (lowercasing, default
// port removal, parameter filtering, separator collapsing) is itself
// idempotent, so the composition is too.
//
// # Usage
//
//	pol := urlnorm.DefaultPolicy()
//	canonical, err := urlnorm.Normalize("/img/photo.jpg?utm_source=x", "https://example.com/post/", pol)
package urlnorm
