// Package fingerprint triages sitemap endpoints in bulk.
//
// A fingerprint sweep answers one question per target: is this site worth
// a full audit? It fetches a bounded snippet of each target's sitemap and
// classifies the target from accumulated evidence — generator markers,
// image/video namespace usage, and path conventions — without walking the
// sitemap tree or touching any post page.
//
// # Classification
//
// Evidence accumulates monotonically; nothing is ever retracted. Once all
// heuristics have run the target gets exactly one terminal class:
//
//   - JetpackLike: platform markers present (WordPress.com or Jetpack
//     generator strings, Jetpack image-sitemap routes)
//   - LikelyLeaking: image/video sitemap namespaces in use with no
//     recognizable platform marker — the configuration most often found
//     leaking, and the prime candidate for a full audit
//   - SelfHosted: a sitemap with neither signal
//   - Unreachable: the endpoint could not be fetched
//
// # Concurrency
//
// The sweep runs a bounded worker pool over the target list. Workers
// share nothing but the work list and the pre-allocated result slot per
// target, so one slow or dead host never delays classification of the
// others. There are no automatic retries; transient failures are reported
// as Unreachable rather than amplified into repeat traffic.
package fingerprint
