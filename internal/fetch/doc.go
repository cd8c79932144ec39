// Package fetch provides the single HTTP boundary for the scanner.
//
// # Architecture
//
// Every network access in the tool (sitemap retrieval, post-page fetches,
// candidate existence probes, fingerprint sweeps) goes through Client. The
// rest of the codebase is pure computation over bytes and records, which
// keeps it testable without a network.
//
// Design decision: We build on net/http with a thin typed-error layer
// rather than a retry/client framework because:
//  1. Failure kind (timeout vs DNS vs TLS) drives classification decisions
//     downstream, so errors must be inspectable, not just retryable
//  2. Rate limiting is a politeness requirement, handled once here with
//     golang.org/x/time/rate instead of per-caller sleeps
//  3. Bounded body reads protect against pathological hosts; a framework's
//     full-body convenience methods work against that
//
// # Error Classification
//
// Transport failures surface as *Error with a Kind. HTTP-level failure
// statuses do not error by default: callers that need statuses (the
// candidate verifier, the fingerprint scanner) read Response.StatusCode
// directly, and callers that only care about success use
// Response.StatusError.
//
// # Usage
//
//	client := fetch.NewClient(fetch.WithRequestsPerSecond(4))
//	resp, err := client.Get(ctx, "https://example.com/sitemap.xml")
package fetch
