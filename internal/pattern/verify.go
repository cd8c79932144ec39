// Package pattern candidate verification.
package pattern

import (
	"context"
	"net/http"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/purpleghosts/JetGhost-Suite/internal/fetch"
	"github.com/purpleghosts/JetGhost-Suite/internal/model"
	"github.com/purpleghosts/JetGhost-Suite/internal/urlnorm"
)

// defaultProbeConcurrency bounds parallel HEAD requests. Probing is
// bursty by nature; the fetch client's rate limiter still paces the
// individual requests.
const defaultProbeConcurrency = 8

// Verifier existence-checks candidates through HEAD probes.
type Verifier struct {
	client      *fetch.Client
	concurrency int
}

// VerifierOption configures a Verifier.
type VerifierOption func(*Verifier)

// WithProbeConcurrency sets the maximum number of in-flight probes.
func WithProbeConcurrency(n int) VerifierOption {
	return func(v *Verifier) {
		if n > 0 {
			v.concurrency = n
		}
	}
}

// NewVerifier creates a Verifier over the given fetch client.
func NewVerifier(client *fetch.Client, opts ...VerifierOption) *Verifier {
	v := &Verifier{
		client:      client,
		concurrency: defaultProbeConcurrency,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Verify probes every unverified candidate in place and assigns each a
// terminal state: Exists for a 2xx/3xx answer with a media content type,
// NotExists for a definitive 404/410, VerifyError for everything else
// (timeouts, 5xx, ambiguous types). Candidates already in a terminal
// state are left untouched. Rule and confidence are never modified.
//
// Probe failures are recorded in the candidate states, so the only error
// returned is context cancellation.
func (v *Verifier) Verify(ctx context.Context, candidates []model.PatternCandidate) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(v.concurrency)

	for i := range candidates {
		c := &candidates[i]
		if c.Verified.Terminal() {
			continue
		}

		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			c.SetVerified(v.probe(ctx, c.CandidateURL))
			return nil
		})
	}

	return g.Wait()
}

// probe maps one HEAD exchange to a terminal verification state.
func (v *Verifier) probe(ctx context.Context, candidateURL string) model.VerifyState {
	resp, err := v.client.Head(ctx, candidateURL)
	if err != nil {
		return model.VerifyError
	}

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return model.VerifyNotExists
	case resp.StatusCode >= 200 && resp.StatusCode < 400:
		if matchesMediaType(resp.ContentType(), candidateURL) {
			return model.VerifyExists
		}
		// A 200 serving text/html for an image URL is a themed 404
		// page, not the file.
		return model.VerifyError
	default:
		return model.VerifyError
	}
}

// matchesMediaType reports whether the served content type is plausible
// for the candidate. Where the extension pins the media class the type
// must agree; otherwise anything except markup passes.
func matchesMediaType(contentType, candidateURL string) bool {
	switch {
	case urlnorm.IsProbablyImage(candidateURL):
		return strings.HasPrefix(contentType, "image/")
	case urlnorm.IsProbablyVideo(candidateURL):
		return strings.HasPrefix(contentType, "video/")
	default:
		return contentType != "" &&
			!strings.HasPrefix(contentType, "text/html") &&
			!strings.HasPrefix(contentType, "application/xhtml")
	}
}
