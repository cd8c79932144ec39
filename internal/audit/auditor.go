package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/purpleghosts/JetGhost-Suite/internal/diff"
	"github.com/purpleghosts/JetGhost-Suite/internal/fetch"
	"github.com/purpleghosts/JetGhost-Suite/internal/model"
	"github.com/purpleghosts/JetGhost-Suite/internal/urlnorm"
)

// Auditor runs the full audit pipeline for one site at a time.
// It owns the step wiring; callers configure it once and reuse it across
// sites so every audit shares the same fetch client and rate budget.
type Auditor struct {
	client      *fetch.Client
	policy      urlnorm.Policy
	logger      *slog.Logger
	maxDepth    int
	maxSitemaps int
	concurrency int
	limit       int
	jetpackOnly bool
	detectOnly  bool
	leakKinds   []model.MediaKind
}

// AuditorOption configures an Auditor.
type AuditorOption func(*Auditor)

// WithAuditorLogger sets a custom logger.
func WithAuditorLogger(logger *slog.Logger) AuditorOption {
	return func(a *Auditor) {
		a.logger = logger
	}
}

// WithPolicy sets the URL normalization policy.
func WithPolicy(pol urlnorm.Policy) AuditorOption {
	return func(a *Auditor) {
		a.policy = pol
	}
}

// WithSitemapBounds sets the traversal depth and document count bounds.
func WithSitemapBounds(maxDepth, maxSitemaps int) AuditorOption {
	return func(a *Auditor) {
		a.maxDepth = maxDepth
		a.maxSitemaps = maxSitemaps
	}
}

// WithConcurrency sets the post fetch worker pool size.
func WithConcurrency(n int) AuditorOption {
	return func(a *Auditor) {
		if n > 0 {
			a.concurrency = n
		}
	}
}

// WithPostLimit caps the number of post pages audited. Zero means no cap.
func WithPostLimit(limit int) AuditorOption {
	return func(a *Auditor) {
		a.limit = limit
	}
}

// WithJetpackOnly gates the audit on a Jetpack-family sitemap vendor.
func WithJetpackOnly(enabled bool) AuditorOption {
	return func(a *Auditor) {
		a.jetpackOnly = enabled
	}
}

// WithDetectOnly stops the audit after discovery and vendor
// fingerprinting, without fetching any post pages.
func WithDetectOnly(enabled bool) AuditorOption {
	return func(a *Auditor) {
		a.detectOnly = enabled
	}
}

// WithLeakKinds restricts reported leaks to the given media kinds.
// Empty means report all kinds.
func WithLeakKinds(kinds ...model.MediaKind) AuditorOption {
	return func(a *Auditor) {
		a.leakKinds = kinds
	}
}

// NewAuditor creates an Auditor over the given fetch client.
func NewAuditor(client *fetch.Client, opts ...AuditorOption) *Auditor {
	a := &Auditor{
		client:      client,
		policy:      urlnorm.DefaultPolicy(),
		maxDepth:    3,
		maxSitemaps: 200,
		concurrency: 10,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = slog.Default()
	}
	return a
}

// Run audits one site and returns its report.
// The report is always non-nil: a gated or failed audit still carries
// whatever was learned before the failure (sitemap URL, vendor, warnings).
//
// Error semantics mirror the CLI exit codes: sitemap.ErrNoSitemap when
// discovery fails, ErrVendorGate when the Jetpack gate rejects the site,
// ErrNoEntries when the walked tree holds no entries at all.
func (a *Auditor) Run(ctx context.Context, site string) (*model.AuditReport, error) {
	start := time.Now()
	state := NewState(site)

	pipeline := NewPipeline(WithPipelineLogger(a.logger))
	pipeline.AddSteps(
		NewDiscoverStep(a.client, a.logger),
		NewWalkStep(a.client, a.policy, a.maxDepth, a.maxSitemaps, a.logger),
	)
	if a.jetpackOnly {
		pipeline.AddSteps(NewVendorGateStep())
	}
	if !a.detectOnly {
		pipeline.AddSteps(
			NewPostAuditStep(a.client, a.policy, a.concurrency, a.limit, a.logger),
			NewOrphanStep(a.logger),
		)
	}

	err := pipeline.Execute(ctx, state)
	state.Report.Elapsed = time.Since(start)
	if err != nil {
		return state.Report, err
	}

	if state.Report.SitemapEntries == 0 && len(state.AttachmentSets) == 0 {
		return state.Report, ErrNoEntries
	}

	if len(a.leakKinds) > 0 {
		state.Report.Leaks = diff.FilterKinds(state.Report.Leaks, a.leakKinds...)
	}

	return state.Report, nil
}
