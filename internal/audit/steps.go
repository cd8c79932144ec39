package audit

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/purpleghosts/JetGhost-Suite/internal/diff"
	"github.com/purpleghosts/JetGhost-Suite/internal/fetch"
	"github.com/purpleghosts/JetGhost-Suite/internal/htmlmedia"
	"github.com/purpleghosts/JetGhost-Suite/internal/model"
	"github.com/purpleghosts/JetGhost-Suite/internal/sitemap"
	"github.com/purpleghosts/JetGhost-Suite/internal/urlnorm"
)

// DiscoverStep locates the root sitemap for the audited site.
// A target that already names an .xml document is used as-is; anything
// else is treated as a site root and probed at the well-known locations.
type DiscoverStep struct {
	// client is the shared fetch client.
	client *fetch.Client

	// logger for structured logging.
	logger *slog.Logger
}

// NewDiscoverStep creates a sitemap discovery step.
func NewDiscoverStep(client *fetch.Client, logger *slog.Logger) *DiscoverStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &DiscoverStep{client: client, logger: logger}
}

// Name returns the step name.
func (s *DiscoverStep) Name() string {
	return "discover_sitemap"
}

// Do executes sitemap discovery.
// Failure here is fatal: without a sitemap there is nothing to audit.
func (s *DiscoverStep) Do(ctx context.Context, state *State) error {
	target := state.Report.Site

	if strings.HasSuffix(strings.ToLower(target), ".xml") {
		state.Report.SitemapURL = target
		return nil
	}

	sitemapURL, err := sitemap.Discover(ctx, s.client, target)
	if err != nil {
		return fmt.Errorf("discover sitemap for %s: %w", target, err)
	}

	s.logger.Debug("sitemap located",
		"site", target,
		"sitemap", sitemapURL,
	)
	state.Report.SitemapURL = sitemapURL
	return nil
}

// WalkStep resolves the sitemap tree beneath the discovered root and
// flattens it into the post work list and the attachment sets.
type WalkStep struct {
	client      *fetch.Client
	policy      urlnorm.Policy
	maxDepth    int
	maxSitemaps int
	logger      *slog.Logger
}

// NewWalkStep creates a sitemap walking step with the given traversal bounds.
func NewWalkStep(client *fetch.Client, policy urlnorm.Policy, maxDepth, maxSitemaps int, logger *slog.Logger) *WalkStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &WalkStep{
		client:      client,
		policy:      policy,
		maxDepth:    maxDepth,
		maxSitemaps: maxSitemaps,
		logger:      logger,
	}
}

// Name returns the step name.
func (s *WalkStep) Name() string {
	return "walk_sitemaps"
}

// Do executes the sitemap walk.
// The root sitemap failing is fatal; sub-sitemap failures and traversal
// bounds degrade to warnings carried on the report.
func (s *WalkStep) Do(ctx context.Context, state *State) error {
	walker := sitemap.NewWalker(s.client,
		sitemap.WithMaxDepth(s.maxDepth),
		sitemap.WithMaxSitemaps(s.maxSitemaps),
		sitemap.WithPolicy(s.policy),
	)

	result, err := walker.Walk(ctx, state.Report.SitemapURL)
	if err != nil {
		return fmt.Errorf("walk sitemap tree: %w", err)
	}

	state.Report.Vendor = result.Vendor
	state.Report.SitemapsFetched = result.Fetched
	for _, warn := range result.Warnings {
		state.Report.AddWarning(warn)
	}
	state.EnumerationComplete = !result.Truncated

	for _, node := range result.URLSets {
		if isAttachmentSet(node) {
			state.AttachmentSets = append(state.AttachmentSets, node)
			continue
		}
		state.PostSets = append(state.PostSets, node)
		for _, entry := range node.Entries {
			state.Report.SitemapEntries++
			state.Posts = append(state.Posts, PostWork{
				PostURL:  entry.Loc,
				Declared: declarationsFor(entry, node.URL),
			})
		}
	}

	s.logger.Info("sitemap tree walked",
		"site", state.Report.Site,
		"vendor", result.Vendor.String(),
		"sitemaps", result.Fetched,
		"posts", len(state.Posts),
		"attachment_sets", len(state.AttachmentSets),
		"truncated", result.Truncated,
	)
	return nil
}

// isAttachmentSet recognizes attachment sitemaps by their conventional URL
// naming first, falling back to the entry-shape heuristic for plugins that
// use unconventional names.
func isAttachmentSet(node *sitemap.Node) bool {
	if strings.Contains(strings.ToLower(node.URL), "attachment") {
		return true
	}
	return sitemap.LooksLikeAttachmentSet(node)
}

// declarationsFor converts one sitemap entry's media lists into
// declarations carrying their post context.
func declarationsFor(entry sitemap.Entry, sourceSitemapURL string) []model.MediaDeclaration {
	declared := make([]model.MediaDeclaration, 0, len(entry.Images)+len(entry.Videos))
	for _, img := range entry.Images {
		declared = append(declared, model.MediaDeclaration{
			URL:              img,
			Kind:             model.MediaKindImage,
			ContextPostURL:   entry.Loc,
			SourceSitemapURL: sourceSitemapURL,
		})
	}
	for _, vid := range entry.Videos {
		declared = append(declared, model.MediaDeclaration{
			URL:              vid,
			Kind:             model.MediaKindVideo,
			ContextPostURL:   entry.Loc,
			SourceSitemapURL: sourceSitemapURL,
		})
	}
	return declared
}

// VendorGateStep stops the audit when the sitemap vendor is not in the
// Jetpack/WordPress.com family. Used by --jetpack-only sweeps that have
// no interest in auditing arbitrary SEO-plugin sitemaps.
type VendorGateStep struct{}

// NewVendorGateStep creates a vendor gate step.
func NewVendorGateStep() *VendorGateStep {
	return &VendorGateStep{}
}

// Name returns the step name.
func (s *VendorGateStep) Name() string {
	return "vendor_gate"
}

// Do checks the fingerprinted vendor against the gate.
func (s *VendorGateStep) Do(_ context.Context, state *State) error {
	if !state.Report.Vendor.IsJetpackFamily() {
		return fmt.Errorf("%w: vendor is %s", ErrVendorGate, state.Report.Vendor.String())
	}
	return nil
}

// PostAuditStep fetches every post page, extracts its live media
// references, and diffs them against the sitemap declarations.
//
// Fetching is concurrent; diffing is serial in sitemap order so the leak
// sequence is deterministic regardless of fetch completion order.
type PostAuditStep struct {
	client      *fetch.Client
	policy      urlnorm.Policy
	concurrency int
	limit       int
	logger      *slog.Logger
}

// NewPostAuditStep creates a post audit step.
// limit caps the number of posts fetched; zero means no cap. concurrency
// bounds the fetch worker pool.
func NewPostAuditStep(client *fetch.Client, policy urlnorm.Policy, concurrency, limit int, logger *slog.Logger) *PostAuditStep {
	if concurrency <= 0 {
		concurrency = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostAuditStep{
		client:      client,
		policy:      policy,
		concurrency: concurrency,
		limit:       limit,
		logger:      logger,
	}
}

// Name returns the step name.
func (s *PostAuditStep) Name() string {
	return "audit_posts"
}

// pageOutcome is one post fetch's result, slotted by input index.
type pageOutcome struct {
	page    diff.PageObservation
	fetched bool
	err     error
}

// Do executes the post audit.
// A page that cannot be fetched or parsed contributes a warning and skips
// its declarations: an unverifiable page must not produce leak records.
func (s *PostAuditStep) Do(ctx context.Context, state *State) error {
	work := state.Posts
	if s.limit > 0 && len(work) > s.limit {
		work = work[:s.limit]
		state.EnumerationComplete = false
		state.Report.AddWarning(model.Warning{
			Kind:    model.WarnTruncatedScan,
			Subject: state.Report.Site,
			Detail:  fmt.Sprintf("post audit limited to %d of %d entries", s.limit, len(state.Posts)),
		})
	}

	extractor := htmlmedia.NewExtractor(s.policy)

	// Pre-allocated slots keep outcomes in sitemap order without a lock.
	outcomes := make([]pageOutcome, len(work))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i, post := range work {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			outcomes[i] = s.fetchPage(gctx, extractor, post.PostURL)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	// Serial pass in sitemap order: diff, aggregate, count.
	state.Observed = diff.NewSiteObservation()
	for i, post := range work {
		outcome := outcomes[i]
		if !outcome.fetched {
			state.EnumerationComplete = false
			state.Report.AddWarning(model.Warning{
				Kind:    model.WarnPostFetchFailed,
				Subject: post.PostURL,
				Detail:  outcome.err.Error(),
			})
			continue
		}

		state.Report.PostsAudited++
		state.Observed.AddPage(outcome.page)

		for _, leak := range diff.PerPost(post.Declared, outcome.page) {
			state.Report.AddLeak(leak)
		}
	}

	s.logger.Info("posts audited",
		"site", state.Report.Site,
		"audited", state.Report.PostsAudited,
		"leaks", len(state.Report.Leaks),
	)
	return nil
}

// fetchPage retrieves and extracts one post page.
func (s *PostAuditStep) fetchPage(ctx context.Context, extractor *htmlmedia.Extractor, postURL string) pageOutcome {
	resp, err := s.client.Get(ctx, postURL)
	if err == nil {
		err = resp.StatusError()
	}
	if err != nil {
		return pageOutcome{err: err}
	}

	extracted, err := extractor.Extract(resp.Body, postURL)
	if err != nil {
		return pageOutcome{err: err}
	}

	return pageOutcome{
		page:    diff.PageFromExtraction(extracted),
		fetched: true,
	}
}

// OrphanStep diffs attachment sitemap entries against the site-wide
// observed aggregate built by the post audit step.
type OrphanStep struct {
	logger *slog.Logger
}

// NewOrphanStep creates an orphan attachment detection step.
func NewOrphanStep(logger *slog.Logger) *OrphanStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &OrphanStep{logger: logger}
}

// Name returns the step name.
func (s *OrphanStep) Name() string {
	return "orphan_attachments"
}

// Do executes orphan detection.
// Orphan detection is only sound over a complete post enumeration: a
// skipped page might have been the one referencing the attachment. When
// the enumeration is incomplete the step records a warning and yields no
// orphan records instead of guessing.
func (s *OrphanStep) Do(_ context.Context, state *State) error {
	declared := attachmentDeclarations(state.AttachmentSets)
	if len(declared) == 0 {
		return nil
	}

	if !state.EnumerationComplete || state.Observed == nil {
		state.Report.AddWarning(model.Warning{
			Kind:    model.WarnTruncatedScan,
			Subject: state.Report.Site,
			Detail:  "orphan detection skipped: post enumeration incomplete",
		})
		return nil
	}

	state.Observed.MarkComplete()
	orphans, err := diff.OrphanAttachments(declared, state.Observed)
	if err != nil {
		return fmt.Errorf("orphan attachment diff: %w", err)
	}

	for _, leak := range orphans {
		state.Report.AddLeak(leak)
	}

	s.logger.Info("orphan attachments checked",
		"site", state.Report.Site,
		"declared", len(declared),
		"orphans", len(orphans),
	)
	return nil
}

// attachmentDeclarations flattens attachment urlset entries into
// declarations. Attachment entries are media URLs in the <loc> position,
// so the entry location itself is the declared URL.
func attachmentDeclarations(sets []*sitemap.Node) []model.MediaDeclaration {
	var declared []model.MediaDeclaration
	for _, node := range sets {
		for _, entry := range node.Entries {
			declared = append(declared, model.MediaDeclaration{
				URL:              entry.Loc,
				Kind:             model.MediaKindAttachment,
				SourceSitemapURL: node.URL,
			})
		}
	}
	return declared
}
