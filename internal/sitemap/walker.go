// Package sitemap index traversal.
package sitemap

import (
	"context"
	"fmt"

	"github.com/purpleghosts/JetGhost-Suite/internal/fetch"
	"github.com/purpleghosts/JetGhost-Suite/internal/model"
	"github.com/purpleghosts/JetGhost-Suite/internal/urlnorm"
)

// Traversal bounds.
const (
	defaultMaxDepth    = 3
	defaultMaxSitemaps = 200
)

// Walker resolves a sitemap URL into the full set of urlset documents it
// transitively references, fetching through the shared client.
type Walker struct {
	client      *fetch.Client
	policy      urlnorm.Policy
	maxDepth    int
	maxSitemaps int
}

// WalkerOption configures a Walker.
type WalkerOption func(*Walker)

// WithMaxDepth bounds index nesting. The root document is depth zero.
func WithMaxDepth(depth int) WalkerOption {
	return func(w *Walker) {
		w.maxDepth = depth
	}
}

// WithMaxSitemaps bounds the total number of sitemap documents fetched
// in one walk.
func WithMaxSitemaps(n int) WalkerOption {
	return func(w *Walker) {
		w.maxSitemaps = n
	}
}

// WithPolicy sets the URL normalization policy applied to every decoded
// location.
func WithPolicy(pol urlnorm.Policy) WalkerOption {
	return func(w *Walker) {
		w.policy = pol
	}
}

// NewWalker creates a Walker over the given fetch client.
func NewWalker(client *fetch.Client, opts ...WalkerOption) *Walker {
	w := &Walker{
		client:      client,
		policy:      urlnorm.DefaultPolicy(),
		maxDepth:    defaultMaxDepth,
		maxSitemaps: defaultMaxSitemaps,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// WalkResult is the outcome of one traversal.
type WalkResult struct {
	// URLSets are the decoded urlset documents in traversal order.
	URLSets []*Node

	// Vendor is fingerprinted from the root document.
	Vendor model.Vendor

	// Fetched counts sitemap documents retrieved, including failures.
	Fetched int

	// Truncated is true when a traversal bound was hit.
	Truncated bool

	// Warnings collects dropped URLs, failed sub-sitemaps and
	// truncation notices.
	Warnings []model.Warning
}

// queued is one pending sitemap fetch.
type queued struct {
	url   string
	depth int
}

// Walk fetches sitemapURL and resolves any index structure beneath it.
// The root fetch failing is fatal; everything below it degrades to
// warnings. Traversal is breadth-first so shallow urlsets are collected
// before a bound cuts off deep ones.
func (w *Walker) Walk(ctx context.Context, sitemapURL string) (*WalkResult, error) {
	result := &WalkResult{}
	seen := map[string]bool{sitemapURL: true}
	queue := []queued{{url: sitemapURL, depth: 0}}

	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		item := queue[0]
		queue = queue[1:]

		if result.Fetched >= w.maxSitemaps {
			result.Truncated = true
			result.Warnings = append(result.Warnings, model.Warning{
				Kind:    model.WarnTruncatedScan,
				Subject: item.url,
				Detail:  fmt.Sprintf("sitemap count bound (%d) reached", w.maxSitemaps),
			})
			break
		}

		resp, err := w.client.Get(ctx, item.url)
		result.Fetched++
		if err == nil {
			err = resp.StatusError()
		}
		if err != nil {
			if item.depth == 0 {
				return nil, fmt.Errorf("fetch root sitemap: %w", err)
			}
			result.Warnings = append(result.Warnings, model.Warning{
				Kind:    model.WarnSubSitemapFailed,
				Subject: item.url,
				Detail:  err.Error(),
			})
			continue
		}

		if item.depth == 0 {
			result.Vendor = DetectVendor(resp.Body)
		}

		node, warnings, err := Parse(resp.Body, item.url, w.policy)
		result.Warnings = append(result.Warnings, warnings...)
		if err != nil {
			if item.depth == 0 {
				return nil, fmt.Errorf("parse root sitemap: %w", err)
			}
			result.Warnings = append(result.Warnings, model.Warning{
				Kind:    model.WarnSubSitemapFailed,
				Subject: item.url,
				Detail:  err.Error(),
			})
			continue
		}

		switch node.Kind {
		case NodeURLSet:
			result.URLSets = append(result.URLSets, node)
		case NodeIndex:
			if item.depth >= w.maxDepth {
				result.Truncated = true
				result.Warnings = append(result.Warnings, model.Warning{
					Kind:    model.WarnTruncatedScan,
					Subject: item.url,
					Detail:  fmt.Sprintf("index depth bound (%d) reached", w.maxDepth),
				})
				continue
			}
			for _, child := range node.Children {
				if seen[child] {
					continue
				}
				seen[child] = true
				queue = append(queue, queued{url: child, depth: item.depth + 1})
			}
		}
	}

	return result, nil
}
