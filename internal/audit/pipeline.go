package audit

import (
	"context"
	"log/slog"

	"github.com/purpleghosts/JetGhost-Suite/internal/diff"
	"github.com/purpleghosts/JetGhost-Suite/internal/model"
	"github.com/purpleghosts/JetGhost-Suite/internal/sitemap"
)

// State is the mutable working set one audit threads through its steps.
// The report is the externally visible outcome; the other fields are
// intermediate products handed from one step to the next.
type State struct {
	// Report accumulates leaks, warnings and counters.
	Report *model.AuditReport

	// PostSets are urlset documents carrying post entries, in traversal
	// order. Populated by the walk step.
	PostSets []*sitemap.Node

	// AttachmentSets are urlset documents recognized as attachment
	// sitemaps. Their entries are media URLs, not post pages.
	AttachmentSets []*sitemap.Node

	// Posts is the flattened work list: one item per post entry, in
	// sitemap order. Populated by the walk step, consumed by the post
	// audit step.
	Posts []PostWork

	// Observed aggregates media references across every audited page.
	// Used by the orphan step; nil until the post audit step runs.
	Observed *diff.SiteObservation

	// EnumerationComplete is true only when every post page was fetched
	// and no traversal bound cut the walk. Orphan detection requires it.
	EnumerationComplete bool
}

// PostWork is one post entry awaiting fetch and diff.
type PostWork struct {
	// PostURL is the normalized post location.
	PostURL string

	// Declared are the media declarations attached to this entry.
	Declared []model.MediaDeclaration
}

// NewState creates the initial state for one site audit.
func NewState(site string) *State {
	return &State{
		Report: model.NewAuditReport(site),
	}
}

// Step defines the interface that all audit steps must implement.
// Steps are executed in sequence, with each step receiving the accumulated
// state from previous steps.
//
// Design decision: We use an interface rather than function types because:
// 1. It allows steps to carry configuration state
// 2. It provides a Name() method for logging and debugging
// 3. It's more extensible for future features (e.g., priority, dependencies)
type Step interface {
	// Do executes the audit step.
	// It receives the context for cancellation, and the state to modify.
	// Returns an error if the step fails critically; non-critical errors
	// should be recorded as report warnings and return nil.
	Do(ctx context.Context, state *State) error

	// Name returns the step's name for logging purposes.
	Name() string
}

// Pipeline orchestrates the execution of multiple steps.
// It maintains a list of steps and executes them in order.
type Pipeline struct {
	// steps contains the ordered list of steps to execute.
	steps []Step

	// logger is used for structured logging during execution.
	logger *slog.Logger
}

// PipelineOption is a function that configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithPipelineLogger sets a custom logger for the pipeline.
// If not set, slog.Default() is used.
func WithPipelineLogger(logger *slog.Logger) PipelineOption {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// NewPipeline creates a new Pipeline with the given options.
// Steps should be added using AddSteps after creation.
func NewPipeline(opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		steps: make([]Step, 0),
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = slog.Default()
	}

	return p
}

// AddSteps appends steps to the pipeline.
// Steps are executed in the order they are added.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs all pipeline steps in sequence.
// It respects context cancellation and logs each step's execution.
//
// Design decision: We check context.Done() before each step rather than
// during, because steps should handle their own timeouts. This allows
// graceful cleanup between steps while still respecting cancellation.
//
// A step error stops the pipeline: the audit stages build on each other,
// so there is nothing useful to run after a failed stage. Degradations
// that should not stop the audit are report warnings, not step errors.
func (p *Pipeline) Execute(ctx context.Context, state *State) error {
	for _, step := range p.steps {
		// Check for cancellation before starting each step
		select {
		case <-ctx.Done():
			p.logger.Warn("audit cancelled",
				"step", step.Name(),
				"reason", ctx.Err(),
			)
			return ctx.Err()
		default:
		}

		p.logger.Debug("executing step",
			"step", step.Name(),
			"site", state.Report.Site,
		)

		if err := step.Do(ctx, state); err != nil {
			p.logger.Error("step failed",
				"step", step.Name(),
				"site", state.Report.Site,
				"error", err,
			)
			return err
		}
	}

	return nil
}

// StepNames returns the names of all steps in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
