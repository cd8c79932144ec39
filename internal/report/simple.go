package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/purpleghosts/JetGhost-Suite/internal/model"
)

// SimpleWriter outputs human-readable text reports.
// This format is designed for terminal display with clear section
// formatting.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. Color can be added as an option later if needed
type SimpleWriter struct {
	baseWriter

	// showEmpty controls whether sections with no findings are shown.
	showEmpty bool

	// verbose enables additional detail in the output.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithShowEmpty configures the writer to show empty sections.
func WithShowEmpty(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showEmpty = show
	}
}

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the audit report in human-readable format.
func (w *SimpleWriter) Write(report *model.AuditReport) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, report)
	w.writeSummary(&sb, report)
	w.writeLeaks(&sb, report)
	w.writeWarnings(&sb, report)
	w.writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

// WriteSweep outputs sweep results in human-readable format.
func (w *SimpleWriter) WriteSweep(targets []model.ScanTarget) (int, error) {
	var sb strings.Builder

	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                      JETGHOST FINGERPRINT SWEEP\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	counts := make(map[model.Classification]int)
	for _, t := range targets {
		counts[t.Classification]++
	}
	sb.WriteString(fmt.Sprintf("  Targets:        %d\n", len(targets)))
	sb.WriteString(fmt.Sprintf("  Jetpack-like:   %d\n", counts[model.ClassJetpackLike]))
	sb.WriteString(fmt.Sprintf("  Likely leaking: %d\n", counts[model.ClassLikelyLeaking]))
	sb.WriteString(fmt.Sprintf("  Self-hosted:    %d\n", counts[model.ClassSelfHosted]))
	sb.WriteString(fmt.Sprintf("  Unreachable:    %d\n", counts[model.ClassUnreachable]))
	sb.WriteString("\n")

	for _, t := range targets {
		sb.WriteString(fmt.Sprintf("  [%s] %s\n", t.Classification.String(), t.RootURL))
		if w.verbose {
			if t.SitemapURL != "" {
				sb.WriteString(fmt.Sprintf("       sitemap: %s\n", t.SitemapURL))
			}
			for _, e := range t.Evidence {
				sb.WriteString(fmt.Sprintf("       evidence: %s\n", e))
			}
			if t.FailureReason != "" {
				sb.WriteString(fmt.Sprintf("       failure: %s\n", t.FailureReason))
			}
		}
	}
	sb.WriteString("\n")

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the report header with audit information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, report *model.AuditReport) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                          JETGHOST AUDIT REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Site:           %s\n", report.Site))
	if report.SitemapURL != "" {
		sb.WriteString(fmt.Sprintf("Sitemap:        %s\n", report.SitemapURL))
	}
	sb.WriteString(fmt.Sprintf("Vendor:         %s\n", report.Vendor.String()))
	sb.WriteString(fmt.Sprintf("Audit Date:     %s\n", report.DateScanned.Format("2006-01-02 15:04:05 MST")))

	if report.Truncated {
		sb.WriteString("Status:         TRUNCATED (partial results)\n")
	} else {
		sb.WriteString("Status:         Complete\n")
	}

	sb.WriteString("\n")
}

// writeSummary writes the leak count summary section.
func (w *SimpleWriter) writeSummary(sb *strings.Builder, report *model.AuditReport) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("SUMMARY\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	counts := report.CountByKind()
	sb.WriteString(fmt.Sprintf("  IMAGE:   %d\n", counts[model.MediaKindImage]))
	sb.WriteString(fmt.Sprintf("  VIDEO:   %d\n", counts[model.MediaKindVideo]))
	sb.WriteString(fmt.Sprintf("  ATTACH:  %d\n", counts[model.MediaKindAttachment]))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("  TOTAL:   %d leaks\n", len(report.Leaks)))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("  Sitemaps fetched:  %d\n", report.SitemapsFetched))
	sb.WriteString(fmt.Sprintf("  Sitemap entries:   %d\n", report.SitemapEntries))
	sb.WriteString(fmt.Sprintf("  Posts audited:     %d\n", report.PostsAudited))
	sb.WriteString("\n")
}

// writeLeaks writes every leak record grouped by mode.
func (w *SimpleWriter) writeLeaks(sb *strings.Builder, report *model.AuditReport) {
	if !report.HasLeaks() && !w.showEmpty {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("LEAKS\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	if !report.HasLeaks() {
		sb.WriteString("  No leaks found\n\n")
		return
	}

	for _, leak := range report.Leaks {
		sb.WriteString(fmt.Sprintf("  [%s] %s\n", leak.Kind.Tag(), leak.MediaURL))
		if leak.PostURL != "" {
			sb.WriteString(fmt.Sprintf("       post: %s\n", leak.PostURL))
		} else {
			sb.WriteString("       post: (orphan attachment)\n")
		}
	}
	sb.WriteString("\n")
}

// writeWarnings writes non-fatal degradations recorded during the audit.
func (w *SimpleWriter) writeWarnings(sb *strings.Builder, report *model.AuditReport) {
	if len(report.Warnings) == 0 && !w.showEmpty {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("WARNINGS\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	if len(report.Warnings) == 0 {
		sb.WriteString("  No warnings\n\n")
		return
	}

	for _, warn := range report.Warnings {
		sb.WriteString(fmt.Sprintf("  * %s: %s\n", warn.Kind, warn.Subject))
		if w.verbose && warn.Detail != "" {
			sb.WriteString(fmt.Sprintf("    %s\n", warn.Detail))
		}
	}
	sb.WriteString("\n")
}

// writeFooter writes the report footer.
func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("Report generated by JetGhost\n")
	sb.WriteString("https://github.com/purpleghosts/JetGhost-Suite\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}
