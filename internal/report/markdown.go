package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"github.com/purpleghosts/JetGhost-Suite/internal/model"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the audit report in Markdown format.
func (w *MarkdownWriter) Write(report *model.AuditReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeSummary(md, report)
	w.writeLeaks(md, report)
	w.writeWarnings(md, report)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// WriteSweep outputs sweep results in Markdown format.
func (w *MarkdownWriter) WriteSweep(targets []model.ScanTarget) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("JetGhost Fingerprint Sweep")
	md.PlainText("")

	counts := make(map[model.Classification]int)
	for _, t := range targets {
		counts[t.Classification]++
	}
	md.Table(markdown.TableSet{
		Header: []string{"Classification", "Count"},
		Rows: [][]string{
			{"Jetpack-like", strconv.Itoa(counts[model.ClassJetpackLike])},
			{"Likely leaking", strconv.Itoa(counts[model.ClassLikelyLeaking])},
			{"Self-hosted", strconv.Itoa(counts[model.ClassSelfHosted])},
			{"Unreachable", strconv.Itoa(counts[model.ClassUnreachable])},
			{"**Total**", "**" + strconv.Itoa(len(targets)) + "**"},
		},
	})
	md.PlainText("")

	rows := make([][]string, len(targets))
	for i, t := range targets {
		sitemap := t.SitemapURL
		if sitemap == "" {
			sitemap = "-"
		}
		rows[i] = []string{
			t.Classification.String(),
			"`" + truncateString(t.RootURL, 60) + "`",
			truncateString(sitemap, 50),
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Classification", "Target", "Sitemap"},
		Rows:   rows,
	})
	md.PlainText("")

	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with audit information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.AuditReport) {
	md.H1("JetGhost Audit Report")
	md.PlainText("")

	// Basic info table
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Site", "`" + report.Site + "`"},
			{"Sitemap", w.sitemapCell(report)},
			{"Vendor", report.Vendor.String()},
			{"Audit Date", report.DateScanned.Format("2006-01-02 15:04:05 MST")},
			{"Status", w.getStatusText(report)},
		},
	})
	md.PlainText("")
}

// sitemapCell returns the sitemap cell value for the info table.
func (w *MarkdownWriter) sitemapCell(report *model.AuditReport) string {
	if report.SitemapURL == "" {
		return "-"
	}
	return "`" + report.SitemapURL + "`"
}

// getStatusText returns the status text based on report state.
func (w *MarkdownWriter) getStatusText(report *model.AuditReport) string {
	if report.Truncated {
		return "⚠️ Truncated (partial results)"
	}
	return "✅ Complete"
}

// writeSummary writes the leak count summary section.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, report *model.AuditReport) {
	md.H2("Summary")
	md.PlainText("")

	counts := report.CountByKind()
	md.Table(markdown.TableSet{
		Header: []string{"Kind", "Leaks"},
		Rows: [][]string{
			{"🖼️ Image", strconv.Itoa(counts[model.MediaKindImage])},
			{"🎞️ Video", strconv.Itoa(counts[model.MediaKindVideo])},
			{"📎 Attachment", strconv.Itoa(counts[model.MediaKindAttachment])},
			{"**Total**", "**" + strconv.Itoa(len(report.Leaks)) + "**"},
		},
	})
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Counter", "Value"},
		Rows: [][]string{
			{"Sitemaps fetched", strconv.Itoa(report.SitemapsFetched)},
			{"Sitemap entries", strconv.Itoa(report.SitemapEntries)},
			{"Posts audited", strconv.Itoa(report.PostsAudited)},
		},
	})
	md.PlainText("")

	// Add pie chart if there are leaks
	if report.HasLeaks() {
		w.writePieChart(md, counts)
	}

	// Add alert based on findings
	w.writeAlert(md, report)
}

// writePieChart writes a mermaid pie chart for leak kind distribution.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, counts map[model.MediaKind]int) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Leak Kind Distribution"),
		piechart.WithShowData(true),
	)

	if counts[model.MediaKindImage] > 0 {
		chart.LabelAndIntValue("Image", uint64(counts[model.MediaKindImage]))
	}
	if counts[model.MediaKindVideo] > 0 {
		chart.LabelAndIntValue("Video", uint64(counts[model.MediaKindVideo]))
	}
	if counts[model.MediaKindAttachment] > 0 {
		chart.LabelAndIntValue("Attachment", uint64(counts[model.MediaKindAttachment]))
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeAlert writes an appropriate alert based on the leak counts.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, report *model.AuditReport) {
	switch {
	case report.HasLeaks() && report.Truncated:
		md.Warningf(
			"%d leak(s) found in a truncated scan. The full leak set is at least this large.",
			len(report.Leaks),
		)
	case report.HasLeaks():
		md.Cautionf(
			"%d leak(s) found. The sitemap still advertises media the live pages no longer show.",
			len(report.Leaks),
		)
	case report.Truncated:
		md.Important("No leaks found, but the scan was truncated. Raise the traversal bounds for a complete result.")
	default:
		md.Tip("No leaks found.")
	}
	md.PlainText("")
}

// writeLeaks writes every leak record as a table.
func (w *MarkdownWriter) writeLeaks(md *markdown.Markdown, report *model.AuditReport) {
	md.H2("Leaks")
	md.PlainText("")

	if !report.HasLeaks() {
		md.PlainText("No leaks detected.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(report.Leaks))
	for i, leak := range report.Leaks {
		rows[i] = []string{
			leak.Kind.Tag(),
			truncateString(leak.ContextTag(), 50),
			// Media URLs get a wide budget: the tail of a wp-content
			// path carries the filename, the informative part of a leak.
			"`" + truncateString(leak.MediaURL, 120) + "`",
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Kind", "Post", "Media URL"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeWarnings writes non-fatal degradations recorded during the audit.
func (w *MarkdownWriter) writeWarnings(md *markdown.Markdown, report *model.AuditReport) {
	if len(report.Warnings) == 0 {
		return
	}

	md.H2("Warnings")
	md.PlainText("")

	rows := make([][]string, len(report.Warnings))
	for i, warn := range report.Warnings {
		subject := warn.Subject
		if subject == "" {
			subject = "-"
		}
		rows[i] = []string{
			string(warn.Kind),
			truncateString(subject, 50),
			truncateString(warn.Detail, 60),
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Kind", "Subject", "Detail"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [JetGhost](https://github.com/purpleghosts/JetGhost-Suite)*")
}

// truncateString truncates a string to maxLen characters with ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
