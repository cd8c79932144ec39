package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/purpleghosts/JetGhost-Suite/internal/model"
)

// BriefWriter outputs one tab-separated line per finding.
// This format is designed for grep, awk, and shell pipeline consumption.
//
// Audit lines: KIND<TAB>context<TAB>media-url, where KIND is IMAGE, VIDEO,
// or ATTACH and context is the post URL or "-" for orphan attachments.
// Sweep lines: classification<TAB>root-url<TAB>sitemap-url.
type BriefWriter struct {
	baseWriter
}

// NewBriefWriter creates a BriefWriter that outputs to the given writer.
func NewBriefWriter(output io.Writer) *BriefWriter {
	return &BriefWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs every leak as one TSV line. Warnings and counters are
// omitted: brief mode is leaks only, by contract.
func (w *BriefWriter) Write(report *model.AuditReport) (int, error) {
	var sb strings.Builder
	for _, leak := range report.Leaks {
		sb.WriteString(leak.Kind.Tag())
		sb.WriteByte('\t')
		sb.WriteString(leak.ContextTag())
		sb.WriteByte('\t')
		sb.WriteString(leak.MediaURL)
		sb.WriteByte('\n')
	}
	return io.WriteString(w.output, sb.String())
}

// WriteSweep outputs every target as one TSV line in input order.
func (w *BriefWriter) WriteSweep(targets []model.ScanTarget) (int, error) {
	var sb strings.Builder
	for _, t := range targets {
		sitemap := t.SitemapURL
		if sitemap == "" {
			sitemap = "-"
		}
		fmt.Fprintf(&sb, "%s\t%s\t%s\n", t.Classification.String(), t.RootURL, sitemap)
	}
	return io.WriteString(w.output, sb.String())
}
