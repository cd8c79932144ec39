package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/purpleghosts/JetGhost-Suite/internal/model"
)

// sampleReport returns an audit report with one leak of each kind and a
// truncation warning, used across writer tests.
func sampleReport() *model.AuditReport {
	report := model.NewAuditReport("https://blog.example.com")
	report.SitemapURL = "https://blog.example.com/sitemap.xml"
	report.Vendor = model.VendorJetpack
	report.DateScanned = time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	report.SitemapsFetched = 3
	report.SitemapEntries = 42
	report.PostsAudited = 40

	report.AddLeak(model.LeakRecord{
		PostURL:  "https://blog.example.com/2026/08/holiday/",
		MediaURL: "https://blog.example.com/wp-content/uploads/2026/08/beach.jpg",
		Kind:     model.MediaKindImage,
		Mode:     model.LeakModePost,
	})
	report.AddLeak(model.LeakRecord{
		PostURL:  "https://blog.example.com/2026/08/holiday/",
		MediaURL: "https://blog.example.com/wp-content/uploads/2026/08/clip.mp4",
		Kind:     model.MediaKindVideo,
		Mode:     model.LeakModePost,
	})
	report.AddLeak(model.LeakRecord{
		MediaURL: "https://blog.example.com/wp-content/uploads/2026/07/contract.pdf",
		Kind:     model.MediaKindAttachment,
		Mode:     model.LeakModeOrphanAttachment,
	})
	report.AddWarning(model.Warning{
		Kind:    model.WarnTruncatedScan,
		Subject: "https://blog.example.com/sitemap.xml",
		Detail:  "sitemap count bound reached",
	})
	return report
}

// sampleTargets returns classified sweep results for writer tests.
func sampleTargets() []model.ScanTarget {
	return []model.ScanTarget{
		{
			RootURL:        "https://a.example.com",
			SitemapURL:     "https://a.example.com/sitemap.xml",
			Classification: model.ClassJetpackLike,
			Evidence:       []model.Evidence{model.EvidenceSitemapDocument, model.EvidenceJetpackGenerator},
		},
		{
			RootURL:        "https://b.example.com",
			SitemapURL:     "https://b.example.com/sitemap.xml",
			Classification: model.ClassLikelyLeaking,
		},
		{
			RootURL:        "https://c.example.com",
			Classification: model.ClassUnreachable,
			FailureReason:  "dial timeout",
		},
	}
}

func TestBriefWriter_Write(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := NewBriefWriter(&buf)

	n, err := w.Write(sampleReport())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if n != buf.Len() {
		t.Errorf("expected %d bytes reported, got %d", buf.Len(), n)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d: %q", len(lines), buf.String())
	}

	want := []string{
		"IMAGE\thttps://blog.example.com/2026/08/holiday/\thttps://blog.example.com/wp-content/uploads/2026/08/beach.jpg",
		"VIDEO\thttps://blog.example.com/2026/08/holiday/\thttps://blog.example.com/wp-content/uploads/2026/08/clip.mp4",
		"ATTACH\t-\thttps://blog.example.com/wp-content/uploads/2026/07/contract.pdf",
	}
	for i, line := range lines {
		if line != want[i] {
			t.Errorf("line %d:\n got %q\nwant %q", i, line, want[i])
		}
	}
}

func TestBriefWriter_WriteSweep(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := NewBriefWriter(&buf)

	if _, err := w.WriteSweep(sampleTargets()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "jetpack_like\thttps://a.example.com\thttps://a.example.com/sitemap.xml" {
		t.Errorf("unexpected first line: %q", lines[0])
	}
	// Unreachable targets have no sitemap URL; the column shows a dash
	if lines[2] != "unreachable\thttps://c.example.com\t-" {
		t.Errorf("unexpected third line: %q", lines[2])
	}
}

func TestJSONWriter_Write(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := NewJSONWriter(&buf, WithVersion("1.2.3"))

	if _, err := w.Write(sampleReport()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	var envelope JSONAuditEnvelope
	if err := json.Unmarshal(buf.Bytes(), &envelope); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if envelope.Version != "1.2.3" {
		t.Errorf("expected version 1.2.3, got %q", envelope.Version)
	}
	if envelope.Report == nil || len(envelope.Report.Leaks) != 3 {
		t.Fatalf("expected 3 leaks in decoded report, got %+v", envelope.Report)
	}
	if !envelope.Report.Truncated {
		t.Error("expected truncated flag to survive the round trip")
	}
}

func TestJSONWriter_WriteSweep(t *testing.T) {
	t.Parallel()

	t.Run("targets round-trip in order", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewJSONWriter(&buf)

		if _, err := w.WriteSweep(sampleTargets()); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		var envelope JSONSweepEnvelope
		if err := json.Unmarshal(buf.Bytes(), &envelope); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		if len(envelope.Targets) != 3 {
			t.Fatalf("expected 3 targets, got %d", len(envelope.Targets))
		}
		if envelope.Targets[2].Classification != model.ClassUnreachable {
			t.Errorf("expected third target unreachable, got %s", envelope.Targets[2].Classification)
		}
	})

	t.Run("nil targets encode as empty array", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewJSONWriter(&buf)

		if _, err := w.WriteSweep(nil); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(buf.String(), `"targets":[]`) {
			t.Errorf("expected empty targets array, got %s", buf.String())
		}
	})
}

func TestJSONWriter_PrettyPrint(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := NewJSONWriter(&buf, WithPrettyPrint())

	if _, err := w.Write(sampleReport()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.Contains(buf.String(), "\n  ") {
		t.Error("expected indented output with WithPrettyPrint")
	}
}

func TestSimpleWriter_Write(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := NewSimpleWriter(&buf)

	if _, err := w.Write(sampleReport()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"JETGHOST AUDIT REPORT",
		"https://blog.example.com",
		"Vendor:         jetpack",
		"TRUNCATED",
		"TOTAL:   3 leaks",
		"[IMAGE] https://blog.example.com/wp-content/uploads/2026/08/beach.jpg",
		"(orphan attachment)",
		"truncated_scan",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestSimpleWriter_WriteEmptyReport(t *testing.T) {
	t.Parallel()

	t.Run("sections hidden by default", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf)

		if _, err := w.Write(model.NewAuditReport("https://clean.example.com")); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if strings.Contains(buf.String(), "LEAKS") {
			t.Error("expected leaks section hidden for a clean report")
		}
	})

	t.Run("sections shown with WithShowEmpty", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf, WithShowEmpty(true))

		if _, err := w.Write(model.NewAuditReport("https://clean.example.com")); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(buf.String(), "No leaks found") {
			t.Error("expected empty leaks section with WithShowEmpty")
		}
	})
}

func TestSimpleWriter_WriteSweep(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := NewSimpleWriter(&buf, WithVerbose(true))

	if _, err := w.WriteSweep(sampleTargets()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"Jetpack-like:   1",
		"Likely leaking: 1",
		"Unreachable:    1",
		"[jetpack_like] https://a.example.com",
		"evidence: jetpack_generator",
		"failure: dial timeout",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestMarkdownWriter_Write(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := NewMarkdownWriter(&buf)

	if _, err := w.Write(sampleReport()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"# JetGhost Audit Report",
		"## Summary",
		"## Leaks",
		"IMAGE",
		"beach.jpg",
		"## Warnings",
		"truncated_scan",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

// TestMarkdownWriter_MediaURLKeepsFilename tests that a realistic
// wp-content media URL survives table-cell truncation with its filename
// and extension intact.
func TestMarkdownWriter_MediaURLKeepsFilename(t *testing.T) {
	t.Parallel()

	report := &model.AuditReport{Site: "https://blog.example.com"}
	report.AddLeak(model.LeakRecord{
		PostURL:  "https://blog.example.com/2026/08/holiday/",
		MediaURL: "https://blog.example.com/wp-content/uploads/2026/08/family-reunion-group-photo-scaled.jpg",
		Kind:     model.MediaKindImage,
		Mode:     model.LeakModePost,
	})

	var buf bytes.Buffer
	if _, err := NewMarkdownWriter(&buf).Write(report); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if !strings.Contains(buf.String(), "family-reunion-group-photo-scaled.jpg") {
		t.Errorf("expected full filename in leak table, got:\n%s", buf.String())
	}
}

func TestMarkdownWriter_WriteSweep(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := NewMarkdownWriter(&buf)

	if _, err := w.WriteSweep(sampleTargets()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "# JetGhost Fingerprint Sweep") {
		t.Error("output missing sweep header")
	}
	if !strings.Contains(out, "jetpack_like") {
		t.Error("output missing classification row")
	}
}

func TestMultiWriter(t *testing.T) {
	t.Parallel()

	var brief, jsonBuf bytes.Buffer
	mw := NewMultiWriter(NewBriefWriter(&brief), NewJSONWriter(&jsonBuf))

	total, err := mw.Write(sampleReport())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if total != brief.Len()+jsonBuf.Len() {
		t.Errorf("expected total %d, got %d", brief.Len()+jsonBuf.Len(), total)
	}
	if brief.Len() == 0 || jsonBuf.Len() == 0 {
		t.Error("expected both writers to receive output")
	}
}

func TestTruncateString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{name: "short string unchanged", input: "abc", maxLen: 10, want: "abc"},
		{name: "long string truncated with ellipsis", input: "abcdefghij", maxLen: 8, want: "abcde..."},
		{name: "tiny budget hard-cut", input: "abcdef", maxLen: 2, want: "ab"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := truncateString(tt.input, tt.maxLen); got != tt.want {
				t.Errorf("truncateString(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
			}
		})
	}
}
