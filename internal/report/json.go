package report

import (
	"encoding/json"
	"io"

	"github.com/purpleghosts/JetGhost-Suite/internal/model"
)

// JSONWriter outputs reports in JSON format.
// This format is designed for tool integration and programmatic processing.
//
// Design decision: We use standard encoding/json rather than a third-party
// JSON library because:
// 1. It's part of the standard library (no extra dependencies)
// 2. It's sufficient for our needs
// 3. It provides consistent behavior across Go versions
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	// When false, output is compact (no extra whitespace).
	indent bool

	// indentPrefix is the prefix for each line in indented output.
	indentPrefix string

	// indentString is the indentation string (typically "  " or "\t").
	indentString string

	// version is the JetGhost version embedded in the output envelope.
	version string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
// The prefix is prepended to each line, and indent is used for each level.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed JSON with default indentation.
// This is a convenience wrapper for WithIndent("", "  ").
func WithPrettyPrint() JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = ""
		w.indentString = "  "
	}
}

// WithVersion embeds the given version string in the output envelope.
func WithVersion(version string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.version = version
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// JSONAuditEnvelope wraps an audit report with output metadata.
//
// Design decision: We wrap the report rather than adding fields to
// AuditReport because this keeps output-specific concerns out of the
// core data structure.
type JSONAuditEnvelope struct {
	// Version is the JetGhost version that generated this report.
	Version string `json:"version,omitempty"`

	// Report is the full audit report.
	Report *model.AuditReport `json:"report"`
}

// JSONSweepEnvelope wraps sweep results with output metadata.
type JSONSweepEnvelope struct {
	// Version is the JetGhost version that generated this report.
	Version string `json:"version,omitempty"`

	// Targets are the classified sweep results in input order.
	Targets []model.ScanTarget `json:"targets"`
}

// Write outputs the full audit report in JSON format.
func (w *JSONWriter) Write(report *model.AuditReport) (int, error) {
	return w.writeJSON(&JSONAuditEnvelope{Version: w.version, Report: report})
}

// WriteSweep outputs the sweep results in JSON format.
func (w *JSONWriter) WriteSweep(targets []model.ScanTarget) (int, error) {
	if targets == nil {
		targets = []model.ScanTarget{}
	}
	return w.writeJSON(&JSONSweepEnvelope{Version: w.version, Targets: targets})
}

// writeJSON marshals the given value to JSON and writes it to the output.
func (w *JSONWriter) writeJSON(v any) (int, error) {
	var data []byte
	var err error

	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		return 0, err
	}

	// Add trailing newline for better terminal output
	data = append(data, '\n')

	return w.output.Write(data)
}
