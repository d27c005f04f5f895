package report

import (
	"encoding/json"
	"io"

	"github.com/nao1215/bakeryscan/internal/model"
)

// JSONWriter outputs reports in JSON format.
// The output is the bare AnalysisReport; see FullJSONWriter for the
// versioned envelope used by the CLI and the HTTP API.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printing with indentPrefix and indentString.
	indent bool

	// indentPrefix is written at the start of every line.
	indentPrefix string

	// indentString is repeated once per nesting level.
	indentString string
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

// WithPrettyPrint is WithIndent("", "  ").
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
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

// Write outputs the report in JSON format.
func (w *JSONWriter) Write(report *model.AnalysisReport) (int, error) {
	return w.writeJSON(report)
}

// WriteValue outputs any value with the writer's settings.
func (w *JSONWriter) WriteValue(v any) (int, error) {
	return w.writeJSON(v)
}

// writeJSON marshals v and writes it with a trailing newline.
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

	data = append(data, '\n')

	return w.output.Write(data)
}

// JSONReport wraps a report with the version that produced it.
//
// Design decision: the envelope keeps the report itself unchanged so
// stored history rows and API responses decode into the same
// model.AnalysisReport type.
type JSONReport struct {
	// Version is the bakeryscan version that produced the report.
	Version string `json:"version"`

	// Report is the full analysis result.
	Report *model.AnalysisReport `json:"report"`

	// Error repeats the failure sentinel so consumers can test one field.
	// It is empty for successful analyses.
	Error string `json:"error,omitempty"`
}

// NewJSONReport creates a JSONReport wrapper with version information.
// The failure sentinel is copied into Error when the report failed.
func NewJSONReport(report *model.AnalysisReport, version string) *JSONReport {
	wrapped := &JSONReport{
		Version: version,
		Report:  report,
	}
	if report.Failed() {
		wrapped.Error = report.Failure.Sentinel()
	}
	return wrapped
}

// FullJSONWriter outputs reports inside a JSONReport wrapper.
// It shares indentation settings with the embedded JSONWriter.
type FullJSONWriter struct {
	*JSONWriter

	version string
}

// NewFullJSONWriter creates a writer for complete reports with metadata.
func NewFullJSONWriter(output io.Writer, version string, opts ...JSONWriterOption) *FullJSONWriter {
	return &FullJSONWriter{
		JSONWriter: NewJSONWriter(output, opts...),
		version:    version,
	}
}

// Write outputs the report wrapped with metadata.
func (w *FullJSONWriter) Write(report *model.AnalysisReport) (int, error) {
	return w.writeJSON(NewJSONReport(report, w.version))
}
