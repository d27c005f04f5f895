package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/bakeryscan/internal/model"
)

const (
	ruleWidth = 70
	barWidth  = 30
)

// ANSI escapes for the health banner.
const (
	ansiReset = "\x1b[0m"
	ansiBold  = "\x1b[1m"
)

// SimpleWriter outputs human-readable text reports for terminals.
type SimpleWriter struct {
	baseWriter

	// color enables ANSI colors on the health banner.
	color bool

	// verbose adds the frequent words and performed steps.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithColor enables ANSI colors.
func WithColor(color bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.color = color
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

// Write outputs the report in human-readable format.
func (w *SimpleWriter) Write(report *model.AnalysisReport) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, report)
	if report.Failed() {
		w.writeFooter(&sb)
		return w.output.Write([]byte(sb.String()))
	}

	w.writeBanner(&sb, report)
	w.writeItems(&sb, report)
	w.writeCategories(&sb, report)
	w.writeSignals(&sb, report)
	w.writeRecommendations(&sb, report)
	if w.verbose {
		w.writeTopWords(&sb, report)
	}
	w.writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

func section(sb *strings.Builder, title string) {
	sb.WriteString(strings.Repeat("-", ruleWidth))
	sb.WriteString("\n")
	sb.WriteString(title)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", ruleWidth))
	sb.WriteString("\n\n")
}

// writeHeader writes the title block with source information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, report *model.AnalysisReport) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n")
	sb.WriteString("                      BAKERY HEALTH REPORT\n")
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n\n")

	fmt.Fprintf(sb, "Source:    %s\n", report.Source)
	if report.Title != "" {
		fmt.Fprintf(sb, "Title:     %s\n", report.Title)
	}
	fmt.Fprintf(sb, "Analyzed:  %s\n", report.AnalyzedAt.Format(timeLayout))
	if report.Column != "" {
		fmt.Fprintf(sb, "Column:    %s\n", report.Column)
	}
	if report.Strategy != "" {
		fmt.Fprintf(sb, "Strategy:  %s\n", report.Strategy)
	}
	fmt.Fprintf(sb, "Status:    %s\n", statusText(report))
	sb.WriteString("\n")
}

// writeBanner writes the health score with its band.
func (w *SimpleWriter) writeBanner(sb *strings.Builder, report *model.AnalysisReport) {
	h := report.Health
	label := fmt.Sprintf("HEALTH %3d/100  [%s]", h.Value, strings.ToUpper(h.Band.String()))
	if w.color {
		r, g, b := h.Band.Color()
		label = fmt.Sprintf("%s\x1b[38;2;%d;%d;%dm%s%s", ansiBold, r, g, b, label, ansiReset)
	}
	fmt.Fprintf(sb, "%s  %s\n", label, bar(h.Value, 100, barWidth))
	fmt.Fprintf(sb, "Formula:   %s\n\n", h.Formula)
}

// writeItems writes the detected product table.
func (w *SimpleWriter) writeItems(sb *strings.Builder, report *model.AnalysisReport) {
	section(sb, "DETECTED ITEMS")

	if !report.HasItems() {
		sb.WriteString("  No items found\n\n")
		return
	}

	top := report.Items[0].Count
	for _, item := range report.Items {
		fmt.Fprintf(sb, "  %-16s %4d  %s\n", displayName(item.Term), item.Count, bar(item.Count, top, 20))
	}
	sb.WriteString("\n")
}

// writeCategories writes the category buckets.
func (w *SimpleWriter) writeCategories(sb *strings.Builder, report *model.AnalysisReport) {
	if len(report.Categories) == 0 {
		return
	}

	section(sb, "CATEGORIES")
	for _, c := range report.Categories {
		fmt.Fprintf(sb, "  %-10s %s\n", c.Name+":", strings.Join(c.Items, ", "))
	}
	sb.WriteString("\n")
}

// writeSignals writes sentiment, specials and entities.
func (w *SimpleWriter) writeSignals(sb *strings.Builder, report *model.AnalysisReport) {
	section(sb, "SIGNALS")

	s := report.Sentiment
	fmt.Fprintf(sb, "  Sentiment:   %s (compound %.3f)\n", s.Label, s.Compound)
	fmt.Fprintf(sb, "    positive   %6s  %s\n", percent(s.Positive), bar(int(s.Positive*100), 100, 20))
	fmt.Fprintf(sb, "    neutral    %6s  %s\n", percent(s.Neutral), bar(int(s.Neutral*100), 100, 20))
	fmt.Fprintf(sb, "    negative   %6s  %s\n", percent(s.Negative), bar(int(s.Negative*100), 100, 20))
	fmt.Fprintf(sb, "  Readability: %.2f avg word length\n", report.Readability)
	fmt.Fprintf(sb, "  Words:       %d\n", report.WordCount)

	if len(report.Specials) > 0 {
		labels := make([]string, len(report.Specials))
		for i, sp := range report.Specials {
			labels[i] = sp.Label
		}
		fmt.Fprintf(sb, "  Specials:    %s\n", strings.Join(labels, ", "))
	} else {
		sb.WriteString("  Specials:    none detected\n")
	}
	if len(report.Entities) > 0 {
		fmt.Fprintf(sb, "  Brands:      %s\n", strings.Join(report.Entities, ", "))
	}
	sb.WriteString("\n")
}

// writeRecommendations writes the advice list.
func (w *SimpleWriter) writeRecommendations(sb *strings.Builder, report *model.AnalysisReport) {
	if len(report.Recommendations) == 0 {
		return
	}

	section(sb, "RECOMMENDATIONS")
	for _, rec := range report.Recommendations {
		fmt.Fprintf(sb, "  %-9s %s\n", rec.Marker(), rec.Text)
	}
	sb.WriteString("\n")
}

// writeTopWords writes the frequent words on wrapped lines.
func (w *SimpleWriter) writeTopWords(sb *strings.Builder, report *model.AnalysisReport) {
	if len(report.TopWords) == 0 {
		return
	}

	section(sb, "FREQUENT WORDS")
	line := " "
	for _, word := range report.TopWords {
		entry := fmt.Sprintf(" %s(%d)", word.Term, word.Count)
		if len(line)+len(entry) > ruleWidth {
			sb.WriteString(line + "\n")
			line = " "
		}
		line += entry
	}
	sb.WriteString(line + "\n\n")
	fmt.Fprintf(sb, "  Steps: %s\n\n", strings.Join(report.PerformedSteps, " > "))
}

// writeFooter writes the report footer.
func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n")
	sb.WriteString("Report generated by bakeryscan\n")
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n")
}
