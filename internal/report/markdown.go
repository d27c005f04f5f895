package report

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/nao1215/bakeryscan/internal/model"
	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
)

// MarkdownWriter outputs reports in GitHub flavoured Markdown.
type MarkdownWriter struct {
	baseWriter

	// charts enables the mermaid sentiment pie chart.
	charts bool
}

// MarkdownWriterOption configures a MarkdownWriter.
type MarkdownWriterOption func(*MarkdownWriter)

// WithCharts toggles the mermaid pie chart. It is on by default.
func WithCharts(enabled bool) MarkdownWriterOption {
	return func(w *MarkdownWriter) {
		w.charts = enabled
	}
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer, opts ...MarkdownWriterOption) *MarkdownWriter {
	w := &MarkdownWriter{
		baseWriter: newBaseWriter(output),
		charts:     true,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the report in Markdown format.
func (w *MarkdownWriter) Write(report *model.AnalysisReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	if !report.Failed() {
		w.writeHealth(md, report)
		w.writeItems(md, report)
		w.writeCategories(md, report)
		w.writeSentiment(md, report)
		w.writeSpecials(md, report)
		w.writeRecommendations(md, report)
		w.writeWordCloud(md, report)
		w.writeTopWords(md, report)
	}
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the title and the source table.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.AnalysisReport) {
	md.H1("Bakery Health Report: " + report.DisplayName())
	md.PlainText("")

	rows := [][]string{
		{"Source", "`" + report.Source + "`"},
		{"Analyzed", report.AnalyzedAt.Format(timeLayout)},
	}
	if report.Column != "" {
		rows = append(rows, []string{"Review column", "`" + report.Column + "`"})
	}
	if report.Strategy != "" {
		rows = append(rows, []string{"Strategy", report.Strategy})
	}
	rows = append(rows, []string{"Status", statusText(report)})

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")

	if report.Failed() {
		md.Cautionf("Analysis failed: %s", report.Failure.Sentinel())
		md.PlainText("")
	}
}

// writeHealth writes the score and a band-specific alert.
func (w *MarkdownWriter) writeHealth(md *markdown.Markdown, report *model.AnalysisReport) {
	h := report.Health
	md.H2("Health Score")
	md.PlainText("")
	md.PlainTextf("**%d / 100** (%s, formula `%s`)", h.Value, h.Band, h.Formula)
	md.PlainText("")

	switch h.Band {
	case model.BandGood:
		md.Tip("The site shows a healthy product range and a positive tone.")
	case model.BandFair:
		md.Note("The site is fair; the recommendations below can lift the score.")
	default:
		md.Warningf("Health is poor at %d. Review the recommendations below.", h.Value)
	}
	md.PlainText("")
}

// writeItems writes the detected product table.
func (w *MarkdownWriter) writeItems(md *markdown.Markdown, report *model.AnalysisReport) {
	md.H2("Detected Items")
	md.PlainText("")

	if !report.HasItems() {
		md.PlainText("No items found.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(report.Items))
	for i, item := range report.Items {
		rows[i] = []string{strconv.Itoa(i + 1), displayName(item.Term), strconv.Itoa(item.Count)}
	}
	md.Table(markdown.TableSet{
		Header: []string{"#", "Item", "Mentions"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeCategories writes the category buckets.
func (w *MarkdownWriter) writeCategories(md *markdown.Markdown, report *model.AnalysisReport) {
	if len(report.Categories) == 0 {
		return
	}

	md.H2("Categories")
	md.PlainText("")
	rows := make([][]string, len(report.Categories))
	for i, c := range report.Categories {
		rows[i] = []string{c.Name, strings.Join(c.Items, ", ")}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Category", "Items"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeSentiment writes the sentiment table and pie chart.
func (w *MarkdownWriter) writeSentiment(md *markdown.Markdown, report *model.AnalysisReport) {
	s := report.Sentiment
	md.H2("Sentiment and Readability")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Measure", "Value"},
		Rows: [][]string{
			{"Label", string(s.Label)},
			{"Positive", percent(s.Positive)},
			{"Neutral", percent(s.Neutral)},
			{"Negative", percent(s.Negative)},
			{"Compound", fmt.Sprintf("%.3f", s.Compound)},
			{"Samples", strconv.Itoa(s.Samples)},
			{"Readability", fmt.Sprintf("%.2f", report.Readability)},
			{"Words", strconv.Itoa(report.WordCount)},
		},
	})
	md.PlainText("")

	if w.charts && !s.IsZero() {
		w.writePieChart(md, s)
	}
	if len(report.Entities) > 0 {
		md.PlainText("**Brands and names:** " + strings.Join(report.Entities, ", "))
		md.PlainText("")
	}
}

// writePieChart writes a mermaid pie chart of the sentiment proportions.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, s model.SentimentScore) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Sentiment Distribution"),
		piechart.WithShowData(true),
	)

	for _, part := range []struct {
		label string
		value float64
	}{
		{"Positive", s.Positive},
		{"Neutral", s.Neutral},
		{"Negative", s.Negative},
	} {
		if pct := math.Round(part.value * 100); pct > 0 {
			chart.LabelAndIntValue(part.label, uint64(pct))
		}
	}

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeSpecials writes the seasonal offers list.
func (w *MarkdownWriter) writeSpecials(md *markdown.Markdown, report *model.AnalysisReport) {
	md.H2("Seasonal Specials")
	md.PlainText("")
	if len(report.Specials) == 0 {
		md.PlainText("No seasonal specials detected.")
		md.PlainText("")
		return
	}

	items := make([]string, len(report.Specials))
	for i, sp := range report.Specials {
		items[i] = fmt.Sprintf("%s (mentions \"%s\")", sp.Label, sp.Trigger)
	}
	md.BulletList(items...)
	md.PlainText("")
}

// writeRecommendations writes the advice list.
func (w *MarkdownWriter) writeRecommendations(md *markdown.Markdown, report *model.AnalysisReport) {
	if len(report.Recommendations) == 0 {
		return
	}

	md.H2("Recommendations")
	md.PlainText("")
	items := make([]string, len(report.Recommendations))
	for i, rec := range report.Recommendations {
		items[i] = rec.Marker() + " " + rec.Text
	}
	md.BulletList(items...)
	md.PlainText("")
}

// writeWordCloud writes the matched items, the heaviest ones in bold.
func (w *MarkdownWriter) writeWordCloud(md *markdown.Markdown, report *model.AnalysisReport) {
	cloud := wordCloud(report.Items)
	if len(cloud) == 0 {
		return
	}

	md.H2("Word Cloud")
	md.PlainText("")
	words := make([]string, len(cloud))
	for i, cw := range cloud {
		entry := fmt.Sprintf("%s (%d)", cw.Word, report.Items[i].Count)
		if cw.Weight >= 0.5 {
			entry = "**" + entry + "**"
		}
		words[i] = entry
	}
	md.PlainText(strings.Join(words, " · "))
	md.PlainText("")
}

// writeTopWords lists the most frequent page words.
func (w *MarkdownWriter) writeTopWords(md *markdown.Markdown, report *model.AnalysisReport) {
	if len(report.TopWords) == 0 {
		return
	}
	md.H2("Frequent Words")
	md.PlainText("")
	md.PlainText(hitList(report.TopWords))
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainText("*Report generated by bakeryscan*")
}
