package report

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"io"

	"github.com/nao1215/bakeryscan/internal/model"
	"github.com/russross/blackfriday/v2"
)

//go:embed templates/dashboard.html.tmpl
var dashboardTemplate string

var dashboard = template.Must(template.New("dashboard").Parse(dashboardTemplate))

// HTMLWriter renders a standalone dashboard page: a coloured health
// banner, a word cloud and the Markdown report converted to HTML.
type HTMLWriter struct {
	baseWriter
}

// NewHTMLWriter creates an HTMLWriter that outputs to the given writer.
func NewHTMLWriter(output io.Writer) *HTMLWriter {
	return &HTMLWriter{baseWriter: newBaseWriter(output)}
}

type dashboardWord struct {
	Word  string
	Count int
	Size  string
}

type dashboardData struct {
	Title      string
	Failed     bool
	Error      string
	Score      int
	Band       string
	BandColor  template.CSS
	ScoreWidth int
	Words      []dashboardWord
	Body       template.HTML
}

// Write outputs the report as an HTML page.
func (w *HTMLWriter) Write(report *model.AnalysisReport) (int, error) {
	var md bytes.Buffer
	if _, err := NewMarkdownWriter(&md, WithCharts(false)).Write(report); err != nil {
		return 0, fmt.Errorf("failed to render markdown: %w", err)
	}
	renderer := blackfriday.NewHTMLRenderer(blackfriday.HTMLRendererParameters{
		Flags: blackfriday.CommonHTMLFlags | blackfriday.SkipHTML,
	})
	body := blackfriday.Run(md.Bytes(),
		blackfriday.WithRenderer(renderer),
		blackfriday.WithExtensions(blackfriday.CommonExtensions),
	)

	data := dashboardData{
		Title:      report.DisplayName(),
		Failed:     report.Failed(),
		Score:      report.Health.Value,
		Band:       report.Health.Band.String(),
		BandColor:  template.CSS(report.Health.Band.HexColor()), //nolint:gosec // fixed palette
		ScoreWidth: report.Health.Value,
		Body:       template.HTML(body), //nolint:gosec // raw HTML in the markdown is skipped
	}
	if data.Failed {
		data.Error = report.Failure.Sentinel()
	}
	for i, cw := range wordCloud(report.Items) {
		data.Words = append(data.Words, dashboardWord{
			Word:  cw.Word,
			Count: report.Items[i].Count,
			Size:  fmt.Sprintf("%.2fem", scale(cw.Weight, 0.8, 2.4)),
		})
	}

	var out bytes.Buffer
	if err := dashboard.Execute(&out, data); err != nil {
		return 0, fmt.Errorf("failed to render dashboard: %w", err)
	}
	return w.output.Write(out.Bytes())
}
