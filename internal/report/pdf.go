package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/nao1215/bakeryscan/internal/model"
)

// Page geometry in millimetres.
const (
	pdfMargin     = 15.0
	pdfLineHeight = 6.0
	pdfFont       = "Helvetica"
)

// PDFWriter renders a printable A4 report.
type PDFWriter struct {
	baseWriter
}

// NewPDFWriter creates a PDFWriter that outputs to the given writer.
func NewPDFWriter(output io.Writer) *PDFWriter {
	return &PDFWriter{baseWriter: newBaseWriter(output)}
}

// pdfDoc bundles the document with its text translator.
type pdfDoc struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

// Write outputs the report as a PDF document.
func (w *PDFWriter) Write(report *model.AnalysisReport) (int, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Bakery Health Report: "+report.DisplayName(), true)
	pdf.SetCreator("bakeryscan", true)
	pdf.SetCreationDate(report.AnalyzedAt)
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-pdfMargin + 3)
		pdf.SetFont(pdfFont, "I", 8)
		pdf.SetTextColor(120, 120, 120)
		pdf.CellFormat(0, 5, fmt.Sprintf("bakeryscan  -  page %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	d := &pdfDoc{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
	pdf.AddPage()

	d.header(report)
	if report.Failed() {
		d.failure(report)
	} else {
		d.health(report)
		d.items(report)
		d.categories(report)
		d.sentiment(report)
		d.list("Brands and Names", report.Entities, "No brand names detected.")
		d.specials(report)
		d.recommendations(report)
		d.wordCloud(report)
		if len(report.TopWords) > 0 {
			d.list("Frequent Words", []string{hitList(report.TopWords)}, "")
		}
	}

	if err := pdf.Error(); err != nil {
		return 0, fmt.Errorf("failed to build pdf: %w", err)
	}
	cw := &countingWriter{w: w.output}
	if err := pdf.Output(cw); err != nil {
		return cw.n, fmt.Errorf("failed to write pdf: %w", err)
	}
	return cw.n, nil
}

func (d *pdfDoc) contentWidth() float64 {
	pageW, _ := d.pdf.GetPageSize()
	return pageW - 2*pdfMargin
}

// ensureSpace starts a new page when fewer than h millimetres remain.
func (d *pdfDoc) ensureSpace(h float64) {
	_, pageH := d.pdf.GetPageSize()
	if d.pdf.GetY()+h > pageH-pdfMargin {
		d.pdf.AddPage()
	}
}

func (d *pdfDoc) heading(title string) {
	d.ensureSpace(3 * pdfLineHeight)
	d.pdf.Ln(3)
	d.pdf.SetFont(pdfFont, "B", 13)
	d.pdf.SetTextColor(111, 78, 55)
	d.pdf.CellFormat(0, pdfLineHeight+1, d.tr(title), "B", 1, "L", false, 0, "")
	d.pdf.Ln(1.5)
	d.body()
}

func (d *pdfDoc) body() {
	d.pdf.SetFont(pdfFont, "", 10)
	d.pdf.SetTextColor(31, 35, 40)
}

func (d *pdfDoc) paragraph(text string) {
	d.pdf.MultiCell(0, pdfLineHeight-1, d.tr(text), "", "L", false)
}

func (d *pdfDoc) header(report *model.AnalysisReport) {
	d.pdf.SetFont(pdfFont, "B", 18)
	d.pdf.SetTextColor(111, 78, 55)
	d.pdf.CellFormat(0, 10, d.tr("Bakery Health Report"), "", 1, "L", false, 0, "")

	d.body()
	if report.Title != "" {
		d.pdf.SetFont(pdfFont, "B", 11)
		d.paragraph(report.Title)
		d.body()
	}
	d.paragraph("Source: " + report.Source)
	d.paragraph("Analyzed: " + report.AnalyzedAt.Format(timeLayout))
	if report.Column != "" {
		d.paragraph("Review column: " + report.Column)
	}
	if report.Strategy != "" {
		d.paragraph("Strategy: " + report.Strategy)
	}
	d.pdf.Ln(2)
}

func (d *pdfDoc) failure(report *model.AnalysisReport) {
	d.pdf.SetFillColor(207, 34, 46)
	d.pdf.SetTextColor(255, 255, 255)
	d.pdf.SetFont(pdfFont, "B", 12)
	d.pdf.MultiCell(0, 9, d.tr(report.Failure.Sentinel()), "", "L", true)
	d.body()
}

// health draws the coloured score banner.
func (d *pdfDoc) health(report *model.AnalysisReport) {
	h := report.Health
	r, g, b := h.Band.Color()

	d.ensureSpace(20)
	d.pdf.SetFillColor(r, g, b)
	d.pdf.SetTextColor(255, 255, 255)
	d.pdf.SetFont(pdfFont, "B", 16)
	label := fmt.Sprintf("Health Score: %d / 100 (%s)", h.Value, h.Band)
	d.pdf.CellFormat(0, 12, d.tr(label), "", 1, "C", true, 0, "")

	d.pdf.SetFont(pdfFont, "I", 8)
	d.pdf.SetTextColor(90, 90, 90)
	d.pdf.CellFormat(0, 5, d.tr("formula: "+h.Formula), "", 1, "R", false, 0, "")
	d.body()
}

func (d *pdfDoc) items(report *model.AnalysisReport) {
	d.heading("Detected Items")
	if !report.HasItems() {
		d.paragraph("No items found.")
		return
	}

	nameW, countW := d.contentWidth()*0.6, d.contentWidth()*0.2
	d.pdf.SetFont(pdfFont, "B", 10)
	d.pdf.SetFillColor(240, 230, 220)
	d.pdf.CellFormat(nameW, pdfLineHeight, "Item", "1", 0, "L", true, 0, "")
	d.pdf.CellFormat(countW, pdfLineHeight, "Mentions", "1", 1, "R", true, 0, "")
	d.body()
	for _, item := range report.Items {
		d.pdf.CellFormat(nameW, pdfLineHeight, d.tr(displayName(item.Term)), "1", 0, "L", false, 0, "")
		d.pdf.CellFormat(countW, pdfLineHeight, fmt.Sprintf("%d", item.Count), "1", 1, "R", false, 0, "")
	}
}

func (d *pdfDoc) categories(report *model.AnalysisReport) {
	if len(report.Categories) == 0 {
		return
	}
	d.heading("Categories")
	for _, c := range report.Categories {
		d.paragraph(c.Name + ": " + strings.Join(c.Items, ", "))
	}
}

// sentiment writes the summary line and a horizontal bar chart.
func (d *pdfDoc) sentiment(report *model.AnalysisReport) {
	d.heading("Sentiment and Readability")
	d.paragraph(sentimentSummary(report))
	d.pdf.Ln(2)

	s := report.Sentiment
	bars := []struct {
		label   string
		value   float64
		r, g, b int
	}{
		{"Positive", s.Positive, 46, 160, 67},
		{"Neutral", s.Neutral, 140, 149, 159},
		{"Negative", s.Negative, 207, 34, 46},
	}

	labelW := 25.0
	maxW := d.contentWidth() - labelW - 20
	d.ensureSpace(float64(len(bars)) * (pdfLineHeight + 1))
	for _, entry := range bars {
		y := d.pdf.GetY()
		d.pdf.CellFormat(labelW, pdfLineHeight, entry.label, "", 0, "L", false, 0, "")
		d.pdf.SetFillColor(entry.r, entry.g, entry.b)
		if w := entry.value * maxW; w > 0 {
			d.pdf.Rect(pdfMargin+labelW, y+1, w, pdfLineHeight-2, "F")
		}
		d.pdf.SetX(pdfMargin + labelW + maxW + 2)
		d.pdf.CellFormat(18, pdfLineHeight, percent(entry.value), "", 1, "R", false, 0, "")
	}
}

func (d *pdfDoc) list(title string, values []string, empty string) {
	d.heading(title)
	if len(values) == 0 {
		d.paragraph(empty)
		return
	}
	d.paragraph(strings.Join(values, ", "))
}

func (d *pdfDoc) specials(report *model.AnalysisReport) {
	labels := make([]string, len(report.Specials))
	for i, sp := range report.Specials {
		labels[i] = sp.Label
	}
	d.list("Seasonal Specials", labels, "No seasonal specials detected.")
}

func (d *pdfDoc) recommendations(report *model.AnalysisReport) {
	if len(report.Recommendations) == 0 {
		return
	}
	d.heading("Recommendations")
	for _, rec := range report.Recommendations {
		d.paragraph(rec.Marker() + " " + rec.Text)
	}
}

// wordCloud lays the matched items out left to right with font size by
// count, wrapping at the right margin.
func (d *pdfDoc) wordCloud(report *model.AnalysisReport) {
	cloud := wordCloud(report.Items)
	if len(cloud) == 0 {
		return
	}
	d.heading("Word Cloud")

	right := pdfMargin + d.contentWidth()
	const gap = 3.0
	lineH := 0.0
	for _, cw := range cloud {
		size := scale(cw.Weight, 9, 24)
		d.pdf.SetFont(pdfFont, "B", size)
		shade := int(scale(1-cw.Weight, 60, 180))
		d.pdf.SetTextColor(111, shade/2+20, shade/3)

		word := d.tr(cw.Word)
		width := d.pdf.GetStringWidth(word) + gap
		h := size * 0.45
		if d.pdf.GetX()+width > right {
			d.pdf.Ln(max(lineH, h))
			lineH = 0
		}
		d.ensureSpace(h)
		lineH = max(lineH, h)
		d.pdf.CellFormat(width, h, word, "", 0, "L", false, 0, "")
	}
	d.pdf.Ln(lineH)
	d.body()
}
