// Package report renders analysis reports.
//
// Writers for the supported formats:
//   - SimpleWriter: coloured-band text for terminals
//   - JSONWriter: structured JSON for tools
//   - MarkdownWriter: GitHub flavoured Markdown with a mermaid pie chart
//   - HTMLWriter: a standalone dashboard page
//   - PDFWriter: a printable multi-page document
//
// Writers only read the report; they never change it.
package report
