package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/bakeryscan/internal/config"
	"github.com/nao1215/bakeryscan/internal/model"
	"github.com/nao1215/bakeryscan/internal/pipeline"
	"github.com/nao1215/bakeryscan/internal/report"
)

// NewAnalyzeCmd creates the analyze command.
func NewAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [url...]",
		Short: "Analyze bakery websites or a customer review file",
		Long: `Analyze fetches each URL (or reads a CSV review file) and reports:
- Bakery products mentioned on the page, grouped into categories
- Sentiment of the text (VADER) and readability
- Brands, names and seasonal specials
- A 0-100 health score with recommendations

Examples:
  # Analyze a single site
  bakeryscan analyze https://sunrise-bakery.example

  # Analyze several sites concurrently
  bakeryscan analyze -b 8 https://a.example https://b.example

  # Analyze customer reviews
  bakeryscan analyze --csv reviews.csv

  # Use the DOM strategy and the variety formula
  bakeryscan analyze -s dom-selector -f variety https://sunrise-bakery.example

  # Write a Markdown report and a PDF
  bakeryscan analyze -m -o report.md --pdf report.pdf https://sunrise-bakery.example

Configuration file (.bakeryscan) example:
  sites:
    sunrise-bakery.example:
      cookie: "session=abc123"
      strategy: dom-selector
  formula:
    preset: variety`,
		Args: cobra.ArbitraryArgs,
		RunE: runAnalyzeCmd,
	}

	addAnalysisFlags(cmd)

	cmd.Flags().String("csv", "",
		"CSV file of customer reviews to analyze")

	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown and --html)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json and --html)")
	cmd.Flags().Bool("html", false,
		"Output HTML dashboard (mutually exclusive with --json and --markdown)")
	cmd.Flags().String("pdf", "",
		"Also write a PDF report to this file")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")
	cmd.Flags().Bool("color", false,
		"Color the health banner of the text report")

	return cmd
}

func runAnalyzeCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}
	if err := applyReportFlags(cmd, cfg); err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	if err := cfg.RequireSource(); err != nil {
		return err
	}

	color, err := cmd.Flags().GetBool("color")
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Verbose)
	slog.SetDefault(logger)

	ctx, cancel := withSignals()
	defer cancel()

	return runAnalyze(ctx, cfg, logger, cmd.OutOrStdout(), cmd.ErrOrStderr(), color)
}

func applyReportFlags(cmd *cobra.Command, cfg *config.Config) error {
	var err error
	flags := cmd.Flags()

	if cfg.CSVPath, err = flags.GetString("csv"); err != nil {
		return err
	}
	if cfg.JSONReport, err = flags.GetBool("json"); err != nil {
		return err
	}
	if cfg.MarkdownReport, err = flags.GetBool("markdown"); err != nil {
		return err
	}
	if cfg.HTMLReport, err = flags.GetBool("html"); err != nil {
		return err
	}
	if cfg.PDFFile, err = flags.GetString("pdf"); err != nil {
		return err
	}
	if cfg.ReportFile, err = flags.GetString("output"); err != nil {
		return err
	}
	return nil
}

// sourcesFor returns the URLs followed by the review file, if any.
func sourcesFor(cfg *config.Config) []pipeline.Source {
	sources := pipeline.WebSources(cfg.Targets)
	if cfg.CSVPath != "" {
		sources = append(sources, pipeline.Source{Location: cfg.CSVPath, Kind: model.SourceReviews})
	}
	return sources
}

// runAnalyze analyzes every source and writes the reports. Failed
// analyses are reported, not returned: only cancellation is an error.
func runAnalyze(ctx context.Context, cfg *config.Config, logger *slog.Logger, stdout, stderr io.Writer, color bool) error {
	db := openHistory(cfg, logger)
	if db != nil {
		defer db.Close()
	}

	analyzer, err := newAnalyzer(cfg, db, logger)
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	sources := sourcesFor(cfg)
	logger.Info("starting analysis",
		"sources", len(sources),
		"strategy", cfg.Strategy,
		"formula", analyzer.Formula().Name,
		"saveToDB", db != nil,
	)

	startTime := time.Now()
	var reports []*model.AnalysisReport
	if len(sources) == 1 {
		fmt.Fprintf(stderr, "Analyzing %s...\n", sources[0].Location)
		r, aerr := analyzer.Analyze(ctx, sources[0])
		reports, err = []*model.AnalysisReport{r}, aerr
	} else {
		fmt.Fprintf(stderr, "Analyzing %d sources (concurrency: %d)...\n", len(sources), cfg.BatchSize)
		reports, err = analyzer.AnalyzeBatch(ctx, sources)
	}
	fmt.Fprintf(stderr, "Analysis completed in %s\n\n", time.Since(startTime).Round(time.Millisecond))

	if werr := writeReports(cfg, reports, stdout, color); werr != nil {
		return werr
	}
	if err != nil {
		return fmt.Errorf("analysis interrupted: %w", err)
	}
	return nil
}

// textFormat returns the report format selected by the output flags.
func textFormat(cfg *config.Config) string {
	switch {
	case cfg.JSONReport:
		return report.FormatJSON
	case cfg.MarkdownReport:
		return report.FormatMarkdown
	case cfg.HTMLReport:
		return report.FormatHTML
	default:
		return report.FormatText
	}
}

// writeReports renders reports to the output file or stdout, and to PDF
// files when requested. Reports that never started are skipped.
func writeReports(cfg *config.Config, reports []*model.AnalysisReport, stdout io.Writer, color bool) error {
	output, closeOutput, err := openOutput(cfg.ReportFile, stdout)
	if err != nil {
		return err
	}
	defer closeOutput() //nolint:errcheck // Write errors are reported below

	var w report.Writer
	format := textFormat(cfg)
	if format == report.FormatText {
		w = report.NewSimpleWriter(output,
			report.WithColor(color && cfg.ReportFile == ""),
			report.WithVerbose(cfg.Verbose),
		)
	} else {
		w, err = report.ForFormat(format, output, getVersion())
		if err != nil {
			return err
		}
	}

	written := 0
	for _, r := range reports {
		if r == nil {
			continue
		}
		if _, err := w.Write(r); err != nil {
			return fmt.Errorf("failed to write report for %s: %w", r.Source, err)
		}
		if cfg.PDFFile != "" {
			path := pdfPath(cfg.PDFFile, written, len(reports))
			if err := writePDF(path, r); err != nil {
				return err
			}
		}
		written++
	}
	return nil
}

// pdfPath numbers PDF files when a batch produces more than one report:
// report.pdf, report-2.pdf, report-3.pdf.
func pdfPath(path string, index, total int) string {
	if total <= 1 || index == 0 {
		return path
	}
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "-" + strconv.Itoa(index+1) + ext
}

func writePDF(path string, r *model.AnalysisReport) error {
	output, closeOutput, err := openOutput(path, os.Stdout)
	if err != nil {
		return err
	}
	if _, err := report.NewPDFWriter(output).Write(r); err != nil {
		_ = closeOutput() //nolint:errcheck // Best effort cleanup
		return fmt.Errorf("failed to write PDF report: %w", err)
	}
	return closeOutput()
}
