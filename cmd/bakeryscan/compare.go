package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/nao1215/markdown"
	"github.com/spf13/cobra"

	"github.com/nao1215/bakeryscan/internal/config"
	"github.com/nao1215/bakeryscan/internal/database"
	"github.com/nao1215/bakeryscan/internal/model"
)

// Health trend directions.
const (
	trendImproved  = "improved"
	trendDeclined  = "declined"
	trendUnchanged = "unchanged"
)

const historyTimeLayout = "2006-01-02 15:04:05"

// NewCompareCmd creates the compare command.
func NewCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare [source]",
		Short: "Compare analysis results with historical data",
		Long: `Compare displays differences between the latest and an earlier analysis
of the same URL or review file:
- The change in health score
- Products that appeared or disappeared
- The change in overall sentiment

Reports are read from the history database that 'bakeryscan analyze'
writes to.

Examples:
  # Compare the latest two analyses of a site
  bakeryscan compare https://sunrise-bakery.example

  # List the analysis history of a site
  bakeryscan compare --list https://sunrise-bakery.example

  # Compare with a specific earlier report
  bakeryscan compare --with-id 6f1c... https://sunrise-bakery.example

  # List every analyzed source
  bakeryscan compare --list-sources`,
		Args: cobra.MaximumNArgs(1),
		RunE: runCompareCmd,
	}

	cmd.Flags().BoolP("list", "l", false,
		"List analysis history for the specified source")
	cmd.Flags().BoolP("list-sources", "L", false,
		"List all analyzed sources in the database")
	cmd.Flags().StringP("with-id", "i", "",
		"Compare with a specific report by ID (use --list to see available IDs)")
	cmd.Flags().BoolP("json", "j", false,
		"Output comparison result in JSON format")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output comparison result in Markdown format")

	return cmd
}

func runCompareCmd(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	listSources, err := flags.GetBool("list-sources")
	if err != nil {
		return err
	}

	// Validate arguments before opening the database.
	var source string
	if !listSources {
		if len(args) == 0 {
			return errors.New("source is required (use --list-sources to see analyzed sources)")
		}
		source = strings.TrimSpace(args[0])
	}

	cfg := config.NewConfig()
	if err := config.ApplyEnv(cfg); err != nil {
		return fmt.Errorf("invalid environment: %w", err)
	}

	db, err := database.Open(cfg.DBDir, database.Options{CreateIfNotExists: false, EnableWAL: true})
	if err != nil {
		return fmt.Errorf("no history yet (run 'bakeryscan analyze' first): %w", err)
	}
	defer db.Close()

	ctx := context.Background()
	out := cmd.OutOrStdout()

	if listSources {
		return listAnalyzedSources(ctx, db, out)
	}

	list, err := flags.GetBool("list")
	if err != nil {
		return err
	}
	if list {
		return listHistory(ctx, db, source, out)
	}

	withID, err := flags.GetString("with-id")
	if err != nil {
		return err
	}
	jsonOutput, err := flags.GetBool("json")
	if err != nil {
		return err
	}
	markdownOutput, err := flags.GetBool("markdown")
	if err != nil {
		return err
	}

	result, err := runComparison(ctx, db, source, withID)
	if err != nil {
		return err
	}

	switch {
	case jsonOutput:
		return outputComparisonJSON(out, result)
	case markdownOutput:
		return outputComparisonMarkdown(out, result)
	default:
		return outputComparisonText(out, result)
	}
}

func listAnalyzedSources(ctx context.Context, db *database.HistoryDB, out io.Writer) error {
	sources, err := db.ListSources(ctx)
	if err != nil {
		return fmt.Errorf("failed to list sources: %w", err)
	}

	if len(sources) == 0 {
		fmt.Fprintln(out, "No analyzed sources found in the database.")
		fmt.Fprintln(out, "\nUse 'bakeryscan analyze <url>' to analyze a site.")
		return nil
	}

	fmt.Fprintf(out, "Analyzed sources (%d):\n\n", len(sources))
	fmt.Fprintf(out, "  %-8s  %-6s  %-7s  %-20s  %s\n", "Kind", "Runs", "Health", "Last analyzed", "Source")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 70))
	for _, s := range sources {
		fmt.Fprintf(out, "  %-8s  %-6d  %-7d  %-20s  %s\n",
			s.Kind, s.Count, s.LastHealth, s.LastAnalyzed.Local().Format(historyTimeLayout), s.Source)
	}
	fmt.Fprintln(out, "\nUse 'bakeryscan compare --list <source>' to see the history of a source.")

	return nil
}

func listHistory(ctx context.Context, db *database.HistoryDB, source string, out io.Writer) error {
	history, err := db.History(ctx, source)
	if err != nil {
		return fmt.Errorf("failed to get history: %w", err)
	}

	if len(history) == 0 {
		fmt.Fprintf(out, "No history found for %s\n", source)
		fmt.Fprintln(out, "\nUse 'bakeryscan analyze' to analyze this source.")
		return nil
	}

	fmt.Fprintf(out, "History for %s (%d analyses):\n\n", source, len(history))
	fmt.Fprintf(out, "  %-36s  %-20s  %s\n", "ID", "Date", "Health")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 72))

	for _, meta := range history {
		health := fmt.Sprintf("%d (%s)", meta.Health, meta.Band)
		if meta.Failure != "" {
			health = meta.Failure
		}
		fmt.Fprintf(out, "  %-36s  %-20s  %s\n",
			meta.ID, meta.AnalyzedAt.Local().Format(historyTimeLayout), health)
	}

	fmt.Fprintln(out, "\nUse 'bakeryscan compare <source>' to compare the latest two analyses.")
	fmt.Fprintln(out, "Use 'bakeryscan compare --with-id <id> <source>' to compare with a specific report.")

	return nil
}

// runComparison loads the latest report for source and compares it with
// the report withID, or with the one before it when withID is empty.
func runComparison(ctx context.Context, db *database.HistoryDB, source, withID string) (*ComparisonResult, error) {
	limit := 2
	if withID != "" {
		limit = 1
	}
	reports, err := db.Latest(ctx, source, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}
	if len(reports) == 0 {
		return nil, fmt.Errorf("no history found for %s", source)
	}

	current := reports[0]
	var previous *model.AnalysisReport

	if withID != "" {
		previous, err = db.GetByID(ctx, withID)
		if errors.Is(err, database.ErrNotFound) {
			return nil, fmt.Errorf("report %s not found", withID)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to get report %s: %w", withID, err)
		}
		if previous.Source != source {
			return nil, fmt.Errorf("report %s belongs to %s, not %s", withID, previous.Source, source)
		}
	} else {
		if len(reports) < 2 {
			return nil, fmt.Errorf("at least 2 analyses are required for comparison (found %d)", len(reports))
		}
		previous = reports[1]
	}

	return compareReports(previous, current), nil
}

// ComparisonResult holds the result of comparing two reports.
type ComparisonResult struct {
	Source   string        `json:"source"`
	Previous ReportSummary `json:"previous"`
	Current  ReportSummary `json:"current"`

	// HealthDelta is current minus previous health.
	HealthDelta int `json:"health_delta"`

	// Trend is "improved", "declined" or "unchanged".
	Trend string `json:"trend"`

	CompoundDelta float64 `json:"compound_delta"`

	NewItems       []string `json:"new_items,omitempty"`
	LostItems      []string `json:"lost_items,omitempty"`
	UnchangedItems int      `json:"unchanged_items"`
}

// ReportSummary describes one side of a comparison.
type ReportSummary struct {
	ID         string    `json:"id"`
	AnalyzedAt time.Time `json:"analyzed_at"`
	Health     int       `json:"health"`
	Band       string    `json:"band"`
	Items      int       `json:"items"`
	Compound   float64   `json:"compound"`
	Failure    string    `json:"failure,omitempty"`
}

func summarize(r *model.AnalysisReport) ReportSummary {
	s := ReportSummary{
		ID:         r.ID,
		AnalyzedAt: r.AnalyzedAt,
		Health:     r.Health.Value,
		Band:       r.Health.Band.String(),
		Items:      len(r.Items),
		Compound:   r.Sentiment.Compound,
	}
	if r.Failure != nil {
		s.Failure = r.Failure.Sentinel()
	}
	return s
}

// compareReports compares two reports of the same source.
func compareReports(previous, current *model.AnalysisReport) *ComparisonResult {
	result := &ComparisonResult{
		Source:        current.Source,
		Previous:      summarize(previous),
		Current:       summarize(current),
		HealthDelta:   current.Health.Value - previous.Health.Value,
		CompoundDelta: current.Sentiment.Compound - previous.Sentiment.Compound,
	}

	previousItems := model.Terms(previous.Items)
	currentItems := model.Terms(current.Items)

	for _, term := range currentItems {
		if !slices.Contains(previousItems, term) {
			result.NewItems = append(result.NewItems, term)
		}
	}
	for _, term := range previousItems {
		if slices.Contains(currentItems, term) {
			result.UnchangedItems++
		} else {
			result.LostItems = append(result.LostItems, term)
		}
	}

	switch {
	case result.HealthDelta > 0:
		result.Trend = trendImproved
	case result.HealthDelta < 0:
		result.Trend = trendDeclined
	default:
		result.Trend = trendUnchanged
	}

	return result
}

func outputComparisonJSON(out io.Writer, result *ComparisonResult) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

func outputComparisonMarkdown(out io.Writer, result *ComparisonResult) error {
	md := markdown.NewMarkdown(out)
	md.H1("Health Comparison: " + result.Source)
	md.PlainText("")
	md.PlainTextf("**Trend:** %s", formatTrend(result.Trend))
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Previous", "Current", "Change"},
		Rows: [][]string{
			{"Date", result.Previous.AnalyzedAt.Format("2006-01-02 15:04"), result.Current.AnalyzedAt.Format("2006-01-02 15:04"), "-"},
			{"Health", strconv.Itoa(result.Previous.Health), strconv.Itoa(result.Current.Health), formatDelta(result.HealthDelta)},
			{"Band", result.Previous.Band, result.Current.Band, "-"},
			{"Items", strconv.Itoa(result.Previous.Items), strconv.Itoa(result.Current.Items), formatDelta(result.Current.Items - result.Previous.Items)},
			{"Compound", fmt.Sprintf("%.3f", result.Previous.Compound), fmt.Sprintf("%.3f", result.Current.Compound), fmt.Sprintf("%+.3f", result.CompoundDelta)},
		},
	})
	md.PlainText("")

	if len(result.NewItems) > 0 {
		md.H2(fmt.Sprintf("New Items (%d)", len(result.NewItems)))
		md.PlainText("")
		md.BulletList(result.NewItems...)
		md.PlainText("")
	}
	if len(result.LostItems) > 0 {
		md.H2(fmt.Sprintf("Lost Items (%d)", len(result.LostItems)))
		md.PlainText("")
		lost := make([]string, len(result.LostItems))
		for i, item := range result.LostItems {
			lost[i] = "~~" + item + "~~"
		}
		md.BulletList(lost...)
		md.PlainText("")
	}
	if result.UnchangedItems > 0 {
		md.HorizontalRule()
		md.PlainText("")
		md.PlainTextf("*%d items unchanged*", result.UnchangedItems)
	}

	return md.Build()
}

func outputComparisonText(out io.Writer, result *ComparisonResult) error {
	fmt.Fprintf(out, "Health Comparison: %s\n", result.Source)
	fmt.Fprintln(out, strings.Repeat("=", 60))

	fmt.Fprintf(out, "\nTrend: %s\n", formatTrend(result.Trend))
	fmt.Fprintf(out, "\nPrevious analysis: %s  (%s)\n", result.Previous.AnalyzedAt.Local().Format(historyTimeLayout), result.Previous.ID)
	fmt.Fprintf(out, "Current analysis:  %s  (%s)\n", result.Current.AnalyzedAt.Local().Format(historyTimeLayout), result.Current.ID)

	fmt.Fprintf(out, "\n  %-10s  %-10s  %-10s  %-10s\n", "Metric", "Previous", "Current", "Change")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 45))
	fmt.Fprintf(out, "  %-10s  %-10d  %-10d  %-10s\n", "Health",
		result.Previous.Health, result.Current.Health, formatDelta(result.HealthDelta))
	fmt.Fprintf(out, "  %-10s  %-10d  %-10d  %-10s\n", "Items",
		result.Previous.Items, result.Current.Items, formatDelta(result.Current.Items-result.Previous.Items))
	fmt.Fprintf(out, "  %-10s  %-10.3f  %-10.3f  %+.3f\n", "Compound",
		result.Previous.Compound, result.Current.Compound, result.CompoundDelta)

	if result.Previous.Failure != "" || result.Current.Failure != "" {
		fmt.Fprintf(out, "\nFailures: previous %q, current %q\n", result.Previous.Failure, result.Current.Failure)
	}

	if len(result.NewItems) > 0 {
		fmt.Fprintf(out, "\nNew Items (%d):\n", len(result.NewItems))
		for _, item := range result.NewItems {
			fmt.Fprintf(out, "  [+] %s\n", item)
		}
	}
	if len(result.LostItems) > 0 {
		fmt.Fprintf(out, "\nLost Items (%d):\n", len(result.LostItems))
		for _, item := range result.LostItems {
			fmt.Fprintf(out, "  [-] %s\n", item)
		}
	}
	if result.UnchangedItems > 0 {
		fmt.Fprintf(out, "\nUnchanged: %d items\n", result.UnchangedItems)
	}

	return nil
}

func formatTrend(trend string) string {
	switch trend {
	case trendImproved:
		return "IMPROVED (health increased)"
	case trendDeclined:
		return "DECLINED (health decreased)"
	default:
		return "UNCHANGED"
	}
}

// formatDelta formats a numeric delta with sign for display.
func formatDelta(delta int) string {
	if delta > 0 {
		return "+" + strconv.Itoa(delta)
	}
	return strconv.Itoa(delta)
}
