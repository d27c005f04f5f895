package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for bakeryscan.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bakeryscan",
		Short: "Product and sentiment analyzer for bakery websites",
		Long: `bakeryscan analyzes a bakery website or a CSV file of customer reviews.

It detects bakery products, groups them into categories, scores the
sentiment of the text and combines both into a 0-100 health score with
actionable recommendations. Reports are available as text, JSON,
Markdown, HTML and PDF, and every analysis is kept in a local history
database for later comparison.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(NewAnalyzeCmd())
	cmd.AddCommand(NewCompareCmd())
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewWatchCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
