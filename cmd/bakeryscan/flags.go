package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nao1215/bakeryscan/internal/config"
	"github.com/nao1215/bakeryscan/internal/database"
	"github.com/nao1215/bakeryscan/internal/log"
	"github.com/nao1215/bakeryscan/internal/pipeline"
)

// addAnalysisFlags registers the flags shared by analyze, serve and watch.
func addAnalysisFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("strategy", "s", config.StrategyVocabulary,
		"Product extraction strategy: "+strings.Join(config.Strategies(), ", "))
	cmd.Flags().StringP("formula", "f", config.FormulaPositive30,
		"Health score formula: "+strings.Join(config.Formulas(), ", "))
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each page fetch")
	cmd.Flags().StringP("user-agent", "u", config.DefaultUserAgent,
		"User-Agent header sent with requests")
	cmd.Flags().StringP("proxy", "x", "",
		"SOCKS5 proxy address (e.g., 127.0.0.1:1080)")
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of concurrent analyses")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .bakeryscan in current or home directory)")
	cmd.Flags().Bool("strip-chrome", false,
		"Ignore navigation, header and footer text")
	cmd.Flags().String("sample", config.SampleFull,
		"Sentiment sample mode: "+strings.Join(config.SampleModes(), ", "))
	cmd.Flags().Int("sample-size", config.DefaultSampleSize,
		"Characters (head) or sentences (blocks) fed to sentiment scoring")
	cmd.Flags().IntP("limit", "n", config.DefaultItemLimit,
		"Maximum number of detected items to report (0 for all)")
	cmd.Flags().Bool("no-save", false,
		"Do not store reports in the history database")
}

// changed reports whether the named flag exists and was set by the user.
func changed(cmd *cobra.Command, name string) bool {
	f := cmd.Flags().Lookup(name)
	return f != nil && f.Changed
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from defaults, the config file, the
// environment and finally the flags the user set, in that order.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Targets = args
	cfg.Verbose = getVerboseFlag(cmd)

	if cmd.Flags().Lookup("config") != nil {
		path, err := cmd.Flags().GetString("config")
		if err != nil {
			return nil, err
		}
		cfg.ConfigFilePath = path
	}
	if err := loadConfigFile(cfg); err != nil {
		return nil, err
	}

	if err := config.LoadDotEnv(""); err != nil {
		return nil, err
	}
	if err := config.ApplyEnv(cfg); err != nil {
		return nil, fmt.Errorf("invalid environment: %w", err)
	}

	if err := applyFlags(cmd, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadConfigFile loads the YAML file. An explicit path that does not exist
// is an error; a missing default file is not.
func loadConfigFile(cfg *config.Config) error {
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	if configPath == "" {
		if cfg.ConfigFilePath != "" {
			return fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
		}
		return nil
	}

	file, err := config.LoadConfigFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config file %s: %w", configPath, err)
	}
	cfg.SiteConfigs = file
	if file.Formula.Preset != "" {
		cfg.Formula = file.Formula.Preset
	}
	if file.Watch.Schedule != "" {
		cfg.WatchSchedule = file.Watch.Schedule
	}
	return nil
}

func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	var err error

	if changed(cmd, "strategy") {
		if cfg.Strategy, err = flags.GetString("strategy"); err != nil {
			return err
		}
	}
	if changed(cmd, "formula") {
		if cfg.Formula, err = flags.GetString("formula"); err != nil {
			return err
		}
	}
	if changed(cmd, "timeout") {
		if cfg.Timeout, err = flags.GetDuration("timeout"); err != nil {
			return err
		}
	}
	if changed(cmd, "user-agent") {
		if cfg.UserAgent, err = flags.GetString("user-agent"); err != nil {
			return err
		}
	}
	if changed(cmd, "proxy") {
		if cfg.ProxyAddress, err = flags.GetString("proxy"); err != nil {
			return err
		}
	}
	if changed(cmd, "batch") {
		if cfg.BatchSize, err = flags.GetInt("batch"); err != nil {
			return err
		}
	}
	if changed(cmd, "strip-chrome") {
		if cfg.StripChrome, err = flags.GetBool("strip-chrome"); err != nil {
			return err
		}
	}
	if changed(cmd, "sample") {
		if cfg.SampleMode, err = flags.GetString("sample"); err != nil {
			return err
		}
	}
	if changed(cmd, "sample-size") {
		if cfg.SampleSize, err = flags.GetInt("sample-size"); err != nil {
			return err
		}
	}
	if changed(cmd, "limit") {
		if cfg.ItemLimit, err = flags.GetInt("limit"); err != nil {
			return err
		}
	}
	if changed(cmd, "no-save") {
		noSave, err := flags.GetBool("no-save")
		if err != nil {
			return err
		}
		cfg.SaveToDB = !noSave
	}
	return nil
}

// setupLogger creates the stderr logger. NO_COLOR disables colors.
func setupLogger(verbose bool) *slog.Logger {
	return log.New(os.Stderr, log.Options{
		Verbose: verbose,
		NoColor: os.Getenv("NO_COLOR") != "",
	})
}

// openHistory opens the history database when saving is enabled. A
// database that cannot be opened only disables saving.
func openHistory(cfg *config.Config, logger *slog.Logger) *database.HistoryDB {
	if !cfg.SaveToDB {
		return nil
	}
	db, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		logger.Warn("history disabled", "dir", cfg.DBDir, "error", err)
		return nil
	}
	logger.Debug("database opened", "path", db.Path())
	return db
}

// newAnalyzer builds the shared analyzer, recording to db when it is set.
func newAnalyzer(cfg *config.Config, db *database.HistoryDB, logger *slog.Logger) (*pipeline.Analyzer, error) {
	opts := []pipeline.AnalyzerOption{pipeline.WithAnalyzerLogger(logger)}
	if db != nil {
		opts = append(opts, pipeline.WithRecorder(db))
	}
	return pipeline.NewAnalyzer(cfg, opts...)
}

// openOutput opens path for writing, creating parent directories.
// An empty path means stdout, which is never closed.
func openOutput(path string, stdout io.Writer) (io.Writer, func() error, error) {
	if path == "" {
		return stdout, func() error { return nil }, nil
	}

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	// Reports can contain cookies from the config file in error details.
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600) //nolint:gosec // User-provided output path is intentional
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, f.Close, nil
}

// withSignals returns a context cancelled on SIGINT or SIGTERM.
func withSignals() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
