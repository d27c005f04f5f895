package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/nao1215/bakeryscan/internal/model"
	"github.com/nao1215/bakeryscan/internal/pipeline"
)

// NewWatchCmd creates the watch command.
func NewWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [url...]",
		Short: "Re-analyze sites on a schedule and keep their history",
		Long: `Watch re-analyzes sites on a cron schedule and saves every report to the
history database, so 'bakeryscan compare' can show how a site changes.

Sites come from the arguments or, when none are given, from the watch
section of the configuration file.

Schedules use cron syntax ("0 6 * * *") or descriptors such as "@daily",
"@hourly" and "@every 30m".

Examples:
  # Re-analyze two sites every morning at 6
  bakeryscan watch --every "0 6 * * *" https://a.example https://b.example

  # Use the watch list of the configuration file and run once right away
  bakeryscan watch --now`,
		Args: cobra.ArbitraryArgs,
		RunE: runWatchCmd,
	}

	addAnalysisFlags(cmd)
	cmd.Flags().StringP("every", "e", "",
		`Cron schedule (default: watch.schedule from the config file or "@daily")`)
	cmd.Flags().Bool("now", false,
		"Run once immediately before waiting for the schedule")

	return cmd
}

func runWatchCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}
	if changed(cmd, "every") {
		if cfg.WatchSchedule, err = cmd.Flags().GetString("every"); err != nil {
			return err
		}
	}
	if len(cfg.Targets) == 0 && cfg.SiteConfigs != nil {
		cfg.Targets = cfg.SiteConfigs.Watch.Targets
	}
	if len(cfg.Targets) == 0 {
		return errors.New("no sites to watch: pass URLs or list them under watch.targets in the config file")
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	runNow, err := cmd.Flags().GetBool("now")
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Verbose)
	slog.SetDefault(logger)

	db := openHistory(cfg, logger)
	if db != nil {
		defer db.Close()
	} else {
		logger.Warn("reports will not be saved")
	}
	analyzer, err := newAnalyzer(cfg, db, logger)
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	ctx, cancel := withSignals()
	defer cancel()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Watching %d sites (%s)\n", len(cfg.Targets), cfg.WatchSchedule)

	job := newWatchJob(ctx, analyzer, pipeline.WebSources(cfg.Targets), out)
	return runWatch(ctx, cfg.WatchSchedule, job, runNow, logger)
}

// batchAnalyzer runs a batch of sources. *pipeline.Analyzer implements it.
type batchAnalyzer interface {
	AnalyzeBatch(ctx context.Context, sources []pipeline.Source) ([]*model.AnalysisReport, error)
}

// newWatchJob returns the function run on each tick. It prints one line
// per analyzed source.
func newWatchJob(ctx context.Context, analyzer batchAnalyzer, sources []pipeline.Source, out io.Writer) func() {
	var mu sync.Mutex
	return func() {
		reports, err := analyzer.AnalyzeBatch(ctx, sources)

		mu.Lock()
		defer mu.Unlock()
		stamp := time.Now().Format(historyTimeLayout)
		for _, r := range reports {
			if r == nil {
				continue
			}
			if r.Failed() {
				fmt.Fprintf(out, "%s  %-40s  %s\n", stamp, r.Source, r.Failure.Sentinel())
				continue
			}
			fmt.Fprintf(out, "%s  %-40s  health %3d (%s)  items %d\n",
				stamp, r.Source, r.Health.Value, r.Health.Band, len(r.Items))
		}
		if err != nil {
			fmt.Fprintf(out, "%s  run interrupted: %v\n", stamp, err)
		}
	}
}

// runWatch schedules job until ctx is cancelled. Runs never overlap;
// a tick that arrives while the previous run is busy is skipped.
func runWatch(ctx context.Context, schedule string, job func(), runNow bool, logger *slog.Logger) error {
	cl := cronLogger{logger: logger}
	c := cron.New(
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)

	id, err := c.AddFunc(schedule, job)
	if err != nil {
		return fmt.Errorf("invalid schedule %q: %w", schedule, err)
	}

	if runNow {
		c.Entry(id).WrappedJob.Run()
	}

	c.Start()
	logger.Info("watch scheduled", "schedule", schedule, "next", c.Entry(id).Next)

	<-ctx.Done()
	<-c.Stop().Done()
	return nil
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
