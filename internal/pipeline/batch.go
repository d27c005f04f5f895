package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/nao1215/bakeryscan/internal/model"
	"golang.org/x/sync/errgroup"
)

// Source is one input to analyze.
type Source struct {
	// Location is a URL for web sources and a file path for reviews.
	Location string
	Kind     model.SourceKind

	// Data holds uploaded review CSV content. When set, the file at
	// Location is not read and Location only names the upload.
	Data []byte
}

// WebSources wraps URLs as web sources.
func WebSources(urls []string) []Source {
	sources := make([]Source, len(urls))
	for i, u := range urls {
		sources[i] = Source{Location: u, Kind: model.SourceWeb}
	}
	return sources
}

// Factory builds a fresh pipeline for one source.
type Factory func(src Source) *Pipeline

// BatchProcessor analyzes several sources concurrently.
type BatchProcessor struct {
	factory     Factory
	concurrency int
	logger      *slog.Logger
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent analyses.
// Default is 4.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a BatchProcessor. factory is called once per
// source so pipeline state never leaks between analyses.
func NewBatchProcessor(factory Factory, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		factory:     factory,
		concurrency: 4,
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}

	return bp
}

// ProcessBatch analyzes sources and returns one report per source in
// input order. Reports for failed sources carry their Failure. The
// returned error is non-nil only when the batch was cancelled; reports
// for sources that never started are then nil.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, sources []Source) ([]*model.AnalysisReport, error) {
	results := make([]*model.AnalysisReport, len(sources))
	err := bp.ProcessBatchWithCallback(ctx, sources, func(report *model.AnalysisReport, index int) {
		results[index] = report
	})
	return results, err
}

// ProcessBatchWithCallback analyzes sources and calls callback with each
// finished report and its index in sources. The callback runs on the
// worker goroutine and must be safe for concurrent use unless it only
// writes to its own index.
func (bp *BatchProcessor) ProcessBatchWithCallback(
	ctx context.Context,
	sources []Source,
	callback func(report *model.AnalysisReport, index int),
) error {
	bp.logger.Info("starting batch",
		"total", len(sources),
		"concurrency", bp.concurrency,
	)
	startTime := time.Now()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, src := range sources {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			report := model.NewAnalysisReport(src.Location, src.Kind)
			if err := bp.factory(src).Execute(ctx, report); err != nil {
				bp.logger.Warn("analysis aborted",
					"source", src.Location,
					"error", err,
				)
			}
			callback(report, i)
			return nil
		})
	}

	err := g.Wait()

	bp.logger.Info("batch complete",
		"total", len(sources),
		"elapsed", time.Since(startTime),
	)
	return err
}
