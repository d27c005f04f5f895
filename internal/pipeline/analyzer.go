package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nao1215/bakeryscan/internal/config"
	"github.com/nao1215/bakeryscan/internal/extract"
	"github.com/nao1215/bakeryscan/internal/fetch"
	"github.com/nao1215/bakeryscan/internal/model"
	"github.com/nao1215/bakeryscan/internal/normalize"
	"github.com/nao1215/bakeryscan/internal/score"
	"github.com/nao1215/bakeryscan/internal/sentiment"
)

// Analyzer builds pipelines from a Config. It owns the state shared by
// all analyses: the HTTP client, the sentiment scorer and the formula.
// It is safe for concurrent use.
type Analyzer struct {
	cfg        *config.Config
	client     *fetch.Client
	scorer     *sentiment.Scorer
	formula    score.Formula
	vocabulary []string
	categories []model.Category
	recorder   Recorder
	logger     *slog.Logger
}

// AnalyzerOption configures an Analyzer.
type AnalyzerOption func(*Analyzer)

// WithAnalyzerLogger sets the logger passed to every pipeline.
func WithAnalyzerLogger(logger *slog.Logger) AnalyzerOption {
	return func(a *Analyzer) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithRecorder appends a save step to every pipeline.
func WithRecorder(r Recorder) AnalyzerOption {
	return func(a *Analyzer) {
		a.recorder = r
	}
}

// WithSentimentAnalyzer replaces the VADER analyzer.
func WithSentimentAnalyzer(an sentiment.Analyzer) AnalyzerOption {
	return func(a *Analyzer) {
		a.scorer = sentiment.NewScorer(an, sentiment.WithSampler(a.sampler()))
	}
}

// NewAnalyzer validates cfg and prepares the shared components.
func NewAnalyzer(cfg *config.Config, opts ...AnalyzerOption) (*Analyzer, error) {
	if _, err := extract.New(cfg.Strategy); err != nil {
		return nil, err
	}
	if _, err := sentiment.SamplerFor(cfg.SampleMode, cfg.SampleSize); err != nil {
		return nil, err
	}

	client, err := fetch.NewClient(cfg.UserAgent,
		fetch.WithTimeout(cfg.Timeout),
		fetch.WithProxy(cfg.ProxyAddress),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}

	formula, err := score.Preset(cfg.Formula)
	if err != nil {
		return nil, err
	}

	a := &Analyzer{
		cfg:     cfg,
		client:  client,
		formula: formula,
		logger:  slog.Default(),
	}

	if file := cfg.SiteConfigs; file != nil {
		a.formula = a.formula.With(score.Overrides{
			Offset:         file.Formula.Offset,
			PositiveWeight: file.Formula.PositiveWeight,
			NegativeWeight: file.Formula.NegativeWeight,
			PerTermBonus:   file.Formula.PerTermBonus,
			TermBonusCap:   file.Formula.TermBonusCap,
		})
		a.vocabulary = file.Vocabulary
		for _, c := range file.Categories {
			a.categories = append(a.categories, model.Category{Name: c.Name, Keywords: c.Keywords})
		}
	}

	for _, opt := range opts {
		opt(a)
	}
	if a.scorer == nil {
		a.scorer = sentiment.NewScorer(sentiment.NewVADER(), sentiment.WithSampler(a.sampler()))
	}

	return a, nil
}

func (a *Analyzer) sampler() sentiment.Sampler {
	s, err := sentiment.SamplerFor(a.cfg.SampleMode, a.cfg.SampleSize)
	if err != nil {
		return sentiment.FullText{}
	}
	return s
}

// Formula returns the health formula in use.
func (a *Analyzer) Formula() score.Formula {
	return a.formula
}

// Pipeline builds the pipeline for src, applying per-site settings from
// the configuration file.
func (a *Analyzer) Pipeline(src Source) *Pipeline {
	site := config.SiteConfig{}
	if a.cfg.SiteConfigs != nil && src.Kind == model.SourceWeb {
		site = a.cfg.SiteConfigs.GetSiteConfig(src.Location)
	}

	strategy := a.cfg.Strategy
	if site.Strategy != "" {
		strategy = site.Strategy
	}
	extractor, err := extract.New(strategy,
		extract.WithVocabulary(a.vocabulary),
		extract.WithLimit(a.cfg.ItemLimit),
	)
	if err != nil {
		a.logger.Warn("unknown site strategy, using default",
			"source", src.Location,
			"strategy", strategy,
		)
		extractor, _ = extract.New(a.cfg.Strategy, //nolint:errcheck // validated in NewAnalyzer
			extract.WithVocabulary(a.vocabulary),
			extract.WithLimit(a.cfg.ItemLimit),
		)
	}

	p := New(WithLogger(a.logger))

	switch src.Kind {
	case model.SourceReviews:
		p.AddStep(NewLoadReviewsStep(src.Data))
	default:
		httpClient := a.client.HTTPClientWithConfig(fetch.RequestOptions{
			UserAgent: site.UserAgent,
			Cookie:    site.Cookie,
			Headers:   site.Headers,
		})
		fetcher := fetch.NewFetcher(httpClient,
			fetch.WithMaxBodySize(a.cfg.EffectiveMaxBodySize()),
			fetch.WithLogger(a.logger),
		)
		p.AddSteps(
			NewFetchStep(fetcher),
			NewNormalizeStep(normalize.New(normalize.WithStripChrome(a.cfg.StripChrome || site.StripChrome))),
		)
	}

	p.AddSteps(
		NewExtractStep(extractor),
		NewCategorizeStep(a.categories),
		NewSignalsStep(a.cfg.TopWords),
		NewSentimentStep(a.scorer),
		NewScoreStep(a.formula),
		NewRecommendStep(),
	)
	if a.recorder != nil {
		p.AddStep(NewSaveStep(a.recorder, a.logger))
	}
	return p
}

// Analyze runs one source to completion.
func (a *Analyzer) Analyze(ctx context.Context, src Source) (*model.AnalysisReport, error) {
	report := model.NewAnalysisReport(src.Location, src.Kind)
	err := a.Pipeline(src).Execute(ctx, report)
	return report, err
}

// AnalyzeBatch runs sources concurrently with the configured batch size.
func (a *Analyzer) AnalyzeBatch(ctx context.Context, sources []Source) ([]*model.AnalysisReport, error) {
	bp := NewBatchProcessor(a.Pipeline,
		WithConcurrency(a.cfg.BatchSize),
		WithBatchLogger(a.logger),
	)
	return bp.ProcessBatch(ctx, sources)
}
