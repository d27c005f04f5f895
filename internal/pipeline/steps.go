package pipeline

import (
	"bytes"
	"context"
	"log/slog"

	"github.com/nao1215/bakeryscan/internal/extract"
	"github.com/nao1215/bakeryscan/internal/model"
	"github.com/nao1215/bakeryscan/internal/normalize"
	"github.com/nao1215/bakeryscan/internal/review"
	"github.com/nao1215/bakeryscan/internal/score"
	"github.com/nao1215/bakeryscan/internal/sentiment"
)

// Step names, in the order the default pipelines run them.
const (
	StepFetch       = "fetch"
	StepNormalize   = "normalize"
	StepLoadReviews = "load-reviews"
	StepExtract     = "extract"
	StepCategorize  = "categorize"
	StepSignals     = "signals"
	StepSentiment   = "sentiment"
	StepScore       = "score"
	StepRecommend   = "recommend"
	StepSave        = "save"
)

// defaultEntityLimit caps the brand/entity list.
const defaultEntityLimit = 10

// Fetcher retrieves one web page.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (*model.RawDocument, error)
}

// Recorder persists finished reports.
type Recorder interface {
	Save(ctx context.Context, report *model.AnalysisReport) error
}

// FetchStep downloads the page named by report.Source.
type FetchStep struct {
	fetcher Fetcher
}

// NewFetchStep creates a FetchStep.
func NewFetchStep(fetcher Fetcher) *FetchStep {
	return &FetchStep{fetcher: fetcher}
}

// Name returns the step name.
func (s *FetchStep) Name() string { return StepFetch }

// Do executes the fetch step.
func (s *FetchStep) Do(ctx context.Context, report *model.AnalysisReport) error {
	doc, err := s.fetcher.Fetch(ctx, report.Source)
	if err != nil {
		if f, ok := model.AsFailure(err); ok {
			return f
		}
		return model.NewFailure(model.FailureFetch, err.Error())
	}
	report.Document = doc
	return nil
}

// NormalizeStep turns the fetched markup into plain text.
type NormalizeStep struct {
	normalizer *normalize.Normalizer
}

// NewNormalizeStep creates a NormalizeStep.
func NewNormalizeStep(n *normalize.Normalizer) *NormalizeStep {
	return &NormalizeStep{normalizer: n}
}

// Name returns the step name.
func (s *NormalizeStep) Name() string { return StepNormalize }

// Do executes the normalize step. Non-HTML bodies are taken as plain text.
func (s *NormalizeStep) Do(_ context.Context, report *model.AnalysisReport) error {
	doc := report.Document
	if doc == nil {
		return model.NewFailure(model.FailureParse, "no document to normalize")
	}

	var text *model.NormalizedText
	if doc.IsHTML() {
		t, err := s.normalizer.NormalizeBytes(doc.Raw)
		if err != nil {
			return err
		}
		text = t
	} else {
		text = normalize.FromPlainText("", string(doc.Raw))
	}

	report.Text = text
	report.Title = text.Title
	report.WordCount = text.WordCount()
	if text.IsEmpty() {
		return model.NewFailure(model.FailureEmptyInput, "page has no readable text")
	}
	return nil
}

// LoadReviewsStep reads the review CSV named by report.Source, or the
// uploaded content when data is set.
type LoadReviewsStep struct {
	data []byte
}

// NewLoadReviewsStep creates a LoadReviewsStep. A nil data reads the file.
func NewLoadReviewsStep(data []byte) *LoadReviewsStep {
	return &LoadReviewsStep{data: data}
}

// Name returns the step name.
func (s *LoadReviewsStep) Name() string { return StepLoadReviews }

// Do executes the load step. An empty file is reported but not fatal.
func (s *LoadReviewsStep) Do(_ context.Context, report *model.AnalysisReport) error {
	var (
		reviews *review.Reviews
		err     error
	)
	if s.data != nil {
		reviews, err = review.Load(bytes.NewReader(s.data))
		if reviews != nil {
			reviews.Path = report.Source
		}
	} else {
		reviews, err = review.LoadFile(report.Source)
	}
	if reviews != nil {
		text := reviews.Text()
		report.Text = text
		report.Title = text.Title
		report.Rows = reviews.Rows
		report.Column = reviews.Column
		report.WordCount = text.WordCount()
	}
	return err
}

// ExtractStep runs the configured extraction strategy.
type ExtractStep struct {
	extractor extract.Extractor
}

// NewExtractStep creates an ExtractStep.
func NewExtractStep(e extract.Extractor) *ExtractStep {
	return &ExtractStep{extractor: e}
}

// Name returns the step name.
func (s *ExtractStep) Name() string { return StepExtract }

// Do executes the extract step.
func (s *ExtractStep) Do(ctx context.Context, report *model.AnalysisReport) error {
	in := extract.Input{Text: textOf(report)}
	if report.Document != nil && report.Document.IsHTML() {
		in.Markup = report.Document.Raw
	}

	hits, err := s.extractor.Extract(ctx, in)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return model.NewFailure(model.FailureParse, err.Error())
	}
	report.Items = hits
	report.Strategy = s.extractor.Name()
	return nil
}

// CategorizeStep buckets the extracted items.
type CategorizeStep struct {
	categories []model.Category
}

// NewCategorizeStep creates a CategorizeStep. Nil categories select the
// built-in list.
func NewCategorizeStep(categories []model.Category) *CategorizeStep {
	if categories == nil {
		categories = extract.DefaultCategories()
	}
	return &CategorizeStep{categories: categories}
}

// Name returns the step name.
func (s *CategorizeStep) Name() string { return StepCategorize }

// Do executes the categorize step.
func (s *CategorizeStep) Do(_ context.Context, report *model.AnalysisReport) error {
	report.Categories = extract.Categorize(report.Items, s.categories)
	return nil
}

// SignalsStep collects the secondary text signals: seasonal specials,
// frequent words, named entities and readability.
type SignalsStep struct {
	topWords    int
	entityLimit int
}

// NewSignalsStep creates a SignalsStep keeping topWords frequent words.
func NewSignalsStep(topWords int) *SignalsStep {
	return &SignalsStep{topWords: topWords, entityLimit: defaultEntityLimit}
}

// Name returns the step name.
func (s *SignalsStep) Name() string { return StepSignals }

// Do executes the signals step.
func (s *SignalsStep) Do(_ context.Context, report *model.AnalysisReport) error {
	text := textOf(report)
	report.Specials = extract.SeasonalSpecials(text.Text)
	report.TopWords = extract.TopWords(text.Text, s.topWords)
	entities, err := extract.Entities(text.Display, s.entityLimit)
	if err != nil {
		return model.NewFailure(model.FailureParse, err.Error())
	}
	report.Entities = entities
	report.Readability = extract.Readability(text.Display)
	return nil
}

// SentimentStep scores the text. Review files are scored per row.
type SentimentStep struct {
	scorer *sentiment.Scorer
}

// NewSentimentStep creates a SentimentStep.
func NewSentimentStep(scorer *sentiment.Scorer) *SentimentStep {
	return &SentimentStep{scorer: scorer}
}

// Name returns the step name.
func (s *SentimentStep) Name() string { return StepSentiment }

// Do executes the sentiment step.
func (s *SentimentStep) Do(_ context.Context, report *model.AnalysisReport) error {
	if len(report.Rows) > 0 {
		report.Sentiment = s.scorer.ScoreRows(report.Rows)
		return nil
	}
	report.Sentiment = s.scorer.ScoreDocument(textOf(report))
	return nil
}

// ScoreStep computes the health score.
type ScoreStep struct {
	formula score.Formula
}

// NewScoreStep creates a ScoreStep.
func NewScoreStep(f score.Formula) *ScoreStep {
	return &ScoreStep{formula: f}
}

// Name returns the step name.
func (s *ScoreStep) Name() string { return StepScore }

// Do executes the score step.
func (s *ScoreStep) Do(_ context.Context, report *model.AnalysisReport) error {
	report.Health = s.formula.Health(report.Sentiment, len(report.Items))
	return nil
}

// RecommendStep derives recommendations from the scored report.
type RecommendStep struct{}

// NewRecommendStep creates a RecommendStep.
func NewRecommendStep() *RecommendStep {
	return &RecommendStep{}
}

// Name returns the step name.
func (s *RecommendStep) Name() string { return StepRecommend }

// Do executes the recommend step.
func (s *RecommendStep) Do(_ context.Context, report *model.AnalysisReport) error {
	report.Recommendations = score.Recommend(report.Items, report.Sentiment, report.Health)
	return nil
}

// SaveStep stores the finished report. A storage error is logged and
// does not fail the analysis.
type SaveStep struct {
	recorder Recorder
	logger   *slog.Logger
}

// NewSaveStep creates a SaveStep.
func NewSaveStep(recorder Recorder, logger *slog.Logger) *SaveStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &SaveStep{recorder: recorder, logger: logger}
}

// Name returns the step name.
func (s *SaveStep) Name() string { return StepSave }

// Do executes the save step.
func (s *SaveStep) Do(ctx context.Context, report *model.AnalysisReport) error {
	if err := s.recorder.Save(ctx, report); err != nil {
		s.logger.Warn("failed to save report", "source", report.Source, "error", err)
	}
	return nil
}

func textOf(report *model.AnalysisReport) *model.NormalizedText {
	if report.Text == nil {
		return &model.NormalizedText{}
	}
	return report.Text
}
