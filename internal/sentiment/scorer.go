package sentiment

import (
	"strings"

	"github.com/jonreiter/govader"
	"github.com/nao1215/bakeryscan/internal/model"
)

// Analyzer is the lexicon scorer a Scorer delegates to.
type Analyzer interface {
	PolarityScores(text string) govader.Sentiment
}

// NewVADER loads the VADER lexicon.
func NewVADER() *govader.SentimentIntensityAnalyzer {
	return govader.NewSentimentIntensityAnalyzer()
}

// Scorer turns text into a model.SentimentScore.
type Scorer struct {
	analyzer Analyzer
	sampler  Sampler
}

// Option configures a Scorer.
type Option func(*Scorer)

// WithSampler selects which part of a document is scored.
func WithSampler(s Sampler) Option {
	return func(sc *Scorer) {
		if s != nil {
			sc.sampler = s
		}
	}
}

// NewScorer creates a Scorer around analyzer. The default sampler scores
// the full text.
func NewScorer(analyzer Analyzer, opts ...Option) *Scorer {
	s := &Scorer{analyzer: analyzer, sampler: FullText{}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Score returns the VADER proportions for text verbatim. Blank text
// scores all zeros rather than the analyzer's neutral default.
func (s *Scorer) Score(text string) model.SentimentScore {
	if strings.TrimSpace(text) == "" {
		return model.SentimentScore{Label: model.SentimentNeutral}
	}
	v := s.analyzer.PolarityScores(text)
	return model.SentimentScore{
		Positive: v.Positive,
		Neutral:  v.Neutral,
		Negative: v.Negative,
		Compound: v.Compound,
		Label:    model.LabelFor(v.Compound),
		Samples:  1,
	}
}

// ScoreDocument scores the sample the configured Sampler selects.
func (s *Scorer) ScoreDocument(text *model.NormalizedText) model.SentimentScore {
	if text.IsEmpty() {
		return model.SentimentScore{Label: model.SentimentNeutral}
	}
	return s.Score(s.sampler.Sample(text))
}

// ScoreRows scores each row separately and averages the results.
// Blank rows are skipped; with no scored rows the result is all zeros.
func (s *Scorer) ScoreRows(rows []string) model.SentimentScore {
	var sum model.SentimentScore
	n := 0
	for _, row := range rows {
		if strings.TrimSpace(row) == "" {
			continue
		}
		r := s.Score(row)
		sum.Positive += r.Positive
		sum.Neutral += r.Neutral
		sum.Negative += r.Negative
		sum.Compound += r.Compound
		n++
	}
	if n == 0 {
		return model.SentimentScore{Label: model.SentimentNeutral}
	}

	f := float64(n)
	avg := model.SentimentScore{
		Positive: sum.Positive / f,
		Neutral:  sum.Neutral / f,
		Negative: sum.Negative / f,
		Compound: sum.Compound / f,
		Samples:  n,
	}
	avg.Label = model.LabelFor(avg.Compound)
	return avg
}

// SamplerName returns the configured sampler's name.
func (s *Scorer) SamplerName() string {
	return s.sampler.Name()
}
