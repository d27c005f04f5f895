package extract

import (
	"context"

	"github.com/nao1215/bakeryscan/internal/model"
)

// VocabularyExtractor counts whole-word vocabulary matches in the
// normalized text.
type VocabularyExtractor struct {
	opts    options
	matcher *matcher
}

// NewVocabularyExtractor creates the regex-vocabulary strategy.
func NewVocabularyExtractor(opts ...Option) *VocabularyExtractor {
	o := newOptions(opts)
	return &VocabularyExtractor{opts: o, matcher: newMatcher(o.vocabulary)}
}

// Name implements Extractor.
func (e *VocabularyExtractor) Name() string {
	return StrategyVocabulary
}

// Extract implements Extractor.
func (e *VocabularyExtractor) Extract(_ context.Context, in Input) ([]model.KeywordHit, error) {
	t := newTally()
	if in.Text != nil {
		for _, term := range e.matcher.find(in.Text.Text) {
			t.add(term)
		}
	}
	return t.hits(e.opts.limit), nil
}

// Count is a convenience wrapper that runs the default strategy over
// already normalized text with the given vocabulary and no limit.
func Count(text string, vocabulary []string) []model.KeywordHit {
	e := NewVocabularyExtractor(WithVocabulary(vocabulary), WithLimit(0))
	hits, _ := e.Extract(context.Background(), Input{Text: &model.NormalizedText{Text: text}}) //nolint:errcheck // never fails
	return hits
}
