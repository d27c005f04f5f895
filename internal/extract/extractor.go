package extract

import (
	"context"
	"fmt"
	"sort"

	"github.com/nao1215/bakeryscan/internal/model"
)

// Strategy names accepted by New.
const (
	StrategyVocabulary = "regex-vocabulary"
	StrategyDOM        = "dom-selector"
	StrategyPOS        = "pos-tag"
)

// Input is what an Extractor reads.
type Input struct {
	// Text is the normalized page or review text.
	Text *model.NormalizedText

	// Markup is the raw HTML, if the source was a web page.
	// Strategies that need it fall back to Text when it is empty.
	Markup []byte
}

// Extractor produces keyword hits ordered by descending count with ties
// in first-discovery order. An empty result is not an error.
type Extractor interface {
	Extract(ctx context.Context, in Input) ([]model.KeywordHit, error)
	Name() string
}

// options are shared by all strategies.
type options struct {
	vocabulary []string
	limit      int
}

// Option configures an extractor.
type Option func(*options)

// WithVocabulary replaces the built-in term list.
func WithVocabulary(terms []string) Option {
	return func(o *options) {
		if len(terms) > 0 {
			o.vocabulary = terms
		}
	}
}

// WithLimit keeps at most n hits. Zero keeps all of them.
func WithLimit(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.limit = n
		}
	}
}

func newOptions(opts []Option) options {
	o := options{vocabulary: defaultVocabulary, limit: 10}
	for _, opt := range opts {
		opt(&o)
	}
	o.vocabulary = normalizeTerms(o.vocabulary)
	return o
}

// New returns the extractor for strategy.
func New(strategy string, opts ...Option) (Extractor, error) {
	switch strategy {
	case StrategyVocabulary, "":
		return NewVocabularyExtractor(opts...), nil
	case StrategyDOM:
		return NewDOMExtractor(opts...), nil
	case StrategyPOS:
		return NewPOSExtractor(opts...), nil
	default:
		return nil, fmt.Errorf("unknown extraction strategy %q", strategy)
	}
}

// tally counts terms and remembers when each was first seen.
type tally struct {
	counts map[string]int
	order  []string
}

func newTally() *tally {
	return &tally{counts: make(map[string]int)}
}

func (t *tally) add(term string) {
	if _, ok := t.counts[term]; !ok {
		t.order = append(t.order, term)
	}
	t.counts[term]++
}

// hits returns the tally sorted by count, ties kept in discovery order.
func (t *tally) hits(limit int) []model.KeywordHit {
	out := make([]model.KeywordHit, 0, len(t.order))
	for _, term := range t.order {
		out = append(out, model.KeywordHit{Term: term, Count: t.counts[term]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
