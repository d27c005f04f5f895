package extract

import (
	"context"
	"strings"

	"github.com/jdkato/prose/v2"
	"github.com/nao1215/bakeryscan/internal/model"
)

// POSExtractor tags the text and counts noun tokens that are in the
// vocabulary. Multi-word vocabulary entries are matched on their last
// word only, so it suits single-word lists best.
type POSExtractor struct {
	opts  options
	vocab map[string]bool
}

// NewPOSExtractor creates the pos-tag strategy.
func NewPOSExtractor(opts ...Option) *POSExtractor {
	o := newOptions(opts)
	vocab := make(map[string]bool, len(o.vocabulary))
	for _, term := range o.vocabulary {
		words := strings.Fields(term)
		vocab[words[len(words)-1]] = true
	}
	return &POSExtractor{opts: o, vocab: vocab}
}

// Name implements Extractor.
func (e *POSExtractor) Name() string {
	return StrategyPOS
}

// Extract implements Extractor. Tagging uses the display text because
// the tagger relies on capitalization and punctuation.
func (e *POSExtractor) Extract(ctx context.Context, in Input) ([]model.KeywordHit, error) {
	t := newTally()
	if in.Text.IsEmpty() {
		return t.hits(e.opts.limit), nil
	}

	text := in.Text.Display
	if text == "" {
		text = in.Text.Text
	}

	doc, err := prose.NewDocument(text,
		prose.WithExtraction(false),
		prose.WithSegmentation(false),
	)
	if err != nil {
		return nil, model.NewFailure(model.FailureParse, err.Error())
	}

	for _, tok := range doc.Tokens() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !strings.HasPrefix(tok.Tag, "NN") {
			continue
		}
		word := strings.ToLower(tok.Text)
		if e.vocab[word] {
			t.add(word)
		}
	}
	return t.hits(e.opts.limit), nil
}
