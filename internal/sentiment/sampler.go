package sentiment

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/nao1215/bakeryscan/internal/model"
)

// Sampler picks the text that is fed to the analyzer.
type Sampler interface {
	Sample(text *model.NormalizedText) string
	Name() string
}

// FullText scores the whole display text.
type FullText struct{}

// Sample implements Sampler.
func (FullText) Sample(text *model.NormalizedText) string {
	return display(text)
}

// Name implements Sampler.
func (FullText) Name() string { return "full" }

// Head scores the first N characters, cut back to a word boundary.
type Head struct {
	Chars int
}

// Sample implements Sampler.
func (h Head) Sample(text *model.NormalizedText) string {
	s := display(text)
	r := []rune(s)
	if h.Chars <= 0 || len(r) <= h.Chars {
		return s
	}
	cut := h.Chars
	for cut > 0 && !unicode.IsSpace(r[cut]) {
		cut--
	}
	if cut == 0 {
		cut = h.Chars
	}
	return strings.TrimSpace(string(r[:cut]))
}

// Name implements Sampler.
func (h Head) Name() string { return fmt.Sprintf("head(%d)", h.Chars) }

// Blocks scores the first N text blocks, e.g. paragraphs and list items.
type Blocks struct {
	Count int
}

// Sample implements Sampler.
func (b Blocks) Sample(text *model.NormalizedText) string {
	if len(text.Blocks) == 0 {
		return display(text)
	}
	n := b.Count
	if n <= 0 || n > len(text.Blocks) {
		n = len(text.Blocks)
	}
	return strings.Join(text.Blocks[:n], " ")
}

// Name implements Sampler.
func (b Blocks) Name() string { return fmt.Sprintf("blocks(%d)", b.Count) }

// SamplerFor maps a mode name to a Sampler. Unknown names return an error.
func SamplerFor(mode string, size int) (Sampler, error) {
	switch mode {
	case "", "full":
		return FullText{}, nil
	case "head":
		return Head{Chars: size}, nil
	case "blocks", "sentences":
		return Blocks{Count: size}, nil
	default:
		return nil, fmt.Errorf("unknown sample mode %q", mode)
	}
}

func display(text *model.NormalizedText) string {
	if text.Display != "" {
		return text.Display
	}
	return text.Text
}
