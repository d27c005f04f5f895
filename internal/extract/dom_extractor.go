package extract

import (
	"bytes"
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/nao1215/bakeryscan/internal/model"
)

// Candidate text length bounds, in characters.
const (
	minCandidateLen = 3
	maxCandidateLen = 150
)

// productSelectors are the heuristic element queries for product names.
var productSelectors = []string{
	`[class*="product"]`,
	`[class*="item"]`,
	`[id*="product"]`,
	"h1", "h2", "h3", "h4",
	"li",
	"figcaption",
}

// productHrefWords mark anchors that probably point at a product page.
var productHrefWords = []string{
	"product", "shop", "menu", "order", "cake", "bread", "cookie", "pastr", "item", "collections",
}

// navigationWords disqualify a candidate.
var navigationWords = newMatcher([]string{
	"home", "contact", "menu", "cart", "login", "log in", "sign in", "sign up", "register",
	"about", "about us", "checkout", "account", "search", "privacy", "terms",
	"faq", "careers", "wishlist",
})

// DOMExtractor collects product-like element texts from the markup and
// counts vocabulary terms over the distinct candidates.
type DOMExtractor struct {
	opts    options
	matcher *matcher
}

// NewDOMExtractor creates the dom-selector strategy.
func NewDOMExtractor(opts ...Option) *DOMExtractor {
	o := newOptions(opts)
	return &DOMExtractor{opts: o, matcher: newMatcher(o.vocabulary)}
}

// Name implements Extractor.
func (e *DOMExtractor) Name() string {
	return StrategyDOM
}

// Extract implements Extractor. Without markup it degrades to the
// vocabulary strategy over the text.
func (e *DOMExtractor) Extract(ctx context.Context, in Input) ([]model.KeywordHit, error) {
	if len(in.Markup) == 0 {
		fallback := &VocabularyExtractor{opts: e.opts, matcher: e.matcher}
		return fallback.Extract(ctx, in)
	}

	candidates, err := e.Candidates(in.Markup)
	if err != nil {
		return nil, model.NewFailure(model.FailureParse, err.Error())
	}

	t := newTally()
	for _, c := range candidates {
		seen := make(map[string]bool)
		for _, term := range e.matcher.find(c) {
			if seen[term] {
				continue
			}
			seen[term] = true
			t.add(term)
		}
	}
	return t.hits(e.opts.limit), nil
}

// Candidates returns distinct lowercase product name candidates in
// document order.
func (e *DOMExtractor) Candidates(markup []byte) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(markup))
	if err != nil {
		return nil, err
	}
	doc.Find("script, style, noscript, template").Remove()

	seen := make(map[string]bool)
	out := make([]string, 0)
	add := func(text string) {
		c := strings.ToLower(strings.Join(strings.Fields(text), " "))
		n := len([]rune(c))
		if n < minCandidateLen || n > maxCandidateLen || seen[c] {
			return
		}
		if !e.matcher.contains(c) || navigationWords.contains(c) {
			return
		}
		seen[c] = true
		out = append(out, c)
	}

	doc.Find(strings.Join(productSelectors, ", ")).Each(func(_ int, s *goquery.Selection) {
		add(s.Text())
	})
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if looksLikeProductHref(href) {
			add(s.Text())
		}
	})
	doc.Find("img[alt]").Each(func(_ int, s *goquery.Selection) {
		alt, _ := s.Attr("alt")
		add(alt)
	})
	return out, nil
}

func looksLikeProductHref(href string) bool {
	h := strings.ToLower(href)
	for _, w := range productHrefWords {
		if strings.Contains(h, w) {
			return true
		}
	}
	return false
}
