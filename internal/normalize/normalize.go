package normalize

import (
	"bytes"
	"io"
	"strings"

	"github.com/nao1215/bakeryscan/internal/model"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// skipped elements never contribute text.
var skipped = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Meta:     true,
	atom.Link:     true,
	atom.Noscript: true,
	atom.Template: true,
	atom.Svg:      true,
	atom.Iframe:   true,
	atom.Title:    true,
}

// chrome elements are skipped only when StripChrome is set.
var chrome = map[atom.Atom]bool{
	atom.Nav:    true,
	atom.Header: true,
	atom.Footer: true,
	atom.Aside:  true,
}

// block elements start a new text block.
var block = map[atom.Atom]bool{
	atom.P: true, atom.Li: true, atom.Div: true, atom.Section: true,
	atom.Article: true, atom.Blockquote: true, atom.Td: true, atom.Th: true,
	atom.Dd: true, atom.Dt: true, atom.Figcaption: true, atom.Br: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Tr: true, atom.Main: true, atom.Form: true, atom.Label: true,
}

// Normalizer extracts visible text from markup.
type Normalizer struct {
	stripChrome bool
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithStripChrome also drops nav, header, footer and aside content.
func WithStripChrome(strip bool) Option {
	return func(n *Normalizer) {
		n.stripChrome = strip
	}
}

// New creates a Normalizer.
func New(opts ...Option) *Normalizer {
	n := &Normalizer{}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Normalize parses r as HTML and returns its visible text.
// Reader errors become a parse-error Failure. Markup with no text
// yields an empty, non-nil result.
func (n *Normalizer) Normalize(r io.Reader) (*model.NormalizedText, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, model.NewFailure(model.FailureParse, err.Error())
	}

	w := &walker{stripChrome: n.stripChrome}
	w.walk(doc)
	w.flush()

	return build(w.blocks, w.title), nil
}

// NormalizeBytes is Normalize over an in-memory document.
func (n *Normalizer) NormalizeBytes(b []byte) (*model.NormalizedText, error) {
	return n.Normalize(bytes.NewReader(b))
}

// FromPlainText normalizes text that has no markup, e.g. review rows.
// Each element of parts becomes one block.
func FromPlainText(title string, parts ...string) *model.NormalizedText {
	blocks := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := collapse(p); s != "" {
			blocks = append(blocks, s)
		}
	}
	return build(blocks, title)
}

func build(blocks []string, title string) *model.NormalizedText {
	display := strings.Join(blocks, " ")
	return &model.NormalizedText{
		Text:    strings.ToLower(display),
		Display: display,
		Blocks:  blocks,
		Title:   title,
	}
}

type walker struct {
	stripChrome bool
	current     strings.Builder
	blocks      []string
	title       string
}

func (w *walker) walk(n *html.Node) {
	switch n.Type {
	case html.ElementNode:
		if n.DataAtom == atom.Title && w.title == "" {
			w.title = collapse(textOf(n))
		}
		if skipped[n.DataAtom] || (w.stripChrome && chrome[n.DataAtom]) {
			return
		}
		if block[n.DataAtom] {
			w.flush()
			defer w.flush()
		}
	case html.TextNode:
		w.current.WriteString(n.Data)
		w.current.WriteByte(' ')
		return
	case html.CommentNode, html.DoctypeNode:
		return
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.walk(c)
	}
}

func (w *walker) flush() {
	if s := collapse(w.current.String()); s != "" {
		w.blocks = append(w.blocks, s)
	}
	w.current.Reset()
}

func textOf(n *html.Node) string {
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}
	}
	return sb.String()
}

// collapse trims s and replaces every whitespace run with one space.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Collapse is the exported form of the whitespace rule used for all text.
func Collapse(s string) string {
	return collapse(s)
}
