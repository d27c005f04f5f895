package extract

import (
	"strings"

	"github.com/jdkato/prose/v2"
)

// commonPhrases are capitalized runs that are site chrome, not names.
var commonPhrases = map[string]bool{
	"add to cart": true, "read more": true, "sign in": true, "log in": true,
	"privacy policy": true, "terms of service": true, "contact us": true,
	"about us": true, "all rights reserved": true, "shop now": true,
	"order now": true, "view all": true, "learn more": true,
}

// Entities returns brand and place names found in display text. Named
// entities from the prose extractor come first, followed by runs of two
// or more proper nouns ("Sweet Crumbs Bakery", "House of Bread") that the
// extractor missed. At most n are returned; n <= 0 returns all.
func Entities(display string, n int) ([]string, error) {
	if strings.TrimSpace(display) == "" {
		return []string{}, nil
	}
	doc, err := prose.NewDocument(display, prose.WithExtraction(true))
	if err != nil {
		return nil, err
	}

	var candidates []string
	for _, ent := range doc.Entities() {
		candidates = append(candidates, ent.Text)
	}
	candidates = append(candidates, properNounRuns(doc.Tokens())...)
	return distinctNames(candidates, n), nil
}

// properNounRuns joins consecutive NNP/NNPS tokens. "of" and "&" may link
// two proper nouns inside one run.
func properNounRuns(tokens []prose.Token) []string {
	var (
		runs    []string
		current []string
		link    string
	)
	flush := func() {
		if len(current) >= 2 {
			runs = append(runs, strings.Join(current, " "))
		}
		current, link = nil, ""
	}
	for _, tok := range tokens {
		switch {
		case tok.Tag == "NNP" || tok.Tag == "NNPS":
			if link != "" {
				current = append(current, link)
				link = ""
			}
			current = append(current, tok.Text)
		case len(current) > 0 && link == "" && (tok.Text == "of" || tok.Text == "&"):
			link = tok.Text
		default:
			flush()
		}
	}
	flush()
	return runs
}

// distinctNames drops site chrome and case-insensitive duplicates, keeping
// the first spelling, and applies the limit.
func distinctNames(candidates []string, n int) []string {
	seen := make(map[string]bool)
	out := make([]string, 0)
	for _, c := range candidates {
		name := strings.Join(strings.Fields(c), " ")
		key := strings.ToLower(name)
		if name == "" || seen[key] || commonPhrases[key] {
			continue
		}
		seen[key] = true
		out = append(out, name)
		if n > 0 && len(out) == n {
			break
		}
	}
	return out
}
