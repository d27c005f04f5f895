package extract

import (
	"math"
	"regexp"
	"strings"

	"github.com/nao1215/bakeryscan/internal/model"
)

var wordPattern = regexp.MustCompile(`\b[a-zA-Z]{3,}\b`)

// stopWords is a compact English list plus common shop boilerplate.
var stopWords = map[string]bool{
	"the": true, "and": true, "but": true, "for": true, "with": true, "from": true,
	"this": true, "that": true, "are": true, "was": true, "were": true, "been": true,
	"being": true, "have": true, "has": true, "had": true, "does": true, "did": true,
	"will": true, "would": true, "could": true, "should": true, "may": true, "might": true,
	"can": true, "not": true, "nor": true, "how": true, "what": true, "when": true,
	"where": true, "who": true, "which": true, "why": true, "all": true, "each": true,
	"every": true, "both": true, "few": true, "more": true, "most": true, "other": true,
	"some": true, "such": true, "than": true, "too": true, "very": true, "just": true,
	"about": true, "into": true, "over": true, "after": true, "before": true,
	"between": true, "under": true, "above": true, "out": true, "off": true, "our": true,
	"your": true, "you": true, "they": true, "them": true, "their": true, "its": true,
	"his": true, "her": true, "she": true, "him": true, "any": true, "also": true,
	"there": true, "here": true, "then": true, "these": true, "those": true, "only": true,
	"own": true, "same": true, "again": true, "once": true, "yours": true, "ours": true,
	"click": true, "view": true, "read": true,
}

// TopWords returns the n most frequent non-stopword words of three or more
// letters, lowercased. Ties keep first-appearance order. n <= 0 keeps all.
func TopWords(text string, n int) []model.KeywordHit {
	t := newTally()
	for _, w := range wordPattern.FindAllString(text, -1) {
		w = strings.ToLower(w)
		if stopWords[w] {
			continue
		}
		t.add(w)
	}
	return t.hits(n)
}

// Readability is the average length of whitespace separated words,
// rounded to two decimals. Empty text scores 0.
func Readability(text string) float64 {
	words := strings.Fields(text)
	if len(words) == 0 {
		return 0
	}
	total := 0
	for _, w := range words {
		total += len([]rune(w))
	}
	avg := float64(total) / float64(len(words))
	return math.Round(avg*100) / 100
}
