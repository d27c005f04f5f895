package model

// KeywordHit is one vocabulary term and how often it occurred.
type KeywordHit struct {
	Term  string `json:"term"`
	Count int    `json:"count"`
}

// OtherCategory is the bucket for terms no declared category claims.
const OtherCategory = "Other"

// Category is a named group of keywords used for bucketing.
type Category struct {
	Name     string   `json:"name" yaml:"name"`
	Keywords []string `json:"keywords" yaml:"keywords"`
}

// CategoryBucket holds the extracted items that fell into one category.
type CategoryBucket struct {
	Name  string   `json:"name"`
	Items []string `json:"items"`
}

// SeasonalSpecial is an occasion mentioned in the page text.
type SeasonalSpecial struct {
	// Trigger is the phrase that was found, e.g. "christmas".
	Trigger string `json:"trigger"`

	// Label is the human readable offer name, e.g. "Festive Cakes".
	Label string `json:"label"`
}

// TotalCount sums the counts of all hits.
func TotalCount(hits []KeywordHit) int {
	total := 0
	for _, h := range hits {
		total += h.Count
	}
	return total
}

// Terms returns the terms of hits in order.
func Terms(hits []KeywordHit) []string {
	terms := make([]string, len(hits))
	for i, h := range hits {
		terms[i] = h.Term
	}
	return terms
}
