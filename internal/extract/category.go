package extract

import (
	"strings"

	"github.com/nao1215/bakeryscan/internal/model"
)

// Categorize assigns each hit to the first category whose keyword list
// contains the term. Terms no category claims go to model.OtherCategory.
// Buckets are returned in category order with Other last; empty buckets
// are omitted. Items keep the order of hits.
func Categorize(hits []model.KeywordHit, categories []model.Category) []model.CategoryBucket {
	index := make(map[string]int)
	for i := len(categories) - 1; i >= 0; i-- {
		for _, kw := range categories[i].Keywords {
			index[strings.ToLower(strings.TrimSpace(kw))] = i
		}
	}

	items := make([][]string, len(categories)+1)
	seen := make(map[string]bool, len(hits))
	for _, h := range hits {
		term := strings.ToLower(h.Term)
		if seen[term] {
			continue
		}
		seen[term] = true

		i, ok := index[term]
		if !ok {
			i = len(categories)
		}
		items[i] = append(items[i], h.Term)
	}

	buckets := make([]model.CategoryBucket, 0, len(items))
	for i, list := range items {
		if len(list) == 0 {
			continue
		}
		name := model.OtherCategory
		if i < len(categories) {
			name = categories[i].Name
		}
		buckets = append(buckets, model.CategoryBucket{Name: name, Items: list})
	}
	return buckets
}

// CategoryOf returns the bucket name Categorize would use for term.
func CategoryOf(term string, categories []model.Category) string {
	term = strings.ToLower(strings.TrimSpace(term))
	for _, c := range categories {
		for _, kw := range c.Keywords {
			if strings.ToLower(strings.TrimSpace(kw)) == term {
				return c.Name
			}
		}
	}
	return model.OtherCategory
}
