package score

import (
	"strings"

	"github.com/nao1215/bakeryscan/internal/model"
)

// NoProductsMessage is shown when extraction found nothing.
const NoProductsMessage = "No products detected – add more bakery content!"

// Thresholds used by Recommend.
const (
	minVariety        = 3
	negativeThreshold = 0.15
)

// Recommend derives advice from the extracted items, the sentiment and
// the health score using fixed threshold rules. items must be ordered by
// descending count.
func Recommend(items []model.KeywordHit, s model.SentimentScore, h model.HealthScore) []model.Recommendation {
	if len(items) == 0 {
		return []model.Recommendation{{Level: model.LevelMissing, Text: NoProductsMessage}}
	}

	var out []model.Recommendation
	add := func(level model.RecommendationLevel, text string) {
		out = append(out, model.Recommendation{Level: level, Text: text})
	}

	if strings.Contains(items[0].Term, "cake") {
		add(model.LevelOK, "Promote cakes with seasonal flavors (chocolate, fruit).")
	}
	if hasTerm(items, "cookie") {
		add(model.LevelOK, "Bundle cookies with beverages for upselling.")
	}
	if hasTerm(items, "bread", "sourdough") {
		add(model.LevelOK, "Highlight artisan breads or sourdough specials.")
	}
	if len(items) < minVariety {
		add(model.LevelWarn, "Expand product variety on your website.")
	}
	if s.Negative > negativeThreshold {
		add(model.LevelWarn, "Negative wording is noticeable; respond to complaints and refresh product copy.")
	}
	if h.Band == model.BandPoor {
		add(model.LevelWarn, "Overall health is poor; add product descriptions and customer testimonials.")
	}
	return out
}

// hasTerm reports whether any hit starts with one of prefixes, so
// "cookie" also covers "cookies".
func hasTerm(hits []model.KeywordHit, prefixes ...string) bool {
	for _, h := range hits {
		for _, p := range prefixes {
			if strings.HasPrefix(h.Term, p) {
				return true
			}
		}
	}
	return false
}
