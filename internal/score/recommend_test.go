package score

import (
	"testing"

	"github.com/nao1215/bakeryscan/internal/model"
)

func texts(recs []model.Recommendation) map[string]model.RecommendationLevel {
	m := make(map[string]model.RecommendationLevel, len(recs))
	for _, r := range recs {
		m[r.Text] = r.Level
	}
	return m
}

func TestRecommendNoItems(t *testing.T) {
	t.Parallel()

	recs := Recommend(nil, model.SentimentScore{}, model.NewHealthScore(10, PresetPositive30))
	if len(recs) != 1 {
		t.Fatalf("expected exactly one recommendation, got %d", len(recs))
	}
	if recs[0].Level != model.LevelMissing || recs[0].Text != NoProductsMessage {
		t.Errorf("unexpected recommendation: %+v", recs[0])
	}
}

func TestRecommendRules(t *testing.T) {
	t.Parallel()

	const (
		cakes    = "Promote cakes with seasonal flavors (chocolate, fruit)."
		cookies  = "Bundle cookies with beverages for upselling."
		breads   = "Highlight artisan breads or sourdough specials."
		variety  = "Expand product variety on your website."
		negative = "Negative wording is noticeable; respond to complaints and refresh product copy."
		poor     = "Overall health is poor; add product descriptions and customer testimonials."
	)

	good := model.NewHealthScore(80, PresetPositive30)

	tests := []struct {
		name    string
		items   []model.KeywordHit
		s       model.SentimentScore
		h       model.HealthScore
		want    []string
		notWant []string
	}{
		{
			name:    "cake on top with cookies and bread",
			items:   []model.KeywordHit{{Term: "cake", Count: 4}, {Term: "cookies", Count: 2}, {Term: "sourdough", Count: 1}},
			h:       good,
			want:    []string{cakes, cookies, breads},
			notWant: []string{variety, negative, poor},
		},
		{
			name:    "cake not on top",
			items:   []model.KeywordHit{{Term: "bread", Count: 3}, {Term: "cake", Count: 1}},
			h:       good,
			want:    []string{breads, variety},
			notWant: []string{cakes},
		},
		{
			name:  "negative and poor",
			items: []model.KeywordHit{{Term: "pie", Count: 1}},
			s:     model.SentimentScore{Negative: 0.4},
			h:     model.NewHealthScore(12, PresetPositive30),
			want:  []string{variety, negative, poor},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := texts(Recommend(tt.items, tt.s, tt.h))
			for _, w := range tt.want {
				if _, ok := got[w]; !ok {
					t.Errorf("missing recommendation %q", w)
				}
			}
			for _, w := range tt.notWant {
				if _, ok := got[w]; ok {
					t.Errorf("unexpected recommendation %q", w)
				}
			}
		})
	}
}

func TestRecommendLevels(t *testing.T) {
	t.Parallel()

	recs := Recommend([]model.KeywordHit{{Term: "cake", Count: 1}}, model.SentimentScore{}, model.NewHealthScore(50, PresetPositive30))
	got := texts(recs)
	if got["Promote cakes with seasonal flavors (chocolate, fruit)."] != model.LevelOK {
		t.Error("cake advice should be ok level")
	}
	if got["Expand product variety on your website."] != model.LevelWarn {
		t.Error("variety advice should be warn level")
	}
}
