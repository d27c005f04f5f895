package report

import (
	"fmt"
	"math"
	"strings"

	"github.com/nao1215/bakeryscan/internal/model"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const timeLayout = "2006-01-02 15:04:05 MST"

// displayName title-cases a lowercase vocabulary term, "sourdough"
// becomes "Sourdough".
func displayName(term string) string {
	return cases.Title(language.English).String(term)
}

// statusText describes how the analysis ended.
func statusText(r *model.AnalysisReport) string {
	switch {
	case r.TimedOut:
		return "Timed out (partial results)"
	case r.Failed():
		return r.Failure.Sentinel()
	case r.Failure != nil:
		return "Complete (" + r.Failure.Detail + ")"
	default:
		return "Complete"
	}
}

// percent formats a proportion in [0,1] as a percentage.
func percent(v float64) string {
	return fmt.Sprintf("%.1f%%", v*100)
}

// sentimentSummary is the one-line sentiment and readability summary.
func sentimentSummary(r *model.AnalysisReport) string {
	s := r.Sentiment
	return fmt.Sprintf("Sentiment: %s (positive %s, neutral %s, negative %s, compound %.3f) | Readability: %.2f | Words: %d",
		s.Label, percent(s.Positive), percent(s.Neutral), percent(s.Negative), s.Compound, r.Readability, r.WordCount)
}

// bar renders value out of max as a fixed-width text bar.
func bar(value, maxValue, width int) string {
	if maxValue <= 0 || width <= 0 {
		return ""
	}
	filled := int(math.Round(float64(value) / float64(maxValue) * float64(width)))
	filled = max(0, min(width, filled))
	return strings.Repeat("#", filled) + strings.Repeat(".", width-filled)
}

// cloudWord is one word cloud entry with its relative weight.
type cloudWord struct {
	Word string
	// Weight is in [0,1], 1 for the most frequent word.
	Weight float64
}

// hitList joins hits as "term (count)" in the given order.
func hitList(hits []model.KeywordHit) string {
	parts := make([]string, len(hits))
	for i, h := range hits {
		parts[i] = fmt.Sprintf("%s (%d)", h.Term, h.Count)
	}
	return strings.Join(parts, ", ")
}

// wordCloud weights hits linearly by count.
func wordCloud(words []model.KeywordHit) []cloudWord {
	if len(words) == 0 {
		return nil
	}
	maxCount, minCount := words[0].Count, words[0].Count
	for _, w := range words {
		maxCount = max(maxCount, w.Count)
		minCount = min(minCount, w.Count)
	}

	out := make([]cloudWord, len(words))
	for i, w := range words {
		weight := 1.0
		if maxCount > minCount {
			weight = float64(w.Count-minCount) / float64(maxCount-minCount)
		}
		out[i] = cloudWord{Word: w.Term, Weight: weight}
	}
	return out
}

// scale maps a weight in [0,1] onto [lo,hi].
func scale(weight, lo, hi float64) float64 {
	return lo + weight*(hi-lo)
}
