package model

import "fmt"

// SentimentLabel is a coarse classification of a compound score.
type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "positive"
	SentimentNeutral  SentimentLabel = "neutral"
	SentimentNegative SentimentLabel = "negative"
)

// compoundThreshold is the usual VADER cut-off between neutral and polar text.
const compoundThreshold = 0.05

// SentimentScore holds lexicon based sentiment proportions.
// Positive, Neutral and Negative are each in [0,1] and sum to roughly 1.
// Compound is the normalized overall valence in [-1,1].
type SentimentScore struct {
	Positive float64        `json:"positive"`
	Neutral  float64        `json:"neutral"`
	Negative float64        `json:"negative"`
	Compound float64        `json:"compound"`
	Label    SentimentLabel `json:"label"`

	// Samples is the number of texts that contributed to the score.
	// It is 1 for a web page and the row count for a review file.
	Samples int `json:"samples"`
}

// LabelFor classifies a compound score.
func LabelFor(compound float64) SentimentLabel {
	switch {
	case compound >= compoundThreshold:
		return SentimentPositive
	case compound <= -compoundThreshold:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

// IsZero reports whether no sentiment was observed at all.
func (s SentimentScore) IsZero() bool {
	return s.Positive == 0 && s.Neutral == 0 && s.Negative == 0 && s.Compound == 0
}

// Summary formats the proportions as a single line.
func (s SentimentScore) Summary() string {
	return fmt.Sprintf("positive %.2f, neutral %.2f, negative %.2f (compound %.2f)",
		s.Positive, s.Neutral, s.Negative, s.Compound)
}
