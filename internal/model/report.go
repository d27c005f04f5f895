package model

import (
	"time"

	"github.com/google/uuid"
)

// SourceKind says what kind of input an analysis read.
type SourceKind string

const (
	// SourceWeb is a fetched web page.
	SourceWeb SourceKind = "web"
	// SourceReviews is a CSV file of customer reviews.
	SourceReviews SourceKind = "reviews"
)

// AnalysisReport collects everything produced for one source.
// Pipeline steps fill it in order; renderers only read it.
type AnalysisReport struct {
	// ID uniquely identifies the analysis in the history database.
	ID string `json:"id"`

	// Source is the URL or CSV path that was analyzed.
	Source string `json:"source"`

	Kind SourceKind `json:"kind"`

	AnalyzedAt time.Time `json:"analyzed_at"`

	// Title is the page title or the CSV file name.
	Title string `json:"title,omitempty"`

	// Strategy names the extractor that produced Items.
	Strategy string `json:"strategy,omitempty"`

	// Document is set for web sources once the fetch succeeded.
	Document *RawDocument `json:"document,omitempty"`

	// Text is the normalized input. It is not serialized.
	Text *NormalizedText `json:"-"`

	// Column is the CSV column that supplied review text, if any.
	Column string `json:"column,omitempty"`

	// Rows holds individual review texts for CSV sources. Not serialized.
	Rows []string `json:"-"`

	Items      []KeywordHit      `json:"items"`
	Categories []CategoryBucket  `json:"categories,omitempty"`
	TopWords   []KeywordHit      `json:"top_words,omitempty"`
	Entities   []string          `json:"entities,omitempty"`
	Specials   []SeasonalSpecial `json:"specials,omitempty"`

	Sentiment   SentimentScore `json:"sentiment"`
	Readability float64        `json:"readability"`
	WordCount   int            `json:"word_count"`

	Health          HealthScore      `json:"health"`
	Recommendations []Recommendation `json:"recommendations,omitempty"`

	// PerformedSteps lists pipeline step names in execution order.
	PerformedSteps []string `json:"performed_steps,omitempty"`

	// Failure is set when a stage could not complete.
	Failure *Failure `json:"failure,omitempty"`

	// TimedOut is set when the context was cancelled mid-pipeline.
	TimedOut bool `json:"timed_out,omitempty"`
}

// NewAnalysisReport creates an empty report for source.
func NewAnalysisReport(source string, kind SourceKind) *AnalysisReport {
	return &AnalysisReport{
		ID:         uuid.NewString(),
		Source:     source,
		Kind:       kind,
		AnalyzedAt: time.Now(),
		Items:      make([]KeywordHit, 0),
	}
}

// Fail records f on the report. The first failure wins.
func (r *AnalysisReport) Fail(f *Failure) {
	if r.Failure == nil {
		r.Failure = f
	}
}

// Failed reports whether a pipeline-stopping failure was recorded.
func (r *AnalysisReport) Failed() bool {
	return r.Failure != nil && r.Failure.Fatal()
}

// HasItems reports whether any bakery items were detected.
func (r *AnalysisReport) HasItems() bool {
	return len(r.Items) > 0
}

// DisplayName returns the title if known, otherwise the source.
func (r *AnalysisReport) DisplayName() string {
	if r.Title != "" {
		return r.Title
	}
	return r.Source
}
