// Package model defines the data that flows through a bakery analysis.
//
// Each pipeline stage produces one of these values and later stages only
// read them: a RawDocument becomes NormalizedText, which yields KeywordHits,
// CategoryBuckets and a SentimentScore, which in turn produce a HealthScore
// and Recommendations. Everything is collected in an AnalysisReport.
package model
