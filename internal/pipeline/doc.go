// Package pipeline runs one analysis as an ordered list of steps.
//
// A web analysis is fetch, normalize, extract, categorize, signals,
// sentiment, score and recommend. A review file replaces the first two
// steps with load-reviews. Every step reads and fills the same
// *model.AnalysisReport. A fatal *model.Failure recorded by a step stops
// the pipeline, so nothing is extracted or scored from a page that could
// not be fetched.
//
// BatchProcessor runs independent analyses concurrently with errgroup.
package pipeline
