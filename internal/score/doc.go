// Package score computes the 0-100 health score and the recommendation
// list for an analysis.
//
// The score is a clamped additive formula over the sentiment proportions
// and the number of detected product terms. Several weightings exist, so
// the formula is a value (Formula) and named presets select common ones.
package score
