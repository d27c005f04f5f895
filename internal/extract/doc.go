// Package extract finds bakery products and related signals in page text.
//
// Product extraction is one capability with three strategies behind the
// Extractor interface:
//
//   - regex-vocabulary: whole-word matches of a fixed term list (default)
//   - dom-selector: product-like DOM elements queried with goquery
//   - pos-tag: noun tokens from the prose tagger intersected with the list
//
// The package also provides category bucketing, seasonal special
// detection, frequent word counts, entity names and a readability figure.
package extract
