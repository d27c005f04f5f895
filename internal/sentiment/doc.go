// Package sentiment scores text with the VADER lexicon.
//
// The analyzer is built once with NewVADER and handed to a Scorer; it only
// reads its lexicon after construction, so one Scorer can be shared by
// concurrent analyses.
package sentiment
