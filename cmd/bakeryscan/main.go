// Package main provides the entry point for the bakeryscan CLI.
//
// bakeryscan analyzes bakery websites and customer review files. It
// detects products, scores customer sentiment and computes a content
// health score with recommendations.
//
// Usage:
//
//	bakeryscan analyze <url>...
//	bakeryscan analyze --csv reviews.csv
//	bakeryscan serve
//
// See --help for all available options.
package main

func main() {
	Execute()
}
