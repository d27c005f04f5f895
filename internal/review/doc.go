// Package review reads customer review CSV files and selects the column
// that holds the review text.
package review
