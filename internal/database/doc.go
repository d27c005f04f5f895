// Package database stores analysis history in SQLite.
//
// Every saved analysis is one row of the reports table with its score
// and band in columns and the whole report as JSON, so history listings
// never need to decode reports. The driver is modernc.org/sqlite, which
// needs no cgo.
package database
