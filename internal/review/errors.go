package review

import "errors"

var (
	// ErrNoHeader is returned when the file has no header row.
	ErrNoHeader = errors.New("csv file has no header row")

	// ErrNoRows is returned when the file has a header but no data rows.
	ErrNoRows = errors.New("csv file has no data rows")
)
