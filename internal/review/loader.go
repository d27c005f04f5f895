package review

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/nao1215/bakeryscan/internal/model"
	"github.com/nao1215/bakeryscan/internal/normalize"
)

// ColumnKeywords are matched case-insensitively as substrings of header
// names. Earlier keywords take priority.
var ColumnKeywords = []string{"review", "feedback", "comment", "text", "product", "description", "name"}

// AllColumns is the Column value used when no header matched and every
// column was joined.
const AllColumns = "*"

// Reviews is a loaded review file.
type Reviews struct {
	// Path is the file the reviews came from, if any.
	Path string

	// Column is the selected header, or AllColumns.
	Column string

	// Rows holds one review text per data row. Blank rows are dropped.
	Rows []string
}

// Text returns the rows as normalized text, one block per row.
func (r *Reviews) Text() *model.NormalizedText {
	title := ""
	if r.Path != "" {
		title = filepath.Base(r.Path)
	}
	return normalize.FromPlainText(title, r.Rows...)
}

// SelectColumn picks the review text column from header. Keywords are
// tried in ColumnKeywords order and, for each one, the first header
// containing it wins. Keyword order takes precedence over file order, so
// "product_name,customer_review" selects customer_review: product and name
// are fallbacks for files that carry no free-text review column. ok is
// false when nothing matched.
func SelectColumn(header []string) (index int, ok bool) {
	lowered := make([]string, len(header))
	for i, h := range header {
		lowered[i] = strings.ToLower(strings.TrimSpace(h))
	}
	for _, kw := range ColumnKeywords {
		for i, h := range lowered {
			if strings.Contains(h, kw) {
				return i, true
			}
		}
	}
	return -1, false
}

// Load reads CSV data from r. A malformed file yields a parse-error
// failure; a file without usable text yields an empty-input failure
// together with whatever was read.
func Load(r io.Reader) (*Reviews, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return &Reviews{}, model.NewFailure(model.FailureEmptyInput, ErrNoHeader.Error())
	}
	if err != nil {
		return nil, model.NewFailure(model.FailureParse, fmt.Sprintf("reading csv header: %v", err))
	}
	header[0] = strings.TrimPrefix(header[0], "\ufeff")

	idx, matched := SelectColumn(header)
	reviews := &Reviews{Column: AllColumns}
	if matched {
		reviews.Column = strings.TrimSpace(header[idx])
	}

	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, model.NewFailure(model.FailureParse, fmt.Sprintf("reading csv: %v", err))
		}

		var text string
		switch {
		case !matched:
			text = strings.Join(record, " ")
		case idx < len(record):
			text = record[idx]
		}
		if text = normalize.Collapse(text); text != "" {
			reviews.Rows = append(reviews.Rows, text)
		}
	}

	if len(reviews.Rows) == 0 {
		return reviews, model.NewFailure(model.FailureEmptyInput, ErrNoRows.Error())
	}
	return reviews, nil
}

// LoadFile opens path and calls Load. A missing file is a parse-error
// failure so the pipeline reports it like any other unreadable input.
func LoadFile(path string) (*Reviews, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, model.NewFailure(model.FailureParse, fmt.Sprintf("opening %s: %v", path, err))
	}
	defer f.Close() //nolint:errcheck // read-only file

	reviews, err := Load(f)
	if reviews != nil {
		reviews.Path = path
	}
	return reviews, err
}
