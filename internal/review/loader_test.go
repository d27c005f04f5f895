package review

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nao1215/bakeryscan/internal/model"
)

func TestSelectColumn(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		header []string
		want   int
		ok     bool
	}{
		{"customer review", []string{"id", "customer_review", "rating"}, 1, true},
		{"case insensitive", []string{"ID", "Feedback"}, 1, true},
		{"keyword priority beats file order", []string{"product_name", "comment"}, 1, true},
		{"review preferred over earlier product name", []string{"product_name", "customer_review"}, 1, true},
		{"first column for same keyword", []string{"review_title", "review_body"}, 0, true},
		{"name as last resort", []string{"id", "name"}, 1, true},
		{"no match", []string{"id", "rating", "date"}, -1, false},
		{"empty header", nil, -1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := SelectColumn(tt.header)
			if got != tt.want || ok != tt.ok {
				t.Errorf("SelectColumn(%v) = (%d, %v), want (%d, %v)", tt.header, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()

	t.Run("selects review column", func(t *testing.T) {
		t.Parallel()

		data := "id,customer_review,rating\n1,absolutely loved the croissants,5\n2,,3\n3,  stale   bread ,1\n"
		r, err := Load(strings.NewReader(data))
		if err != nil {
			t.Fatalf("Load() error: %v", err)
		}
		if r.Column != "customer_review" {
			t.Errorf("Column = %q, want customer_review", r.Column)
		}
		want := []string{"absolutely loved the croissants", "stale bread"}
		if len(r.Rows) != len(want) {
			t.Fatalf("Rows = %q, want %q", r.Rows, want)
		}
		for i := range want {
			if r.Rows[i] != want[i] {
				t.Errorf("Rows[%d] = %q, want %q", i, r.Rows[i], want[i])
			}
		}
	})

	t.Run("joins all columns without a match", func(t *testing.T) {
		t.Parallel()

		r, err := Load(strings.NewReader("a,b\nfresh,scones\n"))
		if err != nil {
			t.Fatalf("Load() error: %v", err)
		}
		if r.Column != AllColumns {
			t.Errorf("Column = %q, want %q", r.Column, AllColumns)
		}
		if len(r.Rows) != 1 || r.Rows[0] != "fresh scones" {
			t.Errorf("Rows = %q", r.Rows)
		}
	})

	t.Run("short records", func(t *testing.T) {
		t.Parallel()

		r, err := Load(strings.NewReader("id,review\n1\n2,great pie\n"))
		if err != nil {
			t.Fatalf("Load() error: %v", err)
		}
		if len(r.Rows) != 1 || r.Rows[0] != "great pie" {
			t.Errorf("Rows = %q", r.Rows)
		}
	})

	t.Run("byte order mark", func(t *testing.T) {
		t.Parallel()

		r, err := Load(strings.NewReader("\ufeffreview\ngood\n"))
		if err != nil {
			t.Fatalf("Load() error: %v", err)
		}
		if r.Column != "review" {
			t.Errorf("Column = %q, want review", r.Column)
		}
	})
}

func TestLoadFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data string
		kind model.FailureKind
	}{
		{"empty file", "", model.FailureEmptyInput},
		{"header only", "review\n", model.FailureEmptyInput},
		{"blank rows only", "review\n\" \"\n", model.FailureEmptyInput},
		{"bad quoting", "review\n\"unterminated\n", model.FailureParse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Load(strings.NewReader(tt.data))
			f, ok := model.AsFailure(err)
			if !ok {
				t.Fatalf("expected *model.Failure, got %v", err)
			}
			if f.Kind != tt.kind {
				t.Errorf("Kind = %q, want %q", f.Kind, tt.kind)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "reviews.csv")
	if err := os.WriteFile(path, []byte("feedback\nlovely cupcakes\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	r, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	text := r.Text()
	if text.Title != "reviews.csv" {
		t.Errorf("Title = %q, want reviews.csv", text.Title)
	}
	if text.Text != "lovely cupcakes" {
		t.Errorf("Text = %q", text.Text)
	}

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.csv"))
	if f, ok := model.AsFailure(err); !ok || f.Kind != model.FailureParse {
		t.Errorf("expected parse failure for missing file, got %v", err)
	}
}
