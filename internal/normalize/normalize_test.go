package normalize

import (
	"errors"
	"strings"
	"testing"

	"github.com/nao1215/bakeryscan/internal/model"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	t.Run("drops scripts and styles and lowercases", func(t *testing.T) {
		t.Parallel()

		page := `<html><head><title>Sweet Crumbs</title><style>p{color:red}</style>
<script>var cake = 1;</script></head>
<body><h1>Fresh   Bread</h1>
<p>Chocolate
   Cake daily</p><noscript>enable js</noscript></body></html>`

		got, err := New().Normalize(strings.NewReader(page))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Text != "fresh bread chocolate cake daily" {
			t.Errorf("unexpected text %q", got.Text)
		}
		if got.Display != "Fresh Bread Chocolate Cake daily" {
			t.Errorf("unexpected display %q", got.Display)
		}
		if got.Title != "Sweet Crumbs" {
			t.Errorf("unexpected title %q", got.Title)
		}
		if len(got.Blocks) != 2 {
			t.Errorf("expected 2 blocks, got %v", got.Blocks)
		}
	})

	t.Run("keeps chrome unless stripped", func(t *testing.T) {
		t.Parallel()

		page := `<body><nav>Home Cakes</nav><main><p>Our bread</p></main><footer>Contact</footer></body>`

		kept, err := New().Normalize(strings.NewReader(page))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(kept.Text, "home cakes") {
			t.Errorf("expected nav text, got %q", kept.Text)
		}

		stripped, err := New(WithStripChrome(true)).Normalize(strings.NewReader(page))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if stripped.Text != "our bread" {
			t.Errorf("expected only main text, got %q", stripped.Text)
		}
	})

	t.Run("empty markup yields empty text", func(t *testing.T) {
		t.Parallel()

		got, err := New().Normalize(strings.NewReader(`<html><body><script>x()</script></body></html>`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !got.IsEmpty() {
			t.Errorf("expected empty text, got %q", got.Text)
		}
	})

	t.Run("reader error is a parse failure", func(t *testing.T) {
		t.Parallel()

		_, err := New().Normalize(failingReader{})
		f, ok := model.AsFailure(err)
		if !ok || f.Kind != model.FailureParse {
			t.Errorf("expected parse failure, got %v", err)
		}
	})
}

func TestFromPlainText(t *testing.T) {
	t.Parallel()

	got := FromPlainText("reviews.csv", "  Loved the\tCroissants ", "", "Great  bread")
	if got.Text != "loved the croissants great bread" {
		t.Errorf("unexpected text %q", got.Text)
	}
	if len(got.Blocks) != 2 {
		t.Errorf("expected empty rows to be dropped, got %v", got.Blocks)
	}
	if got.WordCount() != 5 {
		t.Errorf("expected 5 words, got %d", got.WordCount())
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("connection reset")
}
