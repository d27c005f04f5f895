package pipeline

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/bakeryscan/internal/config"
	"github.com/nao1215/bakeryscan/internal/model"
	"github.com/nao1215/bakeryscan/internal/score"
)

const bakeryPage = `<!DOCTYPE html>
<html><head><title>Sunrise Bakery</title><style>.cake{color:red}</style></head>
<body>
<nav>Home Contact Cart</nav>
<h1>Fresh bread</h1>
<p>We sell fresh bread and chocolate cake daily. Order a Christmas cake!</p>
<script>var cookies = 1;</script>
</body></html>`

func testConfig() *config.Config {
	cfg := config.NewConfig()
	cfg.Timeout = 2 * time.Second
	cfg.SaveToDB = false
	return cfg
}

func newTestAnalyzer(t *testing.T, cfg *config.Config, opts ...AnalyzerOption) *Analyzer {
	t.Helper()

	opts = append([]AnalyzerOption{WithAnalyzerLogger(quietLogger())}, opts...)
	a, err := NewAnalyzer(cfg, opts...)
	if err != nil {
		t.Fatalf("NewAnalyzer() error: %v", err)
	}
	return a
}

type memoryRecorder struct {
	saved []*model.AnalysisReport
	err   error
}

func (m *memoryRecorder) Save(_ context.Context, r *model.AnalysisReport) error {
	m.saved = append(m.saved, r)
	return m.err
}

func TestAnalyzeWebPage(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(bakeryPage))
	}))
	t.Cleanup(srv.Close)

	rec := &memoryRecorder{}
	a := newTestAnalyzer(t, testConfig(), WithRecorder(rec))

	report, err := a.Analyze(context.Background(), Source{Location: srv.URL, Kind: model.SourceWeb})
	if err != nil {
		t.Fatalf("Analyze() error: %v", err)
	}
	if report.Failure != nil {
		t.Fatalf("unexpected failure: %v", report.Failure)
	}
	if report.Title != "Sunrise Bakery" {
		t.Errorf("Title = %q, want Sunrise Bakery", report.Title)
	}

	if len(report.Items) != 2 {
		t.Fatalf("Items = %+v, want bread and cake", report.Items)
	}
	if report.Items[0] != (model.KeywordHit{Term: "bread", Count: 2}) {
		t.Errorf("Items[0] = %+v, want bread:2", report.Items[0])
	}
	if report.Items[1] != (model.KeywordHit{Term: "cake", Count: 2}) {
		t.Errorf("Items[1] = %+v, want cake:2", report.Items[1])
	}
	if len(report.Specials) != 1 || report.Specials[0].Label != "Festive Cakes" {
		t.Errorf("Specials = %+v", report.Specials)
	}
	if report.Strategy != config.StrategyVocabulary {
		t.Errorf("Strategy = %q", report.Strategy)
	}
	if report.Health.Value < score.MinScore || report.Health.Value > score.MaxScore {
		t.Errorf("health out of range: %d", report.Health.Value)
	}
	if len(report.Recommendations) == 0 {
		t.Error("expected recommendations")
	}

	want := []string{StepFetch, StepNormalize, StepExtract, StepCategorize, StepSignals, StepSentiment, StepScore, StepRecommend, StepSave}
	if strings.Join(report.PerformedSteps, ",") != strings.Join(want, ",") {
		t.Errorf("PerformedSteps = %v, want %v", report.PerformedSteps, want)
	}
	if len(rec.saved) != 1 {
		t.Errorf("expected report to be saved once, got %d", len(rec.saved))
	}
}

func TestAnalyzeConnectionRefused(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	a := newTestAnalyzer(t, testConfig())
	report, err := a.Analyze(context.Background(), Source{Location: url, Kind: model.SourceWeb})
	if err != nil {
		t.Fatalf("a refused connection must not be a program error, got %v", err)
	}
	if !report.Failed() {
		t.Fatal("expected failed report")
	}
	if !strings.HasPrefix(report.Failure.Sentinel(), "Error") {
		t.Errorf("Sentinel() = %q, want Error prefix", report.Failure.Sentinel())
	}
	if len(report.PerformedSteps) != 1 || report.PerformedSteps[0] != StepFetch {
		t.Errorf("pipeline should stop after fetch, performed %v", report.PerformedSteps)
	}
	if report.HasItems() || report.Health.Formula != "" {
		t.Error("nothing should be extracted or scored after a failed fetch")
	}
}

func TestAnalyzeNotFound(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(srv.Close)

	a := newTestAnalyzer(t, testConfig())
	report, err := a.Analyze(context.Background(), Source{Location: srv.URL, Kind: model.SourceWeb})
	if err != nil {
		t.Fatal(err)
	}
	if report.Failure == nil || report.Failure.Sentinel() != "Error: 404" {
		t.Errorf("expected Error: 404, got %+v", report.Failure)
	}
}

func TestAnalyzeReviews(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "reviews.csv")
	data := "id,customer_review\n1,absolutely loved the croissants\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	a := newTestAnalyzer(t, testConfig())
	report, err := a.Analyze(context.Background(), Source{Location: path, Kind: model.SourceReviews})
	if err != nil {
		t.Fatalf("Analyze() error: %v", err)
	}
	if report.Failure != nil {
		t.Fatalf("unexpected failure: %v", report.Failure)
	}
	if report.Column != "customer_review" {
		t.Errorf("Column = %q, want customer_review", report.Column)
	}
	if report.Sentiment.Positive <= report.Sentiment.Negative {
		t.Errorf("expected positive-leaning sentiment, got %+v", report.Sentiment)
	}
	if report.Health.Value < 70 {
		t.Errorf("Health = %d, want >= 70", report.Health.Value)
	}
	if report.Health.Formula != score.PresetPositive30 {
		t.Errorf("Formula = %q, want %q", report.Health.Formula, score.PresetPositive30)
	}
	if len(report.Items) != 1 || report.Items[0].Term != "croissants" {
		t.Errorf("Items = %+v", report.Items)
	}
}

func TestAnalyzeUploadedReviews(t *testing.T) {
	t.Parallel()

	a := newTestAnalyzer(t, testConfig())
	src := Source{
		Location: "upload/reviews.csv",
		Kind:     model.SourceReviews,
		Data:     []byte("id,customer_review\n1,absolutely loved the croissants\n"),
	}
	report, err := a.Analyze(context.Background(), src)
	if err != nil {
		t.Fatalf("Analyze() error: %v", err)
	}
	if report.Failure != nil {
		t.Fatalf("uploaded data must not be read from disk: %v", report.Failure)
	}
	if report.Column != "customer_review" || report.Title != "reviews.csv" {
		t.Errorf("Column = %q, Title = %q", report.Column, report.Title)
	}
	if len(report.Items) != 1 || report.Items[0].Term != "croissants" {
		t.Errorf("Items = %+v", report.Items)
	}
}

func TestAnalyzeEmptyReviews(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "empty.csv")
	if err := os.WriteFile(path, []byte("review\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	a := newTestAnalyzer(t, testConfig())
	report, err := a.Analyze(context.Background(), Source{Location: path, Kind: model.SourceReviews})
	if err != nil {
		t.Fatal(err)
	}
	if report.Failure == nil || report.Failure.Kind != model.FailureEmptyInput {
		t.Fatalf("expected empty-input failure, got %+v", report.Failure)
	}
	if report.HasItems() {
		t.Error("expected no items")
	}
	if report.Health.Value != 30 {
		t.Errorf("empty input should score the formula offset, got %d", report.Health.Value)
	}
	if len(report.Recommendations) != 1 || report.Recommendations[0].Level != model.LevelMissing {
		t.Errorf("Recommendations = %+v", report.Recommendations)
	}
}

func TestAnalyzerSiteConfig(t *testing.T) {
	t.Parallel()

	headers := make(chan http.Header, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case headers <- r.Header.Clone():
		default:
		}
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<p>scones</p>"))
	}))
	t.Cleanup(srv.Close)

	cfg := testConfig()
	offset := 10.0
	cfg.SiteConfigs = &config.File{
		Sites: map[string]config.SiteConfig{
			config.SiteKey(srv.URL): {Cookie: "session=abc", UserAgent: "bakery-bot/1.0"},
		},
		Formula: config.FormulaConfig{Offset: &offset},
	}

	a := newTestAnalyzer(t, cfg)
	report, err := a.Analyze(context.Background(), Source{Location: srv.URL, Kind: model.SourceWeb})
	if err != nil {
		t.Fatal(err)
	}
	if report.Failure != nil {
		t.Fatalf("unexpected failure: %v", report.Failure)
	}

	h := <-headers
	if h.Get("Cookie") != "session=abc" || h.Get("User-Agent") != "bakery-bot/1.0" {
		t.Errorf("site headers not applied: cookie=%q ua=%q", h.Get("Cookie"), h.Get("User-Agent"))
	}
	if a.Formula().Offset != 10 || !strings.HasSuffix(report.Health.Formula, "+custom") {
		t.Errorf("formula override not applied: %+v", a.Formula())
	}
}

func TestNewAnalyzerErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		modify func(*config.Config)
	}{
		{"unknown strategy", func(c *config.Config) { c.Strategy = "magic" }},
		{"unknown formula", func(c *config.Config) { c.Formula = "harmonic" }},
		{"unknown sample mode", func(c *config.Config) { c.SampleMode = "tail" }},
		{"bad proxy", func(c *config.Config) { c.ProxyAddress = "no-port" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := testConfig()
			tt.modify(cfg)
			if _, err := NewAnalyzer(cfg); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestSaveStepIgnoresStorageErrors(t *testing.T) {
	t.Parallel()

	rec := &memoryRecorder{err: errors.New("disk full")}
	step := NewSaveStep(rec, quietLogger())
	if err := step.Do(context.Background(), model.NewAnalysisReport("x", model.SourceWeb)); err != nil {
		t.Errorf("Do() error = %v, want nil", err)
	}
	if len(rec.saved) != 1 {
		t.Error("expected Save to be called")
	}
}

func TestNormalizeStepPlainText(t *testing.T) {
	t.Parallel()

	report := model.NewAnalysisReport("https://bakery.example/menu.txt", model.SourceWeb)
	report.Document = &model.RawDocument{ContentType: "text/plain", Raw: []byte("Muffins  and\nscones")}

	if err := NewNormalizeStep(nil).Do(context.Background(), report); err != nil {
		t.Fatalf("Do() error: %v", err)
	}
	if report.Text.Text != "muffins and scones" {
		t.Errorf("Text = %q", report.Text.Text)
	}
}
