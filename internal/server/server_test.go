package server

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/nao1215/bakeryscan/internal/config"
	"github.com/nao1215/bakeryscan/internal/log"
	"github.com/nao1215/bakeryscan/internal/model"
	"github.com/nao1215/bakeryscan/internal/pipeline"
	"github.com/nao1215/bakeryscan/internal/report"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// fakeAnalyzer returns a fixed report for every source.
type fakeAnalyzer struct {
	fail bool
	err  error
}

func (f fakeAnalyzer) Analyze(_ context.Context, src pipeline.Source) (*model.AnalysisReport, error) {
	if f.err != nil {
		return nil, f.err
	}
	r := model.NewAnalysisReport(src.Location, src.Kind)
	r.Title = "Sunrise Bakery"
	if f.fail {
		r.Fail(model.NewFailure(model.FailureFetch, "404"))
		return r, nil
	}
	r.Items = []model.KeywordHit{{Term: "cake", Count: 3}, {Term: "bread", Count: 1}}
	r.Sentiment = model.SentimentScore{Positive: 0.4, Neutral: 0.6, Label: model.SentimentPositive, Samples: 1}
	r.Health = model.NewHealthScore(70, "positive30")
	r.Recommendations = []model.Recommendation{{Level: model.LevelOK, Text: "Promote cakes with seasonal flavors (chocolate, fruit)."}}
	return r, nil
}

func newTestServer(a Analyzer) *Server {
	return New(a, WithLogger(log.Discard()), WithVersion("test"))
}

func serve(s *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	t.Parallel()

	rec := serve(newTestServer(fakeAnalyzer{}), httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "ok" || body["version"] != "test" {
		t.Errorf("unexpected body %v", body)
	}
}

func TestIndex(t *testing.T) {
	t.Parallel()

	rec := serve(newTestServer(fakeAnalyzer{}), httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{`<form action="/report"`, `name="url"`, `<option value="pdf">`, `enctype="multipart/form-data"`} {
		if !strings.Contains(body, want) {
			t.Errorf("index missing %q", want)
		}
	}
}

func TestAnalyzeAPI(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		analyzer Analyzer
		body     string
		want     int
	}{
		{name: "success", analyzer: fakeAnalyzer{}, body: `{"url":"https://bakery.example"}`, want: http.StatusOK},
		{name: "failed fetch", analyzer: fakeAnalyzer{fail: true}, body: `{"url":"https://bakery.example"}`, want: http.StatusBadGateway},
		{name: "missing url", analyzer: fakeAnalyzer{}, body: `{}`, want: http.StatusBadRequest},
		{name: "bad json", analyzer: fakeAnalyzer{}, body: `{`, want: http.StatusBadRequest},
		{name: "not http", analyzer: fakeAnalyzer{}, body: `{"url":"ftp://bakery.example"}`, want: http.StatusBadRequest},
		{name: "cancelled", analyzer: fakeAnalyzer{err: context.DeadlineExceeded}, body: `{"url":"https://bakery.example"}`, want: http.StatusGatewayTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rec := serve(newTestServer(tt.analyzer), req)
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.want, rec.Body.String())
			}
			if tt.want != http.StatusOK && tt.want != http.StatusBadGateway {
				return
			}

			var got report.JSONReport
			if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
				t.Fatalf("invalid JSON: %v", err)
			}
			if got.Version != "test" || got.Report.Source != "https://bakery.example" {
				t.Errorf("unexpected report %+v", got)
			}
			if tt.want == http.StatusBadGateway && got.Error != "Error: 404" {
				t.Errorf("Error = %q", got.Error)
			}
			if tt.want == http.StatusOK && len(got.Report.Items) != 2 {
				t.Errorf("Items = %v", got.Report.Items)
			}
		})
	}
}

func TestReportFormats(t *testing.T) {
	t.Parallel()

	tests := []struct {
		format      string
		contentType string
		prefix      string
	}{
		{format: "", contentType: "text/html", prefix: "<!DOCTYPE html>"},
		{format: "html", contentType: "text/html", prefix: "<!DOCTYPE html>"},
		{format: "pdf", contentType: "application/pdf", prefix: "%PDF-"},
		{format: "markdown", contentType: "text/markdown", prefix: "# Bakery Health Report"},
		{format: "json", contentType: "application/json", prefix: "{"},
		{format: "text", contentType: "text/plain", prefix: ""},
	}

	for _, tt := range tests {
		t.Run("format="+tt.format, func(t *testing.T) {
			t.Parallel()

			q := url.Values{"url": {"https://bakery.example"}}
			if tt.format != "" {
				q.Set("format", tt.format)
			}
			rec := serve(newTestServer(fakeAnalyzer{}), httptest.NewRequest(http.MethodGet, "/report?"+q.Encode(), nil))
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
			}
			if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, tt.contentType) {
				t.Errorf("Content-Type = %q", ct)
			}
			if !bytes.HasPrefix(bytes.TrimSpace(rec.Body.Bytes()), []byte(tt.prefix)) {
				t.Errorf("body does not start with %q", tt.prefix)
			}
		})
	}
}

func TestReportErrors(t *testing.T) {
	t.Parallel()

	t.Run("unknown format", func(t *testing.T) {
		t.Parallel()
		rec := serve(newTestServer(fakeAnalyzer{}), httptest.NewRequest(http.MethodGet, "/report?url=https://bakery.example&format=docx", nil))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d", rec.Code)
		}
	})

	t.Run("missing url shows form with error", func(t *testing.T) {
		t.Parallel()
		rec := serve(newTestServer(fakeAnalyzer{}), httptest.NewRequest(http.MethodGet, "/report", nil))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), ErrInvalidURL.Error()) {
			t.Error("form does not show the error")
		}
	})

	t.Run("failed analysis still renders", func(t *testing.T) {
		t.Parallel()
		rec := serve(newTestServer(fakeAnalyzer{fail: true}), httptest.NewRequest(http.MethodGet, "/report?url=https://bakery.example&format=markdown", nil))
		if rec.Code != http.StatusBadGateway {
			t.Errorf("status = %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "Error: 404") {
			t.Error("failure sentinel missing from report")
		}
	})
}

// uploadRequest builds a multipart request carrying csv under the file
// field. An empty filename sends the form without a file.
func uploadRequest(t *testing.T, target, filename, csv string, fields map[string]string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	if filename != "" {
		fw, err := mw.CreateFormFile("file", filename)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := fw.Write([]byte(csv)); err != nil {
			t.Fatal(err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

// recordingAnalyzer keeps the last source it was asked to analyze.
type recordingAnalyzer struct {
	src *pipeline.Source
}

func (r recordingAnalyzer) Analyze(ctx context.Context, src pipeline.Source) (*model.AnalysisReport, error) {
	*r.src = src
	return fakeAnalyzer{}.Analyze(ctx, src)
}

func TestAnalyzeCSVAPI(t *testing.T) {
	t.Parallel()

	t.Run("passes upload to the analyzer", func(t *testing.T) {
		t.Parallel()

		var got pipeline.Source
		req := uploadRequest(t, "/api/analyze/csv", "dir/reviews.csv", "id,review\n1,great cake\n", nil)
		rec := serve(newTestServer(recordingAnalyzer{src: &got}), req)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
		}
		if got.Kind != model.SourceReviews || got.Location != "reviews.csv" {
			t.Errorf("unexpected source %+v", got)
		}
		if string(got.Data) != "id,review\n1,great cake\n" {
			t.Errorf("Data = %q", got.Data)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		req := uploadRequest(t, "/api/analyze/csv", "", "", map[string]string{"format": "json"})
		rec := serve(newTestServer(fakeAnalyzer{}), req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d", rec.Code)
		}
		var body map[string]string
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatal(err)
		}
		if body["error"] != ErrMissingUpload.Error() {
			t.Errorf("error = %q", body["error"])
		}
	})

	t.Run("not multipart", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodPost, "/api/analyze/csv", strings.NewReader(`{"url":"x"}`))
		req.Header.Set("Content-Type", "application/json")
		if rec := serve(newTestServer(fakeAnalyzer{}), req); rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d", rec.Code)
		}
	})

	t.Run("analyzes reviews end to end", func(t *testing.T) {
		t.Parallel()

		cfg := config.NewConfig()
		cfg.SaveToDB = false
		analyzer, err := pipeline.NewAnalyzer(cfg, pipeline.WithAnalyzerLogger(log.Discard()))
		if err != nil {
			t.Fatal(err)
		}

		req := uploadRequest(t, "/api/analyze/csv", "reviews.csv", "id,customer_review\n1,absolutely loved the croissants\n", nil)
		rec := serve(newTestServer(analyzer), req)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
		}
		var got report.JSONReport
		if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if got.Report.Column != "customer_review" || got.Report.Health.Value < 70 {
			t.Errorf("unexpected report: column %q health %d", got.Report.Column, got.Report.Health.Value)
		}
	})
}

func TestReportCSVUpload(t *testing.T) {
	t.Parallel()

	t.Run("renders requested format", func(t *testing.T) {
		t.Parallel()

		req := uploadRequest(t, "/report", "reviews.csv", "review\nlovely\n", map[string]string{"format": "markdown"})
		rec := serve(newTestServer(fakeAnalyzer{}), req)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
		}
		if !strings.HasPrefix(strings.TrimSpace(rec.Body.String()), "# Bakery Health Report") {
			t.Errorf("unexpected body %q", rec.Body.String())
		}
	})

	t.Run("missing file shows form with error", func(t *testing.T) {
		t.Parallel()

		req := uploadRequest(t, "/report", "", "", map[string]string{"format": "html"})
		rec := serve(newTestServer(fakeAnalyzer{}), req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "review CSV is required") {
			t.Error("form does not show the error")
		}
	})

	t.Run("unknown format", func(t *testing.T) {
		t.Parallel()

		req := uploadRequest(t, "/report", "reviews.csv", "review\nlovely\n", map[string]string{"format": "docx"})
		if rec := serve(newTestServer(fakeAnalyzer{}), req); rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d", rec.Code)
		}
	})
}

func TestValidateURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want bool
	}{
		{"https://bakery.example/menu", true},
		{"  http://bakery.example  ", true},
		{"bakery.example", false},
		{"mailto:owner@bakery.example", false},
		{"", false},
	}
	for _, tt := range tests {
		_, err := validateURL(tt.in)
		if (err == nil) != tt.want {
			t.Errorf("validateURL(%q) error = %v", tt.in, err)
		}
	}
}
