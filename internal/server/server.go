package server

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nao1215/bakeryscan/internal/model"
	"github.com/nao1215/bakeryscan/internal/pipeline"
	"github.com/nao1215/bakeryscan/internal/report"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// DefaultRequestTimeout bounds one analysis started by a request.
const DefaultRequestTimeout = 60 * time.Second

// MaxUploadSize caps an uploaded review CSV.
const MaxUploadSize = 10 << 20

const (
	shutdownTimeout = 5 * time.Second
	uploadField     = "file"
)

var (
	// ErrInvalidURL is returned for missing or non-http(s) URLs.
	ErrInvalidURL = errors.New("url must be an absolute http or https URL")
	// ErrMissingUpload is returned when a CSV request carries no file.
	ErrMissingUpload = errors.New(`multipart field "file" with a review CSV is required`)
	// ErrUploadTooLarge is returned for uploads over MaxUploadSize.
	ErrUploadTooLarge = errors.New("upload exceeds the 10 MiB limit")
)

// Analyzer runs one analysis. *pipeline.Analyzer implements it.
type Analyzer interface {
	Analyze(ctx context.Context, src pipeline.Source) (*model.AnalysisReport, error)
}

// Server serves the dashboard and the analysis API.
type Server struct {
	engine   *gin.Engine
	analyzer Analyzer
	logger   *slog.Logger
	version  string
	timeout  time.Duration
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithVersion sets the version reported by /healthz and JSON reports.
func WithVersion(version string) Option {
	return func(s *Server) {
		s.version = version
	}
}

// WithRequestTimeout bounds each analysis. Non-positive values are ignored.
func WithRequestTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// New creates a Server and registers its routes.
func New(analyzer Analyzer, opts ...Option) *Server {
	s := &Server{
		analyzer: analyzer,
		logger:   slog.Default(),
		version:  "dev",
		timeout:  DefaultRequestTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.engine = s.setupRouter()
	return s
}

// Handler returns the http.Handler serving all routes.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run listens on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("dashboard listening", "address", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) setupRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())
	r.SetHTMLTemplate(template.Must(template.ParseFS(templateFS, "templates/*.tmpl")))

	r.GET("/", s.handleIndex)
	r.GET("/healthz", s.handleHealth)
	r.GET("/report", s.handleReport)
	r.POST("/report", s.handleReportCSV)

	api := r.Group("/api")
	{
		api.POST("/analyze", s.handleAnalyze)
		api.POST("/analyze/csv", s.handleAnalyzeCSV)
	}

	return r
}

// requestLogger logs each request through slog instead of gin's writer.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

type indexData struct {
	Version string
	Formats []string
	URL     string
	Error   string
}

func (s *Server) handleIndex(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html.tmpl", indexData{
		Version: s.version,
		Formats: dashboardFormats(),
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": s.version,
	})
}

// AnalyzeRequest is the body of POST /api/analyze.
type AnalyzeRequest struct {
	URL string `json:"url" binding:"required"`
}

func (s *Server) handleAnalyze(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request body must be {\"url\": \"...\"}"})
		return
	}
	target, err := validateURL(req.URL)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.respondJSON(c, webSource(target))
}

// handleAnalyzeCSV analyzes an uploaded review CSV and answers with the
// JSON report.
func (s *Server) handleAnalyzeCSV(c *gin.Context) {
	src, err := readUpload(c)
	if err != nil {
		c.JSON(uploadStatus(err), gin.H{"error": err.Error()})
		return
	}
	s.respondJSON(c, src)
}

func (s *Server) respondJSON(c *gin.Context, src pipeline.Source) {
	result, err := s.analyze(c, src)
	if err != nil {
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": err.Error()})
		return
	}
	c.JSON(statusFor(result), report.NewJSONReport(result, s.version))
}

func (s *Server) handleReport(c *gin.Context) {
	format, ok := s.reportFormat(c, c.DefaultQuery("format", report.FormatHTML))
	if !ok {
		return
	}
	target, err := validateURL(c.Query("url"))
	if err != nil {
		s.indexError(c, http.StatusBadRequest, c.Query("url"), err)
		return
	}
	s.render(c, format, webSource(target))
}

// handleReportCSV renders the report for a review CSV uploaded from the
// dashboard form.
func (s *Server) handleReportCSV(c *gin.Context) {
	src, err := readUpload(c)
	if err != nil {
		s.indexError(c, uploadStatus(err), "", err)
		return
	}
	format, ok := s.reportFormat(c, c.DefaultPostForm("format", report.FormatHTML))
	if !ok {
		return
	}
	s.render(c, format, src)
}

func (s *Server) reportFormat(c *gin.Context, raw string) (string, bool) {
	format := strings.ToLower(raw)
	if !slices.Contains(report.Formats(), format) {
		c.String(http.StatusBadRequest, "unknown format %q", format)
		return "", false
	}
	return format, true
}

func (s *Server) indexError(c *gin.Context, status int, rawURL string, err error) {
	c.HTML(status, "index.html.tmpl", indexData{
		Version: s.version,
		Formats: dashboardFormats(),
		URL:     rawURL,
		Error:   err.Error(),
	})
}

func (s *Server) render(c *gin.Context, format string, src pipeline.Source) {
	result, err := s.analyze(c, src)
	if err != nil {
		c.String(http.StatusGatewayTimeout, "analysis cancelled: %v", err)
		return
	}

	var buf bytes.Buffer
	w, err := report.ForFormat(format, &buf, s.version)
	if err != nil {
		c.String(http.StatusBadRequest, "%v", err)
		return
	}
	if _, err := w.Write(result); err != nil {
		s.logger.Error("failed to render report", "format", format, "error", err)
		c.String(http.StatusInternalServerError, "failed to render report")
		return
	}

	if format == report.FormatPDF {
		c.Header("Content-Disposition", `inline; filename="bakeryscan-report.pdf"`)
	}
	c.Data(statusFor(result), report.ContentType(format), buf.Bytes())
}

func (s *Server) analyze(c *gin.Context, src pipeline.Source) (*model.AnalysisReport, error) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), s.timeout)
	defer cancel()

	result, err := s.analyzer.Analyze(ctx, src)
	if err != nil {
		s.logger.Warn("analysis did not complete", "source", src.Location, "error", err)
		return nil, err
	}
	return result, nil
}

func webSource(target string) pipeline.Source {
	return pipeline.Source{Location: target, Kind: model.SourceWeb}
}

// readUpload reads the multipart review CSV into a reviews source named
// after the uploaded file.
func readUpload(c *gin.Context) (pipeline.Source, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxUploadSize+1<<20)
	fh, err := c.FormFile(uploadField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return pipeline.Source{}, ErrUploadTooLarge
		}
		return pipeline.Source{}, ErrMissingUpload
	}
	if fh.Size > MaxUploadSize {
		return pipeline.Source{}, ErrUploadTooLarge
	}

	f, err := fh.Open()
	if err != nil {
		return pipeline.Source{}, fmt.Errorf("failed to open upload: %w", err)
	}
	defer f.Close() //nolint:errcheck // multipart part

	data, err := io.ReadAll(io.LimitReader(f, MaxUploadSize+1))
	if err != nil {
		return pipeline.Source{}, fmt.Errorf("failed to read upload: %w", err)
	}
	if len(data) > MaxUploadSize {
		return pipeline.Source{}, ErrUploadTooLarge
	}

	name := filepath.Base(fh.Filename)
	if name == "." || name == string(filepath.Separator) {
		name = "upload.csv"
	}
	return pipeline.Source{Location: name, Kind: model.SourceReviews, Data: data}, nil
}

func uploadStatus(err error) int {
	if errors.Is(err, ErrUploadTooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}

func validateURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return "", ErrInvalidURL
	}
	return u.String(), nil
}

func statusFor(r *model.AnalysisReport) int {
	if r.Failed() {
		return http.StatusBadGateway
	}
	return http.StatusOK
}

// dashboardFormats are the formats offered by the form. Text is API only.
func dashboardFormats() []string {
	return []string{report.FormatHTML, report.FormatPDF, report.FormatMarkdown, report.FormatJSON}
}
