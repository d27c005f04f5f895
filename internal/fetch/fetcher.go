package fetch

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/nao1215/bakeryscan/internal/model"
)

// DefaultMaxBodySize caps response bodies when no size is configured.
const DefaultMaxBodySize = 5 * 1024 * 1024

// Fetcher downloads a single page per call.
type Fetcher struct {
	client      *http.Client
	maxBodySize int64
	logger      *slog.Logger
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithMaxBodySize caps how many body bytes are read.
func WithMaxBodySize(n int64) FetcherOption {
	return func(f *Fetcher) {
		if n > 0 {
			f.maxBodySize = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) FetcherOption {
	return func(f *Fetcher) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// NewFetcher creates a Fetcher using client for requests.
func NewFetcher(client *http.Client, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		client:      client,
		maxBodySize: DefaultMaxBodySize,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch performs one GET request for rawURL.
//
// Every failure is returned as a *model.Failure of kind fetch-error:
// an invalid URL, a transport error (DNS, refused connection, TLS,
// timeout) or any status other than 200. The failure detail for a bad
// status is the numeric code, so its sentinel reads "Error: 404".
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*model.RawDocument, error) {
	target, err := NormalizeURL(rawURL)
	if err != nil {
		return nil, model.NewFailure(model.FailureFetch, err.Error())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		return nil, model.NewFailure(model.FailureFetch, err.Error())
	}

	f.logger.Debug("fetching page", "url", target)

	resp, err := f.client.Do(req)
	if err != nil {
		f.logger.Debug("fetch failed", "url", target, "error", err)
		return nil, model.NewFailure(model.FailureFetch, describeTransportError(ctx, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain a little so the connection can be reused.
		_, _ = io.CopyN(io.Discard, resp.Body, 4096) //nolint:errcheck // best effort drain
		return nil, model.NewFailure(model.FailureFetch, strconv.Itoa(resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize+1))
	if err != nil {
		return nil, model.NewFailure(model.FailureFetch, describeTransportError(ctx, err))
	}

	doc := &model.RawDocument{
		SourceURL:   rawURL,
		FinalURL:    resp.Request.URL.String(),
		FetchedAt:   time.Now(),
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Raw:         body,
	}
	if int64(len(body)) > f.maxBodySize {
		doc.Raw = body[:f.maxBodySize]
		doc.Truncated = true
	}
	doc.ComputeHash()

	f.logger.Debug("fetched page",
		"url", target,
		"bytes", len(doc.Raw),
		"truncated", doc.Truncated,
	)
	return doc, nil
}

// describeTransportError keeps messages short for common cases.
func describeTransportError(ctx context.Context, err error) string {
	switch {
	case errors.Is(ctx.Err(), context.Canceled):
		return "request cancelled"
	case errors.Is(err, context.DeadlineExceeded) || isTimeout(err):
		return "request timed out: " + err.Error()
	default:
		return err.Error()
	}
}

func isTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}
