package pipeline

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nao1215/bakeryscan/internal/model"
)

func TestBatchProcessorNew(t *testing.T) {
	t.Parallel()

	t.Run("creates processor with defaults", func(t *testing.T) {
		t.Parallel()

		bp := NewBatchProcessor(func(Source) *Pipeline { return New() })
		if bp.concurrency != 4 {
			t.Errorf("expected default concurrency 4, got %d", bp.concurrency)
		}
		if bp.logger == nil {
			t.Error("expected default logger")
		}
	})

	t.Run("ignores non-positive concurrency", func(t *testing.T) {
		t.Parallel()

		bp := NewBatchProcessor(func(Source) *Pipeline { return New() }, WithConcurrency(0), WithConcurrency(-3))
		if bp.concurrency != 4 {
			t.Errorf("expected concurrency 4, got %d", bp.concurrency)
		}
	})
}

func TestWebSources(t *testing.T) {
	t.Parallel()

	sources := WebSources([]string{"a.example", "b.example"})
	if len(sources) != 2 || sources[1].Location != "b.example" || sources[1].Kind != model.SourceWeb {
		t.Errorf("WebSources() = %+v", sources)
	}
}

func TestBatchProcessorProcessBatch(t *testing.T) {
	t.Parallel()

	t.Run("maintains result order", func(t *testing.T) {
		t.Parallel()

		bp := NewBatchProcessor(func(src Source) *Pipeline {
			p := New(WithLogger(quietLogger()))
			p.AddStep(&mockStep{name: "title", doFunc: func(_ context.Context, r *model.AnalysisReport) error {
				r.Title = "title of " + src.Location
				return nil
			}})
			return p
		}, WithConcurrency(3), WithBatchLogger(quietLogger()))

		sources := WebSources([]string{"a", "b", "c", "d", "e"})
		reports, err := bp.ProcessBatch(context.Background(), sources)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for i, r := range reports {
			if r == nil || r.Source != sources[i].Location || r.Title != "title of "+sources[i].Location {
				t.Errorf("report %d out of order: %+v", i, r)
			}
		}
	})

	t.Run("respects concurrency limit", func(t *testing.T) {
		t.Parallel()

		var maxConcurrent atomic.Int32
		var current atomic.Int32
		var mu sync.Mutex

		bp := NewBatchProcessor(func(Source) *Pipeline {
			p := New(WithLogger(quietLogger()))
			p.AddStep(&mockStep{name: "slow", doFunc: func(context.Context, *model.AnalysisReport) error {
				n := current.Add(1)
				mu.Lock()
				if n > maxConcurrent.Load() {
					maxConcurrent.Store(n)
				}
				mu.Unlock()
				time.Sleep(30 * time.Millisecond)
				current.Add(-1)
				return nil
			}})
			return p
		}, WithConcurrency(2), WithBatchLogger(quietLogger()))

		sources := WebSources(make([]string, 8))
		if _, err := bp.ProcessBatch(context.Background(), sources); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if maxConcurrent.Load() > 2 {
			t.Errorf("max concurrent was %d, expected <= 2", maxConcurrent.Load())
		}
	})

	t.Run("continues after individual failure", func(t *testing.T) {
		t.Parallel()

		bp := NewBatchProcessor(func(src Source) *Pipeline {
			p := New(WithLogger(quietLogger()))
			p.AddStep(&mockStep{name: "fetch", doFunc: func(context.Context, *model.AnalysisReport) error {
				if src.Location == "bad" {
					return model.NewFailure(model.FailureFetch, "500")
				}
				return nil
			}})
			return p
		}, WithBatchLogger(quietLogger()))

		reports, err := bp.ProcessBatch(context.Background(), WebSources([]string{"good", "bad", "good"}))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if reports[0].Failed() || !reports[1].Failed() || reports[2].Failed() {
			t.Error("only the bad source should fail")
		}
	})

	t.Run("handles context cancellation", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		bp := NewBatchProcessor(func(Source) *Pipeline { return New(WithLogger(quietLogger())) },
			WithBatchLogger(quietLogger()))
		_, err := bp.ProcessBatch(ctx, WebSources([]string{"a", "b"}))
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})
}

func TestBatchProcessorProcessBatchWithCallback(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	seen := make([]bool, 3)

	bp := NewBatchProcessor(func(Source) *Pipeline { return New(WithLogger(quietLogger())) },
		WithBatchLogger(quietLogger()))
	err := bp.ProcessBatchWithCallback(context.Background(), WebSources([]string{"a", "b", "c"}),
		func(_ *model.AnalysisReport, index int) {
			calls.Add(1)
			seen[index] = true
		})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls.Load() != 3 {
		t.Errorf("expected 3 callbacks, got %d", calls.Load())
	}
	for i, ok := range seen {
		if !ok {
			t.Errorf("index %d never reported", i)
		}
	}
}
