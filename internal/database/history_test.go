package database

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nao1215/bakeryscan/internal/model"
)

// setupTestDB creates a temporary database for testing.
func setupTestDB(t *testing.T) *HistoryDB {
	t.Helper()

	db, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newReport(source string, at time.Time, health int, items ...string) *model.AnalysisReport {
	r := model.NewAnalysisReport(source, model.SourceWeb)
	r.AnalyzedAt = at
	r.Health = model.NewHealthScore(health, "positive30")
	for _, item := range items {
		r.Items = append(r.Items, model.KeywordHit{Term: item, Count: 1})
	}
	return r
}

func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("creates database in new directory", func(t *testing.T) {
		t.Parallel()

		dbDir := filepath.Join(t.TempDir(), "newdir", "subdir")
		db, err := Open(dbDir, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()

		if _, err := os.Stat(filepath.Join(dbDir, FileName)); err != nil {
			t.Errorf("database file was not created: %v", err)
		}
		if db.Path() != filepath.Join(dbDir, FileName) {
			t.Errorf("Path() = %q", db.Path())
		}
	})

	t.Run("CreateIfNotExists=false fails for missing database", func(t *testing.T) {
		t.Parallel()

		_, err := Open(t.TempDir(), Options{CreateIfNotExists: false})
		if err == nil {
			t.Error("expected error for missing database")
		}
	})

	t.Run("reopens existing database", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		db, err := Open(dir, DefaultOptions())
		if err != nil {
			t.Fatal(err)
		}
		_ = db.Close()

		db, err = Open(dir, Options{CreateIfNotExists: false, EnableWAL: true})
		if err != nil {
			t.Fatalf("failed to reopen: %v", err)
		}
		_ = db.Close()
	})
}

func TestSaveAndGetByID(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	r := newReport("https://sunrise.example", time.Now(), 81, "cake", "bread")
	r.Sentiment = model.SentimentScore{Positive: 0.5, Neutral: 0.5, Label: model.SentimentPositive}
	if err := db.Save(ctx, r); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	got, err := db.GetByID(ctx, r.ID)
	if err != nil {
		t.Fatalf("GetByID() error: %v", err)
	}
	if got.Source != r.Source || got.Health.Value != 81 || got.Health.Band != model.BandGood {
		t.Errorf("unexpected report %+v", got)
	}
	if len(got.Items) != 2 || got.Sentiment.Label != model.SentimentPositive {
		t.Errorf("report body not round-tripped: %+v", got)
	}

	// Saving again replaces the row.
	r.Health = model.NewHealthScore(20, "positive30")
	if err := db.Save(ctx, r); err != nil {
		t.Fatal(err)
	}
	history, err := db.History(ctx, r.Source)
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 1 || history[0].Health != 20 || history[0].Band != model.BandPoor {
		t.Errorf("History() = %+v", history)
	}

	if _, err := db.GetByID(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestHistoryOrdering(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

	for i, health := range []int{40, 55, 70} {
		at := base.Add(time.Duration(i) * 24 * time.Hour)
		if i == 1 {
			at = at.Add(500 * time.Millisecond)
		}
		if err := db.Save(ctx, newReport("https://sunrise.example", at, health)); err != nil {
			t.Fatal(err)
		}
	}
	failed := newReport("https://other.example", base, 0)
	failed.Fail(model.NewFailure(model.FailureFetch, "503"))
	if err := db.Save(ctx, failed); err != nil {
		t.Fatal(err)
	}

	history, err := db.History(ctx, "https://sunrise.example")
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(history))
	}
	if history[0].Health != 70 || history[2].Health != 40 {
		t.Errorf("history not newest first: %+v", history)
	}
	if !history[0].AnalyzedAt.Equal(base.Add(48 * time.Hour)) {
		t.Errorf("AnalyzedAt = %v", history[0].AnalyzedAt)
	}

	latest, err := db.Latest(ctx, "https://sunrise.example", 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(latest) != 2 || latest[0].Health.Value != 70 || latest[1].Health.Value != 55 {
		t.Errorf("Latest() returned wrong reports")
	}

	other, err := db.History(ctx, "https://other.example")
	if err != nil {
		t.Fatal(err)
	}
	if len(other) != 1 || other[0].Failure != "Error: 503" {
		t.Errorf("failure not stored: %+v", other)
	}
}

func TestListSources(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

	_ = db.Save(ctx, newReport("https://b.example", base, 50))
	_ = db.Save(ctx, newReport("https://a.example", base, 60))
	_ = db.Save(ctx, newReport("https://a.example", base.Add(time.Hour), 65))

	sources, err := db.ListSources(ctx)
	if err != nil {
		t.Fatalf("ListSources() error: %v", err)
	}
	if len(sources) != 2 {
		t.Fatalf("expected 2 sources, got %d", len(sources))
	}
	a := sources[0]
	if a.Source != "https://a.example" || a.Count != 2 || a.LastHealth != 65 {
		t.Errorf("unexpected summary %+v", a)
	}
	if !a.LastAnalyzed.Equal(base.Add(time.Hour)) {
		t.Errorf("LastAnalyzed = %v", a.LastAnalyzed)
	}
}

func TestParseTimestamp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		zero bool
	}{
		{"2026-03-01T08:00:00.000000000Z", false},
		{"2026-03-01T08:00:00Z", false},
		{"2026-03-01 08:00:00", false},
		{"yesterday", true},
	}
	for _, tt := range tests {
		if got := parseTimestamp(tt.in); got.IsZero() != tt.zero {
			t.Errorf("parseTimestamp(%q) = %v", tt.in, got)
		}
	}
}
