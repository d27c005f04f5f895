package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/bakeryscan/internal/model"
)

// FileName is the database file created inside the data directory.
const FileName = "bakeryscan.db"

// storedTimeLayout has a fixed fraction width so stored timestamps sort
// chronologically as text.
const storedTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ErrNotFound is returned when a requested report does not exist.
var ErrNotFound = errors.New("report not found")

// HistoryDB stores analysis reports.
type HistoryDB struct {
	db     *sql.DB
	dbPath string
}

// Options configures HistoryDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates the history database in dbDir.
// Without CreateIfNotExists a missing database is an error.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s: %w", dbPath, err)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite has a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HistoryDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := hdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return hdb, nil
}

// Path returns the database file path.
func (h *HistoryDB) Path() string {
	return h.dbPath
}

// Close closes the database connection.
func (h *HistoryDB) Close() error {
	return h.db.Close()
}

func (h *HistoryDB) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS reports (
		id TEXT PRIMARY KEY,
		source TEXT NOT NULL,
		kind TEXT NOT NULL,
		analyzed_at TEXT NOT NULL,
		health INTEGER NOT NULL,
		band TEXT NOT NULL,
		failure TEXT,
		report_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_reports_source ON reports(source);
	CREATE INDEX IF NOT EXISTS idx_reports_analyzed_at ON reports(analyzed_at);
	`

	_, err := h.db.ExecContext(context.Background(), schema)
	return err
}

// Save stores report. Saving the same report ID again replaces it.
func (h *HistoryDB) Save(ctx context.Context, report *model.AnalysisReport) error {
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to serialize report: %w", err)
	}

	var failure sql.NullString
	if report.Failure != nil {
		failure = sql.NullString{String: report.Failure.Sentinel(), Valid: true}
	}

	query := `
	INSERT OR REPLACE INTO reports (id, source, kind, analyzed_at, health, band, failure, report_json)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = h.db.ExecContext(ctx, query,
		report.ID,
		report.Source,
		string(report.Kind),
		report.AnalyzedAt.UTC().Format(storedTimeLayout),
		report.Health.Value,
		report.Health.Band.String(),
		failure,
		string(reportJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}
	return nil
}

// ReportMetadata summarizes a stored report without decoding it.
type ReportMetadata struct {
	ID         string
	Source     string
	Kind       model.SourceKind
	AnalyzedAt time.Time
	Health     int
	Band       model.Band

	// Failure is the sentinel of a failed analysis, empty otherwise.
	Failure string
}

// SourceSummary describes one analyzed source.
type SourceSummary struct {
	Source       string
	Kind         model.SourceKind
	Count        int
	LastAnalyzed time.Time
	LastHealth   int
}

// ListSources returns every analyzed source ordered by name.
func (h *HistoryDB) ListSources(ctx context.Context) ([]SourceSummary, error) {
	query := `
	SELECT source, kind, COUNT(*), MAX(analyzed_at),
		(SELECT r2.health FROM reports r2 WHERE r2.source = r.source ORDER BY r2.analyzed_at DESC LIMIT 1)
	FROM reports r
	GROUP BY source, kind
	ORDER BY source
	`

	rows, err := h.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list sources: %w", err)
	}
	defer rows.Close()

	var sources []SourceSummary
	for rows.Next() {
		var s SourceSummary
		var kind, last string
		if err := rows.Scan(&s.Source, &kind, &s.Count, &last, &s.LastHealth); err != nil {
			return nil, fmt.Errorf("failed to scan source: %w", err)
		}
		s.Kind = model.SourceKind(kind)
		s.LastAnalyzed = parseTimestamp(last)
		sources = append(sources, s)
	}

	return sources, rows.Err()
}

// History returns metadata for every report of source, newest first.
func (h *HistoryDB) History(ctx context.Context, source string) ([]ReportMetadata, error) {
	query := `
	SELECT id, source, kind, analyzed_at, health, band, failure
	FROM reports
	WHERE source = ?
	ORDER BY analyzed_at DESC
	`

	rows, err := h.db.QueryContext(ctx, query, source)
	if err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}
	defer rows.Close()

	var results []ReportMetadata
	for rows.Next() {
		var meta ReportMetadata
		var kind, analyzedAt, band string
		var failure sql.NullString

		if err := rows.Scan(&meta.ID, &meta.Source, &kind, &analyzedAt, &meta.Health, &band, &failure); err != nil {
			return nil, fmt.Errorf("failed to scan metadata: %w", err)
		}
		meta.Kind = model.SourceKind(kind)
		meta.AnalyzedAt = parseTimestamp(analyzedAt)
		meta.Band = model.ParseBand(band)
		meta.Failure = failure.String
		results = append(results, meta)
	}

	return results, rows.Err()
}

// Latest returns up to n full reports for source, newest first.
// Reports whose JSON cannot be decoded are skipped.
func (h *HistoryDB) Latest(ctx context.Context, source string, n int) ([]*model.AnalysisReport, error) {
	query := `
	SELECT report_json FROM reports
	WHERE source = ?
	ORDER BY analyzed_at DESC
	LIMIT ?
	`

	rows, err := h.db.QueryContext(ctx, query, source, n)
	if err != nil {
		return nil, fmt.Errorf("failed to get reports: %w", err)
	}
	defer rows.Close()

	var reports []*model.AnalysisReport
	for rows.Next() {
		var reportJSON string
		if err := rows.Scan(&reportJSON); err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}

		var report model.AnalysisReport
		if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
			continue
		}
		reports = append(reports, &report)
	}

	return reports, rows.Err()
}

// GetByID returns the report with id, or ErrNotFound.
func (h *HistoryDB) GetByID(ctx context.Context, id string) (*model.AnalysisReport, error) {
	var reportJSON string
	err := h.db.QueryRowContext(ctx, "SELECT report_json FROM reports WHERE id = ?", id).Scan(&reportJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}

	var report model.AnalysisReport
	if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}
	return &report, nil
}

// timestampFormats are tried in order by parseTimestamp.
var timestampFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// parseTimestamp returns the zero time for unparseable input.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
