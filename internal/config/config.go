package config

import (
	"path/filepath"
	"slices"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// AppName is used for XDG directory paths and the config file name.
	AppName = "bakeryscan"

	// DefaultTimeout bounds a single page fetch.
	DefaultTimeout = 10 * time.Second

	// MinTimeout and MaxTimeout bound the configurable fetch timeout.
	MinTimeout = 1 * time.Second
	MaxTimeout = 5 * time.Minute

	// DefaultUserAgent is a browser-like string. Many small shop sites
	// reject requests without one.
	DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"

	// DefaultMaxBodySize caps how much of a response body is read.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB

	// DefaultBatchSize is the number of sources analyzed concurrently.
	DefaultBatchSize = 4

	// DefaultItemLimit is how many detected items are kept per analysis.
	DefaultItemLimit = 10

	// DefaultTopWords is how many frequent words feed the word cloud.
	DefaultTopWords = 30

	// DefaultSampleSize applies to the head and blocks sample modes.
	DefaultSampleSize = 1000

	// DefaultListenAddress is where the dashboard server listens.
	DefaultListenAddress = "127.0.0.1:8080"

	// DefaultWatchSchedule re-analyzes watched sites once a day.
	DefaultWatchSchedule = "@daily"
)

// Extractor strategy names.
const (
	StrategyVocabulary = "regex-vocabulary"
	StrategyDOM        = "dom-selector"
	StrategyPOS        = "pos-tag"
)

// Health score formula preset names.
const (
	FormulaPositive   = "positive"
	FormulaPositive20 = "positive20"
	FormulaPositive30 = "positive30"
	FormulaVariety    = "variety"
)

// Sentiment sample modes.
const (
	SampleFull   = "full"
	SampleHead   = "head"
	SampleBlocks = "blocks"
)

// Strategies lists every accepted extractor strategy name.
func Strategies() []string {
	return []string{StrategyVocabulary, StrategyDOM, StrategyPOS}
}

// Formulas lists every accepted formula preset name.
func Formulas() []string {
	return []string{FormulaPositive, FormulaPositive20, FormulaPositive30, FormulaVariety}
}

// SampleModes lists every accepted sentiment sample mode.
func SampleModes() []string {
	return []string{SampleFull, SampleHead, SampleBlocks}
}

// Config holds all options for one bakeryscan run.
// It is populated from CLI flags, the config file and the environment,
// then passed down explicitly.
type Config struct {
	// Targets is the list of URLs to analyze.
	Targets []string

	// CSVPath is a review file to analyze instead of, or along with, Targets.
	CSVPath string

	// Timeout bounds each HTTP request.
	Timeout time.Duration

	// UserAgent is sent with every request unless a site overrides it.
	UserAgent string

	// ProxyAddress is an optional SOCKS5 proxy in host:port form.
	ProxyAddress string

	// MaxBodySize caps response bodies in bytes.
	MaxBodySize int64

	// BatchSize is the number of concurrent analyses.
	BatchSize int

	// Strategy selects the product extractor.
	Strategy string

	// Formula selects the health score preset.
	Formula string

	// SampleMode selects what text is fed to the sentiment scorer.
	SampleMode string

	// SampleSize is the character or sentence count for non-full modes.
	SampleSize int

	// StripChrome also drops nav, header, footer and aside content.
	StripChrome bool

	// ItemLimit truncates the detected item list.
	ItemLimit int

	// TopWords is the number of frequent words kept for the word cloud.
	TopWords int

	// Verbose enables debug logging.
	Verbose bool

	// ConfigFilePath is an explicit path to the YAML config file.
	ConfigFilePath string

	// SiteConfigs is the loaded config file, or nil when none was found.
	SiteConfigs *File

	JSONReport     bool
	MarkdownReport bool
	HTMLReport     bool

	// PDFFile, when set, also renders a PDF report to this path.
	PDFFile string

	// ReportFile redirects the text report from stdout to a file.
	ReportFile string

	// DBDir is the directory of the history database.
	DBDir string

	// SaveToDB stores each report in the history database.
	SaveToDB bool

	// ListenAddress is used by the serve command.
	ListenAddress string

	// WatchSchedule is the cron spec used by the watch command.
	WatchSchedule string
}

// NewConfig returns a Config populated with defaults.
func NewConfig() *Config {
	return &Config{
		Timeout:       DefaultTimeout,
		UserAgent:     DefaultUserAgent,
		MaxBodySize:   DefaultMaxBodySize,
		BatchSize:     DefaultBatchSize,
		Strategy:      StrategyVocabulary,
		Formula:       FormulaPositive30,
		SampleMode:    SampleFull,
		SampleSize:    DefaultSampleSize,
		ItemLimit:     DefaultItemLimit,
		TopWords:      DefaultTopWords,
		DBDir:         XDGDataDir(),
		SaveToDB:      true,
		ListenAddress: DefaultListenAddress,
		WatchSchedule: DefaultWatchSchedule,
	}
}

// XDGDataDir returns the data directory, e.g. ~/.local/share/bakeryscan.
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the config directory, e.g. ~/.config/bakeryscan.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks the configuration and returns the first problem found.
// Targets are not required here; commands that need them check separately
// with RequireSource.
func (c *Config) Validate() error {
	if c.Timeout < MinTimeout || c.Timeout > MaxTimeout {
		return ErrInvalidTimeout
	}
	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}
	if c.ItemLimit < 0 {
		return ErrInvalidItemLimit
	}
	if countTrue(c.JSONReport, c.MarkdownReport, c.HTMLReport) > 1 {
		return ErrConflictingReportFormats
	}
	if !slices.Contains(Strategies(), c.Strategy) {
		return ErrUnknownStrategy
	}
	if !slices.Contains(Formulas(), c.Formula) {
		return ErrUnknownFormula
	}
	if !slices.Contains(SampleModes(), c.SampleMode) {
		return ErrUnknownSampleMode
	}
	if c.SampleMode != SampleFull && c.SampleSize <= 0 {
		return ErrInvalidSampleSize
	}
	return nil
}

// RequireSource returns ErrNoTarget unless a URL or CSV file was given.
func (c *Config) RequireSource() error {
	if len(c.Targets) == 0 && c.CSVPath == "" {
		return ErrNoTarget
	}
	return nil
}

// EffectiveMaxBodySize returns MaxBodySize or the default when unset.
func (c *Config) EffectiveMaxBodySize() int64 {
	if c.MaxBodySize <= 0 {
		return DefaultMaxBodySize
	}
	return c.MaxBodySize
}

func countTrue(flags ...bool) int {
	n := 0
	for _, f := range flags {
		if f {
			n++
		}
	}
	return n
}
