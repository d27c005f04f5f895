package config

import (
	"net/url"
	"strings"
)

// SiteConfig holds per-site request and analysis settings.
type SiteConfig struct {
	// UserAgent overrides the global User-Agent for this site.
	UserAgent string `yaml:"userAgent,omitempty"`

	// Cookie is sent as the Cookie header, e.g. "name=value; other=1".
	Cookie string `yaml:"cookie,omitempty"`

	// Headers are extra request headers.
	Headers map[string]string `yaml:"headers,omitempty"`

	// Strategy overrides the extractor strategy for this site.
	Strategy string `yaml:"strategy,omitempty"`

	// StripChrome drops nav, header and footer text for this site.
	StripChrome bool `yaml:"stripChrome,omitempty"`
}

// CategoryConfig declares one category for bucketing. Order in the file
// is significant: the first category that lists a term claims it.
type CategoryConfig struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

// FormulaConfig selects a preset and optionally overrides its weights.
// Nil fields keep the preset value.
type FormulaConfig struct {
	Preset         string   `yaml:"preset,omitempty"`
	Offset         *float64 `yaml:"offset,omitempty"`
	PositiveWeight *float64 `yaml:"positiveWeight,omitempty"`
	NegativeWeight *float64 `yaml:"negativeWeight,omitempty"`
	PerTermBonus   *float64 `yaml:"perTermBonus,omitempty"`
	TermBonusCap   *float64 `yaml:"termBonusCap,omitempty"`
}

// WatchConfig lists sites that the watch command re-analyzes.
type WatchConfig struct {
	// Schedule is a cron spec such as "@daily" or "0 6 * * *".
	Schedule string `yaml:"schedule,omitempty"`

	// Targets are the URLs to analyze on each run.
	Targets []string `yaml:"targets,omitempty"`
}

// File is the structure of the .bakeryscan configuration file.
type File struct {
	// Defaults apply to every site unless a site entry overrides them.
	Defaults SiteConfig `yaml:"defaults,omitempty"`

	// Sites maps host names (without scheme or "www.") to settings.
	Sites map[string]SiteConfig `yaml:"sites,omitempty"`

	// Vocabulary replaces the built-in bakery term list when set.
	Vocabulary []string `yaml:"vocabulary,omitempty"`

	// Categories replaces the built-in category list when set.
	Categories []CategoryConfig `yaml:"categories,omitempty"`

	Formula FormulaConfig `yaml:"formula,omitempty"`

	Watch WatchConfig `yaml:"watch,omitempty"`
}

// GetSiteConfig returns the settings for target merged over the defaults.
// Target may be a full URL or a bare host.
func (cf *File) GetSiteConfig(target string) SiteConfig {
	result := cf.Defaults
	if cf.Defaults.Headers != nil {
		result.Headers = make(map[string]string, len(cf.Defaults.Headers))
		for k, v := range cf.Defaults.Headers {
			result.Headers[k] = v
		}
	}

	siteConfig, ok := cf.Sites[SiteKey(target)]
	if !ok {
		return result
	}

	if siteConfig.UserAgent != "" {
		result.UserAgent = siteConfig.UserAgent
	}
	if siteConfig.Cookie != "" {
		result.Cookie = siteConfig.Cookie
	}
	if siteConfig.Strategy != "" {
		result.Strategy = siteConfig.Strategy
	}
	if siteConfig.StripChrome {
		result.StripChrome = true
	}
	if len(siteConfig.Headers) > 0 {
		if result.Headers == nil {
			result.Headers = make(map[string]string)
		}
		for k, v := range siteConfig.Headers {
			result.Headers[k] = v
		}
	}
	return result
}

// SiteKey reduces a URL or host to the key used in the Sites map.
func SiteKey(target string) string {
	s := strings.TrimSpace(strings.ToLower(target))
	if !strings.Contains(s, "://") {
		s = "http://" + s
	}
	u, err := url.Parse(s)
	if err != nil || u.Hostname() == "" {
		return strings.TrimPrefix(strings.ToLower(target), "www.")
	}
	return strings.TrimPrefix(u.Hostname(), "www.")
}
