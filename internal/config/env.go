package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/subosito/gotenv"
)

// Environment variables read by ApplyEnv.
const (
	EnvTimeout   = "BAKERYSCAN_TIMEOUT"
	EnvUserAgent = "BAKERYSCAN_USER_AGENT"
	EnvProxy     = "BAKERYSCAN_PROXY"
	EnvStrategy  = "BAKERYSCAN_STRATEGY"
	EnvFormula   = "BAKERYSCAN_FORMULA"
	EnvDBDir     = "BAKERYSCAN_DB_DIR"
	EnvBatchSize = "BAKERYSCAN_BATCH_SIZE"
	EnvListen    = "BAKERYSCAN_LISTEN"
)

// LoadDotEnv loads variables from a .env file into the process environment.
// Variables already set are not overwritten. A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if err := gotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides fields of c from BAKERYSCAN_* variables.
// Unset or empty variables leave the field unchanged.
func ApplyEnv(c *Config) error {
	return applyEnv(c, os.Getenv)
}

func applyEnv(c *Config, getenv func(string) string) error {
	if v := getenv(EnvTimeout); v != "" {
		d, err := parseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvTimeout, err)
		}
		c.Timeout = d
	}
	if v := getenv(EnvUserAgent); v != "" {
		c.UserAgent = v
	}
	if v := getenv(EnvProxy); v != "" {
		c.ProxyAddress = v
	}
	if v := getenv(EnvStrategy); v != "" {
		c.Strategy = v
	}
	if v := getenv(EnvFormula); v != "" {
		c.Formula = v
	}
	if v := getenv(EnvDBDir); v != "" {
		c.DBDir = v
	}
	if v := getenv(EnvBatchSize); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvBatchSize, err)
		}
		c.BatchSize = n
	}
	if v := getenv(EnvListen); v != "" {
		c.ListenAddress = v
	}
	return nil
}

// parseDuration accepts Go durations ("15s") or a bare number of seconds.
func parseDuration(v string) (time.Duration, error) {
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	return time.ParseDuration(v)
}
