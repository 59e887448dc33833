// Package config reads process configuration from the environment.
package config

import (
	"os"
	"strconv"
	"time"
)

// Environment variable names.
const (
	EnvCacheTTL   = "COURTWATCH_CACHE_TTL"   // seconds
	EnvWaitBudget = "COURTWATCH_WAIT_BUDGET" // seconds
	EnvHeadless   = "COURTWATCH_HEADLESS"    // true/false
	EnvSlowMo     = "COURTWATCH_SLOWMO"      // milliseconds
	EnvDataDir    = "COURTWATCH_DATA_DIR"
	EnvBaseURL    = "COURTWATCH_BASE_URL"
	EnvOpenData   = "COURTWATCH_OPEN_DATA_URL"
)

// Config holds settings read once at provider construction.
type Config struct {
	CacheTTL    time.Duration
	WaitBudget  time.Duration
	Headless    bool
	SlowMo      time.Duration
	DataDir     string
	BaseURL     string
	OpenDataURL string
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		CacheTTL:   300 * time.Second,
		WaitBudget: 90 * time.Second,
		Headless:   true,
		SlowMo:     0,
		DataDir:    "~/.local/share/courtwatch",
	}
}

// FromEnv returns Default overridden by any set environment variables.
// Unparsable values fall back to the default silently.
func FromEnv() Config {
	cfg := Default()

	if v := os.Getenv(EnvCacheTTL); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			cfg.CacheTTL = time.Duration(secs) * time.Second
		}
	}
	if v := os.Getenv(EnvWaitBudget); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			cfg.WaitBudget = time.Duration(secs) * time.Second
		}
	}
	if v := os.Getenv(EnvHeadless); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Headless = b
		}
	}
	if v := os.Getenv(EnvSlowMo); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms >= 0 {
			cfg.SlowMo = time.Duration(ms) * time.Millisecond
		}
	}
	if v := os.Getenv(EnvDataDir); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv(EnvBaseURL); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv(EnvOpenData); v != "" {
		cfg.OpenDataURL = v
	}

	return cfg
}
