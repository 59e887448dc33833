package config

import (
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg := FromEnv()

	if cfg.CacheTTL != 300*time.Second {
		t.Errorf("CacheTTL = %v, expected 300s", cfg.CacheTTL)
	}
	if cfg.WaitBudget != 90*time.Second {
		t.Errorf("WaitBudget = %v, expected 90s", cfg.WaitBudget)
	}
	if !cfg.Headless {
		t.Error("expected Headless to default to true")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(EnvCacheTTL, "60")
	t.Setenv(EnvWaitBudget, "15")
	t.Setenv(EnvHeadless, "false")
	t.Setenv(EnvSlowMo, "250")
	t.Setenv(EnvDataDir, "/tmp/cw")
	t.Setenv(EnvBaseURL, "https://reserve.example.net")
	t.Setenv(EnvOpenData, "https://data.example.net/facilities.json")

	cfg := FromEnv()
	if cfg.CacheTTL != time.Minute {
		t.Errorf("CacheTTL = %v, expected 1m", cfg.CacheTTL)
	}
	if cfg.WaitBudget != 15*time.Second {
		t.Errorf("WaitBudget = %v, expected 15s", cfg.WaitBudget)
	}
	if cfg.Headless {
		t.Error("expected Headless override to false")
	}
	if cfg.SlowMo != 250*time.Millisecond {
		t.Errorf("SlowMo = %v, expected 250ms", cfg.SlowMo)
	}
	if cfg.DataDir != "/tmp/cw" {
		t.Errorf("DataDir = %q, expected override", cfg.DataDir)
	}
	if cfg.BaseURL != "https://reserve.example.net" {
		t.Errorf("BaseURL = %q, expected override", cfg.BaseURL)
	}
	if cfg.OpenDataURL != "https://data.example.net/facilities.json" {
		t.Errorf("OpenDataURL = %q, expected override", cfg.OpenDataURL)
	}
}

func TestUnparsableValuesKeepDefaults(t *testing.T) {
	t.Setenv(EnvCacheTTL, "soon")
	t.Setenv(EnvHeadless, "sideways")

	cfg := FromEnv()
	if cfg.CacheTTL != 300*time.Second {
		t.Errorf("CacheTTL = %v, expected default for junk input", cfg.CacheTTL)
	}
	if !cfg.Headless {
		t.Error("expected Headless default for junk input")
	}
}
