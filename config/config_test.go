package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vaani.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Session.IdleMinutes != 15 || cfg.Session.HistoryWindow != 8 {
		t.Fatalf("session defaults = %+v", cfg.Session)
	}
	if cfg.Retrieval.TopK != 3 || cfg.Retrieval.Threshold != 0.5 {
		t.Fatalf("retrieval defaults = %+v", cfg.Retrieval)
	}
	if cfg.Logging.Level != "info" {
		t.Fatalf("log level = %q", cfg.Logging.Level)
	}
}

func TestLoadMergesDefaults(t *testing.T) {
	path := writeConfig(t, `
logging:
  level: debug
retrieval:
  top_k: 5
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("log level = %q", cfg.Logging.Level)
	}
	if cfg.Retrieval.TopK != 5 {
		t.Fatalf("top_k = %d", cfg.Retrieval.TopK)
	}
	// Unset fields keep their defaults.
	if cfg.Retrieval.Threshold != 0.5 || cfg.Session.IdleMinutes != 15 {
		t.Fatalf("defaults not merged: %+v", cfg)
	}
}

func TestLoadExpandsEnvInKeys(t *testing.T) {
	t.Setenv("TEST_GROQ_KEY", "gk-secret")
	path := writeConfig(t, `
providers:
  groq:
    api_key: ${TEST_GROQ_KEY}
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Providers.Groq.APIKey != "gk-secret" {
		t.Fatalf("api key = %q", cfg.Providers.Groq.APIKey)
	}
}

func TestLoadLeavesUnsetEnvReference(t *testing.T) {
	path := writeConfig(t, `
providers:
  sarvam:
    api_key: ${DEFINITELY_NOT_SET_ANYWHERE}
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Providers.Sarvam.APIKey != "${DEFINITELY_NOT_SET_ANYWHERE}" {
		t.Fatalf("api key = %q, want reference preserved", cfg.Providers.Sarvam.APIKey)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("VAANI_LOG_LEVEL", "WARN")
	t.Setenv("GROQ_API_KEY", "gk-env")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Logging.Level != "warn" {
		t.Fatalf("log level = %q", cfg.Logging.Level)
	}
	if cfg.Providers.Groq.APIKey != "gk-env" {
		t.Fatalf("api key = %q", cfg.Providers.Groq.APIKey)
	}
}

func TestValidate(t *testing.T) {
	cfg := Defaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}

	bad := Defaults()
	bad.Retrieval.Threshold = 1.5
	if err := bad.Validate(); err == nil {
		t.Fatal("threshold above 1 must fail validation")
	}

	bad = Defaults()
	bad.Session.IdleMinutes = -1
	if err := bad.Validate(); err == nil {
		t.Fatal("negative idle minutes must fail validation")
	}
}

func TestIdleTTL(t *testing.T) {
	s := SessionConfig{IdleMinutes: 15}
	if s.IdleTTL() != 15*time.Minute {
		t.Fatalf("IdleTTL = %s", s.IdleTTL())
	}
}
