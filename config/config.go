// Package config loads the service configuration from YAML with
// environment variable expansion for credentials.
package config

import (
	"fmt"
	"time"
)

// Config is the full service configuration.
type Config struct {
	Logging   LoggingConfig   `yaml:"logging"`
	Session   SessionConfig   `yaml:"session"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
	Providers ProvidersConfig `yaml:"providers"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

// SessionConfig controls call session lifecycle.
type SessionConfig struct {
	IdleMinutes   int `yaml:"idle_minutes"`
	HistoryWindow int `yaml:"history_window"`
}

// IdleTTL returns the idle timeout as a duration.
func (s SessionConfig) IdleTTL() time.Duration {
	return time.Duration(s.IdleMinutes) * time.Minute
}

// RetrievalConfig controls FAQ retrieval per turn.
type RetrievalConfig struct {
	TopK      int     `yaml:"top_k"`
	Threshold float64 `yaml:"threshold"`
}

// ProvidersConfig holds per-provider connection settings. API keys may be
// written as ${ENV_VAR} references.
type ProvidersConfig struct {
	Groq       ProviderConfig `yaml:"groq"`
	OpenRouter ProviderConfig `yaml:"openrouter"`
	Ollama     ProviderConfig `yaml:"ollama"`
	Sarvam     ProviderConfig `yaml:"sarvam"`
	Embeddings ProviderConfig `yaml:"embeddings"`
	Coqui      ProviderConfig `yaml:"coqui"`
}

// ProviderConfig is one provider's connection settings.
type ProviderConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Logging: LoggingConfig{
			Level:  "info",
			Pretty: false,
		},
		Session: SessionConfig{
			IdleMinutes:   15,
			HistoryWindow: 8,
		},
		Retrieval: RetrievalConfig{
			TopK:      3,
			Threshold: 0.5,
		},
	}
}

// Validate rejects configurations that cannot run.
func (c Config) Validate() error {
	if c.Session.IdleMinutes <= 0 {
		return fmt.Errorf("config: session.idle_minutes must be positive, got %d", c.Session.IdleMinutes)
	}
	if c.Session.HistoryWindow <= 0 {
		return fmt.Errorf("config: session.history_window must be positive, got %d", c.Session.HistoryWindow)
	}
	if c.Retrieval.TopK <= 0 {
		return fmt.Errorf("config: retrieval.top_k must be positive, got %d", c.Retrieval.TopK)
	}
	if c.Retrieval.Threshold < 0 || c.Retrieval.Threshold > 1 {
		return fmt.Errorf("config: retrieval.threshold must be in [0,1], got %g", c.Retrieval.Threshold)
	}
	return nil
}
