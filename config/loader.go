package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// envVarPattern matches ${VAR_NAME} patterns in strings.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// expandEnvVars replaces ${VAR} patterns with environment variable values.
// Unset variables are left unchanged.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[2 : len(match)-1]
		if val, ok := os.LookupEnv(varName); ok {
			return val
		}
		return match
	})
}

// expandSensitiveFields processes environment variable references in
// credential fields so API keys can be stored as ${ENV_VAR}.
func expandSensitiveFields(cfg *Config) {
	for _, p := range []*ProviderConfig{
		&cfg.Providers.Groq,
		&cfg.Providers.OpenRouter,
		&cfg.Providers.Ollama,
		&cfg.Providers.Sarvam,
		&cfg.Providers.Embeddings,
		&cfg.Providers.Coqui,
	} {
		p.APIKey = expandEnvVars(p.APIKey)
	}
}

// Load reads the config file, applies environment overrides, and returns
// a merged Config. A missing file produces defaults only.
func Load(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnvOverrides(&cfg)
			return cfg, cfg.Validate()
		}
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}

	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)
	expandSensitiveFields(&cfg)
	return cfg, cfg.Validate()
}

// applyDefaults fills zero-value fields with sensible values.
func applyDefaults(cfg *Config) {
	def := Defaults()
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = def.Logging.Level
	}
	if cfg.Session.IdleMinutes == 0 {
		cfg.Session.IdleMinutes = def.Session.IdleMinutes
	}
	if cfg.Session.HistoryWindow == 0 {
		cfg.Session.HistoryWindow = def.Session.HistoryWindow
	}
	if cfg.Retrieval.TopK == 0 {
		cfg.Retrieval.TopK = def.Retrieval.TopK
	}
	if cfg.Retrieval.Threshold == 0 {
		cfg.Retrieval.Threshold = def.Retrieval.Threshold
	}
}

// applyEnvOverrides reads VAANI_* and provider key environment variables.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("VAANI_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := os.Getenv("GROQ_API_KEY"); v != "" && cfg.Providers.Groq.APIKey == "" {
		cfg.Providers.Groq.APIKey = v
	}
	if v := os.Getenv("OPENROUTER_API_KEY"); v != "" && cfg.Providers.OpenRouter.APIKey == "" {
		cfg.Providers.OpenRouter.APIKey = v
	}
	if v := os.Getenv("SARVAM_API_KEY"); v != "" && cfg.Providers.Sarvam.APIKey == "" {
		cfg.Providers.Sarvam.APIKey = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" && cfg.Providers.Embeddings.APIKey == "" {
		cfg.Providers.Embeddings.APIKey = v
	}
	if v := os.Getenv("OLLAMA_HOST"); v != "" && cfg.Providers.Ollama.BaseURL == "" {
		cfg.Providers.Ollama.BaseURL = v
	}
}
