// Package config loads service and CLI settings from an optional config file
// and the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/jonathan/content-pipeline/internal/llm"
	"github.com/jonathan/content-pipeline/internal/observability"
)

// FileName is the config file base name searched for in the working directory and ./config
const FileName = "content_agent"

// EnvPrefix namespaces generic overrides, e.g. CONTENT_AGENT_PIPELINE_STAGE_TIMEOUT
const EnvPrefix = "CONTENT_AGENT"

// Config holds every setting the binary reads.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	LLM      LLMConfig      `mapstructure:"llm"`
	Database DatabaseConfig `mapstructure:"database"`
	Pipeline PipelineConfig `mapstructure:"pipeline"`
	Log      LogConfig      `mapstructure:"log"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// LLMConfig selects the provider and the model behind each tier.
// Empty model names fall back to the provider defaults.
type LLMConfig struct {
	Provider    string      `mapstructure:"provider"`
	APIKey      string      `mapstructure:"api_key"`
	BaseURL     string      `mapstructure:"base_url"`
	Temperature float32     `mapstructure:"temperature"`
	Models      ModelConfig `mapstructure:"models"`
}

// ModelConfig maps tiers to model names.
type ModelConfig struct {
	Lite     string `mapstructure:"lite"`
	Standard string `mapstructure:"standard"`
	Advanced string `mapstructure:"advanced"`
}

// DatabaseConfig configures the audit store. An empty URL disables persistence.
type DatabaseConfig struct {
	URL         string `mapstructure:"url"`
	AutoMigrate bool   `mapstructure:"auto_migrate"`
}

// PipelineConfig tunes the orchestrator.
type PipelineConfig struct {
	MaxFactCheckAttempts int           `mapstructure:"max_fact_check_attempts"`
	StageTimeout         time.Duration `mapstructure:"stage_timeout"`
	LogTimeout           time.Duration `mapstructure:"log_timeout"`
}

// RunBudget is the longest a run can take when every stage uses its full
// timeout: research, draft and polish plus a check and a revision per
// fact-check attempt. Zero when stages are unbounded.
func (p PipelineConfig) RunBudget() time.Duration {
	if p.StageTimeout <= 0 {
		return 0
	}
	return time.Duration(2*p.MaxFactCheckAttempts+3) * p.StageTimeout
}

// LogConfig configures the slog handler.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 300*time.Second)

	v.SetDefault("llm.provider", string(llm.ProviderGemini))
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.temperature", llm.DefaultTemperature)
	v.SetDefault("llm.models.lite", "")
	v.SetDefault("llm.models.standard", "")
	v.SetDefault("llm.models.advanced", "")

	v.SetDefault("database.url", "")
	v.SetDefault("database.auto_migrate", true)

	v.SetDefault("pipeline.max_fact_check_attempts", 2)
	v.SetDefault("pipeline.stage_timeout", 120*time.Second)
	v.SetDefault("pipeline.log_timeout", 10*time.Second)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", observability.FormatText)
}

// bindEnv maps the conventional variable names onto config keys.
// When several names are given the first non-empty one wins.
func bindEnv(v *viper.Viper) error {
	bindings := map[string][]string{
		"llm.api_key":  {"GEMINI_API_KEY", "GOOGLE_API_KEY", "OPENAI_API_KEY"},
		"llm.provider": {"LLM_PROVIDER"},
		"llm.base_url": {"LLM_BASE_URL"},
		"database.url": {"DATABASE_URL"},
		"server.port":  {"PORT"},
	}
	for key, names := range bindings {
		if err := v.BindEnv(append([]string{key}, names...)...); err != nil {
			return fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return nil
}

// Load reads configuration. With an empty path it searches for content_agent.{yaml,json,...}
// in . and ./config and carries on with defaults when none exists; an explicit path must exist.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	if err := bindEnv(v); err != nil {
		return nil, err
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(FileName)
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.LLM.Provider = strings.ToLower(strings.TrimSpace(cfg.LLM.Provider))
	cfg.LLM.APIKey = strings.TrimSpace(cfg.LLM.APIKey)

	return &cfg, nil
}

// Validate checks value ranges. It does not require an API key since some
// commands never reach a provider.
func (c *Config) Validate() error {
	switch llm.Provider(c.LLM.Provider) {
	case llm.ProviderGemini, llm.ProviderOpenAI:
	default:
		return fmt.Errorf("config error: unsupported llm.provider %q", c.LLM.Provider)
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config error: 'server.port' must be between 1 and 65535")
	}
	if c.Server.ReadTimeout < 0 || c.Server.WriteTimeout < 0 {
		return fmt.Errorf("config error: server timeouts must be non-negative")
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return fmt.Errorf("config error: 'llm.temperature' must be between 0 and 2")
	}
	if c.Pipeline.MaxFactCheckAttempts < 1 {
		return fmt.Errorf("config error: 'pipeline.max_fact_check_attempts' must be at least 1")
	}
	if c.Pipeline.StageTimeout < 0 {
		return fmt.Errorf("config error: 'pipeline.stage_timeout' must be non-negative")
	}
	if c.Pipeline.LogTimeout < 0 {
		return fmt.Errorf("config error: 'pipeline.log_timeout' must be non-negative")
	}
	if _, err := observability.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	switch strings.ToLower(c.Log.Format) {
	case observability.FormatText, observability.FormatJSON:
	default:
		return fmt.Errorf("config error: 'log.format' must be %q or %q", observability.FormatText, observability.FormatJSON)
	}

	return nil
}

// ClientConfig builds the llm configuration, starting from the provider defaults.
func (c *Config) ClientConfig() *llm.Config {
	cfg := llm.DefaultConfigFor(llm.Provider(c.LLM.Provider))
	cfg.Temperature = c.LLM.Temperature
	cfg.BaseURL = c.LLM.BaseURL

	overrides := map[llm.ModelTier]string{
		llm.TierLite:     c.LLM.Models.Lite,
		llm.TierStandard: c.LLM.Models.Standard,
		llm.TierAdvanced: c.LLM.Models.Advanced,
	}
	for tier, model := range overrides {
		if model = strings.TrimSpace(model); model != "" {
			cfg = cfg.WithModel(tier, model)
		}
	}
	return cfg
}

// HasDatabase reports whether an audit store is configured
func (c *Config) HasDatabase() bool {
	return strings.TrimSpace(c.Database.URL) != ""
}
