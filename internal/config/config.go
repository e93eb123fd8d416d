package config

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LLM providers accepted by llm.provider.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderStub      = "stub"
)

// Config holds the full application configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
	LLM     LLMConfig     `yaml:"llm" mapstructure:"llm"`
	Scoring ScoringConfig `yaml:"scoring" mapstructure:"scoring"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// LLMConfig selects and configures the intent classification backend.
type LLMConfig struct {
	Provider          string  `yaml:"provider" mapstructure:"provider"`
	OpenAIKey         string  `yaml:"openai_key" mapstructure:"openai_key"`
	OpenAIBaseURL     string  `yaml:"openai_base_url" mapstructure:"openai_base_url"`
	OpenAIModel       string  `yaml:"openai_model" mapstructure:"openai_model"`
	AnthropicKey      string  `yaml:"anthropic_key" mapstructure:"anthropic_key"`
	AnthropicModel    string  `yaml:"anthropic_model" mapstructure:"anthropic_model"`
	MaxTokens         int     `yaml:"max_tokens" mapstructure:"max_tokens"`
	TimeoutSecs       int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
}

// ScoringConfig configures the scoring pipeline.
type ScoringConfig struct {
	Mode          string `yaml:"mode" mapstructure:"mode"`
	Concurrency   int    `yaml:"concurrency" mapstructure:"concurrency"`
	AdjacencyFile string `yaml:"adjacency_file" mapstructure:"adjacency_file"`
}

// Load reads configuration from a .env file, config.yaml and the environment.
// Variables already set in the environment win over .env entries.
func Load() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("LEADSCORE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("llm.provider", ProviderOpenAI)
	v.SetDefault("llm.openai_key", "")
	v.SetDefault("llm.openai_base_url", "https://api.openai.com/v1")
	v.SetDefault("llm.openai_model", "gpt-4o-mini")
	v.SetDefault("llm.anthropic_key", "")
	v.SetDefault("llm.anthropic_model", "claude-haiku-4-5-20251001")
	v.SetDefault("llm.max_tokens", 100)
	v.SetDefault("llm.timeout_secs", 30)
	v.SetDefault("llm.requests_per_second", 0)
	v.SetDefault("scoring.mode", "combined")
	v.SetDefault("scoring.concurrency", 1)
	v.SetDefault("scoring.adjacency_file", "")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks that the configuration can drive a scoring run. mode is the
// command being started ("serve" or "score"); serve also needs a port.
func (c *Config) Validate(mode string) error {
	switch mode {
	case "serve":
		if c.Server.Port <= 0 {
			return eris.Errorf("config: server.port must be > 0, got %d", c.Server.Port)
		}
	case "score":
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	switch c.Scoring.Mode {
	case "combined", "ai_only":
	default:
		return eris.Errorf("config: scoring.mode must be combined or ai_only, got %q", c.Scoring.Mode)
	}
	if c.Scoring.Concurrency < 1 {
		return eris.Errorf("config: scoring.concurrency must be at least 1, got %d", c.Scoring.Concurrency)
	}
	if c.LLM.MaxTokens < 1 {
		return eris.Errorf("config: llm.max_tokens must be positive, got %d", c.LLM.MaxTokens)
	}
	if c.LLM.TimeoutSecs < 1 {
		return eris.Errorf("config: llm.timeout_secs must be positive, got %d", c.LLM.TimeoutSecs)
	}
	if c.LLM.RequestsPerSecond < 0 {
		return eris.Errorf("config: llm.requests_per_second must not be negative, got %v", c.LLM.RequestsPerSecond)
	}

	switch c.LLM.Provider {
	case ProviderOpenAI:
		if c.LLM.OpenAIKey == "" {
			return eris.New("config: llm.openai_key is required for the openai provider")
		}
	case ProviderAnthropic:
		if c.LLM.AnthropicKey == "" {
			return eris.New("config: llm.anthropic_key is required for the anthropic provider")
		}
	case ProviderStub:
	default:
		return eris.Errorf("config: unknown llm.provider %q", c.LLM.Provider)
	}

	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
