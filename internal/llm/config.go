package llm

import (
	"errors"
	"fmt"
	"os"
	"time"
)

// Provider names accepted in Config.Provider.
const (
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderOpenRouter = "openrouter"
	ProviderGemini     = "gemini"
	ProviderMock       = "mock"

	// ProviderNone disables generation; replies use the canned lines.
	ProviderNone = "none"
)

// Config holds all LLM provider configuration. API keys are read from the
// environment only and never from a config file.
type Config struct {
	// Provider selects which LLM provider to use.
	Provider string `yaml:"provider"`

	Anthropic  AnthropicConfig  `yaml:"anthropic"`
	OpenAI     OpenAIConfig     `yaml:"openai"`
	Gemini     GeminiConfig     `yaml:"gemini"`
	OpenRouter OpenRouterConfig `yaml:"openrouter"`
	Retry      RetryConfig      `yaml:"retry"`

	// Timeout bounds a single Generate call, retries included.
	Timeout time.Duration `yaml:"timeout"`

	// MaxTokens and Temperature apply to phrasing requests.
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey  string `yaml:"-"`
	Model   string `yaml:"model"`    // Default: "claude-haiku"
	BaseURL string `yaml:"base_url"` // Optional proxy or gateway.
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey  string `yaml:"-"`
	Model   string `yaml:"model"`    // Default: "gpt-4o-mini"
	BaseURL string `yaml:"base_url"` // Optional. Override for compatible APIs.
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey string `yaml:"-"`
	Model  string `yaml:"model"` // Default: "gemini-flash"
}

// OpenRouterConfig holds OpenRouter-specific configuration.
type OpenRouterConfig struct {
	APIKey  string `yaml:"-"`
	Model   string `yaml:"model"`    // Default: "google/gemini-2.5-flash"
	BaseURL string `yaml:"base_url"` // Default: "https://openrouter.ai/api/v1"
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int           `yaml:"max_attempts"`
	InitialWait time.Duration `yaml:"initial_wait"`
	MaxWait     time.Duration `yaml:"max_wait"`
	Multiplier  float64       `yaml:"multiplier"`
}

// DefaultConfig returns a Config with generation disabled. A spoken turn
// has a tight latency budget, so retries are short.
func DefaultConfig() Config {
	return Config{
		Provider: ProviderNone,
		Anthropic: AnthropicConfig{
			Model: "claude-haiku",
		},
		OpenAI: OpenAIConfig{
			Model: "gpt-4o-mini",
		},
		Gemini: GeminiConfig{
			Model: "gemini-flash",
		},
		OpenRouter: OpenRouterConfig{
			Model: "google/gemini-2.5-flash",
		},
		Retry: RetryConfig{
			MaxAttempts: 2,
			InitialWait: 200 * time.Millisecond,
			MaxWait:     time.Second,
			Multiplier:  2.0,
		},
		Timeout:     8 * time.Second,
		MaxTokens:   200,
		Temperature: 0.4,
	}
}

// ApplyEnv overrides cfg with DIDI_* environment variables.
func ApplyEnv(cfg *Config) {
	set := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	set(&cfg.Provider, "DIDI_LLM_PROVIDER")

	set(&cfg.Anthropic.APIKey, "DIDI_ANTHROPIC_API_KEY")
	set(&cfg.Anthropic.Model, "DIDI_ANTHROPIC_MODEL")

	set(&cfg.OpenAI.APIKey, "DIDI_OPENAI_API_KEY")
	set(&cfg.OpenAI.Model, "DIDI_OPENAI_MODEL")
	set(&cfg.OpenAI.BaseURL, "DIDI_OPENAI_BASE_URL")

	set(&cfg.Gemini.APIKey, "DIDI_GEMINI_API_KEY")
	set(&cfg.Gemini.Model, "DIDI_GEMINI_MODEL")

	set(&cfg.OpenRouter.APIKey, "DIDI_OPENROUTER_API_KEY")
	set(&cfg.OpenRouter.Model, "DIDI_OPENROUTER_MODEL")
}

// ConfigFromEnv builds a Config from environment variables, falling back
// to defaults for unset values.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	ApplyEnv(&cfg)
	return cfg
}

// DiscoverConfig probes standard API key env vars in priority order
// (Gemini, OpenAI, Anthropic, OpenRouter) and fills in the first provider
// whose key is found. It reports false and leaves cfg alone if none is set.
func DiscoverConfig(cfg *Config) bool {
	if k := os.Getenv("GEMINI_API_KEY"); k != "" {
		cfg.Provider = ProviderGemini
		cfg.Gemini.APIKey = k
		return true
	}
	if k := os.Getenv("OPENAI_API_KEY"); k != "" {
		cfg.Provider = ProviderOpenAI
		cfg.OpenAI.APIKey = k
		return true
	}
	if k := os.Getenv("ANTHROPIC_API_KEY"); k != "" {
		cfg.Provider = ProviderAnthropic
		cfg.Anthropic.APIKey = k
		return true
	}
	if k := os.Getenv("OPENROUTER_API_KEY"); k != "" {
		cfg.Provider = ProviderOpenRouter
		cfg.OpenRouter.APIKey = k
		return true
	}
	return false
}

// Enabled reports whether a generating provider is selected.
func (c Config) Enabled() bool {
	return c.Provider != "" && c.Provider != ProviderNone
}

// Validate checks that the selected provider has its required API key set.
func (c Config) Validate() error {
	var errs []error
	switch c.Provider {
	case ProviderAnthropic:
		if c.Anthropic.APIKey == "" {
			errs = append(errs, errors.New("DIDI_ANTHROPIC_API_KEY is required for the anthropic provider"))
		}
	case ProviderOpenAI:
		if c.OpenAI.APIKey == "" {
			errs = append(errs, errors.New("DIDI_OPENAI_API_KEY is required for the openai provider"))
		}
	case ProviderGemini:
		if c.Gemini.APIKey == "" {
			errs = append(errs, errors.New("DIDI_GEMINI_API_KEY is required for the gemini provider"))
		}
	case ProviderOpenRouter:
		if c.OpenRouter.APIKey == "" {
			errs = append(errs, errors.New("DIDI_OPENROUTER_API_KEY is required for the openrouter provider"))
		}
	case ProviderMock, ProviderNone, "":
		// No API key needed.
	default:
		errs = append(errs, fmt.Errorf("unknown LLM provider: %q", c.Provider))
	}
	if c.Retry.MaxAttempts < 0 {
		errs = append(errs, fmt.Errorf("retry max_attempts must not be negative, got %d", c.Retry.MaxAttempts))
	}
	if c.Temperature < 0 || c.Temperature > 1 {
		errs = append(errs, fmt.Errorf("temperature must be between 0 and 1, got %v", c.Temperature))
	}
	return errors.Join(errs...)
}
