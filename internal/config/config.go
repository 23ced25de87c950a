package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config represents the complete arena configuration
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Perplexity PerplexityConfig `mapstructure:"perplexity"`
	OpenRouter OpenRouterConfig `mapstructure:"openrouter"`
	Debate     DebateConfig     `mapstructure:"debate"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// ServerConfig controls the HTTP surface
type ServerConfig struct {
	// Port is the TCP port the HTTP server listens on
	Port int `mapstructure:"port"`
	// StreamTimeoutSeconds is the wall-clock ceiling on one debate
	// streaming connection. The orchestrator behaves correctly when
	// truncated at any suspension point by this ceiling (same guarantee
	// as a client abort)
	StreamTimeoutSeconds int `mapstructure:"stream_timeout_seconds"`
	// ConcludeTimeoutSeconds is the ceiling on one conclusion request
	ConcludeTimeoutSeconds int `mapstructure:"conclude_timeout_seconds"`
}

// PerplexityConfig controls the web-search-augmented backend
type PerplexityConfig struct {
	// APIKey authenticates against the Perplexity API.
	// Bound to PERPLEXITY_API_KEY
	APIKey string `mapstructure:"api_key"`
	// BaseURL is the API root (default: https://api.perplexity.ai)
	BaseURL string `mapstructure:"base_url"`
	// Model is the search-augmented model identifier
	Model string `mapstructure:"model"`
	// MaxTokens is the per-turn token budget for this backend
	MaxTokens int `mapstructure:"max_tokens"`
	// Temperature for turn generation
	Temperature float64 `mapstructure:"temperature"`
}

// OpenRouterConfig controls the generic chat-completion backends
type OpenRouterConfig struct {
	// APIKey authenticates against OpenRouter.
	// Bound to OPENROUTER_API_KEY
	APIKey string `mapstructure:"api_key"`
	// BaseURL is the API root (default: https://openrouter.ai/api/v1)
	BaseURL string `mapstructure:"base_url"`
	// SiteURL and SiteName populate the attribution headers OpenRouter
	// asks integrators to send
	SiteURL  string `mapstructure:"site_url"`
	SiteName string `mapstructure:"site_name"`
	// MaxTokens is the per-turn token budget for generic backends
	MaxTokens int `mapstructure:"max_tokens"`
	// Temperature for turn generation
	Temperature float64 `mapstructure:"temperature"`
}

// DebateConfig controls orchestration behavior
type DebateConfig struct {
	// MaxProposalLength is the maximum accepted proposal size in
	// characters (default: 4000)
	MaxProposalLength int `mapstructure:"max_proposal_length"`
	// RecentKeep is the number of trailing history entries passed to a
	// backend verbatim; everything older is compressed (default: 4)
	RecentKeep int `mapstructure:"recent_keep"`
	// DisabledBackends removes backends from the rotation by glob
	// pattern, e.g. ["nvidia/*", "*:free"]
	DisabledBackends []string `mapstructure:"disabled_backends"`
	// ConclusionMaxTokens is the token budget for the one-shot
	// conclusion generation (default: 4000)
	ConclusionMaxTokens int `mapstructure:"conclusion_max_tokens"`
	// ConclusionTemperature for conclusion generation (default: 0.3)
	ConclusionTemperature float64 `mapstructure:"conclusion_temperature"`
}

// LoggingConfig controls debug logging behavior
type LoggingConfig struct {
	// Level is the log level: "debug", "info", "warn", "error" (default: "info")
	Level string `mapstructure:"level"`
	// Dir is the directory for the JSON log file. Empty writes to stderr
	Dir string `mapstructure:"dir"`
}

// SetDefaults registers default values for all configuration keys.
// Call before reading any config source so defaults apply even without
// a config file.
func SetDefaults() {
	viper.SetDefault("server.port", 3000)
	viper.SetDefault("server.stream_timeout_seconds", 300)
	viper.SetDefault("server.conclude_timeout_seconds", 120)

	viper.SetDefault("perplexity.base_url", "https://api.perplexity.ai")
	viper.SetDefault("perplexity.model", "sonar-reasoning-pro")
	viper.SetDefault("perplexity.max_tokens", 400)
	viper.SetDefault("perplexity.temperature", 0.5)

	viper.SetDefault("openrouter.base_url", "https://openrouter.ai/api/v1")
	viper.SetDefault("openrouter.site_url", "http://localhost:3000")
	viper.SetDefault("openrouter.site_name", "AI Collaboration Arena")
	viper.SetDefault("openrouter.max_tokens", 500)
	viper.SetDefault("openrouter.temperature", 0.7)

	viper.SetDefault("debate.max_proposal_length", 4000)
	viper.SetDefault("debate.recent_keep", 4)
	viper.SetDefault("debate.disabled_backends", []string{})
	viper.SetDefault("debate.conclusion_max_tokens", 4000)
	viper.SetDefault("debate.conclusion_temperature", 0.3)

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.dir", "")
}

// BindCredentialEnv binds the credential keys to their conventional
// environment variable names so PERPLEXITY_API_KEY and
// OPENROUTER_API_KEY work without the ARENA_ prefix.
func BindCredentialEnv() {
	_ = viper.BindEnv("perplexity.api_key", "ARENA_PERPLEXITY_API_KEY", "PERPLEXITY_API_KEY")
	_ = viper.BindEnv("openrouter.api_key", "ARENA_OPENROUTER_API_KEY", "OPENROUTER_API_KEY")
}

// Load unmarshals the current viper state into a Config.
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ConfigDir returns the directory searched for config.yaml, honoring
// XDG_CONFIG_HOME.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "arena")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "arena")
}
