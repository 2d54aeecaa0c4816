package config

import (
	"log/slog"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds runtime configuration shared by the API and the recorder.
type Config struct {
	// Server
	Port       int    `env:"PORT" envDefault:"8080"`
	HealthPort int    `env:"HEALTH_PORT" envDefault:"8081"`
	LogLevel   string `env:"LOG_LEVEL" envDefault:"info"`

	// Upload limits
	MaxUploadSize int64 `env:"MAX_UPLOAD_SIZE" envDefault:"10485760"` // 10MB in bytes

	// Store
	StoreProvider string `env:"STORE_PROVIDER" envDefault:"postgres"`
	DBURL         string `env:"DB_URL"`

	// Queue carries history records to the recorder; "none" disables history.
	QueueProvider string `env:"QUEUE_PROVIDER" envDefault:"nats"`
	QueueURL      string `env:"QUEUE_URL"`

	// Settings cache; empty address disables it.
	RedisAddr        string        `env:"REDIS_ADDR"`
	RedisPassword    string        `env:"REDIS_PASSWORD"`
	SettingsCacheTTL time.Duration `env:"SETTINGS_CACHE_TTL" envDefault:"300s"`

	// Completion
	LLMProvider       string        `env:"LLM_PROVIDER" envDefault:"openai"` // "openai" (SDK) or "http" (raw client)
	CompletionURL     string        `env:"COMPLETION_URL" envDefault:"https://api.openai.com/v1/chat/completions"`
	OpenAIBaseURL     string        `env:"OPENAI_BASE_URL"`
	CompletionTimeout time.Duration `env:"COMPLETION_TIMEOUT" envDefault:"60s"`
	DefaultModel      string        `env:"DEFAULT_MODEL" envDefault:"gpt-3.5-turbo"`
	DefaultMaxTokens  int           `env:"DEFAULT_MAX_TOKENS" envDefault:"2000"`

	// History
	HistoryLimit int `env:"HISTORY_LIMIT" envDefault:"50"`
}

// Load reads configuration from environment variables with defaults.
func Load() Config {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		slog.Warn("failed to parse env; using defaults where set", "err", err)
	}
	return cfg
}
