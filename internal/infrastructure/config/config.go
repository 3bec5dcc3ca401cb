package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	SQLite   SQLiteConfig
	Redis    RedisConfig
	Forecast ForecastConfig
	Chat     ChatConfig
}

type SQLiteConfig struct {
	// Path is the sqlite database file; ":memory:" is accepted for tests.
	Path string `env:"SQLITE_PATH, default=sales.db"`
}

type RedisConfig struct {
	// Addr empty disables the report cache entirely.
	Addr string        `env:"REDIS_ADDR"`
	DB   int           `env:"REDIS_DB,  default=0"`
	TTL  time.Duration `env:"REDIS_TTL, default=1h"`
}

type ForecastConfig struct {
	URL     string        `env:"FORECAST_URL"`
	Horizon int           `env:"FORECAST_HORIZON, default=30"`
	Timeout time.Duration `env:"FORECAST_TIMEOUT, default=30s"`
}

type ChatConfig struct {
	BaseURL string        `env:"CHAT_BASE_URL, default=https://api.openai.com"`
	APIKey  string        `env:"CHAT_API_KEY"`
	Model   string        `env:"CHAT_MODEL,    default=gpt-4"`
	Timeout time.Duration `env:"CHAT_TIMEOUT,  default=60s"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
