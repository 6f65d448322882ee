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

	Mongo    MongoConfig
	Redis    RedisConfig
	Telegram TelegramConfig
	OpenAI   OpenAIConfig
	Geocoder GeocoderConfig
	Exchange ExchangeConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=telegram_parser"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// TelegramConfig drives the Bot API listener. ChatIDs is the allowlist of
// channels to ingest; RateLimit/RateWindow bound how many messages may enter
// the pipeline per rolling window, which is what protects the LLM and
// geocoder budgets.
type TelegramConfig struct {
	BotToken     string        `env:"TELEGRAM_BOT_TOKEN"`
	ChatIDs      []int64       `env:"TELEGRAM_CHAT_IDS"`
	PollInterval time.Duration `env:"TELEGRAM_POLL_INTERVAL, default=2s"`
	RateLimit    int           `env:"TELEGRAM_RATE_LIMIT,    default=20"`
	RateWindow   time.Duration `env:"TELEGRAM_RATE_WINDOW,   default=60s"`
	Workers      int           `env:"TELEGRAM_WORKERS,       default=4"`
}

type OpenAIConfig struct {
	APIKey  string        `env:"OPENAI_API_KEY"`
	Model   string        `env:"OPENAI_MODEL,    default=gpt-4o"`
	BaseURL string        `env:"OPENAI_BASE_URL, default=https://api.openai.com/v1"`
	Timeout time.Duration `env:"OPENAI_TIMEOUT,  default=45s"`
}

type GeocoderConfig struct {
	APIKey  string        `env:"LOCATIONIQ_API_KEY"`
	BaseURL string        `env:"LOCATIONIQ_BASE_URL, default=https://us1.locationiq.com/v1"`
	Timeout time.Duration `env:"LOCATIONIQ_TIMEOUT,  default=10s"`
}

// ExchangeConfig configures the outbound republishing job against the
// partner cargo exchange.
type ExchangeConfig struct {
	BaseURL  string        `env:"EXCHANGE_BASE_URL"`
	Token    string        `env:"EXCHANGE_TOKEN"`
	Interval time.Duration `env:"EXCHANGE_PUBLISH_INTERVAL, default=1h"`
	Enabled  bool          `env:"EXCHANGE_PUBLISH_ENABLED,  default=false"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
