package config

import (
	"context"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	TelegramBotToken  string        `env:"TELEGRAM_BOT_TOKEN,required"`
	DBHost            string        `env:"DB_HOST,required"`
	DBPort            int           `env:"DB_PORT,default=5432"`
	DBUser            string        `env:"DB_USER,required"`
	DBPassword        string        `env:"DB_PASSWORD,required"`
	DBName            string        `env:"DB_NAME,required"`
	DBSSLMode         string        `env:"DB_SSLMODE,default=disable"`
	DBMaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS,default=10"`
	DBMaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS,default=25"`
	DBConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME,default=30m"`

	CheckInterval    time.Duration `env:"CHECK_INTERVAL,default=1h"`
	FetchConcurrency int           `env:"FETCH_CONCURRENCY,default=4"`
	FetchTimeout     time.Duration `env:"FETCH_TIMEOUT,default=20s"`
	RatePerHost      float64       `env:"RATE_PER_HOST,default=1"`
	HTTPUserAgent    string        `env:"HTTP_USER_AGENT"`

	EarnKaroAPIURL   string        `env:"EARNKARO_API_URL"`
	EarnKaroAPIToken string        `env:"EARNKARO_API_TOKEN"`
	LinkTimeout      time.Duration `env:"LINK_TIMEOUT,default=10s"`

	AdminIDs     []int64 `env:"ADMIN_IDS"`
	LogChannelID int64   `env:"LOG_CHANNEL_ID"`

	TelegramPollTimeout int    `env:"TELEGRAM_POLL_TIMEOUT,default=60"`
	LogLevel            string `env:"LOG_LEVEL,default=info"`
}

func Load(ctx context.Context) (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
