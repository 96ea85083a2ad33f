package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/mathieu-neron/cineflix-go/internal/classify"
	"github.com/mathieu-neron/cineflix-go/internal/model"
)

type Config struct {
	Port        string `env:"PORT" envDefault:"8080"`
	MongoURI    string `env:"MONGO_URI,required"`
	Database    string `env:"DATABASE_NAME" envDefault:"cineflix_premium"`
	RedisURL    string `env:"REDIS_URL"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	LogFile     string `env:"LOG_FILE"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	CORSOrigins string `env:"CORS_ORIGINS" envDefault:"*"`

	StoreTimeout time.Duration `env:"STORE_TIMEOUT" envDefault:"10s"`

	RateLimitMax     int           `env:"RATE_LIMIT_MAX" envDefault:"20"`
	RateLimitWindow  time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"60s"`
	RateLimitMaxKeys int           `env:"RATE_LIMIT_MAX_KEYS" envDefault:"100000"`

	RetentionDays     int           `env:"ANALYTICS_RETENTION_DAYS" envDefault:"30"`
	RetentionInterval time.Duration `env:"RETENTION_INTERVAL" envDefault:"24h"`

	ChannelAdult  int64 `env:"DB_CHANNEL_ADULT"`
	ChannelMovie  int64 `env:"DB_CHANNEL_MOVIE"`
	ChannelSeries int64 `env:"DB_CHANNEL_SERIES"`
}

// Load reads an optional .env file, then the process environment.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: load env file: %w", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cfg.RateLimitMax <= 0 || cfg.RateLimitWindow <= 0 {
		return nil, fmt.Errorf("config: rate limit max and window must be positive")
	}
	if cfg.RetentionDays <= 0 || cfg.RetentionInterval <= 0 {
		return nil, fmt.Errorf("config: analytics retention days and interval must be positive")
	}
	for category, id := range cfg.Stores() {
		if id != 0 && !classify.ValidChannelID(id) {
			return nil, fmt.Errorf("config: %s channel %d is not a channel id", category, id)
		}
	}
	return &cfg, nil
}

// Stores maps categories to their backing channels.
func (c *Config) Stores() model.StoreMap {
	return model.StoreMap{
		model.CategoryAdult:  c.ChannelAdult,
		model.CategoryMovie:  c.ChannelMovie,
		model.CategorySeries: c.ChannelSeries,
	}
}
