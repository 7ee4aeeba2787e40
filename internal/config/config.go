package config

import (
	"fmt"
	"time"

	env "github.com/Netflix/go-env"
)

// Config holds every runtime setting the service reads from the environment.
// It is loaded once in main and passed down explicitly; adapters never reach
// into os.Getenv themselves.
type Config struct {
	HTTPAddr    string `env:"HTTP_ADDR,default=:8080"`
	DatabaseURL string `env:"DB_URL,required=true"`
	RedisURL    string `env:"REDIS_URL,required=true"`

	// JWTSecret signs the stream tokens used by the websocket channel and the
	// notification stream (the SSE transport cannot set custom headers, so the
	// token travels as a query parameter).
	JWTSecret   string        `env:"JWT_SECRET,required=true"`
	TokenTTL    time.Duration `env:"TOKEN_TTL,default=24h"`
	BlobDir     string        `env:"BLOB_DIR,default=./data/uploads"`
	LogLevel    string        `env:"LOG_LEVEL,default=info"`

	// StreamKeepAlive is the interval between comment-only keep-alive lines on
	// notification streams, independent of notification traffic.
	StreamKeepAlive time.Duration `env:"STREAM_KEEPALIVE_INTERVAL,default=15s"`

	// FilterCacheTTL bounds how stale the enabled saved-filter snapshot used by
	// the dispatcher may be.
	FilterCacheTTL time.Duration `env:"FILTER_CACHE_TTL,default=30s"`

	AsynqConcurrency int `env:"ASYNQ_CONCURRENCY,default=10"`
}

// Load reads the configuration from the environment.
func Load() (Config, error) {
	var c Config
	if _, err := env.UnmarshalFromEnviron(&c); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return c, nil
}
