package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"task-board.com/task-board/internal/logging"
)

type Config struct {
	AppURL                 string
	DatabaseDSN            string
	RateLimit              int
	RedisAddr              string
	CacheTTL               time.Duration
	CachePrefix            string
	EventsChannel          string
	NotificationBuffer     int
	ShutdownTimeoutSeconds int
	Log                    logging.Options
}

// RedisEnabled reports whether REDIS_HOST was set.
func (c Config) RedisEnabled() bool {
	return c.RedisAddr != ""
}

func Load() (Config, error) {
	var errs []error

	appHost := getEnv("APP_HOST", "127.0.0.1")
	appPort := getEnv("APP_PORT", "8080")

	cfg := Config{
		AppURL:                 fmt.Sprintf("%s:%s", appHost, appPort),
		DatabaseDSN:            getEnv("DATABASE_DSN", "tasks.db"),
		RateLimit:              getEnvAsInt("RATE_LIMIT_PER_MINUTE", 120, &errs),
		CacheTTL:               time.Duration(getEnvAsInt("REDIS_CACHE_TTL_SECONDS", 60, &errs)) * time.Second,
		CachePrefix:            getEnv("REDIS_CACHE_PREFIX", "tasks:"),
		EventsChannel:          getEnv("REDIS_EVENTS_CHANNEL", "task-events"),
		NotificationBuffer:     getEnvAsInt("NOTIFICATION_BUFFER", 50, &errs),
		ShutdownTimeoutSeconds: getEnvAsInt("SHUTDOWN_TIMEOUT_SECONDS", 20, &errs),
		Log: logging.Options{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
			File:   os.Getenv("LOG_FILE"),
		},
	}

	if redisHost := os.Getenv("REDIS_HOST"); redisHost != "" {
		cfg.RedisAddr = fmt.Sprintf("%s:%s", redisHost, getEnv("REDIS_PORT", "6379"))
	}

	errs = append(errs, validate(cfg)...)
	if len(errs) > 0 {
		return Config{}, errors.Join(errs...)
	}
	return cfg, nil
}

func validate(cfg Config) []error {
	var errs []error
	if cfg.DatabaseDSN == "" {
		errs = append(errs, errors.New("DATABASE_DSN must not be empty"))
	}
	if cfg.RateLimit <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_PER_MINUTE must be greater than 0"))
	}
	if cfg.CacheTTL <= 0 {
		errs = append(errs, errors.New("REDIS_CACHE_TTL_SECONDS must be greater than 0"))
	}
	if cfg.NotificationBuffer <= 0 {
		errs = append(errs, errors.New("NOTIFICATION_BUFFER must be greater than 0"))
	}
	if cfg.ShutdownTimeoutSeconds <= 0 {
		errs = append(errs, errors.New("SHUTDOWN_TIMEOUT_SECONDS must be greater than 0"))
	}
	return errs
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int, errs *[]error) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil {
			*errs = append(*errs, fmt.Errorf("invalid integer value for %s", key))
			return defaultVal
		}
		return i
	}
	return defaultVal
}
