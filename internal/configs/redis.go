package config

import (
	"fmt"

	"github.com/redis/rueidis"
)

// NewRedisClient returns nil when Redis is not configured.
func NewRedisClient(cfg Config) (rueidis.Client, error) {
	if !cfg.RedisEnabled() {
		return nil, nil
	}

	redisClient, err := rueidis.NewClient(
		rueidis.ClientOption{
			InitAddress: []string{cfg.RedisAddr},
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create redis client: %w", err)
	}

	return redisClient, nil
}
