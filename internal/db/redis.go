package db

import (
	"fmt"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient builds a Redis client from a redis:// URL.
// Like NewPool it does not dial; callers Ping when they need a live check.
func NewRedisClient(url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w (check REDIS_URL format: redis://host:port/db)", err)
	}
	return redis.NewClient(opts), nil
}
