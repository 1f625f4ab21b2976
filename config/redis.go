package config

import (
	"context"
	"os"

	"github.com/redis/go-redis/v9"
)

// RedisClient is a global Redis client instance. Nil when REDIS_ADDR is not
// set; callers (alert publishing, cache warmers) must handle nil.
var RedisClient *redis.Client

// AlertChannel is the pub/sub channel low-stock alerts are published to.
const AlertChannel = "stockyard.alerts"

func InitRedis() {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		RedisClient = nil
		return
	}
	RedisClient = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASS"),
		DB:       0,
	})
}

func RedisCtx() context.Context {
	return context.Background()
}
