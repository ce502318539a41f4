package realtime

import (
	"github.com/redis/go-redis/v9"

	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/logger"
)

// NewRedis creates a new Redis client
func NewRedis(addr, password string, db int) *redis.Client {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	logger.Info("redis client created", "addr", addr, "db", db)
	return rdb
}

// NotificationChannel is the pub/sub channel carrying events for one user.
func NotificationChannel(userID string) string {
	return "notifications:" + userID
}
