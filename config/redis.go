// chitsmart/config/redis.go
package config

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

var RDB *redis.Client
var Ctx = context.Background()

// ConnectRedis is optional. Without REDIS_ADDR, or when the server does not
// answer, RDB stays nil and lookups go straight to the store.
func ConnectRedis(addr string) {
	if addr == "" {
		slog.Warn("REDIS_ADDR is not set, customer lookup cache is disabled.")
		return
	}

	RDB = redis.NewClient(&redis.Options{
		Addr: addr,
	})

	if _, err := RDB.Ping(Ctx).Result(); err != nil {
		slog.Error("Failed to connect to Redis", "error", err)
		RDB = nil
		return
	}

	slog.Info("Connected to Redis", "addr", addr)
}
