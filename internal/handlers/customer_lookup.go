package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"chitsmart/config"
	"chitsmart/internal/phone"
	"chitsmart/internal/store"
	"chitsmart/models"

	"github.com/redis/go-redis/v9"
)

const (
	customerCachePrefix = "customer:phone:"
	customerCacheTTL    = 10 * time.Minute
)

func customerCacheKey(number string) string {
	variants := phone.Variants(number, config.App.CountryCode)
	if len(variants) == 0 {
		return customerCachePrefix + number
	}
	return customerCachePrefix + variants[0]
}

// findCustomer resolves a verified phone number to a customer, whichever of
// the two formats the record was saved in. Hits are cached in redis when it
// is configured; misses are not, so a newly registered member can log in
// straight away.
func findCustomer(ctx context.Context, number string) (*models.Customer, error) {
	key := customerCacheKey(number)
	if config.RDB != nil {
		cached, err := config.RDB.Get(ctx, key).Result()
		if err == nil {
			var c models.Customer
			if json.Unmarshal([]byte(cached), &c) == nil {
				slog.Debug("Customer loaded from CACHE", "key", key)
				return &c, nil
			}
			slog.Warn("Failed to unmarshal cached customer", "key", key)
		} else if !errors.Is(err, redis.Nil) {
			slog.Error("Redis GET command failed", "error", err, "key", key)
		}
	}

	c, err := config.Store.FindCustomerByPhone(ctx, phone.Variants(number, config.App.CountryCode))
	if err != nil {
		return nil, err
	}

	if config.RDB != nil {
		if data, err := json.Marshal(c); err == nil {
			if err := config.RDB.Set(ctx, key, data, customerCacheTTL).Err(); err != nil {
				slog.Error("Failed to SET customer to cache", "error", err, "key", key)
			}
		}
	}
	return c, nil
}

// invalidateCustomer drops the cached record of one number.
func invalidateCustomer(ctx context.Context, number string) {
	if config.RDB == nil {
		return
	}
	if err := config.RDB.Del(ctx, customerCacheKey(number)).Err(); err != nil {
		slog.Error("Failed to invalidate cached customer", "error", err)
	}
}

// InvalidateCustomers drops every cached customer. It runs when the store
// reports a change made outside this process.
func InvalidateCustomers(ctx context.Context) {
	if config.RDB == nil {
		return
	}
	iter := config.RDB.Scan(ctx, 0, customerCachePrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		slog.Error("Failed to scan cached customers", "error", err)
		return
	}
	if len(keys) > 0 {
		config.RDB.Del(ctx, keys...)
	}
}

// StoreChanged is the store watch callback: cached customers are dropped
// and open admin pages are told to reload.
func StoreChanged(collection string) {
	if collection == store.CustomersCollection {
		InvalidateCustomers(config.Ctx)
	}
	GlobalHub.Notify(collection)
}

// isNotFound is shared by pages that turn a missing record into a redirect.
func isNotFound(err error) bool {
	return errors.Is(err, store.ErrNotFound)
}
