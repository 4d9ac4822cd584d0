package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"finance/internal/cache"
)

const (
	cacheKeyTransactions = "transactions"
	cacheKeyBudgets      = "budgets"
	cacheKeyDashboard    = "dashboard"

	listCacheTTL      = 60 * time.Second
	dashboardCacheTTL = 5 * time.Minute
)

// responseCache caches read responses in Redis when configured and falls
// back to an in-process LRU for the dashboard otherwise.
type responseCache struct {
	redis  *redis.Client
	local  *cache.LRU[[]byte]
	logger *slog.Logger
}

func newResponseCache(redisAddr string, logger *slog.Logger) *responseCache {
	rc := &responseCache{
		local:  cache.NewLRU[[]byte](16, dashboardCacheTTL),
		logger: logger.With("component", "cache"),
	}

	if redisAddr == "" {
		return rc
	}

	opt, err := redis.ParseURL("redis://" + redisAddr)
	if err != nil {
		opt = &redis.Options{Addr: redisAddr}
	}
	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		rc.logger.Warn("redis unavailable, responses will not be cached", "error", err)
		return rc
	}

	rc.redis = client
	return rc
}

func (rc *responseCache) get(ctx context.Context, key string, dest any) bool {
	if rc.redis != nil {
		data, err := rc.redis.Get(ctx, key).Bytes()
		if err == nil && json.Unmarshal(data, dest) == nil {
			return true
		}
		return false
	}
	if key != cacheKeyDashboard {
		return false
	}
	data, ok := rc.local.Get(key)
	if !ok {
		return false
	}
	return json.Unmarshal(data, dest) == nil
}

func (rc *responseCache) set(ctx context.Context, key string, v any, ttl time.Duration) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if rc.redis != nil {
		if err := rc.redis.SetEx(ctx, key, data, ttl).Err(); err != nil {
			rc.logger.Warn("failed to cache response", "key", key, "error", err)
		}
		return
	}
	if key == cacheKeyDashboard {
		rc.local.Set(key, data)
	}
}

// invalidate drops every cached read touched by a mutation.
func (rc *responseCache) invalidate(ctx context.Context) {
	if rc.redis != nil {
		rc.redis.Del(ctx, cacheKeyTransactions, cacheKeyBudgets, cacheKeyDashboard)
	}
	rc.local.Delete(cacheKeyDashboard)
}
