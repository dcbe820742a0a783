package utils

import (
	"context"       // Context for Redis operations
	"encoding/json" // JSON encoding/decoding
	"fmt"           // Cache key formatting
	"time"          // Time durations

	"github.com/redis/go-redis/v9" // Redis client
)

// WalletCacheKey is the cache key for a taxpayer's wallet ledgers for one year
func WalletCacheKey(userID uint, year string) string {
	return fmt.Sprintf("wallet:user:%d:year:%s", userID, year)
}

// WalletSummaryCacheKey is the cache key for a taxpayer's wallet summary for one year
func WalletSummaryCacheKey(userID uint, year string) string {
	return fmt.Sprintf("walletsummary:user:%d:year:%s", userID, year)
}

// GetCache retrieves a value from Redis and unmarshals it into dest
func GetCache(ctx context.Context, rdb *redis.Client, key string, dest any) (bool, error) {
	val, err := rdb.Get(ctx, key).Result() // Get value from Redis
	if err == redis.Nil {
		return false, nil // Key does not exist
	} else if err != nil {
		return false, err // Other Redis error
	}
	return true, json.Unmarshal([]byte(val), dest) // Unmarshal JSON into dest
}

// SetCache sets a value in Redis with a specified TTL
func SetCache(ctx context.Context, rdb *redis.Client, key string, value any, ttl time.Duration) error {
	b, err := json.Marshal(value) // Marshal value to JSON
	if err != nil {
		return err // Return error if marshaling fails
	}
	return rdb.Set(ctx, key, b, ttl).Err() // Set value in Redis with TTL
}

// DeleteCache deletes a key from Redis
func DeleteCache(ctx context.Context, rdb *redis.Client, key string) error {
	return rdb.Del(ctx, key).Err() // Delete key from Redis
}

// InvalidateWalletCache drops both the wallet and the summary cache entries
// for a taxpayer/year after any wallet mutation
func InvalidateWalletCache(ctx context.Context, rdb *redis.Client, userID uint, year string) {
	_ = DeleteCache(ctx, rdb, WalletCacheKey(userID, year))        // Invalidate wallet cache
	_ = DeleteCache(ctx, rdb, WalletSummaryCacheKey(userID, year)) // Invalidate summary cache
}
