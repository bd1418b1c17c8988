// File: utils/cache.go
package utils

import (
	"context"
	"log"
	"time"

	"divyajyotisha/config"

	"github.com/go-redis/redis/v8"
)

// CacheClient is the generic cache client, used for catalog caching.
var CacheClient *redis.Client

// InitCache initializes the generic Redis cache client (using DB from AppConfig for general caching).
// The cache is an optimization; if Redis is unreachable the client stays nil
// and every consumer falls back to its backing store.
func InitCache() {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisCacheDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := client.Ping(ctx).Result(); err != nil {
		log.Printf("Redis (Cache) unreachable, running without cache: %v", err)
		CacheClient = nil
		return
	}
	CacheClient = client
}

// GetCacheClient returns the generic cache client, nil when Redis was
// unreachable at startup.
func GetCacheClient() *redis.Client {
	return CacheClient
}
