package cache

import (
	"context"
	"dispatch-simulation-service/internal/platform/obs"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "dispatch:provider"

// Redis backed cache for raw provider responses, shared between server
// instances. Entries expire after TTL; zero keeps them forever.
type RedisProviderCache struct {
	Client redis.Cmdable
	TTL    time.Duration
}

func NewRedisProviderCache(client redis.Cmdable, ttl time.Duration) *RedisProviderCache {
	return &RedisProviderCache{Client: client, TTL: ttl}
}

// OpenRedis connects using a redis:// URL and verifies the connection.
func OpenRedis(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("open redis: parse url: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("open redis: ping: %w", err)
	}
	return client, nil
}

func redisKey(kind, key string) string {
	return redisKeyPrefix + ":" + kind + ":" + key
}

func (r *RedisProviderCache) Get(ctx context.Context, kind, key string) (_ []byte, _ bool, err error) {
	defer obs.Time(ctx, "provider.cache.redis.Get")(&err)

	if r.Client == nil {
		return nil, false, errors.New("provider cache: redis client is nil")
	}
	if strings.TrimSpace(kind) == "" || strings.TrimSpace(key) == "" {
		return nil, false, errors.New("get provider cache: kind and key must not be empty")
	}

	payload, err := r.Client.Get(ctx, redisKey(kind, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get provider cache kind=%q: %w", kind, err)
	}
	return payload, true, nil
}

func (r *RedisProviderCache) Put(ctx context.Context, kind, key string, payload []byte) (err error) {
	defer obs.Time(ctx, "provider.cache.redis.Put")(&err)

	if r.Client == nil {
		return errors.New("provider cache: redis client is nil")
	}
	if strings.TrimSpace(kind) == "" || strings.TrimSpace(key) == "" {
		return errors.New("insert provider cache: kind and key must not be empty")
	}

	if err := r.Client.Set(ctx, redisKey(kind, key), payload, r.TTL).Err(); err != nil {
		return fmt.Errorf("insert provider cache kind=%q: %w", kind, err)
	}
	return nil
}
