package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"mediaarchive/src/redis"

	goredis "github.com/redis/go-redis/v9"
)

// redisKeyPrefix keeps cache entries apart from rate limiter keys in the same DB.
const redisKeyPrefix = "cache:"

// RedisStore is a Store backed by Redis, for deployments that run more than one
// API process. Every call goes through the client's circuit breaker.
type RedisStore struct {
	client     *redis.RedisClient
	defaultTTL time.Duration
}

// NewRedisStore creates a store over client. Set with ttl <= 0 uses defaultTTL.
func NewRedisStore(client *redis.RedisClient, defaultTTL time.Duration) *RedisStore {
	return &RedisStore{client: client, defaultTTL: defaultTTL}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	result, err := s.client.ExecuteWithCircuitBreaker(func() (any, error) {
		data, err := s.client.GetClient().Get(ctx, redisKeyPrefix+key).Bytes()
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return data, err
	})
	if err != nil {
		return nil, false, fmt.Errorf("redis get %q: %w", key, err)
	}

	data, ok := result.([]byte)
	if !ok || data == nil {
		return nil, false, nil
	}
	return data, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = s.defaultTTL
	}

	_, err := s.client.ExecuteWithCircuitBreaker(func() (any, error) {
		return nil, s.client.GetClient().Set(ctx, redisKeyPrefix+key, value, ttl).Err()
	})
	if err != nil {
		return fmt.Errorf("redis set %q: %w", key, err)
	}
	return nil
}

// Keys uses SCAN instead of KEYS so a large keyspace does not block Redis.
func (s *RedisStore) Keys(ctx context.Context) ([]string, error) {
	result, err := s.client.ExecuteWithCircuitBreaker(func() (any, error) {
		var keys []string
		iter := s.client.GetClient().Scan(ctx, 0, redisKeyPrefix+"*", 100).Iterator()
		for iter.Next(ctx) {
			keys = append(keys, strings.TrimPrefix(iter.Val(), redisKeyPrefix))
		}
		return keys, iter.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("scan iterator error: %w", err)
	}

	keys, _ := result.([]string)
	return keys, nil
}

func (s *RedisStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	prefixed := make([]string, len(keys))
	for i, k := range keys {
		prefixed[i] = redisKeyPrefix + k
	}

	_, err := s.client.ExecuteWithCircuitBreaker(func() (any, error) {
		return nil, s.client.GetClient().Del(ctx, prefixed...).Err()
	})
	if err != nil {
		return fmt.Errorf("failed to delete keys: %w", err)
	}
	return nil
}
