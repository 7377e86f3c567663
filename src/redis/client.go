package redis

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"mediaarchive/src/config"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker/v2"
)

// ErrRedisUnavailable is returned when Redis is disabled, unhealthy or the circuit breaker is open
var ErrRedisUnavailable = errors.New("redis unavailable")

// RedisClient wraps the go-redis client with circuit breaker protection
type RedisClient struct {
	client         *redis.Client
	circuitBreaker *gobreaker.CircuitBreaker[any]
	available      atomic.Bool
}

// NewRedisClient connects to Redis and returns nil, nil when Redis is disabled.
func NewRedisClient(cfg config.RedisConfig) (*RedisClient, error) {
	if !cfg.Enabled {
		logrus.Info("Redis disabled - running in memory-only mode")
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.MaxActive,
		MinIdleConns: cfg.MaxIdle,
		MaxIdleConns: cfg.MaxIdle,
		PoolTimeout:  time.Duration(cfg.PoolTimeout) * time.Second,
		DialTimeout:  time.Duration(cfg.DialTimeout) * time.Second,
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,

		MaxRetries:      3,
		MinRetryBackoff: 8 * time.Millisecond,
		MaxRetryBackoff: 32 * time.Millisecond,
	})

	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        "Redis",
		MaxRequests: 5,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool { return counts.ConsecutiveFailures > 3 },
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logrus.Infof("Circuit breaker '%s' state changed: %s -> %s", name, from, to)
		},
	})

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.DialTimeout)*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logrus.Errorf("Failed to connect to Redis: %v", err)
		_ = client.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	r := &RedisClient{client: client, circuitBreaker: cb}
	r.available.Store(true)
	logrus.Infof("Redis connected successfully: %s:%d (DB: %d)", cfg.Host, cfg.Port, cfg.DB)

	return r, nil
}

// IsAvailable reports whether Redis answered the last health check and the breaker is not open.
func (r *RedisClient) IsAvailable() bool {
	if r == nil || !r.available.Load() {
		return false
	}
	return r.circuitBreaker.State() != gobreaker.StateOpen
}

func (r *RedisClient) setAvailable(available bool) {
	r.available.Store(available)
}

// GetClient returns the underlying go-redis client
func (r *RedisClient) GetClient() *redis.Client {
	return r.client
}

// Ping checks connectivity without going through the circuit breaker.
func (r *RedisClient) Ping(ctx context.Context) error {
	if r == nil {
		return ErrRedisUnavailable
	}
	return r.client.Ping(ctx).Err()
}

// ExecuteWithCircuitBreaker executes a function through the circuit breaker
func (r *RedisClient) ExecuteWithCircuitBreaker(fn func() (any, error)) (any, error) {
	if !r.IsAvailable() {
		return nil, ErrRedisUnavailable
	}
	return r.circuitBreaker.Execute(fn)
}

// Close closes the Redis client connection
func (r *RedisClient) Close() error {
	if r == nil || r.client == nil {
		return nil
	}
	return r.client.Close()
}
