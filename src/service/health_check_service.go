package service

import (
	"context"
	"errors"
	"fmt"

	"mediaarchive/src/cache"
	"mediaarchive/src/redis"
	"mediaarchive/src/response"
	"mediaarchive/src/utils"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type HealthCheckService interface {
	GormCheck(ctx context.Context) error
	RedisCheck() error
	CacheCheck(ctx context.Context) (map[cache.Namespace]int, error)
	Check(ctx context.Context) []response.HealthCheck
}

type healthCheckService struct {
	Log           *logrus.Logger
	DB            *gorm.DB
	HealthMonitor *redis.HealthMonitor
	Cache         cache.Store
}

func NewHealthCheckService(db *gorm.DB, healthMonitor *redis.HealthMonitor, store cache.Store) HealthCheckService {
	return &healthCheckService{
		Log:           utils.Log,
		DB:            db,
		HealthMonitor: healthMonitor,
		Cache:         store,
	}
}

func (s *healthCheckService) GormCheck(ctx context.Context) error {
	if s.DB == nil {
		return errors.New("database is not configured")
	}

	sqlDB, err := s.DB.DB()
	if err != nil {
		s.Log.Errorf("failed to access the database connection pool: %v", err)
		return err
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		s.Log.Errorf("failed to ping the database: %v", err)
		return err
	}

	return nil
}

// RedisCheck returns nil when Redis is not in use.
func (s *healthCheckService) RedisCheck() error {
	if s.HealthMonitor == nil {
		return nil
	}
	if !s.HealthMonitor.IsAvailable() {
		return errors.New("redis is unavailable")
	}
	return nil
}

// CacheCheck counts live cache keys per namespace.
func (s *healthCheckService) CacheCheck(ctx context.Context) (map[cache.Namespace]int, error) {
	keys, err := s.Cache.Keys(ctx)
	if err != nil {
		return nil, err
	}

	counts := make(map[cache.Namespace]int)
	for _, key := range keys {
		if ns, ok := cache.NamespaceOf(key); ok {
			counts[ns]++
		}
	}
	return counts, nil
}

func (s *healthCheckService) Check(ctx context.Context) []response.HealthCheck {
	var results []response.HealthCheck

	results = append(results, checkResult("Postgre", s.GormCheck(ctx)))

	if s.HealthMonitor != nil {
		results = append(results, checkResult("Redis", s.RedisCheck()))
	}

	counts, err := s.CacheCheck(ctx)
	cacheResult := checkResult("Cache", err)
	if err == nil {
		msg := fmt.Sprintf("%d collection keys, %d archive item keys, %d session keys",
			counts[cache.NamespaceCollections], counts[cache.NamespaceArchiveItems], counts[cache.NamespaceSessions])
		cacheResult.Message = &msg
	}
	results = append(results, cacheResult)

	return results
}

func checkResult(name string, err error) response.HealthCheck {
	status := "Up"
	isUp := true
	var message *string

	if err != nil {
		status = "Down"
		isUp = false
		msg := err.Error()
		message = &msg
	}

	return response.HealthCheck{
		Name:    name,
		Status:  status,
		IsUp:    isUp,
		Message: message,
	}
}
