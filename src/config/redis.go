package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	Password     string `mapstructure:"password"`
	DB           int    `mapstructure:"db"`
	Enabled      bool   `mapstructure:"enabled"`
	MaxIdle      int    `mapstructure:"max_idle"`
	MaxActive    int    `mapstructure:"max_active"`
	PoolTimeout  int    `mapstructure:"pool_timeout"`
	DialTimeout  int    `mapstructure:"dial_timeout"`
	ReadTimeout  int    `mapstructure:"read_timeout"`
	WriteTimeout int    `mapstructure:"write_timeout"`
}

func (c *RedisConfig) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid Redis port: %d (must be between 1-65535)", c.Port)
	}

	if c.DB < 0 {
		return fmt.Errorf("invalid Redis DB: %d (must be >= 0)", c.DB)
	}

	if strings.TrimSpace(c.Host) == "" {
		return fmt.Errorf("redis host cannot be empty")
	}

	return nil
}

// ValidateRedisConfig sets RedisEnabled. Redis is off when neither host nor
// port is configured.
func ValidateRedisConfig(host string, port int, db int) error {
	if host == "" && port == 0 {
		RedisEnabled = false
		return nil
	}

	cfg := &RedisConfig{Host: host, Port: port, DB: db}
	if cfg.Host == "" {
		cfg.Host = "localhost"
	}
	if cfg.Port == 0 {
		cfg.Port = 6379
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid Redis configuration: %w", err)
	}

	RedisEnabled = true
	return nil
}

// LoadRedisConfig loads Redis configuration from environment variables
func LoadRedisConfig() *RedisConfig {
	cfg := &RedisConfig{Enabled: RedisEnabled}
	if !cfg.Enabled {
		return cfg
	}

	cfg.Host = stringOrDefault("REDIS_HOST", "localhost")
	cfg.Port = intOrDefault("REDIS_PORT", 6379)
	cfg.Password = viper.GetString("REDIS_PASSWORD")
	cfg.DB = max(viper.GetInt("REDIS_DB"), 0)

	// connection pool, timeouts in seconds
	cfg.MaxIdle = intOrDefault("REDIS_MAX_IDLE", 10)
	cfg.MaxActive = intOrDefault("REDIS_MAX_ACTIVE", 100)
	cfg.PoolTimeout = intOrDefault("REDIS_POOL_TIMEOUT", 4)
	cfg.DialTimeout = intOrDefault("REDIS_DIAL_TIMEOUT", 10)
	cfg.ReadTimeout = intOrDefault("REDIS_READ_TIMEOUT", 5)
	cfg.WriteTimeout = intOrDefault("REDIS_WRITE_TIMEOUT", 5)

	return cfg
}

func stringOrDefault(key, def string) string {
	if v := viper.GetString(key); v != "" {
		return v
	}
	return def
}

func intOrDefault(key string, def int) int {
	if v := viper.GetInt(key); v > 0 {
		return v
	}
	return def
}
