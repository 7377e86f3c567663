package config

import (
	"time"

	"github.com/spf13/viper"
)

type RateLimiterConfig struct {
	Enabled       bool
	DefaultMax    int
	DefaultWindow time.Duration
	AuthMax       int
	AuthWindow    time.Duration
}

// LoadRateLimiterConfig is enabled unless RATE_LIMIT_ENABLED=false.
func LoadRateLimiterConfig() *RateLimiterConfig {
	viper.SetDefault("RATE_LIMIT_ENABLED", true)

	return &RateLimiterConfig{
		Enabled:       viper.GetBool("RATE_LIMIT_ENABLED"),
		DefaultMax:    intOrDefault("RATE_LIMIT_DEFAULT_MAX", 20),
		DefaultWindow: secondsOrDefault("RATE_LIMIT_DEFAULT_WINDOW_SECONDS", 60),
		AuthMax:       intOrDefault("RATE_LIMIT_AUTH_MAX", 10),
		AuthWindow:    secondsOrDefault("RATE_LIMIT_AUTH_WINDOW_SECONDS", 60),
	}
}
