package config

import (
	"strconv"
	"time"

	"mediaarchive/src/utils"

	"github.com/spf13/viper"
)

var (
	IsProd             bool
	AppHost            string
	AppPort            int
	FrontendURL        string
	DBHost             string
	DBUser             string
	DBPassword         string
	DBName             string
	DBPort             int
	JWTSecret          string
	JWTAccessExp       int
	SignupEnabled      bool
	CacheDriver        string
	CacheTTL           time.Duration
	CacheSweepInterval time.Duration
	SessionCacheTTL    int
	MinioEndpoint      string
	MinioAccessKey     string
	MinioSecretKey     string
	MinioBucket        string
	MinioUseSSL        bool
	MinioPublicURL     string
	MaxUploadBytes     int
	RedisEnabled       bool
	RedisHost          string
	RedisPort          int
	RedisPassword      string
	RedisDB            int
)

const (
	CacheDriverMemory = "memory"
	CacheDriverRedis  = "redis"
)

func init() {
	loadConfig()

	// server configuration
	IsProd = viper.GetString("APP_ENV") == "prod"
	AppHost = viper.GetString("APP_HOST")
	AppPort = viper.GetInt("APP_PORT")
	FrontendURL = viper.GetString("FRONTEND_URL")

	// database configuration
	DBHost = viper.GetString("DB_HOST")
	DBUser = viper.GetString("DB_USER")
	DBPassword = viper.GetString("DB_PASSWORD")
	DBName = viper.GetString("DB_NAME")
	DBPort = viper.GetInt("DB_PORT")

	// jwt configuration
	JWTSecret = viper.GetString("JWT_SECRET")
	JWTAccessExp = viper.GetInt("JWT_ACCESS_EXP_MINUTES")
	if JWTAccessExp <= 0 {
		JWTAccessExp = 7 * 24 * 60
	}
	SignupEnabled = viper.GetBool("SIGNUP_ENABLED")

	// media storage configuration
	MinioEndpoint = viper.GetString("MINIO_ENDPOINT")
	MinioAccessKey = viper.GetString("MINIO_ACCESS_KEY")
	MinioSecretKey = viper.GetString("MINIO_SECRET_KEY")
	MinioBucket = viper.GetString("MINIO_BUCKET")
	MinioUseSSL = viper.GetBool("MINIO_USE_SSL")
	MinioPublicURL = viper.GetString("MINIO_PUBLIC_URL")
	MaxUploadBytes = viper.GetInt("MEDIA_MAX_UPLOAD_BYTES")
	if MaxUploadBytes <= 0 {
		MaxUploadBytes = 2 * 1024 * 1024
	}

	// redis configuration
	RedisHost = viper.GetString("REDIS_HOST")
	RedisPort = viper.GetInt("REDIS_PORT")
	RedisPassword = viper.GetString("REDIS_PASSWORD")
	RedisDB = viper.GetInt("REDIS_DB")

	if err := ValidateRedisConfig(RedisHost, RedisPort, RedisDB); err != nil {
		utils.Log.Fatal(err)
	}

	LoadCacheConfig()
	LoadSessionCacheConfig()
}

func loadConfig() {
	viper.AutomaticEnv()

	configPaths := []string{
		"./",     // For app
		"../../", // For test folder
	}

	for _, path := range configPaths {
		viper.SetConfigFile(path + ".env")

		if err := viper.ReadInConfig(); err == nil {
			utils.Log.Infof("Config file loaded from %s", path)
			return
		}
	}

	utils.Log.Warn("No .env file found, using environment variables only")
}

// LoadCacheConfig reads the response cache settings.
// Defaults: memory driver, 1 hour TTL, sweep every 10 minutes.
func LoadCacheConfig() {
	CacheDriver = viper.GetString("CACHE_DRIVER")
	switch CacheDriver {
	case CacheDriverMemory, CacheDriverRedis:
	case "":
		CacheDriver = CacheDriverMemory
	default:
		utils.Log.Warnf("Unknown CACHE_DRIVER '%s', falling back to %s", CacheDriver, CacheDriverMemory)
		CacheDriver = CacheDriverMemory
	}

	if CacheDriver == CacheDriverRedis && !RedisEnabled {
		utils.Log.Warn("CACHE_DRIVER=redis but Redis is not configured, using in-memory cache")
		CacheDriver = CacheDriverMemory
	}

	CacheTTL = secondsOrDefault("CACHE_TTL_SECONDS", 3600)
	CacheSweepInterval = secondsOrDefault("CACHE_SWEEP_SECONDS", 600)
}

func secondsOrDefault(key string, def int) time.Duration {
	seconds := viper.GetInt(key)
	if seconds <= 0 {
		seconds = def
	}
	return time.Duration(seconds) * time.Second
}

// LoadSessionCacheConfig loads session cache TTL configuration from environment
// Default: 30 minutes, Range: 10-120 minutes
func LoadSessionCacheConfig() {
	defaultTTL := 30
	SessionCacheTTL = defaultTTL

	sessionTTLStr := viper.GetString("SESSION_CACHE_TTL")
	if sessionTTLStr == "" {
		utils.Log.Infof("Session cache TTL not specified, using default: %d minutes", defaultTTL)
		return
	}

	sessionTTL, err := strconv.Atoi(sessionTTLStr)
	if err != nil {
		utils.Log.Errorf("Invalid SESSION_CACHE_TTL value '%s': %v. Using default: %d minutes", sessionTTLStr, err, defaultTTL)
		return
	}

	if sessionTTL < 10 || sessionTTL > 120 {
		utils.Log.Warnf("SESSION_CACHE_TTL value %d minutes is outside allowed range (10-120). Using default: %d minutes", sessionTTL, defaultTTL)
		return
	}

	SessionCacheTTL = sessionTTL
	utils.Log.Infof("Session cache TTL configured: %d minutes", SessionCacheTTL)
}
