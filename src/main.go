package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mediaarchive/src/cache"
	"mediaarchive/src/config"
	"mediaarchive/src/database"
	"mediaarchive/src/media"
	"mediaarchive/src/redis"
	"mediaarchive/src/repository"
	"mediaarchive/src/router"
	"mediaarchive/src/utils"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

// @title Media Archive API
// @version 1.0.0
// @description Public archive of media items and curated collections with an admin API.
// @host localhost:3000
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Example Value: Bearer {token}
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := setupFiberApp()

	db := setupDatabase()
	defer closeDatabase(db)

	redisClient, healthMonitor := setupRedis()
	defer closeRedis(redisClient, healthMonitor)

	store := setupCacheStore(redisClient)
	defer closeCacheStore(store)

	mediaStore := setupMediaStore(ctx)

	metrics := cache.NewMetrics(prometheus.DefaultRegisterer)
	reader := cache.NewReadThrough(store, config.CacheTTL, metrics)

	router.Routes(app, router.Dependencies{
		DB:             db,
		ArchiveItems:   repository.NewArchiveItemRepository(db),
		Collections:    repository.NewCollectionRepository(db),
		Categories:     repository.NewCategoryRepository(db),
		Users:          repository.NewUserRepository(db),
		Cache:          store,
		Reader:         reader,
		Invalidator:    cache.NewCacheInvalidator(store, metrics, reader),
		Media:          mediaStore,
		RedisClient:    redisClient,
		HealthMonitor:  healthMonitor,
		RateLimiter:    config.LoadRateLimiterConfig(),
		JWTSecret:      config.JWTSecret,
		JWTAccessExp:   time.Duration(config.JWTAccessExp) * time.Minute,
		SessionTTL:     time.Duration(config.SessionCacheTTL) * time.Minute,
		SignupEnabled:  config.SignupEnabled,
		MaxUploadBytes: int64(config.MaxUploadBytes),
		EnableDocs:     !config.IsProd,
	})

	address := fmt.Sprintf("%s:%d", config.AppHost, config.AppPort)

	// Start server and handle graceful shutdown
	serverErrors := make(chan error, 1)
	go startServer(app, address, serverErrors)
	handleGracefulShutdown(ctx, app, serverErrors)
}

func setupFiberApp() *fiber.App {
	app := fiber.New(config.FiberConfig())

	// Middleware setup
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(compress.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:  config.FrontendURL,
		AllowMethods:  "GET,POST,PUT,DELETE",
		ExposeHeaders: "X-Cache",
	}))

	prom := fiberprometheus.New("media-archive")
	prom.RegisterAt(app, "/metrics")
	app.Use(prom.Middleware)

	return app
}

func setupDatabase() *gorm.DB {
	db, err := database.Connect(config.DBHost, config.DBName)
	if err != nil {
		utils.Log.Fatalf("Database connection failed: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		utils.Log.Fatalf("Database migration failed: %v", err)
	}

	return db
}

// setupRedis returns nil values when Redis is disabled or unreachable.
func setupRedis() (*redis.RedisClient, *redis.HealthMonitor) {
	redisClient, err := redis.NewRedisClient(*config.LoadRedisConfig())
	if err != nil {
		utils.Log.Errorf("Failed to initialize Redis client: %v", err)
		return nil, nil
	}
	if redisClient == nil {
		return nil, nil
	}

	healthMonitor := redis.NewHealthMonitor(redisClient, 30*time.Second, func(available bool) {
		if available {
			utils.Log.Info("Redis state changed to available")
		} else {
			utils.Log.Warn("Redis state changed to unavailable")
		}
	})
	go healthMonitor.Start()
	utils.Log.Info("Redis health monitor started")

	return redisClient, healthMonitor
}

func setupCacheStore(redisClient *redis.RedisClient) cache.Store {
	if config.CacheDriver == config.CacheDriverRedis && redisClient != nil {
		utils.Log.Info("Response cache backed by Redis")
		return cache.NewRedisStore(redisClient, config.CacheTTL)
	}

	utils.Log.Infof("Response cache in memory (ttl %s, sweep %s)", config.CacheTTL, config.CacheSweepInterval)
	return cache.NewMemoryStore(config.CacheTTL, config.CacheSweepInterval)
}

func setupMediaStore(ctx context.Context) media.Store {
	setupCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	store, err := media.NewMinioStore(setupCtx, media.MinioConfig{
		Endpoint:  config.MinioEndpoint,
		AccessKey: config.MinioAccessKey,
		SecretKey: config.MinioSecretKey,
		Bucket:    config.MinioBucket,
		UseSSL:    config.MinioUseSSL,
		PublicURL: config.MinioPublicURL,
	})
	if err != nil {
		utils.Log.Fatalf("Media store setup failed: %v", err)
	}

	return store
}

func startServer(app *fiber.App, address string, errs chan<- error) {
	if err := app.Listen(address); err != nil {
		errs <- fmt.Errorf("error starting server: %w", err)
	}
}

func closeDatabase(db *gorm.DB) {
	sqlDB, errDB := db.DB()
	if errDB != nil {
		utils.Log.Errorf("Error getting database instance: %v", errDB)
		return
	}

	if err := sqlDB.Close(); err != nil {
		utils.Log.Errorf("Error closing database connection: %v", err)
	} else {
		utils.Log.Info("Database connection closed successfully")
	}
}

func closeRedis(redisClient *redis.RedisClient, healthMonitor *redis.HealthMonitor) {
	if healthMonitor != nil {
		healthMonitor.Stop()
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			utils.Log.Errorf("Error closing Redis connection: %v", err)
		}
	}
}

func closeCacheStore(store cache.Store) {
	if memory, ok := store.(*cache.MemoryStore); ok {
		memory.Close()
	}
}

func handleGracefulShutdown(ctx context.Context, app *fiber.App, serverErrors <-chan error) {
	select {
	case err := <-serverErrors:
		utils.Log.Errorf("Server error: %v", err)
	case <-ctx.Done():
		utils.Log.Info("Shutting down server...")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil && !errors.Is(err, context.DeadlineExceeded) {
			utils.Log.Errorf("Error during server shutdown: %v", err)
		}
	}

	utils.Log.Info("Server exited")
}
