package router

import (
	"time"

	"mediaarchive/src/cache"
	"mediaarchive/src/config"
	"mediaarchive/src/media"
	m "mediaarchive/src/middleware"
	"mediaarchive/src/redis"
	"mediaarchive/src/repository"
	"mediaarchive/src/service"
	"mediaarchive/src/validation"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Dependencies are constructed once at startup and shared by every route.
type Dependencies struct {
	// DB is only used by the health check and may be nil.
	DB *gorm.DB

	ArchiveItems repository.ArchiveItemRepository
	Collections  repository.CollectionRepository
	Categories   repository.CategoryRepository
	Users        repository.UserRepository

	Cache       cache.Store
	Reader      *cache.ReadThrough
	Invalidator *cache.CacheInvalidator
	Media       media.Store

	RedisClient   *redis.RedisClient
	HealthMonitor *redis.HealthMonitor
	RateLimiter   *config.RateLimiterConfig

	JWTSecret      string
	JWTAccessExp   time.Duration
	SessionTTL     time.Duration
	SignupEnabled  bool
	MaxUploadBytes int64
	EnableDocs     bool
}

// authorizer builds the auth middleware for a set of required rights.
type authorizer func(requiredRights ...string) fiber.Handler

func Routes(app *fiber.App, deps Dependencies) {
	validate := validation.Validator()

	sessionService := service.NewSessionService(deps.Cache, deps.SessionTTL)
	userService := service.NewUserService(deps.Users, validate)
	tokenService := service.NewTokenService(deps.JWTSecret, deps.JWTAccessExp, sessionService)
	authService := service.NewAuthService(validate, userService, sessionService, deps.SignupEnabled)
	healthCheckService := service.NewHealthCheckService(deps.DB, deps.HealthMonitor, deps.Cache)
	categoryService := service.NewCategoryService(deps.Categories, validate)
	collectionService := service.NewCollectionService(
		deps.Collections, deps.ArchiveItems, deps.Reader, deps.Invalidator, validate,
	)
	archiveItemService := service.NewArchiveItemService(
		deps.ArchiveItems, deps.Collections, deps.Categories, deps.Media, deps.Reader, deps.Invalidator, validate,
	)
	draftService := service.NewDraftService(
		deps.ArchiveItems, deps.Categories, deps.Media, deps.Invalidator, validate,
	)

	auth := authorizer(func(requiredRights ...string) fiber.Handler {
		return m.Auth(deps.JWTSecret, userService, sessionService, requiredRights...)
	})

	HealthCheckRoutes(app, healthCheckService)
	AuthRoutes(app, authService, tokenService, auth, m.NewRateLimiterMiddleware(deps.RedisClient, deps.RateLimiter))
	CategoryRoutes(app, categoryService, auth)
	CollectionRoutes(app, collectionService, auth)
	ArchiveItemRoutes(app, archiveItemService, auth, deps.MaxUploadBytes)
	DraftRoutes(app, draftService, auth, deps.MaxUploadBytes)

	if deps.EnableDocs {
		DocsRoutes(app)
	}
}
