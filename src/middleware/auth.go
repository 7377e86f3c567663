package middleware

import (
	"context"
	"errors"

	"mediaarchive/src/config"
	"mediaarchive/src/model"
	"mediaarchive/src/service"
	"mediaarchive/src/utils"

	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const tokenContextKey = "token"

// Auth verifies the bearer token, resolves the admin behind it and checks
// requiredRights against the admin's role. The resolved *model.User is stored
// in c.Locals("user").
func Auth(secret string, userService service.UserService, sessionService service.SessionService, requiredRights ...string) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{
			JWTAlg: jwtware.HS256,
			Key:    []byte(secret),
		},
		ContextKey: tokenContextKey,
		ErrorHandler: func(_ *fiber.Ctx, _ error) error {
			return fiber.NewError(fiber.StatusUnauthorized, "Please authenticate")
		},
		SuccessHandler: func(c *fiber.Ctx) error {
			return authorize(c, userService, sessionService, requiredRights)
		},
	})
}

func authorize(c *fiber.Ctx, userService service.UserService, sessionService service.SessionService, requiredRights []string) error {
	token, _ := c.Locals(tokenContextKey).(*jwt.Token)
	userID, err := utils.SubjectFromToken(token, config.TokenTypeAccess)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "Please authenticate")
	}

	user, err := resolveUser(c, userID, userService, sessionService)
	if err != nil {
		return err
	}

	c.Locals("user", user)

	if len(requiredRights) > 0 {
		userRights, hasRights := config.RoleRights[user.Role]
		if !hasRights || !hasAllRights(userRights, requiredRights) {
			return fiber.NewError(fiber.StatusForbidden, "You don't have permission to access this resource")
		}
	}

	return c.Next()
}

// resolveUser reads the cached session first and falls back to the database.
func resolveUser(c *fiber.Ctx, userID string, userService service.UserService, sessionService service.SessionService) (*model.User, error) {
	sessionData, err := sessionService.GetUserSession(c.UserContext(), userID)
	if err == nil && sessionData != nil {
		id, parseErr := uuid.Parse(sessionData.ID)
		if parseErr == nil {
			return &model.User{
				Base:     model.Base{ID: id},
				UserName: sessionData.UserName,
				Role:     sessionData.Role,
			}, nil
		}
	}

	if err != nil && !errors.Is(err, service.ErrCacheMiss) {
		utils.Log.Warnf("Session cache error, falling back to database: %v", err)
	}

	user, err := userService.GetUserByID(c.UserContext(), userID)
	if err != nil || user == nil {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Please authenticate")
	}

	// Populate cache asynchronously (don't block response)
	ctx := context.WithoutCancel(c.UserContext())
	go func() {
		if cacheErr := sessionService.CacheUserSession(ctx, user); cacheErr != nil {
			utils.Log.Warnf("Failed to populate session cache: %v", cacheErr)
		}
	}()

	return user, nil
}

func hasAllRights(userRights, requiredRights []string) bool {
	rightSet := make(map[string]struct{}, len(userRights))
	for _, right := range userRights {
		rightSet[right] = struct{}{}
	}

	for _, right := range requiredRights {
		if _, exists := rightSet[right]; !exists {
			return false
		}
	}
	return true
}
