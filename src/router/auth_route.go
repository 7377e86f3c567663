package router

import (
	"mediaarchive/src/controller"
	"mediaarchive/src/service"

	"github.com/gofiber/fiber/v2"
)

// AuthRoutes mounts signup, login and logout. limiter may be nil.
func AuthRoutes(r fiber.Router, a service.AuthService, t service.TokenService, auth authorizer, limiter fiber.Handler) {
	authController := controller.NewAuthController(a, t)

	var group fiber.Router
	if limiter != nil {
		group = r.Group("/auth", limiter)
	} else {
		group = r.Group("/auth")
	}

	group.Post("/signup", authController.Signup)
	group.Post("/login", authController.Login)
	group.Post("/logout", auth(), authController.Logout)
}
