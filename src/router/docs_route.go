package router

import (
	"mediaarchive/src/docs"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
)

func DocsRoutes(r fiber.Router) {
	docs.SwaggerInfo.BasePath = "/"

	r.Get("/docs/*", swagger.HandlerDefault)
}
