package router

import (
	"mediaarchive/src/controller"
	"mediaarchive/src/service"

	"github.com/gofiber/fiber/v2"
)

func CategoryRoutes(r fiber.Router, s service.CategoryService, auth authorizer) {
	categoryController := controller.NewCategoryController(s)

	category := r.Group("/categories")

	category.Get("/", categoryController.GetCategories)
	category.Post("/add-category", auth("manageCategories"), categoryController.CreateCategory)
	category.Get("/:id", categoryController.GetCategoryByID)
}
