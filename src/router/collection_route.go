package router

import (
	"mediaarchive/src/controller"
	"mediaarchive/src/service"

	"github.com/gofiber/fiber/v2"
)

func CollectionRoutes(r fiber.Router, s service.CollectionService, auth authorizer) {
	collectionController := controller.NewCollectionController(s)

	collection := r.Group("/collections")

	collection.Get("/", collectionController.GetCollections)
	collection.Post("/create", auth("manageCollections"), collectionController.CreateCollection)
	collection.Get("/:id", collectionController.GetCollectionByID)
	collection.Put("/:id", auth("manageCollections"), collectionController.UpdateCollection)
	collection.Delete("/:id", auth("manageCollections"), collectionController.DeleteCollection)
}
