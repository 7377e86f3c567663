package router

import (
	"mediaarchive/src/controller"
	"mediaarchive/src/service"

	"github.com/gofiber/fiber/v2"
)

func ArchiveItemRoutes(r fiber.Router, s service.ArchiveItemService, auth authorizer, maxUploadBytes int64) {
	archiveItemController := controller.NewArchiveItemController(s, maxUploadBytes)

	item := r.Group("/archive-items")

	item.Get("/", archiveItemController.GetArchiveItems)
	item.Post("/upload", auth("manageArchive"), archiveItemController.UploadArchiveItem)
	item.Get("/:id", archiveItemController.GetArchiveItemByID)
	item.Put("/:id", auth("manageArchive"), archiveItemController.UpdateArchiveItem)
	item.Delete("/:id", auth("manageArchive"), archiveItemController.DeleteArchiveItem)
}
