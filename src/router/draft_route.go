package router

import (
	"mediaarchive/src/controller"
	"mediaarchive/src/service"

	"github.com/gofiber/fiber/v2"
)

func DraftRoutes(r fiber.Router, s service.DraftService, auth authorizer, maxUploadBytes int64) {
	draftController := controller.NewDraftController(s, maxUploadBytes)

	draft := r.Group("/drafts", auth("manageDrafts"))

	draft.Get("/", draftController.GetDrafts)
	draft.Get("/:id", draftController.GetDraftByID)
	draft.Put("/:id", draftController.UpdateDraft)
	draft.Delete("/:id", draftController.DeleteDraft)
	draft.Post("/:id/publish", draftController.PublishDraft)
}
