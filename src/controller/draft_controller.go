package controller

import (
	"mediaarchive/src/response"
	"mediaarchive/src/service"
	"mediaarchive/src/validation"

	"github.com/gofiber/fiber/v2"
)

type DraftController struct {
	DraftService   service.DraftService
	MaxUploadBytes int64
}

func NewDraftController(draftService service.DraftService, maxUploadBytes int64) *DraftController {
	return &DraftController{
		DraftService:   draftService,
		MaxUploadBytes: maxUploadBytes,
	}
}

// @Tags         Drafts
// @Summary      List drafts
// @Security     BearerAuth
// @Produce      json
// @Router       /drafts [get]
// @Success      200  {object}  response.DraftList
func (dc *DraftController) GetDrafts(c *fiber.Ctx) error {
	drafts, err := dc.DraftService.ListDrafts(c.UserContext())
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).
		JSON(response.DraftList{
			Message: "Drafts retrieved successfully",
			Count:   len(drafts),
			Drafts:  drafts,
		})
}

// @Tags         Drafts
// @Summary      Get a draft
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Draft id"
// @Router       /drafts/{id} [get]
// @Success      200  {object}  response.Draft
// @Failure      404  {object}  response.Common  "Draft not found"
func (dc *DraftController) GetDraftByID(c *fiber.Ctx) error {
	draft, err := dc.DraftService.GetDraftByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).
		JSON(response.Draft{
			Message: "Draft retrieved successfully",
			Draft:   *draft,
		})
}

// @Tags         Drafts
// @Summary      Update a draft
// @Security     BearerAuth
// @Accept       json,mpfd
// @Produce      json
// @Param        id       path  string                    true  "Draft id"
// @Param        request  body  validation.UpdateDraft  true  "Request body"
// @Router       /drafts/{id} [put]
// @Success      200  {object}  response.Draft
// @Failure      404  {object}  response.Common  "Draft not found"
func (dc *DraftController) UpdateDraft(c *fiber.Ctx) error {
	req := new(validation.UpdateDraft)

	if err := c.BodyParser(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	upload, closeUpload, err := readUpload(c, dc.MaxUploadBytes)
	if err != nil {
		return err
	}
	defer closeUpload()

	draft, err := dc.DraftService.UpdateDraft(c.UserContext(), c.Params("id"), req, upload)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).
		JSON(response.Draft{
			Message: "Draft updated successfully",
			Draft:   *draft,
		})
}

// @Tags         Drafts
// @Summary      Delete a draft
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Draft id"
// @Router       /drafts/{id} [delete]
// @Success      200  {object}  response.Message
// @Failure      404  {object}  response.Common  "Draft not found"
func (dc *DraftController) DeleteDraft(c *fiber.Ctx) error {
	if err := dc.DraftService.DeleteDraft(c.UserContext(), c.Params("id")); err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).
		JSON(response.Message{
			Message: "Draft deleted successfully",
		})
}

// @Tags         Drafts
// @Summary      Publish a draft
// @Description  Makes the draft a public archive item. The id does not change.
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Draft id"
// @Router       /drafts/{id}/publish [post]
// @Success      200  {object}  response.ItemSaved
// @Failure      404  {object}  response.Common  "Draft not found"
func (dc *DraftController) PublishDraft(c *fiber.Ctx) error {
	item, err := dc.DraftService.PublishDraft(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).
		JSON(response.ItemSaved{
			Message: "Draft published successfully",
			Item:    *item,
			SavedTo: "Archives",
		})
}
