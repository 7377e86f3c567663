package controller

import (
	"mediaarchive/src/response"
	"mediaarchive/src/service"
	"mediaarchive/src/validation"

	"github.com/gofiber/fiber/v2"
)

type ArchiveItemController struct {
	ArchiveItemService service.ArchiveItemService
	MaxUploadBytes     int64
}

func NewArchiveItemController(archiveItemService service.ArchiveItemService, maxUploadBytes int64) *ArchiveItemController {
	return &ArchiveItemController{
		ArchiveItemService: archiveItemService,
		MaxUploadBytes:     maxUploadBytes,
	}
}

// @Tags         Archive Items
// @Summary      List public archive items
// @Description  Empty results are reported as 404 and are not cached.
// @Produce      json
// @Param        categoryId  query  string  false  "Category id"
// @Param        search      query  string  false  "Case-insensitive title filter"
// @Router       /archive-items [get]
// @Success      200  {object}  response.ArchiveItemList
// @Failure      400  {object}  response.Common  "Category not found"
// @Failure      404  {object}  response.Common  "No archives/archive items found"
// @Header       200  {string}  X-Cache  "HIT or MISS"
func (ac *ArchiveItemController) GetArchiveItems(c *fiber.Ctx) error {
	query := &validation.QueryArchiveItems{
		CategoryID: c.Query("categoryId"),
		Search:     c.Query("search"),
	}

	result, err := ac.ArchiveItemService.ListArchiveItems(c.UserContext(), query)
	if err != nil {
		return err
	}

	return sendCached(c, result)
}

// @Tags         Archive Items
// @Summary      Get a public archive item
// @Description  Returns the item with its category and collections. Responses are cached.
// @Produce      json
// @Param        id  path  string  true  "Archive item id"
// @Router       /archive-items/{id} [get]
// @Success      200  {object}  response.ArchiveItemDetail
// @Failure      404  {object}  response.Common  "Archive item not found"
func (ac *ArchiveItemController) GetArchiveItemByID(c *fiber.Ctx) error {
	result, err := ac.ArchiveItemService.GetArchiveItemByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}

	return sendCached(c, result)
}

// @Tags         Archive Items
// @Summary      Upload an archive item
// @Description  Stores the file and saves the item as public or as a draft.
// @Security     BearerAuth
// @Accept       multipart/form-data
// @Produce      json
// @Param        media            formData  file    true   "Media file"
// @Param        title            formData  string  true   "Title"
// @Param        description      formData  string  true   "Description"
// @Param        categoryId       formData  string  true   "Category id"
// @Param        visibility       formData  string  false  "public or private"
// @Param        isOnTheMainPage  formData  bool    false  "Feature on the main page"
// @Router       /archive-items/upload [post]
// @Success      201  {object}  response.ItemSaved
// @Failure      400  {object}  response.Common  "Media file is required"
func (ac *ArchiveItemController) UploadArchiveItem(c *fiber.Ctx) error {
	req := new(validation.CreateArchiveItem)

	if err := c.BodyParser(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	upload, closeUpload, err := readUpload(c, ac.MaxUploadBytes)
	if err != nil {
		return err
	}
	defer closeUpload()

	item, err := ac.ArchiveItemService.CreateArchiveItem(c.UserContext(), req, upload)
	if err != nil {
		return err
	}

	message, savedTo := "Item uploaded successfully as archive", "Archives"
	if !item.IsPublic() {
		message, savedTo = "Item uploaded successfully as draft", "Drafts"
	}

	return c.Status(fiber.StatusCreated).
		JSON(response.ItemSaved{
			Message: message,
			Item:    *item,
			SavedTo: savedTo,
		})
}

// @Tags         Archive Items
// @Summary      Update an archive item
// @Description  Updates metadata, replaces the media file, changes collection membership, or moves the item to drafts with visibility=private.
// @Security     BearerAuth
// @Accept       json,mpfd
// @Produce      json
// @Param        id       path  string                          true  "Archive item id"
// @Param        request  body  validation.UpdateArchiveItem  true  "Request body"
// @Router       /archive-items/{id} [put]
// @Success      200  {object}  response.ItemSaved
// @Failure      404  {object}  response.Common  "Archive item not found"
func (ac *ArchiveItemController) UpdateArchiveItem(c *fiber.Ctx) error {
	req := new(validation.UpdateArchiveItem)

	if err := c.BodyParser(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	upload, closeUpload, err := readUpload(c, ac.MaxUploadBytes)
	if err != nil {
		return err
	}
	defer closeUpload()

	item, err := ac.ArchiveItemService.UpdateArchiveItem(c.UserContext(), c.Params("id"), req, upload)
	if err != nil {
		return err
	}

	message, savedTo := "Archive item updated successfully", "Archives"
	if !item.IsPublic() {
		message, savedTo = "Archive item moved to drafts", "Drafts"
	}

	return c.Status(fiber.StatusOK).
		JSON(response.ItemSaved{
			Message: message,
			Item:    *item,
			SavedTo: savedTo,
		})
}

// @Tags         Archive Items
// @Summary      Delete an archive item
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Archive item id"
// @Router       /archive-items/{id} [delete]
// @Success      200  {object}  response.Message
// @Failure      404  {object}  response.Common  "Archive item not found"
func (ac *ArchiveItemController) DeleteArchiveItem(c *fiber.Ctx) error {
	if err := ac.ArchiveItemService.DeleteArchiveItem(c.UserContext(), c.Params("id")); err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).
		JSON(response.Message{
			Message: "Archive item deleted successfully",
		})
}
