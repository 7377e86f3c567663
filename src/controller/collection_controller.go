package controller

import (
	"mediaarchive/src/response"
	"mediaarchive/src/service"
	"mediaarchive/src/validation"

	"github.com/gofiber/fiber/v2"
)

type CollectionController struct {
	CollectionService service.CollectionService
}

func NewCollectionController(collectionService service.CollectionService) *CollectionController {
	return &CollectionController{
		CollectionService: collectionService,
	}
}

// @Tags         Collections
// @Summary      List collections
// @Description  Lists collections with the number of public items in each. Responses are cached.
// @Produce      json
// @Param        search  query     string  false  "Case-insensitive name filter"
// @Router       /collections [get]
// @Success      200  {object}  response.CollectionList
// @Header       200  {string}  X-Cache  "HIT or MISS"
func (cc *CollectionController) GetCollections(c *fiber.Ctx) error {
	query := &validation.QueryCollections{
		Search: c.Query("search"),
	}

	result, err := cc.CollectionService.ListCollections(c.UserContext(), query)
	if err != nil {
		return err
	}

	return sendCached(c, result)
}

// @Tags         Collections
// @Summary      Get a collection
// @Description  Returns a collection with its public archive items. Responses are cached.
// @Produce      json
// @Param        id  path  string  true  "Collection id"
// @Router       /collections/{id} [get]
// @Success      200  {object}  response.CollectionDetail
// @Failure      404  {object}  response.Common  "Collection not found"
func (cc *CollectionController) GetCollectionByID(c *fiber.Ctx) error {
	result, err := cc.CollectionService.GetCollectionByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}

	return sendCached(c, result)
}

// @Tags         Collections
// @Summary      Create a collection
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body  validation.CreateCollection  true  "Request body"
// @Router       /collections/create [post]
// @Success      201  {object}  response.CollectionCreated
// @Failure      404  {object}  response.Common  "One or more archive items not found"
// @Failure      409  {object}  response.Common  "Collection name already exists"
func (cc *CollectionController) CreateCollection(c *fiber.Ctx) error {
	req := new(validation.CreateCollection)

	if err := c.BodyParser(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	collection, err := cc.CollectionService.CreateCollection(c.UserContext(), req)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).
		JSON(response.CollectionCreated{
			Message:    "Collection created successfully",
			Collection: *collection,
		})
}

// @Tags         Collections
// @Summary      Update a collection
// @Description  Renames a collection, edits its description, or adds and removes items.
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  string                        true  "Collection id"
// @Param        request  body  validation.UpdateCollection  true  "Request body"
// @Router       /collections/{id} [put]
// @Success      200  {object}  response.CollectionDetail
// @Failure      404  {object}  response.Common  "Collection not found"
func (cc *CollectionController) UpdateCollection(c *fiber.Ctx) error {
	req := new(validation.UpdateCollection)

	if err := c.BodyParser(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	collection, err := cc.CollectionService.UpdateCollection(c.UserContext(), c.Params("id"), req)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).
		JSON(response.CollectionDetail{
			Message:    "Collection updated successfully",
			Collection: *collection,
		})
}

// @Tags         Collections
// @Summary      Delete a collection
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Collection id"
// @Router       /collections/{id} [delete]
// @Success      200  {object}  response.Message
// @Failure      404  {object}  response.Common  "Collection not found"
func (cc *CollectionController) DeleteCollection(c *fiber.Ctx) error {
	if err := cc.CollectionService.DeleteCollection(c.UserContext(), c.Params("id")); err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).
		JSON(response.Message{
			Message: "Collection deleted successfully",
		})
}
