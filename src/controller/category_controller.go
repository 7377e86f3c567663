package controller

import (
	"mediaarchive/src/response"
	"mediaarchive/src/service"
	"mediaarchive/src/validation"

	"github.com/gofiber/fiber/v2"
)

type CategoryController struct {
	CategoryService service.CategoryService
}

func NewCategoryController(categoryService service.CategoryService) *CategoryController {
	return &CategoryController{
		CategoryService: categoryService,
	}
}

// @Tags         Categories
// @Summary      List categories
// @Produce      json
// @Router       /categories [get]
// @Success      200  {object}  response.CategoryList
func (cc *CategoryController) GetCategories(c *fiber.Ctx) error {
	categories, err := cc.CategoryService.ListCategories(c.UserContext())
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).
		JSON(response.CategoryList{
			Message:    "Categories retrieved successfully",
			Count:      len(categories),
			Categories: categories,
		})
}

// @Tags         Categories
// @Summary      Get a category
// @Produce      json
// @Param        id  path  string  true  "Category id"
// @Router       /categories/{id} [get]
// @Success      200  {object}  response.Category
// @Failure      404  {object}  response.Common  "Category not found"
func (cc *CategoryController) GetCategoryByID(c *fiber.Ctx) error {
	category, err := cc.CategoryService.GetCategoryByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).
		JSON(response.Category{
			Message:  "Category retrieved successfully",
			Category: *category,
		})
}

// @Tags         Categories
// @Summary      Create a category
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body  validation.CreateCategory  true  "Request body"
// @Router       /categories/add-category [post]
// @Success      201  {object}  response.Category
// @Failure      409  {object}  response.Common  "Category already exists"
func (cc *CategoryController) CreateCategory(c *fiber.Ctx) error {
	req := new(validation.CreateCategory)

	if err := c.BodyParser(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	category, err := cc.CategoryService.CreateCategory(c.UserContext(), req)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).
		JSON(response.Category{
			Message:  "Category created successfully",
			Category: *category,
		})
}
