package service

import (
	"context"
	"errors"

	"mediaarchive/src/model"
	"mediaarchive/src/repository"
	"mediaarchive/src/utils"
	"mediaarchive/src/validation"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type CategoryService interface {
	ListCategories(ctx context.Context) ([]model.Category, error)
	GetCategoryByID(ctx context.Context, id string) (*model.Category, error)
	CreateCategory(ctx context.Context, req *validation.CreateCategory) (*model.Category, error)
}

type categoryService struct {
	Log        *logrus.Logger
	Validate   *validator.Validate
	Categories repository.CategoryRepository
}

func NewCategoryService(categories repository.CategoryRepository, validate *validator.Validate) CategoryService {
	return &categoryService{
		Log:        utils.Log,
		Validate:   validate,
		Categories: categories,
	}
}

func (s *categoryService) ListCategories(ctx context.Context) ([]model.Category, error) {
	categories, err := s.Categories.List(ctx)
	if err != nil {
		s.Log.Errorf("Failed to list categories: %+v", err)
		return nil, err
	}
	return nonNil(categories), nil
}

func (s *categoryService) GetCategoryByID(ctx context.Context, id string) (*model.Category, error) {
	categoryID, err := parseID(id, "category")
	if err != nil {
		return nil, err
	}

	category, err := s.Categories.FindByID(ctx, categoryID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.Log.Errorf("Failed to get category: %+v", err)
		}
		return nil, notFound(err, "Category not found")
	}
	return category, nil
}

// CreateCategory does not touch the cache: a new category has no items.
func (s *categoryService) CreateCategory(ctx context.Context, req *validation.CreateCategory) (*model.Category, error) {
	if err := s.Validate.Struct(req); err != nil {
		return nil, err
	}

	category := &model.Category{
		Name:        req.Name,
		Description: req.Description,
	}

	if err := s.Categories.Create(ctx, category); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fiber.NewError(fiber.StatusConflict, "Category already exists")
		}
		s.Log.Errorf("Failed to create category: %+v", err)
		return nil, err
	}

	return category, nil
}
