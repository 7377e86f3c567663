package service

import (
	"context"
	"errors"

	"mediaarchive/src/cache"
	"mediaarchive/src/media"
	"mediaarchive/src/model"
	"mediaarchive/src/repository"
	"mediaarchive/src/response"
	"mediaarchive/src/utils"
	"mediaarchive/src/validation"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type ArchiveItemService interface {
	ListArchiveItems(ctx context.Context, params *validation.QueryArchiveItems) (cache.Result, error)
	GetArchiveItemByID(ctx context.Context, id string) (cache.Result, error)
	CreateArchiveItem(ctx context.Context, req *validation.CreateArchiveItem, upload *MediaUpload) (*model.ArchiveItem, error)
	UpdateArchiveItem(ctx context.Context, id string, req *validation.UpdateArchiveItem, upload *MediaUpload) (*model.ArchiveItem, error)
	DeleteArchiveItem(ctx context.Context, id string) error
}

type archiveItemService struct {
	Log         *logrus.Logger
	Validate    *validator.Validate
	Items       repository.ArchiveItemRepository
	Collections repository.CollectionRepository
	Categories  repository.CategoryRepository
	Media       media.Store
	Reader      *cache.ReadThrough
	Invalidator *cache.CacheInvalidator
}

func NewArchiveItemService(
	items repository.ArchiveItemRepository,
	collections repository.CollectionRepository,
	categories repository.CategoryRepository,
	mediaStore media.Store,
	reader *cache.ReadThrough,
	invalidator *cache.CacheInvalidator,
	validate *validator.Validate,
) ArchiveItemService {
	return &archiveItemService{
		Log:         utils.Log,
		Validate:    validate,
		Items:       items,
		Collections: collections,
		Categories:  categories,
		Media:       mediaStore,
		Reader:      reader,
		Invalidator: invalidator,
	}
}

func (s *archiveItemService) ListArchiveItems(ctx context.Context, params *validation.QueryArchiveItems) (cache.Result, error) {
	if err := s.Validate.Struct(params); err != nil {
		return cache.Result{}, err
	}

	var categoryID uuid.UUID
	if params.CategoryID != "" {
		parsed, err := parseID(params.CategoryID, "category")
		if err != nil {
			return cache.Result{}, err
		}
		categoryID = parsed
	}

	key := cache.ArchiveItemListKey(categoryKey(categoryID), params.Search)
	return s.Reader.Fetch(ctx, key, func(ctx context.Context) (any, error) {
		if categoryID != uuid.Nil {
			if err := ensureCategory(ctx, s.Categories, categoryID); err != nil {
				return nil, err
			}
		}

		items, err := s.Items.List(ctx, repository.ArchiveItemFilter{
			CategoryID: categoryID,
			Search:     params.Search,
			Visibility: model.VisibilityPublic,
		})
		if err != nil {
			s.Log.Errorf("Failed to list archive items: %+v", err)
			return nil, err
		}
		if len(items) == 0 {
			return nil, fiber.NewError(fiber.StatusNotFound, "No archives/archive items found")
		}

		return response.ArchiveItemList{
			Message:      "Archive items retrieved successfully",
			Count:        len(items),
			ArchiveItems: items,
		}, nil
	})
}

func (s *archiveItemService) GetArchiveItemByID(ctx context.Context, id string) (cache.Result, error) {
	itemID, err := parseID(id, "archive item")
	if err != nil {
		return cache.Result{}, err
	}

	return s.Reader.Fetch(ctx, cache.ArchiveItemKey(itemID.String()), func(ctx context.Context) (any, error) {
		item, err := s.findPublic(ctx, itemID)
		if err != nil {
			return nil, err
		}

		return response.ArchiveItemDetail{
			Message: "Archive item retrieved successfully",
			ArchiveItem: response.ArchiveItemWithRelations{
				ArchiveItem: *item,
				Category:    item.Category,
				Collections: nonNil(item.Collections),
			},
		}, nil
	})
}

func (s *archiveItemService) findPublic(ctx context.Context, id uuid.UUID) (*model.ArchiveItem, error) {
	item, err := s.Items.FindByID(ctx, id)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.Log.Errorf("Failed to get archive item: %+v", err)
		}
		return nil, notFound(err, "Archive item not found")
	}
	if !item.IsPublic() {
		return nil, fiber.NewError(fiber.StatusNotFound, "Archive item not found")
	}
	return item, nil
}

func (s *archiveItemService) CreateArchiveItem(ctx context.Context, req *validation.CreateArchiveItem, upload *MediaUpload) (*model.ArchiveItem, error) {
	if err := s.Validate.Struct(req); err != nil {
		return nil, err
	}
	if upload == nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Media file is required")
	}

	categoryID, err := parseID(req.CategoryID, "category")
	if err != nil {
		return nil, err
	}
	if err := ensureCategory(ctx, s.Categories, categoryID); err != nil {
		return nil, err
	}

	obj, err := uploadMedia(ctx, s.Media, upload)
	if err != nil {
		return nil, err
	}

	visibility := model.VisibilityPublic
	if req.Visibility == string(model.VisibilityPrivate) {
		visibility = model.VisibilityPrivate
	}

	item := &model.ArchiveItem{
		Title:           req.Title,
		Description:     req.Description,
		CategoryID:      categoryID,
		MediaType:       string(obj.Kind),
		Visibility:      visibility,
		IsOnTheMainPage: req.IsOnTheMainPage,
		CloudServiceURL: obj.URL,
		MediaKey:        obj.Key,
	}

	if err := s.Items.Create(ctx, item); err != nil {
		s.Log.Errorf("Failed to create archive item: %+v", err)
		discardMedia(ctx, s.Media, obj.Key, "archive item was not saved")
		return nil, err
	}

	// Drafts are never cached.
	if item.IsPublic() {
		s.Invalidator.InvalidateNamespaces(ctx, cache.NamespaceArchiveItems)
	}

	return item, nil
}

func (s *archiveItemService) UpdateArchiveItem(ctx context.Context, id string, req *validation.UpdateArchiveItem, upload *MediaUpload) (*model.ArchiveItem, error) {
	if err := s.Validate.Struct(req); err != nil {
		return nil, err
	}

	if upload == nil && req.Title == nil && req.Description == nil && req.CategoryID == nil &&
		req.Visibility == nil && req.IsOnTheMainPage == nil &&
		len(req.AddCollectionIDs) == 0 && len(req.RemoveCollectionIDs) == 0 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "No fields to update")
	}

	itemID, err := parseID(id, "archive item")
	if err != nil {
		return nil, err
	}
	addIDs, err := parseIDs(req.AddCollectionIDs, "collection")
	if err != nil {
		return nil, err
	}
	removeIDs, err := parseIDs(req.RemoveCollectionIDs, "collection")
	if err != nil {
		return nil, err
	}

	item, err := s.findPublic(ctx, itemID)
	if err != nil {
		return nil, err
	}
	wasMember := len(item.Collections) > 0

	if err := requireAll(ctx, addIDs, s.Collections.ExistingIDs, "One or more collections not found"); err != nil {
		return nil, err
	}

	if req.CategoryID != nil {
		categoryID, err := parseID(*req.CategoryID, "category")
		if err != nil {
			return nil, err
		}
		if err := ensureCategory(ctx, s.Categories, categoryID); err != nil {
			return nil, err
		}
		item.CategoryID = categoryID
	}
	if req.Title != nil {
		item.Title = *req.Title
	}
	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.IsOnTheMainPage != nil {
		item.IsOnTheMainPage = *req.IsOnTheMainPage
	}
	if req.Visibility != nil {
		item.Visibility = model.Visibility(*req.Visibility)
	}

	oldKey, err := s.replaceMedia(ctx, item, upload)
	if err != nil {
		return nil, err
	}

	item.Category, item.Collections = nil, nil

	if err := s.Items.Update(ctx, item, addIDs, removeIDs); err != nil {
		if upload != nil {
			discardMedia(ctx, s.Media, item.MediaKey, "archive item update failed")
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Archive item not found")
		}
		s.Log.Errorf("Failed to update archive item: %+v", err)
		return nil, err
	}

	if wasMember || len(addIDs) > 0 {
		s.Invalidator.InvalidateNamespaces(ctx, cache.NamespaceArchiveItems, cache.NamespaceCollections)
	} else {
		s.Invalidator.InvalidateNamespaces(ctx, cache.NamespaceArchiveItems)
	}

	if upload != nil {
		discardMedia(ctx, s.Media, oldKey, "replaced by a new upload")
	}

	return item, nil
}

// replaceMedia uploads a new file and points item at it, returning the key of
// the object it replaced. The old object must only be removed once the update
// has been committed.
func (s *archiveItemService) replaceMedia(ctx context.Context, item *model.ArchiveItem, upload *MediaUpload) (string, error) {
	if upload == nil {
		return "", nil
	}

	obj, err := uploadMedia(ctx, s.Media, upload)
	if err != nil {
		return "", err
	}

	oldKey := item.MediaKey
	item.MediaKey = obj.Key
	item.CloudServiceURL = obj.URL
	item.MediaType = string(obj.Kind)
	return oldKey, nil
}

func (s *archiveItemService) DeleteArchiveItem(ctx context.Context, id string) error {
	itemID, err := parseID(id, "archive item")
	if err != nil {
		return err
	}

	item, err := s.findPublic(ctx, itemID)
	if err != nil {
		return err
	}

	if err := s.Items.Delete(ctx, itemID); err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.Log.Errorf("Failed to delete archive item: %+v", err)
		}
		return notFound(err, "Archive item not found")
	}

	if len(item.Collections) > 0 {
		s.Invalidator.InvalidateNamespaces(ctx, cache.NamespaceArchiveItems, cache.NamespaceCollections)
	} else {
		s.Invalidator.InvalidateNamespaces(ctx, cache.NamespaceArchiveItems)
	}

	discardMedia(ctx, s.Media, item.MediaKey, "archive item deleted")
	return nil
}

func ensureCategory(ctx context.Context, categories repository.CategoryRepository, id uuid.UUID) error {
	if _, err := categories.FindByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fiber.NewError(fiber.StatusBadRequest, "Category not found")
		}
		utils.Log.Errorf("Failed to get category: %+v", err)
		return err
	}
	return nil
}

func categoryKey(id uuid.UUID) string {
	if id == uuid.Nil {
		return ""
	}
	return id.String()
}
