package service

import (
	"context"
	"errors"

	"mediaarchive/src/cache"
	"mediaarchive/src/media"
	"mediaarchive/src/model"
	"mediaarchive/src/repository"
	"mediaarchive/src/utils"
	"mediaarchive/src/validation"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// DraftService manages private archive items. Drafts are read straight from
// the database; only publishing touches the cache.
type DraftService interface {
	ListDrafts(ctx context.Context) ([]model.ArchiveItem, error)
	GetDraftByID(ctx context.Context, id string) (*model.ArchiveItem, error)
	UpdateDraft(ctx context.Context, id string, req *validation.UpdateDraft, upload *MediaUpload) (*model.ArchiveItem, error)
	DeleteDraft(ctx context.Context, id string) error
	PublishDraft(ctx context.Context, id string) (*model.ArchiveItem, error)
}

type draftService struct {
	Log         *logrus.Logger
	Validate    *validator.Validate
	Items       repository.ArchiveItemRepository
	Categories  repository.CategoryRepository
	Media       media.Store
	Invalidator *cache.CacheInvalidator
}

func NewDraftService(
	items repository.ArchiveItemRepository,
	categories repository.CategoryRepository,
	mediaStore media.Store,
	invalidator *cache.CacheInvalidator,
	validate *validator.Validate,
) DraftService {
	return &draftService{
		Log:         utils.Log,
		Validate:    validate,
		Items:       items,
		Categories:  categories,
		Media:       mediaStore,
		Invalidator: invalidator,
	}
}

func (s *draftService) ListDrafts(ctx context.Context) ([]model.ArchiveItem, error) {
	drafts, err := s.Items.List(ctx, repository.ArchiveItemFilter{Visibility: model.VisibilityPrivate})
	if err != nil {
		s.Log.Errorf("Failed to list drafts: %+v", err)
		return nil, err
	}
	return nonNil(drafts), nil
}

func (s *draftService) GetDraftByID(ctx context.Context, id string) (*model.ArchiveItem, error) {
	draftID, err := parseID(id, "draft")
	if err != nil {
		return nil, err
	}
	return s.findDraft(ctx, draftID)
}

func (s *draftService) findDraft(ctx context.Context, id uuid.UUID) (*model.ArchiveItem, error) {
	item, err := s.Items.FindByID(ctx, id)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.Log.Errorf("Failed to get draft: %+v", err)
		}
		return nil, notFound(err, "Draft not found")
	}
	if item.IsPublic() {
		return nil, fiber.NewError(fiber.StatusNotFound, "Draft not found")
	}
	return item, nil
}

func (s *draftService) UpdateDraft(ctx context.Context, id string, req *validation.UpdateDraft, upload *MediaUpload) (*model.ArchiveItem, error) {
	if err := s.Validate.Struct(req); err != nil {
		return nil, err
	}

	if upload == nil && req.Title == nil && req.Description == nil && req.CategoryID == nil && req.IsOnTheMainPage == nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "No fields to update")
	}

	draftID, err := parseID(id, "draft")
	if err != nil {
		return nil, err
	}

	draft, err := s.findDraft(ctx, draftID)
	if err != nil {
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
		draft.CategoryID = categoryID
	}
	if req.Title != nil {
		draft.Title = *req.Title
	}
	if req.Description != nil {
		draft.Description = *req.Description
	}
	if req.IsOnTheMainPage != nil {
		draft.IsOnTheMainPage = *req.IsOnTheMainPage
	}

	oldKey := draft.MediaKey
	if upload != nil {
		obj, err := uploadMedia(ctx, s.Media, upload)
		if err != nil {
			return nil, err
		}
		draft.MediaKey = obj.Key
		draft.CloudServiceURL = obj.URL
		draft.MediaType = string(obj.Kind)
	}

	draft.Category, draft.Collections = nil, nil
	if err := s.Items.Update(ctx, draft, nil, nil); err != nil {
		if upload != nil {
			discardMedia(ctx, s.Media, draft.MediaKey, "draft update failed")
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Draft not found")
		}
		s.Log.Errorf("Failed to update draft: %+v", err)
		return nil, err
	}

	if upload != nil {
		discardMedia(ctx, s.Media, oldKey, "replaced by a new upload")
	}

	return draft, nil
}

func (s *draftService) DeleteDraft(ctx context.Context, id string) error {
	draftID, err := parseID(id, "draft")
	if err != nil {
		return err
	}

	draft, err := s.findDraft(ctx, draftID)
	if err != nil {
		return err
	}

	if err := s.Items.Delete(ctx, draftID); err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.Log.Errorf("Failed to delete draft: %+v", err)
		}
		return notFound(err, "Draft not found")
	}

	discardMedia(ctx, s.Media, draft.MediaKey, "draft deleted")
	return nil
}

// PublishDraft makes a draft public under the same id.
func (s *draftService) PublishDraft(ctx context.Context, id string) (*model.ArchiveItem, error) {
	draftID, err := parseID(id, "draft")
	if err != nil {
		return nil, err
	}

	draft, err := s.findDraft(ctx, draftID)
	if err != nil {
		return nil, err
	}
	isMember := len(draft.Collections) > 0

	draft.Visibility = model.VisibilityPublic
	draft.Category, draft.Collections = nil, nil
	if err := s.Items.Update(ctx, draft, nil, nil); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Draft not found")
		}
		s.Log.Errorf("Failed to publish draft: %+v", err)
		return nil, err
	}

	if isMember {
		s.Invalidator.InvalidateNamespaces(ctx, cache.NamespaceArchiveItems, cache.NamespaceCollections)
	} else {
		s.Invalidator.InvalidateNamespaces(ctx, cache.NamespaceArchiveItems)
	}

	return draft, nil
}
