package service

import (
	"context"
	"errors"

	"mediaarchive/src/cache"
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

type CollectionService interface {
	ListCollections(ctx context.Context, params *validation.QueryCollections) (cache.Result, error)
	GetCollectionByID(ctx context.Context, id string) (cache.Result, error)
	CreateCollection(ctx context.Context, req *validation.CreateCollection) (*response.CollectionWithItems, error)
	UpdateCollection(ctx context.Context, id string, req *validation.UpdateCollection) (*response.CollectionWithItems, error)
	DeleteCollection(ctx context.Context, id string) error
}

type collectionService struct {
	Log         *logrus.Logger
	Validate    *validator.Validate
	Collections repository.CollectionRepository
	Items       repository.ArchiveItemRepository
	Reader      *cache.ReadThrough
	Invalidator *cache.CacheInvalidator
}

func NewCollectionService(
	collections repository.CollectionRepository,
	items repository.ArchiveItemRepository,
	reader *cache.ReadThrough,
	invalidator *cache.CacheInvalidator,
	validate *validator.Validate,
) CollectionService {
	return &collectionService{
		Log:         utils.Log,
		Validate:    validate,
		Collections: collections,
		Items:       items,
		Reader:      reader,
		Invalidator: invalidator,
	}
}

func (s *collectionService) ListCollections(ctx context.Context, params *validation.QueryCollections) (cache.Result, error) {
	if err := s.Validate.Struct(params); err != nil {
		return cache.Result{}, err
	}

	return s.Reader.Fetch(ctx, cache.CollectionListKey(params.Search), func(ctx context.Context) (any, error) {
		collections, err := s.Collections.List(ctx, params.Search)
		if err != nil {
			s.Log.Errorf("Failed to list collections: %+v", err)
			return nil, err
		}

		summaries := make([]response.CollectionSummary, len(collections))
		for i, c := range collections {
			summaries[i] = response.CollectionSummary{Collection: c, ItemCount: len(c.Items)}
		}

		return response.CollectionList{
			Message:     "Collections retrieved successfully",
			Count:       len(summaries),
			Collections: summaries,
		}, nil
	})
}

func (s *collectionService) GetCollectionByID(ctx context.Context, id string) (cache.Result, error) {
	collectionID, err := parseID(id, "collection")
	if err != nil {
		return cache.Result{}, err
	}

	return s.Reader.Fetch(ctx, cache.CollectionKey(collectionID.String()), func(ctx context.Context) (any, error) {
		detail, err := s.detail(ctx, collectionID)
		if err != nil {
			return nil, err
		}
		return response.CollectionDetail{
			Message:    "Collection retrieved successfully",
			Collection: *detail,
		}, nil
	})
}

func (s *collectionService) detail(ctx context.Context, id uuid.UUID) (*response.CollectionWithItems, error) {
	collection, err := s.Collections.FindByID(ctx, id)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.Log.Errorf("Failed to get collection: %+v", err)
		}
		return nil, notFound(err, "Collection not found")
	}

	return &response.CollectionWithItems{
		Collection: *collection,
		Items:      nonNil(collection.Items),
	}, nil
}

func (s *collectionService) CreateCollection(ctx context.Context, req *validation.CreateCollection) (*response.CollectionWithItems, error) {
	if err := s.Validate.Struct(req); err != nil {
		return nil, err
	}

	itemIDs, err := parseIDs(req.ArchiveIDs, "archive item")
	if err != nil {
		return nil, err
	}
	if err := requireAll(ctx, itemIDs, s.Items.ExistingIDs, "One or more archive items not found"); err != nil {
		return nil, err
	}

	collection := &model.Collection{
		Name:        req.Name,
		Description: req.Description,
	}

	if err := s.Collections.Create(ctx, collection, itemIDs); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fiber.NewError(fiber.StatusConflict, "Collection name already exists")
		}
		s.Log.Errorf("Failed to create collection: %+v", err)
		return nil, err
	}

	s.Invalidator.InvalidateNamespaces(ctx, cache.NamespaceCollections, cache.NamespaceArchiveItems)

	return s.committed(ctx, collection), nil
}

func (s *collectionService) UpdateCollection(ctx context.Context, id string, req *validation.UpdateCollection) (*response.CollectionWithItems, error) {
	if err := s.Validate.Struct(req); err != nil {
		return nil, err
	}

	if req.IsEmpty() {
		return nil, fiber.NewError(fiber.StatusBadRequest, "No fields to update")
	}

	collectionID, err := parseID(id, "collection")
	if err != nil {
		return nil, err
	}

	addIDs, err := parseIDs(req.AddItemIDs, "archive item")
	if err != nil {
		return nil, err
	}
	removeIDs, err := parseIDs(req.RemoveItemIDs, "archive item")
	if err != nil {
		return nil, err
	}

	collection, err := s.Collections.FindByID(ctx, collectionID)
	if err != nil {
		return nil, notFound(err, "Collection not found")
	}

	if err := requireAll(ctx, addIDs, s.Items.ExistingIDs, "One or more archive items not found"); err != nil {
		return nil, err
	}

	members, err := s.Collections.ItemIDs(ctx, collectionID)
	if err != nil {
		s.Log.Errorf("Failed to get collection items: %+v", err)
		return nil, err
	}

	if req.Name != nil {
		collection.Name = *req.Name
	}
	if req.Description != nil {
		collection.Description = *req.Description
	}

	if err := s.Collections.Update(ctx, collection, addIDs, removeIDs); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fiber.NewError(fiber.StatusConflict, "Collection name already exists")
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Collection not found")
		}
		s.Log.Errorf("Failed to update collection: %+v", err)
		return nil, err
	}

	// Archive item details embed their collections.
	if len(members) > 0 || len(addIDs) > 0 {
		s.Invalidator.InvalidateNamespaces(ctx, cache.NamespaceCollections, cache.NamespaceArchiveItems)
	} else {
		s.Invalidator.InvalidateNamespaces(ctx, cache.NamespaceCollections)
	}

	return s.committed(ctx, collection), nil
}

func (s *collectionService) DeleteCollection(ctx context.Context, id string) error {
	collectionID, err := parseID(id, "collection")
	if err != nil {
		return err
	}

	members, err := s.Collections.Delete(ctx, collectionID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.Log.Errorf("Failed to delete collection: %+v", err)
		}
		return notFound(err, "Collection not found")
	}

	if len(members) > 0 {
		s.Invalidator.InvalidateNamespaces(ctx, cache.NamespaceCollections, cache.NamespaceArchiveItems)
	} else {
		s.Invalidator.InvalidateNamespaces(ctx, cache.NamespaceCollections)
	}

	return nil
}

// committed reloads a collection after a successful write. The write already
// happened, so a failed reload falls back to what was written.
func (s *collectionService) committed(ctx context.Context, collection *model.Collection) *response.CollectionWithItems {
	detail, err := s.detail(ctx, collection.ID)
	if err != nil {
		s.Log.Warnf("Failed to reload collection %s: %v", collection.ID, err)
		return &response.CollectionWithItems{Collection: *collection, Items: []model.ArchiveItem{}}
	}
	return detail
}
