package repository

import (
	"context"

	"mediaarchive/src/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type archiveItemRepository struct {
	db *gorm.DB
}

func NewArchiveItemRepository(db *gorm.DB) ArchiveItemRepository {
	return &archiveItemRepository{db: db}
}

func (r *archiveItemRepository) List(ctx context.Context, filter ArchiveItemFilter) ([]model.ArchiveItem, error) {
	var items []model.ArchiveItem

	query := r.db.WithContext(ctx).Order("created_at desc")
	if filter.Visibility != "" {
		query = query.Where("visibility = ?", filter.Visibility)
	}
	if filter.CategoryID != uuid.Nil {
		query = query.Where("category_id = ?", filter.CategoryID)
	}
	if filter.Search != "" {
		query = query.Where("title ILIKE ?", containsPattern(filter.Search))
	}

	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *archiveItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.ArchiveItem, error) {
	item := new(model.ArchiveItem)

	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Collections").
		First(item, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return item, nil
}

func (r *archiveItemRepository) ExistingIDs(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	var found []uuid.UUID
	if len(ids) == 0 {
		return found, nil
	}

	err := r.db.WithContext(ctx).
		Model(&model.ArchiveItem{}).
		Where("id IN ?", ids).
		Pluck("id", &found).Error
	return found, err
}

func (r *archiveItemRepository) Create(ctx context.Context, item *model.ArchiveItem) error {
	return translate(r.db.WithContext(ctx).Omit("Category", "Collections").Create(item).Error)
}

func (r *archiveItemRepository) Update(ctx context.Context, item *model.ArchiveItem, addCollections, removeCollections []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(item).
			Select("title", "description", "category_id", "media_type", "visibility",
				"is_on_the_main_page", "cloud_service_url", "media_key", "updated_at").
			Updates(item)
		if result.Error != nil {
			return translate(result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}

		assoc := tx.Model(&model.ArchiveItem{Base: model.Base{ID: item.ID}}).Association("Collections")
		if len(addCollections) > 0 {
			if err := assoc.Append(collectionRefs(addCollections)); err != nil {
				return err
			}
		}
		if len(removeCollections) > 0 {
			if err := assoc.Delete(collectionRefs(removeCollections)); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *archiveItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ref := &model.ArchiveItem{Base: model.Base{ID: id}}
		if err := tx.Model(ref).Association("Collections").Clear(); err != nil {
			return err
		}

		result := tx.Delete(&model.ArchiveItem{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func collectionRefs(ids []uuid.UUID) []model.Collection {
	refs := make([]model.Collection, len(ids))
	for i, id := range ids {
		refs[i].ID = id
	}
	return refs
}

func itemRefs(ids []uuid.UUID) []model.ArchiveItem {
	refs := make([]model.ArchiveItem, len(ids))
	for i, id := range ids {
		refs[i].ID = id
	}
	return refs
}
