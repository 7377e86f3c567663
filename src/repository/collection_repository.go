package repository

import (
	"context"

	"mediaarchive/src/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type collectionRepository struct {
	db *gorm.DB
}

func NewCollectionRepository(db *gorm.DB) CollectionRepository {
	return &collectionRepository{db: db}
}

func (r *collectionRepository) publicItems(db *gorm.DB) *gorm.DB {
	return db.Where("visibility = ?", model.VisibilityPublic).Order("created_at desc")
}

func (r *collectionRepository) List(ctx context.Context, search string) ([]model.Collection, error) {
	var collections []model.Collection

	query := r.db.WithContext(ctx).Preload("Items", r.publicItems).Order("name asc")
	if search != "" {
		query = query.Where("name ILIKE ?", containsPattern(search))
	}

	if err := query.Find(&collections).Error; err != nil {
		return nil, err
	}
	return collections, nil
}

func (r *collectionRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Collection, error) {
	collection := new(model.Collection)

	err := r.db.WithContext(ctx).
		Preload("Items", r.publicItems).
		First(collection, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return collection, nil
}

func (r *collectionRepository) ExistingIDs(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	var found []uuid.UUID
	if len(ids) == 0 {
		return found, nil
	}

	err := r.db.WithContext(ctx).
		Model(&model.Collection{}).
		Where("id IN ?", ids).
		Pluck("id", &found).Error
	return found, err
}

func (r *collectionRepository) ItemIDs(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID

	err := r.db.WithContext(ctx).
		Table("collection_items").
		Where("collection_id = ?", id).
		Pluck("archive_item_id", &ids).Error
	return ids, err
}

func (r *collectionRepository) Create(ctx context.Context, collection *model.Collection, itemIDs []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Create(collection).Error; err != nil {
			return translate(err)
		}
		if len(itemIDs) == 0 {
			return nil
		}
		return tx.Model(collection).Association("Items").Append(itemRefs(itemIDs))
	})
}

func (r *collectionRepository) Update(ctx context.Context, collection *model.Collection, addItems, removeItems []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(collection).
			Select("name", "description", "updated_at").
			Updates(collection)
		if result.Error != nil {
			return translate(result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}

		assoc := tx.Model(&model.Collection{Base: model.Base{ID: collection.ID}}).Association("Items")
		if len(addItems) > 0 {
			if err := assoc.Append(itemRefs(addItems)); err != nil {
				return err
			}
		}
		if len(removeItems) > 0 {
			if err := assoc.Delete(itemRefs(removeItems)); err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete removes the collection and returns the ids of the items that were
// members at the moment of deletion.
func (r *collectionRepository) Delete(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error) {
	var members []uuid.UUID

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Membership inserts check their foreign key against this row, so they
		// wait for the lock and the member list below is final.
		var locked model.Collection
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			First(&locked, "id = ?", id).Error; err != nil {
			return translate(err)
		}

		if err := tx.Table("collection_items").
			Where("collection_id = ?", id).
			Pluck("archive_item_id", &members).Error; err != nil {
			return err
		}

		if err := tx.Model(&locked).Association("Items").Clear(); err != nil {
			return err
		}

		result := tx.Delete(&model.Collection{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return members, nil
}
