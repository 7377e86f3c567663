package repository

import (
	"context"

	"mediaarchive/src/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) List(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	if err := r.db.WithContext(ctx).Order("name asc").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *categoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	category := new(model.Category)
	if err := r.db.WithContext(ctx).First(category, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return category, nil
}

func (r *categoryRepository) Create(ctx context.Context, category *model.Category) error {
	return translate(r.db.WithContext(ctx).Create(category).Error)
}
