package repository

import (
	"context"

	"mediaarchive/src/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user := new(model.User)
	if err := r.db.WithContext(ctx).First(user, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return user, nil
}

func (r *userRepository) FindByUserName(ctx context.Context, userName string) (*model.User, error) {
	user := new(model.User)
	if err := r.db.WithContext(ctx).Where("user_name = ?", userName).First(user).Error; err != nil {
		return nil, translate(err)
	}
	return user, nil
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return translate(r.db.WithContext(ctx).Create(user).Error)
}
