package service

import (
	"context"
	"errors"

	"mediaarchive/src/config"
	"mediaarchive/src/model"
	"mediaarchive/src/repository"
	"mediaarchive/src/utils"
	"mediaarchive/src/validation"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type UserService interface {
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByUserName(ctx context.Context, userName string) (*model.User, error)
	CreateUser(ctx context.Context, req *validation.Signup) (*model.User, error)
}

type userService struct {
	Log      *logrus.Logger
	Validate *validator.Validate
	Users    repository.UserRepository
}

func NewUserService(users repository.UserRepository, validate *validator.Validate) UserService {
	return &userService{
		Log:      utils.Log,
		Validate: validate,
		Users:    users,
	}
}

func (s *userService) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	userID, err := uuid.Parse(id)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "User not found")
	}

	user, err := s.Users.FindByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.Log.Errorf("Failed get user by id: %+v", err)
		}
		return nil, notFound(err, "User not found")
	}

	return user, nil
}

func (s *userService) GetUserByUserName(ctx context.Context, userName string) (*model.User, error) {
	user, err := s.Users.FindByUserName(ctx, userName)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.Log.Errorf("Failed get user by user name: %+v", err)
		}
		return nil, notFound(err, "User not found")
	}

	return user, nil
}

func (s *userService) CreateUser(ctx context.Context, req *validation.Signup) (*model.User, error) {
	if err := s.Validate.Struct(req); err != nil {
		return nil, err
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		s.Log.Errorf("Failed hash password: %+v", err)
		return nil, err
	}

	user := &model.User{
		UserName: req.UserName,
		Password: hashedPassword,
		Role:     config.RoleAdmin,
	}

	if err := s.Users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fiber.NewError(fiber.StatusConflict, "User name is already in use")
		}
		s.Log.Errorf("Failed to create user: %+v", err)
		return nil, err
	}

	return user, nil
}
