package service

import (
	"context"
	"errors"

	"mediaarchive/src/model"
	"mediaarchive/src/utils"
	"mediaarchive/src/validation"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type AuthService interface {
	Signup(ctx context.Context, req *validation.Signup) (*model.User, error)
	Login(ctx context.Context, req *validation.Login) (*model.User, error)
	Logout(ctx context.Context, user *model.User)
}

type authService struct {
	Log            *logrus.Logger
	Validate       *validator.Validate
	UserService    UserService
	SessionService SessionService
	SignupEnabled  bool
}

func NewAuthService(validate *validator.Validate, userService UserService, sessionService SessionService, signupEnabled bool) AuthService {
	return &authService{
		Log:            utils.Log,
		Validate:       validate,
		UserService:    userService,
		SessionService: sessionService,
		SignupEnabled:  signupEnabled,
	}
}

func (s *authService) Signup(ctx context.Context, req *validation.Signup) (*model.User, error) {
	if !s.SignupEnabled {
		return nil, fiber.NewError(fiber.StatusForbidden, "Signup is disabled")
	}
	return s.UserService.CreateUser(ctx, req)
}

func (s *authService) Login(ctx context.Context, req *validation.Login) (*model.User, error) {
	if err := s.Validate.Struct(req); err != nil {
		return nil, err
	}

	user, err := s.UserService.GetUserByUserName(ctx, req.UserName)
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) && fiberErr.Code == fiber.StatusNotFound {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid user name or password")
	}
	if err != nil {
		return nil, err
	}

	if !utils.CheckPasswordHash(req.Password, user.Password) {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid user name or password")
	}

	return user, nil
}

// Logout drops the cached session so the next request reloads the admin from
// the database. A cache failure is only logged.
func (s *authService) Logout(ctx context.Context, user *model.User) {
	if err := s.SessionService.InvalidateSession(ctx, user.ID.String()); err != nil {
		s.Log.Warnf("Failed to invalidate session for user %s: %v", user.ID, err)
	}
}
