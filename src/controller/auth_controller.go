package controller

import (
	"mediaarchive/src/model"
	"mediaarchive/src/response"
	"mediaarchive/src/service"
	"mediaarchive/src/validation"

	"github.com/gofiber/fiber/v2"
)

type AuthController struct {
	AuthService  service.AuthService
	TokenService service.TokenService
}

func NewAuthController(authService service.AuthService, tokenService service.TokenService) *AuthController {
	return &AuthController{
		AuthService:  authService,
		TokenService: tokenService,
	}
}

// @Tags         Auth
// @Summary      Register an admin
// @Description  Only available when signup is enabled.
// @Accept       json
// @Produce      json
// @Param        request  body  validation.Signup  true  "Request body"
// @Router       /auth/signup [post]
// @Success      201  {object}  response.Signup
// @Failure      403  {object}  response.Common  "Signup is disabled"
// @Failure      409  {object}  response.Common  "User name is already in use"
func (a *AuthController) Signup(c *fiber.Ctx) error {
	req := new(validation.Signup)

	if err := c.BodyParser(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	user, err := a.AuthService.Signup(c.UserContext(), req)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).
		JSON(response.Signup{
			Message: "Signup successful",
			User:    userInfo(user),
		})
}

// @Tags         Auth
// @Summary      Login
// @Accept       json
// @Produce      json
// @Param        request  body  validation.Login  true  "Request body"
// @Router       /auth/login [post]
// @Success      200  {object}  response.Login
// @Failure      401  {object}  response.Common  "Invalid user name or password"
func (a *AuthController) Login(c *fiber.Ctx) error {
	req := new(validation.Login)

	if err := c.BodyParser(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	user, err := a.AuthService.Login(c.UserContext(), req)
	if err != nil {
		return err
	}

	token, err := a.TokenService.GenerateAuthToken(c.UserContext(), user)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).
		JSON(response.Login{
			Message: "Login successful",
			Token:   token.Token,
			Expires: token.Expires,
			User:    userInfo(user),
		})
}

// @Tags         Auth
// @Summary      Logout
// @Description  Drops the cached session of the caller. The access token stays valid until it expires.
// @Security     BearerAuth
// @Produce      json
// @Router       /auth/logout [post]
// @Success      200  {object}  response.Message
// @Failure      401  {object}  response.Common  "Please authenticate"
func (a *AuthController) Logout(c *fiber.Ctx) error {
	user, ok := c.Locals("user").(*model.User)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "Please authenticate")
	}

	a.AuthService.Logout(c.UserContext(), user)

	return c.Status(fiber.StatusOK).
		JSON(response.Message{
			Message: "Logout successful",
		})
}

func userInfo(user *model.User) response.UserInfo {
	return response.UserInfo{
		ID:       user.ID.String(),
		UserName: user.UserName,
		Role:     user.Role,
	}
}
