package utils

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"mediaarchive/src/response"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

func ErrorHandler(c *fiber.Ctx, err error) error {
	if errorsMap := CustomErrorMessages(err); len(errorsMap) > 0 {
		return response.Error(c, fiber.StatusBadRequest, joinMessages(errorsMap), errorsMap)
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return response.Error(c, fiberErr.Code, fiberErr.Message, nil)
	}

	Log.Errorf("Unhandled error on %s %s: %+v", c.Method(), c.Path(), err)
	return response.Error(c, fiber.StatusInternalServerError, "Internal Server Error", nil)
}

// CustomErrorMessages turns validator errors into a field -> message map.
// It returns nil for any other error.
func CustomErrorMessages(err error) map[string]string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return nil
	}

	errorsMap := make(map[string]string, len(validationErrors))
	for _, fieldErr := range validationErrors {
		errorsMap[fieldErr.Field()] = fieldErrorMessage(fieldErr)
	}

	return errorsMap
}

func fieldErrorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", err.Field())
	case "uuid", "uuid4":
		return fmt.Sprintf("%s must be a valid UUID", err.Field())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", err.Field(), err.Param())
	case "min":
		return fmt.Sprintf("%s must contain at least %s", err.Field(), err.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
	default:
		return fmt.Sprintf("%s is invalid", err.Field())
	}
}

func joinMessages(errorsMap map[string]string) string {
	messages := make([]string, 0, len(errorsMap))
	for _, msg := range errorsMap {
		messages = append(messages, msg)
	}
	sort.Strings(messages)
	return strings.Join(messages, ", ")
}
