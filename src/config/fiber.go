package config

import (
	"mediaarchive/src/utils"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
)

// FiberConfig must not enable Prefork: the response cache is process-local.
func FiberConfig() fiber.Config {
	return fiber.Config{
		Prefork:       false,
		CaseSensitive: true,
		ServerHeader:  "Fiber",
		AppName:       "Media Archive API",
		ErrorHandler:  utils.ErrorHandler,
		JSONEncoder:   sonic.Marshal,
		JSONDecoder:   sonic.Unmarshal,
		BodyLimit:     MaxUploadBytes + 1024*1024,
	}
}
