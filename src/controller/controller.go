package controller

import (
	"io"
	"strings"

	"mediaarchive/src/cache"
	"mediaarchive/src/service"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gofiber/fiber/v2"
)

const mediaFormField = "media"

// sendCached writes a serialized payload from the read-through cache and
// reports whether it was a hit.
func sendCached(c *fiber.Ctx, result cache.Result) error {
	if result.Hit {
		c.Set("X-Cache", "HIT")
	} else {
		c.Set("X-Cache", "MISS")
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
	return c.Status(fiber.StatusOK).Send(result.Body)
}

func isMultipart(c *fiber.Ctx) bool {
	return strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm)
}

// readUpload opens the media file of a multipart request, if any, and sniffs
// its content type. The returned close func is never nil.
func readUpload(c *fiber.Ctx, maxBytes int64) (*service.MediaUpload, func(), error) {
	noop := func() {}
	if !isMultipart(c) {
		return nil, noop, nil
	}

	form, err := c.MultipartForm()
	if err != nil {
		return nil, noop, fiber.NewError(fiber.StatusBadRequest, "Invalid multipart form")
	}

	files := form.File[mediaFormField]
	if len(files) == 0 {
		return nil, noop, nil
	}
	header := files[0]

	if maxBytes > 0 && header.Size > maxBytes {
		return nil, noop, fiber.NewError(fiber.StatusRequestEntityTooLarge, "Media file is too large")
	}

	file, err := header.Open()
	if err != nil {
		return nil, noop, err
	}
	closeFile := func() { _ = file.Close() }

	mtype, err := mimetype.DetectReader(file)
	if err != nil {
		closeFile()
		return nil, noop, err
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		closeFile()
		return nil, noop, err
	}

	return &service.MediaUpload{
		Reader:      file,
		Size:        header.Size,
		ContentType: mtype.String(),
	}, closeFile, nil
}
