package service

import (
	"context"
	"errors"
	"io"

	"mediaarchive/src/media"
	"mediaarchive/src/repository"
	"mediaarchive/src/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// MediaUpload is a file attached to an archive item request. ContentType is
// sniffed from the content, not taken from the client.
type MediaUpload struct {
	Reader      io.Reader
	Size        int64
	ContentType string
}

func parseID(id, entity string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Invalid "+entity+" id")
	}
	return parsed, nil
}

// parseIDs parses and de-duplicates ids, keeping their order.
func parseIDs(ids []string, entity string) ([]uuid.UUID, error) {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	parsed := make([]uuid.UUID, 0, len(ids))
	for _, raw := range ids {
		id, err := parseID(raw, entity)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		parsed = append(parsed, id)
	}
	return parsed, nil
}

// notFound converts repository.ErrNotFound into a 404 with message.
func notFound(err error, message string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, message)
	}
	return err
}

// requireAll fails with a 404 when lookup does not return every id.
func requireAll(ctx context.Context, ids []uuid.UUID, lookup func(context.Context, []uuid.UUID) ([]uuid.UUID, error), message string) error {
	if len(ids) == 0 {
		return nil
	}
	found, err := lookup(ctx, ids)
	if err != nil {
		return err
	}
	if len(found) != len(ids) {
		return fiber.NewError(fiber.StatusNotFound, message)
	}
	return nil
}

func uploadMedia(ctx context.Context, store media.Store, upload *MediaUpload) (media.Object, error) {
	obj, err := store.Upload(ctx, upload.Reader, upload.Size, upload.ContentType)
	if err != nil {
		utils.Log.Errorf("Failed to upload media: %+v", err)
		return media.Object{}, fiber.NewError(fiber.StatusInternalServerError, "Failed to upload media")
	}
	return obj, nil
}

// discardMedia removes an object whose database record is gone or was never
// written. A failure leaves an orphaned object and is only logged.
func discardMedia(ctx context.Context, store media.Store, key, reason string) {
	if key == "" {
		return
	}
	if err := store.Delete(context.WithoutCancel(ctx), key); err != nil {
		utils.Log.Warnf("Orphaned media object %s (%s): %v", key, reason, err)
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
