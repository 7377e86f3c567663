// Package media stores uploaded archive files in an object store and derives
// the media kind of an upload from its content type.
package media

import (
	"context"
	"io"
	"strings"
)

type Kind string

const (
	KindImage    Kind = "image"
	KindVideo    Kind = "video"
	KindDocument Kind = "document"
)

// KindFromMIME maps a content type to a media kind. Anything that is neither
// an image nor a video is stored as a document.
func KindFromMIME(contentType string) Kind {
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return KindImage
	case strings.HasPrefix(contentType, "video/"):
		return KindVideo
	default:
		return KindDocument
	}
}

// Folder is the object key prefix used for a kind.
func (k Kind) Folder() string {
	switch k {
	case KindImage:
		return "archive-items/images"
	case KindVideo:
		return "archive-items/videos"
	default:
		return "archive-items/documents"
	}
}

// Object is a stored upload.
type Object struct {
	Key  string
	URL  string
	Kind Kind
}

// Store uploads and removes media objects. Delete of a missing key succeeds.
type Store interface {
	Upload(ctx context.Context, r io.Reader, size int64, contentType string) (Object, error)
	Delete(ctx context.Context, key string) error
}
