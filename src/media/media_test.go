package media_test

import (
	"strings"
	"testing"

	"mediaarchive/src/media"

	"github.com/stretchr/testify/assert"
)

func TestKindFromMIME(t *testing.T) {
	tests := []struct {
		contentType string
		want        media.Kind
	}{
		{"image/png", media.KindImage},
		{"image/jpeg", media.KindImage},
		{"video/mp4", media.KindVideo},
		{"application/pdf", media.KindDocument},
		{"text/plain; charset=utf-8", media.KindDocument},
		{"", media.KindDocument},
	}

	for _, tt := range tests {
		t.Run(tt.contentType, func(t *testing.T) {
			assert.Equal(t, tt.want, media.KindFromMIME(tt.contentType))
		})
	}
}

func TestObjectKey(t *testing.T) {
	t.Run("uses the kind folder and the MIME extension", func(t *testing.T) {
		key := media.ObjectKey(media.KindImage, "image/png")

		assert.True(t, strings.HasPrefix(key, "archive-items/images/"), key)
		assert.True(t, strings.HasSuffix(key, ".png"), key)
	})

	t.Run("documents", func(t *testing.T) {
		key := media.ObjectKey(media.KindDocument, "application/pdf")

		assert.True(t, strings.HasPrefix(key, "archive-items/documents/"), key)
		assert.True(t, strings.HasSuffix(key, ".pdf"), key)
	})

	t.Run("unknown type has no extension", func(t *testing.T) {
		key := media.ObjectKey(media.KindDocument, "application/x-not-a-real-type")

		assert.NotContains(t, strings.TrimPrefix(key, "archive-items/documents/"), ".")
	})

	t.Run("keys are unique", func(t *testing.T) {
		assert.NotEqual(t,
			media.ObjectKey(media.KindVideo, "video/mp4"),
			media.ObjectKey(media.KindVideo, "video/mp4"))
	})
}
