package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestContainsPattern(t *testing.T) {
	tests := map[string]string{
		"maps":       "%maps%",
		"100%":       `%100\%%`,
		"file_name":  `%file\_name%`,
		`C:\archive`: `%C:\\archive%`,
		"":           "%%",
	}

	for search, want := range tests {
		assert.Equal(t, want, containsPattern(search), search)
	}
}

func TestTranslate(t *testing.T) {
	assert.NoError(t, translate(nil))
	assert.ErrorIs(t, translate(fmt.Errorf("find: %w", gorm.ErrRecordNotFound)), ErrNotFound)
	assert.ErrorIs(t, translate(gorm.ErrDuplicatedKey), ErrDuplicate)

	other := errors.New("connection refused")
	assert.Equal(t, other, translate(other))
}
