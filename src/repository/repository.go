// Package repository is the entity store of the archive: categories, archive
// items, collections and their memberships, and admin users.
package repository

import (
	"context"
	"errors"
	"strings"

	"mediaarchive/src/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate key")
)

// ArchiveItemFilter narrows a listing. Zero values mean "any".
type ArchiveItemFilter struct {
	CategoryID uuid.UUID
	// Search is matched case-insensitively against the title.
	Search     string
	Visibility model.Visibility
}

type ArchiveItemRepository interface {
	List(ctx context.Context, filter ArchiveItemFilter) ([]model.ArchiveItem, error)
	// FindByID loads the item with its category and collections.
	FindByID(ctx context.Context, id uuid.UUID) (*model.ArchiveItem, error)
	// ExistingIDs returns the subset of ids that exist.
	ExistingIDs(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error)
	Create(ctx context.Context, item *model.ArchiveItem) error
	// Update saves the scalar fields of item and applies the membership
	// changes in one transaction.
	Update(ctx context.Context, item *model.ArchiveItem, addCollections, removeCollections []uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type CollectionRepository interface {
	// List loads collections with their public items.
	List(ctx context.Context, search string) ([]model.Collection, error)
	// FindByID loads the collection with its public items.
	FindByID(ctx context.Context, id uuid.UUID) (*model.Collection, error)
	ExistingIDs(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error)
	// ItemIDs returns every member of the collection regardless of visibility.
	ItemIDs(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error)
	Create(ctx context.Context, collection *model.Collection, itemIDs []uuid.UUID) error
	Update(ctx context.Context, collection *model.Collection, addItems, removeItems []uuid.UUID) error
	// Delete removes the collection and returns the item ids it had at the
	// moment of deletion, read in the same transaction.
	Delete(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error)
}

type CategoryRepository interface {
	List(ctx context.Context) ([]model.Category, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Category, error)
	Create(ctx context.Context, category *model.Category) error
}

type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	FindByUserName(ctx context.Context, userName string) (*model.User, error)
	Create(ctx context.Context, user *model.User) error
}

// translate maps gorm errors onto the package errors.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	default:
		return err
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE pattern matching search literally.
func containsPattern(search string) string {
	return "%" + likeEscaper.Replace(search) + "%"
}
