package model

import (
	"github.com/google/uuid"
)

type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

// ArchiveItem is a single media item. Private items are drafts; publishing
// flips Visibility and keeps the ID.
type ArchiveItem struct {
	Base
	Title           string       `gorm:"not null" json:"title"`
	Description     string       `gorm:"type:text;not null" json:"description"`
	CategoryID      uuid.UUID    `gorm:"type:uuid;not null;index" json:"categoryId"`
	Category        *Category    `gorm:"foreignKey:CategoryID" json:"-"`
	MediaType       string       `gorm:"type:varchar(16);not null" json:"mediaType"`
	Visibility      Visibility   `gorm:"type:varchar(10);not null;default:private;index" json:"visibility"`
	IsOnTheMainPage bool         `gorm:"not null;default:false" json:"isOnTheMainPage"`
	CloudServiceURL string       `gorm:"type:text;not null" json:"cloudServiceUrl"`
	MediaKey        string       `gorm:"type:text" json:"-"`
	Collections     []Collection `gorm:"many2many:collection_items;" json:"-"`
}

func (a *ArchiveItem) IsPublic() bool {
	return a.Visibility == VisibilityPublic
}
