package model

type Collection struct {
	Base
	Name        string        `gorm:"uniqueIndex;not null" json:"name"`
	Description string        `gorm:"type:text;not null" json:"description"`
	Items       []ArchiveItem `gorm:"many2many:collection_items;" json:"-"`
}
