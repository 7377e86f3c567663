package model

type Category struct {
	Base
	Name        string `gorm:"uniqueIndex;not null" json:"name"`
	Description string `gorm:"type:text;not null" json:"description"`
}
