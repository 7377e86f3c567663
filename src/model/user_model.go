package model

type User struct {
	Base
	UserName string `gorm:"uniqueIndex;not null" json:"userName"`
	Password string `gorm:"not null" json:"-"`
	Role     string `gorm:"default:admin;not null" json:"role"`
}
