package db

import "gorm.io/gorm"

// Page is a public content page created when a gallery is published.
type Page struct {
	gorm.Model
	Slug      string `gorm:"uniqueIndex;not null"`
	Title     string `gorm:"not null"`
	Content   string `gorm:"type:text"`
	GalleryID uint   `gorm:"index"`
}
