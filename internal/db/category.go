package db

import "gorm.io/gorm"

// Category is a free-text tag attached to attachments. Name uniqueness is
// case-insensitive and enforced by the service layer; Slug is derived from
// the name at creation time.
type Category struct {
	gorm.Model
	Name string `gorm:"not null"`
	Slug string `gorm:"uniqueIndex;not null"`
}

// CategoryAssignment records that an attachment bears a category.
type CategoryAssignment struct {
	ID           uint `gorm:"primarykey"`
	CategoryID   uint `gorm:"index;not null"`
	AttachmentID uint `gorm:"index;not null"`
}
