package db

import "gorm.io/gorm"

// Gallery groups uploaded images under a name and carries per-gallery
// display overrides. A nil override means the gallery inherits the global
// template setting for that attribute; an explicit false/zero is distinct
// from inherit.
type Gallery struct {
	gorm.Model
	Name        string `gorm:"not null"`
	Description string `gorm:"type:text"`
	Template    string `gorm:"default:basic-grid"`

	ColumnsOverride    *int
	LightboxOverride   *bool
	HoverZoomOverride  *bool
	FullWidthOverride  *bool
	TransitionOverride *string

	Entries []GalleryEntry `gorm:"constraint:OnDelete:CASCADE"`
}

// GalleryEntry links an attachment into a gallery. Position is display
// order within the gallery and also serves as the image→gallery reverse
// index.
type GalleryEntry struct {
	ID           uint `gorm:"primarykey"`
	GalleryID    uint `gorm:"index;not null"`
	AttachmentID uint `gorm:"index;not null"`
	Position     int  `gorm:"default:0"`
}
