package db

import "gorm.io/gorm"

// TemplateSetting holds the site-wide display defaults for one gallery
// template. Every field always has a concrete value; inheritance only
// exists at the gallery level.
type TemplateSetting struct {
	gorm.Model
	Template         string `gorm:"uniqueIndex;not null"`
	Columns          int    `gorm:"default:4"`
	LightboxEnabled  bool   `gorm:"default:true"`
	HoverZoomEnabled bool   `gorm:"default:true"`
	FullWidth        bool   `gorm:"default:false"`
	Transition       string `gorm:"default:none"`
}

// TableName keeps the table name aligned with the settings vocabulary.
func (TemplateSetting) TableName() string {
	return "template_settings"
}
