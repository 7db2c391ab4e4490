package db

import "gorm.io/gorm"

// Attachment is an uploaded image tracked by the media library. Galleries
// reference attachments by id and never own the underlying file.
type Attachment struct {
	gorm.Model
	Title      string
	FileName   string `gorm:"not null"`
	MimeType   string
	URL        string `gorm:"not null"`
	Width      int
	Height     int
	FileSize   int64
	UploadedBy uint
}
