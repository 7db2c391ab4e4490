package service

import (
	"errors"
	"strings"

	"github.com/framewall/internal/db"
	"gorm.io/gorm"
)

var ErrAttachmentFileMissing = errors.New("attachment file is required")

// AttachmentService tracks uploaded images. Galleries and categories only
// ever reference attachments by id; the file itself is written by the
// upload handler.
type AttachmentService struct {
	db *gorm.DB
}

// AttachmentInput describes a freshly uploaded file.
type AttachmentInput struct {
	Title      string
	FileName   string
	MimeType   string
	URL        string
	Width      int
	Height     int
	FileSize   int64
	UploadedBy uint
}

// NewAttachmentService creates an AttachmentService instance.
func NewAttachmentService(gdb *gorm.DB) *AttachmentService {
	return &AttachmentService{db: gdb}
}

// Get fetches an attachment by id.
func (s *AttachmentService) Get(id uint) (*db.Attachment, error) {
	var item db.Attachment
	if err := s.db.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAttachmentNotFound
		}
		return nil, err
	}
	return &item, nil
}

// List returns attachments newest first.
func (s *AttachmentService) List() ([]db.Attachment, error) {
	var items []db.Attachment
	if err := s.db.Order("created_at desc").Order("id desc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Create records a new uploaded file.
func (s *AttachmentService) Create(input AttachmentInput) (*db.Attachment, error) {
	if strings.TrimSpace(input.FileName) == "" || strings.TrimSpace(input.URL) == "" {
		return nil, ErrAttachmentFileMissing
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		title = strings.TrimSpace(input.FileName)
	}

	item := db.Attachment{
		Title:      title,
		FileName:   strings.TrimSpace(input.FileName),
		MimeType:   strings.TrimSpace(input.MimeType),
		URL:        strings.TrimSpace(input.URL),
		Width:      input.Width,
		Height:     input.Height,
		FileSize:   input.FileSize,
		UploadedBy: input.UploadedBy,
	}
	if err := s.db.Create(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateTitle is the only mutation exposed for tracked images.
func (s *AttachmentService) UpdateTitle(id uint, title string) (*db.Attachment, error) {
	item, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	item.Title = strings.TrimSpace(title)
	if item.Title == "" {
		item.Title = item.FileName
	}
	if err := s.db.Save(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}
