package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/framewall/internal/db"
	"github.com/framewall/pkg/slug"
	"gorm.io/gorm"
)

var (
	ErrPageNotFound     = errors.New("page not found")
	ErrPageTitleMissing = errors.New("page title is required")
)

// PageService creates and serves the public pages that embed a gallery.
type PageService struct {
	db *gorm.DB
}

// NewPageService returns a new PageService instance.
func NewPageService(gdb *gorm.DB) *PageService {
	return &PageService{db: gdb}
}

// GetBySlug fetches a page for a given slug.
func (s *PageService) GetBySlug(pageSlug string) (*db.Page, error) {
	var page db.Page
	if err := s.db.Where("slug = ?", pageSlug).First(&page).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPageNotFound
		}
		return nil, err
	}
	return &page, nil
}

// List returns all pages newest first.
func (s *PageService) List() ([]db.Page, error) {
	var pages []db.Page
	if err := s.db.Order("created_at desc").Find(&pages).Error; err != nil {
		return nil, err
	}
	return pages, nil
}

// PublishGallery creates a page for the gallery, with a slug derived from
// the title and a markdown body seeded from the gallery description. Slug
// collisions get a numeric suffix.
func (s *PageService) PublishGallery(gallery *db.Gallery, title string) (*db.Page, error) {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		trimmed = strings.TrimSpace(gallery.Name)
	}
	if trimmed == "" {
		return nil, ErrPageTitleMissing
	}

	page := db.Page{
		Slug:      s.uniqueSlug(trimmed),
		Title:     trimmed,
		Content:   strings.TrimSpace(gallery.Description),
		GalleryID: gallery.ID,
	}
	if err := s.db.Create(&page).Error; err != nil {
		return nil, fmt.Errorf("publish gallery page: %w", err)
	}
	return &page, nil
}

func (s *PageService) uniqueSlug(title string) string {
	base := slug.From(title)
	if base == "" {
		base = "gallery"
	}

	candidate := base
	for i := 2; ; i++ {
		var count int64
		if err := s.db.Model(&db.Page{}).Where("slug = ?", candidate).Count(&count).Error; err != nil || count == 0 {
			return candidate
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}
