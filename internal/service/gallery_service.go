package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/framewall/internal/db"
	"github.com/framewall/internal/override"
	"gorm.io/gorm"
)

var (
	ErrGalleryNotFound    = errors.New("gallery not found")
	ErrGalleryNameMissing = errors.New("gallery name is required")
)

// GalleryService handles gallery CRUD and gallery↔image membership.
type GalleryService struct {
	db *gorm.DB
}

// GalleryInput represents fields accepted when creating or updating a
// gallery. Override fields are tri-state: nil means inherit.
type GalleryInput struct {
	Name        string
	Description string
	Template    string

	Columns    *int
	Lightbox   *bool
	HoverZoom  *bool
	FullWidth  *bool
	Transition *string
}

// NewGalleryService creates a GalleryService instance.
func NewGalleryService(gdb *gorm.DB) *GalleryService {
	return &GalleryService{db: gdb}
}

// List returns all galleries with their entries in display order.
func (s *GalleryService) List() ([]db.Gallery, error) {
	var items []db.Gallery
	if err := s.db.Preload("Entries", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("position asc").Order("id asc")
	}).Order("created_at asc").Order("id asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Get fetches a gallery by id with its entries in display order.
func (s *GalleryService) Get(id uint) (*db.Gallery, error) {
	var item db.Gallery
	if err := s.db.Preload("Entries", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("position asc").Order("id asc")
	}).First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGalleryNotFound
		}
		return nil, err
	}
	return &item, nil
}

// Create inserts a new gallery. The name is required after trimming; the
// template falls back to basic-grid when empty.
func (s *GalleryService) Create(input GalleryInput) (*db.Gallery, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrGalleryNameMissing
	}

	item := db.Gallery{
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		Template:    normalizeTemplate(input.Template),
	}
	applyOverrideInput(&item, input)

	if err := s.db.Create(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// Update modifies a gallery's name, description and template. Override
// fields are only touched when applyOverrides is set; a plain rename must
// never clear a gallery's stored overrides.
func (s *GalleryService) Update(id uint, input GalleryInput, applyOverrides bool) (*db.Gallery, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrGalleryNameMissing
	}

	item, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	item.Name = name
	item.Description = strings.TrimSpace(input.Description)
	if strings.TrimSpace(input.Template) != "" {
		item.Template = normalizeTemplate(input.Template)
	}
	if applyOverrides {
		applyOverrideInput(item, input)
	}

	if err := s.db.Save(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// Delete removes a gallery and its membership rows.
func (s *GalleryService) Delete(id uint) error {
	item, err := s.Get(id)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("gallery_id = ?", id).Delete(&db.GalleryEntry{}).Error; err != nil {
			return err
		}
		return tx.Delete(item).Error
	})
}

// ImageIDs returns a gallery's attachment ids in display order.
func (s *GalleryService) ImageIDs(galleryID uint) ([]uint, error) {
	item, err := s.Get(galleryID)
	if err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(item.Entries))
	for _, entry := range item.Entries {
		ids = append(ids, entry.AttachmentID)
	}
	return ids, nil
}

// SetImages replaces a gallery's image list. Order is preserved exactly as
// given; duplicates and non-positive ids are dropped.
func (s *GalleryService) SetImages(galleryID uint, attachmentIDs []uint) error {
	if _, err := s.Get(galleryID); err != nil {
		return err
	}
	ids := sanitizeIDs(attachmentIDs)

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("gallery_id = ?", galleryID).Delete(&db.GalleryEntry{}).Error; err != nil {
			return err
		}
		for pos, attachmentID := range ids {
			entry := db.GalleryEntry{GalleryID: galleryID, AttachmentID: attachmentID, Position: pos}
			if err := tx.Create(&entry).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// AddImages appends attachments to a gallery, skipping ones already
// present. Existing order is untouched.
func (s *GalleryService) AddImages(galleryID uint, attachmentIDs []uint) error {
	item, err := s.Get(galleryID)
	if err != nil {
		return err
	}

	present := make(map[uint]struct{}, len(item.Entries))
	nextPos := 0
	for _, entry := range item.Entries {
		present[entry.AttachmentID] = struct{}{}
		if entry.Position >= nextPos {
			nextPos = entry.Position + 1
		}
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		for _, attachmentID := range sanitizeIDs(attachmentIDs) {
			if _, ok := present[attachmentID]; ok {
				continue
			}
			present[attachmentID] = struct{}{}
			entry := db.GalleryEntry{GalleryID: galleryID, AttachmentID: attachmentID, Position: nextPos}
			nextPos++
			if err := tx.Create(&entry).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// GalleriesForImage returns the ids of every gallery containing the
// attachment, ordered by gallery id.
func (s *GalleryService) GalleriesForImage(attachmentID uint) ([]uint, error) {
	var ids []uint
	if err := s.db.Model(&db.GalleryEntry{}).
		Distinct("gallery_id").
		Where("attachment_id = ?", attachmentID).
		Order("gallery_id asc").
		Pluck("gallery_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// SetImageGalleries replaces the attachment's full membership set: it is
// removed from every gallery not in galleryIDs and appended to the end of
// every gallery in galleryIDs it was not already part of. Unknown gallery
// ids are skipped. Returns the resulting membership.
func (s *GalleryService) SetImageGalleries(attachmentID uint, galleryIDs []uint) ([]uint, error) {
	wanted := sanitizeIDs(galleryIDs)
	wantedSet := make(map[uint]struct{}, len(wanted))
	for _, id := range wanted {
		wantedSet[id] = struct{}{}
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var current []db.GalleryEntry
		if err := tx.Where("attachment_id = ?", attachmentID).Find(&current).Error; err != nil {
			return err
		}

		currentSet := make(map[uint]struct{}, len(current))
		for _, entry := range current {
			currentSet[entry.GalleryID] = struct{}{}
			if _, keep := wantedSet[entry.GalleryID]; !keep {
				if err := tx.Delete(&db.GalleryEntry{}, entry.ID).Error; err != nil {
					return err
				}
			}
		}

		for _, galleryID := range wanted {
			if _, ok := currentSet[galleryID]; ok {
				continue
			}
			var gallery db.Gallery
			if err := tx.First(&gallery, galleryID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					continue
				}
				return err
			}

			var maxPos int
			if err := tx.Model(&db.GalleryEntry{}).
				Where("gallery_id = ?", galleryID).
				Select("COALESCE(MAX(position), -1)").
				Scan(&maxPos).Error; err != nil {
				return err
			}
			entry := db.GalleryEntry{GalleryID: galleryID, AttachmentID: attachmentID, Position: maxPos + 1}
			if err := tx.Create(&entry).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("set image galleries: %w", err)
	}

	return s.GalleriesForImage(attachmentID)
}

func applyOverrideInput(item *db.Gallery, input GalleryInput) {
	if input.Columns != nil {
		clamped := override.ClampColumns(*input.Columns)
		item.ColumnsOverride = &clamped
	} else {
		item.ColumnsOverride = nil
	}
	item.LightboxOverride = input.Lightbox
	item.HoverZoomOverride = input.HoverZoom
	item.FullWidthOverride = input.FullWidth
	if input.Transition != nil && override.ValidTransition(*input.Transition) {
		item.TransitionOverride = input.Transition
	} else {
		item.TransitionOverride = nil
	}
}

// sanitizeIDs drops zero ids and duplicates while preserving order.
func sanitizeIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
