package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/framewall/internal/db"
	"github.com/framewall/pkg/slug"
	"gorm.io/gorm"
)

var ErrAttachmentNotFound = errors.New("attachment not found")

// suggestCap is the hard upper bound on suggestion results.
const suggestCap = 30

// CategoryService manages free-text categories on attachments. Category
// names are unique case-insensitively; assignment is a full replace of an
// attachment's category set.
type CategoryService struct {
	db *gorm.DB
}

// CategoryTerm is the service-level view of a category together with how
// many attachments currently bear it.
type CategoryTerm struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Count int64  `json:"count"`
}

// NewCategoryService creates a CategoryService instance.
func NewCategoryService(gdb *gorm.DB) *CategoryService {
	return &CategoryService{db: gdb}
}

// Suggest returns categories whose name contains the query
// (case-insensitive), most used first, capped at min(limit, 30).
func (s *CategoryService) Suggest(query string, limit int) ([]CategoryTerm, error) {
	if limit <= 0 || limit > suggestCap {
		limit = suggestCap
	}

	tx := s.db.Table("categories").
		Select("categories.id, categories.name, categories.slug, COUNT(category_assignments.id) AS count").
		Joins("LEFT JOIN category_assignments ON category_assignments.category_id = categories.id").
		Where("categories.deleted_at IS NULL").
		Group("categories.id, categories.name, categories.slug").
		Order("count desc").
		Order("categories.name asc").
		Limit(limit)

	if q := strings.TrimSpace(query); q != "" {
		tx = tx.Where("LOWER(categories.name) LIKE ?", "%"+strings.ToLower(q)+"%")
	}

	var terms []CategoryTerm
	if err := tx.Scan(&terms).Error; err != nil {
		return nil, fmt.Errorf("suggest categories: %w", err)
	}
	return terms, nil
}

// ListForObject returns the categories assigned to an attachment ordered
// by name.
func (s *CategoryService) ListForObject(attachmentID uint) ([]CategoryTerm, error) {
	if err := s.requireAttachment(s.db, attachmentID); err != nil {
		return nil, err
	}

	var terms []CategoryTerm
	if err := s.db.Table("categories").
		Select("categories.id, categories.name, categories.slug, (SELECT COUNT(*) FROM category_assignments ca WHERE ca.category_id = categories.id) AS count").
		Joins("JOIN category_assignments ON category_assignments.category_id = categories.id").
		Where("category_assignments.attachment_id = ?", attachmentID).
		Where("categories.deleted_at IS NULL").
		Order("categories.name asc").
		Scan(&terms).Error; err != nil {
		return nil, fmt.Errorf("list categories for attachment: %w", err)
	}
	return terms, nil
}

// Assign replaces the attachment's category set with exactly the given
// names. Names are trimmed and de-duplicated case-insensitively; a name
// matching an existing category (ignoring case) reuses it, anything else
// is created on the spot. Previously assigned categories not named again
// are removed.
func (s *CategoryService) Assign(attachmentID uint, names []string) ([]CategoryTerm, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.requireAttachment(tx, attachmentID); err != nil {
			return err
		}

		resolved := make([]uint, 0, len(names))
		seen := make(map[string]struct{}, len(names))
		for _, raw := range names {
			name := strings.TrimSpace(raw)
			if name == "" {
				continue
			}
			lower := strings.ToLower(name)
			if _, ok := seen[lower]; ok {
				continue
			}
			seen[lower] = struct{}{}

			term, err := s.findOrCreate(tx, name)
			if err != nil {
				return err
			}
			resolved = append(resolved, term.ID)
		}

		if err := tx.Where("attachment_id = ?", attachmentID).Delete(&db.CategoryAssignment{}).Error; err != nil {
			return err
		}
		for _, categoryID := range resolved {
			assignment := db.CategoryAssignment{CategoryID: categoryID, AttachmentID: attachmentID}
			if err := tx.Create(&assignment).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrAttachmentNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("assign categories: %w", err)
	}

	return s.ListForObject(attachmentID)
}

func (s *CategoryService) findOrCreate(tx *gorm.DB, name string) (*db.Category, error) {
	var existing db.Category
	err := tx.Where("LOWER(name) = ?", strings.ToLower(name)).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	term := db.Category{Name: name, Slug: s.uniqueSlug(tx, name)}
	if err := tx.Create(&term).Error; err != nil {
		return nil, err
	}
	return &term, nil
}

func (s *CategoryService) uniqueSlug(tx *gorm.DB, name string) string {
	base := slug.From(name)
	if base == "" {
		base = "category"
	}

	candidate := base
	for i := 2; ; i++ {
		var count int64
		if err := tx.Model(&db.Category{}).Where("slug = ?", candidate).Count(&count).Error; err != nil || count == 0 {
			return candidate
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}

func (s *CategoryService) requireAttachment(tx *gorm.DB, attachmentID uint) error {
	var attachment db.Attachment
	if err := tx.First(&attachment, attachmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAttachmentNotFound
		}
		return err
	}
	return nil
}
