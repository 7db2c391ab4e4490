package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/framewall/internal/db"
	"github.com/framewall/internal/override"
	"gorm.io/gorm"
)

// Display defaults materialized for a template the first time it is read.
const (
	DefaultTemplate = "basic-grid"
	DefaultColumns  = 4
)

// SettingsService reads and writes the site-wide display settings kept per
// template. A settings record always has concrete values for every field.
type SettingsService struct {
	db *gorm.DB
}

// TemplateSettingsInput carries a partial update: nil fields keep their
// stored value, set fields are validated and clamped before writing.
type TemplateSettingsInput struct {
	Columns    *int
	Lightbox   *bool
	HoverZoom  *bool
	FullWidth  *bool
	Transition *string
}

// NewSettingsService creates a SettingsService instance.
func NewSettingsService(gdb *gorm.DB) *SettingsService {
	return &SettingsService{db: gdb}
}

// Get returns the global settings for a template, creating the record with
// defaults when it does not exist yet.
func (s *SettingsService) Get(template string) (db.TemplateSetting, error) {
	key := normalizeTemplate(template)

	var setting db.TemplateSetting
	err := s.db.Where("template = ?", key).First(&setting).Error
	if err == nil {
		setting.Columns = override.ClampColumns(setting.Columns)
		if !override.ValidTransition(setting.Transition) {
			setting.Transition = override.TransitionNone
		}
		return setting, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return db.TemplateSetting{}, fmt.Errorf("load template settings: %w", err)
	}

	setting = defaultSettings(key)
	if err := s.db.Create(&setting).Error; err != nil {
		return db.TemplateSetting{}, fmt.Errorf("materialize template settings: %w", err)
	}
	return setting, nil
}

// Update merges the provided fields into the stored record and re-validates
// every field on the way out.
func (s *SettingsService) Update(template string, input TemplateSettingsInput) (db.TemplateSetting, error) {
	setting, err := s.Get(template)
	if err != nil {
		return db.TemplateSetting{}, err
	}

	if input.Columns != nil {
		setting.Columns = override.ClampColumns(*input.Columns)
	}
	if input.Lightbox != nil {
		setting.LightboxEnabled = *input.Lightbox
	}
	if input.HoverZoom != nil {
		setting.HoverZoomEnabled = *input.HoverZoom
	}
	if input.FullWidth != nil {
		setting.FullWidth = *input.FullWidth
	}
	if input.Transition != nil {
		if override.ValidTransition(*input.Transition) {
			setting.Transition = *input.Transition
		} else {
			setting.Transition = override.TransitionNone
		}
	}

	if err := s.db.Save(&setting).Error; err != nil {
		return db.TemplateSetting{}, fmt.Errorf("update template settings: %w", err)
	}
	return setting, nil
}

func defaultSettings(template string) db.TemplateSetting {
	return db.TemplateSetting{
		Template:         template,
		Columns:          DefaultColumns,
		LightboxEnabled:  true,
		HoverZoomEnabled: true,
		FullWidth:        false,
		Transition:       override.TransitionNone,
	}
}

func normalizeTemplate(template string) string {
	key := strings.ToLower(strings.TrimSpace(template))
	if key == "" {
		return DefaultTemplate
	}
	return key
}
