package render

import (
	"errors"
	"fmt"

	"github.com/framewall/internal/db"
	"github.com/framewall/internal/override"
	"github.com/framewall/internal/service"
)

// Item is one image inside a rendered gallery section.
type Item struct {
	AttachmentID uint   `json:"attachmentId"`
	Title        string `json:"title"`
	URL          string `json:"url"`
	Width        int    `json:"width,omitempty"`
	Height       int    `json:"height,omitempty"`
	Lightbox     bool   `json:"lightbox"`
	Transition   string `json:"transition,omitempty"`
}

// Section is one gallery in the render tree together with its resolved
// display attributes and CSS hook classes.
type Section struct {
	GalleryID   uint               `json:"galleryId"`
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Template    string             `json:"template"`
	Display     override.Effective `json:"display"`
	CSSClasses  []string           `json:"cssClasses"`
	Items       []Item             `json:"items"`
}

// Tree is the full output of a render call.
type Tree struct {
	Template string    `json:"template"`
	Sections []Section `json:"sections"`
}

// Transform post-processes a rendered tree. Transforms run in registration
// order as the final pipeline step.
type Transform func(*Tree)

// PermissionFunc gates rendering as a whole. When it returns false the
// pipeline returns an empty tree regardless of data.
type PermissionFunc func() bool

// Pipeline wires the settings store, gallery store and attachment lookup
// into the template catalog.
type Pipeline struct {
	galleries   *service.GalleryService
	settings    *service.SettingsService
	attachments *service.AttachmentService
	catalog     *Catalog
	permitted   PermissionFunc
	transforms  []Transform
}

// NewPipeline creates a render pipeline. The permission gate defaults to
// always-allow.
func NewPipeline(galleries *service.GalleryService, settings *service.SettingsService, attachments *service.AttachmentService, catalog *Catalog) *Pipeline {
	return &Pipeline{
		galleries:   galleries,
		settings:    settings,
		attachments: attachments,
		catalog:     catalog,
		permitted:   func() bool { return true },
	}
}

// SetPermission replaces the render permission gate.
func (p *Pipeline) SetPermission(fn PermissionFunc) {
	if fn != nil {
		p.permitted = fn
	}
}

// AddTransform appends a post-render transform.
func (p *Pipeline) AddTransform(fn Transform) {
	if fn != nil {
		p.transforms = append(p.transforms, fn)
	}
}

// Catalog exposes the template catalog, so admin surfaces can list
// templates without duplicating the slugs.
func (p *Pipeline) Catalog() *Catalog {
	return p.catalog
}

// Render builds the tree for one gallery (galleryID > 0) or all galleries
// (galleryID == 0). When no template is requested and exactly one gallery
// matches, that gallery's stored template is adopted before the catalog
// fallback applies. Dangling attachment ids are dropped without error.
func (p *Pipeline) Render(galleryID uint, requestedTemplate string) (*Tree, error) {
	tree := &Tree{Sections: []Section{}}
	if !p.permitted() {
		tree.Template = p.catalog.ResolveSlug(requestedTemplate)
		return tree, nil
	}

	galleries, err := p.loadGalleries(galleryID)
	if err != nil {
		return nil, err
	}
	if len(galleries) == 0 {
		tree.Template = p.catalog.ResolveSlug(requestedTemplate)
		return tree, nil
	}

	if requestedTemplate == "" && len(galleries) == 1 {
		requestedTemplate = galleries[0].Template
	}
	tree.Template = p.catalog.ResolveSlug(requestedTemplate)

	global, err := p.settings.Get(tree.Template)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}

	for _, gallery := range galleries {
		tree.Sections = append(tree.Sections, p.renderSection(gallery, global, tree.Template))
	}

	for _, transform := range p.transforms {
		transform(tree)
	}
	return tree, nil
}

func (p *Pipeline) loadGalleries(galleryID uint) ([]db.Gallery, error) {
	if galleryID > 0 {
		gallery, err := p.galleries.Get(galleryID)
		if err != nil {
			if errors.Is(err, service.ErrGalleryNotFound) {
				return nil, nil
			}
			return nil, err
		}
		return []db.Gallery{*gallery}, nil
	}
	return p.galleries.List()
}

// renderSection resolves display attributes once per gallery, so that each
// section carries its own full-width decision even in bulk renders.
func (p *Pipeline) renderSection(gallery db.Gallery, global db.TemplateSetting, template string) Section {
	eff := override.Resolve(global, gallery)

	section := Section{
		GalleryID:   gallery.ID,
		Name:        gallery.Name,
		Description: gallery.Description,
		Template:    template,
		Display:     eff,
		CSSClasses:  cssClasses(template, eff),
		Items:       []Item{},
	}

	for _, entry := range gallery.Entries {
		if entry.AttachmentID == 0 {
			continue
		}
		attachment, err := p.attachments.Get(entry.AttachmentID)
		if err != nil {
			// Dangling id: the image was deleted from the media
			// library but the gallery still references it.
			continue
		}

		item := Item{
			AttachmentID: attachment.ID,
			Title:        attachment.Title,
			URL:          attachment.URL,
			Width:        attachment.Width,
			Height:       attachment.Height,
			Lightbox:     eff.LightboxEnabled,
		}
		if eff.LightboxEnabled {
			item.Transition = eff.Transition
		}
		section.Items = append(section.Items, item)
	}

	return section
}

func cssClasses(template string, eff override.Effective) []string {
	classes := []string{
		"fw-gallery",
		"fw-template-" + template,
		fmt.Sprintf("fw-cols-%d", eff.Columns),
	}
	if eff.HoverZoomEnabled {
		classes = append(classes, "fw-hover-zoom")
	}
	if eff.FullWidth {
		classes = append(classes, "fw-full-width")
	}
	return classes
}
