// Package render builds the public representation of galleries: it selects
// a display template, resolves each gallery's effective display attributes
// and produces a render tree of sections and items.
package render

import "strings"

// FallbackTemplate is the hard fallback when nothing in the catalog is
// available. Template selection never fails; at worst a render proceeds
// with this slug even if no provider registered it.
const FallbackTemplate = "basic-grid"

// TemplateInfo describes one entry of the template catalog.
type TemplateInfo struct {
	Slug      string `json:"slug"`
	Label     string `json:"label"`
	Pro       bool   `json:"pro"`
	Available bool   `json:"available"`
}

// TemplateProvider contributes templates to the catalog. Providers are
// consulted in registration order.
type TemplateProvider interface {
	Templates() []TemplateInfo
}

// AvailabilityFunc decides whether a template may be selected. The default
// makes every non-pro template available.
type AvailabilityFunc func(TemplateInfo) bool

// Catalog aggregates template providers and answers availability and slug
// resolution queries.
type Catalog struct {
	providers    []TemplateProvider
	availability AvailabilityFunc
}

// NewCatalog builds a catalog over the given providers, seeded with the
// built-in templates when none are supplied.
func NewCatalog(providers ...TemplateProvider) *Catalog {
	if len(providers) == 0 {
		providers = []TemplateProvider{builtinTemplates{}}
	}
	return &Catalog{
		providers:    providers,
		availability: func(t TemplateInfo) bool { return !t.Pro },
	}
}

// SetAvailability replaces the availability hook, e.g. when an entitlement
// check unlocks pro templates.
func (c *Catalog) SetAvailability(fn AvailabilityFunc) {
	if fn != nil {
		c.availability = fn
	}
}

// Templates returns the catalog in provider registration order with the
// Available flag computed. Later providers cannot shadow an earlier slug.
func (c *Catalog) Templates() []TemplateInfo {
	seen := make(map[string]struct{})
	var out []TemplateInfo
	for _, provider := range c.providers {
		for _, t := range provider.Templates() {
			t.Slug = strings.ToLower(strings.TrimSpace(t.Slug))
			if t.Slug == "" {
				continue
			}
			if _, ok := seen[t.Slug]; ok {
				continue
			}
			seen[t.Slug] = struct{}{}
			t.Available = c.availability(t)
			out = append(out, t)
		}
	}
	return out
}

// ResolveSlug picks the template to render with: the requested slug when
// it names an available catalog entry, else the first available entry,
// else FallbackTemplate. Pro-locked and unknown templates are never
// selected implicitly.
func (c *Catalog) ResolveSlug(requested string) string {
	templates := c.Templates()
	requested = strings.ToLower(strings.TrimSpace(requested))

	if requested != "" {
		for _, t := range templates {
			if t.Slug == requested && t.Available {
				return t.Slug
			}
		}
	}

	for _, t := range templates {
		if t.Available {
			return t.Slug
		}
	}

	return FallbackTemplate
}

// builtinTemplates ships the stock display templates.
type builtinTemplates struct{}

func (builtinTemplates) Templates() []TemplateInfo {
	return []TemplateInfo{
		{Slug: "basic-grid", Label: "Basic Grid"},
		{Slug: "masonry", Label: "Masonry"},
		{Slug: "mosaic-pro", Label: "Mosaic", Pro: true},
	}
}
