package handler

import (
	"bytes"
	"errors"
	"html/template"
	"net/http"

	"github.com/framewall/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

var (
	markdownEngine = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Linkify),
		goldmark.WithRendererOptions(gmhtml.WithHardWraps(), gmhtml.WithXHTML()),
	)
	sanitizer = bluemonday.UGCPolicy()
)

// RenderGallery returns the render tree for one gallery.
func (a *API) RenderGallery(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid gallery id")
		return
	}

	tree, err := a.renderer.Render(id, c.Query("template"))
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to render gallery")
		return
	}
	c.JSON(http.StatusOK, tree)
}

// RenderWall returns the render tree for every gallery on one page.
func (a *API) RenderWall(c *gin.Context) {
	tree, err := a.renderer.Render(0, c.Query("template"))
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to render galleries")
		return
	}
	c.JSON(http.StatusOK, tree)
}

// ShowPage serves a published gallery page: the page body rendered from
// markdown and sanitized, plus the gallery's render tree.
func (a *API) ShowPage(c *gin.Context) {
	page, err := a.pages.GetBySlug(c.Param("slug"))
	if err != nil {
		if errors.Is(err, service.ErrPageNotFound) {
			respondError(c, http.StatusNotFound, "page not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to load page")
		return
	}

	tree, err := a.renderer.Render(page.GalleryID, "")
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to render gallery")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"page": gin.H{
			"slug":  page.Slug,
			"title": page.Title,
			"html":  renderMarkdown(page.Content),
		},
		"gallery": tree,
	})
}

// ListPages lists published pages for navigation.
func (a *API) ListPages(c *gin.Context) {
	pages, err := a.pages.List()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load pages")
		return
	}

	items := make([]gin.H, 0, len(pages))
	for _, page := range pages {
		items = append(items, gin.H{"slug": page.Slug, "title": page.Title, "galleryId": page.GalleryID})
	}
	c.JSON(http.StatusOK, gin.H{"pages": items})
}

func renderMarkdown(source string) template.HTML {
	var buf bytes.Buffer
	if err := markdownEngine.Convert([]byte(source), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(source))
	}
	return template.HTML(sanitizer.SanitizeBytes(buf.Bytes()))
}
