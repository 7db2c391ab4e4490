package handler

import (
	"github.com/framewall/internal/dispatch"
	"github.com/framewall/internal/render"
	"github.com/framewall/internal/service"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db          *gorm.DB
	galleries   *service.GalleryService
	settings    *service.SettingsService
	categories  *service.CategoryService
	attachments *service.AttachmentService
	pages       *service.PageService
	renderer    *render.Pipeline
	dispatcher  *dispatch.Dispatcher
	nonces      *dispatch.NonceService
	uploadDir   string
	uploadURL   string
}

// NewAPI constructs the handler set with shared services and the action
// dispatcher fully wired.
func NewAPI(gdb *gorm.DB, sessionSecret, uploadDir, uploadURL string) *API {
	galleries := service.NewGalleryService(gdb)
	settings := service.NewSettingsService(gdb)
	attachments := service.NewAttachmentService(gdb)

	a := &API{
		db:          gdb,
		galleries:   galleries,
		settings:    settings,
		categories:  service.NewCategoryService(gdb),
		attachments: attachments,
		pages:       service.NewPageService(gdb),
		renderer:    render.NewPipeline(galleries, settings, attachments, render.NewCatalog()),
		nonces:      dispatch.NewNonceService(sessionSecret),
		uploadDir:   uploadDir,
		uploadURL:   uploadURL,
	}
	a.dispatcher = dispatch.NewDispatcher(a.actions())
	return a
}

// Renderer exposes the render pipeline so callers can install transforms
// or an entitlement-aware availability hook.
func (a *API) Renderer() *render.Pipeline {
	return a.renderer
}

// Dispatcher exposes the action dispatcher, mainly for result hooks.
func (a *API) Dispatcher() *dispatch.Dispatcher {
	return a.dispatcher
}
