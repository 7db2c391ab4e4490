package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/framewall/internal/db"
	"github.com/framewall/internal/dispatch"
	"github.com/framewall/internal/override"
	"github.com/framewall/internal/service"
	"github.com/gin-gonic/gin"
)

// Nonce scopes, one per admin surface.
const (
	scopeGallery  = "framewall-gallery"
	scopeSettings = "framewall-settings"
	scopeCategory = "framewall-category"
	scopeMedia    = "framewall-media"
	scopePage     = "framewall-page"
)

// actions declares the full admin action map handed to the dispatcher.
func (a *API) actions() []dispatch.Action {
	return []dispatch.Action{
		{Name: "gallery_list", Capability: CapManageGalleries, NonceScope: scopeGallery, Handler: a.actionGalleryList},
		{Name: "gallery_create", Capability: CapManageGalleries, NonceScope: scopeGallery, Handler: a.actionGalleryCreate},
		{Name: "gallery_update", Capability: CapManageGalleries, NonceScope: scopeGallery, Handler: a.actionGalleryUpdate},
		{Name: "gallery_delete", Capability: CapManageGalleries, NonceScope: scopeGallery, Handler: a.actionGalleryDelete},
		{Name: "gallery_set_images", Capability: CapManageGalleries, NonceScope: scopeGallery, Handler: a.actionGallerySetImages},
		{Name: "gallery_add_images", Capability: CapManageGalleries, NonceScope: scopeGallery, Handler: a.actionGalleryAddImages},
		{Name: "image_set_galleries", Capability: CapManageGalleries, NonceScope: scopeGallery, Handler: a.actionImageSetGalleries},
		{Name: "image_galleries", Capability: CapManageGalleries, NonceScope: scopeGallery, Handler: a.actionImageGalleries},
		{Name: "settings_get", Capability: CapManageSettings, NonceScope: scopeSettings, Handler: a.actionSettingsGet},
		{Name: "settings_update", Capability: CapManageSettings, NonceScope: scopeSettings, Handler: a.actionSettingsUpdate},
		{Name: "category_suggest", Capability: CapManageCategories, NonceScope: scopeCategory, Handler: a.actionCategorySuggest},
		{Name: "category_list", Capability: CapManageCategories, NonceScope: scopeCategory, Handler: a.actionCategoryList},
		{Name: "category_assign", Capability: CapManageCategories, NonceScope: scopeCategory, Handler: a.actionCategoryAssign},
		{Name: "attachment_update_title", Capability: CapUploadMedia, NonceScope: scopeMedia, Handler: a.actionAttachmentUpdateTitle},
		{Name: "gallery_publish_page", Capability: CapPublishPages, NonceScope: scopePage, Handler: a.actionGalleryPublishPage},
		// Deliberately unscoped: the template catalog is public data and
		// the same payload is served on the public routes.
		{Name: "template_list", Handler: a.actionTemplateList},
	}
}

// DispatchAction is the single admin API endpoint. The action name and
// nonce ride in the same flat payload as the operation fields.
func (a *API) DispatchAction(c *gin.Context) {
	payload, err := decodePayload(c)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	action := payload.String("action")
	nonce := payload.String("nonce")
	result := a.dispatcher.Dispatch(a.callerFromSession(c), action, nonce, payload)
	c.JSON(result.Status, result.Body)
}

// ActionCatalog publishes the registered actions, the template catalog and
// a nonce per scope for the current session, so an admin UI never
// duplicates these constants.
func (a *API) ActionCatalog(c *gin.Context) {
	caller := a.callerFromSession(c)

	catalog := a.dispatcher.Catalog()
	nonces := make(map[string]string)
	for _, info := range catalog {
		if info.NonceScope == "" {
			continue
		}
		if _, ok := nonces[info.NonceScope]; !ok {
			nonces[info.NonceScope] = a.nonces.Issue(caller.sessionID, info.NonceScope)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"actions":   catalog,
		"nonces":    nonces,
		"templates": a.renderer.Catalog().Templates(),
	})
}

func decodePayload(c *gin.Context) (dispatch.Payload, error) {
	if strings.Contains(c.ContentType(), "json") {
		payload := dispatch.Payload{}
		if err := c.ShouldBindJSON(&payload); err != nil {
			return nil, err
		}
		return payload, nil
	}

	if err := c.Request.ParseForm(); err != nil {
		return nil, err
	}
	payload := dispatch.Payload{}
	for key, values := range c.Request.PostForm {
		if len(values) == 1 {
			payload[key] = values[0]
			continue
		}
		list := make([]any, 0, len(values))
		for _, v := range values {
			list = append(list, v)
		}
		payload[key] = list
	}
	return payload, nil
}

func (a *API) actionGalleryList(p dispatch.Payload) (map[string]any, error) {
	galleries, err := a.galleries.List()
	if err != nil {
		return nil, err
	}
	views := make([]map[string]any, 0, len(galleries))
	for i := range galleries {
		views = append(views, galleryView(&galleries[i]))
	}
	return map[string]any{"galleries": views}, nil
}

func (a *API) actionGalleryCreate(p dispatch.Payload) (map[string]any, error) {
	input, err := galleryInputFromPayload(p)
	if err != nil {
		return nil, err
	}

	gallery, err := a.galleries.Create(input)
	if err != nil {
		return nil, mapGalleryError(err)
	}
	return map[string]any{"gallery": galleryView(gallery)}, nil
}

func (a *API) actionGalleryUpdate(p dispatch.Payload) (map[string]any, error) {
	id := p.ID("id")
	if id == 0 {
		return nil, dispatch.Invalid("gallery id is required")
	}

	input, err := galleryInputFromPayload(p)
	if err != nil {
		return nil, err
	}

	applyOverrides, err := boolField(p, "apply_overrides")
	if err != nil {
		return nil, err
	}

	gallery, err := a.galleries.Update(id, input, applyOverrides)
	if err != nil {
		return nil, mapGalleryError(err)
	}
	return map[string]any{"gallery": galleryView(gallery)}, nil
}

func (a *API) actionGalleryDelete(p dispatch.Payload) (map[string]any, error) {
	id := p.ID("id")
	if id == 0 {
		return nil, dispatch.Invalid("gallery id is required")
	}
	if err := a.galleries.Delete(id); err != nil {
		return nil, mapGalleryError(err)
	}
	return map[string]any{"deleted": id}, nil
}

func (a *API) actionGallerySetImages(p dispatch.Payload) (map[string]any, error) {
	id := p.ID("id")
	if id == 0 {
		return nil, dispatch.Invalid("gallery id is required")
	}
	if err := a.galleries.SetImages(id, p.IDs("image_ids")); err != nil {
		return nil, mapGalleryError(err)
	}
	ids, err := a.galleries.ImageIDs(id)
	if err != nil {
		return nil, mapGalleryError(err)
	}
	return map[string]any{"imageIds": ids}, nil
}

func (a *API) actionGalleryAddImages(p dispatch.Payload) (map[string]any, error) {
	id := p.ID("id")
	if id == 0 {
		return nil, dispatch.Invalid("gallery id is required")
	}
	if err := a.galleries.AddImages(id, p.IDs("image_ids")); err != nil {
		return nil, mapGalleryError(err)
	}
	ids, err := a.galleries.ImageIDs(id)
	if err != nil {
		return nil, mapGalleryError(err)
	}
	return map[string]any{"imageIds": ids}, nil
}

func (a *API) actionImageSetGalleries(p dispatch.Payload) (map[string]any, error) {
	imageID := p.ID("image_id")
	if imageID == 0 {
		return nil, dispatch.Invalid("image id is required")
	}
	ids, err := a.galleries.SetImageGalleries(imageID, p.IDs("gallery_ids"))
	if err != nil {
		return nil, err
	}
	return map[string]any{"galleryIds": ids}, nil
}

func (a *API) actionImageGalleries(p dispatch.Payload) (map[string]any, error) {
	imageID := p.ID("image_id")
	if imageID == 0 {
		return nil, dispatch.Invalid("image id is required")
	}
	ids, err := a.galleries.GalleriesForImage(imageID)
	if err != nil {
		return nil, err
	}
	return map[string]any{"galleryIds": ids}, nil
}

func (a *API) actionSettingsGet(p dispatch.Payload) (map[string]any, error) {
	setting, err := a.settings.Get(p.String("template"))
	if err != nil {
		return nil, err
	}
	return map[string]any{"settings": settingsView(setting)}, nil
}

func (a *API) actionSettingsUpdate(p dispatch.Payload) (map[string]any, error) {
	var input service.TemplateSettingsInput

	if p.Has("columns") {
		v, err := override.DecodeColumns(p.String("columns"))
		if err != nil || v == nil {
			return nil, dispatch.Invalid("columns must be a number between 2 and 6")
		}
		input.Columns = v
	}
	for _, field := range []struct {
		key  string
		dest **bool
	}{
		{"lightbox", &input.Lightbox},
		{"hover_zoom", &input.HoverZoom},
		{"full_width", &input.FullWidth},
	} {
		if !p.Has(field.key) {
			continue
		}
		v, err := override.DecodeBool(p.String(field.key))
		if err != nil || v == nil {
			return nil, dispatch.Invalid("global settings require explicit on/off values")
		}
		*field.dest = v
	}
	if p.Has("transition") {
		input.Transition = override.DecodeTransition(p.String("transition"))
	}

	setting, err := a.settings.Update(p.String("template"), input)
	if err != nil {
		return nil, err
	}
	return map[string]any{"settings": settingsView(setting)}, nil
}

func (a *API) actionCategorySuggest(p dispatch.Payload) (map[string]any, error) {
	limit := int(p.ID("limit"))
	terms, err := a.categories.Suggest(p.String("q"), limit)
	if err != nil {
		return nil, err
	}
	return map[string]any{"terms": terms}, nil
}

func (a *API) actionCategoryList(p dispatch.Payload) (map[string]any, error) {
	imageID := p.ID("image_id")
	if imageID == 0 {
		return nil, dispatch.Invalid("image id is required")
	}
	terms, err := a.categories.ListForObject(imageID)
	if err != nil {
		return nil, mapCategoryError(err)
	}
	return map[string]any{"terms": terms}, nil
}

func (a *API) actionCategoryAssign(p dispatch.Payload) (map[string]any, error) {
	imageID := p.ID("image_id")
	if imageID == 0 {
		return nil, dispatch.Invalid("image id is required")
	}
	terms, err := a.categories.Assign(imageID, p.Strings("names"))
	if err != nil {
		return nil, mapCategoryError(err)
	}
	return map[string]any{"terms": terms}, nil
}

func (a *API) actionAttachmentUpdateTitle(p dispatch.Payload) (map[string]any, error) {
	id := p.ID("id")
	if id == 0 {
		return nil, dispatch.Invalid("attachment id is required")
	}
	attachment, err := a.attachments.UpdateTitle(id, p.String("title"))
	if err != nil {
		return nil, mapCategoryError(err)
	}
	return map[string]any{"attachment": attachmentView(attachment)}, nil
}

func (a *API) actionGalleryPublishPage(p dispatch.Payload) (map[string]any, error) {
	id := p.ID("id")
	if id == 0 {
		return nil, dispatch.Invalid("gallery id is required")
	}
	gallery, err := a.galleries.Get(id)
	if err != nil {
		return nil, mapGalleryError(err)
	}

	page, err := a.pages.PublishGallery(gallery, p.String("title"))
	if err != nil {
		if errors.Is(err, service.ErrPageTitleMissing) {
			return nil, dispatch.Invalid("page title is required")
		}
		return nil, dispatch.Invalid("page creation failed: " + err.Error())
	}
	return map[string]any{
		"page": map[string]any{"id": page.ID, "slug": page.Slug, "title": page.Title},
	}, nil
}

func (a *API) actionTemplateList(p dispatch.Payload) (map[string]any, error) {
	return map[string]any{"templates": a.renderer.Catalog().Templates()}, nil
}

// galleryInputFromPayload decodes the wire tokens into a typed input
// before any domain logic runs.
func galleryInputFromPayload(p dispatch.Payload) (service.GalleryInput, error) {
	input := service.GalleryInput{
		Name:        p.String("name"),
		Description: p.String("description"),
		Template:    p.String("template"),
	}

	columns, err := override.DecodeColumns(p.String("columns"))
	if err != nil {
		return input, dispatch.Invalid("columns override must be a number or inherit")
	}
	input.Columns = columns

	for _, field := range []struct {
		key  string
		dest **bool
	}{
		{"lightbox", &input.Lightbox},
		{"hover_zoom", &input.HoverZoom},
		{"full_width", &input.FullWidth},
	} {
		v, err := override.DecodeBool(p.String(field.key))
		if err != nil {
			return input, dispatch.Invalid(field.key + " override must be on, off or inherit")
		}
		*field.dest = v
	}

	input.Transition = override.DecodeTransition(p.String("transition"))
	return input, nil
}

func boolField(p dispatch.Payload, key string) (bool, error) {
	v, err := override.DecodeBool(p.String(key))
	if err != nil {
		return false, dispatch.Invalid(key + " must be a boolean")
	}
	return v != nil && *v, nil
}

func galleryView(g *db.Gallery) map[string]any {
	imageIDs := make([]uint, 0, len(g.Entries))
	for _, entry := range g.Entries {
		imageIDs = append(imageIDs, entry.AttachmentID)
	}

	return map[string]any{
		"id":          g.ID,
		"name":        g.Name,
		"description": g.Description,
		"template":    g.Template,
		"columns":     override.EncodeInt(g.ColumnsOverride),
		"lightbox":    override.EncodeBool(g.LightboxOverride),
		"hoverZoom":   override.EncodeBool(g.HoverZoomOverride),
		"fullWidth":   override.EncodeBool(g.FullWidthOverride),
		"transition":  override.EncodeTransition(g.TransitionOverride),
		"createdAt":   g.CreatedAt,
		"imageIds":    imageIDs,
	}
}

func settingsView(s db.TemplateSetting) map[string]any {
	return map[string]any{
		"template":   s.Template,
		"columns":    s.Columns,
		"lightbox":   s.LightboxEnabled,
		"hoverZoom":  s.HoverZoomEnabled,
		"fullWidth":  s.FullWidth,
		"transition": s.Transition,
	}
}

func attachmentView(att *db.Attachment) map[string]any {
	return map[string]any{
		"id":       att.ID,
		"title":    att.Title,
		"url":      att.URL,
		"mimeType": att.MimeType,
		"width":    att.Width,
		"height":   att.Height,
	}
}

func mapGalleryError(err error) error {
	switch {
	case errors.Is(err, service.ErrGalleryNotFound):
		return dispatch.NotFound("gallery not found")
	case errors.Is(err, service.ErrGalleryNameMissing):
		return dispatch.Invalid("gallery name is required")
	default:
		return err
	}
}

func mapCategoryError(err error) error {
	if errors.Is(err, service.ErrAttachmentNotFound) {
		return dispatch.NotFound("attachment not found")
	}
	return err
}
