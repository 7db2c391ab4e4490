package render

import (
	"testing"

	"github.com/framewall/internal/db"
	"github.com/framewall/internal/service"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fixture struct {
	gdb         *gorm.DB
	galleries   *service.GalleryService
	settings    *service.SettingsService
	attachments *service.AttachmentService
	pipeline    *Pipeline
}

func setupPipeline(t *testing.T) (*fixture, func()) {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := gdb.AutoMigrate(&db.Attachment{}, &db.Gallery{}, &db.GalleryEntry{}, &db.TemplateSetting{}); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}

	f := &fixture{
		gdb:         gdb,
		galleries:   service.NewGalleryService(gdb),
		settings:    service.NewSettingsService(gdb),
		attachments: service.NewAttachmentService(gdb),
	}
	f.pipeline = NewPipeline(f.galleries, f.settings, f.attachments, NewCatalog())

	return f, func() {
		sqlDB, err := gdb.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
}

func (f *fixture) seedAttachment(t *testing.T, title string) uint {
	t.Helper()
	att, err := f.attachments.Create(service.AttachmentInput{
		Title:    title,
		FileName: title + ".jpg",
		URL:      "/static/uploads/" + title + ".jpg",
		Width:    800,
		Height:   600,
	})
	if err != nil {
		t.Fatalf("failed to seed attachment: %v", err)
	}
	return att.ID
}

func (f *fixture) seedGallery(t *testing.T, input service.GalleryInput, imageIDs []uint) uint {
	t.Helper()
	gallery, err := f.galleries.Create(input)
	if err != nil {
		t.Fatalf("failed to seed gallery: %v", err)
	}
	if len(imageIDs) > 0 {
		if err := f.galleries.SetImages(gallery.ID, imageIDs); err != nil {
			t.Fatalf("failed to seed gallery images: %v", err)
		}
	}
	return gallery.ID
}

func boolPtr(v bool) *bool { return &v }
func intPtr(v int) *int    { return &v }

func TestRenderSingleGalleryResolvesOverrides(t *testing.T) {
	f, cleanup := setupPipeline(t)
	defer cleanup()

	lightboxOff := false
	hoverOn := true
	fullWidth := true
	columns := 5
	img := f.seedAttachment(t, "harbor")
	id := f.seedGallery(t, service.GalleryInput{
		Name:      "Harbor",
		Columns:   &columns,
		Lightbox:  &lightboxOff,
		HoverZoom: &hoverOn,
		FullWidth: &fullWidth,
	}, []uint{img})

	// Global settings that the overrides must beat.
	two := 2
	if _, err := f.settings.Update("basic-grid", service.TemplateSettingsInput{
		Columns:   &two,
		HoverZoom: boolPtr(false),
	}); err != nil {
		t.Fatalf("failed to prime settings: %v", err)
	}

	tree, err := f.pipeline.Render(id, "")
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if len(tree.Sections) != 1 {
		t.Fatalf("expected one section, got %d", len(tree.Sections))
	}

	display := tree.Sections[0].Display
	if display.Columns != 5 || display.LightboxEnabled || !display.HoverZoomEnabled || !display.FullWidth {
		t.Fatalf("override resolution wrong: %+v", display)
	}

	item := tree.Sections[0].Items[0]
	if item.Lightbox {
		t.Fatalf("lightbox off must reach the items")
	}
	if item.Transition != "" {
		t.Fatalf("no transition metadata without lightbox, got %q", item.Transition)
	}
}

func TestRenderAdoptsSingleGalleryTemplate(t *testing.T) {
	f, cleanup := setupPipeline(t)
	defer cleanup()

	id := f.seedGallery(t, service.GalleryInput{Name: "Masonry wall", Template: "masonry"}, nil)

	tree, err := f.pipeline.Render(id, "")
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if tree.Template != "masonry" {
		t.Fatalf("single-gallery render should adopt the stored template, got %q", tree.Template)
	}

	// An explicit request wins over the stored template.
	tree, err = f.pipeline.Render(id, "basic-grid")
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if tree.Template != "basic-grid" {
		t.Fatalf("requested template should win, got %q", tree.Template)
	}
}

func TestRenderLockedTemplateFallsBack(t *testing.T) {
	f, cleanup := setupPipeline(t)
	defer cleanup()

	f.seedGallery(t, service.GalleryInput{Name: "One"}, nil)

	tree, err := f.pipeline.Render(0, "mosaic-pro")
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if tree.Template != "basic-grid" {
		t.Fatalf("locked template must fall back, got %q", tree.Template)
	}
	for _, section := range tree.Sections {
		if section.Template != "basic-grid" {
			t.Fatalf("no section may carry the locked template, got %q", section.Template)
		}
	}
}

func TestRenderDropsDanglingImages(t *testing.T) {
	f, cleanup := setupPipeline(t)
	defer cleanup()

	img := f.seedAttachment(t, "real")
	id := f.seedGallery(t, service.GalleryInput{Name: "Mixed"}, []uint{img, 4242})

	tree, err := f.pipeline.Render(id, "")
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	items := tree.Sections[0].Items
	if len(items) != 1 || items[0].AttachmentID != img {
		t.Fatalf("dangling ids must be dropped silently, got %v", items)
	}
}

func TestRenderPermissionGate(t *testing.T) {
	f, cleanup := setupPipeline(t)
	defer cleanup()

	f.seedGallery(t, service.GalleryInput{Name: "Hidden"}, nil)
	f.pipeline.SetPermission(func() bool { return false })

	tree, err := f.pipeline.Render(0, "")
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if len(tree.Sections) != 0 {
		t.Fatalf("denied render must be empty, got %d sections", len(tree.Sections))
	}
}

func TestRenderEmptyWhenNoGalleriesMatch(t *testing.T) {
	f, cleanup := setupPipeline(t)
	defer cleanup()

	tree, err := f.pipeline.Render(77, "")
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if len(tree.Sections) != 0 {
		t.Fatalf("expected empty tree, got %v", tree.Sections)
	}
}

func TestRenderTransformsRunInOrder(t *testing.T) {
	f, cleanup := setupPipeline(t)
	defer cleanup()

	f.seedGallery(t, service.GalleryInput{Name: "One"}, nil)

	f.pipeline.AddTransform(func(tree *Tree) {
		tree.Sections[0].Name = tree.Sections[0].Name + "-first"
	})
	f.pipeline.AddTransform(func(tree *Tree) {
		tree.Sections[0].Name = tree.Sections[0].Name + "-second"
	})

	tree, err := f.pipeline.Render(0, "")
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if tree.Sections[0].Name != "One-first-second" {
		t.Fatalf("transforms out of order: %q", tree.Sections[0].Name)
	}
}

func TestRenderBulkResolvesFullWidthPerGallery(t *testing.T) {
	f, cleanup := setupPipeline(t)
	defer cleanup()

	f.seedGallery(t, service.GalleryInput{Name: "Wide", FullWidth: boolPtr(true)}, nil)
	f.seedGallery(t, service.GalleryInput{Name: "Narrow"}, nil)

	tree, err := f.pipeline.Render(0, "basic-grid")
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if len(tree.Sections) != 2 {
		t.Fatalf("expected two sections, got %d", len(tree.Sections))
	}
	if !tree.Sections[0].Display.FullWidth || tree.Sections[1].Display.FullWidth {
		t.Fatalf("full width must resolve per gallery even in bulk renders: %+v", tree.Sections)
	}
}

func TestRenderCSSHooks(t *testing.T) {
	f, cleanup := setupPipeline(t)
	defer cleanup()

	id := f.seedGallery(t, service.GalleryInput{
		Name:      "Styled",
		Columns:   intPtr(3),
		FullWidth: boolPtr(true),
	}, nil)

	tree, err := f.pipeline.Render(id, "")
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}

	classes := tree.Sections[0].CSSClasses
	want := map[string]bool{"fw-gallery": false, "fw-template-basic-grid": false, "fw-cols-3": false, "fw-full-width": false}
	for _, class := range classes {
		if _, ok := want[class]; ok {
			want[class] = true
		}
	}
	for class, seen := range want {
		if !seen {
			t.Fatalf("missing css hook %q in %v", class, classes)
		}
	}
}
