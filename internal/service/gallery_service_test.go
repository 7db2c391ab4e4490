package service

import "testing"

func intPtr(v int) *int    { return &v }
func boolPtr(v bool) *bool { return &v }

func seedGallery(t *testing.T, svc *GalleryService, name string) uint {
	t.Helper()
	gallery, err := svc.Create(GalleryInput{Name: name})
	if err != nil {
		t.Fatalf("failed to seed gallery %q: %v", name, err)
	}
	return gallery.ID
}

func TestGalleryCreateValidatesName(t *testing.T) {
	gdb, cleanup := setupTestDB(t)
	defer cleanup()

	svc := NewGalleryService(gdb)
	if _, err := svc.Create(GalleryInput{Name: "   "}); err != ErrGalleryNameMissing {
		t.Fatalf("expected ErrGalleryNameMissing, got %v", err)
	}

	gallery, err := svc.Create(GalleryInput{Name: " Summer "})
	if err != nil {
		t.Fatalf("failed to create gallery: %v", err)
	}
	if gallery.Name != "Summer" {
		t.Fatalf("expected trimmed name, got %q", gallery.Name)
	}
	if gallery.Template != DefaultTemplate {
		t.Fatalf("expected default template, got %q", gallery.Template)
	}
}

func TestGalleryCreateStoresOverrides(t *testing.T) {
	gdb, cleanup := setupTestDB(t)
	defer cleanup()

	svc := NewGalleryService(gdb)
	gallery, err := svc.Create(GalleryInput{
		Name:     "Overridden",
		Columns:  intPtr(9),
		Lightbox: boolPtr(false),
	})
	if err != nil {
		t.Fatalf("failed to create gallery: %v", err)
	}

	if gallery.ColumnsOverride == nil || *gallery.ColumnsOverride != 6 {
		t.Fatalf("expected clamped columns override, got %v", gallery.ColumnsOverride)
	}
	if gallery.LightboxOverride == nil || *gallery.LightboxOverride {
		t.Fatalf("expected explicit lightbox off, got %v", gallery.LightboxOverride)
	}
	// Inherit stays nil, distinct from explicit off.
	if gallery.HoverZoomOverride != nil || gallery.FullWidthOverride != nil || gallery.TransitionOverride != nil {
		t.Fatalf("unset overrides must stay nil: %+v", gallery)
	}
}

func TestGalleryRenamePreservesOverrides(t *testing.T) {
	gdb, cleanup := setupTestDB(t)
	defer cleanup()

	svc := NewGalleryService(gdb)
	created, err := svc.Create(GalleryInput{Name: "Original", Columns: intPtr(5)})
	if err != nil {
		t.Fatalf("failed to create gallery: %v", err)
	}

	renamed, err := svc.Update(created.ID, GalleryInput{Name: "Renamed"}, false)
	if err != nil {
		t.Fatalf("failed to rename gallery: %v", err)
	}
	if renamed.Name != "Renamed" {
		t.Fatalf("expected rename to apply, got %q", renamed.Name)
	}
	if renamed.ColumnsOverride == nil || *renamed.ColumnsOverride != 5 {
		t.Fatalf("plain rename must not clear overrides, got %v", renamed.ColumnsOverride)
	}

	// The display-settings edit path does reset unset overrides.
	edited, err := svc.Update(created.ID, GalleryInput{Name: "Renamed"}, true)
	if err != nil {
		t.Fatalf("failed to edit gallery: %v", err)
	}
	if edited.ColumnsOverride != nil {
		t.Fatalf("override edit should clear columns back to inherit, got %v", edited.ColumnsOverride)
	}
}

func TestGalleryUpdateUnknownID(t *testing.T) {
	gdb, cleanup := setupTestDB(t)
	defer cleanup()

	svc := NewGalleryService(gdb)
	if _, err := svc.Update(12345, GalleryInput{Name: "X"}, false); err != ErrGalleryNotFound {
		t.Fatalf("expected ErrGalleryNotFound, got %v", err)
	}
	if err := svc.Delete(12345); err != ErrGalleryNotFound {
		t.Fatalf("expected ErrGalleryNotFound on delete, got %v", err)
	}
}

func TestGallerySetImagesReplacesInOrder(t *testing.T) {
	gdb, cleanup := setupTestDB(t)
	defer cleanup()

	svc := NewGalleryService(gdb)
	id := seedGallery(t, svc, "Ordered")

	if err := svc.SetImages(id, []uint{3, 1, 3, 0, 2}); err != nil {
		t.Fatalf("failed to set images: %v", err)
	}

	ids, err := svc.ImageIDs(id)
	if err != nil {
		t.Fatalf("failed to read image ids: %v", err)
	}
	if len(ids) != 3 || ids[0] != 3 || ids[1] != 1 || ids[2] != 2 {
		t.Fatalf("expected [3 1 2], got %v", ids)
	}

	if err := svc.SetImages(id, []uint{2}); err != nil {
		t.Fatalf("failed to replace images: %v", err)
	}
	ids, _ = svc.ImageIDs(id)
	if len(ids) != 1 || ids[0] != 2 {
		t.Fatalf("expected full replace, got %v", ids)
	}
}

func TestGalleryAddImagesUnions(t *testing.T) {
	gdb, cleanup := setupTestDB(t)
	defer cleanup()

	svc := NewGalleryService(gdb)
	id := seedGallery(t, svc, "Union")

	if err := svc.SetImages(id, []uint{10, 20}); err != nil {
		t.Fatalf("failed to set images: %v", err)
	}
	if err := svc.AddImages(id, []uint{20, 30, 10, 40}); err != nil {
		t.Fatalf("failed to add images: %v", err)
	}

	ids, _ := svc.ImageIDs(id)
	want := []uint{10, 20, 30, 40}
	if len(ids) != len(want) {
		t.Fatalf("expected %v, got %v", want, ids)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, ids)
		}
	}
}

func TestSetImageGalleriesReplacesMembership(t *testing.T) {
	gdb, cleanup := setupTestDB(t)
	defer cleanup()

	svc := NewGalleryService(gdb)
	a := seedGallery(t, svc, "A")
	b := seedGallery(t, svc, "B")
	c := seedGallery(t, svc, "C")

	if err := svc.SetImages(a, []uint{7, 8}); err != nil {
		t.Fatalf("failed to seed images: %v", err)
	}
	if err := svc.SetImages(b, []uint{7}); err != nil {
		t.Fatalf("failed to seed images: %v", err)
	}

	got, err := svc.SetImageGalleries(7, []uint{b, c})
	if err != nil {
		t.Fatalf("failed to set image galleries: %v", err)
	}
	if len(got) != 2 || got[0] != b || got[1] != c {
		t.Fatalf("expected [%d %d], got %v", b, c, got)
	}

	// Gallery A kept its other image and its order.
	ids, _ := svc.ImageIDs(a)
	if len(ids) != 1 || ids[0] != 8 {
		t.Fatalf("expected image 7 removed from A, got %v", ids)
	}

	// Gallery B was untouched, C got the image appended.
	ids, _ = svc.ImageIDs(c)
	if len(ids) != 1 || ids[0] != 7 {
		t.Fatalf("expected image 7 in C, got %v", ids)
	}
}

func TestSetImageGalleriesEmptyRemovesEverywhere(t *testing.T) {
	gdb, cleanup := setupTestDB(t)
	defer cleanup()

	svc := NewGalleryService(gdb)
	a := seedGallery(t, svc, "A")
	b := seedGallery(t, svc, "B")

	if err := svc.SetImages(a, []uint{5}); err != nil {
		t.Fatalf("failed to seed images: %v", err)
	}
	if err := svc.SetImages(b, []uint{5, 6}); err != nil {
		t.Fatalf("failed to seed images: %v", err)
	}

	got, err := svc.SetImageGalleries(5, nil)
	if err != nil {
		t.Fatalf("failed to clear membership: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty membership, got %v", got)
	}

	ids, err := svc.GalleriesForImage(5)
	if err != nil {
		t.Fatalf("failed to read membership: %v", err)
	}
	if len(ids) != 0 {
		t.Fatalf("expected no galleries, got %v", ids)
	}
}

func TestSetImageGalleriesSkipsUnknownGalleries(t *testing.T) {
	gdb, cleanup := setupTestDB(t)
	defer cleanup()

	svc := NewGalleryService(gdb)
	a := seedGallery(t, svc, "A")

	got, err := svc.SetImageGalleries(9, []uint{a, 999})
	if err != nil {
		t.Fatalf("failed to set membership: %v", err)
	}
	if len(got) != 1 || got[0] != a {
		t.Fatalf("unknown gallery ids must be skipped, got %v", got)
	}
}

func TestGalleryDeleteRemovesMembership(t *testing.T) {
	gdb, cleanup := setupTestDB(t)
	defer cleanup()

	svc := NewGalleryService(gdb)
	id := seedGallery(t, svc, "Doomed")
	keep := seedGallery(t, svc, "Kept")

	if err := svc.SetImages(id, []uint{1, 2}); err != nil {
		t.Fatalf("failed to seed images: %v", err)
	}
	if err := svc.SetImages(keep, []uint{2}); err != nil {
		t.Fatalf("failed to seed images: %v", err)
	}

	if err := svc.Delete(id); err != nil {
		t.Fatalf("failed to delete gallery: %v", err)
	}
	if _, err := svc.Get(id); err != ErrGalleryNotFound {
		t.Fatalf("expected gallery gone, got %v", err)
	}

	ids, err := svc.GalleriesForImage(2)
	if err != nil {
		t.Fatalf("failed to read membership: %v", err)
	}
	if len(ids) != 1 || ids[0] != keep {
		t.Fatalf("expected only the kept gallery, got %v", ids)
	}
}

func TestGalleryIDsNotReused(t *testing.T) {
	gdb, cleanup := setupTestDB(t)
	defer cleanup()

	svc := NewGalleryService(gdb)
	first := seedGallery(t, svc, "First")
	if err := svc.Delete(first); err != nil {
		t.Fatalf("failed to delete gallery: %v", err)
	}

	second := seedGallery(t, svc, "Second")
	if second <= first {
		t.Fatalf("ids must stay monotonic, got %d after %d", second, first)
	}
}
