package service

import "testing"

func TestAttachmentCreateAndUpdateTitle(t *testing.T) {
	gdb, cleanup := setupTestDB(t)
	defer cleanup()

	svc := NewAttachmentService(gdb)
	if _, err := svc.Create(AttachmentInput{}); err != ErrAttachmentFileMissing {
		t.Fatalf("expected ErrAttachmentFileMissing, got %v", err)
	}

	att, err := svc.Create(AttachmentInput{
		FileName: "20250601-abc.jpg",
		MimeType: "image/jpeg",
		URL:      "/static/uploads/20250601-abc.jpg",
		Width:    1200,
		Height:   800,
	})
	if err != nil {
		t.Fatalf("failed to create attachment: %v", err)
	}
	if att.Title != "20250601-abc.jpg" {
		t.Fatalf("missing title should fall back to the filename, got %q", att.Title)
	}

	updated, err := svc.UpdateTitle(att.ID, "  Harbor at dusk  ")
	if err != nil {
		t.Fatalf("failed to update title: %v", err)
	}
	if updated.Title != "Harbor at dusk" {
		t.Fatalf("expected trimmed title, got %q", updated.Title)
	}

	if _, err := svc.UpdateTitle(999, "X"); err != ErrAttachmentNotFound {
		t.Fatalf("expected ErrAttachmentNotFound, got %v", err)
	}
}
