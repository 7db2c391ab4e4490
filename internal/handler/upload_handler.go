package handler

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/framewall/internal/service"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	_ "golang.org/x/image/webp"
)

// UploadImage stores an uploaded file and tracks it as an attachment.
func (a *API) UploadImage(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		respondError(c, http.StatusBadRequest, "no image in request")
		return
	}

	contentType := file.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		respondError(c, http.StatusBadRequest, "only image uploads are allowed")
		return
	}

	if err := os.MkdirAll(a.uploadDir, 0o755); err != nil {
		respondError(c, http.StatusInternalServerError, "failed to create upload directory")
		return
	}

	ext := filepath.Ext(file.Filename)
	newFilename := fmt.Sprintf("%s-%s%s", time.Now().Format("20060102"), uuid.New().String(), ext)
	filePath := filepath.Join(a.uploadDir, newFilename)

	if err := c.SaveUploadedFile(file, filePath); err != nil {
		respondError(c, http.StatusInternalServerError, "failed to save file")
		return
	}

	width, height := imageBounds(filePath)

	var uploadedBy uint
	if id, ok := sessions.Default(c).Get(sessionKeyUserID).(uint); ok {
		uploadedBy = id
	}

	attachment, err := a.attachments.Create(service.AttachmentInput{
		Title:      strings.TrimSuffix(file.Filename, ext),
		FileName:   newFilename,
		MimeType:   contentType,
		URL:        a.uploadURL + "/" + newFilename,
		Width:      width,
		Height:     height,
		FileSize:   file.Size,
		UploadedBy: uploadedBy,
	})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to track attachment")
		return
	}

	c.JSON(http.StatusOK, gin.H{"attachment": attachmentView(attachment)})
}

// ListAttachments returns the media library, newest first.
func (a *API) ListAttachments(c *gin.Context) {
	items, err := a.attachments.List()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load attachments")
		return
	}

	views := make([]gin.H, 0, len(items))
	for i := range items {
		views = append(views, attachmentView(&items[i]))
	}
	c.JSON(http.StatusOK, gin.H{"attachments": views})
}

// imageBounds sniffs pixel dimensions; zero values mean the format was not
// decodable, which is not an upload error.
func imageBounds(path string) (int, int) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0
	}
	return cfg.Width, cfg.Height
}
