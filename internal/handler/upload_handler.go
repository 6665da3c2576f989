package handler

import (
	"net/http"
	"path"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ABIRENIS/Jero-CRM/internal/config"
	"github.com/ABIRENIS/Jero-CRM/internal/domain"
	"github.com/ABIRENIS/Jero-CRM/pkg/log"
	"github.com/ABIRENIS/Jero-CRM/pkg/response"
	"github.com/ABIRENIS/Jero-CRM/pkg/storage"
)

// UploadHandler stores chat attachments and serves them back as static
// files. Files are uploaded before the message referencing them is sent.
type UploadHandler struct {
	store *storage.LocalStorage
	cfg   config.UploadConfig
}

// NewUploadHandler creates a new upload handler.
func NewUploadHandler(store *storage.LocalStorage, cfg config.UploadConfig) *UploadHandler {
	return &UploadHandler{
		store: store,
		cfg:   cfg,
	}
}

// RegisterRoutes registers the upload endpoint and the static file mount.
func (h *UploadHandler) RegisterRoutes(r *gin.Engine) {
	r.POST("/api/upload", h.Upload)
	r.Static(h.cfg.PublicPath, h.store.GetBasePath())
}

// Upload stores one multipart file under a fresh key and returns the
// metadata the client embeds into a chat message as file_info.
func (h *UploadHandler) Upload(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "No file uploaded")
		return
	}

	if h.cfg.MaxSizeMB > 0 && fileHeader.Size > h.cfg.MaxSizeMB<<20 {
		response.BadRequest(c, "file too large")
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		l.Error().Err(err).Msg("failed to open uploaded file")
		response.InternalError(c, "upload failed")
		return
	}
	defer src.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	key := uuid.New().String() + filepath.Ext(fileHeader.Filename)

	if err := h.store.Write(ctx, key, src, fileHeader.Size, contentType); err != nil {
		l.Error().Err(err).Str("key", key).Msg("failed to store uploaded file")
		response.InternalError(c, "upload failed")
		return
	}

	c.JSON(http.StatusOK, domain.UploadResult{
		URL:  path.Join(h.cfg.PublicPath, key),
		Name: fileHeader.Filename,
		Type: contentType,
	})
}
