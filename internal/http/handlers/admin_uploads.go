package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/framevault-backend/internal/http/response"
	"github.com/yungbote/framevault-backend/internal/platform/logger"
	"github.com/yungbote/framevault-backend/internal/services"
)

type UploadHandler struct {
	log      *logger.Logger
	uploads  services.UploadService
	maxBytes int64
}

// NewUploadHandler limits request bodies to maxBytes; zero means 512MB.
func NewUploadHandler(log *logger.Logger, uploads services.UploadService, maxBytes int64) *UploadHandler {
	if maxBytes <= 0 {
		maxBytes = 512 << 20
	}
	return &UploadHandler{log: log.With("handler", "UploadHandler"), uploads: uploads, maxBytes: maxBytes}
}

// POST /api/admin/uploads (multipart "file", optional "folder")
func (h *UploadHandler) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes)
	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.RespondError(c, http.StatusRequestEntityTooLarge, "file_too_large", err)
			return
		}
		response.RespondError(c, http.StatusBadRequest, "missing_file", err)
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_file", err)
		return
	}
	defer f.Close()

	up, err := h.uploads.Upload(c.Request.Context(), services.UploadInput{
		File:        f,
		FileName:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Folder:      c.PostForm("folder"),
	})
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"url": up.URL, "upload": up})
}

// GET /api/admin/uploads
func (h *UploadHandler) List(c *gin.Context) {
	out, err := h.uploads.List(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"uploads": out})
}
