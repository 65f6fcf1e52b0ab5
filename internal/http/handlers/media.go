package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/framevault-backend/internal/http/response"
	"github.com/yungbote/framevault-backend/internal/platform/logger"
	"github.com/yungbote/framevault-backend/internal/services"
)

type MediaHandler struct {
	log   *logger.Logger
	media services.MediaService
}

func NewMediaHandler(log *logger.Logger, media services.MediaService) *MediaHandler {
	return &MediaHandler{log: log.With("handler", "MediaHandler"), media: media}
}

// GET /api/media/*path redirects to a short-lived signed URL.
func (h *MediaHandler) Redirect(c *gin.Context) {
	url, err := h.media.SignedURL(c.Request.Context(), c.Param("path"))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	c.Header("Cache-Control", "private, max-age=60")
	c.Redirect(http.StatusTemporaryRedirect, url)
}
