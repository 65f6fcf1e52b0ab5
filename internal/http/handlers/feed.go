package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	types "github.com/yungbote/framevault-backend/internal/domain"
	"github.com/yungbote/framevault-backend/internal/http/response"
	"github.com/yungbote/framevault-backend/internal/platform/logger"
	"github.com/yungbote/framevault-backend/internal/services"
)

type FeedHandler struct {
	log  *logger.Logger
	feed services.FeedService
}

func NewFeedHandler(log *logger.Logger, feed services.FeedService) *FeedHandler {
	return &FeedHandler{log: log.With("handler", "FeedHandler"), feed: feed}
}

// GET /api/feed?after=&limit=
func (h *FeedHandler) ListVideos(c *gin.Context) { h.page(c, types.KindVideos) }

// GET /api/shorts?after=&limit=
func (h *FeedHandler) ListShorts(c *gin.Context) { h.page(c, types.KindShorts) }

var errInvalidLimit = errors.New("limit must be a non-negative integer")

func (h *FeedHandler) page(c *gin.Context, kind types.Kind) {
	limit := 0
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			response.RespondError(c, http.StatusBadRequest, "invalid_limit", errInvalidLimit)
			return
		}
		limit = n
	}
	page, err := h.feed.Page(c.Request.Context(), kind, strings.TrimSpace(c.Query("after")), limit)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, page)
}

// GET /api/videos/:id
func (h *FeedHandler) GetVideo(c *gin.Context) {
	v, err := h.feed.GetVideo(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"video": v})
}

// GET /api/shorts/:id
func (h *FeedHandler) GetShort(c *gin.Context) {
	d, err := h.feed.GetShort(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, d)
}
