package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	types "github.com/yungbote/framevault-backend/internal/domain"
	"github.com/yungbote/framevault-backend/internal/http/response"
	"github.com/yungbote/framevault-backend/internal/platform/logger"
	"github.com/yungbote/framevault-backend/internal/services"
)

// maxFrameBytes bounds captured frames and suggestion images.
const maxFrameBytes = 16 << 20

type CatalogHandler struct {
	log     *logger.Logger
	catalog services.CatalogService
	suggest services.TagSuggestService
}

// NewCatalogHandler wires the admin video routes. suggest may be nil when tag
// suggestions are disabled.
func NewCatalogHandler(log *logger.Logger, catalog services.CatalogService, suggest services.TagSuggestService) *CatalogHandler {
	return &CatalogHandler{log: log.With("handler", "CatalogHandler"), catalog: catalog, suggest: suggest}
}

func (h *CatalogHandler) SuggestionsEnabled() bool { return h.suggest != nil }

// GET /api/admin/videos?kind=&q=&tag=&category=
func (h *CatalogHandler) List(c *gin.Context) {
	kind, ok := types.ParseKind(c.Query("kind"))
	if !ok {
		response.RespondError(c, http.StatusBadRequest, "invalid_kind", errors.New("kind must be videos or shorts"))
		return
	}
	videos, err := h.catalog.List(c.Request.Context(), services.VideoFilter{
		Kind:     kind,
		Query:    c.Query("q"),
		Tag:      c.Query("tag"),
		Category: c.Query("category"),
	})
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"videos": videos})
}

// POST /api/admin/videos
func (h *CatalogHandler) Create(c *gin.Context) {
	var in services.VideoInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", bindMessage(err))
		return
	}
	v, err := h.catalog.Create(c.Request.Context(), in)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"video": v})
}

// PUT /api/admin/videos/:id
func (h *CatalogHandler) Update(c *gin.Context) {
	var in services.VideoInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", bindMessage(err))
		return
	}
	v, err := h.catalog.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"video": v})
}

// DELETE /api/admin/videos/:id
func (h *CatalogHandler) Delete(c *gin.Context) {
	if err := h.catalog.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondNoContent(c)
}

// POST /api/admin/videos/:id/frame (multipart "frame")
func (h *CatalogHandler) CaptureFrame(c *gin.Context) {
	raw, err := readFormFile(c, "frame")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_frame", err)
		return
	}
	if len(raw) == 0 {
		response.RespondError(c, http.StatusBadRequest, "missing_frame", errors.New("frame is required"))
		return
	}
	v, err := h.catalog.CaptureFrame(c.Request.Context(), c.Param("id"), raw)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"video": v})
}

// POST /api/admin/videos/:id/suggest-tags (optional multipart "image")
func (h *CatalogHandler) SuggestTags(c *gin.Context) {
	if h.suggest == nil {
		response.RespondError(c, http.StatusNotFound, "suggestions_disabled", errors.New("tag suggestions are not enabled"))
		return
	}
	var image []byte
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		raw, err := readFormFile(c, "image")
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_image", err)
			return
		}
		image = raw
	}
	out, err := h.suggest.Suggest(c.Request.Context(), c.Param("id"), image)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, out)
}

// readFormFile returns nil without error when the field is absent.
func readFormFile(c *gin.Context, field string) ([]byte, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, err
	}
	if fh.Size > maxFrameBytes {
		return nil, errors.New(field + " is too large")
	}
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(io.LimitReader(f, maxFrameBytes))
}
