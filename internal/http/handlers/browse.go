package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/framevault-backend/internal/http/response"
	"github.com/yungbote/framevault-backend/internal/platform/logger"
	"github.com/yungbote/framevault-backend/internal/services"
)

type BrowseHandler struct {
	log    *logger.Logger
	browse services.BrowseService
}

func NewBrowseHandler(log *logger.Logger, browse services.BrowseService) *BrowseHandler {
	return &BrowseHandler{log: log.With("handler", "BrowseHandler"), browse: browse}
}

// GET /api/browse
func (h *BrowseHandler) Browse(c *gin.Context) {
	rows, err := h.browse.Browse(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"rows": rows})
}

// GET /api/categories/:id
func (h *BrowseHandler) GetCategory(c *gin.Context) {
	d, err := h.browse.Category(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, d)
}
