package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/framevault-backend/internal/http/response"
	"github.com/yungbote/framevault-backend/internal/platform/logger"
	"github.com/yungbote/framevault-backend/internal/services"
)

type CategoryHandler struct {
	log        *logger.Logger
	categories services.CategoryService
}

func NewCategoryHandler(log *logger.Logger, categories services.CategoryService) *CategoryHandler {
	return &CategoryHandler{log: log.With("handler", "CategoryHandler"), categories: categories}
}

// GET /api/admin/categories?q=&tag=
func (h *CategoryHandler) List(c *gin.Context) {
	out, err := h.categories.List(c.Request.Context(), services.CategoryFilter{Query: c.Query("q"), Tag: c.Query("tag")})
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"categories": out})
}

// POST /api/admin/categories
func (h *CategoryHandler) Create(c *gin.Context) {
	var in services.CategoryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", bindMessage(err))
		return
	}
	cat, err := h.categories.Create(c.Request.Context(), in)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"category": cat})
}

// POST /api/admin/categories/draft
func (h *CategoryHandler) CreateDraft(c *gin.Context) {
	var req struct {
		Title string `json:"title" binding:"required,notblank"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", bindMessage(err))
		return
	}
	cat, err := h.categories.CreateDraft(c.Request.Context(), req.Title)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"category": cat})
}

// PUT /api/admin/categories/:id
func (h *CategoryHandler) Update(c *gin.Context) {
	var in services.CategoryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", bindMessage(err))
		return
	}
	cat, err := h.categories.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"category": cat})
}

// DELETE /api/admin/categories/:id
func (h *CategoryHandler) Delete(c *gin.Context) {
	if err := h.categories.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondNoContent(c)
}

// POST /api/admin/categories/:id/publish
func (h *CategoryHandler) Publish(c *gin.Context) {
	if err := h.categories.Publish(c.Request.Context(), c.Param("id")); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

// POST /api/admin/categories/publish-all
func (h *CategoryHandler) PublishAll(c *gin.Context) {
	n, err := h.categories.PublishAll(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"published": n})
}

// PUT /api/admin/categories/order
func (h *CategoryHandler) Reorder(c *gin.Context) {
	var req struct {
		IDs []string `json:"ids" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", bindMessage(err))
		return
	}
	if err := h.categories.Reorder(c.Request.Context(), req.IDs); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

// PUT /api/admin/categories/:id/tags
func (h *CategoryHandler) SetTags(c *gin.Context) {
	var req struct {
		Tags []string `json:"tags"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", bindMessage(err))
		return
	}
	if err := h.categories.SetTags(c.Request.Context(), c.Param("id"), req.Tags); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
