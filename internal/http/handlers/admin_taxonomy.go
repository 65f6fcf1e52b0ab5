package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	types "github.com/yungbote/framevault-backend/internal/domain"
	"github.com/yungbote/framevault-backend/internal/http/response"
	"github.com/yungbote/framevault-backend/internal/platform/apierr"
	"github.com/yungbote/framevault-backend/internal/platform/logger"
	"github.com/yungbote/framevault-backend/internal/services"
	"github.com/yungbote/framevault-backend/internal/taxonomy"
)

type TaxonomyHandler struct {
	log      *logger.Logger
	taxonomy services.TaxonomyService
	indexer  services.TagIndexer
}

func NewTaxonomyHandler(log *logger.Logger, taxonomy services.TaxonomyService, indexer services.TagIndexer) *TaxonomyHandler {
	return &TaxonomyHandler{log: log.With("handler", "TaxonomyHandler"), taxonomy: taxonomy, indexer: indexer}
}

func boardKey(c *gin.Context) (services.BoardKey, bool) {
	key, err := services.ParseBoardKey(c.Param("kind"), c.Param("scope"))
	if err != nil {
		response.RespondAPIError(c, err)
		return services.BoardKey{}, false
	}
	return key, true
}

// GET /api/admin/taxonomy/:kind/:scope
func (h *TaxonomyHandler) Board(c *gin.Context) {
	key, ok := boardKey(c)
	if !ok {
		return
	}
	view, err := h.taxonomy.Board(c.Request.Context(), key)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, view)
}

// POST /api/admin/taxonomy/:kind/:scope/move
func (h *TaxonomyHandler) Move(c *gin.Context) {
	key, ok := boardKey(c)
	if !ok {
		return
	}
	var req struct {
		Label string `json:"label" binding:"required,notblank"`
		To    string `json:"to" binding:"required,notblank"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", bindMessage(err))
		return
	}
	res, err := h.taxonomy.Move(c.Request.Context(), key, req.Label, req.To)
	if err != nil && res.Outcome == taxonomy.MoveReverted {
		// The store rejected the write; the board has been re-derived and the
		// client needs that partition to redraw.
		_ = c.Error(err)
		c.AbortWithStatusJSON(http.StatusBadGateway, revertedMove{
			MoveResult: res,
			Error:      response.NewAPIError(c, "move_reverted", "the move could not be saved and was reverted"),
		})
		return
	}
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, res)
}

type revertedMove struct {
	taxonomy.MoveResult
	Error response.APIError `json:"error"`
}

// POST /api/admin/taxonomy/:kind/:scope/select
func (h *TaxonomyHandler) Select(c *gin.Context) {
	key, ok := boardKey(c)
	if !ok {
		return
	}
	var req struct {
		Label string `json:"label" binding:"required,notblank"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", bindMessage(err))
		return
	}
	sel, err := h.taxonomy.Select(c.Request.Context(), key, req.Label)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"selection": sel})
}

// DELETE /api/admin/taxonomy/:kind/:scope/:label
func (h *TaxonomyHandler) Delete(c *gin.Context) {
	key, ok := boardKey(c)
	if !ok {
		return
	}
	if err := h.taxonomy.Delete(c.Request.Context(), key, c.Param("label")); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondNoContent(c)
}

// POST /api/admin/tags/reindex?kind=&dryRun=
func (h *TaxonomyHandler) Reindex(c *gin.Context) {
	kind, ok := types.ParseKind(c.Query("kind"))
	if !ok {
		response.RespondAPIError(c, apierr.BadRequest("invalid_kind", "kind must be videos or shorts"))
		return
	}
	dryRun, _ := strconv.ParseBool(c.DefaultQuery("dryRun", "false"))
	res, err := h.indexer.Reindex(c.Request.Context(), kind, dryRun)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, res)
}
