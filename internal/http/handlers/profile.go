package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	types "github.com/yungbote/framevault-backend/internal/domain"
	"github.com/yungbote/framevault-backend/internal/http/response"
	"github.com/yungbote/framevault-backend/internal/platform/apierr"
	"github.com/yungbote/framevault-backend/internal/platform/logger"
	"github.com/yungbote/framevault-backend/internal/services"
)

type ProfileHandler struct {
	log      *logger.Logger
	profiles services.ProfileService
}

func NewProfileHandler(log *logger.Logger, profiles services.ProfileService) *ProfileHandler {
	return &ProfileHandler{log: log.With("handler", "ProfileHandler"), profiles: profiles}
}

// POST /api/me/profile
func (h *ProfileHandler) Ensure(c *gin.Context) {
	p, err := h.profiles.Ensure(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"profile": p})
}

// GET /api/me
func (h *ProfileHandler) GetMe(c *gin.Context) {
	p, err := h.profiles.Get(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"profile": p})
}

// GET /api/me/list
func (h *ProfileHandler) MyList(c *gin.Context) {
	l, err := h.profiles.MyList(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, l)
}

// Affinity returns a handler that adds (on) or removes the path parameter
// param from list, e.g. PUT /api/me/liked-videos/:id.
func (h *ProfileHandler) Affinity(list types.AffinityList, param string, on bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		value := strings.TrimSpace(c.Param(param))
		if value == "" {
			response.RespondAPIError(c, apierr.BadRequest("missing_"+param, "%s is required", param))
			return
		}
		p, err := h.profiles.SetAffinity(c.Request.Context(), list, value, on)
		if err != nil {
			response.RespondAPIError(c, err)
			return
		}
		response.RespondOK(c, gin.H{"profile": p})
	}
}
