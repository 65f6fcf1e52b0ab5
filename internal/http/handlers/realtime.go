package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/framevault-backend/internal/http/response"
	"github.com/yungbote/framevault-backend/internal/observability"
	"github.com/yungbote/framevault-backend/internal/platform/ctxutil"
	"github.com/yungbote/framevault-backend/internal/platform/logger"
	"github.com/yungbote/framevault-backend/internal/realtime"
)

type RealtimeHandler struct {
	log     *logger.Logger
	hub     *realtime.SSEHub
	metrics *observability.Metrics
}

func NewRealtimeHandler(log *logger.Logger, hub *realtime.SSEHub, metrics *observability.Metrics) *RealtimeHandler {
	return &RealtimeHandler{log: log.With("handler", "RealtimeHandler"), hub: hub, metrics: metrics}
}

// GET /api/realtime/stream
//
// Upload progress arrives on the caller's user channel. Admins also receive
// catalogue and taxonomy changes from the admin channel.
func (h *RealtimeHandler) SSEStream(c *gin.Context) {
	id := ctxutil.GetIdentity(c.Request.Context())
	if id == nil || id.UID == "" {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", errors.New("sign in to open a realtime stream"))
		return
	}
	role := "user"
	client := h.hub.NewSSEClient(id.UID)
	h.hub.AddChannel(client, realtime.UserChannel(id.UID))
	if id.IsAdmin() {
		role = "admin"
		h.hub.AddChannel(client, realtime.AdminChannel)
	}
	done := h.metrics.SSEOpened(role)
	defer func() {
		h.hub.CloseClient(client)
		done()
		h.log.Debug("realtime stream closed", "user_id", id.UID, "client_id", client.ID.String())
	}()

	// Reverse proxies must not buffer the event stream.
	c.Header("X-Accel-Buffering", "no")
	h.log.Debug("realtime stream open", "user_id", id.UID, "client_id", client.ID.String(), "role", role)
	h.hub.ServeHTTP(c.Writer, c.Request, client)
}
