package services

import (
	"context"

	"github.com/yungbote/framevault-backend/internal/platform/ctxutil"
	"github.com/yungbote/framevault-backend/internal/platform/logger"
	"github.com/yungbote/framevault-backend/internal/realtime"
	"github.com/yungbote/framevault-backend/internal/realtime/bus"
)

type SSEEmitter interface {
	Emit(ctx context.Context, msg realtime.SSEMessage)
}

type sseEmitter struct {
	log *logger.Logger
	hub *realtime.SSEHub
	bus bus.Bus
}

// NewSSEEmitter publishes through the bus so every instance's hub sees the
// message. When the bus is absent or a publish fails, the message still
// reaches clients connected to this instance.
func NewSSEEmitter(log *logger.Logger, hub *realtime.SSEHub, b bus.Bus) SSEEmitter {
	return &sseEmitter{log: log.With("service", "SSEEmitter"), hub: hub, bus: b}
}

func (e *sseEmitter) Emit(ctx context.Context, msg realtime.SSEMessage) {
	if e.bus != nil {
		err := e.bus.Publish(ctx, msg)
		if err == nil {
			return
		}
		fields := append([]any{"event", msg.Event, "channel", msg.Channel, "error", err}, ctxutil.LogFields(ctx)...)
		e.log.Warn("sse publish failed; delivering locally", fields...)
	}
	if e.hub != nil {
		e.hub.Broadcast(msg)
	}
}
