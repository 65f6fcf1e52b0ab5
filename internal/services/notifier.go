package services

import (
	"context"

	types "github.com/yungbote/framevault-backend/internal/domain"
	"github.com/yungbote/framevault-backend/internal/realtime"
)

// CatalogNotifier publishes the realtime events admin screens listen for.
type CatalogNotifier interface {
	UploadStarted(ctx context.Context, u *types.Upload)
	UploadFinished(ctx context.Context, u *types.Upload)
	TaxonomyChanged(ctx context.Context, board string, payload any)
	CatalogChanged(ctx context.Context, entity, id, action string)
}

type catalogNotifier struct {
	emit SSEEmitter
}

func NewCatalogNotifier(emit SSEEmitter) CatalogNotifier {
	return &catalogNotifier{emit: emit}
}

func (n *catalogNotifier) UploadStarted(ctx context.Context, u *types.Upload) {
	if n == nil || n.emit == nil || u == nil || u.UserID == "" {
		return
	}
	n.emit.Emit(ctx, realtime.SSEMessage{
		Channel: realtime.UserChannel(u.UserID),
		Event:   realtime.SSEEventUploadStarted,
		Data:    map[string]any{"upload": u},
	})
}

func (n *catalogNotifier) UploadFinished(ctx context.Context, u *types.Upload) {
	if n == nil || n.emit == nil || u == nil || u.UserID == "" {
		return
	}
	n.emit.Emit(ctx, realtime.SSEMessage{
		Channel: realtime.UserChannel(u.UserID),
		Event:   realtime.SSEEventUploadFinished,
		Data: map[string]any{
			"upload_id": u.ID,
			"status":    u.Status,
			"url":       u.URL,
			"upload":    u,
		},
	})
}

func (n *catalogNotifier) TaxonomyChanged(ctx context.Context, board string, payload any) {
	if n == nil || n.emit == nil {
		return
	}
	n.emit.Emit(ctx, realtime.SSEMessage{
		Channel: realtime.AdminChannel,
		Event:   realtime.SSEEventTaxonomyChanged,
		Data:    map[string]any{"board": board, "result": payload},
	})
}

func (n *catalogNotifier) CatalogChanged(ctx context.Context, entity, id, action string) {
	if n == nil || n.emit == nil {
		return
	}
	n.emit.Emit(ctx, realtime.SSEMessage{
		Channel: realtime.AdminChannel,
		Event:   realtime.SSEEventCatalogChanged,
		Data:    map[string]any{"entity": entity, "id": id, "action": action},
	})
}
