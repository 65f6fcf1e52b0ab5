package services

import (
	"context"
	"testing"
	"time"

	"github.com/yungbote/framevault-backend/internal/data/repos/testutil"
	"github.com/yungbote/framevault-backend/internal/realtime"
)

type failingBus struct{ published int }

func (b *failingBus) Publish(context.Context, realtime.SSEMessage) error {
	b.published++
	return errBoom
}

func (b *failingBus) StartForwarder(context.Context, func(realtime.SSEMessage)) error { return nil }

func (b *failingBus) Close() error { return nil }

func TestSSEEmitterFallsBackToHub(t *testing.T) {
	log := testutil.Logger(t)
	hub := realtime.NewSSEHub(log)
	client := hub.NewSSEClient("admin-1")
	hub.AddChannel(client, realtime.AdminChannel)
	defer hub.CloseClient(client)

	b := &failingBus{}
	NewCatalogNotifier(NewSSEEmitter(log, hub, b)).CatalogChanged(adminCtx(), "video", "v01", "update")

	if b.published != 1 {
		t.Fatalf("bus publishes: want=1 got=%d", b.published)
	}
	select {
	case msg := <-client.Outbound:
		if msg.Event != realtime.SSEEventCatalogChanged {
			t.Fatalf("event: want=%s got=%s", realtime.SSEEventCatalogChanged, msg.Event)
		}
	case <-time.After(time.Second):
		t.Fatalf("message not delivered locally after bus failure")
	}
}
