package bus

import (
	"context"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/framevault-backend/internal/platform/logger"
	"github.com/yungbote/framevault-backend/internal/realtime"
)

const DefaultChannel = "framevault:sse"

// Bus fans SSE messages out across server instances. Every instance runs a
// forwarder that hands received messages to its local hub.
type Bus interface {
	Publish(ctx context.Context, msg realtime.SSEMessage) error
	StartForwarder(ctx context.Context, onMsg func(m realtime.SSEMessage)) error
	Close() error
}

// New picks the redis bus when a client is available and the in-process bus
// otherwise. A single instance without redis still delivers every event.
func New(log *logger.Logger, rdb *goredis.Client, channel string) (Bus, error) {
	if rdb == nil {
		if log != nil {
			log.Info("realtime bus: in-process (redis not configured)")
		}
		return NewLocalBus(), nil
	}
	return NewRedisBus(log, rdb, channel)
}

// deliverable drops messages no hub could route.
func deliverable(msg realtime.SSEMessage) bool {
	return msg.Channel != "" && msg.Event != ""
}
