package app

import (
	"context"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/framevault-backend/internal/platform/docstore"
	"github.com/yungbote/framevault-backend/internal/platform/gcp"
	"github.com/yungbote/framevault-backend/internal/platform/logger"
	"github.com/yungbote/framevault-backend/internal/platform/redisdb"
	"github.com/yungbote/framevault-backend/internal/realtime/bus"
)

type Clients struct {
	Store     docstore.Store
	Redis     *goredis.Client
	SSEBus    bus.Bus
	GcpBucket gcp.BucketService
	GcpVision gcp.Vision
	GcpVideo  gcp.Video
}

func wireClients(ctx context.Context, log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")
	var c Clients

	// Document store
	store, err := OpenStore(ctx, log, cfg.DocstoreMode)
	if err != nil {
		return Clients{}, err
	}
	c.Store = store

	// Redis (optional)
	rdb, err := redisdb.NewClientFromEnv(ctx, log)
	switch {
	case errors.Is(err, redisdb.ErrNotConfigured):
	case err != nil:
		c.Close()
		return Clients{}, fmt.Errorf("init redis: %w", err)
	default:
		c.Redis = rdb
	}
	sseBus, err := bus.New(log, c.Redis, cfg.RedisChannel)
	if err != nil {
		c.Close()
		return Clients{}, fmt.Errorf("init SSE bus: %w", err)
	}
	c.SSEBus = sseBus

	// Gcs
	if cfg.BucketName != "" {
		bucket, err := gcp.NewBucketService(log)
		if err != nil {
			c.Close()
			return Clients{}, fmt.Errorf("init bucket client: %w", err)
		}
		c.GcpBucket = bucket
	} else {
		log.Warn("GCS_BUCKET_NAME not set; uploads, media and artwork are disabled")
	}

	// Gcp labeling
	if cfg.TagSuggestionsEnabled {
		labelCfg := gcp.LabelConfigFromEnv()
		vision, err := gcp.NewVision(log, labelCfg)
		if err != nil {
			c.Close()
			return Clients{}, fmt.Errorf("init vision client: %w", err)
		}
		c.GcpVision = vision
		video, err := gcp.NewVideo(log, labelCfg)
		if err != nil {
			c.Close()
			return Clients{}, fmt.Errorf("init video client: %w", err)
		}
		c.GcpVideo = video
	}

	return c, nil
}

// OpenStore returns the document store for mode. The CLIs share it with the server.
func OpenStore(ctx context.Context, log *logger.Logger, mode string) (docstore.Store, error) {
	if mode == DocstoreMemory {
		log.Warn("using in-memory document store; data is not persisted")
		return docstore.NewMemory(), nil
	}
	fs, err := gcp.NewFirestoreClient(ctx, log)
	if err != nil {
		return nil, fmt.Errorf("init firestore: %w", err)
	}
	return docstore.NewFirestore(log, fs), nil
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.SSEBus != nil {
		_ = c.SSEBus.Close()
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
	if c.GcpVideo != nil {
		_ = c.GcpVideo.Close()
	}
	if c.GcpVision != nil {
		_ = c.GcpVision.Close()
	}
	if c.GcpBucket != nil {
		_ = c.GcpBucket.Close()
	}
	if c.Store != nil {
		_ = c.Store.Close()
	}
}
