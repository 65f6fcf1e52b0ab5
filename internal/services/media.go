package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/yungbote/framevault-backend/internal/platform/apierr"
	"github.com/yungbote/framevault-backend/internal/platform/gcp"
	"github.com/yungbote/framevault-backend/internal/platform/logger"
)

const DefaultSignedURLTTL = 15 * time.Minute

type MediaService interface {
	// SignedURL returns a short-lived read URL for an existing object key.
	SignedURL(ctx context.Context, key string) (string, error)
}

type mediaService struct {
	log           *logger.Logger
	bucketService gcp.BucketService
	ttl           time.Duration
}

func NewMediaService(log *logger.Logger, bucketService gcp.BucketService, ttl time.Duration) MediaService {
	if ttl <= 0 {
		ttl = DefaultSignedURLTTL
	}
	return &mediaService{log: log.With("service", "MediaService"), bucketService: bucketService, ttl: ttl}
}

func (ms *mediaService) SignedURL(ctx context.Context, key string) (string, error) {
	key = strings.TrimPrefix(strings.TrimSpace(key), "/")
	if key == "" || strings.Contains(key, "..") {
		return "", apierr.BadRequest("invalid_key", "invalid object key")
	}
	ok, err := ms.bucketService.Exists(ctx, key)
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", key, err)
	}
	if !ok {
		return "", apierr.NotFound("object_not_found", "object %q not found", key)
	}
	url, err := ms.bucketService.SignedURL(ctx, key, ms.ttl)
	if err != nil {
		ms.log.Warn("sign url failed", "key", key, "error", err)
		return "", fmt.Errorf("sign %s: %w", key, err)
	}
	return url, nil
}
