package services

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	types "github.com/yungbote/framevault-backend/internal/domain"
	"github.com/yungbote/framevault-backend/internal/platform/apierr"
	"github.com/yungbote/framevault-backend/internal/platform/ctxutil"
	"github.com/yungbote/framevault-backend/internal/platform/gcp"
	"github.com/yungbote/framevault-backend/internal/platform/logger"
)

var uploadsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "framevault_uploads_total",
		Help: "Admin media uploads by folder and status",
	},
	[]string{"folder", "status"},
)

type UploadInput struct {
	File        io.Reader
	FileName    string
	ContentType string
	Folder      string
}

type UploadService interface {
	// Upload stores the file at <folder>/<unixMillis>_<name>, makes it public and returns its URL.
	Upload(ctx context.Context, in UploadInput) (*types.Upload, error)
	List(ctx context.Context) ([]*types.Upload, error)
}

type uploadService struct {
	log           *logger.Logger
	bucketService gcp.BucketService
	tracker       UploadTracker
	notifier      CatalogNotifier
	now           func() time.Time
}

func NewUploadService(log *logger.Logger, bucketService gcp.BucketService, tracker UploadTracker, notifier CatalogNotifier) UploadService {
	if tracker == nil {
		tracker = NewMemoryUploadTracker()
	}
	if notifier == nil {
		notifier = NewCatalogNotifier(nil)
	}
	return &uploadService{
		log:           log.With("service", "UploadService"),
		bucketService: bucketService,
		tracker:       tracker,
		notifier:      notifier,
		now:           time.Now,
	}
}

func requireAdmin(ctx context.Context) (*ctxutil.Identity, error) {
	id := ctxutil.GetIdentity(ctx)
	if id == nil || id.UID == "" {
		return nil, apierr.Unauthorized("unauthenticated")
	}
	if !id.IsAdmin() {
		return nil, apierr.Forbidden("admin_required")
	}
	return id, nil
}

func (us *uploadService) Upload(ctx context.Context, in UploadInput) (*types.Upload, error) {
	id, err := requireAdmin(ctx)
	if err != nil {
		return nil, err
	}
	if in.File == nil || strings.TrimSpace(in.FileName) == "" {
		return nil, apierr.BadRequest("missing_file", "file is required")
	}
	if us.bucketService == nil {
		return nil, fmt.Errorf("object storage not configured")
	}

	started := us.now()
	folder := types.ResolveFolder(in.Folder)
	up := &types.Upload{
		ID:        uuid.NewString(),
		UserID:    id.UID,
		FileName:  in.FileName,
		Folder:    folder,
		Status:    types.UploadPending,
		StartedAt: started.UTC(),
	}
	us.track(ctx, up)
	us.notifier.UploadStarted(ctx, up)

	key := types.ObjectKey(folder, in.FileName, started)
	url, err := us.store(ctx, key, in)
	finished := us.now().UTC()
	up.FinishedAt = &finished
	if err != nil {
		up.Status = types.UploadError
		up.Error = err.Error()
		us.track(ctx, up)
		us.notifier.UploadFinished(ctx, up)
		uploadsTotal.WithLabelValues(folder, string(types.UploadError)).Inc()
		us.log.Error("upload failed", "key", key, "error", err)
		return up, err
	}
	up.Status = types.UploadSuccess
	up.URL = url
	us.track(ctx, up)
	us.notifier.UploadFinished(ctx, up)
	uploadsTotal.WithLabelValues(folder, string(types.UploadSuccess)).Inc()
	us.log.Info("upload stored", "key", key, "uid", id.UID)
	return up, nil
}

func (us *uploadService) store(ctx context.Context, key string, in UploadInput) (string, error) {
	if err := us.bucketService.Upload(ctx, key, in.File, in.ContentType); err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	if err := us.bucketService.MakePublic(ctx, key); err != nil {
		return "", fmt.Errorf("make public %s: %w", key, err)
	}
	return us.bucketService.GetPublicURL(key), nil
}

func (us *uploadService) track(ctx context.Context, up *types.Upload) {
	if err := us.tracker.Put(ctx, up); err != nil {
		us.log.Warn("upload tracking failed (ignored)", "upload_id", up.ID, "error", err)
	}
}

func (us *uploadService) List(ctx context.Context) ([]*types.Upload, error) {
	id, err := requireAdmin(ctx)
	if err != nil {
		return nil, err
	}
	return us.tracker.List(ctx, id.UID)
}
