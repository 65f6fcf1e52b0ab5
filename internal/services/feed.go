package services

import (
	"context"
	"fmt"

	"github.com/yungbote/framevault-backend/internal/data/repos"
	types "github.com/yungbote/framevault-backend/internal/domain"
	"github.com/yungbote/framevault-backend/internal/paginate"
	"github.com/yungbote/framevault-backend/internal/platform/apierr"
	"github.com/yungbote/framevault-backend/internal/platform/docstore"
	"github.com/yungbote/framevault-backend/internal/platform/logger"
)

const relatedShortsLimit = 10

type ShortDetail struct {
	Short   *types.Video   `json:"short"`
	Related []*types.Video `json:"related"`
}

type FeedService interface {
	// Page returns one page of kind ordered by id, resuming after the cursor.
	Page(ctx context.Context, kind types.Kind, after string, limit int) (paginate.Page[*types.Video], error)
	// Fetcher exposes the same query for stateful paginators.
	Fetcher(kind types.Kind) paginate.Fetcher[*types.Video]
	GetVideo(ctx context.Context, id string) (*types.Video, error)
	GetShort(ctx context.Context, id string) (*ShortDetail, error)
}

type feedService struct {
	log         *logger.Logger
	videoRepo   repos.VideoRepo
	pageSize    int
	maxPageSize int
}

func NewFeedService(log *logger.Logger, videoRepo repos.VideoRepo, pageSize, maxPageSize int) FeedService {
	if pageSize <= 0 {
		pageSize = paginate.DefaultPageSize
	}
	if maxPageSize < pageSize {
		maxPageSize = pageSize
	}
	return &feedService{
		log:         log.With("service", "FeedService"),
		videoRepo:   videoRepo,
		pageSize:    pageSize,
		maxPageSize: maxPageSize,
	}
}

func VideoKey(v *types.Video) string { return v.ID }

func (fs *feedService) Fetcher(kind types.Kind) paginate.Fetcher[*types.Video] {
	return func(ctx context.Context, after string, limit int) ([]*types.Video, error) {
		return fs.videoRepo.Page(ctx, kind, after, limit)
	}
}

func (fs *feedService) Page(ctx context.Context, kind types.Kind, after string, limit int) (paginate.Page[*types.Video], error) {
	if limit <= 0 {
		limit = fs.pageSize
	}
	if limit > fs.maxPageSize {
		limit = fs.maxPageSize
	}
	page, err := paginate.FetchPage(ctx, fs.Fetcher(kind), VideoKey, after, limit)
	if err != nil {
		fs.log.Warn("feed page failed", "kind", kind, "after", after, "error", err)
		return page, fmt.Errorf("load %s page: %w", kind, err)
	}
	return page, nil
}

func (fs *feedService) GetVideo(ctx context.Context, id string) (*types.Video, error) {
	v, err := fs.videoRepo.Get(ctx, id)
	if err != nil {
		if docstore.IsNotFound(err) {
			return nil, apierr.NotFound("video_not_found", "video %q not found", id)
		}
		return nil, err
	}
	return v, nil
}

// GetShort returns the short with up to ten others sharing its first category.
func (fs *feedService) GetShort(ctx context.Context, id string) (*ShortDetail, error) {
	v, err := fs.GetVideo(ctx, id)
	if err != nil {
		return nil, err
	}
	if !v.IsShort {
		return nil, apierr.NotFound("short_not_found", "short %q not found", id)
	}
	out := &ShortDetail{Short: v, Related: []*types.Video{}}
	title := v.FirstCategoryTitle()
	if title == "" {
		return out, nil
	}
	candidates, err := fs.videoRepo.ListShortsByCategoryTitle(ctx, title, relatedShortsLimit+1)
	if err != nil {
		fs.log.Warn("related shorts lookup failed", "short_id", id, "category", title, "error", err)
		return out, nil
	}
	for _, c := range candidates {
		if c.ID == v.ID {
			continue
		}
		out.Related = append(out.Related, c)
		if len(out.Related) == relatedShortsLimit {
			break
		}
	}
	return out, nil
}
