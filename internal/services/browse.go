package services

import (
	"context"
	"fmt"
	"math/rand"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/yungbote/framevault-backend/internal/data/repos"
	types "github.com/yungbote/framevault-backend/internal/domain"
	"github.com/yungbote/framevault-backend/internal/platform/apierr"
	"github.com/yungbote/framevault-backend/internal/platform/docstore"
	"github.com/yungbote/framevault-backend/internal/platform/logger"
)

type BrowseRow struct {
	Category *types.Category `json:"category"`
	Videos   []*types.Video  `json:"videos"`
}

type CategoryDetail struct {
	Category *types.Category `json:"category"`
	Featured *types.Video    `json:"featured"`
	Videos   []*types.Video  `json:"videos"`
}

type BrowseService interface {
	// Browse lists published categories that have long-form videos, busiest first.
	Browse(ctx context.Context) ([]*BrowseRow, error)
	Category(ctx context.Context, id string) (*CategoryDetail, error)
}

type browseService struct {
	log          *logger.Logger
	videoRepo    repos.VideoRepo
	categoryRepo repos.CategoryRepo
	pick         func(n int) int
}

func NewBrowseService(log *logger.Logger, videoRepo repos.VideoRepo, categoryRepo repos.CategoryRepo) BrowseService {
	return &browseService{
		log:          log.With("service", "BrowseService"),
		videoRepo:    videoRepo,
		categoryRepo: categoryRepo,
		pick:         rand.Intn,
	}
}

func (bs *browseService) Browse(ctx context.Context) ([]*BrowseRow, error) {
	var (
		categories []*types.Category
		videos     []*types.Video
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		categories, err = bs.categoryRepo.ListByStatus(gctx, types.CategoryPublished)
		return err
	})
	g.Go(func() error {
		var err error
		videos, err = bs.videoRepo.ListByKind(gctx, types.KindVideos)
		return err
	})
	if err := g.Wait(); err != nil {
		bs.log.Warn("browse fetch failed", "error", err)
		return nil, fmt.Errorf("browse: %w", err)
	}

	byCategory := map[string][]*types.Video{}
	byID := map[string]*types.Video{}
	for _, v := range videos {
		byID[v.ID] = v
		for _, cid := range v.CategoryIDs {
			byCategory[cid] = append(byCategory[cid], v)
		}
	}

	rows := make([]*BrowseRow, 0, len(categories))
	for _, c := range categories {
		members := byCategory[c.ID]
		if len(members) == 0 {
			continue
		}
		if c.Href == "" {
			c.Href = types.BrowseHref(c.ID)
		}
		if c.FeaturedVideoID != "" {
			c.ApplyFeatured(byID[c.FeaturedVideoID])
		}
		rows = append(rows, &BrowseRow{Category: c, Videos: members})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if a, b := len(rows[i].Videos), len(rows[j].Videos); a != b {
			return a > b
		}
		return sortIndex(rows[i].Category) < sortIndex(rows[j].Category)
	})
	return rows, nil
}

func sortIndex(c *types.Category) int {
	if c.SortIndex == nil {
		return int(^uint(0) >> 1)
	}
	return *c.SortIndex
}

// Category returns the category with its members. The featured video is the
// configured one when it is a member, otherwise a random member, otherwise a
// stand-in built from the category's own media.
func (bs *browseService) Category(ctx context.Context, id string) (*CategoryDetail, error) {
	c, err := bs.categoryRepo.Get(ctx, id)
	if err != nil {
		if docstore.IsNotFound(err) {
			return nil, apierr.NotFound("category_not_found", "category %q not found", id)
		}
		return nil, err
	}
	if c.Href == "" {
		c.Href = types.BrowseHref(c.ID)
	}

	var byID, byTitle []*types.Video
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		byID, err = bs.videoRepo.ListByCategoryID(gctx, c.ID)
		return err
	})
	g.Go(func() error {
		var err error
		byTitle, err = bs.videoRepo.ListShortsByCategoryTitle(gctx, c.Title, 0)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("category %s members: %w", id, err)
	}
	members := mergeVideos(byID, byTitle)

	out := &CategoryDetail{Category: c, Videos: members}
	for _, v := range members {
		if c.FeaturedVideoID != "" && v.ID == c.FeaturedVideoID {
			out.Featured = v
			break
		}
	}
	if out.Featured == nil && len(members) > 0 {
		out.Featured = members[bs.pick(len(members))]
	}
	if out.Featured == nil {
		out.Featured = &types.Video{
			ID:           c.ID,
			Title:        c.Title,
			Description:  c.Description,
			ThumbnailURL: c.ImageURL,
			PosterURL:    c.ImageURL,
			VideoURL:     c.VideoURL,
			Tags:         c.Tags,
			CategoryIDs:  []string{c.ID},
		}
	}
	return out, nil
}

func mergeVideos(lists ...[]*types.Video) []*types.Video {
	seen := map[string]bool{}
	out := []*types.Video{}
	for _, l := range lists {
		for _, v := range l {
			if v == nil || seen[v.ID] {
				continue
			}
			seen[v.ID] = true
			out = append(out, v)
		}
	}
	return out
}
