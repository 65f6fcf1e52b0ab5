package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/yungbote/framevault-backend/internal/data/repos"
	types "github.com/yungbote/framevault-backend/internal/domain"
	"github.com/yungbote/framevault-backend/internal/paginate"
	"github.com/yungbote/framevault-backend/internal/pkg/dbctx"
	"github.com/yungbote/framevault-backend/internal/platform/docstore"
	"github.com/yungbote/framevault-backend/internal/platform/logger"
)

// ReindexResult reports one reindex run. Skipped lists tags that cannot key a
// document; the videos carrying them are left alone.
type ReindexResult struct {
	Kind    types.Kind `json:"kind"`
	Videos  int        `json:"videos"`
	Pages   int        `json:"pages"`
	Tags    []string   `json:"tags"`
	Skipped []string   `json:"skipped,omitempty"`
	DryRun  bool       `json:"dryRun"`
}

// TagIndexer rebuilds the tag documents for a kind from the videos that use them.
type TagIndexer interface {
	Reindex(ctx context.Context, kind types.Kind, dryRun bool) (*ReindexResult, error)
}

type tagIndexer struct {
	log       *logger.Logger
	store     docstore.Store
	videoRepo repos.VideoRepo
	tagRepo   repos.TagRepo
	pageSize  int
}

func NewTagIndexer(log *logger.Logger, store docstore.Store, videoRepo repos.VideoRepo, tagRepo repos.TagRepo, pageSize int) TagIndexer {
	return &tagIndexer{
		log:       log.With("service", "TagIndexer"),
		store:     store,
		videoRepo: videoRepo,
		tagRepo:   tagRepo,
		pageSize:  pageSize,
	}
}

func (ti *tagIndexer) Reindex(ctx context.Context, kind types.Kind, dryRun bool) (*ReindexResult, error) {
	fetch := func(ctx context.Context, after string, limit int) ([]*types.Video, error) {
		return ti.videoRepo.Page(ctx, kind, after, limit)
	}
	p := paginate.New("reindex_"+string(kind), fetch, VideoKey, ti.pageSize, ti.log)

	res := &ReindexResult{Kind: kind, DryRun: dryRun}
	for initial := true; initial || p.HasMore(); initial = false {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if _, err := p.LoadNextPage(ctx, initial); err != nil {
			return nil, fmt.Errorf("walk %s: %w", kind, err)
		}
		res.Pages++
	}

	seen := map[string]bool{}
	for _, v := range p.Items() {
		res.Videos++
		for _, t := range v.Tags {
			if t = types.NormalizeTag(t); t != "" {
				seen[t] = true
			}
		}
	}
	res.Tags = make([]string, 0, len(seen))
	for t := range seen {
		if !types.ValidKey(t) {
			res.Skipped = append(res.Skipped, t)
			continue
		}
		res.Tags = append(res.Tags, t)
	}
	sort.Strings(res.Tags)
	sort.Strings(res.Skipped)
	if len(res.Skipped) > 0 {
		ti.log.Warn("tags skipped; not usable as document ids", "kind", kind, "tags", res.Skipped)
	}

	if dryRun || len(res.Tags) == 0 {
		return res, nil
	}
	err := ti.store.Batch(ctx, func(b docstore.Batch) error {
		dbc := dbctx.New(ctx).WithBatch(b)
		for _, t := range res.Tags {
			if err := ti.tagRepo.Upsert(dbc, kind, t); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("write %s tags: %w", kind, err)
	}
	ti.log.Info("tags reindexed", "kind", kind, "videos", res.Videos, "tags", len(res.Tags))
	return res, nil
}
