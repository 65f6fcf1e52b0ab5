package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	types "github.com/yungbote/framevault-backend/internal/domain"
	"github.com/yungbote/framevault-backend/internal/pkg/dbctx"
	"github.com/yungbote/framevault-backend/internal/platform/docstore"
	"github.com/yungbote/framevault-backend/internal/platform/logger"
)

type VideoRepo interface {
	NewID() string
	Get(ctx context.Context, id string) (*types.Video, error)
	GetByIDs(ctx context.Context, ids []string) ([]*types.Video, error)
	// Page returns up to limit videos of kind ordered by document id, starting after the given id.
	Page(ctx context.Context, kind types.Kind, after string, limit int) ([]*types.Video, error)
	ListByKind(ctx context.Context, kind types.Kind) ([]*types.Video, error)
	ListByCategoryID(ctx context.Context, categoryID string) ([]*types.Video, error)
	ListShortsByCategoryTitle(ctx context.Context, title string, limit int) ([]*types.Video, error)
	Save(dbc dbctx.Context, v *types.Video) error
	UpdateFields(dbc dbctx.Context, id string, updates []docstore.Update) error
	Delete(dbc dbctx.Context, id string) error
}

type videoRepo struct {
	store docstore.Store
	log   *logger.Logger
}

func NewVideoRepo(store docstore.Store, baseLog *logger.Logger) VideoRepo {
	return &videoRepo{store: store, log: baseLog.With("repo", "VideoRepo")}
}

func (r *videoRepo) NewID() string { return r.store.NewID(types.CollectionVideos) }

func (r *videoRepo) Get(ctx context.Context, id string) (*types.Video, error) {
	doc, err := r.store.Get(ctx, types.CollectionVideos, id)
	if err != nil {
		return nil, err
	}
	return decodeVideo(doc)
}

func (r *videoRepo) GetByIDs(ctx context.Context, ids []string) ([]*types.Video, error) {
	docs, err := r.store.GetAll(ctx, types.CollectionVideos, dedupe(ids))
	if err != nil {
		return nil, err
	}
	return decodeVideos(docs)
}

func (r *videoRepo) Page(ctx context.Context, kind types.Kind, after string, limit int) ([]*types.Video, error) {
	q := docstore.Query{Collection: types.CollectionVideos, Limit: limit}.
		Where("isShort", docstore.OpEqual, kind.IsShort()).
		OrderBy(docstore.DocumentID, docstore.Asc)
	if after != "" {
		q.StartAfter = []any{after}
	}
	docs, err := r.store.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("page %s after %q: %w", kind, after, err)
	}
	return decodeVideos(docs)
}

func (r *videoRepo) ListByKind(ctx context.Context, kind types.Kind) ([]*types.Video, error) {
	return r.Page(ctx, kind, "", 0)
}

func (r *videoRepo) ListByCategoryID(ctx context.Context, categoryID string) ([]*types.Video, error) {
	docs, err := r.store.Query(ctx, docstore.Query{Collection: types.CollectionVideos}.
		Where("categoryIds", docstore.OpArrayContains, categoryID))
	if err != nil {
		return nil, err
	}
	return decodeVideos(docs)
}

func (r *videoRepo) ListShortsByCategoryTitle(ctx context.Context, title string, limit int) ([]*types.Video, error) {
	q := docstore.Query{Collection: types.CollectionVideos, Limit: limit}.
		Where("isShort", docstore.OpEqual, true).
		Where("categories", docstore.OpArrayContains, title)
	docs, err := r.store.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	return decodeVideos(docs)
}

func (r *videoRepo) Save(dbc dbctx.Context, v *types.Video) error {
	if v == nil {
		return fmt.Errorf("nil video")
	}
	if v.ID == "" {
		v.ID = r.NewID()
	}
	now := time.Now().UTC()
	if v.CreatedAt.IsZero() {
		v.CreatedAt = now
	}
	v.UpdatedAt = now
	return dbctx.Set(dbc, r.store, types.CollectionVideos, v.ID, videoFields(v), false)
}

func (r *videoRepo) UpdateFields(dbc dbctx.Context, id string, updates []docstore.Update) error {
	updates = append(updates, docstore.Update{Path: "updatedAt", Value: time.Now().UTC()})
	return dbctx.Update(dbc, r.store, types.CollectionVideos, id, updates)
}

func (r *videoRepo) Delete(dbc dbctx.Context, id string) error {
	return dbctx.Delete(dbc, r.store, types.CollectionVideos, id)
}

// videoFields always writes isShort so equality queries see every document.
func videoFields(v *types.Video) map[string]any {
	fields := map[string]any{
		"title":        v.Title,
		"description":  v.Description,
		"thumbnailUrl": v.ThumbnailURL,
		"posterUrl":    v.PosterURL,
		"videoUrl":     v.VideoURL,
		"tags":         nonNil(v.Tags),
		"categoryIds":  nonNil(v.CategoryIDs),
		"isShort":      v.IsShort,
		"createdAt":    v.CreatedAt,
		"updatedAt":    v.UpdatedAt,
	}
	if v.IsShort {
		fields["categories"] = nonNil(v.Categories)
	}
	return fields
}

func decodeVideo(doc *docstore.Doc) (*types.Video, error) {
	var v types.Video
	if err := doc.DataTo(&v); err != nil {
		return nil, err
	}
	v.ID = doc.ID
	return &v, nil
}

func decodeVideos(docs []*docstore.Doc) ([]*types.Video, error) {
	out := make([]*types.Video, 0, len(docs))
	for _, d := range docs {
		v, err := decodeVideo(d)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
