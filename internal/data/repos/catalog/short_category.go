package catalog

import (
	"context"
	"fmt"

	types "github.com/yungbote/framevault-backend/internal/domain"
	"github.com/yungbote/framevault-backend/internal/pkg/dbctx"
	"github.com/yungbote/framevault-backend/internal/platform/docstore"
	"github.com/yungbote/framevault-backend/internal/platform/logger"
)

// ShortCategoryRepo manages shortFilmCategories, whose documents are keyed by
// title and hold only a name and optional organizer marker tags.
type ShortCategoryRepo interface {
	List(ctx context.Context) ([]*types.Category, error)
	Upsert(dbc dbctx.Context, title string) error
	SetTags(dbc dbctx.Context, title string, tags []string) error
	Delete(dbc dbctx.Context, title string) error
}

type shortCategoryRepo struct {
	store docstore.Store
	log   *logger.Logger
}

func NewShortCategoryRepo(store docstore.Store, baseLog *logger.Logger) ShortCategoryRepo {
	return &shortCategoryRepo{store: store, log: baseLog.With("repo", "ShortCategoryRepo")}
}

func (r *shortCategoryRepo) List(ctx context.Context) ([]*types.Category, error) {
	docs, err := r.store.Query(ctx, docstore.Query{Collection: types.CollectionShortFilmCategories})
	if err != nil {
		return nil, fmt.Errorf("list short categories: %w", err)
	}
	out := make([]*types.Category, 0, len(docs))
	for _, d := range docs {
		out = append(out, &types.Category{
			ID:        d.ID,
			Title:     d.ID,
			Tags:      d.Strings("tags"),
			TagsUnset: !d.Has("tags"),
			Status:    types.CategoryPublished,
		})
	}
	return out, nil
}

func (r *shortCategoryRepo) Upsert(dbc dbctx.Context, title string) error {
	if title == "" {
		return fmt.Errorf("empty short category title")
	}
	return dbctx.Set(dbc, r.store, types.CollectionShortFilmCategories, title, map[string]any{"name": title}, true)
}

func (r *shortCategoryRepo) SetTags(dbc dbctx.Context, title string, tags []string) error {
	return dbctx.Update(dbc, r.store, types.CollectionShortFilmCategories, title, []docstore.Update{{Path: "tags", Value: nonNil(tags)}})
}

func (r *shortCategoryRepo) Delete(dbc dbctx.Context, title string) error {
	return dbctx.Delete(dbc, r.store, types.CollectionShortFilmCategories, title)
}
