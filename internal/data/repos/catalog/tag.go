package catalog

import (
	"context"
	"fmt"

	types "github.com/yungbote/framevault-backend/internal/domain"
	"github.com/yungbote/framevault-backend/internal/pkg/dbctx"
	"github.com/yungbote/framevault-backend/internal/platform/docstore"
	"github.com/yungbote/framevault-backend/internal/platform/logger"
)

// TagRepo serves both tag collections; kind selects tags or shortFilmTags.
type TagRepo interface {
	List(ctx context.Context, kind types.Kind) ([]*types.Tag, error)
	Upsert(dbc dbctx.Context, kind types.Kind, name string) error
	// SetGroup writes the organizer bucket onto an existing tag document.
	SetGroup(dbc dbctx.Context, kind types.Kind, name, group string) error
	Delete(dbc dbctx.Context, kind types.Kind, name string) error
}

type tagRepo struct {
	store docstore.Store
	log   *logger.Logger
}

func NewTagRepo(store docstore.Store, baseLog *logger.Logger) TagRepo {
	return &tagRepo{store: store, log: baseLog.With("repo", "TagRepo")}
}

func (r *tagRepo) List(ctx context.Context, kind types.Kind) ([]*types.Tag, error) {
	docs, err := r.store.Query(ctx, docstore.Query{Collection: types.TagCollection(kind)})
	if err != nil {
		return nil, fmt.Errorf("list %s tags: %w", kind, err)
	}
	out := make([]*types.Tag, 0, len(docs))
	for _, d := range docs {
		t := &types.Tag{ID: d.ID, Name: d.String("name"), Group: d.String("group")}
		if t.Name == "" {
			t.Name = d.ID
		}
		out = append(out, t)
	}
	return out, nil
}

func (r *tagRepo) Upsert(dbc dbctx.Context, kind types.Kind, name string) error {
	if name == "" {
		return fmt.Errorf("empty tag name")
	}
	return dbctx.Set(dbc, r.store, types.TagCollection(kind), name, map[string]any{"name": name}, true)
}

func (r *tagRepo) SetGroup(dbc dbctx.Context, kind types.Kind, name, group string) error {
	return dbctx.Update(dbc, r.store, types.TagCollection(kind), name, []docstore.Update{{Path: "group", Value: group}})
}

func (r *tagRepo) Delete(dbc dbctx.Context, kind types.Kind, name string) error {
	return dbctx.Delete(dbc, r.store, types.TagCollection(kind), name)
}
