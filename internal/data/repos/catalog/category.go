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

type CategoryRepo interface {
	NewID() string
	Get(ctx context.Context, id string) (*types.Category, error)
	GetByIDs(ctx context.Context, ids []string) ([]*types.Category, error)
	List(ctx context.Context) ([]*types.Category, error)
	ListByStatus(ctx context.Context, status types.CategoryStatus) ([]*types.Category, error)
	// FindByTitle matches case-insensitively and returns docstore.ErrNotFound when nothing matches.
	FindByTitle(ctx context.Context, title string) (*types.Category, error)
	Save(dbc dbctx.Context, c *types.Category) error
	UpdateFields(dbc dbctx.Context, id string, updates []docstore.Update) error
	Delete(dbc dbctx.Context, id string) error
}

type categoryRepo struct {
	store docstore.Store
	log   *logger.Logger
}

func NewCategoryRepo(store docstore.Store, baseLog *logger.Logger) CategoryRepo {
	return &categoryRepo{store: store, log: baseLog.With("repo", "CategoryRepo")}
}

func (r *categoryRepo) NewID() string { return r.store.NewID(types.CollectionCategories) }

func (r *categoryRepo) Get(ctx context.Context, id string) (*types.Category, error) {
	doc, err := r.store.Get(ctx, types.CollectionCategories, id)
	if err != nil {
		return nil, err
	}
	return decodeCategory(doc)
}

func (r *categoryRepo) GetByIDs(ctx context.Context, ids []string) ([]*types.Category, error) {
	docs, err := r.store.GetAll(ctx, types.CollectionCategories, dedupe(ids))
	if err != nil {
		return nil, err
	}
	return decodeCategories(docs)
}

func (r *categoryRepo) List(ctx context.Context) ([]*types.Category, error) {
	docs, err := r.store.Query(ctx, docstore.Query{Collection: types.CollectionCategories})
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return decodeCategories(docs)
}

func (r *categoryRepo) ListByStatus(ctx context.Context, status types.CategoryStatus) ([]*types.Category, error) {
	docs, err := r.store.Query(ctx, docstore.Query{Collection: types.CollectionCategories}.
		Where("status", docstore.OpEqual, string(status)))
	if err != nil {
		return nil, fmt.Errorf("list %s categories: %w", status, err)
	}
	return decodeCategories(docs)
}

func (r *categoryRepo) FindByTitle(ctx context.Context, title string) (*types.Category, error) {
	title = strings.TrimSpace(title)
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, c := range all {
		if strings.EqualFold(strings.TrimSpace(c.Title), title) {
			return c, nil
		}
	}
	return nil, fmt.Errorf("category %q: %w", title, docstore.ErrNotFound)
}

func (r *categoryRepo) Save(dbc dbctx.Context, c *types.Category) error {
	if c == nil {
		return fmt.Errorf("nil category")
	}
	if c.ID == "" {
		c.ID = r.NewID()
	}
	now := time.Now().UTC()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now
	return dbctx.Set(dbc, r.store, types.CollectionCategories, c.ID, categoryFields(c), false)
}

func (r *categoryRepo) UpdateFields(dbc dbctx.Context, id string, updates []docstore.Update) error {
	updates = append(updates, docstore.Update{Path: "updatedAt", Value: time.Now().UTC()})
	return dbctx.Update(dbc, r.store, types.CollectionCategories, id, updates)
}

func (r *categoryRepo) Delete(dbc dbctx.Context, id string) error {
	return dbctx.Delete(dbc, r.store, types.CollectionCategories, id)
}

func categoryFields(c *types.Category) map[string]any {
	fields := map[string]any{
		"title":       c.Title,
		"description": c.Description,
		"tags":        nonNil(c.Tags),
		"status":      string(c.Status),
		"imageUrl":    c.ImageURL,
		"href":        c.Href,
		"createdAt":   c.CreatedAt,
		"updatedAt":   c.UpdatedAt,
	}
	if c.VideoURL != "" {
		fields["videoUrl"] = c.VideoURL
	}
	if c.FeaturedVideoID != "" {
		fields["featuredVideoId"] = c.FeaturedVideoID
	}
	if c.SortIndex != nil {
		fields["sortIndex"] = *c.SortIndex
	}
	return fields
}

func decodeCategory(doc *docstore.Doc) (*types.Category, error) {
	var c types.Category
	if err := doc.DataTo(&c); err != nil {
		return nil, err
	}
	c.ID = doc.ID
	return &c, nil
}

func decodeCategories(docs []*docstore.Doc) ([]*types.Category, error) {
	out := make([]*types.Category, 0, len(docs))
	for _, d := range docs {
		c, err := decodeCategory(d)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}
