package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/yungbote/framevault-backend/internal/data/repos"
	types "github.com/yungbote/framevault-backend/internal/domain"
	"github.com/yungbote/framevault-backend/internal/pkg/dbctx"
	"github.com/yungbote/framevault-backend/internal/platform/apierr"
	"github.com/yungbote/framevault-backend/internal/platform/docstore"
	"github.com/yungbote/framevault-backend/internal/platform/logger"
)

const draftCategoryDescription = "A compelling description of the category goes here."

type CategoryFilter struct {
	Query string
	Tag   string
}

type CategoryInput struct {
	Title           string               `json:"title" binding:"required,notblank"`
	Description     string               `json:"description"`
	Tags            []string             `json:"tags"`
	Status          types.CategoryStatus `json:"status" binding:"omitempty,oneof=draft published"`
	ImageURL        string               `json:"imageUrl"`
	VideoURL        string               `json:"videoUrl"`
	FeaturedVideoID string               `json:"featuredVideoId"`
}

type CategoryService interface {
	List(ctx context.Context, f CategoryFilter) ([]*types.Category, error)
	Create(ctx context.Context, in CategoryInput) (*types.Category, error)
	// CreateDraft makes an unpublished category with placeholder copy and artwork.
	CreateDraft(ctx context.Context, title string) (*types.Category, error)
	Update(ctx context.Context, id string, in CategoryInput) (*types.Category, error)
	Delete(ctx context.Context, id string) error
	Publish(ctx context.Context, id string) error
	// PublishAll publishes every draft in one batch and returns how many changed.
	PublishAll(ctx context.Context) (int, error)
	// Reorder sets sortIndex to each id's position.
	Reorder(ctx context.Context, ids []string) error
	SetTags(ctx context.Context, id string, tags []string) error
}

type categoryService struct {
	log          *logger.Logger
	store        docstore.Store
	categoryRepo repos.CategoryRepo
	artwork      ArtworkService
	notifier     CatalogNotifier
}

func NewCategoryService(log *logger.Logger, store docstore.Store, categoryRepo repos.CategoryRepo, artwork ArtworkService, notifier CatalogNotifier) CategoryService {
	if notifier == nil {
		notifier = NewCatalogNotifier(nil)
	}
	return &categoryService{
		log:          log.With("service", "CategoryService"),
		store:        store,
		categoryRepo: categoryRepo,
		artwork:      artwork,
		notifier:     notifier,
	}
}

func (cs *categoryService) List(ctx context.Context, f CategoryFilter) ([]*types.Category, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	all, err := cs.categoryRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(strings.TrimSpace(f.Query))
	tag := strings.TrimSpace(f.Tag)
	out := make([]*types.Category, 0, len(all))
	for _, c := range all {
		if q != "" && !strings.Contains(strings.ToLower(c.Title), q) && !strings.Contains(strings.ToLower(c.Description), q) {
			continue
		}
		if tag != "" && !c.HasTag(tag) {
			continue
		}
		out = append(out, c)
	}
	sortCategories(out)
	return out, nil
}

func (cs *categoryService) Create(ctx context.Context, in CategoryInput) (*types.Category, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	c := &types.Category{ID: cs.categoryRepo.NewID()}
	if err := cs.apply(ctx, c, in); err != nil {
		return nil, err
	}
	if c.Status == "" {
		c.Status = types.CategoryDraft
	}
	if err := cs.categoryRepo.Save(dbctx.New(ctx), c); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	cs.notifier.CatalogChanged(ctx, "category", c.ID, "created")
	return c, nil
}

func (cs *categoryService) CreateDraft(ctx context.Context, title string) (*types.Category, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apierr.BadRequest("missing_title", "title is required")
	}
	id := cs.categoryRepo.NewID()
	c := &types.Category{
		ID:          id,
		Title:       title,
		Description: draftCategoryDescription,
		Tags:        []string{},
		Status:      types.CategoryDraft,
		ImageURL:    cs.placeholder(ctx, title),
		Href:        types.BrowseHref(id),
	}
	if err := cs.categoryRepo.Save(dbctx.New(ctx), c); err != nil {
		return nil, fmt.Errorf("create draft category: %w", err)
	}
	cs.notifier.CatalogChanged(ctx, "category", c.ID, "created")
	return c, nil
}

func (cs *categoryService) Update(ctx context.Context, id string, in CategoryInput) (*types.Category, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	c, err := cs.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := cs.apply(ctx, c, in); err != nil {
		return nil, err
	}
	if err := cs.categoryRepo.Save(dbctx.New(ctx), c); err != nil {
		return nil, fmt.Errorf("update category %s: %w", id, err)
	}
	cs.notifier.CatalogChanged(ctx, "category", c.ID, "updated")
	return c, nil
}

func (cs *categoryService) apply(ctx context.Context, c *types.Category, in CategoryInput) error {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return apierr.BadRequest("missing_title", "title is required")
	}
	c.Title = title
	c.Description = strings.TrimSpace(in.Description)
	c.Tags = normalizeTitles(in.Tags)
	if in.Status != "" {
		c.Status = in.Status
	}
	c.ImageURL = strings.TrimSpace(in.ImageURL)
	if c.ImageURL == "" {
		c.ImageURL = cs.placeholder(ctx, title)
	}
	c.VideoURL = strings.TrimSpace(in.VideoURL)
	c.FeaturedVideoID = strings.TrimSpace(in.FeaturedVideoID)
	if c.Href == "" {
		c.Href = types.BrowseHref(c.ID)
	}
	return nil
}

func (cs *categoryService) placeholder(ctx context.Context, title string) string {
	if cs.artwork == nil {
		return PlaceholderURL(CategoryWidth, CategoryHeight)
	}
	url, err := cs.artwork.Placeholder(ctx, types.FolderCategories, title, CategoryWidth, CategoryHeight)
	if err != nil {
		cs.log.Warn("category placeholder failed; using hosted placeholder", "error", err)
		return PlaceholderURL(CategoryWidth, CategoryHeight)
	}
	return url
}

func (cs *categoryService) get(ctx context.Context, id string) (*types.Category, error) {
	c, err := cs.categoryRepo.Get(ctx, id)
	if err != nil {
		if docstore.IsNotFound(err) {
			return nil, apierr.NotFound("category_not_found", "category %q not found", id)
		}
		return nil, err
	}
	return c, nil
}

func (cs *categoryService) Delete(ctx context.Context, id string) error {
	if _, err := requireAdmin(ctx); err != nil {
		return err
	}
	if _, err := cs.get(ctx, id); err != nil {
		return err
	}
	if err := cs.categoryRepo.Delete(dbctx.New(ctx), id); err != nil {
		return fmt.Errorf("delete category %s: %w", id, err)
	}
	cs.notifier.CatalogChanged(ctx, "category", id, "deleted")
	return nil
}

func (cs *categoryService) Publish(ctx context.Context, id string) error {
	if _, err := requireAdmin(ctx); err != nil {
		return err
	}
	if err := cs.categoryRepo.UpdateFields(dbctx.New(ctx), id, []docstore.Update{
		{Path: "status", Value: string(types.CategoryPublished)},
	}); err != nil {
		if docstore.IsNotFound(err) {
			return apierr.NotFound("category_not_found", "category %q not found", id)
		}
		return fmt.Errorf("publish category %s: %w", id, err)
	}
	cs.notifier.CatalogChanged(ctx, "category", id, "published")
	return nil
}

func (cs *categoryService) PublishAll(ctx context.Context) (int, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return 0, err
	}
	drafts, err := cs.categoryRepo.ListByStatus(ctx, types.CategoryDraft)
	if err != nil {
		return 0, err
	}
	if len(drafts) == 0 {
		return 0, nil
	}
	err = cs.store.Batch(ctx, func(b docstore.Batch) error {
		dbc := dbctx.New(ctx).WithBatch(b)
		for _, c := range drafts {
			if err := cs.categoryRepo.UpdateFields(dbc, c.ID, []docstore.Update{
				{Path: "status", Value: string(types.CategoryPublished)},
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("publish all: %w", err)
	}
	cs.notifier.CatalogChanged(ctx, "category", "", "published")
	cs.log.Info("published drafts", "count", len(drafts))
	return len(drafts), nil
}

func (cs *categoryService) Reorder(ctx context.Context, ids []string) error {
	if _, err := requireAdmin(ctx); err != nil {
		return err
	}
	if len(ids) == 0 {
		return apierr.BadRequest("missing_ids", "ids are required")
	}
	err := cs.store.Batch(ctx, func(b docstore.Batch) error {
		dbc := dbctx.New(ctx).WithBatch(b)
		for i, id := range ids {
			if err := cs.categoryRepo.UpdateFields(dbc, id, []docstore.Update{{Path: "sortIndex", Value: i}}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if docstore.IsNotFound(err) {
			return apierr.NotFound("category_not_found", "unknown category in order: %v", err)
		}
		return fmt.Errorf("reorder categories: %w", err)
	}
	cs.notifier.CatalogChanged(ctx, "category", "", "reordered")
	return nil
}

func (cs *categoryService) SetTags(ctx context.Context, id string, tags []string) error {
	if _, err := requireAdmin(ctx); err != nil {
		return err
	}
	if err := cs.categoryRepo.UpdateFields(dbctx.New(ctx), id, []docstore.Update{
		{Path: "tags", Value: normalizeTitles(tags)},
	}); err != nil {
		if docstore.IsNotFound(err) {
			return apierr.NotFound("category_not_found", "category %q not found", id)
		}
		return fmt.Errorf("set category tags %s: %w", id, err)
	}
	cs.notifier.CatalogChanged(ctx, "category", id, "updated")
	return nil
}

func sortCategories(cs []*types.Category) {
	sort.SliceStable(cs, func(i, j int) bool { return sortIndex(cs[i]) < sortIndex(cs[j]) })
}
